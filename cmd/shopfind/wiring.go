package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/HerbHall/shopfind/internal/catalog"
	"github.com/HerbHall/shopfind/internal/config"
	"github.com/HerbHall/shopfind/internal/services"
	"github.com/HerbHall/shopfind/internal/sink"
	"github.com/HerbHall/shopfind/internal/source"
	"github.com/HerbHall/shopfind/internal/store"
)

// newEngine builds the query engine from the "search" config subtree.
func newEngine(search config.Config, store *catalog.Store, logger *zap.Logger, opts ...catalog.EngineOption) *catalog.Engine {
	var matcherOpts []catalog.Option
	if search.IsSet("threshold") {
		matcherOpts = append(matcherOpts, catalog.WithThreshold(search.GetFloat64("threshold")))
	}
	if search.IsSet("distance") {
		matcherOpts = append(matcherOpts, catalog.WithDistance(search.GetInt("distance")))
	}
	return catalog.NewEngine(store, catalog.NewMatcher(matcherOpts...), logger.Named("engine"), opts...)
}

// buildSource returns the configured catalog source and a cleanup func.
func buildSource(ctx context.Context, settings *config.Settings) (source.Source, func(), error) {
	noop := func() {}
	switch settings.Source.Kind {
	case config.SourceHTTP:
		return source.NewHTTPSource(settings.Source.URL, settings.Source.Timeout), noop, nil
	case config.SourceFile:
		return source.NewFileSource(settings.Source.Path), noop, nil
	case config.SourceSQLite:
		db, err := store.New(settings.DB.Path)
		if err != nil {
			return nil, noop, err
		}
		repo, err := services.NewSQLiteProductRepository(ctx, db)
		if err != nil {
			db.Close()
			return nil, noop, err
		}
		return source.NewSQLiteSource(repo), func() { db.Close() }, nil
	case config.SourceEmbedded:
		return source.NewEmbeddedSource(), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown source kind %q", settings.Source.Kind)
	}
}

// buildSink returns the selection sink described by the "sink" config
// subtree and a cleanup func.
func buildSink(cfg config.Config, logger *zap.Logger) (catalog.SelectionSink, func(), error) {
	noop := func() {}
	switch cfg.GetString("kind") {
	case config.SinkMQTT:
		s, err := sink.NewMQTTSink(sink.MQTTConfig{
			Broker:   cfg.GetString("broker"),
			Topic:    cfg.GetString("topic"),
			ClientID: cfg.GetString("client_id"),
			Timeout:  cfg.GetDuration("timeout"),
		}, logger.Named("sink"))
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	case config.SinkNone:
		return sink.Nop{}, noop, nil
	default:
		return sink.NewLogSink(logger.Named("sink")), noop, nil
	}
}
