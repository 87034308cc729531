package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/HerbHall/shopfind/internal/catalog"
	"github.com/HerbHall/shopfind/internal/config"
	"github.com/HerbHall/shopfind/internal/mcptool"
	"github.com/HerbHall/shopfind/internal/source"
)

// runMCP serves the catalog tools over stdio. Stdout carries the protocol,
// so logs go to stderr.
func runMCP(args []string) {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	configPath := fs.String("config", "", "path to configuration file")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	settings, cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	src, closeSource, err := buildSource(ctx, settings)
	if err != nil {
		logger.Fatal("failed to configure catalog source", zap.Error(err))
	}
	defer closeSource()

	store := catalog.NewStore(logger.Named("store"))
	_ = source.Load(ctx, src, store, logger.Named("source"))

	tools := mcptool.New(newEngine(cfg.Sub("search"), store, logger), logger.Named("mcp"))
	if err := tools.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("mcp server stopped", zap.Error(err))
	}
}
