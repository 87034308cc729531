package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/HerbHall/shopfind/internal/catalog"
	"github.com/HerbHall/shopfind/internal/config"
	"github.com/HerbHall/shopfind/internal/live"
	"github.com/HerbHall/shopfind/internal/metrics"
	"github.com/HerbHall/shopfind/internal/server"
	"github.com/HerbHall/shopfind/internal/source"
	"github.com/HerbHall/shopfind/internal/version"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "serve":
			runServe(os.Args[2:])
			return
		case "query":
			runQuery(os.Args[2:])
			return
		case "import":
			runImport(os.Args[2:])
			return
		case "export":
			runExport(os.Args[2:])
			return
		case "mcp":
			runMCP(os.Args[2:])
			return
		case "--version", "-version", "version":
			fmt.Println(version.Info())
			return
		}
	}
	runServe(os.Args[1:])
}

func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "path to configuration file")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("ShopFind server starting", zap.String("version", version.Short()))

	settings, cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	recorder := metrics.NewRecorder()
	store := catalog.NewStore(logger.Named("store"))
	engine := newEngine(cfg.Sub("search"), store, logger, catalog.WithObserver(recorder))

	src, closeSource, err := buildSource(ctx, settings)
	if err != nil {
		logger.Fatal("failed to configure catalog source", zap.Error(err))
	}
	defer closeSource()

	// A failed fetch leaves the catalog empty; the server still starts.
	fetchCtx, fetchCancel := context.WithTimeout(ctx, settings.Source.Timeout+time.Second)
	_ = source.Load(fetchCtx, src, store, logger.Named("source"))
	fetchCancel()
	recorder.SetCatalogSize(store.Len())

	sink, closeSink, err := buildSink(cfg.Sub("sink"), logger)
	if err != nil {
		logger.Fatal("failed to configure selection sink", zap.Error(err))
	}
	defer closeSink()

	srv := server.New(settings.Server.Addr(), logger, []server.RouteRegistrar{
		catalog.NewHandler(engine, sink, logger.Named("api"), catalog.WithSelectionObserver(recorder)),
		live.NewHandler(engine, sink, logger.Named("live"), live.WithSelectionObserver(recorder)),
	},
		server.WithRateLimit(settings.Server.RateLimit, settings.Server.RateBurst),
		server.WithMetrics(recorder.Handler()),
		server.WithCatalogSize(store.Len),
	)

	// Start server in background
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	logger.Info("ShopFind server ready",
		zap.String("addr", settings.Server.Addr()),
		zap.Int("products", store.Len()),
	)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("ShopFind server stopped")
}
