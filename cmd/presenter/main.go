package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpadapter "github.com/querent-labs/horary-display/internal/adapter/http"
	kafkaadapter "github.com/querent-labs/horary-display/internal/adapter/kafka"
	"github.com/querent-labs/horary-display/internal/adapter/taxonomy"
	"github.com/querent-labs/horary-display/internal/config"
	"github.com/querent-labs/horary-display/internal/domain"
	"github.com/querent-labs/horary-display/internal/observability"
	"github.com/querent-labs/horary-display/internal/pipeline"
)

func main() {
	// Load .env if present; real environment variables take precedence.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Contract resolution (feature-flagged via TAXONOMY_ENABLED / TAXONOMY_URL).
	var contracts domain.ContractResolver
	if cfg.TaxonomyEnabled {
		client := taxonomy.NewClient(cfg.TaxonomyURL, cfg.TaxonomyTimeout, metrics, logger)
		contracts = taxonomy.NewCachedResolver(client, cfg.TaxonomyCacheSize, metrics)
		metrics.TaxonomyEnabled.Set(1)
		logger.Info("remote taxonomy enabled", "url", cfg.TaxonomyURL, "cache_size", cfg.TaxonomyCacheSize, "timeout", cfg.TaxonomyTimeout)
	} else {
		contracts = taxonomy.NewStaticResolver()
		logger.Info("remote taxonomy disabled, using built-in contracts")
	}

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(contracts, cfg.AggregatorMode, metrics, logger)

	p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, transformer, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start display pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
