package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mrops-br/storefront-api/internal/app/service"
	"github.com/mrops-br/storefront-api/internal/infrastructure/config"
	"github.com/mrops-br/storefront-api/internal/infrastructure/http"
	"github.com/mrops-br/storefront-api/internal/infrastructure/http/handler"
	"github.com/mrops-br/storefront-api/internal/infrastructure/repository/memory"
	"github.com/mrops-br/storefront-api/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/metric"
)

func main() {
	// Load configuration
	cfg := config.LoadConfig()

	// Initialize OpenTelemetry
	telem, err := telemetry.NewTelemetry(&cfg.OTLP)
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Ensure telemetry is shutdown on exit
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := telem.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	tracer := telem.TracerProvider.Tracer(cfg.OTLP.ServiceName)
	meter := telem.MeterProvider.Meter(cfg.OTLP.ServiceName)
	logger := telem.Logger

	logger.Info("Starting Storefront API",
		slog.Duration("catalog_load_delay", cfg.Catalog.LoadDelay),
		slog.Float64("tax_rate", cfg.Checkout.TaxRate),
	)

	// The catalog loads in the background; requests that need it get 503
	// until it lands.
	source := memory.NewCatalogSource(memory.SeedCatalog(), cfg.Catalog.LoadDelay, cfg.Catalog.Fail, tracer, logger)
	loader := service.NewCatalogLoader(source, logger)
	loader.Start(ctx)

	sessions := memory.NewSessionRepository(tracer, logger)
	_, err = meter.Int64ObservableGauge(
		"storefront.sessions.active",
		metric.WithDescription("Number of live storefront sessions"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(int64(sessions.Count()))
			return nil
		}),
	)
	if err != nil {
		logger.Warn("Failed to register sessions gauge", slog.String("error", err.Error()))
	}

	storefrontService := service.NewStorefrontService(loader, sessions, cfg.Checkout.TaxRate, tracer, meter, logger)
	storefrontHandler := handler.NewStorefrontHandler(storefrontService, logger)

	server := http.NewServer(&cfg.Server, storefrontHandler, logger, telem)

	go func() {
		if err := server.Start(); err != nil {
			logger.Error("Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("Shutting down server...")
	case <-ctx.Done():
		logger.Info("Context cancelled, shutting down...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}

	logger.Info("Server stopped")
}
