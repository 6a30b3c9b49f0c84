package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	httpadapter "tasktracker/internal/adapter/http"
	"tasktracker/internal/adapter/http/middleware"
	"tasktracker/internal/adapter/telemetry"
	"tasktracker/internal/core/port"
	"tasktracker/pkg/config"
)

const serviceVersion = "1.0.0"

func main() {
	cfg, err := config.Load(".env")

	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	logger, err := config.NewLokiLogger(cfg.ServiceName, cfg.LokiURL)

	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}

	err = run(cfg, logger)
	logger.Sync()

	if err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}

	slog.Info("Shutdown complete")
}

func run(cfg *config.AppConfig, logger *config.LokiLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		metrics middleware.RequestMetrics
		probe   port.Telemetry
	)

	if cfg.TelemetryEnabled {
		container, err := telemetry.NewContainer(telemetry.Config{
			ServiceName:    cfg.ServiceName,
			ServiceVersion: serviceVersion,
			Environment:    cfg.Environment,
			MetricsPort:    cfg.MetricsPort,
			OTLPEndpoint:   cfg.OTLPEndpoint,
		}, slog.Default())

		if err != nil {
			return err
		}

		defer container.Shutdown(context.Background())

		container.StartMetricsServer(ctx)

		metrics = container.AppMetrics
		probe = container.NewTelemetryProbe()
	}

	return httpadapter.StartServerWithConfig(ctx, cfg, metrics, logger, probe)
}
