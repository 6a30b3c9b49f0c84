package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"tasktracker/internal/adapter/http/middleware"
	"tasktracker/internal/adapter/http/routes"
	"tasktracker/internal/core/port"
	"tasktracker/internal/core/util"
	"tasktracker/pkg/config"
)

const shutdownTimeout = 10 * time.Second

// StartServerWithConfig blocks until ctx is cancelled or the listener fails,
// then drains in-flight requests. metrics may be nil.
func StartServerWithConfig(ctx context.Context, cfg *config.AppConfig, metrics middleware.RequestMetrics, logger *config.LokiLogger, probe port.Telemetry) error {
	repos, err := OpenRepositories(ctx, cfg, probe)

	if err != nil {
		return err
	}

	defer repos.Close()

	container, err := NewContainer(repos, cfg, util.SystemClock{}, logger, probe)

	if err != nil {
		return err
	}

	router := routes.SetupRouterWithConfig(container.Handlers(), metrics, logger, cfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	slog.Info("Server starting",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"database_driver", cfg.DatabaseDriver,
		"https_enforced", cfg.EnforceHTTPS)

	serverErr := make(chan error, 1)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}

		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("Server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
