package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/weather-dashboard/internal/domain/dashboard"
	"github.com/yanqian/weather-dashboard/internal/infra/config"
)

// App encapsulates the HTTP server and session janitor lifecycle.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	server  *http.Server
	janitor *dashboard.Janitor
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, janitor *dashboard.Janitor) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server, janitor: janitor}
}

// Run starts the janitor and the HTTP server and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	if err := a.janitor.Start(); err != nil {
		return fmt.Errorf("start session janitor: %w", err)
	}
	defer a.janitor.Stop()

	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.logger.Info("shutdown signal received")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
