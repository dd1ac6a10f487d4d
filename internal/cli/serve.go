package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aretw0/storechat/internal/config"
	"github.com/aretw0/storechat/pkg/adapters/gateway"
	httpAdapter "github.com/aretw0/storechat/pkg/adapters/http"
)

// ServeOptions configures the serve command.
type ServeOptions struct {
	Config  config.Config
	Debug   bool
	Version string
}

// Serve runs the webhook server until SIGINT/SIGTERM, then drains in-flight
// turns within the shutdown timeout.
func Serve(opts ServeOptions) error {
	cfg := opts.Config
	logger := createLogger(cfg.Log, opts.Debug)
	if cfg.Gateway.BaseURL == "" {
		return errors.New("gateway.base_url is required to serve")
	}

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	sender := gateway.New(cfg.Gateway.BaseURL,
		gateway.WithToken(cfg.Gateway.Token),
		gateway.WithTimeout(cfg.Gateway.Timeout),
		gateway.WithImageTimeout(cfg.Gateway.ImageTimeout),
		gateway.WithLogger(logger),
	)
	app, err := Build(sigCtx, cfg, sender, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	webhook := httpAdapter.NewServer(app.Dispatcher,
		httpAdapter.WithSecret(cfg.Gateway.Secret),
		httpAdapter.WithGatherer(app.Registry),
		httpAdapter.WithVersion(opts.Version),
		httpAdapter.WithLogger(logger),
	)
	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: webhook.Handler(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Starting storechat server", "addr", srv.Addr, "catalog", cfg.Catalog.Path)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-sigCtx.Done():
		logger.Info("Shutting down", "signal", fmt.Sprint(sigCtx.Signal()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("Graceful shutdown did not complete", "timeout", cfg.HTTP.ShutdownTimeout, "err", err)
		srv.Close()
	}
	if err := webhook.Wait(ctx); err != nil {
		logger.Warn("In-flight turns abandoned", "err", err)
	}
	logger.Info("storechat server stopped")
	return nil
}
