// Package cli wires the configuration into a running bot for the storechat
// commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/storechat/internal/cart"
	"github.com/aretw0/storechat/internal/checkout"
	"github.com/aretw0/storechat/internal/config"
	"github.com/aretw0/storechat/internal/dispatch"
	"github.com/aretw0/storechat/internal/metrics"
	"github.com/aretw0/storechat/internal/navigation"
	"github.com/aretw0/storechat/pkg/adapters/catalog"
	"github.com/aretw0/storechat/pkg/adapters/memory"
	"github.com/aretw0/storechat/pkg/adapters/openai"
	"github.com/aretw0/storechat/pkg/adapters/redis"
	"github.com/aretw0/storechat/pkg/adapters/sendgrid"
	"github.com/aretw0/storechat/pkg/domain"
	"github.com/aretw0/storechat/pkg/ports"
	"github.com/aretw0/storechat/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// App is a fully wired bot.
type App struct {
	Dispatcher *dispatch.Dispatcher
	Catalog    *catalog.File
	Registry   *prometheus.Registry
	Logger     *slog.Logger

	closers []func() error
}

// Close releases the external connections opened by Build.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// Build assembles the bot around sender. Optional integrations (responder,
// e-mail, redis lock) are enabled by their configuration sections.
func Build(ctx context.Context, cfg config.Config, sender ports.Sender, logger *slog.Logger) (*App, error) {
	app := &App{Logger: logger, Registry: prometheus.NewRegistry()}
	app.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(app.Registry)

	cat, err := catalog.Open(cfg.Catalog.Path,
		catalog.WithTTL(cfg.Catalog.CacheTTL),
		catalog.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	app.Catalog = cat
	if cfg.Catalog.Watch {
		if _, err := cat.Watch(ctx); err != nil {
			logger.Warn("Catalog watch disabled", "err", err)
		}
	}

	sessionOpts := []session.Option{session.WithLogger(logger)}
	if cfg.Redis.Addr != "" {
		client, err := redis.Dial(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, client.Close)
		sessionOpts = append(sessionOpts,
			session.WithLocker(redis.NewLocker(client)),
			session.WithLockTTL(cfg.Redis.LockTTL),
		)
		logger.Info("Distributed turn lock enabled", "addr", cfg.Redis.Addr)
	}
	sessions := session.NewManager(memory.NewStore[domain.Session](), sessionOpts...)

	hooks := metrics.Chain(m.Hooks(), createDebugHooks(logger))
	carts := cart.NewService(cart.NewMemoryStore(), cat)
	nav := navigation.New(sessions, cat, carts,
		navigation.WithLogger(logger),
		navigation.WithLifecycleHooks(hooks),
		navigation.WithKeywords(cfg.Keywords),
		navigation.WithStore(cfg.Store),
	)
	flow := checkout.New(checkout.NewMemoryStore(), carts,
		checkout.WithLogger(logger),
		checkout.WithLifecycleHooks(hooks),
		checkout.WithKeywords(cfg.Keywords),
		checkout.WithStore(cfg.Store),
	)

	exec := dispatch.NewExecutor(sender,
		dispatch.WithNotifiers(notifiers(cfg, sender, logger)...),
		dispatch.WithExecutorMetrics(m),
		dispatch.WithExecutorLogger(logger),
	)

	opts := []dispatch.Option{
		dispatch.WithKeywords(cfg.Keywords),
		dispatch.WithStore(cfg.Store),
		dispatch.WithMetrics(m),
		dispatch.WithLogger(logger),
	}
	if r := responder(cfg, cat, logger); r != nil {
		opts = append(opts, dispatch.WithResponder(r))
	}
	app.Dispatcher = dispatch.New(sessions, nav, flow, carts, exec, opts...)
	return app, nil
}

func notifiers(cfg config.Config, sender ports.Sender, logger *slog.Logger) []ports.Notifier {
	var out []ports.Notifier
	if cfg.Store.AttendantID != "" {
		out = append(out, dispatch.NewAttendantNotifier(sender, cfg.Store.AttendantID))
	}
	if cfg.SendGrid.APIKey != "" {
		out = append(out, sendgrid.New(sendgrid.Config{
			APIKey:   cfg.SendGrid.APIKey,
			From:     cfg.SendGrid.From,
			FromName: cfg.Store.Name,
			To:       cfg.SendGrid.To,
		}, checkout.FormatNotice, sendgrid.WithLogger(logger)))
	}
	if len(out) == 0 {
		logger.Warn("No order notifier configured; set store.attendant_id or sendgrid.api_key")
	}
	return out
}

func responder(cfg config.Config, cat ports.Catalog, logger *slog.Logger) ports.Responder {
	if cfg.OpenAI.APIKey == "" {
		logger.Info("Responder disabled; free text gets the fixed fallback")
		return nil
	}
	return openai.New(openai.Config{
		APIKey:      cfg.OpenAI.APIKey,
		BaseURL:     cfg.OpenAI.BaseURL,
		Model:       cfg.OpenAI.Model,
		MaxTokens:   cfg.OpenAI.MaxTokens,
		Temperature: cfg.OpenAI.Temperature,
		MaxRetries:  cfg.OpenAI.MaxRetries,
		HistorySize: cfg.OpenAI.HistorySize,
	}, openai.Profile{
		Name:    cfg.Store.Name,
		Contact: cfg.Store.Contact,
		Address: cfg.Store.Address,
		Hours:   cfg.Store.Hours,
		About:   cfg.Store.About,
	}, cat, openai.WithLogger(logger))
}
