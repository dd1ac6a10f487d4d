// Package dispatch routes every inbound message through the conversation
// layers in priority order and delivers the resulting actions.
//
// Priority: an active checkout, then navigation, then the explicit checkout
// triggers, then the natural-language responder. Each user's turn runs under
// that user's session lock, so turns of one user never interleave.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/aretw0/storechat/internal/cart"
	"github.com/aretw0/storechat/internal/checkout"
	"github.com/aretw0/storechat/internal/config"
	"github.com/aretw0/storechat/internal/logging"
	"github.com/aretw0/storechat/internal/metrics"
	"github.com/aretw0/storechat/internal/navigation"
	"github.com/aretw0/storechat/internal/sanitize"
	"github.com/aretw0/storechat/pkg/domain"
	"github.com/aretw0/storechat/pkg/ports"
	"github.com/aretw0/storechat/pkg/session"
)

const recoveryText = "⚠️ Something went wrong on our side. Type *menu* to return to the start."

// Dispatcher is the single entry point for inbound messages.
type Dispatcher struct {
	sessions  *session.Manager
	nav       *navigation.Machine
	checkout  *checkout.Flow
	cart      *cart.Service
	exec      *Executor
	responder ports.Responder
	keywords  config.Keywords
	store     config.Store
	maxInput  int
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// Option configures the Dispatcher.
type Option func(*Dispatcher)

// WithResponder sets the natural-language fallback. Without one the fixed
// technical-difficulty text is sent.
func WithResponder(r ports.Responder) Option {
	return func(d *Dispatcher) { d.responder = r }
}

// WithKeywords overrides the checkout trigger vocabulary.
func WithKeywords(k config.Keywords) Option {
	return func(d *Dispatcher) { d.keywords = k }
}

// WithStore sets the shop profile used in the fallback text.
func WithStore(s config.Store) Option {
	return func(d *Dispatcher) { d.store = s }
}

// WithMaxInput overrides sanitize.DefaultMaxBytes.
func WithMaxInput(n int) Option {
	return func(d *Dispatcher) { d.maxInput = n }
}

// WithMetrics records turn routes and failures.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// WithLogger configures a logger for the Dispatcher.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = logger }
}

// New creates a Dispatcher from its layers.
func New(
	sessions *session.Manager,
	nav *navigation.Machine,
	flow *checkout.Flow,
	carts *cart.Service,
	exec *Executor,
	opts ...Option,
) *Dispatcher {
	d := &Dispatcher{
		sessions: sessions,
		nav:      nav,
		checkout: flow,
		cart:     carts,
		exec:     exec,
		keywords: config.DefaultKeywords(),
		store:    config.Default().Store,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Handle processes one inbound message to completion, sends included.
// It only returns an error when the user's lock could not be acquired;
// every other failure is answered with a recovery message.
func (d *Dispatcher) Handle(ctx context.Context, msg domain.Message) error {
	start := time.Now()

	body, err := sanitize.Body(msg.Body, d.maxInput)
	if err != nil {
		d.logger.Warn("Dropping inbound message", "user", msg.From, "err", err)
		d.metrics.ObserveTurn(metrics.RouteDropped, time.Since(start))
		return nil
	}
	msg.Body = body
	if msg.From == "" || (msg.Text() == "" && !msg.IsSelection()) {
		d.logger.Debug("Ignoring empty message", "user", msg.From, "type", msg.Type)
		d.metrics.ObserveTurn(metrics.RouteDropped, time.Since(start))
		return nil
	}

	return d.sessions.WithLock(ctx, msg.From, func(ctx context.Context) error {
		route := d.turn(ctx, msg)
		d.metrics.ObserveTurn(route, time.Since(start))
		return nil
	})
}

// turn routes and delivers one message, recovering panics and errors with a
// generic reply.
func (d *Dispatcher) turn(ctx context.Context, msg domain.Message) (route string) {
	defer func() {
		if r := recover(); r != nil {
			d.metrics.PanicRecovered()
			d.logger.Error("Recovered panic while handling message",
				"user", msg.From,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			route = metrics.RouteRecovered
			d.exec.Execute(ctx, []domain.Action{domain.Text(msg.From, recoveryText)})
		}
	}()

	route, actions, err := d.route(ctx, msg)
	if err != nil {
		d.logger.Error("Failed to handle message", "user", msg.From, "route", route, "err", err)
		route = metrics.RouteRecovered
		actions = []domain.Action{domain.Text(msg.From, recoveryText)}
	}
	d.exec.Execute(ctx, actions)
	d.logger.Debug("Turn handled", "user", msg.From, "route", route, "actions", len(actions))
	return route
}

func (d *Dispatcher) route(ctx context.Context, msg domain.Message) (string, []domain.Action, error) {
	active, err := d.checkout.Active(ctx, msg.From)
	if err != nil {
		return metrics.RouteCheckout, nil, fmt.Errorf("checkout lookup: %w", err)
	}
	if active {
		actions, err := d.checkout.Handle(ctx, msg)
		return metrics.RouteCheckout, actions, err
	}

	res, err := d.nav.Handle(ctx, msg)
	if err != nil {
		return metrics.RouteNavigation, nil, err
	}
	if res.Handled {
		actions := res.Actions
		if res.Outcome == navigation.OutcomeStartCheckout {
			more, err := d.checkout.Start(ctx, msg.From)
			if err != nil {
				return metrics.RouteNavigation, actions, err
			}
			actions = append(actions, more...)
		}
		return metrics.RouteNavigation, actions, nil
	}

	if !msg.IsSelection() && d.keywords.IsCheckoutTrigger(msg.Normalized()) {
		actions, err := d.checkout.Start(ctx, msg.From)
		return metrics.RouteTrigger, actions, err
	}

	return d.respond(ctx, msg)
}

func (d *Dispatcher) respond(ctx context.Context, msg domain.Message) (string, []domain.Action, error) {
	if d.responder == nil {
		return metrics.RouteFallback, []domain.Action{domain.Text(msg.From, fallbackText(d.store))}, nil
	}
	summary, err := d.cart.Summary(ctx, msg.From)
	if err != nil {
		return metrics.RouteResponder, nil, err
	}

	reply, err := d.responder.Generate(ctx, msg.Text(), msg.From, summary)
	if err != nil {
		d.metrics.ResponderFailed()
		d.logger.Warn("Responder failed", "user", msg.From, "err", err)
		reply = ""
	}
	if reply == "" {
		return metrics.RouteFallback, []domain.Action{domain.Text(msg.From, fallbackText(d.store))}, nil
	}
	return metrics.RouteResponder, []domain.Action{domain.Text(msg.From, reply)}, nil
}

func fallbackText(store config.Store) string {
	text := "Sorry, I'm having a technical difficulty. 😔\n\n" +
		"• Type *menu* to see the options\n" +
		"• Type *products* to see the catalog"
	if store.Contact != "" {
		text += "\n• Call us: " + store.Contact
	}
	return text
}
