// Package metrics exposes the Prometheus collectors of the ordering assistant.
package metrics

import (
	"context"
	"time"

	"github.com/aretw0/storechat/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Route labels the dispatcher branch that handled a turn.
const (
	RouteCheckout   = "checkout"
	RouteNavigation = "navigation"
	RouteTrigger    = "trigger"
	RouteResponder  = "responder"
	RouteFallback   = "fallback"
	RouteDropped    = "dropped"
	RouteRecovered  = "recovered"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Messages          *prometheus.CounterVec
	TurnDuration      *prometheus.HistogramVec
	Transitions       *prometheus.CounterVec
	CheckoutSteps     *prometheus.CounterVec
	Orders            prometheus.Counter
	OrderValue        prometheus.Counter
	DeliveryFailures  *prometheus.CounterVec
	ResponderFailures prometheus.Counter
	RecoveredPanics   prometheus.Counter
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storechat_messages_total",
			Help: "Inbound messages by handling route.",
		}, []string{"route"}),
		TurnDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "storechat_turn_duration_seconds",
			Help:    "Time spent handling one inbound message, sends included.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storechat_transitions_total",
			Help: "Navigation state changes.",
		}, []string{"from", "to"}),
		CheckoutSteps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storechat_checkout_steps_total",
			Help: "Checkout steps entered; step=\"\" counts abandoned or completed sessions.",
		}, []string{"step"}),
		Orders: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storechat_orders_total",
			Help: "Finalized orders.",
		}),
		OrderValue: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storechat_order_value_total",
			Help: "Sum of finalized order totals.",
		}),
		DeliveryFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storechat_delivery_failures_total",
			Help: "Outbound sends that failed, by kind.",
		}, []string{"kind"}),
		ResponderFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storechat_responder_failures_total",
			Help: "Responder calls that exhausted their retries.",
		}),
		RecoveredPanics: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storechat_recovered_panics_total",
			Help: "Turns aborted by a recovered panic.",
		}),
	}
	reg.MustRegister(
		m.Messages, m.TurnDuration, m.Transitions, m.CheckoutSteps,
		m.Orders, m.OrderValue, m.DeliveryFailures,
		m.ResponderFailures, m.RecoveredPanics,
	)
	return m
}

// ObserveTurn records one handled message.
func (m *Metrics) ObserveTurn(route string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Messages.WithLabelValues(route).Inc()
	m.TurnDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// DeliveryFailed counts a failed send of the given kind (text, image, list, notify).
func (m *Metrics) DeliveryFailed(kind string) {
	if m == nil {
		return
	}
	m.DeliveryFailures.WithLabelValues(kind).Inc()
}

// ResponderFailed counts a responder call that gave up.
func (m *Metrics) ResponderFailed() {
	if m == nil {
		return
	}
	m.ResponderFailures.Inc()
}

// PanicRecovered counts an aborted turn.
func (m *Metrics) PanicRecovered() {
	if m == nil {
		return
	}
	m.RecoveredPanics.Inc()
}

// Hooks returns lifecycle hooks that feed the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	if m == nil {
		return domain.LifecycleHooks{}
	}
	return domain.LifecycleHooks{
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			m.Transitions.WithLabelValues(string(e.From), string(e.To)).Inc()
		},
		OnCheckoutStep: func(_ context.Context, e *domain.CheckoutEvent) {
			m.CheckoutSteps.WithLabelValues(e.Step).Inc()
		},
		OnOrderFinalized: func(_ context.Context, e *domain.OrderEvent) {
			m.Orders.Inc()
			m.OrderValue.Add(e.Order.Totals.Total)
		},
	}
}

// Chain combines hooks so that each callback runs every non-nil hook in order.
func Chain(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			for _, h := range hooks {
				if h.OnTransition != nil {
					h.OnTransition(ctx, e)
				}
			}
		},
		OnCheckoutStep: func(ctx context.Context, e *domain.CheckoutEvent) {
			for _, h := range hooks {
				if h.OnCheckoutStep != nil {
					h.OnCheckoutStep(ctx, e)
				}
			}
		},
		OnOrderFinalized: func(ctx context.Context, e *domain.OrderEvent) {
			for _, h := range hooks {
				if h.OnOrderFinalized != nil {
					h.OnOrderFinalized(ctx, e)
				}
			}
		},
	}
}
