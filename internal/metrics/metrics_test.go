package metrics_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/storechat/internal/metrics"
	"github.com/aretw0/storechat/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHooks_FeedCollectors(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.EmitTransition(ctx, "u1", domain.StateIdle, domain.StateBrowsingCategories)
	hooks.EmitCheckoutStep(ctx, "u1", "name")
	hooks.EmitOrderFinalized(ctx, domain.Order{UserID: "u1", Totals: domain.Totals{Total: 42.5}})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("idle", "browsing_categories")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CheckoutSteps.WithLabelValues("name")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Orders))
	assert.InDelta(t, 42.5, testutil.ToFloat64(m.OrderValue), 1e-9)
}

func TestObserveTurn(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	m.ObserveTurn(metrics.RouteNavigation, 10*time.Millisecond)
	m.ObserveTurn(metrics.RouteNavigation, 20*time.Millisecond)
	m.DeliveryFailed("image")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Messages.WithLabelValues(metrics.RouteNavigation)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DeliveryFailures.WithLabelValues("image")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *metrics.Metrics
	m.ObserveTurn(metrics.RouteResponder, time.Second)
	m.DeliveryFailed("text")
	m.ResponderFailed()
	m.PanicRecovered()
	m.Hooks().EmitOrderFinalized(context.Background(), domain.Order{})
}

func TestChain(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{OnTransition: func(context.Context, *domain.TransitionEvent) { calls = append(calls, "a") }}
	b := domain.LifecycleHooks{OnTransition: func(context.Context, *domain.TransitionEvent) { calls = append(calls, "b") }}

	metrics.Chain(a, domain.LifecycleHooks{}, b).EmitTransition(context.Background(), "u", domain.StateIdle, domain.StateAfterAddToCart)
	assert.Equal(t, []string{"a", "b"}, calls)
}
