package domain_test

import (
	"context"
	"testing"

	"github.com/aretw0/storechat/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestSession_StateFollowsVariant(t *testing.T) {
	s := domain.NewSession()
	assert.Equal(t, domain.StateIdle, s.State())

	s.Context = domain.ViewingProducts{Category: domain.Category{ID: "fried"}}
	assert.Equal(t, domain.StateViewingProducts, s.State())

	assert.Equal(t, domain.StateIdle, domain.Session{}.State(), "nil context defaults to idle")
}

func TestLifecycleHooks_SkipsUnchangedTransition(t *testing.T) {
	var events []*domain.TransitionEvent
	hooks := domain.LifecycleHooks{
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) { events = append(events, e) },
	}
	ctx := context.Background()

	hooks.EmitTransition(ctx, "u1", domain.StateIdle, domain.StateIdle)
	hooks.EmitTransition(ctx, "u1", domain.StateIdle, domain.StateBrowsingCategories)

	if assert.Len(t, events, 1) {
		assert.Equal(t, domain.StateBrowsingCategories, events[0].To)
		assert.Equal(t, "u1", events[0].UserID)
	}

	// Nil hooks are a no-op.
	domain.LifecycleHooks{}.EmitOrderFinalized(ctx, domain.Order{})
}
