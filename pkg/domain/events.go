package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTransition     EventType = "transition"
	EventCheckoutStep   EventType = "checkout_step"
	EventOrderFinalized EventType = "order_finalized"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	UserID    string    `json:"user_id"`
}

// TransitionEvent represents a navigation state change.
type TransitionEvent struct {
	EventBase
	From NavState `json:"from"`
	To   NavState `json:"to"`
}

// CheckoutEvent represents a checkout step change. Step is empty when the
// session was destroyed.
type CheckoutEvent struct {
	EventBase
	Step string `json:"step"`
}

// OrderEvent carries a finalized order.
type OrderEvent struct {
	EventBase
	Order Order `json:"order"`
}

// LifecycleHooks defines callbacks for engine observability.
// Nil callbacks are skipped.
type LifecycleHooks struct {
	OnTransition     func(context.Context, *TransitionEvent)
	OnCheckoutStep   func(context.Context, *CheckoutEvent)
	OnOrderFinalized func(context.Context, *OrderEvent)
}

// EmitTransition calls OnTransition when set and the state changed.
func (h LifecycleHooks) EmitTransition(ctx context.Context, userID string, from, to NavState) {
	if h.OnTransition == nil || from == to {
		return
	}
	h.OnTransition(ctx, &TransitionEvent{
		EventBase: EventBase{Timestamp: time.Now(), Type: EventTransition, UserID: userID},
		From:      from,
		To:        to,
	})
}

// EmitCheckoutStep calls OnCheckoutStep when set.
func (h LifecycleHooks) EmitCheckoutStep(ctx context.Context, userID, step string) {
	if h.OnCheckoutStep == nil {
		return
	}
	h.OnCheckoutStep(ctx, &CheckoutEvent{
		EventBase: EventBase{Timestamp: time.Now(), Type: EventCheckoutStep, UserID: userID},
		Step:      step,
	})
}

// EmitOrderFinalized calls OnOrderFinalized when set.
func (h LifecycleHooks) EmitOrderFinalized(ctx context.Context, order Order) {
	if h.OnOrderFinalized == nil {
		return
	}
	h.OnOrderFinalized(ctx, &OrderEvent{
		EventBase: EventBase{Timestamp: time.Now(), Type: EventOrderFinalized, UserID: order.UserID},
		Order:     order,
	})
}
