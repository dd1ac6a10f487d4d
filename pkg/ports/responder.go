package ports

import (
	"context"

	"github.com/aretw0/storechat/pkg/domain"
)

// Responder generates a natural-language reply for input the state machines
// did not claim. An empty reply with a nil error means "no answer".
// Implementations own their retry policy.
type Responder interface {
	Generate(ctx context.Context, text, userID string, cart *domain.CartContext) (string, error)
}

// Notifier tells the store staff about a finalized order.
type Notifier interface {
	Notify(ctx context.Context, order domain.Order) error
}
