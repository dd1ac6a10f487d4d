package checkout

import (
	"context"
	"errors"

	"github.com/aretw0/storechat/pkg/adapters/memory"
	"github.com/aretw0/storechat/pkg/domain"
	"github.com/aretw0/storechat/pkg/ports"
)

// Step is the field the checkout is waiting for.
type Step string

const (
	StepName    Step = "name"
	StepPhone   Step = "phone"
	StepAddress Step = "address"
	StepPayment Step = "payment"
	StepConfirm Step = "confirm"
)

// Session is an in-progress checkout. Its presence is the "in checkout" signal.
type Session struct {
	Step             Step
	Data             domain.CustomerData
	DiscountEligible bool
}

// NewMemoryStore returns an in-memory checkout session store.
func NewMemoryStore() *memory.Store[Session] {
	return memory.NewStore[Session]()
}

func loadSession(ctx context.Context, store ports.KeyedStore[Session], userID string) (Session, bool, error) {
	s, err := store.Load(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, err
	}
	return s, true, nil
}
