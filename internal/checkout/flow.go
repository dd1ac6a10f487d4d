// Package checkout runs the five-step order form: name, phone, address,
// payment and confirmation.
package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/storechat/internal/cart"
	"github.com/aretw0/storechat/internal/config"
	"github.com/aretw0/storechat/internal/logging"
	"github.com/aretw0/storechat/pkg/domain"
	"github.com/aretw0/storechat/pkg/ports"
	"github.com/google/uuid"
)

// PickupLabel is stored as the address when the customer collects in store.
const PickupLabel = "Store pickup"

var pickupWords = map[string]bool{
	"pickup":           true,
	"collect in store": true,
	"collect":          true,
	"store pickup":     true,
}

// PaymentOption is one entry of the payment menu.
type PaymentOption struct {
	Label    string
	Discount bool
}

// PaymentOptions is keyed by the digit the customer types.
var PaymentOptions = map[string]PaymentOption{
	"1": {Label: "Instant transfer (PIX)", Discount: true},
	"2": {Label: "Credit card"},
	"3": {Label: "Debit card"},
	"4": {Label: "Cash"},
}

var (
	confirmWords = map[string]bool{"yes": true, "y": true, "1": true, "confirm": true}
	declineWords = map[string]bool{"no": true, "n": true, "2": true}
)

// Flow is the checkout state machine. It returns actions and never sends.
type Flow struct {
	sessions ports.KeyedStore[Session]
	cart     *cart.Service
	keywords config.Keywords
	store    config.Store
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

// Option configures the Flow.
type Option func(*Flow)

// WithLogger configures a logger for the Flow.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Flow) { f.logger = logger }
}

// WithLifecycleHooks registers step and order callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(f *Flow) { f.hooks = hooks }
}

// WithKeywords overrides the cancel vocabulary.
func WithKeywords(k config.Keywords) Option {
	return func(f *Flow) { f.keywords = k }
}

// WithStore sets the shop profile used in the confirmation text.
func WithStore(s config.Store) Option {
	return func(f *Flow) { f.store = s }
}

// WithClock overrides time.Now and the order id generator, for tests.
func WithClock(now func() time.Time, newID func() string) Option {
	return func(f *Flow) {
		if now != nil {
			f.now = now
		}
		if newID != nil {
			f.newID = newID
		}
	}
}

// New creates a checkout Flow.
func New(sessions ports.KeyedStore[Session], carts *cart.Service, opts ...Option) *Flow {
	f := &Flow{
		sessions: sessions,
		cart:     carts,
		keywords: config.DefaultKeywords(),
		store:    config.Default().Store,
		logger:   logging.NewNop(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Active reports whether the user has a checkout session.
func (f *Flow) Active(ctx context.Context, userID string) (bool, error) {
	_, ok, err := loadSession(ctx, f.sessions, userID)
	return ok, err
}

// Start opens a checkout for a non-empty cart and asks for the name.
// With an empty cart it only returns guidance.
func (f *Flow) Start(ctx context.Context, userID string) ([]domain.Action, error) {
	lines, err := f.cart.Items(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return []domain.Action{domain.Text(userID, emptyCartText)}, nil
	}

	if err := f.save(ctx, userID, Session{Step: StepName}); err != nil {
		return nil, err
	}
	f.logger.Debug("Checkout started", "user", userID, "lines", len(lines))
	return []domain.Action{domain.Text(userID, startText(lines))}, nil
}

// Handle consumes one message of an active checkout. Without a session it returns nil.
func (f *Flow) Handle(ctx context.Context, msg domain.Message) ([]domain.Action, error) {
	userID := msg.From
	s, ok, err := loadSession(ctx, f.sessions, userID)
	if err != nil || !ok {
		return nil, err
	}

	text := msg.Text()
	lower := msg.Normalized()

	if f.keywords.IsCancel(lower) {
		return f.cancel(ctx, userID)
	}

	switch s.Step {
	case StepName:
		if text == "" || msg.IsSelection() {
			return reply(userID, "Please tell me your *full name*:"), nil
		}
		s.Data.Name = text
		s.Step = StepPhone
		if err := f.save(ctx, userID, s); err != nil {
			return nil, err
		}
		return reply(userID, fmt.Sprintf("✅ Thank you, *%s*!\n\nNow send me your *phone number* (with area code):", text)), nil

	case StepPhone:
		if text == "" || msg.IsSelection() {
			return reply(userID, "Please send your *phone number*:"), nil
		}
		s.Data.Phone = text
		s.Step = StepAddress
		if err := f.save(ctx, userID, s); err != nil {
			return nil, err
		}
		return reply(userID, "✅ Got it!\n\nSend me the *full delivery address*:\n_(Street, number, neighborhood)_\n\nOr type *pickup* to collect in store."), nil

	case StepAddress:
		if text == "" || msg.IsSelection() {
			return reply(userID, "Please send the *delivery address* or type *pickup*."), nil
		}
		pickup := pickupWords[lower]
		if pickup {
			s.Data.Address = PickupLabel
		} else {
			s.Data.Address = text
		}
		s.Step = StepPayment
		if err := f.save(ctx, userID, s); err != nil {
			return nil, err
		}
		head := "✅ Address saved!"
		if pickup {
			head = "✅ Store pickup noted!"
		}
		return reply(userID, head+"\n\n"+paymentMenuText), nil

	case StepPayment:
		opt, ok := PaymentOptions[lower]
		if !ok {
			return reply(userID, "❌ Invalid option. Type 1, 2, 3 or 4."), nil
		}
		s.Data.Payment = opt.Label
		s.DiscountEligible = opt.Discount
		s.Step = StepConfirm
		if err := f.save(ctx, userID, s); err != nil {
			return nil, err
		}
		lines, err := f.cart.Items(ctx, userID)
		if err != nil {
			return nil, err
		}
		return reply(userID, summaryText(s, lines)), nil

	case StepConfirm:
		switch {
		case confirmWords[lower]:
			return f.finalize(ctx, userID, s)
		case declineWords[lower]:
			return f.cancel(ctx, userID)
		default:
			return reply(userID, "Type *yes* to confirm or *no* to cancel."), nil
		}
	}

	f.logger.Warn("Unknown checkout step, resetting", "user", userID, "step", s.Step)
	return f.cancel(ctx, userID)
}

// cancel destroys the session and keeps the cart.
func (f *Flow) cancel(ctx context.Context, userID string) ([]domain.Action, error) {
	if err := f.end(ctx, userID); err != nil {
		return nil, err
	}
	return reply(userID, cancelledText), nil
}

func (f *Flow) finalize(ctx context.Context, userID string, s Session) ([]domain.Action, error) {
	lines, err := f.cart.Items(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		if err := f.end(ctx, userID); err != nil {
			return nil, err
		}
		return reply(userID, emptyCartText), nil
	}

	order := domain.Order{
		ID:               f.newID(),
		UserID:           userID,
		Customer:         s.Data,
		DiscountEligible: s.DiscountEligible,
		Lines:            lines,
		Totals:           cart.ComputeTotals(lines, s.DiscountEligible),
		PlacedAt:         f.now(),
	}

	if err := f.cart.Clear(ctx, userID); err != nil {
		return nil, err
	}
	if err := f.end(ctx, userID); err != nil {
		return nil, err
	}

	f.hooks.EmitOrderFinalized(ctx, order)
	f.logger.Info("Order finalized",
		"user", userID,
		"order", order.ID,
		"total", order.Totals.Total,
	)
	return []domain.Action{
		domain.Text(userID, confirmationText(f.store, order)),
		domain.Notify(order),
	}, nil
}

func (f *Flow) save(ctx context.Context, userID string, s Session) error {
	if err := f.sessions.Save(ctx, userID, s); err != nil {
		return fmt.Errorf("failed to save checkout session: %w", err)
	}
	f.hooks.EmitCheckoutStep(ctx, userID, string(s.Step))
	return nil
}

func (f *Flow) end(ctx context.Context, userID string) error {
	if err := f.sessions.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete checkout session: %w", err)
	}
	f.hooks.EmitCheckoutStep(ctx, userID, "")
	return nil
}

func reply(to, text string) []domain.Action {
	return []domain.Action{domain.Text(to, text)}
}
