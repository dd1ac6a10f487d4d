// Package testutils provides recording fakes and catalog fixtures shared by tests.
package testutils

import (
	"context"
	"sync"

	"github.com/aretw0/storechat/pkg/adapters/memory"
	"github.com/aretw0/storechat/pkg/domain"
)

// Kind of a recorded send.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
	KindList  Kind = "list"
)

// Sent is one recorded outbound message.
type Sent struct {
	Kind    Kind
	To      string
	Text    string
	URL     string
	Caption string
	List    domain.ChoiceList
}

// RecordingSender implements ports.Sender and records successful sends.
// Set the Fail* fields to make the matching send fail.
type RecordingSender struct {
	mu   sync.Mutex
	sent []Sent

	FailText  error
	FailImage error
	FailList  error
}

// NewRecordingSender creates an empty recorder that supports lists.
func NewRecordingSender() *RecordingSender {
	return &RecordingSender{}
}

func (s *RecordingSender) SendText(_ context.Context, to, text string) error {
	if s.FailText != nil {
		return s.FailText
	}
	s.record(Sent{Kind: KindText, To: to, Text: text})
	return nil
}

func (s *RecordingSender) SendImage(_ context.Context, to, url, caption string) error {
	if s.FailImage != nil {
		return s.FailImage
	}
	s.record(Sent{Kind: KindImage, To: to, URL: url, Caption: caption})
	return nil
}

func (s *RecordingSender) SendList(_ context.Context, to string, list domain.ChoiceList) error {
	if s.FailList != nil {
		return s.FailList
	}
	s.record(Sent{Kind: KindList, To: to, List: list})
	return nil
}

func (s *RecordingSender) record(m Sent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, m)
}

// Sent returns a copy of the recorded messages.
func (s *RecordingSender) Sent() []Sent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Sent(nil), s.sent...)
}

// Last returns the most recent message, or the zero value.
func (s *RecordingSender) Last() Sent {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sent) == 0 {
		return Sent{}
	}
	return s.sent[len(s.sent)-1]
}

// Reset drops the recorded messages.
func (s *RecordingSender) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = nil
}

// StubResponder implements ports.Responder with a canned reply.
type StubResponder struct {
	mu    sync.Mutex
	Reply string
	Err   error
	Calls []ResponderCall
}

// ResponderCall records one Generate invocation.
type ResponderCall struct {
	Text   string
	UserID string
	Cart   *domain.CartContext
}

func (r *StubResponder) Generate(_ context.Context, text, userID string, cart *domain.CartContext) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = append(r.Calls, ResponderCall{Text: text, UserID: userID, Cart: cart})
	return r.Reply, r.Err
}

// RecordingNotifier implements ports.Notifier.
type RecordingNotifier struct {
	mu     sync.Mutex
	Err    error
	Orders []domain.Order
}

func (n *RecordingNotifier) Notify(_ context.Context, order domain.Order) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Orders = append(n.Orders, order)
	return n.Err
}

// Received returns a copy of the notified orders.
func (n *RecordingNotifier) Received() []domain.Order {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.Order(nil), n.Orders...)
}

// Product ids of the fixture catalog.
const (
	CoxinhaID = "FRIE001" // sizes, no variants, 8.00
	KibeID    = "FRIE002" // no sizes, no variants, 5.50
	PastelID  = "FRIE003" // out of stock
	CakeID    = "SWEE001" // sizes and variants, 45.00
	BrigID    = "SWEE002" // variants only, 2.50
)

// Catalog returns a two-category fixture catalog.
func Catalog() *memory.Catalog {
	return memory.NewCatalog(
		[]domain.Category{
			{ID: "fried", Name: "Fried Snacks", Emoji: "🥟", Description: "Crispy and golden"},
			{ID: "sweets", Name: "Sweets", Emoji: "🍰"},
			{ID: "empty", Name: "Seasonal"},
		},
		[]domain.Product{
			{ID: CoxinhaID, CategoryID: "fried", Name: "Coxinha", Price: 8, InStock: true,
				Description: "Chicken croquette",
				Sizes:       domain.NewOptionSet("6 units", "12 units"),
				Images:      []string{"https://img.example/coxinha.jpg"}},
			{ID: KibeID, CategoryID: "fried", Name: "Kibe", Price: 5.5, InStock: true},
			{ID: PastelID, CategoryID: "fried", Name: "Pastel", Price: 7, InStock: false},
			{ID: CakeID, CategoryID: "sweets", Name: "Party Cake", Price: 45, InStock: true,
				Sizes:    domain.NewOptionSet("1 kg", "2 kg"),
				Variants: domain.NewOptionSet("Chocolate", "Vanilla")},
			{ID: BrigID, CategoryID: "sweets", Name: "Brigadeiro", Price: 2.5, InStock: true,
				Variants: domain.NewOptionSet("Classic", "White")},
		},
	)
}
