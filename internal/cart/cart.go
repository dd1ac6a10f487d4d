// Package cart owns each user's ordered list of line items.
package cart

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/aretw0/storechat/pkg/adapters/memory"
	"github.com/aretw0/storechat/pkg/domain"
	"github.com/aretw0/storechat/pkg/ports"
)

// Lines is the stored cart value.
type Lines = []domain.LineItem

// Service is the cart aggregate. Callers serialize a user's operations
// (the dispatcher runs every turn under the session lock).
type Service struct {
	store   ports.KeyedStore[Lines]
	catalog ports.Catalog
}

// NewService creates a cart service over store and catalog.
func NewService(store ports.KeyedStore[Lines], catalog ports.Catalog) *Service {
	return &Service{store: store, catalog: catalog}
}

// NewMemoryStore returns an in-memory cart store that copies lines on save and load.
func NewMemoryStore() *memory.Store[Lines] {
	return memory.NewStore(memory.WithClone(cloneLines))
}

func cloneLines(l Lines) Lines {
	if l == nil {
		return nil
	}
	return append(Lines(nil), l...)
}

// AddItem adds qty of the product combination, merging with an existing line
// that has the same (product, size, variant). qty < 1 is treated as 1.
func (s *Service) AddItem(ctx context.Context, userID, productID, size, variant string, qty int) (domain.LineItem, error) {
	if qty < 1 {
		qty = 1
	}
	p, err := s.catalog.Product(ctx, productID)
	if err != nil {
		return domain.LineItem{}, err
	}
	if !p.InStock {
		return domain.LineItem{}, fmt.Errorf("%w: %s", domain.ErrOutOfStock, productID)
	}

	lines, err := s.Items(ctx, userID)
	if err != nil {
		return domain.LineItem{}, err
	}

	idx := -1
	for i, l := range lines {
		if l.SameItem(productID, size, variant) {
			idx = i
			break
		}
	}
	if idx >= 0 {
		lines[idx].Quantity += qty
	} else {
		lines = append(lines, domain.LineItem{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.Price,
			Size:      size,
			Variant:   variant,
			Quantity:  qty,
		})
		idx = len(lines) - 1
	}

	if err := s.store.Save(ctx, userID, lines); err != nil {
		return domain.LineItem{}, fmt.Errorf("failed to save cart: %w", err)
	}
	return lines[idx], nil
}

// Items returns a copy of the user's lines in insertion order.
func (s *Service) Items(ctx context.Context, userID string) (Lines, error) {
	lines, err := s.store.Load(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return lines, nil
}

// Remove deletes the line at the zero-based index. It reports false when the
// index is out of bounds.
func (s *Service) Remove(ctx context.Context, userID string, index int) (bool, error) {
	lines, err := s.Items(ctx, userID)
	if err != nil {
		return false, err
	}
	if index < 0 || index >= len(lines) {
		return false, nil
	}
	lines = append(lines[:index], lines[index+1:]...)
	if err := s.store.Save(ctx, userID, lines); err != nil {
		return false, fmt.Errorf("failed to save cart: %w", err)
	}
	return true, nil
}

// Clear empties the user's cart.
func (s *Service) Clear(ctx context.Context, userID string) error {
	return s.store.Delete(ctx, userID)
}

// Totals computes subtotal, discount and total for the user's current lines.
func (s *Service) Totals(ctx context.Context, userID string, discountEligible bool) (domain.Totals, error) {
	lines, err := s.Items(ctx, userID)
	if err != nil {
		return domain.Totals{}, err
	}
	return ComputeTotals(lines, discountEligible), nil
}

// Summary returns the responder context (distinct lines and subtotal), or nil
// when the cart is empty.
func (s *Service) Summary(ctx context.Context, userID string) (*domain.CartContext, error) {
	lines, err := s.Items(ctx, userID)
	if err != nil || len(lines) == 0 {
		return nil, err
	}
	return &domain.CartContext{ItemCount: len(lines), Subtotal: ComputeTotals(lines, false).Subtotal}, nil
}

// ComputeTotals derives the totals of lines. Discount is DiscountRate of the
// subtotal when eligible.
func ComputeTotals(lines Lines, discountEligible bool) domain.Totals {
	var t domain.Totals
	for _, l := range lines {
		t.Subtotal += l.LineTotal()
	}
	if discountEligible {
		t.Discount = t.Subtotal * domain.DiscountRate
	}
	t.Total = t.Subtotal - t.Discount
	return t
}

// Money formats an amount with two decimals.
func Money(v float64) string {
	return fmt.Sprintf("$%.2f", math.Round(v*100)/100)
}
