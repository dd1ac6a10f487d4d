package cart_test

import (
	"context"
	"testing"

	"github.com/aretw0/storechat/internal/cart"
	"github.com/aretw0/storechat/pkg/adapters/memory"
	"github.com/aretw0/storechat/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() *cart.Service {
	catalog := memory.NewCatalog(
		[]domain.Category{{ID: "fried", Name: "Fried Snacks"}},
		[]domain.Product{
			{ID: "FRIE001", CategoryID: "fried", Name: "Coxinha", Price: 8, InStock: true,
				Sizes: domain.NewOptionSet("6 units", "12 units")},
			{ID: "FRIE002", CategoryID: "fried", Name: "Kibe", Price: 5.5, InStock: true},
			{ID: "FRIE003", CategoryID: "fried", Name: "Pastel", Price: 7, InStock: false},
		},
	)
	return cart.NewService(cart.NewMemoryStore(), catalog)
}

func TestAddItem_MergesSameCombination(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	_, err := svc.AddItem(ctx, "u1", "FRIE001", "6 units", "Standard", 1)
	require.NoError(t, err)
	line, err := svc.AddItem(ctx, "u1", "FRIE001", "6 units", "Standard", 2)
	require.NoError(t, err)
	assert.Equal(t, 3, line.Quantity)

	_, err = svc.AddItem(ctx, "u1", "FRIE001", "12 units", "Standard", 1)
	require.NoError(t, err)

	items, err := svc.Items(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, "12 units", items[1].Size)
}

func TestAddItem_QuantityBelowOneIsOne(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	line, err := svc.AddItem(ctx, "u1", "FRIE002", cart.SizeUnit, cart.VariantStandard, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, line.Quantity)
}

func TestAddItem_LookupErrors(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	_, err := svc.AddItem(ctx, "u1", "NOPE", "", "", 1)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = svc.AddItem(ctx, "u1", "FRIE003", "", "", 1)
	assert.ErrorIs(t, err, domain.ErrOutOfStock)

	items, err := svc.Items(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	_, _ = svc.AddItem(ctx, "u1", "FRIE001", "6 units", "Standard", 1)
	_, _ = svc.AddItem(ctx, "u1", "FRIE002", "Unit", "Standard", 1)

	ok, err := svc.Remove(ctx, "u1", 5)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.Remove(ctx, "u1", 0)
	require.NoError(t, err)
	assert.True(t, ok)

	items, _ := svc.Items(ctx, "u1")
	require.Len(t, items, 1)
	assert.Equal(t, "FRIE002", items[0].ProductID)
}

func TestItems_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	_, _ = svc.AddItem(ctx, "u1", "FRIE002", "Unit", "Standard", 1)

	items, _ := svc.Items(ctx, "u1")
	items[0].Quantity = 99

	again, _ := svc.Items(ctx, "u1")
	assert.Equal(t, 1, again[0].Quantity)
}

func TestClearAndSummary(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	summary, err := svc.Summary(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, summary)

	_, _ = svc.AddItem(ctx, "u1", "FRIE001", "6 units", "Standard", 2)
	_, _ = svc.AddItem(ctx, "u1", "FRIE002", "Unit", "Standard", 1)

	summary, err = svc.Summary(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, 2, summary.ItemCount)
	assert.InDelta(t, 21.5, summary.Subtotal, 1e-9)

	require.NoError(t, svc.Clear(ctx, "u1"))
	items, _ := svc.Items(ctx, "u1")
	assert.Empty(t, items)
}

func TestComputeTotals_DiscountProperty(t *testing.T) {
	samples := []cart.Lines{
		nil,
		{{UnitPrice: 8, Quantity: 3}},
		{{UnitPrice: 8, Quantity: 1}, {UnitPrice: 5.5, Quantity: 4}, {UnitPrice: 0.99, Quantity: 7}},
	}
	for _, lines := range samples {
		card := cart.ComputeTotals(lines, false)
		instant := cart.ComputeTotals(lines, true)

		assert.Zero(t, card.Discount)
		assert.InDelta(t, card.Subtotal, card.Total, 1e-9)
		assert.InDelta(t, card.Total*0.95, instant.Total, 1e-9)
		assert.InDelta(t, instant.Subtotal*0.05, instant.Discount, 1e-9)
	}
}

func TestFormatView(t *testing.T) {
	lines := cart.Lines{
		{Name: "Coxinha", UnitPrice: 8, Size: "6 units", Variant: cart.VariantStandard, Quantity: 2},
		{Name: "Kibe", UnitPrice: 5, Size: cart.SizeUnit, Variant: cart.VariantStandard, Quantity: 1},
	}
	view := cart.FormatView(lines)

	assert.Contains(t, view, "1. *Coxinha* (6 units)")
	assert.Contains(t, view, "2. *Kibe*\n")
	assert.Contains(t, view, "Card: $21.00")
	assert.Contains(t, view, "(5% off): $19.95")
	assert.Contains(t, cart.FormatView(nil), "empty")
}
