package tests

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/storechat/pkg/domain"
	"github.com/aretw0/storechat/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunKeyedStoreContract runs a suite of tests to verify that a KeyedStore
// implementation adheres to the interface contract. sample must return a fresh
// value on each call.
func RunKeyedStoreContract[T any](t *testing.T, store ports.KeyedStore[T], sample func() T) {
	t.Helper()
	ctx := context.Background()
	key := "contract-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		want := sample()
		require.NoError(t, store.Save(ctx, key, want))

		got, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "missing-"+key)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, sample()))
		require.NoError(t, store.Delete(ctx, key))

		_, err := store.Load(ctx, key)
		assert.ErrorIs(t, err, domain.ErrNotFound, "Load after Delete should return ErrNotFound")

		assert.NoError(t, store.Delete(ctx, key), "Delete is idempotent")
	})

	t.Run("List", func(t *testing.T) {
		id1, id2 := key+"-1", key+"-2"
		require.NoError(t, store.Save(ctx, id1, sample()))
		require.NoError(t, store.Save(ctx, id2, sample()))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		keys, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, id1)
		assert.Contains(t, keys, id2)
	})
}

// RunCatalogContract verifies the read-only catalog contract against a catalog
// seeded with at least one category holding one in-stock and one unavailable product.
func RunCatalogContract(t *testing.T, catalog ports.Catalog, categoryID, inStockID, unavailableID string) {
	t.Helper()
	ctx := context.Background()

	t.Run("Categories", func(t *testing.T) {
		cats, err := catalog.Categories(ctx)
		require.NoError(t, err)
		ids := make([]string, 0, len(cats))
		for _, c := range cats {
			ids = append(ids, c.ID)
		}
		assert.Contains(t, ids, categoryID)
	})

	t.Run("ProductsByCategory filters unavailable", func(t *testing.T) {
		products, err := catalog.ProductsByCategory(ctx, categoryID)
		require.NoError(t, err)
		ids := make([]string, 0, len(products))
		for _, p := range products {
			assert.True(t, p.InStock)
			ids = append(ids, p.ID)
		}
		assert.Contains(t, ids, inStockID)
		assert.NotContains(t, ids, unavailableID)
	})

	t.Run("Product", func(t *testing.T) {
		p, err := catalog.Product(ctx, unavailableID)
		require.NoError(t, err)
		assert.False(t, p.InStock)

		_, err = catalog.Product(ctx, "does-not-exist")
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})
}
