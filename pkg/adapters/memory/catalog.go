package memory

import (
	"context"
	"sync"

	"github.com/aretw0/storechat/pkg/domain"
)

// Catalog implements ports.Catalog over fixed in-memory data.
// Replace swaps the whole data set atomically.
type Catalog struct {
	mu         sync.RWMutex
	categories []domain.Category
	products   []domain.Product
}

// NewCatalog creates a catalog from categories and products, kept in the given order.
func NewCatalog(categories []domain.Category, products []domain.Product) *Catalog {
	c := &Catalog{}
	c.Replace(categories, products)
	return c
}

// Replace swaps the catalog contents.
func (c *Catalog) Replace(categories []domain.Category, products []domain.Product) {
	cats := append([]domain.Category(nil), categories...)
	prods := append([]domain.Product(nil), products...)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.categories = cats
	c.products = prods
}

func (c *Catalog) Categories(ctx context.Context) ([]domain.Category, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Category(nil), c.categories...), nil
}

func (c *Catalog) ProductsByCategory(ctx context.Context, categoryID string) ([]domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []domain.Product
	for _, p := range c.products {
		if p.CategoryID == categoryID && p.InStock {
			out = append(out, p)
		}
	}
	return out, nil
}

func (c *Catalog) Product(ctx context.Context, id string) (domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, p := range c.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, domain.ErrProductNotFound
}

func (c *Catalog) AllProducts(ctx context.Context) ([]domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Product(nil), c.products...), nil
}
