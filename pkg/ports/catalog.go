package ports

import (
	"context"

	"github.com/aretw0/storechat/pkg/domain"
)

// Catalog is the read-only product lookup consumed by the core.
type Catalog interface {
	// Categories returns the categories in display order.
	Categories(ctx context.Context) ([]domain.Category, error)

	// ProductsByCategory returns the in-stock products of a category in display order.
	ProductsByCategory(ctx context.Context, categoryID string) ([]domain.Product, error)

	// Product returns a product by id, in stock or not.
	// Returns domain.ErrProductNotFound when absent.
	Product(ctx context.Context, id string) (domain.Product, error)

	// AllProducts returns every product, including unavailable ones.
	AllProducts(ctx context.Context) ([]domain.Product, error)
}
