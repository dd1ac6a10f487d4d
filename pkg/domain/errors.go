package domain

import "errors"

// ErrNotFound is returned when a key cannot be found in a keyed store.
var ErrNotFound = errors.New("not found")

// ErrProductNotFound is returned when a catalog lookup misses.
var ErrProductNotFound = errors.New("product not found")

// ErrOutOfStock is returned when a product exists but is marked unavailable.
var ErrOutOfStock = errors.New("product out of stock")

// ErrCategoryNotFound is returned when a category id does not resolve.
var ErrCategoryNotFound = errors.New("category not found")

// ErrEmptyCart is returned when an operation requires at least one line item.
var ErrEmptyCart = errors.New("cart is empty")

// ErrDelivery wraps transport failures (text, image or list sends).
var ErrDelivery = errors.New("delivery failed")

// ErrUnsupported is returned by transports that lack a capability (e.g. list messages).
var ErrUnsupported = errors.New("unsupported by transport")
