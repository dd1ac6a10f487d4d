package ports

import "context"

// KeyedStore defines the interface for per-user state, keyed by channel id.
// Implementations must isolate stored values from callers (copy on save and load).
type KeyedStore[T any] interface {
	// Save persists the value for a given key, replacing any previous value.
	Save(ctx context.Context, key string, value T) error

	// Load retrieves the value for a given key.
	// Returns domain.ErrNotFound if the key does not exist.
	Load(ctx context.Context, key string) (T, error)

	// Delete removes the value for a given key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns the keys currently held.
	List(ctx context.Context) ([]string, error)
}
