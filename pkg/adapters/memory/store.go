package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/storechat/pkg/domain"
)

// Store implements ports.KeyedStore in memory.
// Safe for concurrent use.
type Store[T any] struct {
	data  map[string]T
	mu    sync.RWMutex
	clone func(T) T
}

// Option configures a Store.
type Option[T any] func(*Store[T])

// WithClone sets the function used to deep copy values on save and load.
// Values holding slices or maps need one to stay isolated from callers.
func WithClone[T any](clone func(T) T) Option[T] {
	return func(s *Store[T]) {
		s.clone = clone
	}
}

// NewStore creates a new in-memory store.
func NewStore[T any](opts ...Option[T]) *Store[T] {
	s := &Store[T]{
		data:  make(map[string]T),
		clone: func(v T) T { return v },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save persists the value in memory.
func (s *Store[T]) Save(ctx context.Context, key string, value T) error {
	// Copy before taking the lock, similar to serialization
	copied := s.clone(value)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = copied
	return nil
}

// Load retrieves the value from memory.
func (s *Store[T]) Load(ctx context.Context, key string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	if !ok {
		var zero T
		return zero, domain.ErrNotFound
	}

	// Copy on read so caller can't mutate store state directly
	return s.clone(value), nil
}

// Delete removes the value.
func (s *Store[T]) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// List returns the held keys in lexical order.
func (s *Store[T]) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
