package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/storechat/internal/logging"
	"github.com/aretw0/storechat/pkg/domain"
	"github.com/aretw0/storechat/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed lock outlives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager serializes each user's turns and owns the navigation sessions.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store ports.KeyedStore[domain.Session]

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL for the distributed lock.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new Session Manager with the given session store.
func NewManager(store ports.KeyedStore[domain.Session], opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(key) after unlocking.
func (m *Manager) acquire(key string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		entry = &lockEntry{}
		m.locks[key] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, key)
	}
}

// WithLock executes fn while holding the lock for the user.
// Turns of different users never contend.
func (m *Manager) WithLock(ctx context.Context, userID string, fn func(context.Context) error) error {
	entry := m.acquire(userID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(userID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, userID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"user", userID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// Load returns the user's session, creating it in the idle state on first
// reference. Call it inside WithLock.
func (m *Manager) Load(ctx context.Context, userID string) (domain.Session, error) {
	s, err := m.store.Load(ctx, userID)
	if err == nil {
		if s.Context == nil {
			s.Context = domain.Idle{}
		}
		return s, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Session{}, fmt.Errorf("failed to load session: %w", err)
	}

	s = domain.NewSession()
	if err := m.store.Save(ctx, userID, s); err != nil {
		return domain.Session{}, fmt.Errorf("failed to initialize session: %w", err)
	}
	return s, nil
}

// Transition replaces the user's navigation context. Call it inside WithLock.
func (m *Manager) Transition(ctx context.Context, userID string, next domain.NavContext) error {
	if next == nil {
		next = domain.Idle{}
	}
	if err := m.store.Save(ctx, userID, domain.Session{Context: next}); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Reset returns the user to idle.
func (m *Manager) Reset(ctx context.Context, userID string) error {
	return m.Transition(ctx, userID, domain.Idle{})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// activeLocks reports the number of lock entries currently held.
func (m *Manager) activeLocks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}
