package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/storechat/pkg/adapters/memory"
	"github.com/aretw0/storechat/pkg/domain"
)

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(memory.NewStore[domain.Session]())
	ctx := context.Background()
	count := 10000

	for i := 0; i < count; i++ {
		uid := fmt.Sprintf("user-%d", i)
		_ = mgr.WithLock(ctx, uid, func(ctx context.Context) error {
			_, err := mgr.Load(ctx, uid)
			return err
		})
	}

	lockCount := mgr.activeLocks()
	t.Logf("Users Served: %d, Locks Leaked: %d", count, lockCount)

	if lockCount != 0 {
		t.Errorf("Memory Leak Detected: %d locks remaining in memory after turns completed", lockCount)
	}
}
