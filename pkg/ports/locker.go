package ports

import (
	"context"
	"time"
)

// UnlockFunc is a function that releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker defines the interface for cross-process concurrency control.
// Present and absent edits on the same resource do not commute, so every writer
// must hold the resource's lock for the whole read-reconcile-write cycle.
type DistributedLocker interface {
	// Lock attempts to acquire a lock for the given key (the resource name).
	// It blocks until the lock is acquired or the context is canceled.
	// Returns an UnlockFunc that MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
