package driven

import (
	"context"
	"time"
)

// DistributedLock serializes work across service instances.
// The creator sync uses it so only one batch runs at a time.
type DistributedLock interface {
	// Acquire attempts to take a named lock with the given TTL.
	// Returns false without error if another instance holds it.
	Acquire(ctx context.Context, name string, ttl time.Duration) (acquired bool, err error)

	// Release releases a named lock. Safe to call if the lock already expired.
	Release(ctx context.Context, name string) error

	// Ping checks if the lock backend is healthy.
	Ping(ctx context.Context) error
}
