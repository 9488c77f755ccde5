package repository

import (
	"context"
	"time"
)

// InflightRepository guards against concurrent duplicate submissions of
// the same user+URL pair. The guard is advisory with a TTL so a crashed
// worker cannot wedge a key forever.
type InflightRepository interface {
	// Acquire attempts to claim the guard key. Returns false when another
	// run already holds it.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Release frees the guard key after the run reaches a terminal state.
	Release(ctx context.Context, key string) error
}
