package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const inflightKeyPrefix = "analysis:inflight:"

// InflightRepoImpl provides a concrete implementation for the
// InflightRepository interface using Redis.
type InflightRepoImpl struct {
	client *redis.Client
}

// NewInflightRepo creates a new instance of InflightRepoImpl.
func NewInflightRepo(client *redis.Client) *InflightRepoImpl {
	return &InflightRepoImpl{client: client}
}

func (r *InflightRepoImpl) redisKey(key string) string {
	return fmt.Sprintf("%s%s", inflightKeyPrefix, key)
}

// Acquire claims the guard key with SET NX so only one of two concurrent
// duplicate submissions wins. The TTL bounds how long a crashed run can
// hold the guard.
func (r *InflightRepoImpl) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return r.client.SetNX(ctx, r.redisKey(key), "1", ttl).Result()
}

// Release frees the guard key once the run reaches a terminal state.
func (r *InflightRepoImpl) Release(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.redisKey(key)).Err()
}
