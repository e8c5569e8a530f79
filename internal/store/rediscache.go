package store

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache is the shared Cache tier. Any operational failure (connection
// refused, timeout, a nil client) degrades to a logged miss/no-op rather
// than surfacing an error: per spec.md §7, CacheUnavailable is swallowed
// here and never reaches a caller.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache wraps an existing *redis.Client. A nil client is accepted
// and makes every call a guaranteed miss, which is useful for running the
// repository without a cache tier at all.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get returns the cached bytes for key, or (nil, false) on a miss or any
// cache-layer failure.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c.client == nil {
		return nil, false
	}

	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("store: redis get %q degraded to miss: %v", key, err)
		}
		return nil, false
	}
	return val, true
}

// Set writes value under key with the given TTL. Failures are logged and
// swallowed; a cold or broken cache never blocks a write-through caller.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if c.client == nil {
		return
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Printf("store: redis set %q degraded to no-op: %v", key, err)
	}
}
