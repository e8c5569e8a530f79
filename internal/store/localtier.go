package store

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto"
)

// LocalTier is the optional per-process L1 cache in front of a Cache (the
// shared, cross-instance tier). It is a pure read-through performance
// optimisation, per spec.md §5/§9: board records are write-once and
// generation entries are immutable once computed, so no invalidation
// protocol is needed beyond ristretto's own cost-based eviction.
type LocalTier struct {
	l1   *ristretto.Cache
	next Cache
}

// NewLocalTier builds an L1 in front of next, sized for maxCost bytes of
// estimated payload (ristretto's Cost function below approximates payload
// size plus bookkeeping overhead).
func NewLocalTier(next Cache, maxCost int64) (*LocalTier, error) {
	if maxCost <= 0 {
		maxCost = 64 * 1024 * 1024
	}
	l1, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1_000_000,
		MaxCost:     maxCost,
		BufferItems: 64,
		Cost: func(value interface{}) int64 {
			b, ok := value.([]byte)
			if !ok {
				return 1
			}
			return int64(len(b) + 64)
		},
	})
	if err != nil {
		return nil, err
	}
	return &LocalTier{l1: l1, next: next}, nil
}

// Get checks L1 first; on an L1 miss it falls through to the wrapped tier
// and repopulates L1 on a hit there.
func (t *LocalTier) Get(ctx context.Context, key string) ([]byte, bool) {
	if v, ok := t.l1.Get(key); ok {
		if b, ok2 := v.([]byte); ok2 {
			return b, true
		}
	}

	b, ok := t.next.Get(ctx, key)
	if !ok {
		return nil, false
	}
	t.l1.Set(key, b, int64(len(b)+64))
	return b, true
}

// Set writes through to both L1 and the wrapped tier.
func (t *LocalTier) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	t.l1.SetWithTTL(key, value, int64(len(value)+64), ttl)
	t.next.Set(ctx, key, value, ttl)
}
