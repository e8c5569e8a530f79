// Package store holds the pluggable backend interfaces (durable storage and
// shared cache) the board repository is built against, plus concrete
// MongoDB and Redis/ristretto implementations. Nothing in here knows about
// sparse boards or cycle detection; it only moves bytes and records.
package store

import (
	"context"
	"time"
)

// BoardRecord is the persisted shape of a board: the boardId, its sparse
// live-cell list, its dimensions, and creation/update timestamps. The
// sparse list is immutable after creation; callers never mutate a fetched
// record in place.
type BoardRecord struct {
	BoardID   string    `bson:"boardId" json:"boardId"`
	LiveCells [][2]int  `bson:"state" json:"state"`
	Rows      int       `bson:"rows" json:"rows"`
	Cols      int       `bson:"cols" json:"cols"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// DurableStore persists board records for the lifetime of the service.
// Implementations must return an *apierr.Error with Kind NotFound when
// FindByID misses, and Kind BackendUnavailable for any connectivity or
// timeout failure.
type DurableStore interface {
	Insert(ctx context.Context, record BoardRecord) error
	FindByID(ctx context.Context, boardID string) (BoardRecord, error)
}

// Cache is the shared, TTL'd memoisation tier in front of the durable
// store. A Cache implementation must never return an error for operational
// failures (connection refused, timeout): those degrade to a cache miss so
// callers can fall through to the durable backend, per spec.md's
// CacheUnavailable policy. The bool return distinguishes "miss" from "hit".
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}
