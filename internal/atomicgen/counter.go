// Package atomicgen provides a lock-free int counter that one goroutine can
// update while others read it at any time without blocking. In this service
// it is the live gauge of in-flight websocket sessions that the HTTP layer's
// health endpoint reports.
//
// Adapted from the lock-free AtomicFloat64 pattern: unlike a float64, this
// counter is a native int64 so sync/atomic covers it directly and no unsafe
// pointer trickery is required.
package atomicgen

import "sync/atomic"

// Counter is a concurrency-safe int64 counter.
type Counter struct {
	val int64
}

// New returns a Counter initialised to the given value.
func New(initial int) *Counter {
	c := &Counter{}
	atomic.StoreInt64(&c.val, int64(initial))
	return c
}

// Read atomically reads the current value.
func (c *Counter) Read() int {
	return int(atomic.LoadInt64(&c.val))
}

// Set atomically overwrites the current value. It does not enforce any
// ordering between the old and the new value.
func (c *Counter) Set(generation int) {
	atomic.StoreInt64(&c.val, int64(generation))
}

// Add atomically adds delta (which may be negative) and returns the new
// value, for gauge-style counters such as an in-flight session count.
func (c *Counter) Add(delta int) int {
	return int(atomic.AddInt64(&c.val, int64(delta)))
}
