// Package testutil provides deterministic helpers for harness tests.
package testutil

import (
	"sync"
	"time"
)

// FrozenClock is a manually advanced clock for tests.
//
// Unlike the wall clock the harness uses by default, FrozenClock only
// moves when Advance is called. This makes suite durations (and therefore
// summary lines and golden transcripts) reproducible across runs.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type FrozenClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFrozenClock creates a clock frozen at the given instant.
func NewFrozenClock(at time.Time) *FrozenClock {
	return &FrozenClock{now: at}
}

// Now returns the current frozen instant.
func (c *FrozenClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FrozenClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
