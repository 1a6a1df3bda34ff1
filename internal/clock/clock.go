// Package clock keeps the device wall clock. The host sets it over the link;
// until then it follows the local system clock.
package clock

import (
	"sync"
	"time"
)

// Wall is the device's notion of calendar time.
type Wall struct {
	mu     sync.RWMutex
	offset time.Duration
	synced bool
	base   func() time.Time
}

func New() *Wall {
	return &Wall{base: time.Now}
}

// NewWithBase uses base instead of time.Now, mostly for tests.
func NewWithBase(base func() time.Time) *Wall {
	return &Wall{base: base}
}

// Now returns the current wall time in the local zone.
func (w *Wall) Now() time.Time {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.base().Add(w.offset).Round(0)
}

// Set moves the wall clock so that Now() reports t at this instant.
func (w *Wall) Set(t time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.offset = t.Sub(w.base())
	w.synced = true
}

// Synced reports whether the host has set the time since boot.
func (w *Wall) Synced() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.synced
}
