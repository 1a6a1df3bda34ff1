// Package cache holds the data pushed by the host companion. Each cache
// starts unsynced and is replaced wholesale by every successful update; a
// payload that fails to parse leaves it untouched.
package cache

import (
	"errors"
	"time"
)

// ErrMalformed wraps every payload parse failure.
var ErrMalformed = errors.New("cache: malformed payload")

// Cache is one typed slot with a synced flag.
type Cache[T any] struct {
	data    T
	synced  bool
	updated time.Time
}

// Get returns the current data, which is the zero value until synced.
func (c *Cache[T]) Get() T { return c.data }

func (c *Cache[T]) Synced() bool { return c.synced }

// Updated is when the last successful update landed.
func (c *Cache[T]) Updated() time.Time { return c.updated }

// Set replaces the data and marks the cache synced.
func (c *Cache[T]) Set(v T, at time.Time) {
	c.data = v
	c.synced = true
	c.updated = at
}

// Apply parses payload and replaces the data on success.
func (c *Cache[T]) Apply(payload string, parse func(string) (T, error), at time.Time) error {
	v, err := parse(payload)
	if err != nil {
		return err
	}
	c.Set(v, at)
	return nil
}

// Caches groups the host-fed caches.
type Caches struct {
	Tasks    Cache[[]Task]
	Weather  Cache[Weather]
	Calendar Cache[Calendar]
	Hours    Cache[LoggedHours]
}
