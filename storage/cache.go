// Package storage provides the process-wide caches of the chart engine.
// Caching is an explicit, injectable component with a (Get, Put, now)
// contract rather than ambient global state, so tests control time.
package storage

import (
	"sync"
	"time"
)

// Clock supplies the current time; swapped for a fake in tests
type Clock func() time.Time

type entry[V any] struct {
	value   V
	expires time.Time
}

// Cache is a key-addressed TTL cache with last-write-wins semantics
type Cache[V any] struct {
	mu    sync.RWMutex
	items map[string]entry[V]
	ttl   time.Duration
	now   Clock
}

// NewCache creates a cache with the given TTL. A nil clock uses wall time;
// a non-positive TTL falls back to one minute.
func NewCache[V any](ttl time.Duration, now Clock) *Cache[V] {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if now == nil {
		now = time.Now
	}
	return &Cache[V]{
		items: make(map[string]entry[V]),
		ttl:   ttl,
		now:   now,
	}
}

// Get returns the cached value for key, or false when absent or expired.
// Expired entries are dropped lazily on the next Put of the same key.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()
	if !ok || c.now().After(e.expires) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Put stores value under key with a fresh TTL
func (c *Cache[V]) Put(key string, value V) {
	c.mu.Lock()
	c.items[key] = entry[V]{value: value, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// Len reports the number of stored entries, expired ones included
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
