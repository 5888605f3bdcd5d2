// Package infra holds the plumbing the research layer runs on: a typed
// in-memory cache for fetched feed results and a throttle that paces
// outbound requests to a configured rate.
package infra

import (
	"context"
	"sync"
	"time"
)

// Cache is a thread-safe in-memory cache with per-entry expiry. The zero
// value is not usable; construct with NewCache.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry[V]
	ttl     time.Duration
}

type cacheEntry[V any] struct {
	value   V
	expires time.Time
}

// NewCache creates a cache whose entries live for ttl by default.
func NewCache[V any](ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		entries: make(map[string]cacheEntry[V]),
		ttl:     ttl,
	}
}

// Get returns the cached value for key, or the zero value and false when
// the key is absent or expired.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(e.expires) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key with the default TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value under key with an entry-specific TTL.
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = cacheEntry[V]{value: value, expires: time.Now().Add(ttl)}
	c.mu.Unlock()
}

// Invalidate drops key from the cache.
func (c *Cache[V]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Flush drops every entry.
func (c *Cache[V]) Flush() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry[V])
	c.mu.Unlock()
}

// Prune drops expired entries. Live entries are untouched.
func (c *Cache[V]) Prune() {
	now := time.Now()
	c.mu.Lock()
	for k, e := range c.entries {
		if now.After(e.expires) {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()
}

// Len reports the number of entries, expired ones included.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Throttle paces callers to at most perSec operations per second by
// spacing grants one interval apart. Unlike a burst bucket, the first
// call proceeds immediately and each subsequent call waits its turn.
type Throttle struct {
	mu       sync.Mutex
	interval time.Duration
	next     time.Time
}

// NewThrottle creates a throttle allowing perSec operations per second.
// Rates below 1 are clamped to 1.
func NewThrottle(perSec int) *Throttle {
	if perSec < 1 {
		perSec = 1
	}
	return &Throttle{interval: time.Second / time.Duration(perSec)}
}

// Wait blocks until the caller's slot arrives or ctx is done. A slot is
// reserved even when the wait is abandoned, so cancelled callers do not
// let later ones jump the pace.
func (t *Throttle) Wait(ctx context.Context) error {
	t.mu.Lock()
	now := time.Now()
	if t.next.Before(now) {
		t.next = now
	}
	delay := t.next.Sub(now)
	t.next = t.next.Add(t.interval)
	t.mu.Unlock()

	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
