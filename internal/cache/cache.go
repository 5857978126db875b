// schoolrank: weighted multi-criteria school ranking
// SPDX-License-Identifier: MIT
//
// In-memory TTL cache for criterion scores.

package cache

import (
	"sync"
	"sync/atomic"
	"time"
)

type item[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a concurrency-safe map with optional per-entry TTL.
type Cache[K comparable, V any] struct {
	mu     sync.RWMutex
	items  map[K]item[V]
	now    func() time.Time
	hits   atomic.Uint64
	misses atomic.Uint64
}

func New[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{items: make(map[K]item[V]), now: time.Now}
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()
	if !ok || (!it.expiresAt.IsZero() && c.now().After(it.expiresAt)) {
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	c.hits.Add(1)
	return it.value, true
}

// Set stores value; ttl <= 0 means the entry never expires.
func (c *Cache[K, V]) Set(key K, value V, ttl time.Duration) {
	it := item[V]{value: value}
	if ttl > 0 {
		it.expiresAt = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.items[key] = it
	c.mu.Unlock()
}

// DeleteFunc removes every entry whose key matches and returns how many were removed.
func (c *Cache[K, V]) DeleteFunc(match func(K) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k := range c.items {
		if match(k) {
			delete(c.items, k)
			n++
		}
	}
	return n
}

func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Stats returns lifetime hit and miss counts.
func (c *Cache[K, V]) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}
