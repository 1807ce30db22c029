/* cache.go
 * Contains the TTL cache used for leaderboard, topper and analytics reads. Entries live in a
 * bounded LRU and carry their own expiry; stale entries are dropped on read
 */

package cache

import (
	"time"

	lru "github.com/hashicorp/golang-lru"
)

const defaultSize = 1024

// entry is one cached value with its expiry timestamp.
type entry struct {
	value     interface{}
	expiresAt time.Time
}

// Cache is a bounded TTL cache. Staleness here is acceptable, incorrectness is
// not: writers invalidate after any mutation that would change a cached read.
type Cache struct {
	lru *lru.Cache
	ttl time.Duration
}

// New creates a Cache with the given TTL for all entries.
func New(ttl time.Duration) *Cache {
	c, _ := lru.New(defaultSize)
	return &Cache{
		lru: c,
		ttl: ttl,
	}
}

// Get returns the cached value for key and true, or nil and false when the key
// is absent or its entry has expired.
func (c *Cache) Get(key string) (interface{}, bool) {
	raw, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	e := raw.(entry)
	if time.Now().After(e.expiresAt) {
		c.lru.Remove(key)
		return nil, false
	}
	return e.value, true
}

// Set stores a value under key with the cache's TTL.
func (c *Cache) Set(key string, value interface{}) {
	c.lru.Add(key, entry{
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	})
}

// Invalidate removes one key.
func (c *Cache) Invalidate(key string) {
	c.lru.Remove(key)
}

// InvalidateAll clears the cache.
func (c *Cache) InvalidateAll() {
	c.lru.Purge()
}
