package catalog

import (
	"sync"
	"time"
)

// Cache holds fetched catalog documents for a bounded lifetime. It is
// an explicitly owned object with an explicit invalidation policy, not
// ambient package state; the hosting shell decides when a session's
// cache is cleared.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

type cacheEntry struct {
	items     []Item
	expiresAt time.Time
}

// NewCache builds a cache whose entries expire after ttl. A zero ttl
// keeps entries until invalidated.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: map[string]cacheEntry{},
	}
}

// Get returns the cached items for key when present and unexpired.
func (c *Cache) Get(key string) ([]Item, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !entry.expiresAt.IsZero() && c.now().After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	out := make([]Item, len(entry.items))
	copy(out, entry.items)
	return out, true
}

// Put stores items under key.
func (c *Cache) Put(key string, items []Item) {
	stored := make([]Item, len(items))
	copy(stored, items)

	entry := cacheEntry{items: stored}
	if c.ttl > 0 {
		entry.expiresAt = c.now().Add(c.ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry
}

// Invalidate drops every cached entry.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]cacheEntry{}
}
