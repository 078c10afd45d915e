package render

import "sync"

// CacheKey identifies one rendered iframe body: a thread, a message within
// it, the theme it was rendered for, and whether images were shown.
type CacheKey struct {
	ThreadID     string
	MessageIndex int
	Theme        Theme
	ShowImages   bool
}

// Cache holds rendered iframe documents keyed by CacheKey, avoiding
// re-sanitizing the same body on every request (SPEC_FULL.md §4.O). Bounded
// by maxEntries; once full, an arbitrary entry is evicted to make room — at
// this scale an LRU policy buys nothing a map doesn't already give.
type Cache struct {
	mu         sync.Mutex
	entries    map[CacheKey]string
	maxEntries int
}

// NewCache returns a Cache holding at most maxEntries rendered documents.
func NewCache(maxEntries int) *Cache {
	return &Cache{entries: make(map[CacheKey]string), maxEntries: maxEntries}
}

// Get returns the cached document for key, if present.
func (c *Cache) Get(key CacheKey) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	doc, ok := c.entries[key]
	return doc, ok
}

// Put stores doc under key, evicting an arbitrary entry first if the cache
// is already at capacity.
func (c *Cache) Put(key CacheKey, doc string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		for k := range c.entries {
			delete(c.entries, k)
			break
		}
	}
	c.entries[key] = doc
}
