package standardizer

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"
)

// DefaultCacheSize bounds the memoization cache. Corpora repeat short
// sentences heavily, so a modest cache covers most lookups.
const DefaultCacheSize = 8192

// Cache memoizes Standardize results behind an LRU bound. Standardization
// is pure, so a cached result is always identical to a fresh one. Safe for
// concurrent use.
type Cache struct {
	entries *lru.Cache
}

// NewCache returns a Cache holding at most size entries. A size of zero or
// less falls back to DefaultCacheSize.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}
	return &Cache{entries: entries}, nil
}

// Standardize returns the standardized form of text, serving repeated
// inputs from the cache.
func (c *Cache) Standardize(text string) string {
	if cached, ok := c.entries.Get(text); ok {
		return cached.(string)
	}
	out := Standardize(text)
	c.entries.Add(text, out)
	return out
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	return c.entries.Len()
}
