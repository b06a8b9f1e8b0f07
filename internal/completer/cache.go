package completer

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache maps a canonical root directory to its enumerated paths.
// Entries are filled on first use and never refreshed.
// It's safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string][]string
	group   singleflight.Group
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string][]string)}
}

// GetOrScan returns the paths cached for root, calling scan to fill the
// entry on a miss. Concurrent misses for the same root share one scan.
// A failed scan is not cached.
func (c *Cache) GetOrScan(root string, scan func() ([]string, error)) ([]string, error) {
	if paths, ok := c.lookup(root); ok {
		return paths, nil
	}

	v, err, _ := c.group.Do(root, func() (any, error) {
		if paths, ok := c.lookup(root); ok {
			return paths, nil
		}
		paths, err := scan()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[root] = paths
		c.mu.Unlock()
		return paths, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

func (c *Cache) lookup(root string) ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths, ok := c.entries[root]
	return paths, ok
}

// Len returns the number of cached roots.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
