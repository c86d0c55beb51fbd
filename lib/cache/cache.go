// Package cache implements the registry of provisioned storage instances.
//
// The cache maps a cache key (a canonical key or an entity identity key) to the
// instance provisioned for it. Entries live until Reset is called: there is no
// eviction and no invalidation when the entity behind an identity key is
// destroyed, so memory grows by one entry per distinct key. Callers that need a
// bound call Reset at session or test boundaries.
package cache

import (
	"github.com/VictoriaMetrics/metrics"
	"github.com/puzpuzpuz/xsync/v3"
	"sort"
)

var (
	hits   = metrics.NewCounter("storagefor_cache_hits_total")
	misses = metrics.NewCounter("storagefor_cache_misses_total")
	resets = metrics.NewCounter("storagefor_cache_resets_total")
)

// Cache maps cache keys to storage instances.
//
// Thread-safety: All methods are thread-safe.
type Cache struct {
	entries *xsync.MapOf[string, any]
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{
		entries: xsync.NewMapOf[string, any](),
	}
}

// Get returns the instance cached under key.
func (c *Cache) Get(key string) (any, bool) {
	v, ok := c.entries.Load(key)
	if ok {
		hits.Inc()
	} else {
		misses.Inc()
	}
	return v, ok
}

// Set caches instance under key, replacing any previous entry.
func (c *Cache) Set(key string, instance any) {
	c.entries.Store(key, instance)
}

// Reset removes all entries.
func (c *Cache) Reset() {
	c.entries.Clear()
	resets.Inc()
}

// Len returns the number of cached instances.
func (c *Cache) Len() int {
	return c.entries.Size()
}

// Keys returns the cache keys in ascending order.
func (c *Cache) Keys() []string {
	keys := make([]string, 0, c.entries.Size())
	c.entries.Range(func(key string, _ any) bool {
		keys = append(keys, key)
		return true
	})
	sort.Strings(keys)
	return keys
}
