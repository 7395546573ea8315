package probe

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultCacheTTL is how long a probed rate is remembered.
const DefaultCacheTTL = 30 * time.Minute

// Cache remembers probe results by asset id.
type Cache struct {
	cache *gocache.Cache
}

// NewCache creates a cache whose entries expire after ttl.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{cache: gocache.New(ttl, 2*ttl)}
}

// Get returns the cached result for id.
func (c *Cache) Get(id string) (Info, bool) {
	v, found := c.cache.Get(id)
	if !found {
		return Info{}, false
	}
	info, ok := v.(Info)
	return info, ok
}

// Set stores a result.
func (c *Cache) Set(id string, info Info) {
	c.cache.SetDefault(id, info)
}

// Forget drops id.
func (c *Cache) Forget(id string) {
	c.cache.Delete(id)
}

// Len returns the number of entries, including expired ones not yet
// cleaned up.
func (c *Cache) Len() int {
	return c.cache.ItemCount()
}
