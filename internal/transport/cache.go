package transport

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache holds ok responses in memory with a TTL.
type Cache struct {
	store *gocache.Cache
}

// NewCache creates a cache. ttl is the default expiration of an entry and
// cleanupInterval how often expired entries are purged.
func NewCache(ttl, cleanupInterval time.Duration) *Cache {
	return &Cache{store: gocache.New(ttl, cleanupInterval)}
}

// Get returns a cached response.
func (c *Cache) Get(key string) (*Response, bool) {
	v, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	resp, ok := v.(*Response)
	return resp, ok
}

// Set stores a response with the default TTL.
func (c *Cache) Set(key string, resp *Response) {
	c.store.Set(key, resp, gocache.DefaultExpiration)
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.store.Flush()
}

// ItemCount returns the number of entries, including expired ones not yet purged.
func (c *Cache) ItemCount() int {
	return c.store.ItemCount()
}
