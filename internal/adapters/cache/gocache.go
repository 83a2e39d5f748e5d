package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"conferencecentral/internal/domain"
)

// memoryCache implements domain.Cache on go-cache. Slots never expire on their own; the
// builders overwrite or delete them.
type memoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache returns a process-local Cache. cleanupInterval controls how often go-cache
// sweeps expired items.
func NewMemoryCache(cleanupInterval time.Duration) domain.Cache {
	return &memoryCache{
		cache: gocache.New(gocache.NoExpiration, cleanupInterval),
	}
}

func (c *memoryCache) Get(key string) (string, bool) {
	value, found := c.cache.Get(key)
	if !found {
		return "", false
	}
	s, ok := value.(string)
	if !ok {
		return "", false
	}
	return s, true
}

func (c *memoryCache) Set(key, value string) {
	c.cache.Set(key, value, gocache.NoExpiration)
}

func (c *memoryCache) Delete(key string) {
	c.cache.Delete(key)
}
