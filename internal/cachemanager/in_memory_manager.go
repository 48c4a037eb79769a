package cachemanager

import (
	"context"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/zjrosen/airdesk/internal/log"
)

const (
	DefaultExpiration      = 10 * time.Minute
	DefaultCleanupInterval = 30 * time.Minute
)

// InMemoryCacheManager implements CacheManager on top of go-cache.
type InMemoryCacheManager[K ~string, V any] struct {
	useCase string
	cache   *gocache.Cache
	hits    atomic.Int64
	misses  atomic.Int64
}

var _ CacheManager[string, string] = (*InMemoryCacheManager[string, string])(nil)

// NewInMemoryCacheManager creates a cache. useCase labels log lines.
func NewInMemoryCacheManager[K ~string, V any](useCase string, defaultExpiration, cleanupInterval time.Duration) *InMemoryCacheManager[K, V] {
	return &InMemoryCacheManager[K, V]{
		useCase: useCase,
		cache:   gocache.New(defaultExpiration, cleanupInterval),
	}
}

// Get returns the cached value for key.
func (c *InMemoryCacheManager[K, V]) Get(_ context.Context, key K) (V, bool) {
	var zero V

	value, found := c.cache.Get(string(key))
	if !found {
		c.misses.Add(1)
		return zero, false
	}

	v, ok := value.(V)
	if !ok {
		log.Error(log.CatCache, "wrong type in cache", "cache", c.useCase, "key", key)
		c.misses.Add(1)
		return zero, false
	}
	c.hits.Add(1)
	return v, true
}

// Set stores value under key. A zero ttl uses the cache default.
func (c *InMemoryCacheManager[K, V]) Set(_ context.Context, key K, value V, ttl time.Duration) {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	c.cache.Set(string(key), value, ttl)
}

// Delete removes keys.
func (c *InMemoryCacheManager[K, V]) Delete(_ context.Context, keys ...K) {
	for _, key := range keys {
		c.cache.Delete(string(key))
	}
}

// Flush removes every entry.
func (c *InMemoryCacheManager[K, V]) Flush(_ context.Context) {
	c.cache.Flush()
	log.Debug(log.CatCache, "flushed", "cache", c.useCase)
}

// Len returns the number of entries, including expired ones not yet cleaned.
func (c *InMemoryCacheManager[K, V]) Len() int {
	return c.cache.ItemCount()
}

// Stats returns hit and miss counters.
func (c *InMemoryCacheManager[K, V]) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
