package cachemanager

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/zjrosen/packscheduler/internal/log"
)

const (
	// DefaultExpiration is how long directory lookups stay cached.
	DefaultExpiration = 10 * time.Minute
	// DefaultCleanupInterval is how often expired entries are purged.
	DefaultCleanupInterval = 30 * time.Minute
	// NoExpiration keeps an item until it is deleted or the cache is flushed.
	NoExpiration = gocache.NoExpiration
)

// InMemoryCacheManager stores V values in a go-cache keyed by the string
// form of K. The name only shows up in log lines.
type InMemoryCacheManager[K ~string, V any] struct {
	name  string
	cache *gocache.Cache
}

var _ CacheManager[string, int] = (*InMemoryCacheManager[string, int])(nil)

func NewInMemoryCacheManager[K ~string, V any](name string, defaultExpiration, cleanupInterval time.Duration) *InMemoryCacheManager[K, V] {
	return &InMemoryCacheManager[K, V]{
		name:  name,
		cache: gocache.New(defaultExpiration, cleanupInterval),
	}
}

// lookup reads key and reports whether a value of type V was stored there.
// A value of some other type is treated as absent.
func (c *InMemoryCacheManager[K, V]) lookup(key K) (V, bool) {
	var zero V
	raw, found := c.cache.Get(string(key))
	if !found {
		return zero, false
	}
	v, ok := raw.(V)
	if !ok {
		log.Error(log.CatCache, "Cached value has unexpected type", "cache", c.name, "key", key)
		return zero, false
	}
	return v, true
}

func (c *InMemoryCacheManager[K, V]) Get(_ context.Context, key K) (V, bool) {
	v, ok := c.lookup(key)
	if ok {
		log.Debug(log.CatCache, "Cache hit", "cache", c.name, "key", key)
	}
	return v, ok
}

// GetMultiple returns whichever keys are cached. The bool is false only
// when none of them were.
func (c *InMemoryCacheManager[K, V]) GetMultiple(_ context.Context, keys []K) (map[K]V, bool) {
	var (
		found   map[K]V
		missing []K
	)
	for _, key := range keys {
		v, ok := c.lookup(key)
		if !ok {
			missing = append(missing, key)
			continue
		}
		if found == nil {
			found = make(map[K]V, len(keys))
		}
		found[key] = v
	}
	if found == nil {
		return nil, false
	}
	if len(missing) > 0 {
		log.Debug(log.CatCache, "Partial cache miss", "cache", c.name, "missing", missing)
	}
	return found, true
}

// GetWithRefresh is Get that also restarts the entry's ttl on a hit.
func (c *InMemoryCacheManager[K, V]) GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool) {
	v, ok := c.Get(ctx, key)
	if ok {
		c.cache.Set(string(key), v, ttl)
	}
	return v, ok
}

func (c *InMemoryCacheManager[K, V]) Set(_ context.Context, key K, value V, ttl time.Duration) {
	c.cache.Set(string(key), value, ttl)
}

func (c *InMemoryCacheManager[K, V]) Delete(_ context.Context, keys ...K) error {
	for _, key := range keys {
		c.cache.Delete(string(key))
	}
	return nil
}

func (c *InMemoryCacheManager[K, V]) Flush(_ context.Context) error {
	n := c.cache.ItemCount()
	c.cache.Flush()
	log.Debug(log.CatCache, "Cache flushed", "cache", c.name, "items", n)
	return nil
}

// Len counts stored items, including expired ones not yet purged.
func (c *InMemoryCacheManager[K, V]) Len() int {
	return c.cache.ItemCount()
}
