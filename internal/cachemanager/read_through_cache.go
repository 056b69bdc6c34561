package cachemanager

import (
	"context"
	"time"
)

// ReadThroughCache answers lookups from cache and falls back to load on a
// miss, caching what load returns. Failed loads are not cached. With bypass
// set every call goes straight to load.
type ReadThroughCache[K comparable, V any, I any] struct {
	cache  CacheManager[K, V]
	load   func(ctx context.Context, input I) (V, error)
	bypass bool
}

func NewReadThroughCache[K comparable, V any, I any](
	cache CacheManager[K, V],
	load func(ctx context.Context, input I) (V, error),
	bypass bool,
) *ReadThroughCache[K, V, I] {
	return &ReadThroughCache[K, V, I]{cache: cache, load: load, bypass: bypass}
}

func (r *ReadThroughCache[K, V, I]) Get(ctx context.Context, key K, input I, ttl time.Duration) (V, error) {
	return r.get(ctx, key, input, ttl, false)
}

// GetWithRefresh is Get that restarts the ttl of a cached value.
func (r *ReadThroughCache[K, V, I]) GetWithRefresh(ctx context.Context, key K, input I, ttl time.Duration) (V, error) {
	return r.get(ctx, key, input, ttl, true)
}

func (r *ReadThroughCache[K, V, I]) get(ctx context.Context, key K, input I, ttl time.Duration, refresh bool) (V, error) {
	if r.bypass {
		return r.load(ctx, input)
	}

	var (
		cached V
		hit    bool
	)
	if refresh {
		cached, hit = r.cache.GetWithRefresh(ctx, key, ttl)
	} else {
		cached, hit = r.cache.Get(ctx, key)
	}
	if hit {
		return cached, nil
	}

	v, err := r.load(ctx, input)
	if err != nil {
		return v, err
	}
	r.cache.Set(ctx, key, v, ttl)
	return v, nil
}

// Invalidate forgets keys so the next Get loads them again.
func (r *ReadThroughCache[K, V, I]) Invalidate(ctx context.Context, keys ...K) error {
	if r.bypass || len(keys) == 0 {
		return nil
	}
	return r.cache.Delete(ctx, keys...)
}

// Reset forgets everything.
func (r *ReadThroughCache[K, V, I]) Reset(ctx context.Context) error {
	if r.bypass {
		return nil
	}
	return r.cache.Flush(ctx)
}
