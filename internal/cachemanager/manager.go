// Package cachemanager provides a typed wrapper over go-cache and a read-through
// cache used for directory lookups and login sessions.
package cachemanager

import (
	"context"
	"time"
)

//go:generate mockery --name CacheManager --output ../mocks --outpkg mocks --with-expecter
type CacheManager[K comparable, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	GetMultiple(ctx context.Context, keys []K) (map[K]V, bool)
	GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K) error
	Flush(ctx context.Context) error
}
