// Package directory holds the course catalog and the student and faculty
// directories. Each keeps its records in a collections sequence and serves
// lookups through a read-through cache that mutations invalidate.
package directory

import (
	"context"
	"errors"
	"time"

	"github.com/zjrosen/packscheduler/internal/cachemanager"
	"github.com/zjrosen/packscheduler/internal/collections"
)

var (
	ErrCourseNotFound = errors.New("course not found")
	ErrUserNotFound   = errors.New("user not found")
)

// Password validation messages.
const (
	msgInvalidPassword   = "Invalid password"
	msgPasswordsMismatch = "Passwords do not match"
)

// PasswordHasher turns a plaintext password into the hash stored on a user.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

type options struct {
	ttl       time.Duration
	skipCache bool
}

// Option configures a directory.
type Option func(*options)

// WithCacheTTL sets how long looked-up records stay cached.
func WithCacheTTL(ttl time.Duration) Option {
	return func(o *options) {
		o.ttl = ttl
	}
}

// WithoutCache makes every lookup scan the underlying list.
func WithoutCache() Option {
	return func(o *options) {
		o.skipCache = true
	}
}

func buildOptions(opts []Option) options {
	o := options{ttl: cachemanager.DefaultExpiration}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func newLookup[V any, I any](useCase string, o options, fn func(ctx context.Context, in I) (V, error)) *cachemanager.ReadThroughCache[string, V, I] {
	cache := cachemanager.NewInMemoryCacheManager[string, V](useCase, o.ttl, cachemanager.DefaultCleanupInterval)
	return cachemanager.NewReadThroughCache[string, V, I](cache, fn, o.skipCache)
}

// insertSorted places v before the first element that orders after it.
func insertSorted[E comparable](list collections.Sequence[E], v E, compare func(a, b E) int) error {
	idx := list.Size()
	for i, e := range list.All() {
		if compare(v, e) < 0 {
			idx = i
			break
		}
	}
	return list.Insert(idx, v)
}
