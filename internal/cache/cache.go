// Package cache fronts read-heavy catalog lookups with a JSON cache backed
// by Redis or, when Redis is disabled, by an in-process go-cache.
package cache

import (
	"context"
	"time"
)

// Cache stores JSON-encoded values. A miss is (false, nil).
type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeletePattern(ctx context.Context, pattern string) error
	Close() error
}

// Fetch returns the cached value for key or calls load and caches its
// result. Cache failures degrade to a direct load; only load errors are
// returned. hit reports whether the value came from the cache.
func Fetch[T any](ctx context.Context, c Cache, key string, ttl time.Duration, load func(context.Context) (T, error)) (value T, hit bool, err error) {
	if c == nil {
		value, err = load(ctx)
		return value, false, err
	}

	if ok, cerr := c.GetJSON(ctx, key, &value); cerr == nil && ok {
		return value, true, nil
	}

	value, err = load(ctx)
	if err != nil {
		return value, false, err
	}
	_ = c.SetJSON(ctx, key, value, ttl)
	return value, false, nil
}
