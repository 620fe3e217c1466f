package cachemanager

import (
	"context"
	"time"
)

// ReadThroughCache fills misses by calling a loader and storing its result.
// Loader errors are returned and nothing is cached for that key.
type ReadThroughCache[K ~string, V any, I any] struct {
	cache  CacheManager[K, V]
	load   func(ctx context.Context, input I) (V, error)
	bypass bool
}

// NewReadThroughCache wraps cache. With bypass set every call goes to load.
func NewReadThroughCache[K ~string, V any, I any](
	cache CacheManager[K, V],
	load func(ctx context.Context, input I) (V, error),
	bypass bool,
) *ReadThroughCache[K, V, I] {
	return &ReadThroughCache[K, V, I]{cache: cache, load: load, bypass: bypass}
}

func (r *ReadThroughCache[K, V, I]) Get(ctx context.Context, key K, input I, ttl time.Duration) (V, error) {
	if r.bypass {
		return r.load(ctx, input)
	}

	if v, ok := r.cache.GetWithRefresh(ctx, key, ttl); ok {
		return v, nil
	}

	v, err := r.load(ctx, input)
	if err != nil {
		return v, err
	}

	r.cache.Set(ctx, key, v, ttl)
	return v, nil
}

// Store installs value for key, replacing any previous entry.
func (r *ReadThroughCache[K, V, I]) Store(ctx context.Context, key K, value V, ttl time.Duration) {
	if r.bypass {
		return
	}
	r.cache.Set(ctx, key, value, ttl)
}

// Forget drops cached entries so the next Get reloads them.
func (r *ReadThroughCache[K, V, I]) Forget(ctx context.Context, keys ...K) {
	r.cache.Delete(ctx, keys...)
}

// Cached reports the keys currently held.
func (r *ReadThroughCache[K, V, I]) Cached() []K {
	return r.cache.Keys()
}
