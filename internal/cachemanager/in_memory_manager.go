package cachemanager

import (
	"context"
	"sort"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/zjrosen/hilite/internal/log"
)

const (
	DefaultExpiration      = 30 * time.Minute
	DefaultCleanupInterval = time.Hour
	// NoExpiration keeps an entry until it is deleted or flushed.
	NoExpiration = gocache.NoExpiration
)

// InMemoryCacheManager is a CacheManager backed by go-cache.
type InMemoryCacheManager[K ~string, V any] struct {
	useCase string
	cache   *gocache.Cache
}

// NewInMemoryCacheManager returns an empty cache. useCase only labels log lines.
func NewInMemoryCacheManager[K ~string, V any](useCase string, defaultExpiration, cleanupInterval time.Duration) *InMemoryCacheManager[K, V] {
	return &InMemoryCacheManager[K, V]{
		useCase: useCase,
		cache:   gocache.New(defaultExpiration, cleanupInterval),
	}
}

func (c *InMemoryCacheManager[K, V]) Get(_ context.Context, key K) (V, bool) {
	var zero V

	raw, found := c.cache.Get(string(key))
	if !found {
		log.Debug(log.CatCache, "cache miss", "cache", c.useCase, "key", key)
		return zero, false
	}

	v, ok := raw.(V)
	if !ok {
		log.Error(log.CatCache, "cached value has unexpected type", "cache", c.useCase, "key", key)
		return zero, false
	}

	log.Debug(log.CatCache, "cache hit", "cache", c.useCase, "key", key)
	return v, true
}

// GetWithRefresh returns the entry and, on a hit, restarts its ttl.
func (c *InMemoryCacheManager[K, V]) GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool) {
	v, ok := c.Get(ctx, key)
	if ok {
		c.Set(ctx, key, v, ttl)
	}
	return v, ok
}

func (c *InMemoryCacheManager[K, V]) Set(_ context.Context, key K, value V, ttl time.Duration) {
	c.cache.Set(string(key), value, ttl)
}

func (c *InMemoryCacheManager[K, V]) Delete(_ context.Context, keys ...K) {
	for _, key := range keys {
		c.cache.Delete(string(key))
	}
}

func (c *InMemoryCacheManager[K, V]) Flush(_ context.Context) {
	c.cache.Flush()
}

// Keys lists the unexpired keys in sorted order.
func (c *InMemoryCacheManager[K, V]) Keys() []K {
	items := c.cache.Items()
	keys := make([]K, 0, len(items))
	for k := range items {
		keys = append(keys, K(k))
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
