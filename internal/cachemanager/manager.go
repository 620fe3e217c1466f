// Package cachemanager keeps expensive per-key results (classified source
// files) in memory with a time-to-live.
package cachemanager

import (
	"context"
	"time"
)

// CacheManager is a typed key/value cache with per-entry expiry.
type CacheManager[K ~string, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K)
	Flush(ctx context.Context)
	Keys() []K
}
