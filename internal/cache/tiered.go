package cache

import (
	"context"

	"finovo/internal/log"
	"finovo/internal/metrics"
)

// Tiered reads through an in-process LRU and then an optional redis layer.
// Writes and invalidations go to both.
type Tiered[T any] struct {
	local  *LRUCache[T]
	remote *RedisCache[T]
}

// NewTiered accepts a nil remote.
func NewTiered[T any](local *LRUCache[T], remote *RedisCache[T]) *Tiered[T] {
	return &Tiered[T]{local: local, remote: remote}
}

func (t *Tiered[T]) Get(ctx context.Context, key string) (T, bool) {
	if v, ok := t.local.Get(key); ok {
		metrics.CacheLookups.WithLabelValues("local", "hit").Inc()
		return v, true
	}
	metrics.CacheLookups.WithLabelValues("local", "miss").Inc()

	var zero T
	if t.remote == nil {
		return zero, false
	}
	v, ok, err := t.remote.Get(ctx, key)
	if err != nil {
		logger(ctx).WarnContext(ctx, "Redis cache read failed", log.FieldCacheKey, key, log.FieldError, err)
		return zero, false
	}
	if !ok {
		metrics.CacheLookups.WithLabelValues("redis", "miss").Inc()
		return zero, false
	}
	metrics.CacheLookups.WithLabelValues("redis", "hit").Inc()
	t.local.Set(key, v)
	return v, true
}

func (t *Tiered[T]) Set(ctx context.Context, key string, v T) {
	t.local.Set(key, v)
	if t.remote == nil {
		return
	}
	if err := t.remote.Set(ctx, key, v); err != nil {
		logger(ctx).WarnContext(ctx, "Redis cache write failed", log.FieldCacheKey, key, log.FieldError, err)
	}
}

// DeletePrefix invalidates every key under prefix in both tiers.
func (t *Tiered[T]) DeletePrefix(ctx context.Context, prefix string) error {
	t.local.DeletePrefix(prefix)
	if t.remote == nil {
		return nil
	}
	return t.remote.DeletePrefix(ctx, prefix)
}

// logger is the request's logger, or the default outside a request.
func logger(ctx context.Context) *log.Logger {
	return log.FromContext(ctx).WithComponent(log.ComponentCache)
}

// Local exposes the in-process tier for the cleanup manager.
func (t *Tiered[T]) Local() *LRUCache[T] {
	return t.local
}
