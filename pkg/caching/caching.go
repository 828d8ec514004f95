// Package caching provides the two-tier result cache: a local LRU with TTL
// as the system of record, plus an optional shared SQLite tier whose
// unavailability is never visible to callers.
package caching

import (
	"context"
	"log/slog"
	"time"
)

// SharedStore is the shared cache tier contract. Implementations may fail;
// the Cache treats every shared-tier error as a miss.
type SharedStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// Cache is the two-tier result cache.
type Cache struct {
	local      *LocalCache
	shared     SharedStore // nil when no shared tier is configured
	logger     *slog.Logger
	defaultTTL time.Duration
}

// New builds a Cache. shared may be nil; logger may be nil for the default.
func New(maxEntries int, defaultTTL time.Duration, shared SharedStore, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		local:      NewLocalCache(maxEntries),
		shared:     shared,
		logger:     logger,
		defaultTTL: defaultTTL,
	}
}

// Get looks up the result cached for namespace and keyData. The shared tier
// is consulted first; on a shared hit the local tier is refreshed.
func (c *Cache) Get(ctx context.Context, namespace, keyData string) ([]byte, bool) {
	key := Fingerprint(namespace, keyData)

	if c.shared != nil {
		value, ok, err := c.shared.Get(ctx, key)
		if err != nil {
			c.logger.Warn("shared cache get failed", "key", key, "error", err)
		} else if ok {
			c.local.Set(key, value, c.defaultTTL)
			return value, true
		}
	}

	return c.local.Get(key)
}

// Set caches value for namespace and keyData. ttl <= 0 uses the default.
// The local tier is always written; the shared tier is best effort.
func (c *Cache) Set(ctx context.Context, namespace, keyData string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	key := Fingerprint(namespace, keyData)

	c.local.Set(key, value, ttl)

	if c.shared != nil {
		if err := c.shared.Set(ctx, key, value, ttl); err != nil {
			c.logger.Warn("shared cache set failed", "key", key, "error", err)
		}
	}
}

// Close releases the shared tier, if any.
func (c *Cache) Close() error {
	if c.shared == nil {
		return nil
	}
	return c.shared.Close()
}
