// Package cache provides a small key-value cache with per-entry TTL, backed
// by process memory or Redis.
package cache

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Cache stores opaque values with a time to live.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

type Config struct {
	RedisURL        string
	KeyPrefix       string
	CleanupInterval time.Duration
}

// New returns a Redis cache when RedisURL is set and reachable, and a memory
// cache otherwise.
func New(cfg Config, logger *zap.Logger) Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RedisURL != "" {
		c, err := NewRedisCache(cfg.RedisURL, cfg.KeyPrefix, logger)
		if err == nil {
			return c
		}
		logger.Warn("Redis cache unavailable, falling back to memory", zap.Error(err))
	}
	return NewMemoryCache(cfg.CleanupInterval)
}
