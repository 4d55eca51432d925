package answer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/askmebuddy/askmebuddy-api/internal/cache"
	"go.uber.org/zap"
)

// Cached serves repeated questions from a cache instead of the provider.
type Cached struct {
	next   Answerer
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

func NewCached(next Answerer, c cache.Cache, ttl time.Duration, logger *zap.Logger) *Cached {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cached{next: next, cache: c, ttl: ttl, logger: logger}
}

func cacheKey(req Request) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(req.Question), " "))
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%t|%t",
		normalized, req.ContentFilter, req.GenerateImage, req.GenerateAudio)))
	return "answer:" + hex.EncodeToString(sum[:])
}

// Answer consults the cache first. Cache failures are logged and bypassed.
func (c *Cached) Answer(ctx context.Context, req Request) (*Answer, error) {
	key := cacheKey(req)

	raw, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("Answer cache read failed", zap.Error(err))
	}
	if ok {
		var cached Answer
		if err := json.Unmarshal(raw, &cached); err == nil {
			return &cached, nil
		}
		c.logger.Warn("Discarding undecodable cached answer", zap.String("key", key))
	}

	out, err := c.next.Answer(ctx, req)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(out); err == nil {
		if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
			c.logger.Warn("Answer cache write failed", zap.Error(err))
		}
	}
	return out, nil
}
