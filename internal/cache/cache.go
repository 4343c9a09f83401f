// Package cache provides a Redis-backed cache for the skill catalog listing.
// The listing changes only when skill directories change, so responses are
// held for a freshness window rather than recomputed per request.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/intelliking/skillhub/internal/skill"
)

// DefaultTTL is how long a cached catalog listing stays fresh.
const DefaultTTL = 10 * time.Minute

const catalogKey = "skillhub:catalog"

// CatalogCache caches the skill catalog listing in Redis.
type CatalogCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// New creates a Redis-backed catalog cache.
func New(redisURL string, ttl time.Duration, logger *zap.Logger) (*CatalogCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CatalogCache{rdb: rdb, ttl: ttl, logger: logger}, nil
}

// Get returns the cached listing, or (nil, false) on miss. Redis errors are
// logged and treated as misses so the catalog remains the fallback.
func (c *CatalogCache) Get(ctx context.Context) ([]*skill.Skill, bool) {
	data, err := c.rdb.Get(ctx, catalogKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("catalog cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var skills []*skill.Skill
	if err := json.Unmarshal(data, &skills); err != nil {
		c.logger.Warn("catalog cache entry corrupt", zap.Error(err))
		return nil, false
	}
	return skills, true
}

// Set stores the listing with the configured TTL. Failures are logged only.
func (c *CatalogCache) Set(ctx context.Context, skills []*skill.Skill) {
	data, err := json.Marshal(skills)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, catalogKey, data, c.ttl).Err(); err != nil {
		c.logger.Warn("catalog cache write failed", zap.Error(err))
	}
}

// Invalidate drops the cached listing.
func (c *CatalogCache) Invalidate(ctx context.Context) {
	if err := c.rdb.Del(ctx, catalogKey).Err(); err != nil {
		c.logger.Warn("catalog cache invalidate failed", zap.Error(err))
	}
}

// Close shuts down the Redis connection.
func (c *CatalogCache) Close() error {
	return c.rdb.Close()
}
