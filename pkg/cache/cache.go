// Package cache stores JSON encoded values in Redis. A Cache without a Redis
// client is valid: every lookup misses and every write is dropped.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tair/grocery-pos/pkg/logger"
)

type Cache struct {
	redis  *redis.Client
	prefix string
	ttl    time.Duration
}

func New(redisClient *redis.Client, prefix string, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{redis: redisClient, prefix: prefix, ttl: ttl}
}

// Enabled reports whether a Redis client is configured
func (c *Cache) Enabled() bool {
	return c != nil && c.redis != nil
}

// Key builds a cache key from a name and its parameters
func (c *Cache) Key(name string, params ...interface{}) string {
	raw := fmt.Sprintf("%q", params)
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s:%s:%s", c.prefix, name, hex.EncodeToString(hash[:8]))
}

// Get decodes the cached value for key into dst. It reports false on a miss
// and on any Redis or decoding failure.
func (c *Cache) Get(ctx context.Context, key string, dst interface{}) bool {
	if !c.Enabled() {
		return false
	}

	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn(ctx).Err(err).Str("cache_key", key).Msg("Cache read failed")
		}
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		logger.Warn(ctx).Err(err).Str("cache_key", key).Msg("Cache entry could not be decoded")
		return false
	}

	logger.Debug(ctx).Str("cache_key", key).Msg("Cache hit")
	return true
}

// Set stores value under key for the configured TTL. Failures are logged.
func (c *Cache) Set(ctx context.Context, key string, value interface{}) {
	if !c.Enabled() {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		logger.Warn(ctx).Err(err).Str("cache_key", key).Msg("Cache entry could not be encoded")
		return
	}

	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logger.Warn(ctx).Err(err).Str("cache_key", key).Msg("Failed to cache value")
		return
	}

	logger.Debug(ctx).Str("cache_key", key).Dur("ttl", c.ttl).Int("size", len(data)).Msg("Value cached")
}

// Invalidate removes every key under the cache prefix
func (c *Cache) Invalidate(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}

	pattern := c.prefix + ":*"
	iter := c.redis.Scan(ctx, 0, pattern, 0).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan %s: %w", pattern, err)
	}

	if len(keys) > 0 {
		if err := c.redis.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("delete cached keys: %w", err)
		}
		logger.Info(ctx).
			Int("count", len(keys)).
			Str("pattern", pattern).
			Msg("Cache invalidated")
	}
	return nil
}
