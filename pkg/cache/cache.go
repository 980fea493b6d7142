// Package cache keeps recently read records in Redis so repeated lookups skip
// the database. Values are stored as JSON under "<prefix>:<kind>:<id>".
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Kinds of cached records.
const (
	KindBot            = "bot"
	KindIntentResponse = "intent_response"
)

// EntityCache stores serialized records by kind and id.
type EntityCache interface {
	// Get decodes the cached value into dest. It reports false on a miss.
	Get(ctx context.Context, kind string, id int64, dest any) (bool, error)
	Set(ctx context.Context, kind string, id int64, value any) error
	Evict(ctx context.Context, kind string, id int64) error
}

type redisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisCache returns an EntityCache backed by client.
// Without a client (Redis not configured) it returns a cache that never hits.
func NewRedisCache(client *redis.Client, prefix string, ttl time.Duration, logger *zap.Logger) EntityCache {
	if client == nil {
		return NewNoopCache()
	}
	return &redisCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: logger.Named("cache"),
	}
}

var _ EntityCache = (*redisCache)(nil)

func (c *redisCache) key(kind string, id int64) string {
	return fmt.Sprintf("%s:%s:%d", c.prefix, kind, id)
}

func (c *redisCache) Get(ctx context.Context, kind string, id int64, dest any) (bool, error) {
	data, err := c.client.Get(ctx, c.key(kind, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s %d from cache: %w", kind, id, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		// A value written by an older build; drop it and treat as a miss.
		c.logger.Warn("Discarding undecodable cache entry",
			zap.String("kind", kind),
			zap.Int64("id", id),
			zap.Error(err))
		_ = c.client.Del(ctx, c.key(kind, id)).Err()
		return false, nil
	}
	return true, nil
}

func (c *redisCache) Set(ctx context.Context, kind string, id int64, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s %d for cache: %w", kind, id, err)
	}
	if err := c.client.Set(ctx, c.key(kind, id), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write %s %d to cache: %w", kind, id, err)
	}
	return nil
}

func (c *redisCache) Evict(ctx context.Context, kind string, id int64) error {
	if err := c.client.Del(ctx, c.key(kind, id)).Err(); err != nil {
		return fmt.Errorf("failed to evict %s %d from cache: %w", kind, id, err)
	}
	return nil
}

type noopCache struct{}

// NewNoopCache returns an EntityCache that stores nothing.
func NewNoopCache() EntityCache {
	return noopCache{}
}

func (noopCache) Get(context.Context, string, int64, any) (bool, error) { return false, nil }
func (noopCache) Set(context.Context, string, int64, any) error         { return nil }
func (noopCache) Evict(context.Context, string, int64) error            { return nil }
