package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ekaya-inc/chatbot-admin/pkg/config"
)

// redisClientName identifies the entity cache connection in CLIENT LIST.
const redisClientName = "chatbot-admin-cache"

// NewRedisClient creates the client backing the entity cache.
// Returns nil if Redis is not configured (host is empty); callers treat that as "no cache".
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	if cfg.Host == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr(),
		Password:    cfg.Password,
		DB:          cfg.DB,
		ClientName:  redisClientName,
		DialTimeout: 5 * time.Second,

		// Cache calls run on the request path.
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}
