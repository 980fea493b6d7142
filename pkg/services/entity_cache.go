package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/ekaya-inc/chatbot-admin/pkg/cache"
)

// cachedReads wraps an EntityCache for one kind of record.
// Cache failures are logged and otherwise ignored; the database stays authoritative.
type cachedReads struct {
	cache  cache.EntityCache
	kind   string
	logger *zap.Logger
}

func (c cachedReads) get(ctx context.Context, id int64, dest any) bool {
	hit, err := c.cache.Get(ctx, c.kind, id, dest)
	if err != nil {
		c.logger.Warn("Cache read failed", zap.String("kind", c.kind), zap.Int64("id", id), zap.Error(err))
		return false
	}
	return hit
}

func (c cachedReads) put(ctx context.Context, id int64, value any) {
	if err := c.cache.Set(ctx, c.kind, id, value); err != nil {
		c.logger.Warn("Cache write failed", zap.String("kind", c.kind), zap.Int64("id", id), zap.Error(err))
	}
}

func (c cachedReads) evict(ctx context.Context, id int64) {
	if err := c.cache.Evict(ctx, c.kind, id); err != nil {
		c.logger.Warn("Cache eviction failed", zap.String("kind", c.kind), zap.Int64("id", id), zap.Error(err))
	}
}
