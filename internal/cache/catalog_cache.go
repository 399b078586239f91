package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/sweet-shop-service/internal/domain"
)

const catalogKey = "sweets:catalog"

// CatalogCache keeps the full sweets listing in Redis for a short TTL.
// Every failure is treated as a miss; the DB stays the source of truth.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCatalogCache builds the cache. A zero TTL disables writes.
func NewCatalogCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *CatalogCache {
	return &CatalogCache{client: client, ttl: ttl, logger: logger}
}

// GetList returns the cached catalog and whether it was present.
func (c *CatalogCache) GetList(ctx context.Context) ([]domain.Sweet, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, catalogKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("catalog cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var sweets []domain.Sweet
	if err := json.Unmarshal(raw, &sweets); err != nil {
		c.logger.Debug("catalog cache decode failed", zap.Error(err))
		return nil, false
	}
	return sweets, true
}

// SetList stores the catalog listing.
func (c *CatalogCache) SetList(ctx context.Context, sweets []domain.Sweet) {
	if c == nil || c.client == nil || c.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(sweets)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, catalogKey, raw, c.ttl).Err(); err != nil {
		c.logger.Debug("catalog cache write failed", zap.Error(err))
	}
}

// Invalidate drops the cached catalog after any mutation.
func (c *CatalogCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, catalogKey).Err(); err != nil {
		c.logger.Debug("catalog cache invalidation failed", zap.Error(err))
	}
}
