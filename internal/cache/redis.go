package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sedhub/tender-insight-api/internal/logger"
)

const redisOpTimeout = 2 * time.Second

// RedisCache implements Cache on a Redis backend. All operations carry a
// bounded timeout; a timeout is treated the same as an unavailable backend.
type RedisCache struct {
	client *redis.Client
	logger logger.Logger
}

// NewRedisCache creates a Redis-backed cache from a connection URL
func NewRedisCache(redisURL string, log logger.Logger) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &RedisCache{
		client: redis.NewClient(opts),
		logger: log,
	}, nil
}

// Get returns the value for a tenant-scoped key
func (c *RedisCache) Get(ctx context.Context, tenantID, key string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	value, err := c.client.Get(ctx, Key(tenantID, key)).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		c.logger.Warn("Cache get failed, treating as miss", "key", key, "error", err)
		return "", false
	}
	return value, true
}

// Set stores a value under a tenant-scoped key
func (c *RedisCache) Set(ctx context.Context, tenantID, key, value string, ttl time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	if err := c.client.Set(ctx, Key(tenantID, key), value, ttl).Err(); err != nil {
		c.logger.Warn("Cache set failed, skipping", "key", key, "error", err)
	}
}

// InvalidateTenant deletes every key under the tenant's prefix
func (c *RedisCache) InvalidateTenant(ctx context.Context, tenantID string) int {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	removed := 0
	iter := c.client.Scan(ctx, 0, TenantPrefix(tenantID)+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.logger.Warn("Cache delete failed during tenant invalidation", "key", iter.Val(), "error", err)
			continue
		}
		removed++
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("Cache scan failed during tenant invalidation", "tenant_id", tenantID, "error", err)
	}
	return removed
}

// Ping reports backend reachability
func (c *RedisCache) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool
func (c *RedisCache) Close() error {
	return c.client.Close()
}
