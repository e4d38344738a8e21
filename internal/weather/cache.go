package weather

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const cacheKeyPrefix = "weather:"

// Cache stores provider responses in redis with a TTL. A cache failure is
// never a request failure; misses and errors both fall through to the provider.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

func NewCache(client *redis.Client, ttl time.Duration, logger *logrus.Logger) *Cache {
	return &Cache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	payload, err := c.client.Get(ctx, cacheKeyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil && c.logger != nil {
			c.logger.Warnf("weather cache get %s: %v", key, err)
		}
		return nil, false
	}
	return payload, true
}

func (c *Cache) Set(ctx context.Context, key string, payload []byte) {
	if err := c.client.Set(ctx, cacheKeyPrefix+key, payload, c.ttl).Err(); err != nil {
		if c.logger != nil {
			c.logger.Warnf("weather cache set %s: %v", key, err)
		}
	}
}
