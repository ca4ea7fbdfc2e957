package news

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	platformredis "vendorhub/internal/platform/redis"
	"vendorhub/pkg/platform/sentinel"
)

// Cache stores rendered proxy responses keyed by query.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type redisCache struct {
	client *platformredis.Client
}

// NewRedisCache wraps the shared redis client. Returns nil when redis is not
// configured so the handler falls back to pass-through mode.
func NewRedisCache(client *platformredis.Client) Cache {
	if client == nil {
		return nil
	}
	return &redisCache{client: client}
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	return value, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}
