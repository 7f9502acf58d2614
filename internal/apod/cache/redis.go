package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/skywatch/apod-gateway/internal/apod/domain"
)

const pictureKeyPrefix = "apod:"

// RedisCache is the shared cache backend for multi-instance deployments.
// Freshness is delegated to Redis key expiry.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) (
	*domain.Picture, error) {

	val, err := c.client.Get(ctx, pictureKeyPrefix+key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	var picture domain.Picture
	if err := json.Unmarshal([]byte(val), &picture); err != nil {
		return nil, fmt.Errorf("cache unmarshal error: %w", err)
	}

	return &picture, nil
}

func (c *RedisCache) Set(ctx context.Context, key string,
	picture *domain.Picture, ttl time.Duration) error {

	data, err := json.Marshal(picture)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}

	if err := c.client.Set(ctx, pictureKeyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("cache set error: %w", err)
	}

	return nil
}

var _ Cache = (*RedisCache)(nil)
