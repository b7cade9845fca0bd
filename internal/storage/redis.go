package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const categoriesKey = "cardapio:categorias"

type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: client, TTL: ttl}
}

// GetCategories reports ok=false on a cache miss.
func (c *RedisCache) GetCategories(ctx context.Context) ([]string, bool, error) {
	raw, err := c.Client.Get(ctx, categoriesKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var categories []string
	if err := json.Unmarshal(raw, &categories); err != nil {
		return nil, false, err
	}
	return categories, true, nil
}

func (c *RedisCache) SetCategories(ctx context.Context, categories []string) error {
	payload, err := json.Marshal(categories)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, categoriesKey, payload, c.TTL).Err()
}

func (c *RedisCache) InvalidateCategories(ctx context.Context) error {
	return c.Client.Del(ctx, categoriesKey).Err()
}
