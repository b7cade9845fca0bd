package storage

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"

	"cardapio-virtual/internal/domain"
)

const popularKey = "cardapio:popular"

// RedisRanking keeps the number of units ordered per item in a sorted set.
type RedisRanking struct {
	Client *redis.Client
}

func NewRedisRanking(client *redis.Client) *RedisRanking {
	return &RedisRanking{Client: client}
}

func (r *RedisRanking) Increment(ctx context.Context, itemID, by int) error {
	return r.Client.ZIncrBy(ctx, popularKey, float64(by), strconv.Itoa(itemID)).Err()
}

func (r *RedisRanking) Remove(ctx context.Context, itemID int) error {
	return r.Client.ZRem(ctx, popularKey, strconv.Itoa(itemID)).Err()
}

// Top returns up to n items, highest score first.
func (r *RedisRanking) Top(ctx context.Context, n int) ([]domain.ItemScore, error) {
	result, err := r.Client.ZRevRangeWithScores(ctx, popularKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}

	scores := make([]domain.ItemScore, 0, len(result))
	for _, member := range result {
		name, ok := member.Member.(string)
		if !ok {
			continue
		}
		itemID, err := strconv.Atoi(name)
		if err != nil {
			continue
		}
		scores = append(scores, domain.ItemScore{ItemID: itemID, Score: int64(member.Score)})
	}
	return scores, nil
}
