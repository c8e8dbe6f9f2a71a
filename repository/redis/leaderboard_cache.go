package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goRedis "github.com/redis/go-redis/v9"

	"github.com/fastygo/teamtracker/domain"
	"github.com/fastygo/teamtracker/repository"
)

const keyPrefix = "leaderboard:"

type leaderboardCache struct {
	client *goRedis.Client
	ttl    time.Duration
}

// NewLeaderboardCache stores serialized leaderboards under "leaderboard:<key>".
// defaultTTL applies when Set is called with a non-positive ttl.
func NewLeaderboardCache(client *goRedis.Client, defaultTTL time.Duration) repository.LeaderboardCache {
	if defaultTTL <= 0 {
		defaultTTL = time.Minute
	}
	return &leaderboardCache{client: client, ttl: defaultTTL}
}

func (c *leaderboardCache) Get(ctx context.Context, key string) (*domain.Leaderboard, error) {
	raw, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goRedis.Nil) {
			return nil, repository.ErrCacheMiss
		}
		return nil, err
	}

	var board domain.Leaderboard
	if err := json.Unmarshal(raw, &board); err != nil {
		// a corrupt entry behaves like a miss and gets overwritten
		return nil, repository.ErrCacheMiss
	}
	return &board, nil
}

func (c *leaderboardCache) Set(ctx context.Context, key string, board *domain.Leaderboard, ttl time.Duration) error {
	if board == nil {
		return domain.ErrInvalidPayload
	}
	if ttl <= 0 {
		ttl = c.ttl
	}
	payload, err := json.Marshal(board)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, keyPrefix+key, payload, ttl).Err()
}

func (c *leaderboardCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
