package repository

import (
	"context"
	"errors"
	"time"

	"github.com/fastygo/teamtracker/domain"
)

// ErrCacheMiss is returned by LeaderboardCache.Get when no fresh entry exists.
var ErrCacheMiss = errors.New("leaderboard cache miss")

// LeaderboardCache keeps computed leaderboards for a short TTL. Any task write
// must call Invalidate.
type LeaderboardCache interface {
	Get(ctx context.Context, key string) (*domain.Leaderboard, error)
	Set(ctx context.Context, key string, board *domain.Leaderboard, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}
