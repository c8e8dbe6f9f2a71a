// Package app wires the components shared by the HTTP server and the CLI.
package app

import (
	"context"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goRedis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fastygo/teamtracker/internal/config"
	"github.com/fastygo/teamtracker/internal/infrastructure/mail"
	pgInfra "github.com/fastygo/teamtracker/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/teamtracker/internal/infrastructure/redis"
	"github.com/fastygo/teamtracker/internal/notify"
	"github.com/fastygo/teamtracker/internal/services"
	"github.com/fastygo/teamtracker/repository"
	"github.com/fastygo/teamtracker/repository/postgres"
	redisRepo "github.com/fastygo/teamtracker/repository/redis"
	dashboardUC "github.com/fastygo/teamtracker/usecase/dashboard"
)

// App holds the task store, cache and notification pipeline.
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Location *time.Location

	Pool  *pgxpool.Pool
	Redis *goRedis.Client

	Users repository.UserRepository
	Tasks repository.TaskRepository
	// Cache is nil when Redis is unreachable; leaderboards are then computed per request.
	Cache repository.LeaderboardCache

	Transport mail.Transport
	Notifier  *services.Notifier
	Dashboard *dashboardUC.UseCase
}

// New connects to the task store and builds the shared components. Redis is
// optional: a failed connection is logged and the cache disabled.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	location, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	pool, err := pgInfra.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:   cfg,
		Logger:   logger,
		Location: location,
		Pool:     pool,
		Users:    postgres.NewUserRepository(pool),
		Tasks:    postgres.NewTaskRepository(pool),
	}

	if client, err := redisInfra.NewClient(cfg.Redis); err != nil {
		logger.Warn("redis unavailable, leaderboard cache disabled", zap.Error(err))
	} else {
		a.Redis = client
		a.Cache = redisRepo.NewLeaderboardCache(client, cfg.Cache.LeaderboardTTL)
	}

	a.Transport, err = mail.New(cfg.Mail, logger.Named("mail"))
	if err != nil {
		a.Close()
		return nil, err
	}

	generator, err := notify.NewGenerator(notify.DefaultCatalog(), rand.New(rand.NewSource(time.Now().UnixNano())))
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Notifier = services.NewNotifier(a.Users, a.Tasks, generator, a.Transport, services.NotifierConfig{
		AppLink:  cfg.Mail.AppLink,
		Location: location,
	}, logger)
	a.Dashboard = dashboardUC.New(a.Tasks, a.Cache, cfg.Cache.LeaderboardTTL, logger.Named("dashboard"))
	return a, nil
}

// Close releases the store and cache connections.
func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Warn("redis close failed", zap.Error(err))
		}
	}
	if a.Pool != nil {
		a.Pool.Close()
	}
}
