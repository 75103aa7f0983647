// Package cache
package cache

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/paralead/paralead-backend/types"
)

type Adapter string

const (
	RedisAdapter Adapter = "redis"

	defaultLimit int64 = 100
)

var ErrInvalidConfig = errors.New("invalid cache config")

type Config struct {
	Adapter  Adapter
	URL      string
	DB       int
	Password string

	IsFlush bool

	// Limit is the number of notifications kept in the list.
	Limit int64

	Logger *zap.Logger
}

// Client stores user notifications and fans them out to live subscribers.
type Client interface {
	Notify(ctx context.Context, n types.Notification)
	PushNotification(ctx context.Context, n types.Notification) error
	Notifications(ctx context.Context, limit int64) ([]*types.Notification, error)
	Close() error
}

func New(cfg Config) (Client, error) {
	switch cfg.Adapter {
	case RedisAdapter:
		return newRedis(cfg)
	}
	return nil, ErrInvalidConfig
}

func newRedis(cfg Config) (Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.URL,
		DB:       cfg.DB,
		Password: cfg.Password,
	})

	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	if cfg.IsFlush {
		msg, err := redisClient.FlushDB(context.Background()).Result()
		if err != nil || msg != "OK" {
			return nil, err
		}
	}
	if cfg.Limit <= 0 {
		cfg.Limit = defaultLimit
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	client := &Redis{
		cfg:    cfg,
		client: redisClient,
		logger: cfg.Logger.With(zap.String("cache", "redis")),
	}
	return client, nil
}
