package app

import (
	"context"

	"social-login/internal/config"
	"social-login/internal/logger"
	"social-login/internal/redis"
	"social-login/internal/session"
)

type Infra struct {
	Redis    *redis.Client // nil when sessions are kept in memory
	Sessions session.Store
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	if cfg.RedisAddr == "" {
		logger.Warn("REDIS_ADDR not set, sessions are kept in memory", nil)
		return &Infra{Sessions: session.NewMemoryStore()}, nil
	}

	redisClient, err := redis.New(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, err
	}

	logger.Info("redis ready", map[string]any{
		"addr": cfg.RedisAddr,
		"db":   cfg.RedisDB,
	})

	return &Infra{
		Redis:    redisClient,
		Sessions: session.NewRedisStore(redisClient.Client),
	}, nil
}

func (i *Infra) Close() error {
	if i.Redis == nil {
		return nil
	}
	return i.Redis.Close()
}
