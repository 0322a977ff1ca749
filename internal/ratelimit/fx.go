package ratelimit

import (
	"context"
	"time"

	"github.com/geliahq/gelia/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewFromConfig builds the login limiter. Without a redis address the
// limiter is a no-op, which keeps single-node development setups free of
// a redis dependency.
func NewFromConfig(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) Limiter {
	if cfg.RedisAddr == "" {
		log.Named("ratelimit").Info("redis not configured, login rate limiting disabled")
		return NoopLimiter{}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return client.Ping(pingCtx).Err()
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})

	return NewLoginLimiter(NewTokenBucket(client), cfg.LoginRatePerMin, log)
}

var Module = fx.Module("ratelimit",
	fx.Provide(NewFromConfig),
)
