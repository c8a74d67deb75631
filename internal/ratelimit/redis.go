package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"ecommerce-edge/internal/ratelimit/config"
)

// RedisLimiter counts requests in a shared Redis instance so that the
// budget holds across server instances. The counter key expires with
// the window: INCR plus EXPIRE-if-absent approximates the fixed window
// without a clock of our own.
type RedisLimiter struct {
	client *redis.Client
	window time.Duration
	max    int
}

func NewRedisLimiter(cfg config.Config) *RedisLimiter {
	if cfg.Window <= 0 {
		cfg.Window = config.DefaultWindow
	}
	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = config.DefaultMaxRequests
	}
	return &RedisLimiter{
		client: redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}),
		window: cfg.Window,
		max:    cfg.MaxRequests,
	}
}

func (l *RedisLimiter) Check(ctx context.Context, identifier string) (Decision, error) {
	key := "ratelimit:" + identifier

	pipe := l.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, err
	}

	count := int(incr.Val())
	if count > l.max {
		return Decision{Allowed: false, Remaining: 0}, nil
	}
	return Decision{Allowed: true, Remaining: l.max - count}, nil
}

func (l *RedisLimiter) Close() error {
	return l.client.Close()
}
