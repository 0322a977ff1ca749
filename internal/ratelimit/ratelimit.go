// Package ratelimit throttles login attempts per tenant and email.
package ratelimit

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// ErrLimited is returned when the caller exceeded its attempt budget.
var ErrLimited = errors.New("ratelimit: too many attempts")

// Limiter gates one named action. Allow returns ErrLimited when the key
// is over budget.
type Limiter interface {
	Allow(ctx context.Context, key string) error
}

// LoginLimiter throttles credential checks with a shared token bucket.
// A failing redis backend fails open: a broken limiter must not lock
// every tenant out.
type LoginLimiter struct {
	bucket *TokenBucket
	log    *zap.Logger
	rate   float64
	burst  int
}

func NewLoginLimiter(bucket *TokenBucket, perMinute int, log *zap.Logger) *LoginLimiter {
	if perMinute <= 0 {
		perMinute = 10
	}
	return &LoginLimiter{
		bucket: bucket,
		log:    log.Named("ratelimit"),
		rate:   float64(perMinute) / 60,
		burst:  perMinute,
	}
}

func (l *LoginLimiter) Allow(ctx context.Context, key string) error {
	allowed, err := l.bucket.Allow(ctx, "login:"+key, l.rate, l.burst)
	if err != nil {
		l.log.Warn("limiter backend failed, allowing request", zap.Error(err))
		return nil
	}
	if !allowed {
		return ErrLimited
	}
	return nil
}

// NoopLimiter allows everything; used when no redis address is
// configured.
type NoopLimiter struct{}

func (NoopLimiter) Allow(context.Context, string) error { return nil }
