package ratelimit

import (
	"context"
	"time"
)

// Limit allows Requests per Window for one key.
type Limit struct {
	Requests int
	Window   time.Duration
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, limit Limit) (bool, error)
	Remaining(ctx context.Context, key string, limit Limit) (int64, error)
	Reset(ctx context.Context, key string) error
}
