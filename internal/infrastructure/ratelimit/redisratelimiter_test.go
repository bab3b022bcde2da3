package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLimiter(t *testing.T) (*RedisRateLimiter, *time.Time) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	now := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	l := NewRedisRateLimiter(client)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestRedisRateLimiter_Allow(t *testing.T) {
	l, now := setupTestLimiter(t)
	ctx := context.Background()
	limit := Limit{Requests: 5, Window: time.Minute}

	for i := 0; i < 5; i++ {
		*now = now.Add(time.Millisecond)
		allowed, err := l.Allow(ctx, "user-1", limit)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}

	*now = now.Add(time.Millisecond)
	allowed, err := l.Allow(ctx, "user-1", limit)
	require.NoError(t, err)
	assert.False(t, allowed, "6th request should be denied")

	other, err := l.Allow(ctx, "user-2", limit)
	require.NoError(t, err)
	assert.True(t, other)
}

func TestRedisRateLimiter_WindowSlides(t *testing.T) {
	l, now := setupTestLimiter(t)
	ctx := context.Background()
	limit := Limit{Requests: 2, Window: time.Minute}

	for i := 0; i < 2; i++ {
		*now = now.Add(time.Second)
		_, err := l.Allow(ctx, "k", limit)
		require.NoError(t, err)
	}

	remaining, err := l.Remaining(ctx, "k", limit)
	require.NoError(t, err)
	assert.Equal(t, int64(0), remaining)

	*now = now.Add(2 * time.Minute)
	allowed, err := l.Allow(ctx, "k", limit)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisRateLimiter_DisabledLimit(t *testing.T) {
	l, _ := setupTestLimiter(t)
	for i := 0; i < 10; i++ {
		allowed, err := l.Allow(context.Background(), "k", Limit{})
		require.NoError(t, err)
		assert.True(t, allowed)
	}
}

func TestRedisRateLimiter_Reset(t *testing.T) {
	l, now := setupTestLimiter(t)
	ctx := context.Background()
	limit := Limit{Requests: 1, Window: time.Hour}

	_, err := l.Allow(ctx, "k", limit)
	require.NoError(t, err)
	*now = now.Add(time.Second)
	allowed, err := l.Allow(ctx, "k", limit)
	require.NoError(t, err)
	require.False(t, allowed)

	require.NoError(t, l.Reset(ctx, "k"))

	*now = now.Add(time.Second)
	allowed, err = l.Allow(ctx, "k", limit)
	require.NoError(t, err)
	assert.True(t, allowed)
}
