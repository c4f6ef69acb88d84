package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/portfolio-api/internal/ratelimit"
)

func newRedisLimiter(t *testing.T, clock *fakeClock) *ratelimit.RedisLimiter {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return ratelimit.NewRedisLimiter(client, "test:").WithClock(clock.Now)
}

func TestRedisLimiter_BlocksAfterMax(t *testing.T) {
	clock := newClock()
	limiter := newRedisLimiter(t, clock)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := limiter.Allow(ctx, "newsletter:1.2.3.4", 3, time.Hour)
		if err != nil {
			t.Fatalf("Allow failed: %v", err)
		}
		if !res.Allowed {
			t.Fatalf("Expected attempt %d to be allowed", i+1)
		}
		clock.Advance(time.Second)
	}

	res, err := limiter.Allow(ctx, "newsletter:1.2.3.4", 3, time.Hour)
	if err != nil {
		t.Fatalf("Allow failed: %v", err)
	}
	if res.Allowed {
		t.Fatal("Expected 4th attempt to be blocked")
	}
	if res.RetryAfterSeconds() != 3600-3 {
		t.Errorf("Expected retry after 3597s, got %d", res.RetryAfterSeconds())
	}
}

func TestRedisLimiter_AllowsAfterWindow(t *testing.T) {
	clock := newClock()
	limiter := newRedisLimiter(t, clock)
	ctx := context.Background()

	limiter.Allow(ctx, "k", 1, time.Minute)
	if res, _ := limiter.Allow(ctx, "k", 1, time.Minute); res.Allowed {
		t.Fatal("Expected second attempt to be blocked")
	}

	clock.Advance(time.Minute)
	res, err := limiter.Allow(ctx, "k", 1, time.Minute)
	if err != nil {
		t.Fatalf("Allow failed: %v", err)
	}
	if !res.Allowed {
		t.Error("Expected attempt to be allowed after the window elapsed")
	}
}

func TestRedisLimiter_SameMillisecondAttemptsAreDistinct(t *testing.T) {
	clock := newClock()
	limiter := newRedisLimiter(t, clock)
	ctx := context.Background()

	limiter.Allow(ctx, "k", 2, time.Minute)
	limiter.Allow(ctx, "k", 2, time.Minute)

	if res, _ := limiter.Allow(ctx, "k", 2, time.Minute); res.Allowed {
		t.Error("Expected both same-instant attempts to be recorded")
	}
}
