package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// slidingWindow runs atomically on the server so concurrent instances share
// one consistent count per key.
//
// KEYS[1] key, ARGV[1] now (ms), ARGV[2] window (ms), ARGV[3] max, ARGV[4] member.
// Returns {allowed, count, oldest_ms}.
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local max = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)

if count >= max then
	local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
	return {0, count, tonumber(oldest[2])}
end

redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return {1, count + 1, 0}
`)

// RedisLimiter stores attempts in a sorted set per key
type RedisLimiter struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

// NewRedisLimiter creates a limiter backed by client. Keys are namespaced with prefix.
func NewRedisLimiter(client redis.UniversalClient, prefix string) *RedisLimiter {
	return &RedisLimiter{client: client, prefix: prefix, now: time.Now}
}

// WithClock replaces the time source, for tests
func (l *RedisLimiter) WithClock(now func() time.Time) *RedisLimiter {
	l.now = now
	return l
}

// Allow implements Limiter
func (l *RedisLimiter) Allow(ctx context.Context, key string, max int, window time.Duration) (Result, error) {
	now := l.now()
	nowMs := now.UnixMilli()

	res, err := slidingWindow.Run(ctx, l.client,
		[]string{l.prefix + key},
		nowMs, window.Milliseconds(), max, fmt.Sprintf("%d-%s", nowMs, uuid.NewString()),
	).Int64Slice()
	if err != nil {
		return Result{}, fmt.Errorf("rate limit %s: %w", key, err)
	}

	if res[0] == 1 {
		return Result{Allowed: true, Remaining: max - int(res[1])}, nil
	}

	oldest := time.UnixMilli(res[2])
	return Result{Allowed: false, RetryAfter: retryAfter(oldest, now, window)}, nil
}
