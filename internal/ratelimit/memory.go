package ratelimit

import (
	"context"
	"sync"
	"time"
)

// sweepInterval is how often Allow drops buckets whose window has passed
const sweepInterval = time.Minute

type bucket struct {
	attempts []time.Time
	window   time.Duration
}

// MemoryLimiter keeps attempt timestamps in process memory. It is only
// correct for a single instance.
type MemoryLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	now       func() time.Time
	lastSweep time.Time
}

// NewMemoryLimiter creates an in-process limiter
func NewMemoryLimiter() *MemoryLimiter {
	return NewMemoryLimiterWithClock(time.Now)
}

// NewMemoryLimiterWithClock creates an in-process limiter reading time from now
func NewMemoryLimiterWithClock(now func() time.Time) *MemoryLimiter {
	return &MemoryLimiter{
		buckets:   make(map[string]*bucket),
		now:       now,
		lastSweep: now(),
	}
}

// Allow implements Limiter
func (l *MemoryLimiter) Allow(ctx context.Context, key string, max int, window time.Duration) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= sweepInterval {
		l.sweep(now)
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{}
		l.buckets[key] = b
	}
	b.window = window
	b.attempts = prune(b.attempts, now.Add(-window))

	if len(b.attempts) >= max {
		if len(b.attempts) == 0 {
			delete(l.buckets, key)
			return Result{Allowed: false, RetryAfter: window}, nil
		}
		return Result{Allowed: false, RetryAfter: retryAfter(b.attempts[0], now, window)}, nil
	}

	b.attempts = append(b.attempts, now)
	return Result{Allowed: true, Remaining: max - len(b.attempts)}, nil
}

// sweep drops every bucket with no attempt left inside its window
func (l *MemoryLimiter) sweep(now time.Time) {
	for key, b := range l.buckets {
		b.attempts = prune(b.attempts, now.Add(-b.window))
		if len(b.attempts) == 0 {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}

func prune(attempts []time.Time, cutoff time.Time) []time.Time {
	kept := attempts[:0]
	for _, at := range attempts {
		if at.After(cutoff) {
			kept = append(kept, at)
		}
	}
	return kept
}

// Len returns the number of tracked keys
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Reset forgets all attempts for key
func (l *MemoryLimiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, key)
}
