// Package ratelimit implements a sliding-window attempt limiter.
//
// An attempt is allowed when fewer than max attempts were recorded within the
// trailing window; allowed attempts are recorded, blocked ones are not.
package ratelimit

import (
	"context"
	"math"
	"time"
)

// Result is the outcome of a single Allow call
type Result struct {
	Allowed    bool
	RetryAfter time.Duration
	Remaining  int
}

// RetryAfterSeconds returns the wait rounded up to whole seconds
func (r Result) RetryAfterSeconds() int {
	return int(math.Ceil(r.RetryAfter.Seconds()))
}

// Limiter checks and records attempts for a key
type Limiter interface {
	Allow(ctx context.Context, key string, max int, window time.Duration) (Result, error)
}

// CommentKey throttles comment submissions per client
func CommentKey(ip string) string {
	return "comment:" + ip
}

// ReactionKey throttles reactions per client and comment
func ReactionKey(ip, commentID string) string {
	return "reaction:" + ip + ":" + commentID
}

// NewsletterKey throttles newsletter subscriptions per client
func NewsletterKey(ip string) string {
	return "newsletter:" + ip
}

// ContactKey throttles contact form submissions per client
func ContactKey(ip string) string {
	return "contact:" + ip
}

// AdminKey throttles back-office requests per client
func AdminKey(ip string) string {
	return "admin:" + ip
}

// retryAfter is the wait until oldest leaves the window, in whole seconds, at least one
func retryAfter(oldest, now time.Time, window time.Duration) time.Duration {
	secs := math.Ceil(oldest.Add(window).Sub(now).Seconds())
	if secs < 1 {
		secs = 1
	}
	return time.Duration(secs) * time.Second
}
