package service

import (
	"context"

	"github.com/portfolio-api/internal/config"
	"github.com/portfolio-api/internal/ratelimit"
	"github.com/rs/zerolog"
)

// throttle records an attempt against key. A limiter failure is logged and
// the attempt is let through.
func throttle(ctx context.Context, limiter ratelimit.Limiter, key string, rule config.RateLimitRule, log zerolog.Logger) ratelimit.Result {
	result, err := limiter.Allow(ctx, key, rule.Max, rule.Window)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Rate limiter unavailable, allowing request")
		return ratelimit.Result{Allowed: true}
	}
	if !result.Allowed {
		log.Info().Str("key", key).Dur("retry_after", result.RetryAfter).Msg("Rate limit exceeded")
	}
	return result
}
