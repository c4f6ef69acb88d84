package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-api/internal/auth"
	"github.com/portfolio-api/internal/config"
	"github.com/portfolio-api/internal/models"
	"github.com/portfolio-api/internal/ratelimit"
	"github.com/portfolio-api/internal/requestctx"
	"github.com/portfolio-api/internal/service"
	"github.com/rs/zerolog"
)

const claimsKey = "claims"

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Str("path", c.Request.URL.Path).Msg("Panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// securityHeadersMiddleware sets the browser hardening headers
func securityHeadersMiddleware(server config.ServerConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "SAMEORIGIN")
		h.Set("X-XSS-Protection", "1; mode=block")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		h.Set("Content-Security-Policy", "default-src 'self'; img-src 'self' data: https:; style-src 'self' 'unsafe-inline'; frame-ancestors 'self'")
		if !server.IsDevelopment() {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}

// requestContextMiddleware puts the client IP and user agent on the request context
func requestContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := requestctx.WithClient(c.Request.Context(), c.ClientIP(), c.Request.UserAgent())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// authMiddleware requires a valid bearer token
func authMiddleware(authSvc service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
			return
		}

		claims, err := authSvc.Authenticate(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
			return
		}

		c.Set(claimsKey, claims)
		c.Request = c.Request.WithContext(requestctx.WithActor(c.Request.Context(), claims.Email))
		c.Next()
	}
}

// adminMiddleware rejects authenticated users without the admin role
func adminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, _ := c.Get(claimsKey)
		claims, ok := v.(*auth.Claims)
		if !ok || claims.Role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Access denied. Admins only."})
			return
		}
		c.Next()
	}
}

// throttleMiddleware limits requests per client IP. Limiter errors let the
// request through.
func throttleMiddleware(limiter ratelimit.Limiter, rule config.RateLimitRule, key func(ip string) string, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := limiter.Allow(c.Request.Context(), key(c.ClientIP()), rule.Max, rule.Window)
		if err != nil {
			log.Warn().Err(err).Msg("Rate limiter unavailable, allowing request")
			c.Next()
			return
		}
		if !result.Allowed {
			seconds := result.RetryAfterSeconds()
			c.Header("Retry-After", strconv.Itoa(seconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message":     "Too Many Attempts.",
				"error":       "rate_limit_exceeded",
				"retry_after": seconds,
			})
			return
		}
		c.Next()
	}
}
