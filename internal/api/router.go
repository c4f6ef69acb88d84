package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-api/internal/config"
	"github.com/portfolio-api/internal/ratelimit"
	"github.com/portfolio-api/internal/service"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const serviceName = "portfolio-api"

// HealthChecker reports whether a dependency is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Options are the router's infrastructure dependencies
type Options struct {
	// Health is pinged by /health; nil reports healthy
	Health HealthChecker
	// Limiter backs the admin throttle; nil uses an in-memory limiter
	Limiter ratelimit.Limiter
}

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger, opts Options) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	if opts.Limiter == nil {
		opts.Limiter = ratelimit.NewMemoryLimiter()
	}

	router := gin.New()
	// Only listed proxies may override the client IP through X-Forwarded-For
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		log.Warn().Err(err).Strs("trusted_proxies", cfg.Server.TrustedProxies).Msg("Invalid trusted proxies, trusting none")
		router.SetTrustedProxies(nil)
	}

	// Middleware
	router.Use(recoveryMiddleware(log))
	if cfg.Telemetry.Enabled {
		router.Use(otelgin.Middleware(serviceName))
	}
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())
	router.Use(securityHeadersMiddleware(cfg.Server))
	router.Use(requestContextMiddleware())

	// Handlers
	public := NewPublicHandler(services, log)
	interaction := NewInteractionHandler(services, log)
	feed := NewFeedHandler(services, log)
	admin := NewAdminHandler(services, log)
	content := NewContentHandler(services, log)
	exports := NewExportHandler(services, log)

	router.GET("/health", healthCheck(opts.Health))

	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/home", public.Home)
		apiGroup.GET("/projects", public.ListProjects)
		apiGroup.GET("/projects/archive", public.ArchivedProjects)
		apiGroup.GET("/projects/:id", public.GetProject)
		apiGroup.GET("/skills", public.ListSkills)
		apiGroup.GET("/experiences", public.ListExperiences)
		apiGroup.GET("/testimonials", public.ListTestimonials)

		apiGroup.GET("/articles", public.ListArticles)
		apiGroup.GET("/articles/categories", public.Categories)
		apiGroup.GET("/articles/tags", public.Tags)
		apiGroup.GET("/articles/category/:category", public.ArticlesByCategory)
		apiGroup.GET("/articles/tag/:tag", public.ArticlesByTag)
		apiGroup.GET("/articles/:slug", public.ShowArticle)
	}

	router.POST("/articles/:article/comments", interaction.SubmitComment)
	router.POST("/comments/:comment/reactions", interaction.ToggleReaction)
	router.POST("/contact", interaction.SubmitContact)
	router.POST("/newsletter/subscribe", interaction.Subscribe)
	router.POST("/newsletter/unsubscribe/:email", interaction.Unsubscribe)
	router.GET("/search", public.Search)

	router.GET("/sitemap.xml", feed.Sitemap)
	router.GET("/feed", feed.RSS)
	router.GET("/cv/download", feed.DownloadCV)
	if cfg.Storage.UploadDir != "" {
		router.Static("/uploads", cfg.Storage.UploadDir)
	}

	router.POST("/admin/login", admin.Login)

	protected := router.Group("/admin")
	protected.Use(authMiddleware(services.Auth), adminMiddleware())
	protected.Use(throttleMiddleware(opts.Limiter, cfg.RateLimit.Admin, ratelimit.AdminKey, log))
	{
		protected.GET("/dashboard", admin.Dashboard)

		content.register(protected)

		protected.POST("/articles/bulk-delete", admin.BulkDeleteArticles)
		protected.GET("/articles/export", exports.Articles)

		protected.GET("/comments", admin.ListComments)
		protected.POST("/comments/:id/approve", admin.ApproveComment)
		protected.POST("/comments/:id/reject", admin.RejectComment)
		protected.DELETE("/comments/:id", admin.DeleteComment)

		protected.GET("/contact-messages", admin.ListMessages)
		protected.GET("/contact-messages/:id", admin.GetMessage)
		protected.DELETE("/contact-messages/:id", admin.DeleteMessage)

		protected.GET("/newsletter", admin.ListSubscribers)
		protected.GET("/newsletter/export", exports.Subscribers)
		protected.DELETE("/newsletter/:id", admin.DeleteSubscriber)

		protected.GET("/cv", admin.ListCVs)
		protected.POST("/cv", admin.UploadCV)
		protected.DELETE("/cv/:id", admin.DeleteCV)

		protected.POST("/media", admin.UploadMedia)

		protected.GET("/activity-logs", admin.ListActivity)
	}

	return router
}

// healthCheck returns the health status
func healthCheck(health HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, code := "healthy", http.StatusOK
		if health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := health.HealthCheck(ctx); err != nil {
				status, code = "unhealthy", http.StatusServiceUnavailable
			}
		}
		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   serviceName,
		})
	}
}
