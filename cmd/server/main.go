package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/portfolio-api/internal/api"
	"github.com/portfolio-api/internal/cache"
	"github.com/portfolio-api/internal/config"
	"github.com/portfolio-api/internal/database"
	"github.com/portfolio-api/internal/notify"
	"github.com/portfolio-api/internal/ratelimit"
	"github.com/portfolio-api/internal/repository"
	"github.com/portfolio-api/internal/service"
	"github.com/portfolio-api/internal/storage"
	"github.com/portfolio-api/internal/telemetry"
	"github.com/portfolio-api/pkg/logger"
	"github.com/rs/zerolog"
)

var version = "dev"

func main() {
	log := logger.New()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log = logger.NewWithConfig(cfg.Log.Level, cfg.Log.Format, os.Stdout)
	log.Info().Str("version", version).Str("env", cfg.Server.Env).Msg("Starting Portfolio API server...")

	if cfg.Telemetry.Enabled {
		provider, err := telemetry.NewProvider(telemetry.Config{
			ServiceName:    "portfolio-api",
			ServiceVersion: version,
			Environment:    cfg.Server.Env,
			SampleRate:     cfg.Telemetry.SampleRate,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize tracing")
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := provider.Shutdown(ctx); err != nil {
				log.Warn().Err(err).Msg("Tracer shutdown failed")
			}
		}()
	}

	// Initialize database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Run migrations
	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "./migrations"
	}
	if err := db.RunMigrations(migrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	deps := service.Dependencies{
		Files:    storage.NewLocal(cfg.Storage.UploadDir, cfg.Storage.PublicURL),
		Notifier: buildNotifier(cfg, log),
	}

	// Redis backs the limiter and the cache when configured
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := client.Ping(ctx).Err()
		cancel()
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to connect to Redis")
		}
		deps.Limiter = ratelimit.NewRedisLimiter(client, "portfolio:ratelimit:")
		deps.Cache = cache.NewRedisCache(client, "portfolio:cache:")
		log.Info().Str("addr", cfg.Redis.Addr).Msg("Using Redis for rate limits and cache")
	} else {
		deps.Limiter = ratelimit.NewMemoryLimiter()
		deps.Cache = cache.NewMemoryCache()
		log.Info().Msg("Using in-process rate limits and cache")
	}

	// Initialize repositories and services
	repos := repository.New(db)
	services := service.NewServices(repos, deps, cfg, log)

	// Start background job processor
	go services.Job.StartProcessor(context.Background())
	log.Info().Msg("Background job processor started")

	router := api.NewRouter(services, cfg, log, api.Options{Health: db, Limiter: deps.Limiter})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	services.Job.StopProcessor()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}

// buildNotifier fans admin notifications out to every configured channel,
// falling back to the log
func buildNotifier(cfg *config.Config, log zerolog.Logger) notify.Notifier {
	var notifiers notify.Multi
	if cfg.Mail.Enabled() && cfg.Auth.AdminEmail != "" {
		notifiers = append(notifiers, notify.NewEmailNotifier(
			cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Username, cfg.Mail.Password, cfg.Mail.From, cfg.Auth.AdminEmail,
		))
	}
	if cfg.Telegram.Enabled() {
		tg, err := notify.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			log.Warn().Err(err).Msg("Telegram notifier disabled")
		} else {
			notifiers = append(notifiers, tg)
		}
	}
	if len(notifiers) == 0 {
		return notify.NewLogNotifier(log)
	}
	return notifiers
}
