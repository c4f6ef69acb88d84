package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Mail      MailConfig
	Telegram  TelegramConfig
	Storage   StorageConfig
	RateLimit RateLimitConfig
	Jobs      JobsConfig
	Telemetry TelemetryConfig
	Log       LogConfig

	// Site metadata used by the feed and sitemap
	Site SiteConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	Env             string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	// TrustedProxies are the CIDRs/IPs allowed to set X-Forwarded-For.
	// Empty means the socket peer address is the client IP.
	TrustedProxies []string
}

// IsDevelopment reports whether the server runs with development defaults
func (s ServerConfig) IsDevelopment() bool {
	return s.Env == "development" || s.Env == "local"
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// RedisConfig holds the shared store used for rate limits and caching.
// An empty Addr means in-process stores are used instead.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AuthConfig holds admin credentials and token settings
type AuthConfig struct {
	AdminEmail        string
	AdminPasswordHash string
	JWTSecret         string
	TokenTTL          time.Duration
}

// MailConfig holds SMTP settings for outbound notifications
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Enabled reports whether SMTP delivery is configured
func (m MailConfig) Enabled() bool {
	return m.Host != ""
}

// TelegramConfig holds the optional chat notifier settings
type TelegramConfig struct {
	BotToken string
	ChatID   string
}

// Enabled reports whether the Telegram notifier is configured
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// StorageConfig holds upload settings
type StorageConfig struct {
	UploadDir     string
	PublicURL     string
	MaxImageSize  int64 // in bytes
	MaxCVSize     int64 // in bytes
	SitemapOutput string
	BackupDir     string
}

// RateLimitRule is a max number of attempts within a trailing window
type RateLimitRule struct {
	Max    int
	Window time.Duration
}

// RateLimitConfig holds per-action throttles
type RateLimitConfig struct {
	Comment    RateLimitRule
	Reaction   RateLimitRule
	Newsletter RateLimitRule
	Contact    RateLimitRule
	Admin      RateLimitRule
}

// JobsConfig holds background notification job settings
type JobsConfig struct {
	PollInterval time.Duration
	MaxAttempts  int
	BaseBackoff  time.Duration
}

// TelemetryConfig holds tracing settings
type TelemetryConfig struct {
	Enabled    bool
	SampleRate float64
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// Load reads configuration from .env, the process environment and the
// optional site metadata file
func Load() (*Config, error) {
	// A missing .env file is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	env := getEnv("ENV", "production")
	dev := env == "development" || env == "local"

	contactRule := RateLimitRule{Max: 5, Window: time.Hour}
	logFormat := "json"
	if dev {
		contactRule = RateLimitRule{Max: 20, Window: time.Minute}
		logFormat = "pretty"
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Env:             env,
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			TrustedProxies:  getListEnv("TRUSTED_PROXIES"),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Name:         getEnv("DB_NAME", "portfolio"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getIntEnv("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getDurationEnv("DB_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			AdminEmail:        getEnv("ADMIN_EMAIL", ""),
			AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
			JWTSecret:         getEnv("JWT_SECRET", ""),
			TokenTTL:          getDurationEnv("JWT_TTL", 12*time.Hour),
		},
		Mail: MailConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getIntEnv("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("MAIL_FROM", "no-reply@localhost"),
		},
		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
			ChatID:   getEnv("TELEGRAM_CHAT_ID", ""),
		},
		Storage: StorageConfig{
			UploadDir:     getEnv("UPLOAD_DIR", "./data/uploads"),
			PublicURL:     getEnv("UPLOAD_PUBLIC_URL", "/uploads"),
			MaxImageSize:  getInt64Env("MAX_IMAGE_SIZE", 5*1024*1024), // 5MB
			MaxCVSize:     getInt64Env("MAX_CV_SIZE", 10*1024*1024),   // 10MB
			SitemapOutput: getEnv("SITEMAP_OUTPUT", "./public/sitemap.xml"),
			BackupDir:     getEnv("BACKUP_DIR", "./backups"),
		},
		RateLimit: RateLimitConfig{
			Comment:    getRuleEnv("RATE_LIMIT_COMMENT", RateLimitRule{Max: 10, Window: time.Hour}),
			Reaction:   getRuleEnv("RATE_LIMIT_REACTION", RateLimitRule{Max: 10, Window: time.Hour}),
			Newsletter: getRuleEnv("RATE_LIMIT_NEWSLETTER", RateLimitRule{Max: 10, Window: time.Hour}),
			Contact:    getRuleEnv("RATE_LIMIT_CONTACT", contactRule),
			Admin:      getRuleEnv("RATE_LIMIT_ADMIN", RateLimitRule{Max: 60, Window: time.Minute}),
		},
		Jobs: JobsConfig{
			PollInterval: getDurationEnv("JOBS_POLL_INTERVAL", 2*time.Second),
			MaxAttempts:  getIntEnv("JOBS_MAX_ATTEMPTS", 3),
			BaseBackoff:  getDurationEnv("JOBS_BASE_BACKOFF", 10*time.Second),
		},
		Telemetry: TelemetryConfig{
			Enabled:    getBoolEnv("OTEL_ENABLED", false),
			SampleRate: getFloatEnv("OTEL_SAMPLE_RATE", 1.0),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", logFormat),
		},
	}

	site, err := LoadSite(getEnv("SITE_CONFIG", "./config/site.yaml"))
	if err != nil {
		return nil, err
	}
	cfg.Site = site

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Auth.JWTSecret == "" && !c.Server.IsDevelopment() {
		return fmt.Errorf("JWT_SECRET is required outside development")
	}

	rules := map[string]RateLimitRule{
		"comment":    c.RateLimit.Comment,
		"reaction":   c.RateLimit.Reaction,
		"newsletter": c.RateLimit.Newsletter,
		"contact":    c.RateLimit.Contact,
		"admin":      c.RateLimit.Admin,
	}
	var errs []error
	for name, rule := range rules {
		if rule.Max <= 0 || rule.Window <= 0 {
			errs = append(errs, fmt.Errorf("rate limit %q must have a positive max and window", name))
		}
	}
	return errors.Join(errs...)
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getListEnv splits a comma-separated value, dropping empty items
func getListEnv(key string) []string {
	var items []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getRuleEnv reads KEY_MAX and KEY_WINDOW
func getRuleEnv(prefix string, defaultValue RateLimitRule) RateLimitRule {
	return RateLimitRule{
		Max:    getIntEnv(prefix+"_MAX", defaultValue.Max),
		Window: getDurationEnv(prefix+"_WINDOW", defaultValue.Window),
	}
}
