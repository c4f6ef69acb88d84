package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/portfolio-api/internal/cache"
	"github.com/portfolio-api/internal/config"
	"github.com/portfolio-api/internal/mocks"
	"github.com/portfolio-api/internal/models"
	"github.com/portfolio-api/internal/ratelimit"
	"github.com/portfolio-api/internal/requestctx"
	"github.com/portfolio-api/internal/service"
	"github.com/portfolio-api/internal/storage"
	"github.com/rs/zerolog"
)

const (
	testIP    = "203.0.113.7"
	testAgent = "test-agent/1.0"
)

// clock is a settable time source shared by the services and the limiter
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	svc      *service.Services
	repos    *mocks.Repos
	notifier *mocks.MockNotifier
	files    *storage.Local
	clock    *clock
	cfg      *config.Config
}

func testConfig() *config.Config {
	hour := time.Hour
	return &config.Config{
		Server: config.ServerConfig{Env: "test"},
		Auth: config.AuthConfig{
			AdminEmail: "admin@example.com",
			JWTSecret:  "test-secret",
			TokenTTL:   time.Hour,
		},
		Storage: config.StorageConfig{
			PublicURL:    "/uploads",
			MaxImageSize: 5 << 20,
			MaxCVSize:    10 << 20,
		},
		RateLimit: config.RateLimitConfig{
			Comment:    config.RateLimitRule{Max: 10, Window: hour},
			Reaction:   config.RateLimitRule{Max: 10, Window: hour},
			Newsletter: config.RateLimitRule{Max: 10, Window: hour},
			Contact:    config.RateLimitRule{Max: 5, Window: hour},
			Admin:      config.RateLimitRule{Max: 60, Window: time.Minute},
		},
		Jobs: config.JobsConfig{
			PollInterval: 10 * time.Millisecond,
			MaxAttempts:  3,
			BaseBackoff:  10 * time.Second,
		},
		Site: config.SiteConfig{
			Title:       "Test Portfolio",
			Description: "Notes",
			BaseURL:     "https://example.com",
			Language:    "en",
		},
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWith(t, testConfig())
}

func newFixtureWith(t *testing.T, cfg *config.Config) *fixture {
	t.Helper()
	repos, m := mocks.NewMockRepositories()
	clk := &clock{now: time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)}
	files := storage.NewLocal(t.TempDir(), cfg.Storage.PublicURL)
	notifier := &mocks.MockNotifier{}

	svc := service.NewServices(repos, service.Dependencies{
		Limiter:  ratelimit.NewMemoryLimiterWithClock(clk.Now),
		Cache:    cache.NewMemoryCache(),
		Files:    files,
		Notifier: notifier,
		Now:      clk.Now,
	}, cfg, zerolog.Nop())

	return &fixture{svc: svc, repos: m, notifier: notifier, files: files, clock: clk, cfg: cfg}
}

func clientCtx() context.Context {
	return requestctx.WithClient(context.Background(), testIP, testAgent)
}

func clientCtxFrom(ip string) context.Context {
	return requestctx.WithClient(context.Background(), ip, testAgent)
}

// addArticle stores an article published an hour before the fixture clock
func (f *fixture) addArticle(t *testing.T, id, slug string, mutate func(*models.Article)) *models.Article {
	t.Helper()
	published := f.clock.Now().Add(-time.Hour)
	a := &models.Article{
		ID:          id,
		Title:       "Article " + slug,
		Slug:        slug,
		Excerpt:     "An excerpt",
		Content:     "<p>Body text</p>",
		Tags:        models.StringList{},
		PublishedAt: &published,
		CreatedAt:   published,
		UpdatedAt:   published,
	}
	if mutate != nil {
		mutate(a)
	}
	if err := f.repos.Article.Create(context.Background(), a); err != nil {
		t.Fatalf("Failed to add article: %v", err)
	}
	return a
}

func (f *fixture) addComment(t *testing.T, id, articleID string, status models.CommentStatus, parentID *string) *models.Comment {
	t.Helper()
	c := &models.Comment{
		ID:         id,
		ArticleID:  articleID,
		ParentID:   parentID,
		AuthorName: "Reader",
		Content:    "Nice post",
		Status:     status,
		CreatedAt:  f.clock.Now(),
		UpdatedAt:  f.clock.Now(),
	}
	if err := f.repos.Comment.Create(context.Background(), c); err != nil {
		t.Fatalf("Failed to add comment: %v", err)
	}
	return c
}

func strPtr(s string) *string {
	return &s
}
