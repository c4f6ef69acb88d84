package service

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/portfolio-api/internal/auth"
	"github.com/portfolio-api/internal/cache"
	"github.com/portfolio-api/internal/config"
	"github.com/portfolio-api/internal/models"
	"github.com/portfolio-api/internal/notify"
	"github.com/portfolio-api/internal/ratelimit"
	"github.com/portfolio-api/internal/repository"
	"github.com/rs/zerolog"
)

// CommentService handles public comment submission
type CommentService interface {
	// Submit stores a pending comment on a published article. It returns
	// (nil, nil) when the submission was silently dropped as spam.
	Submit(ctx context.Context, articleRef string, in *models.SubmitCommentInput) (*models.CommentView, error)
}

// ReactionService handles like/helpful toggles
type ReactionService interface {
	Toggle(ctx context.Context, commentID, kind string) (*models.ToggleResult, error)
}

// ModerationService handles the admin comment queue
type ModerationService interface {
	List(ctx context.Context, filter models.CommentFilter, page int) (models.Page[*models.AdminComment], error)
	Approve(ctx context.Context, id string) (*models.CommentView, error)
	Reject(ctx context.Context, id string) (*models.CommentView, error)
	Delete(ctx context.Context, id string) error
}

// SearchService handles site search
type SearchService interface {
	Search(ctx context.Context, query, searchType string) (*models.SearchResult, error)
}

// ArticleService handles public and admin article operations
type ArticleService interface {
	ListPublished(ctx context.Context, category, tag string, page int) (models.Page[*models.Article], error)
	Show(ctx context.Context, slug string) (*models.ArticleDetail, error)
	Categories(ctx context.Context) ([]models.CategoryCount, error)
	Tags(ctx context.Context) ([]models.TagCount, error)
	Popular(ctx context.Context) ([]*models.Article, error)

	AdminList(ctx context.Context, filter models.ArticleFilter, page int) (models.Page[*models.Article], error)
	Get(ctx context.Context, id string) (*models.Article, error)
	Create(ctx context.Context, in *models.ArticleInput) (*models.Article, error)
	Update(ctx context.Context, id string, in *models.ArticleInput) (*models.Article, error)
	Delete(ctx context.Context, id string) error
	BulkDelete(ctx context.Context, ids []string) (int, error)
}

// ContentService handles projects, skills, experiences, testimonials and the homepage
type ContentService interface {
	Home(ctx context.Context) (*models.Home, error)

	ListProjects(ctx context.Context, archived *bool) ([]*models.Project, error)
	GetProject(ctx context.Context, id string) (*models.Project, error)
	CreateProject(ctx context.Context, in *models.ProjectInput) (*models.Project, error)
	UpdateProject(ctx context.Context, id string, in *models.ProjectInput) (*models.Project, error)
	DeleteProject(ctx context.Context, id string) error

	ListSkills(ctx context.Context) ([]*models.Skill, error)
	GetSkill(ctx context.Context, id string) (*models.Skill, error)
	CreateSkill(ctx context.Context, in *models.SkillInput) (*models.Skill, error)
	UpdateSkill(ctx context.Context, id string, in *models.SkillInput) (*models.Skill, error)
	DeleteSkill(ctx context.Context, id string) error

	ListExperiences(ctx context.Context) ([]*models.Experience, error)
	GetExperience(ctx context.Context, id string) (*models.Experience, error)
	CreateExperience(ctx context.Context, in *models.ExperienceInput) (*models.Experience, error)
	UpdateExperience(ctx context.Context, id string, in *models.ExperienceInput) (*models.Experience, error)
	DeleteExperience(ctx context.Context, id string) error

	ListTestimonials(ctx context.Context) ([]*models.Testimonial, error)
	GetTestimonial(ctx context.Context, id string) (*models.Testimonial, error)
	CreateTestimonial(ctx context.Context, in *models.TestimonialInput) (*models.Testimonial, error)
	UpdateTestimonial(ctx context.Context, id string, in *models.TestimonialInput) (*models.Testimonial, error)
	DeleteTestimonial(ctx context.Context, id string) error
}

// CVService handles resume uploads and downloads
type CVService interface {
	Upload(ctx context.Context, fileName string, size int64, r io.Reader) (*models.CVView, error)
	List(ctx context.Context) ([]*models.CVView, error)
	Delete(ctx context.Context, id string) error
	// Download opens the active CV; the caller closes the file
	Download(ctx context.Context) (*models.CV, *os.File, error)
}

// MediaService handles admin image uploads
type MediaService interface {
	UploadImage(ctx context.Context, fileName string, size int64, r io.Reader) (*models.MediaUpload, error)
}

// NewsletterService handles newsletter subscriptions
type NewsletterService interface {
	Subscribe(ctx context.Context, in *models.SubscribeInput) (*models.Subscriber, error)
	Unsubscribe(ctx context.Context, email string) error
	List(ctx context.Context, filter models.SubscriberFilter, page int) (models.Page[*models.Subscriber], error)
	Stats(ctx context.Context) (models.SubscriberStats, error)
	Delete(ctx context.Context, id string) error
}

// ContactService handles the contact form and the admin inbox
type ContactService interface {
	Submit(ctx context.Context, in *models.ContactInput) error
	List(ctx context.Context, unreadOnly bool, page int) (*models.ContactInbox, error)
	// Get returns a message and marks it read
	Get(ctx context.Context, id string) (*models.ContactMessage, error)
	Delete(ctx context.Context, id string) error
}

// ActivityService records and lists admin changes
type ActivityService interface {
	// Record never fails the caller; errors are logged
	Record(ctx context.Context, kind models.EntityKind, action models.ActivityAction, entityID string, oldValues, newValues interface{})
	List(ctx context.Context, filter models.ActivityFilter, page int) (models.Page[*models.ActivityLog], error)
}

// DashboardService builds the admin dashboard
type DashboardService interface {
	Dashboard(ctx context.Context) (*models.Dashboard, error)
}

// FeedService renders the RSS feed and the sitemap
type FeedService interface {
	RSS(ctx context.Context) ([]byte, error)
	Sitemap(ctx context.Context) ([]byte, error)
	// WriteSitemap renders the sitemap without the cache
	WriteSitemap(ctx context.Context, w io.Writer) error
}

// AuthService handles admin login and token checks
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.TokenResponse, error)
	Authenticate(token string) (*auth.Claims, error)
}

// ExportService streams admin data exports
type ExportService interface {
	StreamArticles(ctx context.Context, w io.Writer, format string) error
	StreamSubscribers(ctx context.Context, w io.Writer, filter models.SubscriberFilter, format string) error
}

// JobService defines the interface for notification job management
type JobService interface {
	StartProcessor(ctx context.Context)
	StopProcessor()
	Enqueue(ctx context.Context, kind models.JobKind, payload interface{}) (*models.NotificationJob, error)
	GetJob(ctx context.Context, id string) (*models.NotificationJob, error)
}

// FileStore keeps uploaded files
type FileStore interface {
	Save(rel string, r io.Reader) (int64, error)
	Open(rel string) (*os.File, error)
	Delete(rel string) error
	URL(rel string) string
}

// Dependencies are the infrastructure pieces services are built on
type Dependencies struct {
	Limiter  ratelimit.Limiter
	Cache    cache.Cache
	Files    FileStore
	Notifier notify.Notifier
	Issuer   *auth.Issuer
	// Now defaults to time.Now
	Now func() time.Time
}

// Services holds all service interfaces
type Services struct {
	Comment    CommentService
	Reaction   ReactionService
	Moderation ModerationService
	Search     SearchService
	Article    ArticleService
	Content    ContentService
	CV         CVService
	Media      MediaService
	Newsletter NewsletterService
	Contact    ContactService
	Activity   ActivityService
	Dashboard  DashboardService
	Feed       FeedService
	Auth       AuthService
	Export     ExportService
	Job        JobService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, deps Dependencies, cfg *config.Config, log zerolog.Logger) *Services {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Limiter == nil {
		deps.Limiter = ratelimit.NewMemoryLimiterWithClock(deps.Now)
	}
	if deps.Cache == nil {
		deps.Cache = cache.NewMemoryCache()
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.NewLogNotifier(log)
	}
	if deps.Issuer == nil {
		deps.Issuer = auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	}

	activitySvc := newActivityService(repos.Activity, deps.Now, log)
	jobSvc := newJobService(repos.Job, deps.Notifier, cfg, deps.Now, log)

	return &Services{
		Comment:    newCommentService(repos, deps, cfg.RateLimit.Comment, log),
		Reaction:   newReactionService(repos, deps, cfg.RateLimit.Reaction, log),
		Moderation: newModerationService(repos.Comment, activitySvc, log),
		Search:     newSearchService(repos, deps.Now, log),
		Article:    newArticleService(repos, deps, activitySvc, log),
		Content:    newContentService(repos, deps, activitySvc, log),
		CV:         newCVService(repos.CV, deps, cfg.Storage, activitySvc, log),
		Media:      newMediaService(deps.Files, cfg.Storage, log),
		Newsletter: newNewsletterService(repos.Subscriber, deps, cfg.RateLimit.Newsletter, activitySvc, log),
		Contact:    newContactService(repos.Contact, jobSvc, deps, cfg.RateLimit.Contact, activitySvc, log),
		Activity:   activitySvc,
		Dashboard:  newDashboardService(repos, deps.Now, log),
		Feed:       newFeedService(repos, deps, cfg.Site, log),
		Auth:       newAuthService(cfg.Auth, deps.Issuer, log),
		Export:     newExportService(repos, deps.Now, log),
		Job:        jobSvc,
	}
}
