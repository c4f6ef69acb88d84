package repository

import (
	"context"
	"time"

	"github.com/portfolio-api/internal/database"
	"github.com/portfolio-api/internal/models"
)

// Single-row lookups return (nil, nil) when the row does not exist.

// ArticleRepository defines the interface for article data operations
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	Update(ctx context.Context, article *models.Article) error
	Delete(ctx context.Context, id string) (bool, error)
	DeleteMany(ctx context.Context, ids []string) (int, error)
	GetByID(ctx context.Context, id string) (*models.Article, error)
	GetBySlug(ctx context.Context, slug string) (*models.Article, error)
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	List(ctx context.Context, filter models.ArticleFilter, page models.Pagination) ([]*models.Article, int, error)
	IncrementViews(ctx context.Context, id string) error
	Related(ctx context.Context, article *models.Article, now time.Time, limit int) ([]*models.Article, error)
	Popular(ctx context.Context, now time.Time, limit int) ([]*models.Article, error)
	Recent(ctx context.Context, limit int) ([]*models.Article, error)
	InSeries(ctx context.Context, series string, now time.Time) ([]*models.Article, error)
	Published(ctx context.Context, now time.Time, limit int) ([]*models.Article, error)
	Search(ctx context.Context, query string, now time.Time, limit int) ([]*models.Article, error)
	Categories(ctx context.Context, now time.Time) ([]models.CategoryCount, error)
	Tags(ctx context.Context, now time.Time) ([]models.TagCount, error)
	Counts(ctx context.Context, now time.Time) (models.ArticleCounts, error)
	ViewStats(ctx context.Context) (models.ViewStats, error)
	ViewsByCategory(ctx context.Context) ([]models.CategoryViews, error)
	SeriesStats(ctx context.Context) ([]models.SeriesStat, error)
	StreamAll(ctx context.Context, callback func(*models.Article) error) error
}

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	UpdateStatus(ctx context.Context, id string, status models.CommentStatus) error
	Delete(ctx context.Context, id string) (bool, error)
	ListForModeration(ctx context.Context, filter models.CommentFilter, page models.Pagination) ([]*models.AdminComment, int, error)
	ListApproved(ctx context.Context, articleID string) ([]*models.Comment, error)
	Count(ctx context.Context, status models.CommentStatus) (int, error)
	Recent(ctx context.Context, limit int) ([]*models.Comment, error)
}

// ReactionRepository defines the interface for reaction data operations
type ReactionRepository interface {
	// Toggle flips the client's reaction of the given kind on a comment and
	// clears the opposite kind, all in one transaction. It returns (nil, nil)
	// when the comment does not exist.
	Toggle(ctx context.Context, reaction *models.Reaction) (*models.ToggleResult, error)
	Counts(ctx context.Context, commentIDs []string) (map[string]models.ReactionCounts, error)
}

// ProjectRepository defines the interface for project data operations
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (*models.Project, error)
	// List returns projects ordered for display; archived nil means all
	List(ctx context.Context, archived *bool) ([]*models.Project, error)
	Search(ctx context.Context, query string, limit int) ([]*models.Project, error)
	Count(ctx context.Context) (int, error)
}

// SkillRepository defines the interface for skill data operations
type SkillRepository interface {
	Create(ctx context.Context, skill *models.Skill) error
	Update(ctx context.Context, skill *models.Skill) error
	Delete(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (*models.Skill, error)
	List(ctx context.Context) ([]*models.Skill, error)
	Count(ctx context.Context) (int, error)
}

// ExperienceRepository defines the interface for experience data operations
type ExperienceRepository interface {
	Create(ctx context.Context, experience *models.Experience) error
	Update(ctx context.Context, experience *models.Experience) error
	Delete(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (*models.Experience, error)
	List(ctx context.Context) ([]*models.Experience, error)
	Count(ctx context.Context) (int, error)
}

// TestimonialRepository defines the interface for testimonial data operations
type TestimonialRepository interface {
	Create(ctx context.Context, testimonial *models.Testimonial) error
	Update(ctx context.Context, testimonial *models.Testimonial) error
	Delete(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (*models.Testimonial, error)
	// List returns testimonials by sort order; limit <= 0 means no limit
	List(ctx context.Context, limit int) ([]*models.Testimonial, error)
	Count(ctx context.Context) (int, error)
}

// SubscriberRepository defines the interface for newsletter subscriber data operations
type SubscriberRepository interface {
	Create(ctx context.Context, subscriber *models.Subscriber) (bool, error)
	Update(ctx context.Context, subscriber *models.Subscriber) error
	Delete(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (*models.Subscriber, error)
	GetByEmail(ctx context.Context, email string) (*models.Subscriber, error)
	List(ctx context.Context, filter models.SubscriberFilter, page models.Pagination) ([]*models.Subscriber, int, error)
	Stats(ctx context.Context, monthStart time.Time) (models.SubscriberStats, error)
	StreamAll(ctx context.Context, filter models.SubscriberFilter, callback func(*models.Subscriber) error) error
}

// ContactRepository defines the interface for contact message data operations
type ContactRepository interface {
	Create(ctx context.Context, message *models.ContactMessage) error
	GetByID(ctx context.Context, id string) (*models.ContactMessage, error)
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, unreadOnly bool, page models.Pagination) ([]*models.ContactMessage, int, error)
	Count(ctx context.Context, unreadOnly bool) (int, error)
	Recent(ctx context.Context, limit int) ([]*models.ContactMessage, error)
}

// CVRepository defines the interface for CV data operations
type CVRepository interface {
	// CreateActive stores cv as the only active CV
	CreateActive(ctx context.Context, cv *models.CV) error
	GetByID(ctx context.Context, id string) (*models.CV, error)
	GetActive(ctx context.Context) (*models.CV, error)
	List(ctx context.Context) ([]*models.CV, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// ActivityRepository defines the interface for activity log data operations
type ActivityRepository interface {
	Create(ctx context.Context, entry *models.ActivityLog) error
	List(ctx context.Context, filter models.ActivityFilter, page models.Pagination) ([]*models.ActivityLog, int, error)
}

// JobRepository defines the interface for notification job data operations
type JobRepository interface {
	Create(ctx context.Context, job *models.NotificationJob) error
	GetByID(ctx context.Context, id string) (*models.NotificationJob, error)
	GetDueJobs(ctx context.Context, now time.Time, limit int) ([]*models.NotificationJob, error)
	MarkJobAsProcessing(ctx context.Context, jobID string, startedAt time.Time) (bool, error)
	MarkCompleted(ctx context.Context, jobID string) error
	MarkRetry(ctx context.Context, jobID string, attempts int, runAt time.Time, lastErr string) error
	MarkFailed(ctx context.Context, jobID string, attempts int, lastErr string) error
	// RequeueStale returns processing jobs started before the cutoff to pending
	RequeueStale(ctx context.Context, startedBefore time.Time) (int, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Article     ArticleRepository
	Comment     CommentRepository
	Reaction    ReactionRepository
	Project     ProjectRepository
	Skill       SkillRepository
	Experience  ExperienceRepository
	Testimonial TestimonialRepository
	Subscriber  SubscriberRepository
	Contact     ContactRepository
	CV          CVRepository
	Activity    ActivityRepository
	Job         JobRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Article:     NewArticleRepo(db),
		Comment:     NewCommentRepo(db),
		Reaction:    NewReactionRepo(db),
		Project:     NewProjectRepo(db),
		Skill:       NewSkillRepo(db),
		Experience:  NewExperienceRepo(db),
		Testimonial: NewTestimonialRepo(db),
		Subscriber:  NewSubscriberRepo(db),
		Contact:     NewContactRepo(db),
		CV:          NewCVRepo(db),
		Activity:    NewActivityRepo(db),
		Job:         NewJobRepo(db),
	}
}
