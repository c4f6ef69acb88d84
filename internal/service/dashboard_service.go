package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/portfolio-api/internal/models"
	"github.com/portfolio-api/internal/repository"
	"github.com/rs/zerolog"
)

const (
	dashboardTopArticles = 5
	recentActivityLimit  = 10
)

// dashboardService is the concrete implementation of DashboardService
type dashboardService struct {
	repos *repository.Repositories
	now   func() time.Time
	log   zerolog.Logger
}

func newDashboardService(repos *repository.Repositories, now func() time.Time, log zerolog.Logger) *dashboardService {
	return &dashboardService{
		repos: repos,
		now:   now,
		log:   log.With().Str("service", "dashboard").Logger(),
	}
}

// Dashboard gathers the admin analytics
func (s *dashboardService) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	now := s.now()
	d := &models.Dashboard{}

	if err := s.counts(ctx, now, d); err != nil {
		return nil, err
	}

	var err error
	if d.Views, err = s.repos.Article.ViewStats(ctx); err != nil {
		return nil, fmt.Errorf("view stats: %w", err)
	}
	if d.PopularArticles, err = s.repos.Article.Popular(ctx, now, dashboardTopArticles); err != nil {
		return nil, fmt.Errorf("popular articles: %w", err)
	}
	if d.RecentArticles, err = s.repos.Article.Recent(ctx, dashboardTopArticles); err != nil {
		return nil, fmt.Errorf("recent articles: %w", err)
	}
	if d.ViewsByCategory, err = s.repos.Article.ViewsByCategory(ctx); err != nil {
		return nil, fmt.Errorf("views by category: %w", err)
	}
	if d.SeriesStats, err = s.repos.Article.SeriesStats(ctx); err != nil {
		return nil, fmt.Errorf("series stats: %w", err)
	}
	if d.RecentActivity, err = s.recentActivity(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *dashboardService) counts(ctx context.Context, now time.Time, d *models.Dashboard) error {
	c := &d.Counts
	steps := []struct {
		name string
		dst  *int
		fn   func(context.Context) (int, error)
	}{
		{"projects", &c.Projects, s.repos.Project.Count},
		{"skills", &c.Skills, s.repos.Skill.Count},
		{"experiences", &c.Experiences, s.repos.Experience.Count},
		{"testimonials", &c.Testimonials, s.repos.Testimonial.Count},
		{"messages", &c.Messages, func(ctx context.Context) (int, error) { return s.repos.Contact.Count(ctx, false) }},
		{"unread messages", &c.UnreadMessages, func(ctx context.Context) (int, error) { return s.repos.Contact.Count(ctx, true) }},
		{"comments", &c.Comments, func(ctx context.Context) (int, error) { return s.repos.Comment.Count(ctx, "") }},
		{"pending comments", &c.PendingComments, func(ctx context.Context) (int, error) {
			return s.repos.Comment.Count(ctx, models.CommentStatusPending)
		}},
	}
	for _, step := range steps {
		n, err := step.fn(ctx)
		if err != nil {
			return fmt.Errorf("count %s: %w", step.name, err)
		}
		*step.dst = n
	}

	articles, err := s.repos.Article.Counts(ctx, now)
	if err != nil {
		return fmt.Errorf("count articles: %w", err)
	}
	c.Articles = articles.Total
	c.PublishedArticles = articles.Published
	c.DraftArticles = articles.Draft
	c.ScheduledArticles = articles.Scheduled
	c.FeaturedArticles = articles.Featured
	d.PublishedThisMonth = articles.ThisMonth

	subs, err := s.repos.Subscriber.Stats(ctx, monthStart(now))
	if err != nil {
		return fmt.Errorf("subscriber stats: %w", err)
	}
	c.ActiveSubscribers = subs.Active
	return nil
}

// recentActivity merges the newest articles, messages and comments
func (s *dashboardService) recentActivity(ctx context.Context) ([]models.RecentActivity, error) {
	var items []models.RecentActivity

	articles, err := s.repos.Article.Recent(ctx, recentActivityLimit)
	if err != nil {
		return nil, fmt.Errorf("recent articles: %w", err)
	}
	for _, a := range articles {
		items = append(items, models.RecentActivity{Type: "article", Title: a.Title, CreatedAt: a.CreatedAt})
	}

	messages, err := s.repos.Contact.Recent(ctx, recentActivityLimit)
	if err != nil {
		return nil, fmt.Errorf("recent messages: %w", err)
	}
	for _, m := range messages {
		title := m.Subject
		if title == "" {
			title = "New message from " + m.Name
		}
		items = append(items, models.RecentActivity{Type: "message", Title: title, CreatedAt: m.CreatedAt})
	}

	comments, err := s.repos.Comment.Recent(ctx, recentActivityLimit)
	if err != nil {
		return nil, fmt.Errorf("recent comments: %w", err)
	}
	titles := map[string]string{}
	for _, c := range comments {
		title, ok := titles[c.ArticleID]
		if !ok {
			title = "Deleted Article"
			if a, err := s.repos.Article.GetByID(ctx, c.ArticleID); err != nil {
				s.log.Warn().Err(err).Str("article_id", c.ArticleID).Msg("Failed to load comment article")
			} else if a != nil {
				title = a.Title
			}
			titles[c.ArticleID] = title
		}
		items = append(items, models.RecentActivity{Type: "comment", Title: "Comment on: " + title, CreatedAt: c.CreatedAt})
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	if len(items) > recentActivityLimit {
		items = items[:recentActivityLimit]
	}
	if items == nil {
		items = []models.RecentActivity{}
	}
	return items, nil
}
