package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/portfolio-api/internal/cache"
	"github.com/portfolio-api/internal/htmltext"
	"github.com/portfolio-api/internal/models"
	"github.com/portfolio-api/internal/repository"
	"github.com/portfolio-api/internal/validation"
	"github.com/rs/zerolog"
)

const (
	articlesPerPage      = 12
	adminArticlesPerPage = 15
	relatedLimit         = 3
	popularLimit         = 5
	popularTTL           = time.Hour
	taxonomyTTL          = 24 * time.Hour
)

// articleService is the concrete implementation of ArticleService
type articleService struct {
	articles  repository.ArticleRepository
	comments  repository.CommentRepository
	reactions repository.ReactionRepository
	cache     cache.Cache
	activity  ActivityService
	now       func() time.Time
	log       zerolog.Logger
}

func newArticleService(repos *repository.Repositories, deps Dependencies, activity ActivityService, log zerolog.Logger) *articleService {
	return &articleService{
		articles:  repos.Article,
		comments:  repos.Comment,
		reactions: repos.Reaction,
		cache:     deps.Cache,
		activity:  activity,
		now:       deps.Now,
		log:       log.With().Str("service", "article").Logger(),
	}
}

// decorate fills the derived fields of each article
func (s *articleService) decorate(articles ...*models.Article) {
	now := s.now()
	for _, a := range articles {
		a.Status = a.StatusAt(now)
		a.ReadingTime = htmltext.ReadingTime(a.Content)
		a.MetaDescription = htmltext.MetaDescription(a.Excerpt, a.Content)
	}
}

// ListPublished returns published articles, newest first
func (s *articleService) ListPublished(ctx context.Context, category, tag string, page int) (models.Page[*models.Article], error) {
	p := models.NewPagination(page, articlesPerPage, articlesPerPage)
	filter := models.ArticleFilter{PublishedOnly: true, Category: category, Tag: tag, Now: s.now()}

	articles, total, err := s.articles.List(ctx, filter, p)
	if err != nil {
		return models.Page[*models.Article]{}, fmt.Errorf("list articles: %w", err)
	}
	s.decorate(articles...)
	return models.NewPage(articles, p.Page, p.PerPage, total), nil
}

// Show returns a published article page and counts the view
func (s *articleService) Show(ctx context.Context, slug string) (*models.ArticleDetail, error) {
	article, err := s.articles.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	now := s.now()
	if article == nil || !article.IsPublished(now) {
		return nil, ErrNotFound
	}

	if err := s.articles.IncrementViews(ctx, article.ID); err != nil {
		s.log.Warn().Err(err).Str("article_id", article.ID).Msg("Failed to increment views")
	} else {
		article.Views++
	}

	related, err := s.articles.Related(ctx, article, now, relatedLimit)
	if err != nil {
		return nil, fmt.Errorf("related articles: %w", err)
	}
	popular, err := s.Popular(ctx)
	if err != nil {
		return nil, err
	}

	series := []*models.Article{}
	if article.Series != "" {
		inSeries, err := s.articles.InSeries(ctx, article.Series, now)
		if err != nil {
			return nil, fmt.Errorf("series articles: %w", err)
		}
		for _, a := range inSeries {
			if a.ID != article.ID {
				series = append(series, a)
			}
		}
	}

	threads, err := s.threads(ctx, article.ID)
	if err != nil {
		return nil, err
	}

	s.decorate(article)
	s.decorate(related...)
	s.decorate(series...)
	article.CommentsCount = countThreads(threads)

	return &models.ArticleDetail{
		Article:  article,
		Related:  related,
		Popular:  popular,
		Series:   series,
		Comments: threads,
	}, nil
}

// threads builds the approved comment tree: top-level comments newest
// first, each with its approved replies oldest first
func (s *articleService) threads(ctx context.Context, articleID string) ([]*models.CommentThread, error) {
	comments, err := s.comments.ListApproved(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
	}
	counts, err := s.reactions.Counts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("reaction counts: %w", err)
	}

	byID := make(map[string]*models.CommentThread, len(comments))
	var roots []*models.CommentThread
	for _, c := range comments {
		t := &models.CommentThread{CommentView: models.NewCommentView(c), Reactions: counts[c.ID]}
		byID[c.ID] = t
		if c.ParentID == nil {
			roots = append(roots, t)
		}
	}
	for _, c := range comments {
		if c.ParentID == nil {
			continue
		}
		// Replies to hidden comments are hidden with them
		if parent, ok := byID[*c.ParentID]; ok {
			parent.Replies = append(parent.Replies, byID[c.ID])
		}
	}

	threads := make([]*models.CommentThread, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		threads = append(threads, roots[i])
	}
	return threads, nil
}

func countThreads(threads []*models.CommentThread) int {
	n := 0
	for _, t := range threads {
		n += 1 + len(t.Replies)
	}
	return n
}

// Categories returns published article counts per category
func (s *articleService) Categories(ctx context.Context) ([]models.CategoryCount, error) {
	return cache.Remember(ctx, s.cache, cache.KeyArticleCategories, taxonomyTTL, func(ctx context.Context) ([]models.CategoryCount, error) {
		return s.articles.Categories(ctx, s.now())
	})
}

// Tags returns published article counts per tag
func (s *articleService) Tags(ctx context.Context) ([]models.TagCount, error) {
	return cache.Remember(ctx, s.cache, cache.KeyArticleTags, taxonomyTTL, func(ctx context.Context) ([]models.TagCount, error) {
		return s.articles.Tags(ctx, s.now())
	})
}

// Popular returns the most viewed published articles
func (s *articleService) Popular(ctx context.Context) ([]*models.Article, error) {
	return cache.Remember(ctx, s.cache, cache.KeyPopularArticles, popularTTL, func(ctx context.Context) ([]*models.Article, error) {
		articles, err := s.articles.Popular(ctx, s.now(), popularLimit)
		if err != nil {
			return nil, fmt.Errorf("popular articles: %w", err)
		}
		s.decorate(articles...)
		return articles, nil
	})
}

// AdminList returns articles in any state
func (s *articleService) AdminList(ctx context.Context, filter models.ArticleFilter, page int) (models.Page[*models.Article], error) {
	if filter.Status != "" && !models.ValidArticleStatuses[string(filter.Status)] {
		return models.Page[*models.Article]{}, invalidField("status", "status must be one of draft, scheduled, published")
	}
	filter.PublishedOnly = false
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Now = s.now()

	p := models.NewPagination(page, adminArticlesPerPage, adminArticlesPerPage)
	articles, total, err := s.articles.List(ctx, filter, p)
	if err != nil {
		return models.Page[*models.Article]{}, fmt.Errorf("list articles: %w", err)
	}
	s.decorate(articles...)
	return models.NewPage(articles, p.Page, p.PerPage, total), nil
}

// Get returns an article in any state
func (s *articleService) Get(ctx context.Context, id string) (*models.Article, error) {
	if !validation.IsValidUUID(id) {
		return nil, ErrNotFound
	}
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if article == nil {
		return nil, ErrNotFound
	}
	s.decorate(article)
	return article, nil
}

func normalizeTags(tags []string) models.StringList {
	out := models.StringList{}
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" && !out.Contains(t) {
			out = append(out, t)
		}
	}
	return out
}

func trimArticleInput(in *models.ArticleInput) {
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)
	in.Excerpt = strings.TrimSpace(in.Excerpt)
	in.Category = strings.TrimSpace(in.Category)
	in.Series = strings.TrimSpace(in.Series)
	in.FeaturedImage = strings.TrimSpace(in.FeaturedImage)
}

// resolveSlug picks the slug for an article. An explicit slug must be free;
// a derived one gets a numeric suffix until it is.
func (s *articleService) resolveSlug(ctx context.Context, in *models.ArticleInput, excludeID string) (string, error) {
	if in.Slug != "" {
		taken, err := s.articles.SlugExists(ctx, in.Slug, excludeID)
		if err != nil {
			return "", fmt.Errorf("check slug: %w", err)
		}
		if taken {
			return "", invalidField("slug", "slug has already been taken")
		}
		return in.Slug, nil
	}

	base := validation.Slugify(in.Title)
	if base == "" {
		base = "article"
	}
	if len(base) > 240 {
		base = strings.TrimRight(base[:240], "-")
	}
	slug := base
	for i := 2; ; i++ {
		taken, err := s.articles.SlugExists(ctx, slug, excludeID)
		if err != nil {
			return "", fmt.Errorf("check slug: %w", err)
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func applyArticleInput(a *models.Article, in *models.ArticleInput, slug string) {
	a.Title = in.Title
	a.Slug = slug
	a.Excerpt = in.Excerpt
	a.Content = in.Content
	a.FeaturedImage = in.FeaturedImage
	a.Category = in.Category
	a.Series = in.Series
	a.SeriesOrder = in.SeriesOrder
	a.Tags = normalizeTags(in.Tags)
	a.PublishedAt = in.PublishedAt
	a.IsFeatured = in.IsFeatured
}

// Create stores a new article
func (s *articleService) Create(ctx context.Context, in *models.ArticleInput) (*models.Article, error) {
	trimArticleInput(in)
	if err := invalid(validation.ValidateArticle(in)); err != nil {
		return nil, err
	}
	slug, err := s.resolveSlug(ctx, in, "")
	if err != nil {
		return nil, err
	}

	now := s.now()
	article := &models.Article{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now}
	applyArticleInput(article, in, slug)

	if err := s.articles.Create(ctx, article); err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}
	s.forget(ctx)
	s.decorate(article)
	s.activity.Record(ctx, models.EntityArticle, models.ActionCreated, article.ID, nil, article)
	s.log.Info().Str("article_id", article.ID).Str("slug", article.Slug).Msg("Article created")
	return article, nil
}

// Update overwrites an article
func (s *articleService) Update(ctx context.Context, id string, in *models.ArticleInput) (*models.Article, error) {
	article, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	trimArticleInput(in)
	if err := invalid(validation.ValidateArticle(in)); err != nil {
		return nil, err
	}

	slug := article.Slug
	if in.Slug != "" && in.Slug != article.Slug {
		if slug, err = s.resolveSlug(ctx, in, id); err != nil {
			return nil, err
		}
	}

	before := *article
	applyArticleInput(article, in, slug)
	article.UpdatedAt = s.now()

	if err := s.articles.Update(ctx, article); err != nil {
		return nil, fmt.Errorf("update article: %w", err)
	}
	s.forget(ctx)
	s.decorate(article)
	s.activity.Record(ctx, models.EntityArticle, models.ActionUpdated, id, &before, article)
	s.log.Info().Str("article_id", id).Msg("Article updated")
	return article, nil
}

// Delete removes an article and its comments
func (s *articleService) Delete(ctx context.Context, id string) error {
	article, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	deleted, err := s.articles.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}
	s.forget(ctx)
	s.activity.Record(ctx, models.EntityArticle, models.ActionDeleted, id, article, nil)
	s.log.Info().Str("article_id", id).Msg("Article deleted")
	return nil
}

// BulkDelete removes several articles and returns how many were deleted
func (s *articleService) BulkDelete(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, invalidField("ids", "ids is required")
	}
	for i, id := range ids {
		if !validation.IsValidUUID(id) {
			return 0, invalidField(fmt.Sprintf("ids.%d", i), "invalid UUID format")
		}
	}

	n, err := s.articles.DeleteMany(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("bulk delete articles: %w", err)
	}
	s.forget(ctx)
	for _, id := range ids {
		s.activity.Record(ctx, models.EntityArticle, models.ActionDeleted, id, map[string]string{"id": id}, nil)
	}
	s.log.Info().Int("requested", len(ids)).Int("deleted", n).Msg("Articles bulk deleted")
	return n, nil
}

func (s *articleService) forget(ctx context.Context) {
	if err := s.cache.Delete(ctx, cache.ArticleKeys...); err != nil {
		s.log.Warn().Err(err).Msg("Failed to forget article caches")
	}
}
