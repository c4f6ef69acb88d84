package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/portfolio-api/internal/config"
	"github.com/portfolio-api/internal/models"
	"github.com/portfolio-api/internal/ratelimit"
	"github.com/portfolio-api/internal/repository"
	"github.com/portfolio-api/internal/requestctx"
	"github.com/portfolio-api/internal/validation"
	"github.com/rs/zerolog"
)

// commentService is the concrete implementation of CommentService
type commentService struct {
	comments repository.CommentRepository
	articles repository.ArticleRepository
	limiter  ratelimit.Limiter
	rule     config.RateLimitRule
	now      func() time.Time
	log      zerolog.Logger
}

func newCommentService(repos *repository.Repositories, deps Dependencies, rule config.RateLimitRule, log zerolog.Logger) *commentService {
	return &commentService{
		comments: repos.Comment,
		articles: repos.Article,
		limiter:  deps.Limiter,
		rule:     rule,
		now:      deps.Now,
		log:      log.With().Str("service", "comment").Logger(),
	}
}

// findArticle resolves an article by ID or slug
func findArticle(ctx context.Context, articles repository.ArticleRepository, ref string) (*models.Article, error) {
	if validation.IsValidUUID(ref) {
		article, err := articles.GetByID(ctx, ref)
		if err != nil || article != nil {
			return article, err
		}
	}
	return articles.GetBySlug(ctx, ref)
}

// Submit stores a pending comment
func (s *commentService) Submit(ctx context.Context, articleRef string, in *models.SubmitCommentInput) (*models.CommentView, error) {
	client := requestctx.ClientFrom(ctx)

	result := throttle(ctx, s.limiter, ratelimit.CommentKey(client.IP), s.rule, s.log)
	if !result.Allowed {
		return nil, rateLimited("Too many comments. Please try again in %d seconds.", result.RetryAfter, time.Second)
	}

	if strings.TrimSpace(in.Website) != "" {
		s.log.Info().Str("client_ip", client.IP).Msg("Comment dropped by honeypot")
		return nil, nil
	}

	article, err := findArticle(ctx, s.articles, articleRef)
	if err != nil {
		return nil, fmt.Errorf("find article: %w", err)
	}
	now := s.now()
	if article == nil || !article.IsPublished(now) {
		return nil, ErrNotFound
	}

	in.AuthorName = strings.TrimSpace(in.AuthorName)
	in.Content = strings.TrimSpace(in.Content)
	if in.ParentID != nil && strings.TrimSpace(*in.ParentID) == "" {
		in.ParentID = nil
	}

	errs := validation.ValidateComment(in)
	if len(errs) == 0 && in.ParentID != nil {
		if fieldErr, err := s.checkParent(ctx, article.ID, *in.ParentID); err != nil {
			return nil, err
		} else if fieldErr != nil {
			errs = append(errs, *fieldErr)
		}
	}
	if err := invalid(errs); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:         uuid.New().String(),
		ArticleID:  article.ID,
		ParentID:   in.ParentID,
		AuthorName: in.AuthorName,
		Content:    in.Content,
		Status:     models.CommentStatusPending,
		IPAddress:  client.IP,
		UserAgent:  client.UserAgent,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	s.log.Info().
		Str("comment_id", comment.ID).
		Str("article_id", article.ID).
		Bool("reply", comment.ParentID != nil).
		Msg("Comment submitted for moderation")

	view := models.NewCommentView(comment)
	return &view, nil
}

// checkParent enforces single-level replies on the same article
func (s *commentService) checkParent(ctx context.Context, articleID, parentID string) (*validation.ValidationError, error) {
	parent, err := s.comments.GetByID(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("find parent comment: %w", err)
	}
	if parent == nil || parent.ArticleID != articleID {
		return &validation.ValidationError{Field: "parent_id", Message: "The selected parent comment is invalid.", Value: parentID}, nil
	}
	if parent.ParentID != nil {
		return &validation.ValidationError{Field: "parent_id", Message: "Replies can only be made to top-level comments.", Value: parentID}, nil
	}
	return nil, nil
}
