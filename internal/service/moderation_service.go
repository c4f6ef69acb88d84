package service

import (
	"context"
	"fmt"

	"github.com/portfolio-api/internal/models"
	"github.com/portfolio-api/internal/repository"
	"github.com/portfolio-api/internal/validation"
	"github.com/rs/zerolog"
)

const moderationPerPage = 20

// moderationService is the concrete implementation of ModerationService
type moderationService struct {
	comments repository.CommentRepository
	activity ActivityService
	log      zerolog.Logger
}

func newModerationService(comments repository.CommentRepository, activity ActivityService, log zerolog.Logger) *moderationService {
	return &moderationService{
		comments: comments,
		activity: activity,
		log:      log.With().Str("service", "moderation").Logger(),
	}
}

// List returns the moderation queue, newest first
func (s *moderationService) List(ctx context.Context, filter models.CommentFilter, page int) (models.Page[*models.AdminComment], error) {
	if filter.Status != "" && !models.ValidCommentStatuses[string(filter.Status)] {
		return models.Page[*models.AdminComment]{}, invalidField("status", "status must be one of pending, approved, rejected")
	}
	if filter.ArticleID != "" && !validation.IsValidUUID(filter.ArticleID) {
		return models.Page[*models.AdminComment]{}, invalidField("article_id", "invalid UUID format")
	}

	p := models.NewPagination(page, moderationPerPage, moderationPerPage)
	comments, total, err := s.comments.ListForModeration(ctx, filter, p)
	if err != nil {
		return models.Page[*models.AdminComment]{}, fmt.Errorf("list comments: %w", err)
	}
	return models.NewPage(comments, p.Page, p.PerPage, total), nil
}

// Approve makes a comment publicly visible
func (s *moderationService) Approve(ctx context.Context, id string) (*models.CommentView, error) {
	return s.transition(ctx, id, models.CommentStatusApproved)
}

// Reject hides a comment without deleting it
func (s *moderationService) Reject(ctx context.Context, id string) (*models.CommentView, error) {
	return s.transition(ctx, id, models.CommentStatusRejected)
}

func (s *moderationService) find(ctx context.Context, id string) (*models.Comment, error) {
	if !validation.IsValidUUID(id) {
		return nil, ErrNotFound
	}
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find comment: %w", err)
	}
	if comment == nil {
		return nil, ErrNotFound
	}
	return comment, nil
}

func (s *moderationService) transition(ctx context.Context, id string, to models.CommentStatus) (*models.CommentView, error) {
	comment, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.Status == to {
		view := models.NewCommentView(comment)
		return &view, nil
	}

	from := comment.Status
	if err := s.comments.UpdateStatus(ctx, id, to); err != nil {
		return nil, fmt.Errorf("update comment status: %w", err)
	}
	comment.Status = to

	s.activity.Record(ctx, models.EntityComment, models.ActionUpdated, id,
		map[string]interface{}{"status": from, "is_approved": from == models.CommentStatusApproved},
		map[string]interface{}{"status": to, "is_approved": to == models.CommentStatusApproved},
	)
	s.log.Info().Str("comment_id", id).Str("from", string(from)).Str("to", string(to)).Msg("Comment moderated")

	view := models.NewCommentView(comment)
	return &view, nil
}

// Delete removes a comment with its replies and reactions
func (s *moderationService) Delete(ctx context.Context, id string) error {
	comment, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	deleted, err := s.comments.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}

	s.activity.Record(ctx, models.EntityComment, models.ActionDeleted, id, models.NewCommentView(comment), nil)
	s.log.Info().Str("comment_id", id).Msg("Comment deleted")
	return nil
}
