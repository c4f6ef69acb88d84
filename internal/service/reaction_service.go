package service

import (
	"context"
	"fmt"
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

// reactionService is the concrete implementation of ReactionService
type reactionService struct {
	comments  repository.CommentRepository
	reactions repository.ReactionRepository
	limiter   ratelimit.Limiter
	rule      config.RateLimitRule
	now       func() time.Time
	log       zerolog.Logger
}

func newReactionService(repos *repository.Repositories, deps Dependencies, rule config.RateLimitRule, log zerolog.Logger) *reactionService {
	return &reactionService{
		comments:  repos.Comment,
		reactions: repos.Reaction,
		limiter:   deps.Limiter,
		rule:      rule,
		now:       deps.Now,
		log:       log.With().Str("service", "reaction").Logger(),
	}
}

// Toggle adds the reaction or removes it if the client already has it.
// Adding one kind clears the other.
func (s *reactionService) Toggle(ctx context.Context, commentID, kind string) (*models.ToggleResult, error) {
	if !validation.IsValidUUID(commentID) {
		return nil, ErrNotFound
	}

	client := requestctx.ClientFrom(ctx)
	result := throttle(ctx, s.limiter, ratelimit.ReactionKey(client.IP, commentID), s.rule, s.log)
	if !result.Allowed {
		return nil, rateLimited("Too many reactions. Please try again in %d seconds.", result.RetryAfter, time.Second)
	}

	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("find comment: %w", err)
	}
	if comment == nil {
		return nil, ErrNotFound
	}

	if err := invalid(validation.ValidateReactionKind(kind)); err != nil {
		return nil, err
	}
	if !comment.IsApproved() {
		return nil, ErrForbidden
	}

	toggled, err := s.reactions.Toggle(ctx, &models.Reaction{
		ID:        uuid.New().String(),
		CommentID: comment.ID,
		Kind:      models.ReactionKind(kind),
		IPAddress: client.IP,
		UserAgent: client.UserAgent,
		CreatedAt: s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("toggle reaction: %w", err)
	}
	// Deleted between the lookup and the transaction
	if toggled == nil {
		return nil, ErrNotFound
	}

	s.log.Debug().
		Str("comment_id", comment.ID).
		Str("reaction_type", kind).
		Str("action", string(toggled.Action)).
		Msg("Reaction toggled")

	return toggled, nil
}
