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

const (
	subscribersPerPage = 20
	msgAlreadySubbed   = "You are already subscribed!"
)

// newsletterService is the concrete implementation of NewsletterService
type newsletterService struct {
	repo     repository.SubscriberRepository
	limiter  ratelimit.Limiter
	rule     config.RateLimitRule
	activity ActivityService
	now      func() time.Time
	log      zerolog.Logger
}

func newNewsletterService(repo repository.SubscriberRepository, deps Dependencies, rule config.RateLimitRule, activity ActivityService, log zerolog.Logger) *newsletterService {
	return &newsletterService{
		repo:     repo,
		limiter:  deps.Limiter,
		rule:     rule,
		activity: activity,
		now:      deps.Now,
		log:      log.With().Str("service", "newsletter").Logger(),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Subscribe adds or reactivates a subscriber
func (s *newsletterService) Subscribe(ctx context.Context, in *models.SubscribeInput) (*models.Subscriber, error) {
	client := requestctx.ClientFrom(ctx)
	result := throttle(ctx, s.limiter, ratelimit.NewsletterKey(client.IP), s.rule, s.log)
	if !result.Allowed {
		return nil, rateLimited("Too many subscription attempts. Please try again in %d seconds.", result.RetryAfter, time.Second)
	}

	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := invalid(validation.ValidateSubscribe(in)); err != nil {
		return nil, err
	}

	now := s.now()
	existing, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("find subscriber: %w", err)
	}

	if existing == nil {
		sub := &models.Subscriber{
			ID:           uuid.New().String(),
			Email:        in.Email,
			Name:         in.Name,
			IsActive:     true,
			SubscribedAt: now,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		created, err := s.repo.Create(ctx, sub)
		if err != nil {
			return nil, fmt.Errorf("create subscriber: %w", err)
		}
		if !created {
			// lost a race with a concurrent signup
			return nil, &ConflictError{Message: msgAlreadySubbed}
		}
		s.log.Info().Str("subscriber_id", sub.ID).Msg("Subscriber added")
		return sub, nil
	}

	if existing.IsActive {
		return nil, &ConflictError{Message: msgAlreadySubbed}
	}

	existing.IsActive = true
	existing.SubscribedAt = now
	existing.UnsubscribedAt = nil
	if in.Name != "" {
		existing.Name = in.Name
	}
	existing.UpdatedAt = now
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("reactivate subscriber: %w", err)
	}
	s.log.Info().Str("subscriber_id", existing.ID).Msg("Subscriber reactivated")
	return existing, nil
}

// Unsubscribe deactivates the subscriber if there is one
func (s *newsletterService) Unsubscribe(ctx context.Context, email string) error {
	sub, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return fmt.Errorf("find subscriber: %w", err)
	}
	if sub == nil || !sub.IsActive {
		return nil
	}

	now := s.now()
	sub.IsActive = false
	sub.UnsubscribedAt = &now
	sub.UpdatedAt = now
	if err := s.repo.Update(ctx, sub); err != nil {
		return fmt.Errorf("unsubscribe: %w", err)
	}
	s.log.Info().Str("subscriber_id", sub.ID).Msg("Subscriber unsubscribed")
	return nil
}

// List returns subscribers for the admin list
func (s *newsletterService) List(ctx context.Context, filter models.SubscriberFilter, page int) (models.Page[*models.Subscriber], error) {
	if filter.Status != "" && filter.Status != "active" && filter.Status != "inactive" {
		return models.Page[*models.Subscriber]{}, invalidField("status", "status must be one of active, inactive")
	}
	filter.Search = strings.TrimSpace(filter.Search)

	p := models.NewPagination(page, subscribersPerPage, subscribersPerPage)
	subs, total, err := s.repo.List(ctx, filter, p)
	if err != nil {
		return models.Page[*models.Subscriber]{}, fmt.Errorf("list subscribers: %w", err)
	}
	return models.NewPage(subs, p.Page, p.PerPage, total), nil
}

// Stats summarizes subscribers, counting this month from the first of the month
func (s *newsletterService) Stats(ctx context.Context) (models.SubscriberStats, error) {
	stats, err := s.repo.Stats(ctx, monthStart(s.now()))
	if err != nil {
		return models.SubscriberStats{}, fmt.Errorf("subscriber stats: %w", err)
	}
	return stats, nil
}

// Delete removes a subscriber
func (s *newsletterService) Delete(ctx context.Context, id string) error {
	if !validation.IsValidUUID(id) {
		return ErrNotFound
	}
	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get subscriber: %w", err)
	}
	if sub == nil {
		return ErrNotFound
	}
	if _, err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete subscriber: %w", err)
	}
	s.activity.Record(ctx, models.EntitySubscriber, models.ActionDeleted, id, sub, nil)
	return nil
}

func monthStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}
