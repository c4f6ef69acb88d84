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

const messagesPerPage = 20

// contactService is the concrete implementation of ContactService
type contactService struct {
	repo     repository.ContactRepository
	jobs     JobService
	limiter  ratelimit.Limiter
	rule     config.RateLimitRule
	activity ActivityService
	now      func() time.Time
	log      zerolog.Logger
}

func newContactService(repo repository.ContactRepository, jobs JobService, deps Dependencies, rule config.RateLimitRule, activity ActivityService, log zerolog.Logger) *contactService {
	return &contactService{
		repo:     repo,
		jobs:     jobs,
		limiter:  deps.Limiter,
		rule:     rule,
		activity: activity,
		now:      deps.Now,
		log:      log.With().Str("service", "contact").Logger(),
	}
}

// Submit stores a contact message and queues the admin notification.
// A filled honeypot is accepted silently and nothing is stored.
func (s *contactService) Submit(ctx context.Context, in *models.ContactInput) error {
	client := requestctx.ClientFrom(ctx)
	result := throttle(ctx, s.limiter, ratelimit.ContactKey(client.IP), s.rule, s.log)
	if !result.Allowed {
		return rateLimited("Too many messages sent. Please try again in %d minute(s).", result.RetryAfter, time.Minute)
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)
	if err := invalid(validation.ValidateContact(in)); err != nil {
		return err
	}

	if strings.TrimSpace(in.Honeypot) != "" {
		s.log.Info().Str("client_ip", client.IP).Msg("Contact message dropped by honeypot")
		return nil
	}

	now := s.now()
	msg := &models.ContactMessage{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Email:     in.Email,
		Subject:   in.Subject,
		Message:   in.Message,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return fmt.Errorf("save contact message: %w", err)
	}

	payload := models.ContactEmailPayload{
		MessageID: msg.ID,
		Name:      msg.Name,
		Email:     msg.Email,
		Subject:   msg.Subject,
		Message:   msg.Message,
	}
	if _, err := s.jobs.Enqueue(ctx, models.JobKindContactEmail, payload); err != nil {
		// the message is stored and visible in the inbox either way
		s.log.Error().Err(err).Str("message_id", msg.ID).Msg("Failed to queue contact notification")
	}

	s.log.Info().Str("message_id", msg.ID).Msg("Contact message received")
	return nil
}

// List returns a page of the inbox with the unread total
func (s *contactService) List(ctx context.Context, unreadOnly bool, page int) (*models.ContactInbox, error) {
	p := models.NewPagination(page, messagesPerPage, messagesPerPage)
	messages, total, err := s.repo.List(ctx, unreadOnly, p)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	unread, err := s.repo.Count(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("count unread messages: %w", err)
	}
	pg := models.NewPage(messages, p.Page, p.PerPage, total)
	return &models.ContactInbox{Data: pg.Data, Meta: pg.Meta, UnreadCount: unread}, nil
}

func (s *contactService) find(ctx context.Context, id string) (*models.ContactMessage, error) {
	if !validation.IsValidUUID(id) {
		return nil, ErrNotFound
	}
	msg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get contact message: %w", err)
	}
	if msg == nil {
		return nil, ErrNotFound
	}
	return msg, nil
}

// Get returns a message and marks it read
func (s *contactService) Get(ctx context.Context, id string) (*models.ContactMessage, error) {
	msg, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !msg.IsRead {
		if err := s.repo.MarkRead(ctx, id); err != nil {
			return nil, fmt.Errorf("mark message read: %w", err)
		}
		msg.IsRead = true
	}
	return msg, nil
}

// Delete removes a message
func (s *contactService) Delete(ctx context.Context, id string) error {
	msg, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete contact message: %w", err)
	}
	s.activity.Record(ctx, models.EntityContactMessage, models.ActionDeleted, id, msg, nil)
	return nil
}
