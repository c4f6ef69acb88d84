package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/portfolio-api/internal/models"
	"github.com/portfolio-api/internal/repository"
	"github.com/portfolio-api/internal/requestctx"
	"github.com/rs/zerolog"
)

const activityPerPage = 50

// activityService is the concrete implementation of ActivityService
type activityService struct {
	repo repository.ActivityRepository
	now  func() time.Time
	log  zerolog.Logger
}

func newActivityService(repo repository.ActivityRepository, now func() time.Time, log zerolog.Logger) *activityService {
	return &activityService{
		repo: repo,
		now:  now,
		log:  log.With().Str("service", "activity").Logger(),
	}
}

func snapshot(v interface{}) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// Record appends an activity log entry for the current admin
func (s *activityService) Record(ctx context.Context, kind models.EntityKind, action models.ActivityAction, entityID string, oldValues, newValues interface{}) {
	entry := &models.ActivityLog{
		ID:         uuid.New().String(),
		Actor:      requestctx.ActorFrom(ctx),
		Action:     action,
		EntityKind: kind,
		EntityID:   entityID,
		CreatedAt:  s.now(),
	}
	client := requestctx.ClientFrom(ctx)
	entry.IPAddress = client.IP
	entry.UserAgent = client.UserAgent

	var err error
	if entry.OldValues, err = snapshot(oldValues); err == nil {
		entry.NewValues, err = snapshot(newValues)
	}
	if err == nil {
		err = s.repo.Create(ctx, entry)
	}
	if err != nil {
		s.log.Warn().Err(err).
			Str("entity_kind", string(kind)).
			Str("entity_id", entityID).
			Str("action", string(action)).
			Msg("Failed to record activity")
	}
}

// List returns activity entries, newest first
func (s *activityService) List(ctx context.Context, filter models.ActivityFilter, page int) (models.Page[*models.ActivityLog], error) {
	if filter.EntityKind != "" && !models.ValidEntityKinds[string(filter.EntityKind)] {
		return models.Page[*models.ActivityLog]{}, invalidField("entity_kind", "unknown entity kind")
	}
	if filter.Action != "" && !models.ValidActivityActions[string(filter.Action)] {
		return models.Page[*models.ActivityLog]{}, invalidField("action", "action must be one of created, updated, deleted")
	}

	p := models.NewPagination(page, activityPerPage, activityPerPage)
	entries, total, err := s.repo.List(ctx, filter, p)
	if err != nil {
		return models.Page[*models.ActivityLog]{}, fmt.Errorf("list activity: %w", err)
	}
	return models.NewPage(entries, p.Page, p.PerPage, total), nil
}
