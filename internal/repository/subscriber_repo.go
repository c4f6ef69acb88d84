package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/portfolio-api/internal/database"
	"github.com/portfolio-api/internal/models"
)

const subscriberColumns = `id, email, name, is_active, subscribed_at, unsubscribed_at, created_at, updated_at`

// subscriberRepo is the concrete implementation of SubscriberRepository
type subscriberRepo struct {
	db *database.DB
}

// NewSubscriberRepo creates a new subscriber repository
func NewSubscriberRepo(db *database.DB) SubscriberRepository {
	return &subscriberRepo{db: db}
}

func scanSubscriber(s scanner) (*models.Subscriber, error) {
	var sub models.Subscriber
	var name sql.NullString
	var unsubscribedAt sql.NullTime
	err := s.Scan(&sub.ID, &sub.Email, &name, &sub.IsActive, &sub.SubscribedAt,
		&unsubscribedAt, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return nil, err
	}
	sub.Name = name.String
	sub.UnsubscribedAt = timePtr(unsubscribedAt)
	return &sub, nil
}

// Create inserts a subscriber. It returns false when the email is already
// present, leaving the existing row untouched.
func (r *subscriberRepo) Create(ctx context.Context, s *models.Subscriber) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO newsletter_subscribers (id, email, name, is_active, subscribed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (email) DO NOTHING
	`, s.ID, s.Email, nullString(s.Name), s.IsActive, s.SubscribedAt, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// Update overwrites a subscriber
func (r *subscriberRepo) Update(ctx context.Context, s *models.Subscriber) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE newsletter_subscribers SET email = $1, name = $2, is_active = $3, subscribed_at = $4,
			unsubscribed_at = $5, updated_at = $6
		WHERE id = $7
	`, s.Email, nullString(s.Name), s.IsActive, s.SubscribedAt, nullTime(s.UnsubscribedAt), s.UpdatedAt, s.ID)
	return err
}

// Delete removes a subscriber
func (r *subscriberRepo) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.db, "newsletter_subscribers", id)
}

// GetByID retrieves a subscriber by ID
func (r *subscriberRepo) GetByID(ctx context.Context, id string) (*models.Subscriber, error) {
	query := `SELECT ` + subscriberColumns + ` FROM newsletter_subscribers WHERE id = $1`
	s, err := scanSubscriber(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

// GetByEmail retrieves a subscriber by normalized email
func (r *subscriberRepo) GetByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	query := `SELECT ` + subscriberColumns + ` FROM newsletter_subscribers WHERE email = $1`
	s, err := scanSubscriber(r.db.QueryRowContext(ctx, query, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

func subscriberWhere(filter models.SubscriberFilter) sq.And {
	where := sq.And{}
	switch filter.Status {
	case "active":
		where = append(where, sq.Eq{"is_active": true})
	case "inactive":
		where = append(where, sq.Eq{"is_active": false})
	}
	if filter.Search != "" {
		pattern := containsPattern(filter.Search)
		where = append(where, sq.Or{sq.ILike{"email": pattern}, sq.ILike{"name": pattern}})
	}
	return where
}

// List returns one page of subscribers, newest first
func (r *subscriberRepo) List(ctx context.Context, filter models.SubscriberFilter, page models.Pagination) ([]*models.Subscriber, int, error) {
	where := subscriberWhere(filter)

	total, err := count(ctx, r.db, psql.Select("COUNT(*)").From("newsletter_subscribers").Where(where))
	if err != nil {
		return nil, 0, fmt.Errorf("count subscribers: %w", err)
	}

	b := psql.Select(subscriberColumns).From("newsletter_subscribers").Where(where).OrderBy("subscribed_at DESC", "id")
	query, args, err := paginate(b, page.Offset(), page.PerPage).ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list subscribers: %w", err)
	}
	defer rows.Close()

	subscribers := []*models.Subscriber{}
	for rows.Next() {
		s, err := scanSubscriber(rows)
		if err != nil {
			return nil, 0, err
		}
		subscribers = append(subscribers, s)
	}
	return subscribers, total, rows.Err()
}

// Stats returns subscriber totals; ThisMonth counts subscriptions since monthStart
func (r *subscriberRepo) Stats(ctx context.Context, monthStart time.Time) (models.SubscriberStats, error) {
	var s models.SubscriberStats
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE is_active),
			COUNT(*) FILTER (WHERE NOT is_active),
			COUNT(*) FILTER (WHERE subscribed_at >= $1)
		FROM newsletter_subscribers
	`, monthStart).Scan(&s.Total, &s.Active, &s.Inactive, &s.ThisMonth)
	return s, err
}

// StreamAll streams subscribers matching filter for export
func (r *subscriberRepo) StreamAll(ctx context.Context, filter models.SubscriberFilter, callback func(*models.Subscriber) error) error {
	query, args, err := psql.Select(subscriberColumns).
		From("newsletter_subscribers").
		Where(subscriberWhere(filter)).
		OrderBy("subscribed_at DESC").
		ToSql()
	if err != nil {
		return err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		s, err := scanSubscriber(rows)
		if err != nil {
			return err
		}
		if err := callback(s); err != nil {
			return err
		}
	}
	return rows.Err()
}
