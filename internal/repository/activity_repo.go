package repository

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/portfolio-api/internal/database"
	"github.com/portfolio-api/internal/models"
)

// activityRepo is the concrete implementation of ActivityRepository
type activityRepo struct {
	db *database.DB
}

// NewActivityRepo creates a new activity log repository
func NewActivityRepo(db *database.DB) ActivityRepository {
	return &activityRepo{db: db}
}

func nullJSON(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return raw
}

// Create appends an entry to the activity log
func (r *activityRepo) Create(ctx context.Context, e *models.ActivityLog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO activity_logs (id, actor, action, entity_kind, entity_id, old_values, new_values,
			ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, e.ID, nullString(e.Actor), e.Action, e.EntityKind, e.EntityID, nullJSON(e.OldValues), nullJSON(e.NewValues),
		nullString(e.IPAddress), nullString(e.UserAgent), e.CreatedAt)
	return err
}

// List returns one page of entries, newest first
func (r *activityRepo) List(ctx context.Context, filter models.ActivityFilter, page models.Pagination) ([]*models.ActivityLog, int, error) {
	where := sq.And{}
	if filter.EntityKind != "" {
		where = append(where, sq.Eq{"entity_kind": filter.EntityKind})
	}
	if filter.Action != "" {
		where = append(where, sq.Eq{"action": filter.Action})
	}

	total, err := count(ctx, r.db, psql.Select("COUNT(*)").From("activity_logs").Where(where))
	if err != nil {
		return nil, 0, fmt.Errorf("count activity: %w", err)
	}

	b := psql.Select("id, actor, action, entity_kind, entity_id, old_values, new_values, ip_address, user_agent, created_at").
		From("activity_logs").
		Where(where).
		OrderBy("created_at DESC", "id")
	query, args, err := paginate(b, page.Offset(), page.PerPage).ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list activity: %w", err)
	}
	defer rows.Close()

	entries := []*models.ActivityLog{}
	for rows.Next() {
		var e models.ActivityLog
		var actor, ip, ua sql.NullString
		var oldValues, newValues []byte
		err := rows.Scan(&e.ID, &actor, &e.Action, &e.EntityKind, &e.EntityID,
			&oldValues, &newValues, &ip, &ua, &e.CreatedAt)
		if err != nil {
			return nil, 0, err
		}
		e.Actor = actor.String
		e.IPAddress = ip.String
		e.UserAgent = ua.String
		e.OldValues = oldValues
		e.NewValues = newValues
		entries = append(entries, &e)
	}
	return entries, total, rows.Err()
}
