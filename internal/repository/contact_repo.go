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

const contactColumns = `id, name, email, subject, message, is_read, created_at, updated_at`

// contactRepo is the concrete implementation of ContactRepository
type contactRepo struct {
	db *database.DB
}

// NewContactRepo creates a new contact message repository
func NewContactRepo(db *database.DB) ContactRepository {
	return &contactRepo{db: db}
}

func scanContact(s scanner) (*models.ContactMessage, error) {
	var m models.ContactMessage
	err := s.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.IsRead, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a contact message
func (r *contactRepo) Create(ctx context.Context, m *models.ContactMessage) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO contact_messages (id, name, email, subject, message, is_read, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, m.ID, m.Name, m.Email, m.Subject, m.Message, m.IsRead, m.CreatedAt, m.UpdatedAt)
	return err
}

// GetByID retrieves a contact message by ID
func (r *contactRepo) GetByID(ctx context.Context, id string) (*models.ContactMessage, error) {
	m, err := scanContact(r.db.QueryRowContext(ctx, `SELECT `+contactColumns+` FROM contact_messages WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return m, err
}

// MarkRead flags a message as read
func (r *contactRepo) MarkRead(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE contact_messages SET is_read = TRUE, updated_at = $1 WHERE id = $2 AND NOT is_read",
		time.Now(), id,
	)
	return err
}

// Delete removes a contact message
func (r *contactRepo) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.db, "contact_messages", id)
}

// List returns one page of messages, newest first
func (r *contactRepo) List(ctx context.Context, unreadOnly bool, page models.Pagination) ([]*models.ContactMessage, int, error) {
	where := sq.And{}
	if unreadOnly {
		where = append(where, sq.Eq{"is_read": false})
	}

	total, err := count(ctx, r.db, psql.Select("COUNT(*)").From("contact_messages").Where(where))
	if err != nil {
		return nil, 0, fmt.Errorf("count contact messages: %w", err)
	}

	b := psql.Select(contactColumns).From("contact_messages").Where(where).OrderBy("created_at DESC", "id")
	messages, err := r.query(ctx, paginate(b, page.Offset(), page.PerPage))
	if err != nil {
		return nil, 0, fmt.Errorf("list contact messages: %w", err)
	}
	return messages, total, nil
}

// Count returns the number of messages, optionally only unread ones
func (r *contactRepo) Count(ctx context.Context, unreadOnly bool) (int, error) {
	b := psql.Select("COUNT(*)").From("contact_messages")
	if unreadOnly {
		b = b.Where(sq.Eq{"is_read": false})
	}
	return count(ctx, r.db, b)
}

// Recent returns the newest messages
func (r *contactRepo) Recent(ctx context.Context, limit int) ([]*models.ContactMessage, error) {
	return r.query(ctx, psql.Select(contactColumns).From("contact_messages").OrderBy("created_at DESC").Limit(uint64(limit)))
}

func (r *contactRepo) query(ctx context.Context, b sq.SelectBuilder) ([]*models.ContactMessage, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []*models.ContactMessage{}
	for rows.Next() {
		m, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
