package repository

import (
	"context"
	"database/sql"

	"github.com/portfolio-api/internal/database"
	"github.com/portfolio-api/internal/models"
)

const cvColumns = `id, file_path, file_name, mime_type, file_size, is_active, created_at, updated_at`

// cvRepo is the concrete implementation of CVRepository
type cvRepo struct {
	db *database.DB
}

// NewCVRepo creates a new CV repository
func NewCVRepo(db *database.DB) CVRepository {
	return &cvRepo{db: db}
}

func scanCV(s scanner) (*models.CV, error) {
	var cv models.CV
	err := s.Scan(&cv.ID, &cv.FilePath, &cv.FileName, &cv.MimeType, &cv.FileSize,
		&cv.IsActive, &cv.CreatedAt, &cv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &cv, nil
}

// CreateActive deactivates every CV and inserts cv as active in one transaction
func (r *cvRepo) CreateActive(ctx context.Context, cv *models.CV) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "UPDATE cvs SET is_active = FALSE, updated_at = $1 WHERE is_active", cv.UpdatedAt); err != nil {
		return err
	}

	cv.IsActive = true
	_, err = tx.ExecContext(ctx, `
		INSERT INTO cvs (id, file_path, file_name, mime_type, file_size, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, TRUE, $6, $7)
	`, cv.ID, cv.FilePath, cv.FileName, cv.MimeType, cv.FileSize, cv.CreatedAt, cv.UpdatedAt)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// GetByID retrieves a CV by ID
func (r *cvRepo) GetByID(ctx context.Context, id string) (*models.CV, error) {
	cv, err := scanCV(r.db.QueryRowContext(ctx, `SELECT `+cvColumns+` FROM cvs WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return cv, err
}

// GetActive retrieves the active CV
func (r *cvRepo) GetActive(ctx context.Context) (*models.CV, error) {
	cv, err := scanCV(r.db.QueryRowContext(ctx, `SELECT `+cvColumns+` FROM cvs WHERE is_active LIMIT 1`))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return cv, err
}

// List returns all CVs, newest first
func (r *cvRepo) List(ctx context.Context) ([]*models.CV, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+cvColumns+` FROM cvs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cvs := []*models.CV{}
	for rows.Next() {
		cv, err := scanCV(rows)
		if err != nil {
			return nil, err
		}
		cvs = append(cvs, cv)
	}
	return cvs, rows.Err()
}

// Delete removes a CV row
func (r *cvRepo) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.db, "cvs", id)
}
