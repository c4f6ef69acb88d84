package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/portfolio-api/internal/database"
	"github.com/portfolio-api/internal/models"
)

const projectColumns = `id, title, description, image, link, tags, sort_order, is_archived, created_at, updated_at`

// projectRepo is the concrete implementation of ProjectRepository
type projectRepo struct {
	db *database.DB
}

// NewProjectRepo creates a new project repository
func NewProjectRepo(db *database.DB) ProjectRepository {
	return &projectRepo{db: db}
}

func scanProject(s scanner) (*models.Project, error) {
	var p models.Project
	var image, link sql.NullString
	err := s.Scan(&p.ID, &p.Title, &p.Description, &image, &link, &p.Tags,
		&p.SortOrder, &p.IsArchived, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Image = image.String
	p.Link = link.String
	return &p, nil
}

// Create inserts a new project
func (r *projectRepo) Create(ctx context.Context, p *models.Project) error {
	query := `
		INSERT INTO projects (id, title, description, image, link, tags, sort_order, is_archived, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Title, p.Description, nullString(p.Image), nullString(p.Link), p.Tags,
		p.SortOrder, p.IsArchived, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// Update overwrites a project
func (r *projectRepo) Update(ctx context.Context, p *models.Project) error {
	query := `
		UPDATE projects SET title = $1, description = $2, image = $3, link = $4, tags = $5,
			sort_order = $6, is_archived = $7, updated_at = $8
		WHERE id = $9
	`
	_, err := r.db.ExecContext(ctx, query,
		p.Title, p.Description, nullString(p.Image), nullString(p.Link), p.Tags,
		p.SortOrder, p.IsArchived, p.UpdatedAt, p.ID,
	)
	return err
}

// Delete removes a project
func (r *projectRepo) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.db, "projects", id)
}

// GetByID retrieves a project by ID
func (r *projectRepo) GetByID(ctx context.Context, id string) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	p, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// List returns projects by sort order
func (r *projectRepo) List(ctx context.Context, archived *bool) ([]*models.Project, error) {
	b := psql.Select(projectColumns).From("projects").OrderBy("sort_order ASC", "created_at DESC")
	if archived != nil {
		b = b.Where(sq.Eq{"is_archived": *archived})
	}
	return r.query(ctx, b)
}

// Search matches the query against title, tags and description of
// non-archived projects
func (r *projectRepo) Search(ctx context.Context, query string, limit int) ([]*models.Project, error) {
	pattern := containsPattern(query)
	b := psql.Select(projectColumns).
		From("projects").
		Where(sq.Eq{"is_archived": false}).
		Where(sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"description": pattern},
			sq.Expr("EXISTS (SELECT 1 FROM jsonb_array_elements_text(tags) AS tag WHERE tag ILIKE ?)", pattern),
		}).
		OrderBy("sort_order ASC", "created_at DESC").
		Limit(uint64(limit))
	return r.query(ctx, b)
}

// Count returns the number of projects
func (r *projectRepo) Count(ctx context.Context) (int, error) {
	return countTable(ctx, r.db, "projects")
}

func (r *projectRepo) query(ctx context.Context, b sq.SelectBuilder) ([]*models.Project, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []*models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}
