package repository

import (
	"context"
	"database/sql"

	"github.com/portfolio-api/internal/database"
	"github.com/portfolio-api/internal/models"
)

// skillRepo is the concrete implementation of SkillRepository
type skillRepo struct {
	db *database.DB
}

// NewSkillRepo creates a new skill repository
func NewSkillRepo(db *database.DB) SkillRepository {
	return &skillRepo{db: db}
}

const skillColumns = `id, name, icon, items, sort_order, created_at, updated_at`

func scanSkill(s scanner) (*models.Skill, error) {
	var sk models.Skill
	if err := s.Scan(&sk.ID, &sk.Name, &sk.Icon, &sk.Items, &sk.SortOrder, &sk.CreatedAt, &sk.UpdatedAt); err != nil {
		return nil, err
	}
	return &sk, nil
}

func (r *skillRepo) Create(ctx context.Context, s *models.Skill) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO skills (id, name, icon, items, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, s.ID, s.Name, s.Icon, s.Items, s.SortOrder, s.CreatedAt, s.UpdatedAt)
	return err
}

func (r *skillRepo) Update(ctx context.Context, s *models.Skill) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE skills SET name = $1, icon = $2, items = $3, sort_order = $4, updated_at = $5
		WHERE id = $6
	`, s.Name, s.Icon, s.Items, s.SortOrder, s.UpdatedAt, s.ID)
	return err
}

func (r *skillRepo) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.db, "skills", id)
}

func (r *skillRepo) GetByID(ctx context.Context, id string) (*models.Skill, error) {
	s, err := scanSkill(r.db.QueryRowContext(ctx, `SELECT `+skillColumns+` FROM skills WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

func (r *skillRepo) List(ctx context.Context) ([]*models.Skill, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+skillColumns+` FROM skills ORDER BY sort_order ASC, name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	skills := []*models.Skill{}
	for rows.Next() {
		s, err := scanSkill(rows)
		if err != nil {
			return nil, err
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

func (r *skillRepo) Count(ctx context.Context) (int, error) {
	return countTable(ctx, r.db, "skills")
}

// experienceRepo is the concrete implementation of ExperienceRepository
type experienceRepo struct {
	db *database.DB
}

// NewExperienceRepo creates a new experience repository
func NewExperienceRepo(db *database.DB) ExperienceRepository {
	return &experienceRepo{db: db}
}

const experienceColumns = `id, role, company, period, description, sort_order, created_at, updated_at`

func scanExperience(s scanner) (*models.Experience, error) {
	var e models.Experience
	if err := s.Scan(&e.ID, &e.Role, &e.Company, &e.Period, &e.Description, &e.SortOrder, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *experienceRepo) Create(ctx context.Context, e *models.Experience) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO experiences (id, role, company, period, description, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, e.ID, e.Role, e.Company, e.Period, e.Description, e.SortOrder, e.CreatedAt, e.UpdatedAt)
	return err
}

func (r *experienceRepo) Update(ctx context.Context, e *models.Experience) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE experiences SET role = $1, company = $2, period = $3, description = $4,
			sort_order = $5, updated_at = $6
		WHERE id = $7
	`, e.Role, e.Company, e.Period, e.Description, e.SortOrder, e.UpdatedAt, e.ID)
	return err
}

func (r *experienceRepo) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.db, "experiences", id)
}

func (r *experienceRepo) GetByID(ctx context.Context, id string) (*models.Experience, error) {
	e, err := scanExperience(r.db.QueryRowContext(ctx, `SELECT `+experienceColumns+` FROM experiences WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return e, err
}

func (r *experienceRepo) List(ctx context.Context) ([]*models.Experience, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+experienceColumns+` FROM experiences ORDER BY sort_order ASC, created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	experiences := []*models.Experience{}
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return nil, err
		}
		experiences = append(experiences, e)
	}
	return experiences, rows.Err()
}

func (r *experienceRepo) Count(ctx context.Context) (int, error) {
	return countTable(ctx, r.db, "experiences")
}

// testimonialRepo is the concrete implementation of TestimonialRepository
type testimonialRepo struct {
	db *database.DB
}

// NewTestimonialRepo creates a new testimonial repository
func NewTestimonialRepo(db *database.DB) TestimonialRepository {
	return &testimonialRepo{db: db}
}

const testimonialColumns = `id, name, role, company, content, avatar, rating, sort_order, created_at, updated_at`

func scanTestimonial(s scanner) (*models.Testimonial, error) {
	var t models.Testimonial
	var avatar sql.NullString
	err := s.Scan(&t.ID, &t.Name, &t.Role, &t.Company, &t.Content, &avatar,
		&t.Rating, &t.SortOrder, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.Avatar = avatar.String
	return &t, nil
}

func (r *testimonialRepo) Create(ctx context.Context, t *models.Testimonial) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO testimonials (id, name, role, company, content, avatar, rating, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, t.ID, t.Name, t.Role, t.Company, t.Content, nullString(t.Avatar), t.Rating, t.SortOrder, t.CreatedAt, t.UpdatedAt)
	return err
}

func (r *testimonialRepo) Update(ctx context.Context, t *models.Testimonial) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE testimonials SET name = $1, role = $2, company = $3, content = $4, avatar = $5,
			rating = $6, sort_order = $7, updated_at = $8
		WHERE id = $9
	`, t.Name, t.Role, t.Company, t.Content, nullString(t.Avatar), t.Rating, t.SortOrder, t.UpdatedAt, t.ID)
	return err
}

func (r *testimonialRepo) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.db, "testimonials", id)
}

func (r *testimonialRepo) GetByID(ctx context.Context, id string) (*models.Testimonial, error) {
	t, err := scanTestimonial(r.db.QueryRowContext(ctx, `SELECT `+testimonialColumns+` FROM testimonials WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return t, err
}

func (r *testimonialRepo) List(ctx context.Context, limit int) ([]*models.Testimonial, error) {
	b := psql.Select(testimonialColumns).From("testimonials").OrderBy("sort_order ASC", "created_at DESC")
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	testimonials := []*models.Testimonial{}
	for rows.Next() {
		t, err := scanTestimonial(rows)
		if err != nil {
			return nil, err
		}
		testimonials = append(testimonials, t)
	}
	return testimonials, rows.Err()
}

func (r *testimonialRepo) Count(ctx context.Context) (int, error) {
	return countTable(ctx, r.db, "testimonials")
}
