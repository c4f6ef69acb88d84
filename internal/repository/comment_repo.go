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

const commentColumns = `c.id, c.article_id, c.parent_id, c.author_name, c.author_email, c.content,
	c.status, c.ip_address, c.user_agent, c.created_at, c.updated_at`

// commentRepo is the concrete implementation of CommentRepository
type commentRepo struct {
	db *database.DB
}

// NewCommentRepo creates a new comment repository
func NewCommentRepo(db *database.DB) CommentRepository {
	return &commentRepo{db: db}
}

func scanComment(s scanner, extra ...interface{}) (*models.Comment, error) {
	var c models.Comment
	var parentID, email, ip, ua sql.NullString

	dest := []interface{}{
		&c.ID, &c.ArticleID, &parentID, &c.AuthorName, &email, &c.Content,
		&c.Status, &ip, &ua, &c.CreatedAt, &c.UpdatedAt,
	}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	if parentID.Valid {
		c.ParentID = &parentID.String
	}
	if email.Valid {
		c.AuthorEmail = &email.String
	}
	c.IPAddress = ip.String
	c.UserAgent = ua.String
	return &c, nil
}

// Create inserts a new comment
func (r *commentRepo) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO article_comments (id, article_id, parent_id, author_name, author_email, content,
			status, ip_address, user_agent, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	var parentID, email sql.NullString
	if comment.ParentID != nil {
		parentID = nullString(*comment.ParentID)
	}
	if comment.AuthorEmail != nil {
		email = nullString(*comment.AuthorEmail)
	}
	_, err := r.db.ExecContext(ctx, query,
		comment.ID, comment.ArticleID, parentID, comment.AuthorName, email, comment.Content,
		comment.Status, nullString(comment.IPAddress), nullString(comment.UserAgent),
		comment.CreatedAt, comment.UpdatedAt,
	)
	return err
}

// GetByID retrieves a comment by ID
func (r *commentRepo) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM article_comments c WHERE c.id = $1`

	comment, err := scanComment(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return comment, err
}

// UpdateStatus sets the moderation state of a comment
func (r *commentRepo) UpdateStatus(ctx context.Context, id string, status models.CommentStatus) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE article_comments SET status = $1, updated_at = $2 WHERE id = $3",
		status, time.Now(), id,
	)
	return err
}

// Delete removes a comment; replies and reactions cascade
func (r *commentRepo) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.db, "article_comments", id)
}

// ListForModeration returns one page of comments with article and parent
// context, newest first
func (r *commentRepo) ListForModeration(ctx context.Context, filter models.CommentFilter, page models.Pagination) ([]*models.AdminComment, int, error) {
	where := sq.And{}
	if filter.Status != "" {
		where = append(where, sq.Eq{"c.status": filter.Status})
	}
	if filter.ArticleID != "" {
		where = append(where, sq.Eq{"c.article_id": filter.ArticleID})
	}

	total, err := count(ctx, r.db, psql.Select("COUNT(*)").From("article_comments c").Where(where))
	if err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	b := psql.Select(commentColumns, "a.title", "a.slug", "COALESCE(p.author_name, '')").
		From("article_comments c").
		Join("articles a ON a.id = c.article_id").
		LeftJoin("article_comments p ON p.id = c.parent_id").
		Where(where).
		OrderBy("c.created_at DESC", "c.id")
	query, args, err := paginate(b, page.Offset(), page.PerPage).ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := []*models.AdminComment{}
	for rows.Next() {
		var title, slug, parentAuthor string
		c, err := scanComment(rows, &title, &slug, &parentAuthor)
		if err != nil {
			return nil, 0, err
		}
		comments = append(comments, &models.AdminComment{
			CommentView:  models.NewCommentView(c),
			ArticleTitle: title,
			ArticleSlug:  slug,
			ParentAuthor: parentAuthor,
			IPAddress:    c.IPAddress,
			UserAgent:    c.UserAgent,
		})
	}
	return comments, total, rows.Err()
}

// ListApproved returns every approved comment of an article, oldest first
func (r *commentRepo) ListApproved(ctx context.Context, articleID string) ([]*models.Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM article_comments c
		WHERE c.article_id = $1 AND c.status = 'approved'
		ORDER BY c.created_at ASC, c.id
	`
	return r.query(ctx, query, articleID)
}

// Count returns the number of comments in a state; empty status counts all
func (r *commentRepo) Count(ctx context.Context, status models.CommentStatus) (int, error) {
	b := psql.Select("COUNT(*)").From("article_comments")
	if status != "" {
		b = b.Where(sq.Eq{"status": status})
	}
	return count(ctx, r.db, b)
}

// Recent returns the newest comments in any state
func (r *commentRepo) Recent(ctx context.Context, limit int) ([]*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM article_comments c ORDER BY c.created_at DESC LIMIT $1`
	return r.query(ctx, query, limit)
}

func (r *commentRepo) query(ctx context.Context, query string, args ...interface{}) ([]*models.Comment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []*models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
