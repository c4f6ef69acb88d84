package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/portfolio-api/internal/database"
	"github.com/portfolio-api/internal/models"
)

const articleColumns = `id, title, slug, excerpt, content, featured_image, category, series,
	series_order, tags, published_at, views, is_featured, created_at, updated_at`

// approvedCommentCount is selected alongside articleColumns in listings
const approvedCommentCount = `(SELECT COUNT(*) FROM article_comments c
	WHERE c.article_id = articles.id AND c.status = 'approved') AS comments_count`

// articleRepo is the concrete implementation of ArticleRepository
type articleRepo struct {
	db *database.DB
}

// NewArticleRepo creates a new article repository
func NewArticleRepo(db *database.DB) ArticleRepository {
	return &articleRepo{db: db}
}

func scanArticle(s scanner, extra ...interface{}) (*models.Article, error) {
	var a models.Article
	var featuredImage, category, series sql.NullString
	var seriesOrder sql.NullInt64
	var publishedAt sql.NullTime

	dest := []interface{}{
		&a.ID, &a.Title, &a.Slug, &a.Excerpt, &a.Content, &featuredImage, &category, &series,
		&seriesOrder, &a.Tags, &publishedAt, &a.Views, &a.IsFeatured, &a.CreatedAt, &a.UpdatedAt,
	}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	a.FeaturedImage = featuredImage.String
	a.Category = category.String
	a.Series = series.String
	a.SeriesOrder = intPtr(seriesOrder)
	a.PublishedAt = timePtr(publishedAt)
	return &a, nil
}

func (r *articleRepo) queryArticles(ctx context.Context, b sq.SelectBuilder, withCounts bool) ([]*models.Article, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	articles := []*models.Article{}
	for rows.Next() {
		var a *models.Article
		if withCounts {
			var n int
			a, err = scanArticle(rows, &n)
			if a != nil {
				a.CommentsCount = n
			}
		} else {
			a, err = scanArticle(rows)
		}
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func selectArticles(columns ...string) sq.SelectBuilder {
	if len(columns) == 0 {
		columns = []string{articleColumns}
	}
	return psql.Select(columns...).From("articles")
}

func publishedAt(now time.Time) sq.Sqlizer {
	return sq.And{sq.NotEq{"published_at": nil}, sq.LtOrEq{"published_at": now}}
}

// Create inserts a new article
func (r *articleRepo) Create(ctx context.Context, article *models.Article) error {
	query := `
		INSERT INTO articles (id, title, slug, excerpt, content, featured_image, category, series,
			series_order, tags, published_at, views, is_featured, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := r.db.ExecContext(ctx, query,
		article.ID, article.Title, article.Slug, article.Excerpt, article.Content,
		nullString(article.FeaturedImage), nullString(article.Category), nullString(article.Series),
		nullInt(article.SeriesOrder), article.Tags, nullTime(article.PublishedAt),
		article.Views, article.IsFeatured, article.CreatedAt, article.UpdatedAt,
	)
	return err
}

// Update overwrites the editable fields of an article
func (r *articleRepo) Update(ctx context.Context, article *models.Article) error {
	query := `
		UPDATE articles SET
			title = $1, slug = $2, excerpt = $3, content = $4, featured_image = $5, category = $6,
			series = $7, series_order = $8, tags = $9, published_at = $10, is_featured = $11,
			updated_at = $12
		WHERE id = $13
	`
	_, err := r.db.ExecContext(ctx, query,
		article.Title, article.Slug, article.Excerpt, article.Content,
		nullString(article.FeaturedImage), nullString(article.Category), nullString(article.Series),
		nullInt(article.SeriesOrder), article.Tags, nullTime(article.PublishedAt), article.IsFeatured,
		article.UpdatedAt, article.ID,
	)
	return err
}

// Delete removes an article; its comments cascade
func (r *articleRepo) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.db, "articles", id)
}

// DeleteMany removes the given articles and returns how many existed
func (r *articleRepo) DeleteMany(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result, err := r.db.ExecContext(ctx, `DELETE FROM articles WHERE id = ANY($1::uuid[])`, pq.Array(ids))
	if err != nil {
		return 0, err
	}
	n, _ := result.RowsAffected()
	return int(n), nil
}

// GetByID retrieves an article by ID
func (r *articleRepo) GetByID(ctx context.Context, id string) (*models.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = $1`

	article, err := scanArticle(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return article, err
}

// GetBySlug retrieves an article by slug
func (r *articleRepo) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE slug = $1`

	article, err := scanArticle(r.db.QueryRowContext(ctx, query, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return article, err
}

// SlugExists checks whether another article already uses slug
func (r *articleRepo) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	var exists bool
	var err error
	if excludeID == "" {
		err = r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM articles WHERE slug = $1)", slug).Scan(&exists)
	} else {
		err = r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM articles WHERE slug = $1 AND id <> $2)", slug, excludeID).Scan(&exists)
	}
	return exists, err
}

func articleFilterWhere(filter models.ArticleFilter) sq.And {
	where := sq.And{}
	now := filter.Now
	if now.IsZero() {
		now = time.Now()
	}

	if filter.PublishedOnly {
		where = append(where, publishedAt(now))
	}
	switch filter.Status {
	case models.ArticleStatusDraft:
		where = append(where, sq.Eq{"published_at": nil})
	case models.ArticleStatusScheduled:
		where = append(where, sq.Gt{"published_at": now})
	case models.ArticleStatusPublished:
		where = append(where, publishedAt(now))
	}
	if filter.Category != "" {
		where = append(where, sq.Eq{"category": filter.Category})
	}
	if filter.Tag != "" {
		where = append(where, sq.Expr("tags @> ?::jsonb", fmt.Sprintf("[%q]", filter.Tag)))
	}
	if filter.Search != "" {
		pattern := containsPattern(filter.Search)
		where = append(where, sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"excerpt": pattern},
			sq.ILike{"category": pattern},
		})
	}
	return where
}

// List returns one page of articles matching filter, newest first, with
// approved comment counts, and the total number of matches
func (r *articleRepo) List(ctx context.Context, filter models.ArticleFilter, page models.Pagination) ([]*models.Article, int, error) {
	where := articleFilterWhere(filter)

	total, err := count(ctx, r.db, psql.Select("COUNT(*)").From("articles").Where(where))
	if err != nil {
		return nil, 0, fmt.Errorf("count articles: %w", err)
	}

	order := "created_at DESC"
	if filter.PublishedOnly || filter.Status == models.ArticleStatusPublished {
		order = "published_at DESC"
	}
	b := selectArticles(articleColumns, approvedCommentCount).Where(where).OrderBy(order, "id")
	articles, err := r.queryArticles(ctx, paginate(b, page.Offset(), page.PerPage), true)
	if err != nil {
		return nil, 0, fmt.Errorf("list articles: %w", err)
	}
	return articles, total, nil
}

// IncrementViews atomically bumps the view counter
func (r *articleRepo) IncrementViews(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "UPDATE articles SET views = views + 1 WHERE id = $1", id)
	return err
}

// Related returns published articles sharing the category or first tag
func (r *articleRepo) Related(ctx context.Context, article *models.Article, now time.Time, limit int) ([]*models.Article, error) {
	match := sq.Or{}
	if article.Category != "" {
		match = append(match, sq.Eq{"category": article.Category})
	}
	if len(article.Tags) > 0 {
		match = append(match, sq.Expr("tags @> ?::jsonb", fmt.Sprintf("[%q]", article.Tags[0])))
	}
	if len(match) == 0 {
		return []*models.Article{}, nil
	}

	b := selectArticles().
		Where(publishedAt(now)).
		Where(sq.NotEq{"id": article.ID}).
		Where(match).
		OrderBy("published_at DESC").
		Limit(uint64(limit))
	return r.queryArticles(ctx, b, false)
}

// Popular returns the most viewed published articles
func (r *articleRepo) Popular(ctx context.Context, now time.Time, limit int) ([]*models.Article, error) {
	b := selectArticles().Where(publishedAt(now)).OrderBy("views DESC", "published_at DESC").Limit(uint64(limit))
	return r.queryArticles(ctx, b, false)
}

// Recent returns the most recently created articles in any state
func (r *articleRepo) Recent(ctx context.Context, limit int) ([]*models.Article, error) {
	return r.queryArticles(ctx, selectArticles().OrderBy("created_at DESC").Limit(uint64(limit)), false)
}

// InSeries returns the published articles of a series in reading order
func (r *articleRepo) InSeries(ctx context.Context, series string, now time.Time) ([]*models.Article, error) {
	b := selectArticles().
		Where(sq.Eq{"series": series}).
		Where(publishedAt(now)).
		OrderBy("series_order ASC NULLS LAST", "published_at ASC")
	return r.queryArticles(ctx, b, false)
}

// Published returns the latest published articles; limit <= 0 returns all
func (r *articleRepo) Published(ctx context.Context, now time.Time, limit int) ([]*models.Article, error) {
	b := selectArticles().Where(publishedAt(now)).OrderBy("published_at DESC")
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	return r.queryArticles(ctx, b, false)
}

// Search matches the case-insensitive query against title, category, tags,
// excerpt and content of published articles
func (r *articleRepo) Search(ctx context.Context, query string, now time.Time, limit int) ([]*models.Article, error) {
	pattern := containsPattern(query)
	b := selectArticles().
		Where(publishedAt(now)).
		Where(sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"category": pattern},
			sq.ILike{"excerpt": pattern},
			sq.ILike{"content": pattern},
			sq.Expr("EXISTS (SELECT 1 FROM jsonb_array_elements_text(tags) AS tag WHERE tag ILIKE ?)", pattern),
		}).
		OrderBy("published_at DESC").
		Limit(uint64(limit))

	articles, err := r.queryArticles(ctx, b, false)
	if err != nil {
		return nil, fmt.Errorf("search articles: %w", err)
	}
	return articles, nil
}

// Categories returns each category with its published article count
func (r *articleRepo) Categories(ctx context.Context, now time.Time) ([]models.CategoryCount, error) {
	query, args, err := psql.Select("category", "COUNT(*)").
		From("articles").
		Where(publishedAt(now)).
		Where(sq.NotEq{"category": nil}).
		Where(sq.NotEq{"category": ""}).
		GroupBy("category").
		OrderBy("COUNT(*) DESC", "category").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.CategoryCount{}
	for rows.Next() {
		var c models.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// Tags returns each tag with its published article count
func (r *articleRepo) Tags(ctx context.Context, now time.Time) ([]models.TagCount, error) {
	query := `
		SELECT tag, COUNT(*)
		FROM articles, jsonb_array_elements_text(articles.tags) AS tag
		WHERE published_at IS NOT NULL AND published_at <= $1
		GROUP BY tag
		ORDER BY COUNT(*) DESC, tag
	`
	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []models.TagCount{}
	for rows.Next() {
		var t models.TagCount
		if err := rows.Scan(&t.Tag, &t.Count); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// Counts returns the per-status article breakdown
func (r *articleRepo) Counts(ctx context.Context, now time.Time) (models.ArticleCounts, error) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE published_at IS NOT NULL AND published_at <= $1),
			COUNT(*) FILTER (WHERE published_at IS NULL),
			COUNT(*) FILTER (WHERE published_at > $1),
			COUNT(*) FILTER (WHERE is_featured),
			COUNT(*) FILTER (WHERE published_at >= $2 AND published_at <= $1)
		FROM articles
	`
	var c models.ArticleCounts
	err := r.db.QueryRowContext(ctx, query, now, monthStart).Scan(
		&c.Total, &c.Published, &c.Draft, &c.Scheduled, &c.Featured, &c.ThisMonth,
	)
	return c, err
}

// ViewStats returns total and average views across all articles
func (r *articleRepo) ViewStats(ctx context.Context) (models.ViewStats, error) {
	var s models.ViewStats
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(views), 0), COALESCE(AVG(views), 0) FROM articles",
	).Scan(&s.Total, &s.Average)
	return s, err
}

// ViewsByCategory returns view totals grouped by category
func (r *articleRepo) ViewsByCategory(ctx context.Context) ([]models.CategoryViews, error) {
	query := `
		SELECT category, COALESCE(SUM(views), 0), COUNT(*)
		FROM articles
		WHERE category IS NOT NULL AND category <> ''
		GROUP BY category
		ORDER BY SUM(views) DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.CategoryViews{}
	for rows.Next() {
		var c models.CategoryViews
		if err := rows.Scan(&c.Category, &c.Views, &c.Articles); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// SeriesStats returns article count and views per series
func (r *articleRepo) SeriesStats(ctx context.Context) ([]models.SeriesStat, error) {
	query := `
		SELECT series, COUNT(*), COALESCE(SUM(views), 0)
		FROM articles
		WHERE series IS NOT NULL AND series <> ''
		GROUP BY series
		ORDER BY COUNT(*) DESC, series
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.SeriesStat{}
	for rows.Next() {
		var s models.SeriesStat
		if err := rows.Scan(&s.Series, &s.Articles, &s.Views); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// StreamAll streams all articles for export, newest first
func (r *articleRepo) StreamAll(ctx context.Context, callback func(*models.Article) error) error {
	query := `SELECT ` + articleColumns + ` FROM articles ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return err
		}
		if err := callback(article); err != nil {
			return err
		}
	}

	return rows.Err()
}
