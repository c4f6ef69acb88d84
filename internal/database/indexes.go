package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

// IndexInfo describes one index from pg_indexes
type IndexInfo struct {
	Table      string
	Name       string
	Definition string
}

// IsGIN reports whether the index uses the GIN access method
func (i IndexInfo) IsGIN() bool {
	return strings.Contains(strings.ToLower(i.Definition), "using gin")
}

// QueryTiming is the wall time of one diagnostic query
type QueryTiming struct {
	Name     string
	Duration time.Duration
	Err      error
}

// ExpectedIndexes lists the indexes the application queries rely on
var ExpectedIndexes = []string{
	"articles_slug_key",
	"idx_articles_published_at",
	"idx_articles_category",
	"idx_articles_series",
	"idx_articles_tags_gin",
	"idx_projects_tags_gin",
	"idx_article_comments_article_status",
	"comment_reactions_unique",
	"newsletter_subscribers_email_key",
	"idx_notification_jobs_due",
}

// ListIndexes returns the indexes on the given tables
func (db *DB) ListIndexes(ctx context.Context, tables []string) ([]IndexInfo, error) {
	query := `
		SELECT tablename, indexname, indexdef
		FROM pg_indexes
		WHERE schemaname = 'public' AND tablename = ANY($1)
		ORDER BY tablename, indexname
	`
	rows, err := db.QueryContext(ctx, query, pq.Array(tables))
	if err != nil {
		return nil, fmt.Errorf("list indexes: %w", err)
	}
	defer rows.Close()

	var indexes []IndexInfo
	for rows.Next() {
		var idx IndexInfo
		if err := rows.Scan(&idx.Table, &idx.Name, &idx.Definition); err != nil {
			return nil, err
		}
		indexes = append(indexes, idx)
	}
	return indexes, rows.Err()
}

// MissingIndexes returns the expected index names absent from found
func MissingIndexes(found []IndexInfo) []string {
	have := make(map[string]bool, len(found))
	for _, idx := range found {
		have[idx.Name] = true
	}
	var missing []string
	for _, name := range ExpectedIndexes {
		if !have[name] {
			missing = append(missing, name)
		}
	}
	return missing
}

// TimeQuery runs a read query, drains its rows and reports how long it took
func (db *DB) TimeQuery(ctx context.Context, name, query string, args ...interface{}) QueryTiming {
	start := time.Now()
	rows, err := db.QueryContext(ctx, query, args...)
	if err == nil {
		for rows.Next() {
		}
		err = rows.Err()
		rows.Close()
	}
	return QueryTiming{Name: name, Duration: time.Since(start), Err: err}
}
