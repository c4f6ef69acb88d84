package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/portfolio-api/internal/database"
)

// psql builds statements with PostgreSQL $n placeholders
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// scanner is satisfied by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

// likeEscaper escapes the LIKE metacharacters; backslash is PostgreSQL's default escape
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes s for literal use inside a LIKE pattern
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// containsPattern is a LIKE pattern matching s anywhere
func containsPattern(s string) string {
	return "%" + EscapeLike(s) + "%"
}

// helper to convert empty string to NULL
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func intPtr(i sql.NullInt64) *int {
	if !i.Valid {
		return nil
	}
	v := int(i.Int64)
	return &v
}

// deleteByID removes one row and reports whether it existed
func deleteByID(ctx context.Context, db *database.DB, table, id string) (bool, error) {
	result, err := db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// count runs a squirrel COUNT(*) query
func count(ctx context.Context, db *database.DB, b sq.SelectBuilder) (int, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	err = db.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}

// countTable returns the row count of a table
func countTable(ctx context.Context, db *database.DB, table string) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n)
	return n, err
}

func paginate(b sq.SelectBuilder, offset, limit int) sq.SelectBuilder {
	return b.Limit(uint64(limit)).Offset(uint64(offset))
}
