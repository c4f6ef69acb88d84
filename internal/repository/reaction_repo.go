package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/portfolio-api/internal/database"
	"github.com/portfolio-api/internal/models"
)

// reactionRepo is the concrete implementation of ReactionRepository
type reactionRepo struct {
	db *database.DB
}

// NewReactionRepo creates a new reaction repository
func NewReactionRepo(db *database.DB) ReactionRepository {
	return &reactionRepo{db: db}
}

// Toggle locks the comment row so concurrent toggles from the same client
// serialize, then removes the reaction if present or swaps it in for the
// opposite kind. Counts are read inside the same transaction.
func (r *reactionRepo) Toggle(ctx context.Context, reaction *models.Reaction) (*models.ToggleResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var locked string
	err = tx.QueryRowContext(ctx, "SELECT id FROM article_comments WHERE id = $1 FOR UPDATE", reaction.CommentID).Scan(&locked)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	const deleteKind = `DELETE FROM comment_reactions WHERE comment_id = $1 AND reaction_type = $2 AND ip_address = $3`

	result, err := tx.ExecContext(ctx, deleteKind, reaction.CommentID, reaction.Kind, reaction.IPAddress)
	if err != nil {
		return nil, err
	}
	removed, _ := result.RowsAffected()

	action := models.ToggleRemoved
	if removed == 0 {
		action = models.ToggleAdded
		if _, err := tx.ExecContext(ctx, deleteKind, reaction.CommentID, reaction.Kind.Opposite(), reaction.IPAddress); err != nil {
			return nil, err
		}
		if reaction.CreatedAt.IsZero() {
			reaction.CreatedAt = time.Now()
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO comment_reactions (id, comment_id, reaction_type, ip_address, user_agent, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT ON CONSTRAINT comment_reactions_unique DO NOTHING
		`, reaction.ID, reaction.CommentID, reaction.Kind, reaction.IPAddress,
			nullString(reaction.UserAgent), reaction.CreatedAt)
		if err != nil {
			return nil, err
		}
	}

	out := &models.ToggleResult{Action: action}
	err = tx.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE reaction_type = 'like'),
			COUNT(*) FILTER (WHERE reaction_type = 'helpful'),
			COALESCE(BOOL_OR(reaction_type = 'like' AND ip_address = $2), FALSE),
			COALESCE(BOOL_OR(reaction_type = 'helpful' AND ip_address = $2), FALSE)
		FROM comment_reactions
		WHERE comment_id = $1
	`, reaction.CommentID, reaction.IPAddress).Scan(&out.Likes, &out.Helpfuls, &out.UserLiked, &out.UserHelpful)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

// Counts returns reaction totals keyed by comment ID; comments without
// reactions are absent from the map
func (r *reactionRepo) Counts(ctx context.Context, commentIDs []string) (map[string]models.ReactionCounts, error) {
	counts := make(map[string]models.ReactionCounts, len(commentIDs))
	if len(commentIDs) == 0 {
		return counts, nil
	}

	query := `
		SELECT comment_id,
			COUNT(*) FILTER (WHERE reaction_type = 'like'),
			COUNT(*) FILTER (WHERE reaction_type = 'helpful')
		FROM comment_reactions
		WHERE comment_id = ANY($1::uuid[])
		GROUP BY comment_id
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(commentIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var c models.ReactionCounts
		if err := rows.Scan(&id, &c.Likes, &c.Helpfuls); err != nil {
			return nil, err
		}
		counts[id] = c
	}
	return counts, rows.Err()
}
