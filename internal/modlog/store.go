// Package modlog provides PostgreSQL-backed storage for the append-only
// moderation audit log. Entries are written once per decision and never
// mutated or deleted here; retention is an external concern.
package modlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"github.com/threadkit/comments/internal/moderation"
)

// Store appends moderation log entries to PostgreSQL.
type Store struct {
	db *sql.DB
}

// NewStore creates a log store backed by the given database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append inserts one audit entry. Sub-scores are marshalled to JSONB so
// analytics can query them without schema churn.
func (s *Store) Append(ctx context.Context, entry moderation.LogEntry) error {
	scores, err := json.Marshal(entry.Scores)
	if err != nil {
		return fmt.Errorf("modlog: marshal scores: %w", err)
	}

	const query = `
		INSERT INTO moderation_logs
			(id, user_id, page_id, content, approved, reason, rule,
			 confidence, flagged_words, scores, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = s.db.ExecContext(ctx, query,
		entry.ID,
		nullable(entry.UserID),
		nullable(entry.PageID),
		entry.Content,
		entry.Approved,
		nullable(entry.Reason),
		string(entry.Rule),
		entry.Confidence,
		pq.Array(entry.FlaggedWords),
		scores,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("modlog: insert: %w", err)
	}
	return nil
}

// CountRecent returns the number of rejections logged for a user within the
// given window. Used by ban-escalation workflows outside this core.
func (s *Store) CountRecent(ctx context.Context, userID string, window string) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM moderation_logs
		WHERE user_id = $1
		  AND NOT approved
		  AND created_at >= NOW() - $2::interval`

	var count int
	if err := s.db.QueryRowContext(ctx, query, userID, window).Scan(&count); err != nil {
		return 0, fmt.Errorf("modlog: count recent: %w", err)
	}
	return count, nil
}

// nullable maps empty strings to SQL NULL.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
