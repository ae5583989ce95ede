// Package wordlist provides PostgreSQL-backed storage for blocked words and
// an in-memory cache refreshed on a schedule. Lookups during moderation hit
// the cache only; the database is read once per refresh interval.
package wordlist

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/threadkit/comments/internal/moderation"
)

// Entry is one blocked word with its severity tier.
type Entry struct {
	Word     string
	Severity moderation.Severity
}

// Store manages blocked words in PostgreSQL.
type Store struct {
	db *sql.DB
}

// NewStore creates a word store backed by the given database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ListActive returns every active blocked word.
func (s *Store) ListActive(ctx context.Context) ([]Entry, error) {
	const query = `
		SELECT word, severity
		FROM blocked_words
		WHERE is_active`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("wordlist: list active: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Word, &e.Severity); err != nil {
			return nil, fmt.Errorf("wordlist: scan row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("wordlist: iterate rows: %w", err)
	}
	return entries, nil
}

// Upsert inserts a blocked word or updates its severity, reactivating it if
// it was previously deactivated. Words are stored lowercase.
func (s *Store) Upsert(ctx context.Context, word string, severity moderation.Severity) error {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return fmt.Errorf("wordlist: empty word")
	}
	if !severity.Valid() {
		return fmt.Errorf("wordlist: invalid severity %q", severity)
	}

	const query = `
		INSERT INTO blocked_words (word, severity, is_active)
		VALUES ($1, $2, TRUE)
		ON CONFLICT (word)
		DO UPDATE SET severity = EXCLUDED.severity, is_active = TRUE, updated_at = NOW()`

	if _, err := s.db.ExecContext(ctx, query, word, string(severity)); err != nil {
		return fmt.Errorf("wordlist: upsert %q: %w", word, err)
	}
	return nil
}

// Deactivate soft-deletes a blocked word. It disappears from the cache on
// the next refresh.
func (s *Store) Deactivate(ctx context.Context, word string) error {
	word = strings.ToLower(strings.TrimSpace(word))

	const query = `
		UPDATE blocked_words
		SET is_active = FALSE, updated_at = NOW()
		WHERE word = $1`

	res, err := s.db.ExecContext(ctx, query, word)
	if err != nil {
		return fmt.Errorf("wordlist: deactivate %q: %w", word, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("wordlist: word %q not found", word)
	}
	return nil
}
