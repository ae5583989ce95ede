// Package trust maintains per-user reputation records in PostgreSQL. The
// trust score is read before moderation (it can override borderline soft
// rejections) and updated after, via the async worker — the read path never
// mutates state, so a decision can never be influenced by its own outcome.
package trust

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// DefaultScore is the trust assigned to first-time users.
const DefaultScore = 0.5

// Recalculation weights. Counters contribute additively around the 0.5
// base, clamped into the configured bounds afterwards.
const (
	approvalWeight      = 0.3
	helpfulReportWeight = 0.02
	helpfulReportCap    = 0.2
	flagWeight          = 0.4
	falseReportWeight   = 0.05
	falseReportCap      = 0.3
)

// Record is one user's reputation history. Records are created lazily on
// first moderation and never deleted.
type Record struct {
	UserID          string
	TrustScore      float64
	TotalComments   int
	FlaggedComments int
	HelpfulReports  int
	FalseReports    int
	UpdatedAt       time.Time
}

// Service reads and updates trust records.
type Service struct {
	db       *sql.DB
	minScore float64
	maxScore float64
}

// NewService creates a trust service with the given score bounds.
func NewService(db *sql.DB, minScore, maxScore float64) *Service {
	return &Service{db: db, minScore: minScore, maxScore: maxScore}
}

// Get returns the user's record, lazily creating one with the default
// score if absent.
func (s *Service) Get(ctx context.Context, userID string) (*Record, error) {
	rec, err := s.get(ctx, s.db, userID, false)
	if err == nil || !errors.Is(err, sql.ErrNoRows) {
		return rec, err
	}

	const insert = `
		INSERT INTO trust_records (user_id, trust_score)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING`
	if _, err := s.db.ExecContext(ctx, insert, userID, DefaultScore); err != nil {
		return nil, fmt.Errorf("trust: create record: %w", err)
	}
	return s.get(ctx, s.db, userID, false)
}

// Score returns the user's current trust score, creating the record if
// needed. This is the engine's read path.
func (s *Service) Score(ctx context.Context, userID string) (float64, error) {
	rec, err := s.Get(ctx, userID)
	if err != nil {
		return DefaultScore, err
	}
	return rec.TrustScore, nil
}

// RecordOutcome applies one moderation decision to the user's counters and
// recomputes the score. The read-then-write runs inside a transaction with
// a row lock, so concurrent decisions for the same user serialize instead
// of losing updates.
func (s *Service) RecordOutcome(ctx context.Context, userID string, approved bool) error {
	if _, err := s.Get(ctx, userID); err != nil {
		return err
	}

	return s.locked(ctx, userID, func(rec *Record) {
		rec.TotalComments++
		if !approved {
			rec.FlaggedComments++
		}
	})
}

// RecordReportResolution credits or debits the user's report counters after
// a moderator resolves a report they filed.
func (s *Service) RecordReportResolution(ctx context.Context, userID string, helpful bool) error {
	if _, err := s.Get(ctx, userID); err != nil {
		return err
	}

	return s.locked(ctx, userID, func(rec *Record) {
		if helpful {
			rec.HelpfulReports++
		} else {
			rec.FalseReports++
		}
	})
}

// ApplyDelta adjusts the user's score by a bounded additive delta, without
// touching the counters. Used by report-resolution workflows.
func (s *Service) ApplyDelta(ctx context.Context, userID string, delta float64) error {
	if _, err := s.Get(ctx, userID); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("trust: begin tx: %w", err)
	}
	defer tx.Rollback()

	rec, err := s.get(ctx, tx, userID, true)
	if err != nil {
		return err
	}

	score := s.clamp(rec.TrustScore + delta)
	const update = `
		UPDATE trust_records
		SET trust_score = $2, updated_at = NOW()
		WHERE user_id = $1`
	if _, err := tx.ExecContext(ctx, update, userID, score); err != nil {
		return fmt.Errorf("trust: apply delta: %w", err)
	}
	return tx.Commit()
}

// Recalculate computes the score from a record's counters: base 0.5, plus
// approval rate weighted 0.3, plus capped helpful-report credit, minus flag
// rate weighted 0.4, minus capped false-report penalty, clamped to bounds.
func (s *Service) Recalculate(rec *Record) float64 {
	score := DefaultScore

	if rec.TotalComments > 0 {
		approved := rec.TotalComments - rec.FlaggedComments
		approvalRate := float64(approved) / float64(rec.TotalComments)
		flagRate := float64(rec.FlaggedComments) / float64(rec.TotalComments)
		score += approvalRate * approvalWeight
		score -= flagRate * flagWeight
	}

	credit := float64(rec.HelpfulReports) * helpfulReportWeight
	if credit > helpfulReportCap {
		credit = helpfulReportCap
	}
	score += credit

	penalty := float64(rec.FalseReports) * falseReportWeight
	if penalty > falseReportCap {
		penalty = falseReportCap
	}
	score -= penalty

	return s.clamp(score)
}

// locked mutates a record's counters under a row lock and persists the
// recalculated score.
func (s *Service) locked(ctx context.Context, userID string, mutate func(*Record)) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("trust: begin tx: %w", err)
	}
	defer tx.Rollback()

	rec, err := s.get(ctx, tx, userID, true)
	if err != nil {
		return err
	}

	mutate(rec)
	rec.TrustScore = s.Recalculate(rec)

	const update = `
		UPDATE trust_records
		SET trust_score = $2, total_comments = $3, flagged_comments = $4,
		    helpful_reports = $5, false_reports = $6, updated_at = NOW()
		WHERE user_id = $1`
	if _, err := tx.ExecContext(ctx, update, userID,
		rec.TrustScore, rec.TotalComments, rec.FlaggedComments,
		rec.HelpfulReports, rec.FalseReports); err != nil {
		return fmt.Errorf("trust: update record: %w", err)
	}
	return tx.Commit()
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Service) get(ctx context.Context, q queryer, userID string, forUpdate bool) (*Record, error) {
	query := `
		SELECT user_id, trust_score, total_comments, flagged_comments,
		       helpful_reports, false_reports, updated_at
		FROM trust_records
		WHERE user_id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}

	var rec Record
	err := q.QueryRowContext(ctx, query, userID).Scan(
		&rec.UserID, &rec.TrustScore, &rec.TotalComments, &rec.FlaggedComments,
		&rec.HelpfulReports, &rec.FalseReports, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("trust: get record: %w", err)
	}
	return &rec, nil
}

func (s *Service) clamp(score float64) float64 {
	if score < s.minScore {
		return s.minScore
	}
	if score > s.maxScore {
		return s.maxScore
	}
	return score
}
