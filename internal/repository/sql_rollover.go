package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/ascent/internal/db"
	"github.com/alexanderramin/ascent/internal/domain"
)

type SQLRolloverRepo struct {
	db db.DBTX
}

func NewSQLRolloverRepo(conn db.DBTX) *SQLRolloverRepo {
	return &SQLRolloverRepo{db: conn}
}

// Claim inserts the run's ledger row. It reports false when a run with the
// same learner and week pair already exists.
func (r *SQLRolloverRepo) Claim(ctx context.Context, run *domain.RolloverRun) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO rollover_runs (learner_id, from_week, to_week, carried, archived, failed, ran_at)
		VALUES (?, ?, ?, 0, 0, 0, ?)
		ON CONFLICT (learner_id, from_week, to_week) DO NOTHING`,
		run.LearnerID, run.FromWeek, run.ToWeek, formatTime(run.RanAt))
	if err != nil {
		return false, fmt.Errorf("claiming rollover: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("claiming rollover: %w", err)
	}
	return n > 0, nil
}

// Finish records the outcome counts of a claimed run.
func (r *SQLRolloverRepo) Finish(ctx context.Context, run *domain.RolloverRun) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE rollover_runs SET carried = ?, archived = ?, failed = ?
		WHERE learner_id = ? AND from_week = ? AND to_week = ?`,
		run.Carried, run.Archived, run.Failed, run.LearnerID, run.FromWeek, run.ToWeek)
	if err != nil {
		return fmt.Errorf("finishing rollover: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("rollover %s %d->%d: %w", run.LearnerID, run.FromWeek, run.ToWeek, ErrNotFound)
	}
	return nil
}

func (r *SQLRolloverRepo) Get(ctx context.Context, learnerID string, fromWeek, toWeek int) (*domain.RolloverRun, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT learner_id, from_week, to_week, carried, archived, failed, ran_at
		FROM rollover_runs WHERE learner_id = ? AND from_week = ? AND to_week = ?`,
		learnerID, fromWeek, toWeek)
	run, err := scanRollover(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("rollover %s %d->%d: %w", learnerID, fromWeek, toWeek, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning rollover: %w", err)
	}
	return run, nil
}

func (r *SQLRolloverRepo) ListByLearner(ctx context.Context, learnerID string) ([]*domain.RolloverRun, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT learner_id, from_week, to_week, carried, archived, failed, ran_at
		FROM rollover_runs WHERE learner_id = ? ORDER BY from_week, to_week`, learnerID)
	if err != nil {
		return nil, fmt.Errorf("listing rollovers: %w", err)
	}
	defer rows.Close()

	var out []*domain.RolloverRun
	for rows.Next() {
		run, err := scanRollover(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning rollover: %w", err)
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func scanRollover(s rowScanner) (*domain.RolloverRun, error) {
	var run domain.RolloverRun
	var ranAt string
	if err := s.Scan(&run.LearnerID, &run.FromWeek, &run.ToWeek, &run.Carried, &run.Archived, &run.Failed, &ranAt); err != nil {
		return nil, err
	}
	run.RanAt = parseTime(ranAt)
	return &run, nil
}
