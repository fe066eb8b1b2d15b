package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/ascent/internal/db"
)

type SQLVisitRepo struct {
	db db.DBTX
}

func NewSQLVisitRepo(conn db.DBTX) *SQLVisitRepo {
	return &SQLVisitRepo{db: conn}
}

// Record adds dateKey to the learner's visit log. It reports false when the
// date was already recorded.
func (r *SQLVisitRepo) Record(ctx context.Context, learnerID, dateKey string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO prep_visits (learner_id, visit_date, created_at) VALUES (?, ?, ?)
		ON CONFLICT (learner_id, visit_date) DO NOTHING`,
		learnerID, dateKey, nowUTC())
	if err != nil {
		return false, fmt.Errorf("recording visit: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("recording visit: %w", err)
	}
	return n > 0, nil
}

// List returns the visit dates in ascending order.
func (r *SQLVisitRepo) List(ctx context.Context, learnerID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT visit_date FROM prep_visits WHERE learner_id = ? ORDER BY visit_date`, learnerID)
	if err != nil {
		return nil, fmt.Errorf("listing visits: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scanning visit: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *SQLVisitRepo) Count(ctx context.Context, learnerID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM prep_visits WHERE learner_id = ?`, learnerID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting visits: %w", err)
	}
	return n, nil
}

// TruncateTo keeps the earliest keep visits and drops the rest.
func (r *SQLVisitRepo) TruncateTo(ctx context.Context, learnerID string, keep int) error {
	if keep < 0 {
		keep = 0
	}
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM prep_visits WHERE learner_id = ? AND visit_date NOT IN (
			SELECT visit_date FROM prep_visits WHERE learner_id = ? ORDER BY visit_date LIMIT ?
		)`, learnerID, learnerID, keep)
	if err != nil {
		return fmt.Errorf("truncating visits: %w", err)
	}
	return nil
}
