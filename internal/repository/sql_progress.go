package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/ascent/internal/db"
	"github.com/alexanderramin/ascent/internal/domain"
)

// SQLProgressRepo implements ProgressRepo over SQLite or PostgreSQL.
type SQLProgressRepo struct {
	db db.DBTX
}

func NewSQLProgressRepo(conn db.DBTX) *SQLProgressRepo {
	return &SQLProgressRepo{db: conn}
}

const progressColumns = `learner_id, item_id, status, category, label, week_number,
	original_week, current_week, completed_in_week, carried_over, carried_from_week,
	carry_count, completed_at, skipped_at, archived_at, skipped_reason, archived_reason, updated_at`

func (r *SQLProgressRepo) Get(ctx context.Context, learnerID, itemID string) (*domain.ProgressRecord, error) {
	query := `SELECT ` + progressColumns + ` FROM action_progress WHERE learner_id = ? AND item_id = ?`
	rec, err := scanProgress(r.db.QueryRowContext(ctx, query, learnerID, itemID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("progress %s/%s: %w", learnerID, itemID, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning progress record: %w", err)
	}
	return rec, nil
}

func (r *SQLProgressRepo) ListByLearner(ctx context.Context, learnerID string) ([]*domain.ProgressRecord, error) {
	query := `SELECT ` + progressColumns + ` FROM action_progress WHERE learner_id = ? ORDER BY item_id`
	rows, err := r.db.QueryContext(ctx, query, learnerID)
	if err != nil {
		return nil, fmt.Errorf("listing progress: %w", err)
	}
	defer rows.Close()

	var out []*domain.ProgressRecord
	for rows.Next() {
		rec, err := scanProgress(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning progress record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLProgressRepo) Save(ctx context.Context, rec *domain.ProgressRecord) error {
	query := `INSERT INTO action_progress (` + progressColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (learner_id, item_id) DO UPDATE SET
			status = excluded.status,
			category = excluded.category,
			label = excluded.label,
			week_number = excluded.week_number,
			original_week = excluded.original_week,
			current_week = excluded.current_week,
			completed_in_week = excluded.completed_in_week,
			carried_over = excluded.carried_over,
			carried_from_week = excluded.carried_from_week,
			carry_count = excluded.carry_count,
			completed_at = excluded.completed_at,
			skipped_at = excluded.skipped_at,
			archived_at = excluded.archived_at,
			skipped_reason = excluded.skipped_reason,
			archived_reason = excluded.archived_reason,
			updated_at = excluded.updated_at`

	category := rec.Category
	if category == "" {
		category = domain.CategoryContent
	}
	_, err := r.db.ExecContext(ctx, query,
		rec.LearnerID,
		rec.ItemID,
		string(rec.EffectiveStatus()),
		string(category),
		rec.Label,
		nullableIntToValue(rec.WeekNumber),
		nullableIntToValue(rec.OriginalWeek),
		nullableIntToValue(rec.CurrentWeek),
		nullableIntToValue(rec.CompletedInWeek),
		boolToInt(rec.CarriedOver),
		nullableIntToValue(rec.CarriedFromWeek),
		rec.CarryCount,
		nullableTimeToString(rec.CompletedAt),
		nullableTimeToString(rec.SkippedAt),
		nullableTimeToString(rec.ArchivedAt),
		rec.SkippedReason,
		rec.ArchivedReason,
		formatTime(rec.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("saving progress %s/%s: %w", rec.LearnerID, rec.ItemID, err)
	}
	return nil
}

func (r *SQLProgressRepo) DeleteByLearner(ctx context.Context, learnerID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM action_progress WHERE learner_id = ?`, learnerID); err != nil {
		return fmt.Errorf("deleting progress for %s: %w", learnerID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProgress(s rowScanner) (*domain.ProgressRecord, error) {
	var (
		rec                                   domain.ProgressRecord
		status, category, updatedAt           string
		weekNumber, originalWeek, currentWeek sql.NullInt64
		completedInWeek, carriedFromWeek      sql.NullInt64
		carriedOver                           int
		completedAt, skippedAt, archivedAt    sql.NullString
	)
	err := s.Scan(
		&rec.LearnerID,
		&rec.ItemID,
		&status,
		&category,
		&rec.Label,
		&weekNumber,
		&originalWeek,
		&currentWeek,
		&completedInWeek,
		&carriedOver,
		&carriedFromWeek,
		&rec.CarryCount,
		&completedAt,
		&skippedAt,
		&archivedAt,
		&rec.SkippedReason,
		&rec.ArchivedReason,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Status = domain.ItemStatus(status)
	rec.Category = domain.NormalizeCategory(category)
	rec.WeekNumber = parseNullableInt(weekNumber)
	rec.OriginalWeek = parseNullableInt(originalWeek)
	rec.CurrentWeek = parseNullableInt(currentWeek)
	rec.CompletedInWeek = parseNullableInt(completedInWeek)
	rec.CarriedOver = intToBool(carriedOver)
	rec.CarriedFromWeek = parseNullableInt(carriedFromWeek)
	rec.CompletedAt = parseNullableTime(completedAt)
	rec.SkippedAt = parseNullableTime(skippedAt)
	rec.ArchivedAt = parseNullableTime(archivedAt)
	rec.UpdatedAt = parseTime(updatedAt)
	return &rec, nil
}
