package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/ascent/internal/db"
	"github.com/alexanderramin/ascent/internal/domain"
)

type SQLLearnerRepo struct {
	db db.DBTX
}

func NewSQLLearnerRepo(conn db.DBTX) *SQLLearnerRepo {
	return &SQLLearnerRepo{db: conn}
}

const learnerColumns = `id, name, program_start, profile_complete, assessment_complete, created_at, updated_at`

func (r *SQLLearnerRepo) Create(ctx context.Context, l *domain.Learner) error {
	query := `INSERT INTO learners (` + learnerColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		l.ID,
		l.Name,
		nullableTimeToString(l.ProgramStart),
		boolToInt(l.ProfileComplete),
		boolToInt(l.AssessmentComplete),
		formatTime(l.CreatedAt),
		formatTime(l.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting learner: %w", err)
	}
	return nil
}

func (r *SQLLearnerRepo) GetByID(ctx context.Context, id string) (*domain.Learner, error) {
	query := `SELECT ` + learnerColumns + ` FROM learners WHERE id = ?`
	l, err := scanLearner(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("learner %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning learner: %w", err)
	}
	return l, nil
}

func (r *SQLLearnerRepo) List(ctx context.Context) ([]*domain.Learner, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+learnerColumns+` FROM learners ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing learners: %w", err)
	}
	defer rows.Close()

	var out []*domain.Learner
	for rows.Next() {
		l, err := scanLearner(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning learner: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *SQLLearnerRepo) Update(ctx context.Context, l *domain.Learner) error {
	query := `UPDATE learners SET name = ?, program_start = ?, profile_complete = ?,
		assessment_complete = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		l.Name,
		nullableTimeToString(l.ProgramStart),
		boolToInt(l.ProfileComplete),
		boolToInt(l.AssessmentComplete),
		formatTime(l.UpdatedAt),
		l.ID,
	)
	if err != nil {
		return fmt.Errorf("updating learner: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("learner %s: %w", l.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLLearnerRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM learners WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting learner: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("learner %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanLearner(s rowScanner) (*domain.Learner, error) {
	var (
		l                    domain.Learner
		programStart         sql.NullString
		profile, assessment  int
		createdAt, updatedAt string
	)
	if err := s.Scan(&l.ID, &l.Name, &programStart, &profile, &assessment, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	l.ProgramStart = parseNullableTime(programStart)
	l.ProfileComplete = intToBool(profile)
	l.AssessmentComplete = intToBool(assessment)
	l.CreatedAt = parseTime(createdAt)
	l.UpdatedAt = parseTime(updatedAt)
	return &l, nil
}
