package repository

import (
	"context"

	"github.com/alexanderramin/ascent/internal/domain"
)

// ProgressRepo persists whole progress records. Merging partial updates is
// the store's job; Save always writes every column.
type ProgressRepo interface {
	Get(ctx context.Context, learnerID, itemID string) (*domain.ProgressRecord, error)
	ListByLearner(ctx context.Context, learnerID string) ([]*domain.ProgressRecord, error)
	Save(ctx context.Context, r *domain.ProgressRecord) error
	DeleteByLearner(ctx context.Context, learnerID string) error
}

type LearnerRepo interface {
	Create(ctx context.Context, l *domain.Learner) error
	GetByID(ctx context.Context, id string) (*domain.Learner, error)
	List(ctx context.Context) ([]*domain.Learner, error)
	Update(ctx context.Context, l *domain.Learner) error
	Delete(ctx context.Context, id string) error
}

// VisitRepo is the preparation-phase visit log: one row per distinct
// calendar date (YYYY-MM-DD in the program timezone).
type VisitRepo interface {
	Record(ctx context.Context, learnerID, dateKey string) (bool, error)
	List(ctx context.Context, learnerID string) ([]string, error)
	Count(ctx context.Context, learnerID string) (int, error)
	TruncateTo(ctx context.Context, learnerID string, keep int) error
}

// RolloverRepo is the ledger the rollover job uses to run at most once per
// learner and week pair.
type RolloverRepo interface {
	Claim(ctx context.Context, run *domain.RolloverRun) (bool, error)
	Finish(ctx context.Context, run *domain.RolloverRun) error
	Get(ctx context.Context, learnerID string, fromWeek, toWeek int) (*domain.RolloverRun, error)
	ListByLearner(ctx context.Context, learnerID string) ([]*domain.RolloverRun, error)
}
