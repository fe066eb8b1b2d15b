package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/ascent/internal/contract"
	"github.com/alexanderramin/ascent/internal/domain"
	"github.com/alexanderramin/ascent/internal/progress"
	"github.com/alexanderramin/ascent/internal/store"
)

// ErrAlreadyRolledOver is returned when the weekly rollover for a learner
// and week boundary already ran without failures.
var ErrAlreadyRolledOver = errors.New("rollover already ran for this week boundary")

// ProgressReader is the read side of the progress store.
type ProgressReader interface {
	GetAll(ctx context.Context, learnerID string) ([]domain.ProgressRecord, error)
}

// ProgressFeed adds live snapshots to ProgressReader.
type ProgressFeed interface {
	ProgressReader
	Subscribe(ctx context.Context, learnerID string) (*store.Subscription, error)
}

type EnrollmentService interface {
	Enroll(ctx context.Context, req contract.EnrollRequest) (*domain.Learner, error)
	Get(ctx context.Context, id string) (*domain.Learner, error)
	List(ctx context.Context) ([]*domain.Learner, error)
	ResetStart(ctx context.Context, id string, start time.Time) (*domain.Learner, error)
	SetSignals(ctx context.Context, id string, update contract.SignalsUpdate) (*domain.Learner, error)
}

type JourneyService interface {
	Today(ctx context.Context, req contract.TodayRequest) (*contract.TodayView, error)
	// SetJourneyDay rewrites the learner's preparation visit log so that it
	// holds exactly day visits.
	SetJourneyDay(ctx context.Context, learnerID string, day int) error
}

type ProgressService interface {
	Complete(ctx context.Context, learnerID, itemID string) (domain.ProgressRecord, error)
	Uncomplete(ctx context.Context, learnerID, itemID string) (domain.ProgressRecord, error)
	Skip(ctx context.Context, learnerID, itemID, reason string) (domain.ProgressRecord, error)
	CarryOver(ctx context.Context, learnerID, itemID string, fromWeek, toWeek int) (progress.CarryResult, error)
	List(ctx context.Context, learnerID string) ([]domain.ProgressRecord, error)
}

type RolloverService interface {
	// Due returns the boundary the learner's current week closes, if any.
	Due(ctx context.Context, learnerID string) (contract.RolloverRequest, bool, error)
	Preview(ctx context.Context, req contract.RolloverRequest) (*contract.RolloverPreview, error)
	Rollover(ctx context.Context, req contract.RolloverRequest) (*contract.RolloverResult, error)
}

type StatsService interface {
	Get(ctx context.Context, learnerID string) (*contract.StatsView, error)
	// Watch recomputes stats on every stored snapshot until ctx ends. Slow
	// readers only see the newest view.
	Watch(ctx context.Context, learnerID string) (<-chan contract.StatsView, error)
}
