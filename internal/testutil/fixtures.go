package testutil

import (
	"time"

	"github.com/alexanderramin/ascent/internal/domain"
	"github.com/google/uuid"
)

// Learner options
type LearnerOption func(*domain.Learner)

func WithProgramStart(t time.Time) LearnerOption {
	return func(l *domain.Learner) {
		l.ProgramStart = &t
	}
}

func WithPrepSignals(profile, assessment bool) LearnerOption {
	return func(l *domain.Learner) {
		l.ProfileComplete = profile
		l.AssessmentComplete = assessment
	}
}

func NewTestLearner(name string, opts ...LearnerOption) *domain.Learner {
	now := time.Now().UTC().Truncate(time.Second)
	l := &domain.Learner{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ProgressRecord options
type RecordOption func(*domain.ProgressRecord)

func WithStatus(s domain.ItemStatus) RecordOption {
	return func(r *domain.ProgressRecord) {
		r.Status = s
	}
}

func WithCategory(c domain.Category) RecordOption {
	return func(r *domain.ProgressRecord) {
		r.Category = c
	}
}

// WithWeek sets both the scheduled and original week.
func WithWeek(week int) RecordOption {
	return func(r *domain.ProgressRecord) {
		r.WeekNumber = domain.Ptr(week)
		r.OriginalWeek = domain.Ptr(week)
	}
}

// WithCompletedAt marks the record completed at t, optionally in a week.
func WithCompletedAt(t time.Time, week *int) RecordOption {
	return func(r *domain.ProgressRecord) {
		r.Status = domain.ItemCompleted
		r.CompletedAt = &t
		r.CompletedInWeek = week
	}
}

func WithSkippedAt(t time.Time, reason string) RecordOption {
	return func(r *domain.ProgressRecord) {
		r.Status = domain.ItemSkipped
		r.SkippedAt = &t
		r.SkippedReason = reason
	}
}

// WithCarry marks the record as carried count times, last from fromWeek.
func WithCarry(count, fromWeek int) RecordOption {
	return func(r *domain.ProgressRecord) {
		r.CarriedOver = true
		r.CarryCount = count
		r.CarriedFromWeek = domain.Ptr(fromWeek)
	}
}

func NewTestRecord(learnerID, itemID string, opts ...RecordOption) *domain.ProgressRecord {
	r := &domain.ProgressRecord{
		LearnerID: learnerID,
		ItemID:    itemID,
		Status:    domain.ItemPending,
		Category:  domain.CategoryContent,
		Label:     itemID,
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
