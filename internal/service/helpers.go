package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/ascent/internal/calendar"
	"github.com/alexanderramin/ascent/internal/domain"
	"github.com/alexanderramin/ascent/internal/repository"
)

// locator resolves a learner id to the learner and its program position.
type locator struct {
	learners repository.LearnerRepo
	cal      *calendar.Calendar
}

func (l locator) learner(ctx context.Context, id string) (*domain.Learner, error) {
	learner, err := l.learners.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("learner %s: %w", id, err)
		}
		return nil, fmt.Errorf("loading learner %s: %w", id, err)
	}
	return learner, nil
}

func (l locator) position(ctx context.Context, id string, now time.Time) (*domain.Learner, calendar.Position, error) {
	learner, err := l.learner(ctx, id)
	if err != nil {
		return nil, calendar.Position{}, err
	}
	pos, err := l.cal.Resolve(learner.ProgramStart, now)
	if err != nil {
		return learner, calendar.Position{}, fmt.Errorf("learner %s: %w", id, err)
	}
	return learner, pos, nil
}

// currentWeek returns the position's week, or nil outside week-scoped phases.
func currentWeek(pos calendar.Position) *int {
	if pos.WeekNumber < 1 {
		return nil
	}
	return domain.Ptr(pos.WeekNumber)
}

// recordSource answers completion questions from stored records and the
// learner's feature signals.
type recordSource struct {
	records map[string]domain.ProgressRecord
	signals domain.Signals
}

func newRecordSource(records []domain.ProgressRecord, signals domain.Signals) recordSource {
	byID := make(map[string]domain.ProgressRecord, len(records))
	for _, r := range records {
		byID[r.ItemID] = r
	}
	return recordSource{records: byID, signals: signals}
}

func (s recordSource) ItemStatus(itemID string) domain.ItemStatus {
	r, ok := s.records[itemID]
	if !ok {
		return domain.ItemPending
	}
	return r.EffectiveStatus()
}

func (s recordSource) Signal(key domain.SignalKey) bool {
	return s.signals[key]
}

func (s recordSource) record(itemID string) (domain.ProgressRecord, bool) {
	r, ok := s.records[itemID]
	return r, ok
}

// itemFromRecord rebuilds an addressable item for a stored record whose
// catalog day is no longer in range, such as an item carried from an
// earlier week.
func itemFromRecord(r domain.ProgressRecord) domain.ActionItem {
	return domain.ActionItem{
		ID:         r.ItemID,
		Label:      r.Label,
		Category:   domain.NormalizeCategory(string(r.Category)),
		Required:   true,
		WeekNumber: r.WeekNumber,
	}
}

// countErrors reports how many failures an errors.Join result carries.
func countErrors(err error) int {
	if err == nil {
		return 0
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return len(joined.Unwrap())
	}
	return 1
}
