// Package progress implements the per-item completion state machine and
// the weekly carry-over of unfinished items.
package progress

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/ascent/internal/clock"
	"github.com/alexanderramin/ascent/internal/domain"
	"github.com/alexanderramin/ascent/internal/logger"
)

const (
	// DefaultMaxCarries is the number of carry-overs that archives an item.
	DefaultMaxCarries = 3
)

var (
	ErrInvalidItemID = domain.ErrInvalidItemID
	ErrNoLearner     = errors.New("learner id is required")
	// ErrTerminal is returned when a mutation targets an archived item.
	ErrTerminal = errors.New("item is archived")
	// ErrNotCarryable is returned when carrying a completed or skipped item.
	ErrNotCarryable = errors.New("item is resolved and cannot be carried over")
	ErrInvalidWeeks = errors.New("carry-over must move to a later week")
)

// Store is the persistence the engine reads and merges into.
type Store interface {
	Get(ctx context.Context, learnerID, itemID string) (domain.ProgressRecord, error)
	Upsert(ctx context.Context, learnerID, itemID string, patch domain.ProgressPatch) (domain.ProgressRecord, error)
}

// ItemMeta is descriptive data copied onto the record on write. Zero values
// leave the stored fields untouched.
type ItemMeta struct {
	Label       string
	Category    domain.Category
	WeekNumber  *int
	CurrentWeek *int
	Reason      string
}

// MetaFor builds ItemMeta from a resolved action item.
func MetaFor(item domain.ActionItem, currentWeek *int) ItemMeta {
	return ItemMeta{
		Label:       item.Label,
		Category:    item.Category,
		WeekNumber:  item.WeekNumber,
		CurrentWeek: currentWeek,
	}
}

// CarryResult reports what a carry-over did to one item.
type CarryResult struct {
	ItemID     string
	Archived   bool
	CarryCount int
	// LastChance is set when the next carry-over will archive the item.
	LastChance bool
	// Unchanged is set when the item was already archived and nothing was written.
	Unchanged bool
}

type Option func(*Engine)

func WithMaxCarries(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxCarries = n
		}
	}
}

func WithClock(c clock.Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// Engine has no clock of its own beyond timestamps: callers decide when a
// week boundary has passed and must not run the batch twice for one boundary.
type Engine struct {
	store      Store
	clock      clock.Clock
	maxCarries int
}

func NewEngine(store Store, opts ...Option) *Engine {
	e := &Engine{store: store, clock: clock.System{}, maxCarries: DefaultMaxCarries}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *Engine) MaxCarries() int { return e.maxCarries }

func (e *Engine) load(ctx context.Context, learnerID, itemID string) (domain.ProgressRecord, error) {
	if learnerID == "" {
		return domain.ProgressRecord{}, ErrNoLearner
	}
	if err := domain.ValidateItemID(itemID); err != nil {
		return domain.ProgressRecord{}, err
	}
	return e.store.Get(ctx, learnerID, itemID)
}

// Complete moves a pending or skipped item to completed. Carry state is left
// as it is. Completing a completed item writes nothing.
func (e *Engine) Complete(ctx context.Context, learnerID, itemID string, meta ItemMeta) (domain.ProgressRecord, error) {
	rec, err := e.load(ctx, learnerID, itemID)
	if err != nil {
		return domain.ProgressRecord{}, err
	}
	switch rec.EffectiveStatus() {
	case domain.ItemArchived:
		return rec, fmt.Errorf("completing %s: %w", itemID, ErrTerminal)
	case domain.ItemCompleted:
		return rec, nil
	}

	now := e.clock.Now()
	patch := describe(meta)
	patch.Status = domain.Ptr(domain.ItemCompleted)
	patch.CompletedAt = &now
	patch.Clear = append(patch.Clear, domain.FieldSkippedAt, domain.FieldSkippedReason)
	if meta.CurrentWeek != nil {
		patch.CompletedInWeek = domain.Ptr(*meta.CurrentWeek)
	} else {
		patch.Clear = append(patch.Clear, domain.FieldCompletedInWeek)
	}
	patch.OriginalWeek = firstWeek(meta.WeekNumber, meta.CurrentWeek)

	logger.Debug("item completed", "learner", learnerID, "item", itemID)
	return e.store.Upsert(ctx, learnerID, itemID, patch)
}

// Uncomplete returns a completed or skipped item to pending and clears its
// completion fields. It is also how a skip is undone: the skip time and
// reason are cleared too. Pending and archived items are left alone. Only
// store failures are reported.
func (e *Engine) Uncomplete(ctx context.Context, learnerID, itemID string) (domain.ProgressRecord, error) {
	rec, err := e.load(ctx, learnerID, itemID)
	if err != nil {
		return domain.ProgressRecord{}, err
	}
	switch rec.EffectiveStatus() {
	case domain.ItemPending, domain.ItemArchived:
		return rec, nil
	}

	patch := domain.ProgressPatch{
		Status: domain.Ptr(domain.ItemPending),
		Clear: []domain.Field{
			domain.FieldCompletedAt,
			domain.FieldCompletedInWeek,
			domain.FieldSkippedAt,
			domain.FieldSkippedReason,
		},
	}
	logger.Debug("item uncompleted", "learner", learnerID, "item", itemID)
	return e.store.Upsert(ctx, learnerID, itemID, patch)
}

// Skip marks an item as deliberately not done. Skipped items are never
// carried over.
func (e *Engine) Skip(ctx context.Context, learnerID, itemID string, meta ItemMeta) (domain.ProgressRecord, error) {
	rec, err := e.load(ctx, learnerID, itemID)
	if err != nil {
		return domain.ProgressRecord{}, err
	}
	if rec.EffectiveStatus().IsTerminal() {
		return rec, fmt.Errorf("skipping %s: %w", itemID, ErrTerminal)
	}

	now := e.clock.Now()
	patch := describe(meta)
	patch.Status = domain.Ptr(domain.ItemSkipped)
	patch.SkippedAt = &now
	patch.SkippedReason = domain.Ptr(meta.Reason)
	patch.Clear = append(patch.Clear, domain.FieldCompletedAt, domain.FieldCompletedInWeek)
	patch.OriginalWeek = firstWeek(meta.WeekNumber, meta.CurrentWeek)

	logger.Debug("item skipped", "learner", learnerID, "item", itemID, "reason", meta.Reason)
	return e.store.Upsert(ctx, learnerID, itemID, patch)
}

// CarryOver moves an unfinished item from fromWeek into toWeek. The carry
// that reaches the maximum archives the item instead; an archived item is
// reported unchanged.
func (e *Engine) CarryOver(ctx context.Context, learnerID, itemID string, fromWeek, toWeek int, meta ItemMeta) (CarryResult, error) {
	if fromWeek < 1 || toWeek <= fromWeek {
		return CarryResult{ItemID: itemID}, fmt.Errorf("%w: %d -> %d", ErrInvalidWeeks, fromWeek, toWeek)
	}
	rec, err := e.load(ctx, learnerID, itemID)
	if err != nil {
		return CarryResult{ItemID: itemID}, err
	}
	return e.carry(ctx, rec, fromWeek, toWeek, meta)
}

func (e *Engine) carry(ctx context.Context, rec domain.ProgressRecord, fromWeek, toWeek int, meta ItemMeta) (CarryResult, error) {
	res := CarryResult{ItemID: rec.ItemID, CarryCount: rec.CarryCount}
	switch rec.EffectiveStatus() {
	case domain.ItemArchived:
		res.Archived = true
		res.Unchanged = true
		return res, nil
	case domain.ItemCompleted, domain.ItemSkipped:
		return res, fmt.Errorf("carrying %s: %w", rec.ItemID, ErrNotCarryable)
	}

	now := e.clock.Now()
	count := rec.CarryCount + 1
	var patch domain.ProgressPatch
	if count >= e.maxCarries {
		patch = domain.ProgressPatch{
			Status:         domain.Ptr(domain.ItemArchived),
			ArchivedAt:     &now,
			ArchivedReason: domain.Ptr(domain.ArchiveReasonMaxCarry),
			OriginalWeek:   domain.Ptr(fromWeek),
			CarryCount:     domain.Ptr(count),
		}
	} else {
		patch = describe(meta)
		patch.Status = domain.Ptr(domain.ItemPending)
		patch.CarriedOver = domain.Ptr(true)
		patch.CarriedFromWeek = domain.Ptr(fromWeek)
		patch.CurrentWeek = domain.Ptr(toWeek)
		patch.OriginalWeek = domain.Ptr(fromWeek)
		patch.CarryCount = domain.Ptr(count)
	}

	if _, err := e.store.Upsert(ctx, rec.LearnerID, rec.ItemID, patch); err != nil {
		return res, err
	}

	res.CarryCount = count
	res.Archived = count >= e.maxCarries
	res.LastChance = !res.Archived && count == e.maxCarries-1
	if res.Archived {
		logger.Warn("item archived after max carry-overs", "learner", rec.LearnerID, "item", rec.ItemID, "carries", count)
	} else {
		logger.Debug("item carried over", "learner", rec.LearnerID, "item", rec.ItemID, "to_week", toWeek, "carries", count)
	}
	return res, nil
}

// CarryOverIncomplete carries every item of the previous week that is not
// completed, skipped or archived. It is not atomic: failures are collected
// and the remaining items are still attempted. Running it twice for the same
// boundary increments carry counts twice.
func (e *Engine) CarryOverIncomplete(ctx context.Context, learnerID string, items []domain.ActionItem, fromWeek, toWeek int) ([]CarryResult, error) {
	if learnerID == "" {
		return nil, ErrNoLearner
	}
	if fromWeek < 1 || toWeek <= fromWeek {
		return nil, fmt.Errorf("%w: %d -> %d", ErrInvalidWeeks, fromWeek, toWeek)
	}

	var results []CarryResult
	var errs []error
	for _, item := range items {
		rec, err := e.load(ctx, learnerID, item.ID)
		if err != nil {
			errs = append(errs, fmt.Errorf("item %s: %w", item.ID, err))
			continue
		}
		if rec.EffectiveStatus().Resolved() {
			continue
		}
		res, err := e.carry(ctx, rec, fromWeek, toWeek, MetaFor(item, nil))
		if err != nil {
			errs = append(errs, fmt.Errorf("item %s: %w", item.ID, err))
			continue
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}

func describe(meta ItemMeta) domain.ProgressPatch {
	var p domain.ProgressPatch
	if meta.Label != "" {
		p.Label = domain.Ptr(meta.Label)
	}
	if meta.Category != "" {
		p.Category = domain.Ptr(domain.NormalizeCategory(string(meta.Category)))
	}
	if meta.WeekNumber != nil {
		p.WeekNumber = domain.Ptr(*meta.WeekNumber)
	}
	return p
}

func firstWeek(weeks ...*int) *int {
	for _, w := range weeks {
		if w != nil {
			return domain.Ptr(*w)
		}
	}
	return nil
}
