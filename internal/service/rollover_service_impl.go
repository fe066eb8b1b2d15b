package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/ascent/internal/calendar"
	"github.com/alexanderramin/ascent/internal/catalog"
	"github.com/alexanderramin/ascent/internal/clock"
	"github.com/alexanderramin/ascent/internal/contract"
	"github.com/alexanderramin/ascent/internal/domain"
	"github.com/alexanderramin/ascent/internal/logger"
	"github.com/alexanderramin/ascent/internal/progress"
	"github.com/alexanderramin/ascent/internal/repository"
)

type rolloverService struct {
	engine    *progress.Engine
	records   ProgressReader
	loc       locator
	rollovers repository.RolloverRepo
	resolver  *catalog.Resolver
	clock     clock.Clock
	observer  UseCaseObserver
}

func NewRolloverService(
	engine *progress.Engine,
	records ProgressReader,
	learners repository.LearnerRepo,
	rollovers repository.RolloverRepo,
	resolver *catalog.Resolver,
	cal *calendar.Calendar,
	clk clock.Clock,
	observers ...UseCaseObserver,
) RolloverService {
	if clk == nil {
		clk = clock.System{}
	}
	return &rolloverService{
		engine:    engine,
		records:   records,
		loc:       locator{learners: learners, cal: cal},
		rollovers: rollovers,
		resolver:  resolver,
		clock:     clk,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *rolloverService) Due(ctx context.Context, learnerID string) (contract.RolloverRequest, bool, error) {
	_, pos, err := s.loc.position(ctx, learnerID, s.clock.Now())
	if err != nil {
		return contract.RolloverRequest{}, false, err
	}
	if pos.WeekNumber < 2 {
		return contract.RolloverRequest{}, false, nil
	}
	return contract.NewRolloverRequest(learnerID, pos.WeekNumber-1), true, nil
}

func (s *rolloverService) Preview(ctx context.Context, req contract.RolloverRequest) (*contract.RolloverPreview, error) {
	if err := validateBoundary(req); err != nil {
		return nil, err
	}
	if _, err := s.loc.learner(ctx, req.LearnerID); err != nil {
		return nil, err
	}
	run, err := s.rollovers.Get(ctx, req.LearnerID, req.FromWeek, req.ToWeek)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	candidates, src, err := s.candidates(ctx, req)
	if err != nil {
		return nil, err
	}

	maxCarries := s.engine.MaxCarries()
	preview := &contract.RolloverPreview{
		LearnerID:  req.LearnerID,
		FromWeek:   req.FromWeek,
		ToWeek:     req.ToWeek,
		AlreadyRun: run != nil && run.Failed == 0,
	}
	for _, item := range candidates {
		next := carryCount(src, item.ID) + 1
		row := contract.RolloverItem{
			ItemID:     item.ID,
			Label:      item.Label,
			CarryCount: next,
			Archived:   next >= maxCarries,
			LastChance: next == maxCarries-1,
		}
		if row.Archived {
			preview.WouldArchive++
		}
		preview.Candidates = append(preview.Candidates, row)
	}
	return preview, nil
}

// Rollover carries the unresolved items of FromWeek into ToWeek. The
// rollover_runs ledger guards the boundary: a clean earlier run rejects the
// request, while a run with failures is retried for the items it missed.
// On partial failure the result is returned together with the joined error.
func (s *rolloverService) Rollover(ctx context.Context, req contract.RolloverRequest) (result *contract.RolloverResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"learner_id": req.LearnerID, "from_week": req.FromWeek, "to_week": req.ToWeek}
	defer func() {
		s.observer.ObserveUseCase(ctx, finishUseCase("rollover", startedAt, fields, err))
	}()

	if err = validateBoundary(req); err != nil {
		return nil, err
	}
	if _, err = s.loc.learner(ctx, req.LearnerID); err != nil {
		return nil, err
	}

	run := &domain.RolloverRun{
		LearnerID: req.LearnerID,
		FromWeek:  req.FromWeek,
		ToWeek:    req.ToWeek,
		RanAt:     s.clock.Now().UTC(),
	}
	var claimed bool
	claimed, err = s.rollovers.Claim(ctx, run)
	if err != nil {
		return nil, err
	}
	result = &contract.RolloverResult{
		LearnerID: req.LearnerID,
		FromWeek:  req.FromWeek,
		ToWeek:    req.ToWeek,
		RanAt:     run.RanAt,
	}
	if !claimed {
		var prev *domain.RolloverRun
		prev, err = s.rollovers.Get(ctx, req.LearnerID, req.FromWeek, req.ToWeek)
		if err != nil {
			return nil, err
		}
		if prev.Failed == 0 {
			err = fmt.Errorf("%w: %s week %d -> %d", ErrAlreadyRolledOver, req.LearnerID, req.FromWeek, req.ToWeek)
			return nil, err
		}
		result.Retry = true
		result.Carried = prev.Carried
		result.Archived = prev.Archived
		logger.Info("retrying rollover", "learner", req.LearnerID, "from", req.FromWeek, "to", req.ToWeek, "failed", prev.Failed)
	}

	var items []domain.ActionItem
	items, _, err = s.candidates(ctx, req)
	if err != nil {
		return nil, err
	}

	results, batchErr := s.engine.CarryOverIncomplete(ctx, req.LearnerID, items, req.FromWeek, req.ToWeek)
	labels := make(map[string]string, len(items))
	for _, item := range items {
		labels[item.ID] = item.Label
	}
	for _, r := range results {
		if r.Unchanged {
			continue
		}
		if r.Archived {
			result.Archived++
		} else {
			result.Carried++
		}
		result.Items = append(result.Items, contract.RolloverItem{
			ItemID:     r.ItemID,
			Label:      labels[r.ItemID],
			CarryCount: r.CarryCount,
			Archived:   r.Archived,
			LastChance: r.LastChance,
		})
	}
	result.Failed = countErrors(batchErr)

	run.Carried = result.Carried
	run.Archived = result.Archived
	run.Failed = result.Failed
	if ferr := s.rollovers.Finish(ctx, run); ferr != nil {
		batchErr = errors.Join(batchErr, ferr)
	}

	fields["carried"] = result.Carried
	fields["archived"] = result.Archived
	fields["failed"] = result.Failed
	if batchErr != nil {
		err = fmt.Errorf("rollover %s week %d -> %d: %w", req.LearnerID, req.FromWeek, req.ToWeek, batchErr)
		return result, err
	}
	return result, nil
}

// candidates returns the unresolved items of FromWeek: the week's catalog
// items plus anything carried into it earlier. Items already carried across
// this boundary are left out so a retry never counts them twice.
func (s *rolloverService) candidates(ctx context.Context, req contract.RolloverRequest) ([]domain.ActionItem, recordSource, error) {
	scheduled, err := s.resolver.ResolveWeek(ctx, req.FromWeek)
	if err != nil {
		return nil, recordSource{}, fmt.Errorf("resolving week %d: %w", req.FromWeek, err)
	}
	records, err := s.records.GetAll(ctx, req.LearnerID)
	if err != nil {
		return nil, recordSource{}, err
	}
	src := newRecordSource(records, nil)

	seen := make(map[string]bool, len(scheduled))
	var out []domain.ActionItem
	add := func(item domain.ActionItem) {
		if seen[item.ID] {
			return
		}
		seen[item.ID] = true
		if r, ok := src.record(item.ID); ok {
			if r.EffectiveStatus().Resolved() || carriedAcross(r, req) {
				return
			}
		}
		out = append(out, item)
	}
	for _, item := range scheduled {
		add(item)
	}
	for _, r := range progress.CarriedOverItems(records, req.FromWeek) {
		add(itemFromRecord(r))
	}
	return out, src, nil
}

func carryCount(src recordSource, itemID string) int {
	r, ok := src.record(itemID)
	if !ok {
		return 0
	}
	return r.CarryCount
}

func carriedAcross(r domain.ProgressRecord, req contract.RolloverRequest) bool {
	return r.CarriedOver &&
		r.CarriedFromWeek != nil && *r.CarriedFromWeek == req.FromWeek &&
		r.CurrentWeek != nil && *r.CurrentWeek == req.ToWeek
}

func validateBoundary(req contract.RolloverRequest) error {
	if req.LearnerID == "" {
		return progress.ErrNoLearner
	}
	if req.FromWeek < 1 || req.ToWeek <= req.FromWeek {
		return fmt.Errorf("%w: %d -> %d", progress.ErrInvalidWeeks, req.FromWeek, req.ToWeek)
	}
	return nil
}
