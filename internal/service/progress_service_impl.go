package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/ascent/internal/calendar"
	"github.com/alexanderramin/ascent/internal/catalog"
	"github.com/alexanderramin/ascent/internal/clock"
	"github.com/alexanderramin/ascent/internal/domain"
	"github.com/alexanderramin/ascent/internal/progress"
	"github.com/alexanderramin/ascent/internal/repository"
)

type progressService struct {
	engine   *progress.Engine
	records  ProgressReader
	loc      locator
	resolver *catalog.Resolver
	clock    clock.Clock
	observer UseCaseObserver
}

func NewProgressService(
	engine *progress.Engine,
	records ProgressReader,
	learners repository.LearnerRepo,
	resolver *catalog.Resolver,
	cal *calendar.Calendar,
	clk clock.Clock,
	observers ...UseCaseObserver,
) ProgressService {
	if clk == nil {
		clk = clock.System{}
	}
	return &progressService{
		engine:   engine,
		records:  records,
		loc:      locator{learners: learners, cal: cal},
		resolver: resolver,
		clock:    clk,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *progressService) Complete(ctx context.Context, learnerID, itemID string) (rec domain.ProgressRecord, err error) {
	startedAt := time.Now()
	fields := map[string]any{"learner_id": learnerID, "item_id": itemID}
	defer func() {
		s.observer.ObserveUseCase(ctx, finishUseCase("complete", startedAt, fields, err))
	}()

	var meta progress.ItemMeta
	meta, err = s.meta(ctx, learnerID, itemID)
	if err != nil {
		return domain.ProgressRecord{}, err
	}
	return s.engine.Complete(ctx, learnerID, itemID, meta)
}

func (s *progressService) Uncomplete(ctx context.Context, learnerID, itemID string) (rec domain.ProgressRecord, err error) {
	startedAt := time.Now()
	fields := map[string]any{"learner_id": learnerID, "item_id": itemID}
	defer func() {
		s.observer.ObserveUseCase(ctx, finishUseCase("uncomplete", startedAt, fields, err))
	}()

	if _, err = s.loc.learner(ctx, learnerID); err != nil {
		return domain.ProgressRecord{}, err
	}
	return s.engine.Uncomplete(ctx, learnerID, itemID)
}

func (s *progressService) Skip(ctx context.Context, learnerID, itemID, reason string) (rec domain.ProgressRecord, err error) {
	startedAt := time.Now()
	fields := map[string]any{"learner_id": learnerID, "item_id": itemID}
	defer func() {
		s.observer.ObserveUseCase(ctx, finishUseCase("skip", startedAt, fields, err))
	}()

	var meta progress.ItemMeta
	meta, err = s.meta(ctx, learnerID, itemID)
	if err != nil {
		return domain.ProgressRecord{}, err
	}
	meta.Reason = reason
	return s.engine.Skip(ctx, learnerID, itemID, meta)
}

func (s *progressService) CarryOver(ctx context.Context, learnerID, itemID string, fromWeek, toWeek int) (res progress.CarryResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"learner_id": learnerID, "item_id": itemID, "from_week": fromWeek, "to_week": toWeek}
	defer func() {
		s.observer.ObserveUseCase(ctx, finishUseCase("carry-over", startedAt, fields, err))
	}()

	var meta progress.ItemMeta
	meta, err = s.meta(ctx, learnerID, itemID)
	if err != nil {
		return progress.CarryResult{}, err
	}
	meta.CurrentWeek = nil
	res, err = s.engine.CarryOver(ctx, learnerID, itemID, fromWeek, toWeek, meta)
	fields["archived"] = res.Archived
	return res, err
}

func (s *progressService) List(ctx context.Context, learnerID string) ([]domain.ProgressRecord, error) {
	if _, err := s.loc.learner(ctx, learnerID); err != nil {
		return nil, err
	}
	return s.records.GetAll(ctx, learnerID)
}

// meta describes itemID from the learner's current action list. Items no
// longer listed, such as carry-overs from earlier weeks, keep their stored
// description and only get the current week.
func (s *progressService) meta(ctx context.Context, learnerID, itemID string) (progress.ItemMeta, error) {
	_, pos, err := s.loc.position(ctx, learnerID, s.clock.Now())
	if err != nil {
		return progress.ItemMeta{}, err
	}
	week := currentWeek(pos)
	items, err := s.resolver.Resolve(ctx, pos)
	if err != nil {
		return progress.ItemMeta{}, fmt.Errorf("resolving items: %w", err)
	}
	for _, c := range items {
		item := c.Item()
		if item.ID != itemID {
			continue
		}
		if c.Auto() {
			return progress.ItemMeta{}, fmt.Errorf("%w: %s completes from its signal", progress.ErrInvalidItemID, itemID)
		}
		return progress.MetaFor(item, week), nil
	}
	return progress.ItemMeta{CurrentWeek: week}, nil
}
