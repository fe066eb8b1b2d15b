package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/ascent/internal/calendar"
	"github.com/alexanderramin/ascent/internal/catalog"
	"github.com/alexanderramin/ascent/internal/clock"
	"github.com/alexanderramin/ascent/internal/contract"
	"github.com/alexanderramin/ascent/internal/db"
	"github.com/alexanderramin/ascent/internal/domain"
	"github.com/alexanderramin/ascent/internal/progress"
	"github.com/alexanderramin/ascent/internal/repository"
)

type journeyService struct {
	loc        locator
	visits     repository.VisitRepo
	records    ProgressReader
	resolver   *catalog.Resolver
	cal        *calendar.Calendar
	uow        db.UnitOfWork
	clock      clock.Clock
	maxCarries int
	observer   UseCaseObserver
}

func NewJourneyService(
	learners repository.LearnerRepo,
	visits repository.VisitRepo,
	records ProgressReader,
	resolver *catalog.Resolver,
	cal *calendar.Calendar,
	uow db.UnitOfWork,
	clk clock.Clock,
	maxCarries int,
	observers ...UseCaseObserver,
) JourneyService {
	if clk == nil {
		clk = clock.System{}
	}
	if maxCarries < 1 {
		maxCarries = progress.DefaultMaxCarries
	}
	return &journeyService{
		loc:        locator{learners: learners, cal: cal},
		visits:     visits,
		records:    records,
		resolver:   resolver,
		cal:        cal,
		uow:        uow,
		clock:      clk,
		maxCarries: maxCarries,
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *journeyService) Today(ctx context.Context, req contract.TodayRequest) (view *contract.TodayView, err error) {
	startedAt := time.Now()
	fields := map[string]any{"learner_id": req.LearnerID}
	defer func() {
		s.observer.ObserveUseCase(ctx, finishUseCase("today", startedAt, fields, err))
	}()

	now := s.clock.Now()
	if req.Now != nil {
		now = *req.Now
	}
	learner, pos, err := s.loc.position(ctx, req.LearnerID, now)
	if err != nil {
		return nil, err
	}
	dateKey := calendar.DateKey(now, s.cal.Location())

	if pos.InPrep() {
		if req.RecordVisit {
			if _, err = s.visits.Record(ctx, learner.ID, dateKey); err != nil {
				return nil, err
			}
		}
		var visits int
		visits, err = s.visits.Count(ctx, learner.ID)
		if err != nil {
			return nil, err
		}
		pos = s.cal.WithJourney(pos, visits)
	}

	var items []domain.Completable
	items, err = s.resolver.Resolve(ctx, pos)
	if err != nil {
		return nil, fmt.Errorf("resolving items: %w", err)
	}
	var records []domain.ProgressRecord
	records, err = s.records.GetAll(ctx, learner.ID)
	if err != nil {
		return nil, err
	}
	src := newRecordSource(records, learner.Signals())

	view = &contract.TodayView{
		LearnerID:   learner.ID,
		GeneratedAt: now,
		DateKey:     dateKey,
		Position:    pos,
		Zones:       calendar.ZonesFor(pos, learner.PrepComplete()),
	}

	listed := make(map[string]bool, len(items))
	explicit := 0
	for _, c := range items {
		row := s.row(c.Item(), c.Completed(src), c.Auto(), src)
		listed[row.ID] = true
		if !row.Auto {
			explicit++
		}
		if row.Required {
			view.RequiredTotal++
			if row.Completed {
				view.RequiredDone++
			}
		}
		view.Items = append(view.Items, row)
	}

	if week := pos.WeekNumber; week > 0 {
		for _, r := range carriedInto(records, week) {
			if listed[r.ItemID] {
				continue
			}
			item := itemFromRecord(r)
			view.CarriedOver = append(view.CarriedOver, s.row(item, src.ItemStatus(item.ID) == domain.ItemCompleted, false, src))
		}
		view.WeekPercent = progress.WeekCompletionPercent(records, week, explicit+len(view.CarriedOver))
	}

	if pos.InPrep() {
		module := catalog.Onboarding(pos.JourneyDay)
		view.Onboarding = &module
	}

	fields["phase"] = string(pos.Phase.ID)
	fields["db_day"] = pos.DBDay
	fields["items"] = len(view.Items)
	return view, nil
}

func (s *journeyService) row(item domain.ActionItem, completed, auto bool, src recordSource) contract.TodayItem {
	row := contract.TodayItem{
		ID:         item.ID,
		Label:      item.Label,
		Category:   item.Category,
		Required:   item.Required,
		Auto:       auto,
		Completed:  completed,
		Status:     domain.ItemPending,
		WeekNumber: item.WeekNumber,
	}
	if auto {
		if completed {
			row.Status = domain.ItemCompleted
		}
		return row
	}
	if r, ok := src.record(item.ID); ok {
		row.Status = r.EffectiveStatus()
		row.CarriedOver = r.CarriedOver
		row.CarryCount = r.CarryCount
		row.LastChance = r.CarriedOver && !row.Status.Resolved() && r.CarryCount == s.maxCarries-1
		if row.Label == "" {
			row.Label = r.Label
		}
	}
	return row
}

// carriedInto returns every non-archived record carried into week,
// resolved or not, so completed carry-overs still count toward the week.
func carriedInto(records []domain.ProgressRecord, week int) []domain.ProgressRecord {
	var out []domain.ProgressRecord
	for _, r := range progress.WeekItems(records, week) {
		if r.CarriedOver && r.CurrentWeek != nil && *r.CurrentWeek == week && r.EffectiveStatus() != domain.ItemArchived {
			out = append(out, r)
		}
	}
	return out
}

func (s *journeyService) SetJourneyDay(ctx context.Context, learnerID string, day int) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"learner_id": learnerID, "day": day}
	defer func() {
		s.observer.ObserveUseCase(ctx, finishUseCase("set-journey-day", startedAt, fields, err))
	}()

	if day < 1 {
		return fmt.Errorf("journey day must be at least 1, got %d", day)
	}
	if _, err = s.loc.learner(ctx, learnerID); err != nil {
		return err
	}

	loc := s.cal.Location()
	today := calendar.StartOfDay(s.clock.Now(), loc)
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		visits := repository.NewSQLVisitRepo(tx)
		if err := visits.TruncateTo(ctx, learnerID, 0); err != nil {
			return err
		}
		// The log ends today so the next Today call does not add a visit.
		for i := 0; i < day; i++ {
			key := calendar.DateKey(today.AddDate(0, 0, -i), loc)
			if _, err := visits.Record(ctx, learnerID, key); err != nil {
				return err
			}
		}
		return nil
	})
}
