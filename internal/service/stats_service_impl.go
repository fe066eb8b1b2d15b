package service

import (
	"context"
	"time"

	"github.com/alexanderramin/ascent/internal/calendar"
	"github.com/alexanderramin/ascent/internal/clock"
	"github.com/alexanderramin/ascent/internal/contract"
	"github.com/alexanderramin/ascent/internal/domain"
	"github.com/alexanderramin/ascent/internal/logger"
	"github.com/alexanderramin/ascent/internal/repository"
	"github.com/alexanderramin/ascent/internal/stats"
	"github.com/alexanderramin/ascent/internal/store"
)

type statsService struct {
	feed     ProgressFeed
	loc      locator
	location *time.Location
	clock    clock.Clock
	observer UseCaseObserver
}

func NewStatsService(feed ProgressFeed, learners repository.LearnerRepo, cal *calendar.Calendar, clk clock.Clock, observers ...UseCaseObserver) StatsService {
	if clk == nil {
		clk = clock.System{}
	}
	return &statsService{
		feed:     feed,
		loc:      locator{learners: learners, cal: cal},
		location: cal.Location(),
		clock:    clk,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *statsService) Get(ctx context.Context, learnerID string) (view *contract.StatsView, err error) {
	startedAt := time.Now()
	fields := map[string]any{"learner_id": learnerID}
	defer func() {
		s.observer.ObserveUseCase(ctx, finishUseCase("stats", startedAt, fields, err))
	}()

	if _, err = s.loc.learner(ctx, learnerID); err != nil {
		return nil, err
	}
	var records []domain.ProgressRecord
	records, err = s.feed.GetAll(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	v := s.project(learnerID, "", records)
	fields["points"] = v.Stats.TotalPoints
	return &v, nil
}

func (s *statsService) Watch(ctx context.Context, learnerID string) (<-chan contract.StatsView, error) {
	if _, err := s.loc.learner(ctx, learnerID); err != nil {
		return nil, err
	}
	sub, err := s.feed.Subscribe(ctx, learnerID)
	if err != nil {
		return nil, err
	}

	out := make(chan contract.StatsView, 1)
	go func() {
		defer close(out)
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case snap, ok := <-sub.Events:
				if !ok {
					return
				}
				offerNewest(out, s.fromSnapshot(snap))
			}
		}
	}()
	return out, nil
}

func (s *statsService) fromSnapshot(snap store.Snapshot) contract.StatsView {
	v := s.project(snap.LearnerID, snap.Revision, snap.Records)
	logger.Debug("stats recomputed", "learner", snap.LearnerID, "revision", snap.Revision, "points", v.Stats.TotalPoints)
	return v
}

func (s *statsService) project(learnerID, revision string, records []domain.ProgressRecord) contract.StatsView {
	now := s.clock.Now()
	st := stats.Aggregate(records, stats.Options{Now: now, Location: s.location})
	return contract.StatsView{
		LearnerID:  learnerID,
		Revision:   revision,
		ComputedAt: now,
		Stats:      st,
		Badges:     stats.EarnedBadges(st),
	}
}

// offerNewest sends v, replacing an unread older value. out must have a
// buffer of one and a single sender.
func offerNewest(out chan contract.StatsView, v contract.StatsView) {
	select {
	case out <- v:
		return
	default:
	}
	select {
	case <-out:
	default:
	}
	out <- v
}
