package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/ascent/internal/calendar"
	"github.com/alexanderramin/ascent/internal/catalog"
	"github.com/alexanderramin/ascent/internal/clock"
	"github.com/alexanderramin/ascent/internal/db"
	"github.com/alexanderramin/ascent/internal/domain"
	"github.com/alexanderramin/ascent/internal/progress"
	"github.com/alexanderramin/ascent/internal/repository"
	"github.com/alexanderramin/ascent/internal/store"
	"github.com/alexanderramin/ascent/internal/testutil"
	"github.com/stretchr/testify/require"
)

// programStart is a Monday; DB day 15 (week 1, day 1) falls on it.
var programStart = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

const (
	itemReadOne   = "daily-w1d1-read-chapter-one-0"
	itemKickoff   = "daily-w1d1-join-the-kickoff-1"
	itemBookCoach = "daily-w1d3-book-a-coach-0"
	itemReadTwo   = "daily-w2d1-read-chapter-two-0"
	itemWelcome   = "daily-prep-1-watch-welcome-video-1"
)

func testCatalog() *catalog.MemorySource {
	return catalog.NewMemorySource(
		domain.CatalogDay{ID: "prep-1", DBDay: 1, Actions: []domain.CatalogAction{
			{Label: "Leader profile", HandlerType: domain.HandlerLeaderProfile},
			{Label: "Watch welcome video"},
		}},
		domain.CatalogDay{ID: "w1d1", DBDay: 15, Actions: []domain.CatalogAction{
			{Label: "Read chapter one", Category: "content"},
			{Label: "Join the kickoff", Category: "community"},
		}},
		domain.CatalogDay{ID: "w1d3", DBDay: 17, Actions: []domain.CatalogAction{
			{Label: "Book a coach", Category: "coaching"},
		}},
		domain.CatalogDay{ID: "w2d1", DBDay: 22, Actions: []domain.CatalogAction{
			{Label: "Read chapter two"},
		}},
	)
}

type harness struct {
	t         *testing.T
	db        *db.Database
	clock     *clock.Fixed
	cal       *calendar.Calendar
	learners  repository.LearnerRepo
	visits    repository.VisitRepo
	rollovers repository.RolloverRepo
	store     *store.Store
	engine    *progress.Engine
	resolver  *catalog.Resolver
	observer  *recordingObserver

	enrollment EnrollmentService
	journey    JourneyService
	progress   ProgressService
	rollover   RolloverService
	stats      StatsService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	database := testutil.NewTestDB(t)
	h := &harness{
		t:         t,
		db:        database,
		clock:     clock.NewFixed(programStart.Add(9 * time.Hour)),
		cal:       calendar.MustDefault(time.UTC),
		learners:  repository.NewSQLLearnerRepo(database.Conn()),
		visits:    repository.NewSQLVisitRepo(database.Conn()),
		rollovers: repository.NewSQLRolloverRepo(database.Conn()),
		observer:  &recordingObserver{},
	}
	h.store = store.New(database.UnitOfWork(), database.Conn(), store.WithClock(h.clock))
	h.resolver = catalog.NewResolver(testCatalog(), h.cal)
	h.wire(h.store)
	return h
}

// wire builds the engine and services over writes, which may wrap the store.
func (h *harness) wire(writes progress.Store) {
	h.engine = progress.NewEngine(writes, progress.WithClock(h.clock))
	h.enrollment = NewEnrollmentService(h.learners, h.clock, h.observer)
	h.journey = NewJourneyService(h.learners, h.visits, h.store, h.resolver, h.cal, h.db.UnitOfWork(), h.clock, h.engine.MaxCarries(), h.observer)
	h.progress = NewProgressService(h.engine, h.store, h.learners, h.resolver, h.cal, h.clock, h.observer)
	h.rollover = NewRolloverService(h.engine, h.store, h.learners, h.rollovers, h.resolver, h.cal, h.clock, h.observer)
	h.stats = NewStatsService(h.store, h.learners, h.cal, h.clock, h.observer)
}

// at moves the clock to 09:00 on the given day offset from programStart.
func (h *harness) at(daysFromStart int) {
	h.clock.Set(programStart.AddDate(0, 0, daysFromStart).Add(9 * time.Hour))
}

func (h *harness) enroll(opts ...testutil.LearnerOption) *domain.Learner {
	h.t.Helper()
	opts = append([]testutil.LearnerOption{testutil.WithProgramStart(programStart)}, opts...)
	l := testutil.NewTestLearner("Ada", opts...)
	require.NoError(h.t, h.learners.Create(context.Background(), l))
	return l
}

func (h *harness) record(learnerID, itemID string) domain.ProgressRecord {
	h.t.Helper()
	rec, err := h.store.Get(context.Background(), learnerID, itemID)
	require.NoError(h.t, err)
	return rec
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) last(name string) (UseCaseEvent, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := len(o.events) - 1; i >= 0; i-- {
		if o.events[i].Name == name {
			return o.events[i], true
		}
	}
	return UseCaseEvent{}, false
}
