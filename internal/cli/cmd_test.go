package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/ascent/internal/calendar"
	"github.com/alexanderramin/ascent/internal/catalog"
	"github.com/alexanderramin/ascent/internal/clock"
	"github.com/alexanderramin/ascent/internal/contract"
	"github.com/alexanderramin/ascent/internal/domain"
	"github.com/alexanderramin/ascent/internal/progress"
	"github.com/alexanderramin/ascent/internal/repository"
	"github.com/alexanderramin/ascent/internal/service"
	"github.com/alexanderramin/ascent/internal/store"
	"github.com/alexanderramin/ascent/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// programStart is a Monday; week 1 day 1 falls on it.
var programStart = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

const (
	itemReadOne = "daily-w1d1-read-chapter-one-0"
	itemKickoff = "daily-w1d1-join-the-kickoff-1"
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
		domain.CatalogDay{ID: "w2d1", DBDay: 22, Actions: []domain.CatalogAction{
			{Label: "Read chapter two"},
		}},
	)
}

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
// The clock starts at 09:00 on programStart.
func testApp(t *testing.T) (*App, *clock.Fixed) {
	t.Helper()
	database := testutil.NewTestDB(t)
	clk := clock.NewFixed(programStart.Add(9 * time.Hour))
	cal := calendar.MustDefault(time.UTC)

	learners := repository.NewSQLLearnerRepo(database.Conn())
	visits := repository.NewSQLVisitRepo(database.Conn())
	rollovers := repository.NewSQLRolloverRepo(database.Conn())
	records := store.New(database.UnitOfWork(), database.Conn(), store.WithClock(clk))
	engine := progress.NewEngine(records, progress.WithClock(clk))
	resolver := catalog.NewResolver(testCatalog(), cal)

	return &App{
		Enrollment: service.NewEnrollmentService(learners, clk),
		Journey:    service.NewJourneyService(learners, visits, records, resolver, cal, database.UnitOfWork(), clk, engine.MaxCarries()),
		Progress:   service.NewProgressService(engine, records, learners, resolver, cal, clk),
		Rollover:   service.NewRolloverService(engine, records, learners, rollovers, resolver, cal, clk),
		Stats:      service.NewStatsService(records, learners, cal, clk),
		Feed:       records,
		Clock:      clk,
		Location:   time.UTC,
	}, clk
}

// enroll creates a learner through the service and returns its ID.
func enroll(t *testing.T, app *App, name string) string {
	t.Helper()
	start := programStart
	l, err := app.Enrollment.Enroll(context.Background(), contract.EnrollRequest{Name: name, ProgramStart: &start})
	require.NoError(t, err)
	return l.ID
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// atDay moves the clock to 09:00 on the given day offset from programStart.
func atDay(clk *clock.Fixed, days int) {
	clk.Set(programStart.AddDate(0, 0, days).Add(9 * time.Hour))
}

// --- learner ---

func TestLearnerCmd_EnrollAndList(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "learner", "enroll", "--name", "Ada", "--start", "2026-03-02")
	require.NoError(t, err)
	assert.Contains(t, out, "Enrolled Ada")

	out, err = executeCmd(t, app, "learner", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Ada")
	assert.Contains(t, out, "Mar 2, 2026")
}

func TestLearnerCmd_EnrollRequiresName(t *testing.T) {
	app, _ := testApp(t)
	_, err := executeCmd(t, app, "learner", "enroll")
	require.Error(t, err)
}

func TestLearnerCmd_EnrollRejectsBadDate(t *testing.T) {
	app, _ := testApp(t)
	_, err := executeCmd(t, app, "learner", "enroll", "--name", "Ada", "--start", "03/02/2026")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
}

func TestLearnerCmd_ResetStartAndSignals(t *testing.T) {
	app, _ := testApp(t)
	id := enroll(t, app, "Ada")

	out, err := executeCmd(t, app, "learner", "reset-start", "--start", "2026-03-09")
	require.NoError(t, err)
	assert.Contains(t, out, "2026-03-09")

	l, err := app.Enrollment.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-09", l.ProgramStart.Format("2006-01-02"))

	_, err = executeCmd(t, app, "learner", "signals")
	require.Error(t, err, "no flags means nothing to update")

	_, err = executeCmd(t, app, "learner", "signals", "--profile")
	require.NoError(t, err)
	l, err = app.Enrollment.Get(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, l.ProfileComplete)
	assert.False(t, l.AssessmentComplete)
}

// --- learner resolution ---

func TestResolveLearner_NoLearners(t *testing.T) {
	app, _ := testApp(t)
	_, err := executeCmd(t, app, "today")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no learners enrolled")
}

func TestResolveLearner_AmbiguousWithoutFlag(t *testing.T) {
	app, _ := testApp(t)
	id := enroll(t, app, "Ada")
	enroll(t, app, "Bo")

	_, err := executeCmd(t, app, "today")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "choose one")

	out, err := executeCmd(t, app, "today", "--learner", id[:8])
	require.NoError(t, err)
	assert.Contains(t, out, itemReadOne)
}

func TestResolveLearner_UnknownFlag(t *testing.T) {
	app, _ := testApp(t)
	enroll(t, app, "Ada")

	_, err := executeCmd(t, app, "today", "-l", "zzzz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

// --- today ---

func TestTodayCmd_ShowsWeekOne(t *testing.T) {
	app, _ := testApp(t)
	enroll(t, app, "Ada")

	out, err := executeCmd(t, app, "today")
	require.NoError(t, err)
	assert.Contains(t, out, "TODAY · 2026-03-02")
	assert.Contains(t, out, "Week 1")
	assert.Contains(t, out, itemReadOne)
	assert.Contains(t, out, itemKickoff)
	assert.Contains(t, out, "0/2 required")
}

func TestTodayCmd_NotEnrolled(t *testing.T) {
	app, _ := testApp(t)
	_, err := app.Enrollment.Enroll(context.Background(), contract.EnrollRequest{Name: "Ada"})
	require.NoError(t, err)

	_, err = executeCmd(t, app, "today")
	require.Error(t, err)
	assert.ErrorIs(t, err, calendar.ErrNotEnrolled)
}

// --- item ---

func TestItemCmd_CompleteUncompleteList(t *testing.T) {
	app, _ := testApp(t)
	enroll(t, app, "Ada")

	out, err := executeCmd(t, app, "item", "complete", itemReadOne)
	require.NoError(t, err)
	assert.Contains(t, out, "Done")

	out, err = executeCmd(t, app, "today")
	require.NoError(t, err)
	assert.Contains(t, out, "1/2 required")

	out, err = executeCmd(t, app, "item", "list")
	require.NoError(t, err)
	assert.Contains(t, out, itemReadOne)

	out, err = executeCmd(t, app, "item", "uncomplete", itemReadOne)
	require.NoError(t, err)
	assert.Contains(t, out, "Pending")
}

func TestItemCmd_Skip(t *testing.T) {
	app, _ := testApp(t)
	id := enroll(t, app, "Ada")

	out, err := executeCmd(t, app, "item", "skip", itemKickoff, "--reason", "travelling")
	require.NoError(t, err)
	assert.Contains(t, out, "Skipped")

	records, err := app.Progress.List(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "travelling", records[0].SkippedReason)
}

func TestItemCmd_CarryRequiresFrom(t *testing.T) {
	app, _ := testApp(t)
	enroll(t, app, "Ada")

	_, err := executeCmd(t, app, "item", "carry", itemReadOne)
	require.Error(t, err)

	out, err := executeCmd(t, app, "item", "carry", itemReadOne, "--from", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "into week 2")
}

// --- rollover ---

func TestRolloverCmd_CarriesAndRejectsRepeat(t *testing.T) {
	app, clk := testApp(t)
	enroll(t, app, "Ada")
	atDay(clk, 7)

	out, err := executeCmd(t, app, "rollover")
	require.NoError(t, err)
	assert.Contains(t, out, "ROLLOVER WEEK 1 → 2")
	assert.Contains(t, out, "2 carried")

	out, err = executeCmd(t, app, "rollover")
	require.NoError(t, err)
	assert.Contains(t, out, "Already rolled over.")
}

func TestRolloverCmd_NothingDueInWeekOne(t *testing.T) {
	app, _ := testApp(t)
	enroll(t, app, "Ada")

	out, err := executeCmd(t, app, "rollover")
	require.NoError(t, err)
	assert.Contains(t, out, "No rollover due.")
}

func TestRolloverCmd_DryRunWritesNothing(t *testing.T) {
	app, clk := testApp(t)
	id := enroll(t, app, "Ada")
	atDay(clk, 7)

	out, err := executeCmd(t, app, "rollover", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, itemReadOne)

	records, err := app.Progress.List(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, records)
}

// carriedTwice leaves itemReadOne carried into week 3 with two carries, so
// the next rollover archives it.
func carriedTwice(t *testing.T, app *App, clk *clock.Fixed) {
	t.Helper()
	_, err := executeCmd(t, app, "item", "carry", itemReadOne, "--from", "1", "--to", "2")
	require.NoError(t, err)
	_, err = executeCmd(t, app, "item", "carry", itemReadOne, "--from", "2", "--to", "3")
	require.NoError(t, err)
	atDay(clk, 21)
}

func TestRolloverCmd_ArchiveNeedsConfirmation(t *testing.T) {
	app, clk := testApp(t)
	id := enroll(t, app, "Ada")
	carriedTwice(t, app, clk)

	_, err := executeCmd(t, app, "rollover", "--week", "3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")

	var asked string
	app.IsInteractive = func() bool { return true }
	app.Confirm = func(title string) (bool, error) {
		asked = title
		return false, nil
	}
	out, err := executeCmd(t, app, "rollover", "--week", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled.")
	assert.Equal(t, "Archive 1 item(s)?", asked)

	out, err = executeCmd(t, app, "rollover", "--week", "3", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "1 archived")

	records, err := app.Progress.List(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.ItemArchived, records[0].Status)
}

// --- stats / journey ---

func TestStatsCmd(t *testing.T) {
	app, _ := testApp(t)
	enroll(t, app, "Ada")

	_, err := executeCmd(t, app, "item", "complete", itemReadOne)
	require.NoError(t, err)

	out, err := executeCmd(t, app, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "STATS")
	assert.Contains(t, out, "First Steps")
	assert.Contains(t, out, "1 day")
}

func TestJourneyCmd_SetDay(t *testing.T) {
	app, clk := testApp(t)
	enroll(t, app, "Ada")
	atDay(clk, -10)

	out, err := executeCmd(t, app, "journey", "set-day", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Journey day set to 3")

	out, err = executeCmd(t, app, "today", "--peek")
	require.NoError(t, err)
	assert.Contains(t, out, "journey day 3")

	_, err = executeCmd(t, app, "journey", "set-day", "zero")
	require.Error(t, err)
}

func TestWatchCmd_RequiresFeed(t *testing.T) {
	app, _ := testApp(t)
	enroll(t, app, "Ada")
	app.Feed = nil

	_, err := executeCmd(t, app, "watch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
