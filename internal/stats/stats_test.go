package stats

import (
	"testing"
	"time"

	"github.com/alexanderramin/ascent/internal/domain"
	"github.com/alexanderramin/ascent/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ny      = mustLoad("America/New_York")
	testNow = time.Date(2026, 4, 10, 18, 0, 0, 0, ny)
)

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func opts() Options {
	return Options{Now: testNow, Location: ny}
}

func completedOn(id string, at time.Time, opts ...testutil.RecordOption) domain.ProgressRecord {
	opts = append([]testutil.RecordOption{testutil.WithCompletedAt(at, nil)}, opts...)
	return *testutil.NewTestRecord("l1", id, opts...)
}

func daysAgo(n, hour int) time.Time {
	y, m, d := testNow.Date()
	return time.Date(y, m, d-n, hour, 0, 0, 0, ny)
}

func TestAggregate_Empty(t *testing.T) {
	s := Aggregate(nil, opts())
	assert.Equal(t, Stats{}, s)
}

func TestAggregate_ToleratesMissingOptionalFields(t *testing.T) {
	records := []domain.ProgressRecord{
		{ItemID: "bare"},
		{ItemID: "done-no-time", Status: domain.ItemCompleted},
	}
	assert.NotPanics(t, func() {
		s := Aggregate(records, Options{})
		assert.Equal(t, 1, s.TotalCompleted)
		assert.Equal(t, 0, s.LongestStreak)
	})
}

func TestAggregate_Partitions(t *testing.T) {
	carriedDone := completedOn("c1", daysAgo(0, 15), testutil.WithCarry(1, 2), testutil.WithCategory(domain.CategoryCoaching))
	records := []domain.ProgressRecord{
		completedOn("a", daysAgo(0, 14)),
		completedOn("b", daysAgo(0, 16), testutil.WithCategory(domain.CategoryCommunity)),
		carriedDone,
		*testutil.NewTestRecord("l1", "s", testutil.WithSkippedAt(daysAgo(1, 9), "")),
		*testutil.NewTestRecord("l1", "p", testutil.WithCarry(1, 1)),
		*testutil.NewTestRecord("l1", "x", testutil.WithStatus(domain.ItemArchived)),
	}

	s := Aggregate(records, opts())
	assert.Equal(t, 3, s.TotalCompleted)
	assert.Equal(t, 1, s.TotalSkipped)
	assert.Equal(t, 2, s.TotalCarriedOver)
	assert.Equal(t, 1, s.CarriedOverCompleted)
	assert.Equal(t, 1, s.ContentCompleted)
	assert.Equal(t, 1, s.CommunityCompleted)
	assert.Equal(t, 1, s.CoachingCompleted)
	assert.Equal(t, 0, s.EarlyCompletions)
}

func TestStreak_ThreeConsecutiveDays(t *testing.T) {
	records := []domain.ProgressRecord{
		completedOn("a", daysAgo(0, 13)),
		completedOn("b", daysAgo(1, 13)),
		completedOn("c", daysAgo(2, 13)),
		completedOn("d", daysAgo(2, 20)),
	}
	s := Aggregate(records, opts())
	assert.Equal(t, 3, s.CurrentStreak)
	assert.Equal(t, 3, s.LongestStreak)
}

func TestStreak_GapBreaksRun(t *testing.T) {
	records := []domain.ProgressRecord{
		completedOn("a", daysAgo(0, 13)),
		completedOn("b", daysAgo(2, 13)),
		completedOn("c", daysAgo(3, 13)),
	}
	s := Aggregate(records, opts())
	assert.Equal(t, 1, s.CurrentStreak)
	assert.Equal(t, 2, s.LongestStreak)
}

func TestStreak_SurvivesUntilEndOfNextDay(t *testing.T) {
	records := []domain.ProgressRecord{
		completedOn("a", daysAgo(1, 13)),
		completedOn("b", daysAgo(2, 13)),
	}
	assert.Equal(t, 2, Aggregate(records, opts()).CurrentStreak)

	stale := []domain.ProgressRecord{
		completedOn("a", daysAgo(2, 13)),
		completedOn("b", daysAgo(3, 13)),
	}
	s := Aggregate(stale, opts())
	assert.Equal(t, 0, s.CurrentStreak)
	assert.Equal(t, 2, s.LongestStreak)
}

func TestStreak_CurrentIsRunAnchoredAtToday(t *testing.T) {
	records := []domain.ProgressRecord{
		completedOn("today", daysAgo(0, 13)),
		completedOn("old1", daysAgo(10, 13)),
		completedOn("old2", daysAgo(11, 13)),
		completedOn("old3", daysAgo(12, 13)),
		completedOn("old4", daysAgo(13, 13)),
	}
	s := Aggregate(records, opts())
	assert.Equal(t, 1, s.CurrentStreak)
	assert.Equal(t, 4, s.LongestStreak)
}

func TestStreak_UsesProgramTimezone(t *testing.T) {
	// 03:00 UTC on April 10 is still April 9 in New York.
	lateEvening := time.Date(2026, 4, 10, 3, 0, 0, 0, time.UTC)
	records := []domain.ProgressRecord{
		completedOn("a", lateEvening),
		completedOn("b", time.Date(2026, 4, 10, 14, 0, 0, 0, time.UTC)),
	}
	assert.Equal(t, 2, Aggregate(records, opts()).LongestStreak)
	assert.Equal(t, 1, Aggregate(records, Options{Now: testNow, Location: time.UTC}).LongestStreak)
}

func TestStreak_AcrossDSTChange(t *testing.T) {
	// New York springs forward on 2026-03-08; that day has 23 hours.
	records := []domain.ProgressRecord{
		completedOn("a", time.Date(2026, 3, 7, 12, 0, 0, 0, ny)),
		completedOn("b", time.Date(2026, 3, 8, 12, 0, 0, 0, ny)),
		completedOn("c", time.Date(2026, 3, 9, 12, 0, 0, 0, ny)),
	}
	s := Aggregate(records, Options{Now: time.Date(2026, 3, 9, 20, 0, 0, 0, ny), Location: ny})
	assert.Equal(t, 3, s.CurrentStreak)
}

func TestPerfectWeeks(t *testing.T) {
	week := func(id string, w int, done bool) domain.ProgressRecord {
		opts := []testutil.RecordOption{testutil.WithWeek(w)}
		if done {
			opts = append(opts, testutil.WithCompletedAt(daysAgo(0, 13), domain.Ptr(w)))
		}
		return *testutil.NewTestRecord("l1", id, opts...)
	}
	records := []domain.ProgressRecord{
		week("a", 1, true), week("b", 1, true),
		week("c", 2, true), week("d", 2, false),
		week("e", 3, true),
	}
	s := Aggregate(records, opts())
	assert.Equal(t, 2, s.PerfectWeeks)
	assert.Equal(t, s.PerfectWeeks, s.ConsecutivePerfectWeeks)

	records[1] = week("b", 1, false)
	assert.Equal(t, 1, Aggregate(records, opts()).PerfectWeeks, "one missing completion drops the week")
}

func TestPerfectWeeks_GroupsByOriginalWeek(t *testing.T) {
	carried := *testutil.NewTestRecord("l1", "carried", testutil.WithWeek(2), testutil.WithCarry(1, 2))
	carried.WeekNumber = domain.Ptr(3)
	carried.CurrentWeek = domain.Ptr(3)
	records := []domain.ProgressRecord{
		completedOn("w3", daysAgo(0, 13), testutil.WithWeek(3)),
		carried,
	}
	s := Aggregate(records, opts())
	assert.Equal(t, 1, s.PerfectWeeks, "week 3 is perfect; the carried item belongs to week 2")
}

func TestPerfectWeeks_UnscheduledRecordsFormOneGroup(t *testing.T) {
	records := []domain.ProgressRecord{
		completedOn("prep-a", daysAgo(2, 13)),
		completedOn("prep-b", daysAgo(1, 13)),
	}
	s := Aggregate(records, opts())
	assert.Equal(t, 1, s.PerfectWeeks, "all prep items done counts as one perfect week")
	assert.Contains(t, s.Badges, "week_champion")

	records = append(records, *testutil.NewTestRecord("l1", "prep-c"))
	s = Aggregate(records, opts())
	assert.Zero(t, s.PerfectWeeks)
	assert.NotContains(t, s.Badges, "week_champion")

	records = append(records, completedOn("w1", daysAgo(0, 13), testutil.WithWeek(1)))
	assert.Equal(t, 1, Aggregate(records, opts()).PerfectWeeks, "week 1 is counted apart from the prep group")
}

func TestPoints(t *testing.T) {
	records := []domain.ProgressRecord{
		completedOn("on-time-afternoon", daysAgo(0, 15)),                            // 10 + 5
		completedOn("on-time-morning", daysAgo(1, 9)),                               // 10 + 5 + 3
		completedOn("carried-afternoon", daysAgo(5, 15), testutil.WithCarry(2, 1)), // 10 + 15
		*testutil.NewTestRecord("l1", "pending"),
	}
	s := Aggregate(records, opts())
	require.Equal(t, 2, s.CurrentStreak)
	assert.Equal(t, 15+18+25+2*PointsPerStreakDay, s.TotalPoints)
	assert.Equal(t, 1, s.EarlyCompletions)
}

func TestBadges(t *testing.T) {
	var records []domain.ProgressRecord
	for i := range 7 {
		records = append(records, completedOn(
			"content-"+string(rune('a'+i)), daysAgo(i, 8), testutil.WithWeek(1)))
	}
	for i := range 3 {
		records = append(records, completedOn(
			"content-extra-"+string(rune('a'+i)), daysAgo(i, 17), testutil.WithWeek(1)))
	}
	records = append(records, completedOn("comeback", daysAgo(0, 19), testutil.WithCarry(1, 1), testutil.WithWeek(1)))

	s := Aggregate(records, opts())
	assert.Equal(t, []string{
		"first_action", "week_champion", "streak_3", "streak_7",
		"early_bird", "content_master", "comeback_kid",
	}, s.Badges)

	earned := EarnedBadges(s)
	require.Len(t, earned, len(s.Badges))
	assert.Equal(t, "Unstoppable", earned[3].Name)
}

func TestBadges_RecomputedNotAccumulated(t *testing.T) {
	records := []domain.ProgressRecord{completedOn("a", daysAgo(0, 13))}
	first := Aggregate(records, opts())
	second := Aggregate(records, opts())
	assert.Equal(t, first.Badges, second.Badges)
	assert.Equal(t, []string{"first_action", "week_champion"}, first.Badges)
}

func TestPerfectMonthNeedsFourPerfectWeeks(t *testing.T) {
	var records []domain.ProgressRecord
	for w := 1; w <= 4; w++ {
		records = append(records, completedOn("w"+string(rune('0'+w)), daysAgo(30-w*7, 13), testutil.WithWeek(w)))
	}
	s := Aggregate(records, opts())
	assert.Equal(t, 4, s.ConsecutivePerfectWeeks)
	assert.Contains(t, s.Badges, "perfect_month")
}

func TestBadgeByID(t *testing.T) {
	b, ok := BadgeByID("comeback_kid")
	require.True(t, ok)
	assert.Equal(t, "Comeback Kid", b.Name)
	_, ok = BadgeByID("nope")
	assert.False(t, ok)
}
