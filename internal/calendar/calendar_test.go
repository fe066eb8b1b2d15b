package calendar

import (
	"testing"
	"time"

	"github.com/alexanderramin/ascent/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCalendar(t *testing.T) *Calendar {
	t.Helper()
	loc, err := LoadLocation("America/New_York")
	require.NoError(t, err)
	return MustDefault(loc)
}

func startAt(t *testing.T, c *Calendar, key string) *time.Time {
	t.Helper()
	start, err := ParseDateKey(key, c.Location())
	require.NoError(t, err)
	return &start
}

func TestResolve_NotEnrolled(t *testing.T) {
	c := newTestCalendar(t)
	_, err := c.Resolve(nil, time.Now())
	assert.ErrorIs(t, err, ErrNotEnrolled)

	zero := time.Time{}
	_, err = c.Resolve(&zero, time.Now())
	assert.ErrorIs(t, err, ErrNotEnrolled)
}

func TestResolve_LongBeforeStartClampsToPrepDayOne(t *testing.T) {
	c := newTestCalendar(t)
	start := startAt(t, c, "2025-09-01")

	for days := 15; days <= 60; days++ {
		now := start.AddDate(0, 0, -days).Add(10 * time.Hour)
		pos, err := c.Resolve(start, now)
		require.NoError(t, err)
		assert.Equal(t, domain.PhasePreStart, pos.Phase.ID, "days before=%d", days)
		assert.Equal(t, 1, pos.PhaseDayNumber, "days before=%d", days)
		assert.Equal(t, 1, pos.DBDay)
		assert.Equal(t, days, pos.DaysUntilStart)
	}
}

func TestResolve_PrepWindow(t *testing.T) {
	c := newTestCalendar(t)
	start := startAt(t, c, "2025-09-01")

	pos, err := c.Resolve(start, start.AddDate(0, 0, -14))
	require.NoError(t, err)
	assert.Equal(t, domain.PhasePreStart, pos.Phase.ID)
	assert.Equal(t, 1, pos.DBDay)
	assert.Equal(t, 1, pos.PhaseDayNumber)

	pos, err = c.Resolve(start, start.AddDate(0, 0, -1).Add(23*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 14, pos.DBDay)
	assert.Equal(t, 14, pos.PhaseDayNumber)
	assert.Equal(t, 1, pos.DaysUntilStart)
}

func TestResolve_FoundationDays(t *testing.T) {
	c := newTestCalendar(t)
	start := startAt(t, c, "2025-09-01")

	for days := 0; days <= 55; days++ {
		pos, err := c.Resolve(start, start.AddDate(0, 0, days).Add(9*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, domain.PhaseStart, pos.Phase.ID, "day offset %d", days)
		assert.Equal(t, days+1, pos.PhaseDayNumber)
		assert.Equal(t, days/7+1, pos.WeekNumber)
	}
}

func TestResolve_PostStartIsOpenEnded(t *testing.T) {
	c := newTestCalendar(t)
	start := startAt(t, c, "2025-09-01")

	pos, err := c.Resolve(start, start.AddDate(0, 0, 56))
	require.NoError(t, err)
	assert.Equal(t, domain.PhasePostStart, pos.Phase.ID)
	assert.Equal(t, 1, pos.PhaseDayNumber)
	assert.Zero(t, pos.WeekNumber)

	pos, err = c.Resolve(start, start.AddDate(2, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, domain.PhasePostStart, pos.Phase.ID)
}

func TestDaysBetween_UsesCalendarDaysInLocation(t *testing.T) {
	c := newTestCalendar(t)
	loc := c.Location()
	start := time.Date(2025, 3, 8, 23, 30, 0, 0, loc)
	// Crosses the spring-forward boundary; still one calendar day apart.
	now := time.Date(2025, 3, 9, 0, 15, 0, 0, loc)
	assert.Equal(t, 1, c.DaysBetween(start, now))

	// 02:00 UTC on March 9 is still March 8 in New York.
	utcLate := time.Date(2025, 3, 9, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, c.DaysBetween(start, utcLate))
}

func TestJourneyDay_NeverAheadOfSchedule(t *testing.T) {
	for phaseDay := 1; phaseDay <= 14; phaseDay++ {
		for visits := 0; visits <= 20; visits++ {
			jd := JourneyDay(visits, phaseDay)
			assert.LessOrEqual(t, jd, phaseDay)
			assert.GreaterOrEqual(t, jd, 1)
		}
	}
}

func TestOnboardingDay_ClampsToFive(t *testing.T) {
	assert.Equal(t, 1, OnboardingDay(0))
	assert.Equal(t, 3, OnboardingDay(3))
	assert.Equal(t, 5, OnboardingDay(5))
	assert.Equal(t, 5, OnboardingDay(12))
}

func TestWithJourney_EarlyEnrollee(t *testing.T) {
	c := newTestCalendar(t)
	now := time.Date(2025, 8, 1, 12, 0, 0, 0, c.Location())
	start := now.AddDate(0, 0, 14)

	pos, err := c.Resolve(&start, now)
	require.NoError(t, err)
	pos = c.WithJourney(pos, 1)
	assert.Equal(t, 1, pos.JourneyDay)
	assert.Equal(t, 1, pos.OnboardingDay)

	// Skipped a day of visiting: phase day is 3, journey day only 2.
	later := now.AddDate(0, 0, 2)
	pos, err = c.Resolve(&start, later)
	require.NoError(t, err)
	pos = c.WithJourney(pos, 2)
	assert.Equal(t, 3, pos.PhaseDayNumber)
	assert.Equal(t, 2, pos.JourneyDay)
}

func TestWithJourney_IgnoredOutsidePrep(t *testing.T) {
	c := newTestCalendar(t)
	start := startAt(t, c, "2025-09-01")
	pos, err := c.Resolve(start, start.AddDate(0, 0, 3))
	require.NoError(t, err)
	pos = c.WithJourney(pos, 9)
	assert.Zero(t, pos.JourneyDay)
}

func TestWeekStartDBDay(t *testing.T) {
	c := newTestCalendar(t)
	assert.Equal(t, 15, c.WeekStartDBDay(1))
	assert.Equal(t, 22, c.WeekStartDBDay(2))
	assert.Equal(t, 64, c.WeekStartDBDay(8))
}

func TestNew_RejectsInvalidPhases(t *testing.T) {
	phases := domain.DefaultPhases()
	phases[2].DBDayStart = 80
	_, err := New(phases, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidPhases)
}

func TestLoadLocation(t *testing.T) {
	loc, err := LoadLocation("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTimezone, loc.String())

	_, err = LoadLocation("Mars/Olympus")
	assert.Error(t, err)
}

func TestZonesFor(t *testing.T) {
	cases := []struct {
		name      string
		dbDay     int
		phase     domain.PhaseID
		prepDone  bool
		community bool
		coaching  bool
		oneOnOne  bool
		held      bool
	}{
		{"prep", 10, domain.PhasePreStart, false, false, false, false, false},
		{"week one", 15, domain.PhaseStart, true, true, false, false, false},
		{"week two", 22, domain.PhaseStart, true, true, true, false, false},
		{"one on one", 30, domain.PhaseStart, true, true, true, true, false},
		{"after window", 36, domain.PhaseStart, true, true, true, false, false},
		{"prep incomplete", 30, domain.PhaseStart, false, false, false, false, true},
	}
	for _, tc := range cases {
		pos := Position{DBDay: tc.dbDay, Phase: domain.PhaseConfig{ID: tc.phase}}
		z := ZonesFor(pos, tc.prepDone)
		assert.True(t, z.Content, tc.name)
		assert.Equal(t, tc.community, z.Community, tc.name)
		assert.Equal(t, tc.coaching, z.Coaching, tc.name)
		assert.Equal(t, tc.oneOnOne, z.OneOnOneWindow, tc.name)
		assert.Equal(t, tc.held, z.HeldInPrep, tc.name)
	}
}

func TestDateKeyRoundTrip(t *testing.T) {
	loc, err := LoadLocation("America/New_York")
	require.NoError(t, err)
	ts := time.Date(2025, 6, 2, 3, 0, 0, 0, time.UTC) // 23:00 on June 1 in New York
	assert.Equal(t, "2025-06-01", DateKey(ts, loc))

	parsed, err := ParseDateKey("2025-06-01", loc)
	require.NoError(t, err)
	assert.True(t, StartOfDay(ts, loc).Equal(parsed))
}
