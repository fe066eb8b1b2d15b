// Package calendar maps a learner's program start and the current instant to
// a position in the program: phase, day within phase and, during preparation,
// the journey day.
package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/ascent/internal/domain"
)

// ErrNotEnrolled is returned when no program start date is known. Callers
// must gate on enrollment instead of defaulting to day 1.
var ErrNotEnrolled = errors.New("learner is not enrolled: program start date is unset")

// OnboardingDays is the number of distinct onboarding modules; later journey
// days repeat the last one.
const OnboardingDays = 5

// Position is a learner's resolved place in the program.
type Position struct {
	Phase          domain.PhaseConfig
	DBDay          int
	PhaseDayNumber int
	DaysFromStart  int

	// WeekNumber is set for week-scoped phases, starting at 1.
	WeekNumber int
	// DaysUntilStart is set during preparation.
	DaysUntilStart int

	// JourneyDay and OnboardingDay are set during preparation once the
	// visit count is known (see WithJourney).
	JourneyDay    int
	OnboardingDay int
}

func (p Position) InPrep() bool {
	return p.Phase.ID == domain.PhasePreStart
}

type Calendar struct {
	phases []domain.PhaseConfig
	loc    *time.Location
	anchor int
}

// New builds a calendar over a validated phase table. A nil location means UTC.
func New(phases []domain.PhaseConfig, loc *time.Location) (*Calendar, error) {
	if err := domain.ValidatePhases(phases); err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.UTC
	}
	anchor := domain.PrepDays + 1
	if start, ok := domain.PhaseByID(phases, domain.PhaseStart); ok {
		anchor = start.DBDayStart
	}
	cp := make([]domain.PhaseConfig, len(phases))
	copy(cp, phases)
	return &Calendar{phases: cp, loc: loc, anchor: anchor}, nil
}

// MustDefault returns a calendar over the default phases. It panics only if
// the built-in table is invalid.
func MustDefault(loc *time.Location) *Calendar {
	c, err := New(domain.DefaultPhases(), loc)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Calendar) Location() *time.Location { return c.loc }

func (c *Calendar) Phases() []domain.PhaseConfig {
	out := make([]domain.PhaseConfig, len(c.phases))
	copy(out, c.phases)
	return out
}

// DaysBetween returns the number of calendar days from start to now in the
// calendar's location. Negative when now is before start.
func (c *Calendar) DaysBetween(start, now time.Time) int {
	return int(DayNumber(now, c.loc) - DayNumber(start, c.loc))
}

// DBDay maps a day offset from program start into the contiguous DB-day
// space. Day offsets before the preparation window clamp to DB day 1.
func (c *Calendar) DBDay(daysFromStart int) int {
	if daysFromStart < 0 {
		return max(1, c.anchor+daysFromStart)
	}
	return c.anchor + daysFromStart
}

// Resolve computes the learner's position. start must be set.
func (c *Calendar) Resolve(start *time.Time, now time.Time) (Position, error) {
	if start == nil || start.IsZero() {
		return Position{}, ErrNotEnrolled
	}
	days := c.DaysBetween(*start, now)
	dbDay := c.DBDay(days)
	phase, ok := domain.FindPhase(c.phases, dbDay)
	if !ok {
		return Position{}, fmt.Errorf("no phase contains DB day %d", dbDay)
	}

	pos := Position{
		Phase:          phase,
		DBDay:          dbDay,
		PhaseDayNumber: dbDay - phase.DBDayStart + 1,
		DaysFromStart:  days,
	}
	if phase.WeekScoped {
		pos.WeekNumber = WeekOf(pos.PhaseDayNumber)
	}
	if pos.InPrep() && days < 0 {
		pos.DaysUntilStart = -days
	}
	return pos, nil
}

// WithJourney fills in the journey day for a preparation position from the
// number of distinct days the learner has visited. Other phases are returned
// unchanged.
func (c *Calendar) WithJourney(pos Position, visitDays int) Position {
	if !pos.InPrep() {
		return pos
	}
	pos.JourneyDay = JourneyDay(visitDays, pos.PhaseDayNumber)
	pos.OnboardingDay = OnboardingDay(pos.JourneyDay)
	return pos
}

// WeekStartDBDay returns the first DB day of a week in the week-scoped phase.
func (c *Calendar) WeekStartDBDay(week int) int {
	start := c.anchor
	for _, p := range c.phases {
		if p.WeekScoped {
			start = p.DBDayStart
			break
		}
	}
	return start + (week-1)*7
}

// JourneyDay counts preparation progress by distinct visit days, never ahead
// of the official schedule.
func JourneyDay(visitDays, phaseDayNumber int) int {
	return min(max(visitDays, 1), phaseDayNumber)
}

// OnboardingDay clamps a journey day to the onboarding module range.
func OnboardingDay(journeyDay int) int {
	return min(max(journeyDay, 1), OnboardingDays)
}

// WeekOf returns the 1-based week containing a 1-based day number.
func WeekOf(dayNumber int) int {
	if dayNumber < 1 {
		return 0
	}
	return (dayNumber + 6) / 7
}
