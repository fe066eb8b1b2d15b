package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidPhases is returned when a phase table does not cover the DB-day
// space contiguously.
var ErrInvalidPhases = errors.New("invalid phase table")

// PhaseConfig declares one program regime and its slice of the DB-day space.
// DBDayEnd == 0 means the phase is open-ended.
type PhaseConfig struct {
	ID              PhaseID `yaml:"id" validate:"required,oneof=pre-start start post-start"`
	Name            string  `yaml:"name"`
	DBDayStart      int     `yaml:"db_day_start" validate:"min=1"`
	DBDayEnd        int     `yaml:"db_day_end" validate:"min=0"`
	TrackMissedDays bool    `yaml:"track_missed_days"`
	Cumulative      bool    `yaml:"cumulative"`
	ProgressBased   bool    `yaml:"progress_based"`
	WeekScoped      bool    `yaml:"week_scoped"`
}

// Contains reports whether dbDay falls inside the phase range.
func (p PhaseConfig) Contains(dbDay int) bool {
	if dbDay < p.DBDayStart {
		return false
	}
	return p.OpenEnded() || dbDay <= p.DBDayEnd
}

func (p PhaseConfig) OpenEnded() bool {
	return p.DBDayEnd == 0
}

// Length returns the number of days in a closed phase, or 0 when open-ended.
func (p PhaseConfig) Length() int {
	if p.OpenEnded() {
		return 0
	}
	return p.DBDayEnd - p.DBDayStart + 1
}

const (
	// PrepDays is the length of the preparation phase. DB day 15 is program day 1.
	PrepDays = 14
	// FoundationWeeks is the length of the cohort-locked phase.
	FoundationWeeks = 8
)

// DefaultPhases returns the standard three-phase program table.
func DefaultPhases() []PhaseConfig {
	return []PhaseConfig{
		{
			ID:            PhasePreStart,
			Name:          "Preparation",
			DBDayStart:    1,
			DBDayEnd:      PrepDays,
			Cumulative:    true,
			ProgressBased: true,
		},
		{
			ID:              PhaseStart,
			Name:            "Foundation",
			DBDayStart:      PrepDays + 1,
			DBDayEnd:        PrepDays + FoundationWeeks*7,
			TrackMissedDays: true,
			WeekScoped:      true,
		},
		{
			ID:         PhasePostStart,
			Name:       "Ascent",
			DBDayStart: PrepDays + FoundationWeeks*7 + 1,
		},
	}
}

// ValidatePhases checks that phases start at DB day 1, are ordered,
// contiguous and non-overlapping, and that only the last one is open-ended.
func ValidatePhases(phases []PhaseConfig) error {
	if len(phases) == 0 {
		return fmt.Errorf("%w: no phases", ErrInvalidPhases)
	}
	if phases[0].DBDayStart != 1 {
		return fmt.Errorf("%w: first phase %s starts at day %d, want 1", ErrInvalidPhases, phases[0].ID, phases[0].DBDayStart)
	}
	seen := make(map[PhaseID]bool, len(phases))
	for i, p := range phases {
		if seen[p.ID] {
			return fmt.Errorf("%w: duplicate phase %s", ErrInvalidPhases, p.ID)
		}
		seen[p.ID] = true

		last := i == len(phases)-1
		if p.OpenEnded() && !last {
			return fmt.Errorf("%w: phase %s is open-ended but not last", ErrInvalidPhases, p.ID)
		}
		if !p.OpenEnded() && p.DBDayEnd < p.DBDayStart {
			return fmt.Errorf("%w: phase %s ends before it starts", ErrInvalidPhases, p.ID)
		}
		if last && !p.OpenEnded() {
			return fmt.Errorf("%w: last phase %s must be open-ended", ErrInvalidPhases, p.ID)
		}
		if i > 0 && p.DBDayStart != phases[i-1].DBDayEnd+1 {
			return fmt.Errorf("%w: phase %s starts at day %d, want %d", ErrInvalidPhases, p.ID, p.DBDayStart, phases[i-1].DBDayEnd+1)
		}
	}
	return nil
}

// FindPhase returns the phase containing dbDay.
func FindPhase(phases []PhaseConfig, dbDay int) (PhaseConfig, bool) {
	for _, p := range phases {
		if p.Contains(dbDay) {
			return p, true
		}
	}
	return PhaseConfig{}, false
}

// PhaseByID looks up a phase by its identifier.
func PhaseByID(phases []PhaseConfig, id PhaseID) (PhaseConfig, bool) {
	for _, p := range phases {
		if p.ID == id {
			return p, true
		}
	}
	return PhaseConfig{}, false
}
