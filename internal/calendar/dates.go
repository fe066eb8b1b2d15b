package calendar

import (
	"fmt"
	"time"
)

// DateKeyLayout formats calendar days as stored in the visit log.
const DateKeyLayout = "2006-01-02"

// DefaultTimezone is the cohort timezone used when none is configured.
const DefaultTimezone = "America/New_York"

// LoadLocation loads an IANA timezone. Empty means the default cohort
// timezone; "Local" means the system timezone.
func LoadLocation(name string) (*time.Location, error) {
	switch name {
	case "":
		name = DefaultTimezone
	case "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}

// DayNumber returns a monotonically increasing civil-day index for t as seen
// in loc. Consecutive calendar days differ by exactly 1 regardless of DST.
func DayNumber(t time.Time, loc *time.Location) int64 {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

// DateKey returns the YYYY-MM-DD key of t in loc.
func DateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateKeyLayout)
}

// ParseDateKey parses a YYYY-MM-DD key as midnight in loc.
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateKeyLayout, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date key %q: %w", key, err)
	}
	return t, nil
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
