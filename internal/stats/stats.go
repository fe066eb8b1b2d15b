// Package stats folds a learner's progress records into streaks, perfect
// weeks, points and badges. Everything here is pure and total.
package stats

import (
	"slices"
	"time"

	"github.com/alexanderramin/ascent/internal/calendar"
	"github.com/alexanderramin/ascent/internal/domain"
)

const (
	PointsComplete      = 10
	PointsOnTime        = 5
	PointsEarly         = 3
	PointsCarryComplete = 15
	PointsPerStreakDay  = 2
	// PointsPerfectWeek is defined for display but not awarded.
	PointsPerfectWeek = 50

	earlyHourCutoff = 12
)

type Stats struct {
	TotalCompleted       int
	TotalSkipped         int
	TotalCarriedOver     int
	CarriedOverCompleted int

	ContentCompleted   int
	CommunityCompleted int
	CoachingCompleted  int
	EarlyCompletions   int

	CurrentStreak int
	LongestStreak int

	PerfectWeeks int
	// ConsecutivePerfectWeeks currently equals PerfectWeeks: weeks are
	// evaluated independently and no run of weeks is checked.
	ConsecutivePerfectWeeks int

	TotalPoints int
	Badges      []string
}

// Options carries the reference instant and the program timezone used to
// collapse completion times to calendar days.
type Options struct {
	Now      time.Time
	Location *time.Location
}

// Aggregate computes Stats over records. A zero Now means there is no
// reference day, so CurrentStreak is 0.
func Aggregate(records []domain.ProgressRecord, opts Options) Stats {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	var s Stats
	var completed []domain.ProgressRecord
	for _, r := range records {
		switch r.EffectiveStatus() {
		case domain.ItemCompleted:
			completed = append(completed, r)
		case domain.ItemSkipped:
			s.TotalSkipped++
		}
		if r.CarriedOver {
			s.TotalCarriedOver++
		}
	}
	s.TotalCompleted = len(completed)

	for _, r := range completed {
		if r.CarriedOver {
			s.CarriedOverCompleted++
		}
		switch r.Category {
		case domain.CategoryContent:
			s.ContentCompleted++
		case domain.CategoryCommunity:
			s.CommunityCompleted++
		case domain.CategoryCoaching:
			s.CoachingCompleted++
		}
		if isEarly(r, loc) {
			s.EarlyCompletions++
		}
	}

	s.CurrentStreak, s.LongestStreak = streaks(completed, opts.Now, loc)
	s.PerfectWeeks = perfectWeeks(records)
	s.ConsecutivePerfectWeeks = s.PerfectWeeks
	s.TotalPoints = points(completed, loc) + s.CurrentStreak*PointsPerStreakDay

	for _, b := range Badges {
		if b.Earned(s) {
			s.Badges = append(s.Badges, b.ID)
		}
	}
	return s
}

func isEarly(r domain.ProgressRecord, loc *time.Location) bool {
	return r.CompletedAt != nil && r.CompletedAt.In(loc).Hour() < earlyHourCutoff
}

// streaks collapses completions to distinct calendar days. The current
// streak is the run ending today, or yesterday when nothing is done yet
// today; the longest streak ignores recency.
func streaks(completed []domain.ProgressRecord, now time.Time, loc *time.Location) (current, longest int) {
	seen := map[int64]bool{}
	var days []int64
	for _, r := range completed {
		if r.CompletedAt == nil {
			continue
		}
		d := calendar.DayNumber(*r.CompletedAt, loc)
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	if len(days) == 0 {
		return 0, 0
	}
	slices.Sort(days)

	run := 1
	longest = 1
	for i := 1; i < len(days); i++ {
		if days[i]-days[i-1] == 1 {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}

	if now.IsZero() {
		return 0, longest
	}
	anchor := calendar.DayNumber(now, loc)
	if !seen[anchor] {
		anchor--
	}
	for seen[anchor-int64(current)] {
		current++
	}
	return current, longest
}

// perfectWeeks counts weeks whose every record is completed. Records are
// grouped by original week, falling back to the scheduled week. Records with
// neither share one unscheduled group, which counts like any other week.
func perfectWeeks(records []domain.ProgressRecord) int {
	type tally struct{ total, done int }
	weeks := map[int]*tally{}
	var unscheduled tally
	for _, r := range records {
		t := &unscheduled
		if w, ok := r.ScheduledWeek(); ok {
			t = weeks[w]
			if t == nil {
				t = &tally{}
				weeks[w] = t
			}
		}
		t.total++
		if r.EffectiveStatus() == domain.ItemCompleted {
			t.done++
		}
	}
	n := 0
	if unscheduled.total > 0 && unscheduled.done == unscheduled.total {
		n++
	}
	for _, t := range weeks {
		if t.total > 0 && t.done == t.total {
			n++
		}
	}
	return n
}

func points(completed []domain.ProgressRecord, loc *time.Location) int {
	total := 0
	for _, r := range completed {
		total += PointsComplete
		if r.CarriedOver {
			total += PointsCarryComplete
		} else {
			total += PointsOnTime
		}
		if isEarly(r, loc) {
			total += PointsEarly
		}
	}
	return total
}
