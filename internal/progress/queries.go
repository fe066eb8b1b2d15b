package progress

import (
	"math"
	"sort"

	"github.com/alexanderramin/ascent/internal/domain"
)

// The functions below are pure views over one snapshot of a learner's records.

// ItemProgress returns the record for itemID, or a pending record if absent.
func ItemProgress(records []domain.ProgressRecord, itemID string) domain.ProgressRecord {
	for _, r := range records {
		if r.ItemID == itemID {
			return r
		}
	}
	return domain.ProgressRecord{ItemID: itemID, Status: domain.ItemPending, Category: domain.CategoryContent}
}

func IsCompleted(records []domain.ProgressRecord, itemID string) bool {
	r := ItemProgress(records, itemID)
	return r.EffectiveStatus() == domain.ItemCompleted
}

// WeekItems returns records scheduled in week or carried into it.
func WeekItems(records []domain.ProgressRecord, week int) []domain.ProgressRecord {
	return filter(records, func(r domain.ProgressRecord) bool {
		return intIs(r.WeekNumber, week) || intIs(r.CurrentWeek, week)
	})
}

// CarriedOverItems returns unresolved items carried into currentWeek.
func CarriedOverItems(records []domain.ProgressRecord, currentWeek int) []domain.ProgressRecord {
	return filter(records, func(r domain.ProgressRecord) bool {
		return r.CarriedOver && intIs(r.CurrentWeek, currentWeek) && !r.EffectiveStatus().Resolved()
	})
}

// PreviousWeekIncomplete returns unresolved items first scheduled in week
// that have not been carried yet.
func PreviousWeekIncomplete(records []domain.ProgressRecord, week int) []domain.ProgressRecord {
	return filter(records, func(r domain.ProgressRecord) bool {
		inWeek := intIs(r.OriginalWeek, week) || intIs(r.WeekNumber, week)
		return inWeek && !r.CarriedOver && !r.EffectiveStatus().Resolved()
	})
}

// WeekCompletionPercent is the rounded share of totalItems completed in week.
func WeekCompletionPercent(records []domain.ProgressRecord, week, totalItems int) int {
	if totalItems <= 0 {
		return 0
	}
	done := 0
	for _, r := range WeekItems(records, week) {
		if r.EffectiveStatus() == domain.ItemCompleted {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(totalItems) * 100))
}

// OutstandingItems returns every unresolved record. Archived items are never
// outstanding.
func OutstandingItems(records []domain.ProgressRecord) []domain.ProgressRecord {
	return filter(records, func(r domain.ProgressRecord) bool {
		return !r.EffectiveStatus().Resolved()
	})
}

// WeekAccomplishments groups completed records by week. Week 0 collects
// completions with no known week.
type WeekAccomplishments struct {
	Week  int
	Items []domain.ProgressRecord
}

// Accomplishments groups completed items by the week they were completed in
// (falling back to their original week), newest week first and newest
// completion first within a week.
func Accomplishments(records []domain.ProgressRecord) []WeekAccomplishments {
	byWeek := map[int][]domain.ProgressRecord{}
	for _, r := range records {
		if r.EffectiveStatus() != domain.ItemCompleted {
			continue
		}
		week := 0
		switch {
		case r.CompletedInWeek != nil:
			week = *r.CompletedInWeek
		case r.OriginalWeek != nil:
			week = *r.OriginalWeek
		}
		byWeek[week] = append(byWeek[week], r)
	}

	out := make([]WeekAccomplishments, 0, len(byWeek))
	for week, items := range byWeek {
		sort.SliceStable(items, func(i, j int) bool {
			return completedUnix(items[i]) > completedUnix(items[j])
		})
		out = append(out, WeekAccomplishments{Week: week, Items: items})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Week > out[j].Week })
	return out
}

func completedUnix(r domain.ProgressRecord) int64 {
	if r.CompletedAt == nil {
		return 0
	}
	return r.CompletedAt.UnixNano()
}

func filter(records []domain.ProgressRecord, keep func(domain.ProgressRecord) bool) []domain.ProgressRecord {
	var out []domain.ProgressRecord
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func intIs(p *int, v int) bool {
	return p != nil && *p == v
}
