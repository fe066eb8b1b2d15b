package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alexanderramin/ascent/internal/calendar"
	"github.com/alexanderramin/ascent/internal/domain"
)

const (
	LeaderProfileItemID      = "prep-leader-profile"
	BaselineAssessmentItemID = "prep-baseline-assessment"
	slugMaxLen               = 20
)

// Resolver turns a calendar position into the ordered list of items the
// learner should see.
type Resolver struct {
	src Source
	cal *calendar.Calendar
}

func NewResolver(src Source, cal *calendar.Calendar) *Resolver {
	return &Resolver{src: src, cal: cal}
}

// Resolve returns the items for pos. Preparation accumulates every day from
// the phase start through the current DB day and leads with the two signal
// items. Week-scoped phases return the whole current week. Everything else
// returns only the current day.
func (r *Resolver) Resolve(ctx context.Context, pos calendar.Position) ([]domain.Completable, error) {
	from, to := r.dayRange(pos)

	var week *int
	if pos.Phase.WeekScoped && pos.WeekNumber > 0 {
		week = domain.Ptr(pos.WeekNumber)
	}

	explicit, err := r.collect(ctx, from, to, week, pos.Phase.Cumulative)
	if err != nil {
		return nil, err
	}
	if !pos.InPrep() {
		return explicit, nil
	}

	out := make([]domain.Completable, 0, len(explicit)+2)
	out = append(out, prepSignalItems(pos.Phase.DBDayStart)...)
	return append(out, explicit...), nil
}

// ResolveWeek returns the explicit items scheduled in a week of the
// week-scoped phase. Used by rollover, which never carries signal items.
func (r *Resolver) ResolveWeek(ctx context.Context, week int) ([]domain.ActionItem, error) {
	if week < 1 {
		return nil, fmt.Errorf("resolving week %d: week must be positive", week)
	}
	phase, ok := r.weekPhase()
	if !ok {
		return nil, errors.New("resolving week: no week-scoped phase configured")
	}
	from := r.cal.WeekStartDBDay(week)
	to := from + 6
	if !phase.OpenEnded() {
		to = min(to, phase.DBDayEnd)
	}
	if from > to {
		return nil, fmt.Errorf("resolving week %d: outside phase %s", week, phase.ID)
	}

	items, err := r.collect(ctx, from, to, domain.Ptr(week), false)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ActionItem, 0, len(items))
	for _, c := range items {
		out = append(out, c.Item())
	}
	return out, nil
}

func (r *Resolver) weekPhase() (domain.PhaseConfig, bool) {
	for _, p := range r.cal.Phases() {
		if p.WeekScoped {
			return p, true
		}
	}
	return domain.PhaseConfig{}, false
}

func (r *Resolver) dayRange(pos calendar.Position) (int, int) {
	switch {
	case pos.Phase.Cumulative:
		return pos.Phase.DBDayStart, pos.DBDay
	case pos.Phase.WeekScoped && pos.WeekNumber > 0:
		from := r.cal.WeekStartDBDay(pos.WeekNumber)
		to := from + 6
		if !pos.Phase.OpenEnded() {
			to = min(to, pos.Phase.DBDayEnd)
		}
		return from, to
	default:
		return pos.DBDay, pos.DBDay
	}
}

func (r *Resolver) collect(ctx context.Context, from, to int, week *int, foldSignals bool) ([]domain.Completable, error) {
	var out []domain.Completable
	for dbDay := from; dbDay <= to; dbDay++ {
		day, err := r.src.Day(ctx, dbDay)
		if errors.Is(err, ErrNoDay) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("loading catalog day %d: %w", dbDay, err)
		}
		for idx, a := range day.Actions {
			if a.Type == domain.ActionTypeDailyRep {
				continue
			}
			if foldSignals && isSignalHandler(a.HandlerType) {
				continue
			}
			out = append(out, domain.ExplicitItem{ActionItem: toItem(day, idx, a, week)})
		}
	}
	return out, nil
}

func toItem(day *domain.CatalogDay, idx int, a domain.CatalogAction, week *int) domain.ActionItem {
	id := itemID(day, idx, a)
	item := domain.ActionItem{
		ID:          id,
		Label:       a.Label,
		Category:    domain.NormalizeCategory(a.Category),
		Required:    a.IsRequired(),
		DayID:       day.ID,
		DBDay:       day.DBDay,
		Type:        a.Type,
		HandlerType: a.HandlerType,
	}
	if week != nil {
		item.WeekNumber = domain.Ptr(*week)
	}
	return item
}

func itemID(day *domain.CatalogDay, idx int, a domain.CatalogAction) string {
	if a.ID != "" {
		return a.ID
	}
	return DeriveItemID(day.ID, a.Label, idx)
}

func isSignalHandler(h string) bool {
	return h == domain.HandlerLeaderProfile || h == domain.HandlerBaselineAssessment
}

func prepSignalItems(dbDay int) []domain.Completable {
	return []domain.Completable{
		domain.SignalItem{
			ActionItem: domain.ActionItem{
				ID:          LeaderProfileItemID,
				Label:       "Complete your Leader Profile",
				Category:    domain.CategoryContent,
				Required:    true,
				DBDay:       dbDay,
				HandlerType: domain.HandlerLeaderProfile,
			},
			Signal: domain.SignalLeaderProfile,
		},
		domain.SignalItem{
			ActionItem: domain.ActionItem{
				ID:          BaselineAssessmentItemID,
				Label:       "Take the Baseline Assessment",
				Category:    domain.CategoryContent,
				Required:    true,
				DBDay:       dbDay,
				HandlerType: domain.HandlerBaselineAssessment,
			},
			Signal: domain.SignalBaselineAssessment,
		},
	}
}

// DeriveItemID builds the stable id of a catalog action that has none:
// daily-<dayID>-<slug>-<index>. The slug is the lower-cased label with
// runs of whitespace and '/' replaced by '-', cut to 20 bytes.
func DeriveItemID(dayID, label string, index int) string {
	return fmt.Sprintf("daily-%s-%s-%d", dayID, slug(label), index)
}

func slug(label string) string {
	var b strings.Builder
	inSpace := false
	for _, r := range strings.ToLower(label) {
		if unicode.IsSpace(r) || r == '/' {
			if !inSpace {
				b.WriteByte('-')
			}
			inSpace = true
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	s := b.String()
	if len(s) <= slugMaxLen {
		return s
	}
	s = s[:slugMaxLen]
	for len(s) > 0 && !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}
