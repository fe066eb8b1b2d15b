package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/ascent/internal/calendar"
	"github.com/alexanderramin/ascent/internal/contract"
	"github.com/alexanderramin/ascent/internal/domain"
)

const progressBarWidth = 24

// FormatToday renders a learner's dashboard for one day.
func FormatToday(v *contract.TodayView) string {
	var b strings.Builder

	b.WriteString(Header("Today · " + v.DateKey))
	b.WriteString("\n")
	b.WriteString(PhaseBadge(v.Position.Phase) + "  " + PositionLine(v.Position))
	b.WriteString("\n")
	b.WriteString(ZonesLine(v.Zones))
	b.WriteString("\n\n")

	if v.Onboarding != nil {
		var steps strings.Builder
		steps.WriteString(Bold(v.Onboarding.Title))
		for _, s := range v.Onboarding.Steps {
			steps.WriteString("\n  • " + s)
		}
		b.WriteString(RenderBox(fmt.Sprintf("Onboarding day %d", v.Onboarding.Day), steps.String()))
		b.WriteString("\n\n")
	}

	if len(v.Items) == 0 {
		b.WriteString(Dim("No actions scheduled."))
		b.WriteString("\n")
	} else {
		b.WriteString(RenderTable([]string{"", "ACTION", "CATEGORY", "ID"}, itemRows(v.Items)))
	}

	if len(v.CarriedOver) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("Carried over"))
		b.WriteString("\n")
		b.WriteString(RenderTable([]string{"", "ACTION", "CARRIES", "ID"}, carriedRows(v.CarriedOver)))
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %d/%d required", Bold("Progress"), v.RequiredDone, v.RequiredTotal)
	if v.Position.WeekNumber > 0 {
		fmt.Fprintf(&b, "\n%s %s", Bold(fmt.Sprintf("Week %d", v.Position.WeekNumber)), RenderPercent(v.WeekPercent, progressBarWidth))
	}
	if v.Done() {
		b.WriteString("\n" + StyleGreen.Render("All required actions done."))
	}
	b.WriteString("\n")
	return b.String()
}

// PositionLine describes where a learner is within the program.
func PositionLine(p calendar.Position) string {
	switch {
	case p.InPrep():
		line := fmt.Sprintf("Day %d of preparation · %d days until start", p.PhaseDayNumber, p.DaysUntilStart)
		if p.JourneyDay > 0 {
			line += fmt.Sprintf(" · journey day %d", p.JourneyDay)
		}
		return line
	case p.WeekNumber > 0:
		return fmt.Sprintf("Week %d · day %d", p.WeekNumber, p.PhaseDayNumber)
	default:
		return fmt.Sprintf("Day %d", p.PhaseDayNumber)
	}
}

// ZonesLine lists the dashboard zones with their lock state.
func ZonesLine(z calendar.Zones) string {
	zone := func(name string, open bool) string {
		if open {
			return StyleGreen.Render("✔ " + name)
		}
		return StyleDim.Render("✖ " + name)
	}
	parts := []string{
		zone("Content", z.Content),
		zone("Community", z.Community),
		zone("Coaching", z.Coaching),
	}
	if z.OneOnOneWindow {
		parts = append(parts, StylePurple.Render("● 1:1 window open"))
	}
	line := strings.Join(parts, "  ")
	if z.HeldInPrep {
		line += "\n" + StyleYellow.Render("Finish your profile and assessment to unlock the program.")
	}
	return line
}

func itemRows(items []contract.TodayItem) [][]string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		label := it.Label
		if !it.Required {
			label += Dim(" (optional)")
		}
		if it.Status == domain.ItemSkipped {
			label = Dim(it.Label + " (skipped)")
		}
		id := it.ID
		if it.Auto {
			id = Dim("auto")
		}
		if it.CarriedOver {
			label += " " + CarryBadge(it.CarryCount, it.LastChance)
		}
		rows = append(rows, []string{Checkbox(it.Completed), label, CategoryBadge(it.Category), id})
	}
	return rows
}

func carriedRows(items []contract.TodayItem) [][]string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			Checkbox(it.Completed),
			it.Label,
			CarryBadge(it.CarryCount, it.LastChance),
			it.ID,
		})
	}
	return rows
}
