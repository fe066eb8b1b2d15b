package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/ascent/internal/contract"
	"github.com/alexanderramin/ascent/internal/stats"
)

// FormatStats renders the stats projection with earned and locked badges.
func FormatStats(v *contract.StatsView) string {
	s := v.Stats
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s\n", Bold("Points"), StyleHeader.Render(fmt.Sprintf("%d", s.TotalPoints)))
	fmt.Fprintf(&b, "%s  %s  %s\n",
		Bold("Streak"),
		streakText(s.CurrentStreak),
		Dim(fmt.Sprintf("longest %d", s.LongestStreak)))
	fmt.Fprintf(&b, "%s  %d\n", Bold("Perfect weeks"), s.PerfectWeeks)
	b.WriteString("\n")

	b.WriteString(RenderTable(
		[]string{"COMPLETED", "CONTENT", "COMMUNITY", "COACHING", "EARLY", "SKIPPED", "CARRIED"},
		[][]string{{
			fmt.Sprintf("%d", s.TotalCompleted),
			fmt.Sprintf("%d", s.ContentCompleted),
			fmt.Sprintf("%d", s.CommunityCompleted),
			fmt.Sprintf("%d", s.CoachingCompleted),
			fmt.Sprintf("%d", s.EarlyCompletions),
			fmt.Sprintf("%d", s.TotalSkipped),
			fmt.Sprintf("%d/%d", s.CarriedOverCompleted, s.TotalCarriedOver),
		}},
	))
	b.WriteString("\n")
	b.WriteString(FormatBadges(v.Badges))

	return RenderBox("Stats", strings.TrimRight(b.String(), "\n"))
}

// FormatBadges lists every badge, earned ones first with their icon.
func FormatBadges(earned []stats.Badge) string {
	have := make(map[string]bool, len(earned))
	var b strings.Builder
	b.WriteString(Bold(fmt.Sprintf("Badges %d/%d", len(earned), len(stats.Badges))))
	b.WriteString("\n")
	for _, badge := range earned {
		have[badge.ID] = true
		fmt.Fprintf(&b, "  %s %s %s\n", badge.Icon, StyleGreen.Render(badge.Name), Dim(badge.Description))
	}
	for _, badge := range stats.Badges {
		if have[badge.ID] {
			continue
		}
		fmt.Fprintf(&b, "  %s %s\n", Dim("○ "+badge.Name), Dim(badge.Description))
	}
	return b.String()
}

func streakText(days int) string {
	switch {
	case days == 0:
		return Dim("no active streak")
	case days == 1:
		return StyleYellow.Render("1 day")
	default:
		return StyleGreen.Render(fmt.Sprintf("%d days", days))
	}
}
