package formatter

import (
	"strings"
	"time"

	"github.com/alexanderramin/ascent/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// HumanDate formats t relative to now: "Today", "Yesterday" or an absolute
// date. Both instants are compared in now's location.
func HumanDate(t, now time.Time) string {
	t = t.In(now.Location())
	y1, m1, d1 := now.Date()
	y2, m2, d2 := t.Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		return "Today"
	}
	y3, m3, d3 := now.AddDate(0, 0, -1).Date()
	if y2 == y3 && m2 == m3 && d2 == d3 {
		return "Yesterday"
	}
	return t.Format("Jan 2, 2006")
}

// StatusPill returns a colored indicator for an item status.
func StatusPill(status domain.ItemStatus) string {
	switch status {
	case domain.ItemCompleted:
		return StyleGreen.Render("✔ Done")
	case domain.ItemSkipped:
		return StyleDim.Render("⊘ Skipped")
	case domain.ItemArchived:
		return StyleDim.Render("✖ Archived")
	case domain.ItemPending, "":
		return StyleBlue.Render("○ Pending")
	default:
		return StyleDim.Render(string(status))
	}
}

// Checkbox renders the completion box used in action lists.
func Checkbox(done bool) string {
	if done {
		return StyleGreen.Render("[x]")
	}
	return StyleDim.Render("[ ]")
}

// CategoryBadge returns a capitalized, colored category label.
func CategoryBadge(c domain.Category) string {
	if c == "" {
		return StyleDim.Render("--")
	}
	label := strings.ToUpper(string(c[:1])) + string(c[1:])
	switch c {
	case domain.CategoryCommunity:
		return StyleYellow.Render(label)
	case domain.CategoryCoaching:
		return StylePurple.Render(label)
	default:
		return StyleBlue.Render(label)
	}
}

// CarryBadge marks carried items with their carry count, red when one more
// carry archives them.
func CarryBadge(count int, lastChance bool) string {
	if count == 0 {
		return ""
	}
	text := "↻" + strings.Repeat("·", count)
	if lastChance {
		return StyleRed.Render(text + " last chance")
	}
	return StyleYellow.Render(text)
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}
