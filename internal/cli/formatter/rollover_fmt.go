package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/ascent/internal/contract"
)

// FormatRolloverPreview lists the items a rollover would carry or archive.
func FormatRolloverPreview(p *contract.RolloverPreview) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("Rollover week %d → %d", p.FromWeek, p.ToWeek)))
	b.WriteString("\n")
	if p.AlreadyRun {
		b.WriteString(StyleYellow.Render("Already rolled over."))
		b.WriteString("\n")
		return b.String()
	}
	if len(p.Candidates) == 0 {
		b.WriteString(Dim("Nothing to carry over."))
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(RenderTable([]string{"ACTION", "CARRIES", "OUTCOME", "ID"}, rolloverRows(p.Candidates)))
	if p.WouldArchive > 0 {
		b.WriteString(StyleRed.Render(fmt.Sprintf("%d item(s) will be archived.", p.WouldArchive)))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatRolloverResult summarizes a rollover run.
func FormatRolloverResult(r *contract.RolloverResult) string {
	var b strings.Builder
	title := fmt.Sprintf("Rolled over week %d → %d", r.FromWeek, r.ToWeek)
	if r.Retry {
		title += " (retry)"
	}
	b.WriteString(Header(title))
	b.WriteString("\n")
	if len(r.Items) > 0 {
		b.WriteString(RenderTable([]string{"ACTION", "CARRIES", "OUTCOME", "ID"}, rolloverRows(r.Items)))
	}
	fmt.Fprintf(&b, "%s carried, %s archived",
		StyleGreen.Render(fmt.Sprintf("%d", r.Carried)),
		StyleYellow.Render(fmt.Sprintf("%d", r.Archived)))
	if r.Failed > 0 {
		fmt.Fprintf(&b, ", %s failed", StyleRed.Render(fmt.Sprintf("%d", r.Failed)))
	}
	b.WriteString("\n")
	return b.String()
}

func rolloverRows(items []contract.RolloverItem) [][]string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		outcome := StyleGreen.Render("carry")
		if it.Archived {
			outcome = StyleRed.Render("archive")
		}
		rows = append(rows, []string{
			it.Label,
			CarryBadge(it.CarryCount, it.LastChance),
			outcome,
			it.ItemID,
		})
	}
	return rows
}
