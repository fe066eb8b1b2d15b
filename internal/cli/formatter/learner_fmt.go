package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/ascent/internal/domain"
)

// FormatLearner renders one learner's enrollment details.
func FormatLearner(l *domain.Learner, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", Bold(l.Name), Dim(l.ID))
	fmt.Fprintf(&b, "Program start  %s\n", startText(l, now))
	fmt.Fprintf(&b, "Leader profile  %s\n", Checkbox(l.ProfileComplete))
	fmt.Fprintf(&b, "Assessment  %s\n", Checkbox(l.AssessmentComplete))
	return b.String()
}

// FormatLearnerList renders learners as a table.
func FormatLearnerList(learners []*domain.Learner, now time.Time) string {
	if len(learners) == 0 {
		return Dim("No learners enrolled.") + "\n"
	}
	rows := make([][]string, 0, len(learners))
	for _, l := range learners {
		prep := StyleYellow.Render("in progress")
		if l.PrepComplete() {
			prep = StyleGreen.Render("complete")
		}
		rows = append(rows, []string{TruncID(l.ID), l.Name, startText(l, now), prep})
	}
	return RenderTable([]string{"ID", "NAME", "START", "PREP"}, rows)
}

// FormatRecords renders stored progress records.
func FormatRecords(records []domain.ProgressRecord, now time.Time) string {
	if len(records) == 0 {
		return Dim("No progress recorded.") + "\n"
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		week := "--"
		if w, ok := r.ScheduledWeek(); ok {
			week = fmt.Sprintf("%d", w)
		}
		rows = append(rows, []string{
			r.ItemID,
			StatusPill(r.EffectiveStatus()),
			week,
			CarryBadge(r.CarryCount, false),
			HumanDate(r.UpdatedAt, now),
		})
	}
	return RenderTable([]string{"ID", "STATUS", "WEEK", "CARRIES", "UPDATED"}, rows)
}

func startText(l *domain.Learner, now time.Time) string {
	if !l.Enrolled() {
		return Dim("not set")
	}
	return l.ProgramStart.In(now.Location()).Format("Jan 2, 2006")
}
