package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alexanderramin/ascent/internal/calendar"
	"github.com/alexanderramin/ascent/internal/repository"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const learnerFlag = "learner"

func addLearnerFlag(fs *pflag.FlagSet) {
	fs.StringP(learnerFlag, "l", os.Getenv("ASCENT_LEARNER"), "Learner ID or ID prefix (env ASCENT_LEARNER)")
}

// addWeekFlags registers the --from/--to pair used by carry-over commands.
func addWeekFlags(fs *pflag.FlagSet, from, to *int) {
	fs.IntVar(from, "from", 0, "Week the item is carried from")
	fs.IntVar(to, "to", 0, "Week the item is carried into (default from+1)")
}

// resolveLearner resolves the --learner flag to a learner ID. The flag can
// be a full ID or a unique prefix; when it is empty and exactly one learner
// exists, that learner is used.
func resolveLearner(ctx context.Context, cmd *cobra.Command, app *App) (string, error) {
	input, _ := cmd.Flags().GetString(learnerFlag)
	input = strings.TrimSpace(input)

	if input != "" {
		l, err := app.Enrollment.Get(ctx, input)
		if err == nil {
			return l.ID, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return "", err
		}
	}

	learners, err := app.Enrollment.List(ctx)
	if err != nil {
		return "", err
	}
	var matches []string
	for _, l := range learners {
		if strings.HasPrefix(l.ID, input) {
			matches = append(matches, l.ID)
		}
	}
	switch {
	case len(matches) == 1:
		return matches[0], nil
	case input == "" && len(matches) == 0:
		return "", fmt.Errorf("no learners enrolled (run: ascent learner enroll --name <name>)")
	case input == "":
		return "", fmt.Errorf("%d learners enrolled; choose one with --%s", len(matches), learnerFlag)
	case len(matches) == 0:
		return "", fmt.Errorf("learner %q not found", input)
	default:
		return "", fmt.Errorf("learner prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// parseDate reads a YYYY-MM-DD flag value in the program timezone.
func parseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := calendar.ParseDateKey(value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", value, err)
	}
	return t, nil
}
