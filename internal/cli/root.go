package cli

import (
	"time"

	"github.com/alexanderramin/ascent/internal/clock"
	"github.com/alexanderramin/ascent/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Enrollment service.EnrollmentService
	Journey    service.JourneyService
	Progress   service.ProgressService
	Rollover   service.RolloverService
	Stats      service.StatsService
	// Feed backs the live watch view.
	Feed service.ProgressFeed

	Clock    clock.Clock
	Location *time.Location

	// IsInteractive reports whether prompts may be shown. Nil means never.
	IsInteractive func() bool
	// Confirm asks a yes/no question. Nil uses a huh confirm form.
	Confirm func(title string) (bool, error)
}

func (a *App) now() time.Time {
	c := a.Clock
	if c == nil {
		c = clock.System{}
	}
	loc := a.Location
	if loc == nil {
		loc = time.UTC
	}
	return c.Now().In(loc)
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) confirm(title string) (bool, error) {
	if a.Confirm != nil {
		return a.Confirm(title)
	}
	var ok bool
	if err := confirmForm(title, &ok).Run(); err != nil {
		return false, err
	}
	return ok, nil
}

// NewRootCmd creates the top-level "ascent" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "ascent",
		Short:         "Program progress tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	addLearnerFlag(root.PersistentFlags())

	root.AddCommand(
		newLearnerCmd(app),
		newTodayCmd(app),
		newItemCmd(app),
		newRolloverCmd(app),
		newStatsCmd(app),
		newWatchCmd(app),
		newJourneyCmd(app),
	)

	return root
}
