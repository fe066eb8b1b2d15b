package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/ascent/internal/service"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newWatchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Live dashboard: toggle items and watch stats update",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Feed == nil {
				return fmt.Errorf("live updates are not configured")
			}
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			id, err := resolveLearner(ctx, cmd, app)
			if err != nil {
				return err
			}
			learner, err := app.Enrollment.Get(ctx, id)
			if err != nil {
				return err
			}

			sub, err := app.Feed.Subscribe(ctx, id)
			if err != nil {
				return err
			}
			defer sub.Close()
			views, err := app.Stats.Watch(ctx, id)
			if err != nil {
				return err
			}

			tracker := service.NewTracker(app.Progress, id, learner.Signals())
			model := newWatchModel(ctx, app, id, tracker, sub.Events, views)
			_, err = tea.NewProgram(model,
				tea.WithContext(ctx),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			).Run()
			return err
		},
	}
}
