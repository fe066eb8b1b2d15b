package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/ascent/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show streaks, points and badges",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveLearner(ctx, cmd, app)
			if err != nil {
				return err
			}
			view, err := app.Stats.Get(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatStats(view))
			return nil
		},
	}
}
