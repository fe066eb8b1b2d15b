package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/alexanderramin/ascent/internal/cli/formatter"
	"github.com/alexanderramin/ascent/internal/contract"
	"github.com/spf13/cobra"
)

func newTodayCmd(app *App) *cobra.Command {
	var peek bool
	var date string

	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show today's actions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveLearner(ctx, cmd, app)
			if err != nil {
				return err
			}

			req := contract.NewTodayRequest(id)
			req.RecordVisit = !peek
			if date != "" {
				t, err := parseDate(date, app.Location)
				if err != nil {
					return err
				}
				// A different day is always a read-only view.
				req.Now = &t
				req.RecordVisit = false
			}

			view, err := app.Journey.Today(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatToday(view))
			return nil
		},
	}

	cmd.Flags().BoolVar(&peek, "peek", false, "Do not count this as a preparation visit")
	cmd.Flags().StringVar(&date, "date", "", "Show another day (YYYY-MM-DD), read-only")

	return cmd
}

func newJourneyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journey",
		Short: "Administer the preparation journey",
	}
	cmd.AddCommand(newJourneySetDayCmd(app))
	return cmd
}

func newJourneySetDayCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-day <day>",
		Short: "Set the learner's journey day by rewriting the visit log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveLearner(ctx, cmd, app)
			if err != nil {
				return err
			}
			day, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid day %q: %w", args[0], err)
			}
			if err := app.Journey.SetJourneyDay(ctx, id, day); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Journey day set to %d\n", day)
			return nil
		},
	}
}
