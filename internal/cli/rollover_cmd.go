package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/ascent/internal/cli/formatter"
	"github.com/alexanderramin/ascent/internal/contract"
	"github.com/alexanderramin/ascent/internal/service"
	"github.com/spf13/cobra"
)

func newRolloverCmd(app *App) *cobra.Command {
	var week int
	var dryRun, yes bool

	cmd := &cobra.Command{
		Use:   "rollover",
		Short: "Carry unfinished items into the next week",
		Long: "Carries every unfinished required item of a finished week into the next one.\n" +
			"Items that reach the carry limit are archived. Without --week the boundary\n" +
			"closed by the learner's current week is used.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			out := cmd.OutOrStdout()
			id, err := resolveLearner(ctx, cmd, app)
			if err != nil {
				return err
			}

			req := contract.NewRolloverRequest(id, week)
			if week == 0 {
				due, ok, err := app.Rollover.Due(ctx, id)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, formatter.Dim("No rollover due."))
					return nil
				}
				req = due
			}

			preview, err := app.Rollover.Preview(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprint(out, formatter.FormatRolloverPreview(preview))
			if dryRun || preview.AlreadyRun {
				return nil
			}

			if preview.WouldArchive > 0 && !yes {
				if !app.interactive() {
					return fmt.Errorf("%d item(s) would be archived; rerun with --yes to confirm", preview.WouldArchive)
				}
				ok, err := app.confirm(fmt.Sprintf("Archive %d item(s)?", preview.WouldArchive))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Cancelled.")
					return nil
				}
			}

			result, err := app.Rollover.Rollover(ctx, req)
			if errors.Is(err, service.ErrAlreadyRolledOver) {
				fmt.Fprintln(out, formatter.StyleYellow.Render("Already rolled over."))
				return nil
			}
			if result != nil {
				fmt.Fprint(out, formatter.FormatRolloverResult(result))
			}
			if err != nil && result != nil && result.Failed > 0 {
				return fmt.Errorf("%d item(s) failed; rerun rollover to retry them: %w", result.Failed, err)
			}
			return err
		},
	}

	cmd.Flags().IntVar(&week, "week", 0, "Week to close (default: the week before the current one)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would happen without writing")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Archive without asking")

	return cmd
}
