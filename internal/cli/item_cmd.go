package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/ascent/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newItemCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Update action item progress",
	}

	cmd.AddCommand(
		newItemCompleteCmd(app),
		newItemUncompleteCmd(app),
		newItemSkipCmd(app),
		newItemCarryCmd(app),
		newItemListCmd(app),
	)

	return cmd
}

func newItemCompleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <item-id>",
		Short: "Mark an item complete",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveLearner(ctx, cmd, app)
			if err != nil {
				return err
			}
			rec, err := app.Progress.Complete(ctx, id, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", formatter.StatusPill(rec.Status), rec.ItemID)
			return nil
		},
	}
}

func newItemUncompleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "uncomplete <item-id>",
		Short: "Return a completed item to pending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveLearner(ctx, cmd, app)
			if err != nil {
				return err
			}
			rec, err := app.Progress.Uncomplete(ctx, id, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", formatter.StatusPill(rec.Status), rec.ItemID)
			return nil
		},
	}
}

func newItemSkipCmd(app *App) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "skip <item-id>",
		Short: "Skip an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveLearner(ctx, cmd, app)
			if err != nil {
				return err
			}
			rec, err := app.Progress.Skip(ctx, id, args[0], reason)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", formatter.StatusPill(rec.Status), rec.ItemID)
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Why the item is skipped")

	return cmd
}

func newItemCarryCmd(app *App) *cobra.Command {
	var from, to int

	cmd := &cobra.Command{
		Use:   "carry <item-id>",
		Short: "Carry a single item into a later week",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveLearner(ctx, cmd, app)
			if err != nil {
				return err
			}
			if to == 0 {
				to = from + 1
			}
			res, err := app.Progress.CarryOver(ctx, id, args[0], from, to)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case res.Unchanged:
				fmt.Fprintf(out, "%s is archived; nothing to carry\n", res.ItemID)
			case res.Archived:
				fmt.Fprintf(out, "%s archived after %d carries\n", res.ItemID, res.CarryCount)
			default:
				fmt.Fprintf(out, "Carried %s into week %d %s\n", res.ItemID, to, formatter.CarryBadge(res.CarryCount, res.LastChance))
			}
			return nil
		},
	}

	addWeekFlags(cmd.Flags(), &from, &to)
	_ = cmd.MarkFlagRequired("from")

	return cmd
}

func newItemListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored progress records",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveLearner(ctx, cmd, app)
			if err != nil {
				return err
			}
			records, err := app.Progress.List(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRecords(records, app.now()))
			return nil
		},
	}
}
