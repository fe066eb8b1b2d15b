package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/ascent/internal/cli/formatter"
	"github.com/alexanderramin/ascent/internal/contract"
	"github.com/alexanderramin/ascent/internal/domain"
	"github.com/spf13/cobra"
)

func newLearnerCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "learner",
		Short: "Manage learner enrollment",
	}

	cmd.AddCommand(
		newLearnerEnrollCmd(app),
		newLearnerShowCmd(app),
		newLearnerListCmd(app),
		newLearnerResetStartCmd(app),
		newLearnerSignalsCmd(app),
	)

	return cmd
}

func newLearnerEnrollCmd(app *App) *cobra.Command {
	var name, start string

	cmd := &cobra.Command{
		Use:   "enroll",
		Short: "Enroll a new learner",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := contract.EnrollRequest{Name: name}
			if start != "" {
				t, err := parseDate(start, app.Location)
				if err != nil {
					return err
				}
				req.ProgramStart = &t
			}

			l, err := app.Enrollment.Enroll(context.Background(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Enrolled %s (%s)\n", l.Name, l.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Learner name")
	cmd.Flags().StringVar(&start, "start", "", "Program start date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newLearnerShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show a learner",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveLearner(ctx, cmd, app)
			if err != nil {
				return err
			}
			l, err := app.Enrollment.Get(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatLearner(l, app.now()))
			return nil
		},
	}
}

func newLearnerListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List enrolled learners",
		RunE: func(cmd *cobra.Command, args []string) error {
			learners, err := app.Enrollment.List(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatLearnerList(learners, app.now()))
			return nil
		},
	}
}

func newLearnerResetStartCmd(app *App) *cobra.Command {
	var start string

	cmd := &cobra.Command{
		Use:   "reset-start",
		Short: "Change a learner's program start date",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveLearner(ctx, cmd, app)
			if err != nil {
				return err
			}
			t, err := parseDate(start, app.Location)
			if err != nil {
				return err
			}
			l, err := app.Enrollment.ResetStart(ctx, id, t)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Program start for %s set to %s\n", l.Name, start)
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Program start date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func newLearnerSignalsCmd(app *App) *cobra.Command {
	var profile, assessment bool

	cmd := &cobra.Command{
		Use:   "signals",
		Short: "Set preparation signals (leader profile, baseline assessment)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveLearner(ctx, cmd, app)
			if err != nil {
				return err
			}

			var update contract.SignalsUpdate
			if cmd.Flags().Changed("profile") {
				update.ProfileComplete = domain.Ptr(profile)
			}
			if cmd.Flags().Changed("assessment") {
				update.AssessmentComplete = domain.Ptr(assessment)
			}
			if update.ProfileComplete == nil && update.AssessmentComplete == nil {
				return fmt.Errorf("nothing to update: pass --profile and/or --assessment")
			}

			l, err := app.Enrollment.SetSignals(ctx, id, update)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatLearner(l, app.now()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&profile, "profile", false, "Leader profile complete")
	cmd.Flags().BoolVar(&assessment, "assessment", false, "Baseline assessment complete")

	return cmd
}
