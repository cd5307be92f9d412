package cli

import (
	"fmt"

	"github.com/empdesk/empdesk/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newRecalcCmd(app *App) *cobra.Command {
	var project, assignment, today string

	cmd := &cobra.Command{
		Use:   "recalc",
		Short: "Recalculate active PO amendments",
		Long: "Recalculate which PO amendment is active. Without --project or --assignment\n" +
			"every active project and its assignments are reconciled.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if project == "" && assignment == "" {
				if today != "" {
					return fmt.Errorf("--today applies only with --project or --assignment")
				}
				stop := func() {}
				if app.interactive() {
					stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Recalculating active POs...")
				}
				res := app.Scheduler.RecalculateAllActivePOs(ctx)
				stop()
				fmt.Fprintln(out, formatter.FormatBatchResult(res))
				return nil
			}

			owner, err := resolveOwner(ctx, app, project, assignment)
			if err != nil {
				return err
			}
			day := app.today()
			if today != "" {
				d, err := parseRequiredDay("today", today)
				if err != nil {
					return err
				}
				day = d
			}

			res := app.Recalc.RecalculateActiveAmendment(ctx, owner, day)
			fmt.Fprintln(out, formatter.FormatRecalcResult(res))
			if res.Failed() {
				return fmt.Errorf("recalculation failed for %s", owner)
			}
			return nil
		},
	}

	ownerFlags(cmd, &project, &assignment)
	cmd.Flags().StringVar(&today, "today", "", "Reconcile as of this day, YYYY-MM-DD")
	return cmd
}
