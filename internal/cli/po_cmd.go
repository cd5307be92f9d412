package cli

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/empdesk/empdesk/internal/app"
	"github.com/empdesk/empdesk/internal/cli/formatter"
	"github.com/empdesk/empdesk/internal/domain"
	"github.com/spf13/cobra"
)

func newPOCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "po",
		Short: "Manage purchase order amendments",
		Long: "Manage the dated PO amendments of a project or an assignment.\n" +
			"The active amendment is derived from the dates and is recalculated after every change.",
	}

	cmd.AddCommand(
		newPOAddCmd(app),
		newPOEditCmd(app),
		newPORemoveCmd(app),
		newPOListCmd(app),
		newPOSummaryCmd(app),
		newPOExportCmd(app),
	)

	return cmd
}

// ownerFlags registers --project and --assignment on cmd.
func ownerFlags(cmd *cobra.Command, project, assignment *string) {
	cmd.Flags().StringVar(project, "project", "", "Project ID, ID prefix or name")
	cmd.Flags().StringVar(assignment, "assignment", "", "Assignment ID")
	cmd.MarkFlagsMutuallyExclusive("project", "assignment")
}

func newPOAddCmd(app *App) *cobra.Command {
	var project, assignment string
	var in amendmentInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a PO amendment",
		Long: "Add a PO amendment to a project or an assignment. When run in a terminal\n" +
			"without --po-number or --start, the missing fields are prompted for.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			owner, err := resolveOwner(ctx, app, project, assignment)
			if err != nil {
				return err
			}

			if !in.complete() {
				if !app.interactive() {
					return fmt.Errorf("--po-number and --start are required")
				}
				if err := amendmentForm(owner, &in).RunWithContext(ctx); err != nil {
					return fmt.Errorf("amendment form: %w", err)
				}
			}

			a, err := in.toDomain(owner)
			if err != nil {
				return err
			}
			res, err := app.Amendments.Create(ctx, a)
			if err != nil {
				return fmt.Errorf("creating amendment: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.Success(fmt.Sprintf("Added %s (%s)", formatter.Bold(a.PONumber), a.ID)))
			fmt.Fprintln(out, formatter.FormatRecalcResult(res))
			return nil
		},
	}

	ownerFlags(cmd, &project, &assignment)
	cmd.Flags().StringVar(&in.PONumber, "po-number", "", "Purchase order number")
	cmd.Flags().StringVar(&in.Start, "start", "", "First day the PO applies, YYYY-MM-DD")
	cmd.Flags().StringVar(&in.End, "end", "", "Last day the PO applies, YYYY-MM-DD (omit for open-ended)")
	cmd.Flags().StringVar(&in.Amount, "amount", "", "PO amount")
	cmd.Flags().StringVar(&in.Notes, "notes", "", "Free-form notes")

	return cmd
}

func newPOEditCmd(app *App) *cobra.Command {
	var poNumber, start, end, amount, notes string
	var clearEnd bool

	cmd := &cobra.Command{
		Use:   "edit <amendment-id>",
		Short: "Change a PO amendment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			var patch domain.AmendmentPatch

			if flags.Changed("po-number") {
				patch.PONumber = &poNumber
			}
			if flags.Changed("start") {
				d, err := parseRequiredDay("start", start)
				if err != nil {
					return err
				}
				patch.StartDate = &d
			}
			if flags.Changed("end") {
				d, err := parseOptionalDay("end", end)
				if err != nil {
					return err
				}
				patch.EndDate = d
			}
			patch.ClearEnd = clearEnd
			if flags.Changed("amount") {
				d, err := parseOptionalAmount(amount)
				if err != nil {
					return err
				}
				patch.Amount = d
			}
			if flags.Changed("notes") {
				patch.Notes = &notes
			}

			a, res, err := app.Amendments.Update(cmd.Context(), args[0], patch)
			if err != nil {
				return fmt.Errorf("updating amendment: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.Success(fmt.Sprintf("Updated %s (%s)", formatter.Bold(a.PONumber), a.ID)))
			fmt.Fprintln(out, formatter.FormatRecalcResult(res))
			return nil
		},
	}

	cmd.Flags().StringVar(&poNumber, "po-number", "", "New purchase order number")
	cmd.Flags().StringVar(&start, "start", "", "New start day, YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "New end day, YYYY-MM-DD")
	cmd.Flags().BoolVar(&clearEnd, "clear-end", false, "Make the amendment open-ended")
	cmd.Flags().StringVar(&amount, "amount", "", "New amount")
	cmd.Flags().StringVar(&notes, "notes", "", "New notes")
	cmd.MarkFlagsMutuallyExclusive("end", "clear-end")

	return cmd
}

func newPORemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <amendment-id>",
		Short: "Delete a PO amendment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Amendments.Delete(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("deleting amendment: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.Success("Deleted amendment "+args[0]))
			fmt.Fprintln(out, formatter.FormatRecalcResult(res))
			return nil
		},
	}
}

func newPOListCmd(app *App) *cobra.Command {
	var project, assignment string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the PO amendments of a project or an assignment",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			owner, err := resolveOwner(ctx, app, project, assignment)
			if err != nil {
				return err
			}
			list, err := app.Amendments.ListByOwner(ctx, owner)
			if err != nil {
				return fmt.Errorf("listing amendments: %w", err)
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatAmendments(owner, list, app.today()))
			return nil
		},
	}

	ownerFlags(cmd, &project, &assignment)
	return cmd
}

func newPOSummaryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show the active PO of every active project",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := app.Reports.POSummary(cmd.Context())
			if err != nil {
				return fmt.Errorf("building PO summary: %w", err)
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSummary(rows))
			return nil
		},
	}
}

func newPOExportCmd(app *App) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the PO summary as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := app.Reports.POSummary(cmd.Context())
			if err != nil {
				return fmt.Errorf("building PO summary: %w", err)
			}

			if output == "" || output == "-" {
				return writeSummaryCSV(cmd.OutOrStdout(), rows)
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			if err := writeSummaryCSV(f, rows); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("closing %s: %w", output, err)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), formatter.Success(fmt.Sprintf("Wrote %d projects to %s", len(rows), output)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "File to write, default stdout")
	return cmd
}

var summaryCSVHeader = []string{
	"project_id", "project_name", "client",
	"active_po", "active_amount", "total_amount",
	"amendments", "assignments", "assignments_without_po",
}

func writeSummaryCSV(w io.Writer, rows []app.POSummaryRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(summaryCSVHeader); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	for _, r := range rows {
		activeAmount := ""
		if r.ActiveAmount != nil {
			activeAmount = r.ActiveAmount.StringFixed(2)
		}
		record := []string{
			r.ProjectID, r.ProjectName, r.Client,
			r.ActivePONumber, activeAmount, r.TotalAmount.StringFixed(2),
			strconv.Itoa(r.AmendmentCount),
			strconv.Itoa(r.AssignmentCount),
			strconv.Itoa(r.AssignmentsWithoutPO),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
