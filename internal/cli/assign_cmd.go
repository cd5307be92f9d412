package cli

import (
	"fmt"

	"github.com/empdesk/empdesk/internal/cli/formatter"
	"github.com/empdesk/empdesk/internal/domain"
	"github.com/spf13/cobra"
)

func newAssignCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Assign employees to projects",
	}

	cmd.AddCommand(
		newAssignAddCmd(app),
		newAssignListCmd(app),
	)

	return cmd
}

func newAssignAddCmd(app *App) *cobra.Command {
	var employee, project, start, end string
	var allocation int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Assign an employee to a project for a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			emp, err := app.Employees.Resolve(ctx, employee)
			if err != nil {
				return fmt.Errorf("employee %q: %w", employee, err)
			}
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			startDay, err := parseRequiredDay("start", start)
			if err != nil {
				return err
			}
			endDay, err := parseOptionalDay("end", end)
			if err != nil {
				return err
			}

			a := &domain.EmployeeProject{
				EmployeeID:    emp.ID,
				ProjectID:     projectID,
				AllocationPct: allocation,
				StartDate:     startDay,
				EndDate:       endDay,
			}
			if err := app.Assignments.Create(ctx, a); err != nil {
				return fmt.Errorf("creating assignment: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Assigned %s at %d%% (assignment %s)", emp.Code, a.AllocationPct, a.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&employee, "employee", "", "Employee ID or code (required)")
	cmd.Flags().StringVar(&project, "project", "", "Project ID, ID prefix or name (required)")
	cmd.Flags().IntVar(&allocation, "allocation", 100, "Allocation percentage, 1-100")
	cmd.Flags().StringVar(&start, "start", "", "First day of the assignment, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&end, "end", "", "Last day of the assignment, YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("employee")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func newAssignListCmd(app *App) *cobra.Command {
	var employee, project string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List assignments of a project or an employee",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var (
				list []*domain.EmployeeProject
				err  error
			)
			switch {
			case project != "" && employee != "":
				return fmt.Errorf("use either --project or --employee, not both")
			case project != "":
				id, rerr := resolveProjectID(ctx, app, project)
				if rerr != nil {
					return rerr
				}
				list, err = app.Assignments.ListByProject(ctx, id)
			case employee != "":
				emp, rerr := app.Employees.Resolve(ctx, employee)
				if rerr != nil {
					return fmt.Errorf("employee %q: %w", employee, rerr)
				}
				list, err = app.Assignments.ListByEmployee(ctx, emp.ID)
			default:
				return fmt.Errorf("one of --project or --employee is required")
			}
			if err != nil {
				return fmt.Errorf("listing assignments: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, formatter.Dim("No assignments."))
				return nil
			}
			rows := make([][]string, 0, len(list))
			for _, a := range list {
				start := a.StartDate
				rows = append(rows, []string{
					a.ID,
					formatter.TruncID(a.EmployeeID),
					formatter.TruncID(a.ProjectID),
					fmt.Sprintf("%d%%", a.AllocationPct),
					formatter.Date(&start),
					formatter.Date(a.EndDate),
				})
			}
			fmt.Fprint(out, formatter.RenderTable([]string{"ID", "EMPLOYEE", "PROJECT", "ALLOC", "START", "END"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&employee, "employee", "", "Employee ID or code")
	cmd.Flags().StringVar(&project, "project", "", "Project ID, ID prefix or name")
	return cmd
}
