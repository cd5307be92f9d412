package cli

import (
	"fmt"

	"github.com/empdesk/empdesk/internal/cli/formatter"
	"github.com/empdesk/empdesk/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newEmployeeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "employee",
		Aliases: []string{"emp"},
		Short:   "Manage employees",
	}

	cmd.AddCommand(
		newEmployeeAddCmd(app),
		newEmployeeListCmd(app),
	)

	return cmd
}

func newEmployeeAddCmd(app *App) *cobra.Command {
	var code, name, email, department, hourlyCost string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register an employee",
		RunE: func(cmd *cobra.Command, args []string) error {
			e := &domain.Employee{
				Code:       code,
				Name:       name,
				Email:      email,
				Department: department,
				Status:     domain.EmployeeActive,
			}
			if hourlyCost != "" {
				cost, err := decimal.NewFromString(hourlyCost)
				if err != nil {
					return fmt.Errorf("invalid --hourly-cost %q: %w", hourlyCost, err)
				}
				e.HourlyCost = cost
			}
			if err := app.Employees.Create(cmd.Context(), e); err != nil {
				return fmt.Errorf("creating employee: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Registered %s %s (%s)", e.Code, formatter.Bold(e.Name), e.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "Employee code, unique (required)")
	cmd.Flags().StringVar(&name, "name", "", "Full name (required)")
	cmd.Flags().StringVar(&email, "email", "", "Work email")
	cmd.Flags().StringVar(&department, "department", "", "Department")
	cmd.Flags().StringVar(&hourlyCost, "hourly-cost", "", "Hourly cost, e.g. 42.50")
	_ = cmd.MarkFlagRequired("code")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newEmployeeListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List employees",
		RunE: func(cmd *cobra.Command, args []string) error {
			employees, err := app.Employees.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing employees: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(employees) == 0 {
				fmt.Fprintln(out, formatter.Dim("No employees."))
				return nil
			}
			rows := make([][]string, 0, len(employees))
			for _, e := range employees {
				rows = append(rows, []string{
					e.Code,
					formatter.Bold(e.Name),
					e.Department,
					e.HourlyCost.StringFixed(2),
					formatter.EmployeeStatusPill(e.Status),
				})
			}
			fmt.Fprint(out, formatter.RenderTable([]string{"CODE", "NAME", "DEPARTMENT", "HOURLY", "STATUS"}, rows))
			return nil
		},
	}
}
