package cli

import (
	"fmt"
	"strings"

	"github.com/empdesk/empdesk/internal/cli/formatter"
	"github.com/empdesk/empdesk/internal/domain"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectSetStatusCmd(app),
		newProjectRemoveCmd(app),
	)

	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var name, client, status string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new project",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := &domain.Project{Name: strings.TrimSpace(name), Client: strings.TrimSpace(client)}
			if status != "" {
				st, err := domain.ParseProjectStatus(status)
				if err != nil {
					return err
				}
				p.Status = st
			}
			if err := app.Projects.Create(cmd.Context(), p); err != nil {
				return fmt.Errorf("creating project: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Created project %s (%s)", formatter.Bold(p.Name), p.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name (required)")
	cmd.Flags().StringVar(&client, "client", "", "Client the project is billed to")
	cmd.Flags().StringVar(&status, "status", "", "Initial status: active, on_hold, completed, cancelled")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var (
				projects []*domain.Project
				err      error
			)
			if status != "" {
				st, perr := domain.ParseProjectStatus(status)
				if perr != nil {
					return perr
				}
				projects, err = app.Projects.ListByStatus(ctx, st)
			} else {
				projects, err = app.Projects.List(ctx)
			}
			if err != nil {
				return fmt.Errorf("listing projects: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(projects) == 0 {
				fmt.Fprintln(out, formatter.Dim("No projects."))
				return nil
			}
			rows := make([][]string, 0, len(projects))
			for _, p := range projects {
				rows = append(rows, []string{formatter.TruncID(p.ID), formatter.Bold(p.Name), p.Client, formatter.StatusPill(p.Status)})
			}
			fmt.Fprint(out, formatter.RenderTable([]string{"ID", "NAME", "CLIENT", "STATUS"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Only list projects with this status")
	return cmd
}

func newProjectSetStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <project> <status>",
		Short: "Change a project's status",
		Long:  "Change a project's status. Only active projects take part in scheduled PO recalculation.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			st, err := domain.ParseProjectStatus(args[1])
			if err != nil {
				return err
			}
			p, err := app.Projects.SetStatus(ctx, id, st)
			if err != nil {
				return fmt.Errorf("updating project: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("%s is now %s", formatter.Bold(p.Name), formatter.StatusPill(p.Status))))
			return nil
		},
	}
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <project>",
		Short: "Delete a project with its assignments and PO amendments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.Delete(ctx, id); err != nil {
				return fmt.Errorf("deleting project: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Deleted project "+id))
			return nil
		},
	}
}
