package cli

import (
	"time"

	"github.com/empdesk/empdesk/internal/service"
	"github.com/spf13/cobra"
)

// App holds the services CLI commands run against.
type App struct {
	Projects    service.ProjectService
	Employees   service.EmployeeService
	Assignments service.AssignmentService
	Amendments  service.AmendmentService
	Recalc      service.RecalcService
	Reports     service.ReportService
	Scheduler   Scheduler

	// Today is the current calendar day in the canonical timezone.
	Today service.TodayFunc
	// Location is the canonical timezone used for dates shown to the user.
	Location *time.Location

	// Nightly is the default of `daemon --nightly`.
	Nightly bool

	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "empdesk" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "empdesk",
		Short:         "Employee, project and purchase order desk",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newProjectCmd(app),
		newEmployeeCmd(app),
		newAssignCmd(app),
		newPOCmd(app),
		newRecalcCmd(app),
		newLoginCmd(app),
		newDaemonCmd(app),
	)

	return root
}
