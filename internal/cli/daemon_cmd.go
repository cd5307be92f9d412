package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/empdesk/empdesk/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newDaemonCmd(app *App) *cobra.Command {
	var nightly, watch, now bool

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run scheduled PO recalculation until interrupted",
		Long: "Run the PO scheduler in the foreground. With --nightly every active project\n" +
			"is recalculated at local midnight. Stops on SIGINT or SIGTERM.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("nightly") {
				nightly = app.Nightly
			}
			if !nightly && !now {
				return fmt.Errorf("nothing to run: pass --nightly (or set EMPDESK_NIGHTLY) or --now")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if nightly {
				if err := app.Scheduler.Start(ctx); err != nil {
					return fmt.Errorf("starting scheduler: %w", err)
				}
			}
			defer app.Scheduler.Stop()

			if watch && app.interactive() {
				return runSchedulerWatch(ctx, app, now)
			}

			out := cmd.OutOrStdout()
			if now {
				fmt.Fprintln(out, formatter.FormatBatchResult(app.Scheduler.TriggerNow(ctx)))
			}
			if !nightly {
				return nil
			}
			fmt.Fprintln(out, formatter.Dim(fmt.Sprintf("Next run at %s. Ctrl+C to stop.", app.Scheduler.NextRun().In(app.location()).Format("2006-01-02 15:04 MST"))))
			<-ctx.Done()
			fmt.Fprintln(out, formatter.Dim("Stopping scheduler..."))
			return nil
		},
	}

	cmd.Flags().BoolVar(&nightly, "nightly", false, "Recalculate at every local midnight")
	cmd.Flags().BoolVar(&watch, "watch", false, "Show a live status view (terminal only)")
	cmd.Flags().BoolVar(&now, "now", false, "Run one recalculation immediately")
	return cmd
}

func runSchedulerWatch(ctx context.Context, app *App, now bool) error {
	view := newSchedulerView(app.Scheduler, app.location(), nil)
	p := tea.NewProgram(view, tea.WithContext(ctx), tea.WithAltScreen())
	if now {
		view.triggering = true
		trigger := view.trigger()
		go func() { p.Send(trigger()) }()
	}
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("status view: %w", err)
	}
	return nil
}
