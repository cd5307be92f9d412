package cli

import (
	"fmt"
	"strings"

	"github.com/empdesk/empdesk/internal/cli/formatter"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newLoginCmd(app *App) *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Start a session and run the session-start PO recalculation",
		RunE: func(cmd *cobra.Command, args []string) error {
			user = strings.TrimSpace(user)
			if user == "" {
				return fmt.Errorf("--user is required")
			}
			sessionID := user + "/" + uuid.New().String()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.Success(fmt.Sprintf("Session started for %s", formatter.Bold(user))))
			if !app.Scheduler.OnSessionStart(cmd.Context(), sessionID) {
				return nil
			}
			defer app.Scheduler.EndSession(sessionID)

			// The recalculation runs in the background; the process must not
			// exit before it finishes.
			app.Scheduler.Wait()
			if last, ok := app.Scheduler.LastRun(); ok {
				fmt.Fprintln(out, formatter.FormatBatchResult(last))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "User name (required)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
