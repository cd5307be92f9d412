package cli

import (
	"context"
	"time"

	"github.com/empdesk/empdesk/internal/app"
	"github.com/empdesk/empdesk/internal/scheduler"
)

// Scheduler is the slice of *scheduler.Scheduler the commands drive.
type Scheduler interface {
	app.BatchRecalcUseCase
	app.SessionStartUseCase

	Start(ctx context.Context) error
	Stop()
	State() scheduler.State
	NextRun() time.Time
	LastRun() (app.BatchResult, bool)
}

var _ Scheduler = (*scheduler.Scheduler)(nil)

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) today() time.Time {
	if a.Today != nil {
		return a.Today()
	}
	return time.Now().UTC().Truncate(24 * time.Hour)
}

func (a *App) location() *time.Location {
	if a.Location != nil {
		return a.Location
	}
	return time.UTC
}
