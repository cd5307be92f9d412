package app

import (
	"time"

	"github.com/empdesk/empdesk/internal/domain"
)

// RecalcResult is the outcome of reconciling one owner's active amendment.
type RecalcResult struct {
	Owner domain.Owner

	// ActiveID is the amendment flagged active after the run, nil for none.
	ActiveID *string

	// Changed counts amendments whose flag flipped. Zero means no write.
	Changed int

	// Skipped counts amendments excluded as invalid.
	Skipped int

	// Err is set when the owner could not be reconciled. The stored flags are
	// unchanged in that case.
	Err error
}

// Failed reports whether the owner could not be reconciled.
func (r RecalcResult) Failed() bool {
	return r.Err != nil
}

// BatchResult summarizes one scheduler run across all active projects.
type BatchResult struct {
	Trigger    domain.RecalcTrigger
	Today      time.Time
	StartedAt  time.Time
	FinishedAt time.Time

	// Processed counts owners attempted, successful or not.
	Processed int
	// Errors counts failed owners plus projects whose assignments could not
	// be listed.
	Errors int
	// Changed sums flag flips across all owners.
	Changed int

	// Err aggregates per-owner failures, or holds the project listing error
	// that aborted the run. It is for logging only.
	Err error
}

// Duration is the wall time of the run.
func (b BatchResult) Duration() time.Duration {
	return b.FinishedAt.Sub(b.StartedAt)
}
