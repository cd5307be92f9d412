package app

import (
	"context"
	"time"

	"github.com/empdesk/empdesk/internal/domain"
)

type RecalcUseCase interface {
	RecalculateActiveAmendment(ctx context.Context, owner domain.Owner, today time.Time) RecalcResult
}

type BatchRecalcUseCase interface {
	RecalculateAllActivePOs(ctx context.Context) BatchResult
}

type SessionStartUseCase interface {
	OnSessionStart(ctx context.Context, sessionID string) bool
	EndSession(sessionID string)
	Wait()
}

type POSummaryUseCase interface {
	POSummary(ctx context.Context) ([]POSummaryRow, error)
}
