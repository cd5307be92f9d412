package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/empdesk/empdesk/internal/app"
	"github.com/empdesk/empdesk/internal/domain"
	"github.com/empdesk/empdesk/internal/po"
)

type recalcService struct {
	store    AmendmentStore
	timeout  time.Duration
	logger   *slog.Logger
	observer UseCaseObserver
}

// NewRecalcService builds the engine. Each owner's read-decide-write cycle is
// bounded by timeout; zero disables the bound.
func NewRecalcService(store AmendmentStore, timeout time.Duration, logger *slog.Logger, observers ...UseCaseObserver) RecalcService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &recalcService{
		store:    store,
		timeout:  timeout,
		logger:   logger,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *recalcService) RecalculateActiveAmendment(ctx context.Context, owner domain.Owner, today time.Time) (res app.RecalcResult) {
	startedAt := time.Now()
	fields := map[string]any{
		"owner": owner.String(),
		"today": today.Format(po.DateLayout),
	}
	res.Owner = owner
	defer func() {
		fields["changed"] = res.Changed
		fields["skipped"] = res.Skipped
		if res.ActiveID != nil {
			fields["active_id"] = *res.ActiveID
		}
		observe(ctx, s.observer, "recalc-owner", startedAt, fields, &res.Err)
	}()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	amendments, err := s.store.ListAmendments(ctx, owner)
	if err != nil {
		res.Err = fmt.Errorf("%w: listing amendments for %s: %w", po.ErrStorageUnavailable, owner, err)
		return res
	}

	plan := po.Compute(amendments, today)
	res.Skipped = len(plan.Invalid)
	for _, invalid := range plan.Invalid {
		s.logger.WarnContext(ctx, "po_amendment_excluded", "owner", owner.String(), "error", invalid.Error())
	}

	if !plan.NeedsWrite() {
		res.ActiveID = plan.DesiredActiveID
		return res
	}

	// A deadline that passed during the read must not be followed by a write.
	if err := ctx.Err(); err != nil {
		res.Err = fmt.Errorf("%w: recalculating %s: %w", po.ErrStorageUnavailable, owner, err)
		res.ActiveID = activeIDOf(amendments)
		return res
	}

	if err := s.store.SetActiveAmendment(ctx, owner, plan.DesiredActiveID); err != nil {
		res.Err = fmt.Errorf("%w: setting active amendment for %s: %w", po.ErrStorageUnavailable, owner, err)
		res.ActiveID = activeIDOf(amendments)
		return res
	}
	res.ActiveID = plan.DesiredActiveID
	res.Changed = len(plan.Flips)
	return res
}

// activeIDOf returns the currently stored active amendment, used when a write
// fails and the stored state is what remains.
func activeIDOf(amendments []*domain.POAmendment) *string {
	for _, a := range amendments {
		if a.IsActive {
			id := a.ID
			return &id
		}
	}
	return nil
}
