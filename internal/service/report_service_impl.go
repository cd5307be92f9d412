package service

import (
	"context"
	"fmt"
	"time"

	"github.com/empdesk/empdesk/internal/app"
	"github.com/empdesk/empdesk/internal/domain"
	"github.com/shopspring/decimal"
)

type reportService struct {
	store    AmendmentStore
	observer UseCaseObserver
}

func NewReportService(store AmendmentStore, observers ...UseCaseObserver) ReportService {
	return &reportService{store: store, observer: useCaseObserverOrNoop(observers)}
}

// POSummary reports the stored active PO of every active project. It reads
// the cached flag and does not recalculate.
func (s *reportService) POSummary(ctx context.Context) (rows []app.POSummaryRow, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer func() {
		fields["projects"] = len(rows)
		observe(ctx, s.observer, "po-summary", startedAt, fields, &err)
	}()

	projects, err := s.store.ListActiveProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing active projects: %w", err)
	}

	rows = make([]app.POSummaryRow, 0, len(projects))
	for _, p := range projects {
		row := app.POSummaryRow{ProjectID: p.ID, ProjectName: p.Name, Client: p.Client, TotalAmount: decimal.Zero}

		amendments, err := s.store.ListAmendments(ctx, p.Owner())
		if err != nil {
			return nil, fmt.Errorf("listing amendments for %s: %w", p.Name, err)
		}
		row.AmendmentCount = len(amendments)
		for _, a := range amendments {
			if a.Amount != nil {
				row.TotalAmount = row.TotalAmount.Add(*a.Amount)
			}
			if a.IsActive {
				row.ActivePONumber = a.PONumber
				row.ActiveAmount = a.Amount
			}
		}

		assignments, err := s.store.ListAssignmentsByProject(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("listing assignments for %s: %w", p.Name, err)
		}
		row.AssignmentCount = len(assignments)
		for _, asg := range assignments {
			covered, err := s.hasActive(ctx, asg.Owner())
			if err != nil {
				return nil, err
			}
			if !covered {
				row.AssignmentsWithoutPO++
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *reportService) hasActive(ctx context.Context, owner domain.Owner) (bool, error) {
	amendments, err := s.store.ListAmendments(ctx, owner)
	if err != nil {
		return false, fmt.Errorf("listing amendments for %s: %w", owner, err)
	}
	for _, a := range amendments {
		if a.IsActive {
			return true, nil
		}
	}
	return false, nil
}
