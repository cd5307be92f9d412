package service

import (
	"context"
	"fmt"
	"time"

	"github.com/empdesk/empdesk/internal/db"
	"github.com/empdesk/empdesk/internal/domain"
	"github.com/empdesk/empdesk/internal/repository"
	"github.com/google/uuid"
)

type assignmentService struct {
	assignments repository.AssignmentRepo
	uow         db.UnitOfWork
	observer    UseCaseObserver
}

func NewAssignmentService(assignments repository.AssignmentRepo, uow db.UnitOfWork, observers ...UseCaseObserver) AssignmentService {
	return &assignmentService{assignments: assignments, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// Create adds an assignment after checking that the employee's allocation
// across every overlapping assignment stays within 100%.
func (s *assignmentService) Create(ctx context.Context, a *domain.EmployeeProject) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"employee_id": a.EmployeeID, "project_id": a.ProjectID, "allocation_pct": a.AllocationPct}
	defer func() { observe(ctx, s.observer, "create-assignment", startedAt, fields, &err) }()

	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if err = a.Validate(); err != nil {
		return err
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txEmployees := repository.NewSQLiteEmployeeRepo(tx)
		txAssignments := repository.NewSQLiteAssignmentRepo(tx)

		if _, err := txProjects.GetByID(ctx, a.ProjectID); err != nil {
			return err
		}
		emp, err := txEmployees.GetByID(ctx, a.EmployeeID)
		if err != nil {
			return err
		}
		if emp.Status != domain.EmployeeActive {
			return fmt.Errorf("%w: employee %s is %s", domain.ErrValidation, emp.Code, emp.Status)
		}

		existing, err := txAssignments.ListByEmployee(ctx, a.EmployeeID)
		if err != nil {
			return err
		}
		total := a.AllocationPct
		for _, other := range existing {
			if other.Overlaps(a) {
				total += other.AllocationPct
			}
		}
		if total > 100 {
			return fmt.Errorf("%w: employee %s would be allocated %d%% over this period", domain.ErrValidation, emp.Code, total)
		}

		return txAssignments.Create(ctx, a)
	})
}

func (s *assignmentService) GetByID(ctx context.Context, id string) (*domain.EmployeeProject, error) {
	return s.assignments.GetByID(ctx, id)
}

func (s *assignmentService) ListByProject(ctx context.Context, projectID string) ([]*domain.EmployeeProject, error) {
	return s.assignments.ListByProject(ctx, projectID)
}

func (s *assignmentService) ListByEmployee(ctx context.Context, employeeID string) ([]*domain.EmployeeProject, error) {
	return s.assignments.ListByEmployee(ctx, employeeID)
}

func (s *assignmentService) Delete(ctx context.Context, id string) error {
	return s.assignments.Delete(ctx, id)
}
