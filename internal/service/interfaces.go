package service

import (
	"context"
	"time"

	"github.com/empdesk/empdesk/internal/app"
	"github.com/empdesk/empdesk/internal/domain"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	ListByStatus(ctx context.Context, status domain.ProjectStatus) ([]*domain.Project, error)
	SetStatus(ctx context.Context, id string, status domain.ProjectStatus) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
}

type EmployeeService interface {
	Create(ctx context.Context, e *domain.Employee) error
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
	Resolve(ctx context.Context, idOrCode string) (*domain.Employee, error)
	List(ctx context.Context) ([]*domain.Employee, error)
}

type AssignmentService interface {
	Create(ctx context.Context, a *domain.EmployeeProject) error
	GetByID(ctx context.Context, id string) (*domain.EmployeeProject, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.EmployeeProject, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]*domain.EmployeeProject, error)
	Delete(ctx context.Context, id string) error
}

// AmendmentService is the user-facing CRUD for PO amendments. None of its
// operations accept or persist the active flag; each mutation is followed by
// a recalculation of the affected owner, whose result is returned.
type AmendmentService interface {
	Create(ctx context.Context, a *domain.POAmendment) (app.RecalcResult, error)
	GetByID(ctx context.Context, id string) (*domain.POAmendment, error)
	ListByOwner(ctx context.Context, owner domain.Owner) ([]*domain.POAmendment, error)
	Update(ctx context.Context, id string, patch domain.AmendmentPatch) (*domain.POAmendment, app.RecalcResult, error)
	Delete(ctx context.Context, id string) (app.RecalcResult, error)
}

// RecalcService reconciles the active flag of one owner.
type RecalcService interface {
	app.RecalcUseCase
}

type ReportService interface {
	app.POSummaryUseCase
}

// TodayFunc returns the current calendar day in the canonical timezone.
type TodayFunc func() time.Time
