package repository

import (
	"context"

	"github.com/empdesk/empdesk/internal/domain"
)

// ErrNotFound is returned (wrapped) when a lookup matches no row.
var ErrNotFound = domain.ErrNotFound

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	ListByStatus(ctx context.Context, status domain.ProjectStatus) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

type EmployeeRepo interface {
	Create(ctx context.Context, e *domain.Employee) error
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
	GetByCode(ctx context.Context, code string) (*domain.Employee, error)
	List(ctx context.Context) ([]*domain.Employee, error)
	Update(ctx context.Context, e *domain.Employee) error
	Delete(ctx context.Context, id string) error
}

type AssignmentRepo interface {
	Create(ctx context.Context, a *domain.EmployeeProject) error
	GetByID(ctx context.Context, id string) (*domain.EmployeeProject, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.EmployeeProject, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]*domain.EmployeeProject, error)
	Delete(ctx context.Context, id string) error
}

// AmendmentRepo persists PO amendments. Create and Update never write
// is_active; SetActive is the only writer of that column.
type AmendmentRepo interface {
	Create(ctx context.Context, a *domain.POAmendment) error
	GetByID(ctx context.Context, id string) (*domain.POAmendment, error)
	ListByOwner(ctx context.Context, owner domain.Owner) ([]*domain.POAmendment, error)
	Update(ctx context.Context, a *domain.POAmendment) error
	Delete(ctx context.Context, id string) error

	// SetActive clears the flag on every amendment of owner and then sets it
	// on id. A nil id leaves the owner with no active amendment. Callers that
	// need atomicity run it on a transaction.
	SetActive(ctx context.Context, owner domain.Owner, id *string) error
}
