package service

import (
	"context"

	"github.com/empdesk/empdesk/internal/db"
	"github.com/empdesk/empdesk/internal/domain"
	"github.com/empdesk/empdesk/internal/repository"
)

// AmendmentStore is the storage surface the recalculation core consumes.
type AmendmentStore interface {
	ListActiveProjects(ctx context.Context) ([]*domain.Project, error)
	ListAssignmentsByProject(ctx context.Context, projectID string) ([]*domain.EmployeeProject, error)
	ListAmendments(ctx context.Context, owner domain.Owner) ([]*domain.POAmendment, error)

	// SetActiveAmendment atomically clears every active flag of owner and
	// sets it on amendmentID. nil leaves the owner with none active.
	SetActiveAmendment(ctx context.Context, owner domain.Owner, amendmentID *string) error
}

type sqliteAmendmentStore struct {
	projects    repository.ProjectRepo
	assignments repository.AssignmentRepo
	amendments  repository.AmendmentRepo
	uow         db.UnitOfWork
}

func NewAmendmentStore(
	projects repository.ProjectRepo,
	assignments repository.AssignmentRepo,
	amendments repository.AmendmentRepo,
	uow db.UnitOfWork,
) AmendmentStore {
	return &sqliteAmendmentStore{
		projects:    projects,
		assignments: assignments,
		amendments:  amendments,
		uow:         uow,
	}
}

func (s *sqliteAmendmentStore) ListActiveProjects(ctx context.Context) ([]*domain.Project, error) {
	return s.projects.ListByStatus(ctx, domain.ProjectActive)
}

func (s *sqliteAmendmentStore) ListAssignmentsByProject(ctx context.Context, projectID string) ([]*domain.EmployeeProject, error) {
	return s.assignments.ListByProject(ctx, projectID)
}

func (s *sqliteAmendmentStore) ListAmendments(ctx context.Context, owner domain.Owner) ([]*domain.POAmendment, error) {
	return s.amendments.ListByOwner(ctx, owner)
}

func (s *sqliteAmendmentStore) SetActiveAmendment(ctx context.Context, owner domain.Owner, amendmentID *string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteAmendmentRepo(tx).SetActive(ctx, owner, amendmentID)
	})
}
