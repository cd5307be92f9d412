package service

import (
	"context"
	"time"

	"github.com/empdesk/empdesk/internal/domain"
	"github.com/empdesk/empdesk/internal/repository"
	"github.com/google/uuid"
)

type projectService struct {
	projects repository.ProjectRepo
	observer UseCaseObserver
}

func NewProjectService(projects repository.ProjectRepo, observers ...UseCaseObserver) ProjectService {
	return &projectService{projects: projects, observer: useCaseObserverOrNoop(observers)}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) (err error) {
	startedAt := time.Now()
	defer func() { observe(ctx, s.observer, "create-project", startedAt, map[string]any{"name": p.Name}, &err) }()

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Status == "" {
		p.Status = domain.ProjectActive
	}
	if err = p.Validate(); err != nil {
		return err
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	return s.projects.Create(ctx, p)
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) List(ctx context.Context) ([]*domain.Project, error) {
	return s.projects.List(ctx)
}

func (s *projectService) ListByStatus(ctx context.Context, status domain.ProjectStatus) ([]*domain.Project, error) {
	return s.projects.ListByStatus(ctx, status)
}

// SetStatus moves a project between statuses. Only active projects take part
// in scheduled recalculation.
func (s *projectService) SetStatus(ctx context.Context, id string, status domain.ProjectStatus) (p *domain.Project, err error) {
	startedAt := time.Now()
	fields := map[string]any{"project_id": id, "status": string(status)}
	defer func() { observe(ctx, s.observer, "set-project-status", startedAt, fields, &err) }()

	p, err = s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Status = status
	if err = p.Validate(); err != nil {
		return nil, err
	}
	p.UpdatedAt = time.Now().UTC()
	if err = s.projects.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *projectService) Delete(ctx context.Context, id string) error {
	return s.projects.Delete(ctx, id)
}
