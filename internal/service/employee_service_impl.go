package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/empdesk/empdesk/internal/domain"
	"github.com/empdesk/empdesk/internal/repository"
	"github.com/google/uuid"
)

type employeeService struct {
	employees repository.EmployeeRepo
	observer  UseCaseObserver
}

func NewEmployeeService(employees repository.EmployeeRepo, observers ...UseCaseObserver) EmployeeService {
	return &employeeService{employees: employees, observer: useCaseObserverOrNoop(observers)}
}

func (s *employeeService) Create(ctx context.Context, e *domain.Employee) (err error) {
	startedAt := time.Now()
	defer func() { observe(ctx, s.observer, "create-employee", startedAt, map[string]any{"code": e.Code}, &err) }()

	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Status == "" {
		e.Status = domain.EmployeeActive
	}
	e.Code = strings.ToUpper(strings.TrimSpace(e.Code))
	if err = e.Validate(); err != nil {
		return err
	}
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now
	return s.employees.Create(ctx, e)
}

func (s *employeeService) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	return s.employees.GetByID(ctx, id)
}

// Resolve accepts either an employee ID or an employee code.
func (s *employeeService) Resolve(ctx context.Context, idOrCode string) (*domain.Employee, error) {
	e, err := s.employees.GetByID(ctx, idOrCode)
	if err == nil {
		return e, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return s.employees.GetByCode(ctx, idOrCode)
}

func (s *employeeService) List(ctx context.Context) ([]*domain.Employee, error) {
	return s.employees.List(ctx)
}
