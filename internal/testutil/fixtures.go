package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/empdesk/empdesk/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var testEmployeeCounter atomic.Int64

// Day parses a YYYY-MM-DD literal and panics on bad input. Test-only.
func Day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(fmt.Sprintf("testutil.Day(%q): %v", s, err))
	}
	return t
}

// Project options
type ProjectOption func(*domain.Project)

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithClient(c string) ProjectOption {
	return func(p *domain.Project) {
		p.Client = c
	}
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC()
	p := &domain.Project{
		ID:        uuid.New().String(),
		Name:      name,
		Client:    "test",
		Status:    domain.ProjectActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Employee options
type EmployeeOption func(*domain.Employee)

func WithHourlyCost(c string) EmployeeOption {
	return func(e *domain.Employee) {
		e.HourlyCost = decimal.RequireFromString(c)
	}
}

func WithEmployeeStatus(s domain.EmployeeStatus) EmployeeOption {
	return func(e *domain.Employee) {
		e.Status = s
	}
}

func NewTestEmployee(name string, opts ...EmployeeOption) *domain.Employee {
	now := time.Now().UTC()
	n := testEmployeeCounter.Add(1)
	e := &domain.Employee{
		ID:         uuid.New().String(),
		Code:       fmt.Sprintf("EMP%04d", n),
		Name:       name,
		Email:      fmt.Sprintf("emp%d@example.com", n),
		Department: "engineering",
		HourlyCost: decimal.NewFromInt(50),
		Status:     domain.EmployeeActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Assignment options
type AssignmentOption func(*domain.EmployeeProject)

func WithAllocation(pct int) AssignmentOption {
	return func(a *domain.EmployeeProject) {
		a.AllocationPct = pct
	}
}

func WithAssignmentRange(start string, end *string) AssignmentOption {
	return func(a *domain.EmployeeProject) {
		a.StartDate = Day(start)
		if end != nil {
			d := Day(*end)
			a.EndDate = &d
		} else {
			a.EndDate = nil
		}
	}
}

func NewTestAssignment(employeeID, projectID string, opts ...AssignmentOption) *domain.EmployeeProject {
	now := time.Now().UTC()
	a := &domain.EmployeeProject{
		ID:            uuid.New().String(),
		EmployeeID:    employeeID,
		ProjectID:     projectID,
		AllocationPct: 50,
		StartDate:     Day("2024-01-01"),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Amendment options
type AmendmentOption func(*domain.POAmendment)

func WithEndDate(s string) AmendmentOption {
	return func(a *domain.POAmendment) {
		d := Day(s)
		a.EndDate = &d
	}
}

func WithAmount(s string) AmendmentOption {
	return func(a *domain.POAmendment) {
		d := decimal.RequireFromString(s)
		a.Amount = &d
	}
}

func WithAmendmentID(id string) AmendmentOption {
	return func(a *domain.POAmendment) {
		a.ID = id
	}
}

func WithNotes(n string) AmendmentOption {
	return func(a *domain.POAmendment) {
		a.Notes = n
	}
}

// NewTestAmendment builds an open-ended amendment starting on start.
func NewTestAmendment(owner domain.Owner, poNumber, start string, opts ...AmendmentOption) *domain.POAmendment {
	now := time.Now().UTC()
	a := &domain.POAmendment{
		ID:        uuid.New().String(),
		Owner:     owner,
		PONumber:  poNumber,
		StartDate: Day(start),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}
