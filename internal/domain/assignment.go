package domain

import (
	"fmt"
	"time"
)

// EmployeeProject assigns an employee to a project for a date range at a
// given allocation. Each assignment carries its own PO amendments.
type EmployeeProject struct {
	ID            string
	EmployeeID    string
	ProjectID     string
	AllocationPct int
	StartDate     time.Time
	EndDate       *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (a *EmployeeProject) Validate() error {
	if a.EmployeeID == "" || a.ProjectID == "" {
		return fmt.Errorf("%w: employee and project are required", ErrValidation)
	}
	if a.AllocationPct <= 0 || a.AllocationPct > 100 {
		return fmt.Errorf("%w: allocation must be between 1 and 100, got %d", ErrValidation, a.AllocationPct)
	}
	if a.StartDate.IsZero() {
		return fmt.Errorf("%w: assignment start date is required", ErrValidation)
	}
	if a.EndDate != nil && a.EndDate.Before(a.StartDate) {
		return fmt.Errorf("%w: assignment ends before it starts", ErrValidation)
	}
	return nil
}

// Overlaps reports whether two assignments share at least one day.
// Open-ended ranges extend forever.
func (a *EmployeeProject) Overlaps(b *EmployeeProject) bool {
	if a.EndDate != nil && a.EndDate.Before(b.StartDate) {
		return false
	}
	if b.EndDate != nil && b.EndDate.Before(a.StartDate) {
		return false
	}
	return true
}

func (a *EmployeeProject) Owner() Owner {
	return Owner{Kind: OwnerAssignment, ID: a.ID}
}
