package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID         string
	Code       string
	Name       string
	Email      string
	Department string
	HourlyCost decimal.Decimal
	Status     EmployeeStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (e *Employee) Validate() error {
	if strings.TrimSpace(e.Code) == "" {
		return fmt.Errorf("%w: employee code is required", ErrValidation)
	}
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("%w: employee name is required", ErrValidation)
	}
	if e.Email != "" {
		if _, err := mail.ParseAddress(e.Email); err != nil {
			return fmt.Errorf("%w: invalid email %q", ErrValidation, e.Email)
		}
	}
	if e.HourlyCost.IsNegative() {
		return fmt.Errorf("%w: hourly cost cannot be negative", ErrValidation)
	}
	if e.Status != EmployeeActive && e.Status != EmployeeInactive {
		return fmt.Errorf("%w: unknown employee status %q", ErrValidation, e.Status)
	}
	return nil
}
