package app

import "github.com/shopspring/decimal"

// POSummaryRow is one active project in the PO summary report.
type POSummaryRow struct {
	ProjectID   string
	ProjectName string
	Client      string

	// ActivePONumber is empty when the project has no active amendment.
	ActivePONumber string
	ActiveAmount   *decimal.Decimal

	// TotalAmount sums the amounts of every amendment of the project.
	TotalAmount    decimal.Decimal
	AmendmentCount int

	AssignmentCount int
	// AssignmentsWithoutPO counts assignments with no active amendment.
	AssignmentsWithoutPO int
}

// HasActivePO reports whether the project currently has an active amendment.
func (r POSummaryRow) HasActivePO() bool {
	return r.ActivePONumber != ""
}
