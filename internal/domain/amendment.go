package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Owner is the unit PO amendments are tracked and recalculated against:
// a project or an employee-project assignment.
type Owner struct {
	Kind OwnerKind
	ID   string
}

func ProjectOwner(id string) Owner    { return Owner{Kind: OwnerProject, ID: id} }
func AssignmentOwner(id string) Owner { return Owner{Kind: OwnerAssignment, ID: id} }

func (o Owner) String() string {
	return string(o.Kind) + ":" + o.ID
}

// POAmendment is a dated revision of a purchase order. Dates are calendar
// days stored as midnight UTC; EndDate nil means open-ended.
//
// IsActive is a cached, derived flag. It is written only by the
// recalculation engine through AmendmentRepo.SetActive.
type POAmendment struct {
	ID        string
	Owner     Owner
	PONumber  string
	StartDate time.Time
	EndDate   *time.Time
	Amount    *decimal.Decimal
	Notes     string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AmendmentPatch carries the user-editable fields of an amendment.
// Nil fields are left unchanged. IsActive is not patchable.
type AmendmentPatch struct {
	PONumber  *string
	StartDate *time.Time
	EndDate   *time.Time
	ClearEnd  bool
	Amount    *decimal.Decimal
	Notes     *string
}

// Apply copies the set fields of p onto a.
func (p AmendmentPatch) Apply(a *POAmendment, now time.Time) {
	if p.PONumber != nil {
		a.PONumber = *p.PONumber
	}
	if p.StartDate != nil {
		a.StartDate = *p.StartDate
	}
	if p.ClearEnd {
		a.EndDate = nil
	} else if p.EndDate != nil {
		end := *p.EndDate
		a.EndDate = &end
	}
	if p.Amount != nil {
		amt := *p.Amount
		a.Amount = &amt
	}
	if p.Notes != nil {
		a.Notes = *p.Notes
	}
	a.UpdatedAt = now
}
