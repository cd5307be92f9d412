package po

import (
	"time"

	"github.com/empdesk/empdesk/internal/domain"
)

// Flip is one amendment whose stored flag disagrees with the computed one.
type Flip struct {
	AmendmentID string
	To          bool
}

// Plan is the reconciliation between stored is_active flags and the
// date-driven truth for one owner.
type Plan struct {
	Today time.Time

	// DesiredActiveID is the amendment that should be active, nil for none.
	DesiredActiveID *string

	// Flips lists every amendment whose flag must change. Empty means the
	// stored state is already correct.
	Flips []Flip

	Invalid []error
}

// NeedsWrite reports whether applying the plan changes anything.
func (p Plan) NeedsWrite() bool {
	return len(p.Flips) > 0
}

// Compute builds the plan for one owner's amendments on today.
func Compute(amendments []*domain.POAmendment, today time.Time) Plan {
	active, invalid := SelectActive(amendments, today)
	plan := Plan{Today: today, Invalid: invalid}
	if active != nil {
		id := active.ID
		plan.DesiredActiveID = &id
	}

	for _, a := range amendments {
		if a == nil {
			continue
		}
		want := active != nil && a.ID == active.ID
		if a.IsActive != want {
			plan.Flips = append(plan.Flips, Flip{AmendmentID: a.ID, To: want})
		}
	}
	return plan
}

// CountActive returns how many amendments carry the active flag.
func CountActive(amendments []*domain.POAmendment) int {
	n := 0
	for _, a := range amendments {
		if a != nil && a.IsActive {
			n++
		}
	}
	return n
}
