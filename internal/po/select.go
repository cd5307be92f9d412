package po

import (
	"strings"
	"time"

	"github.com/empdesk/empdesk/internal/domain"
)

// Validate reports whether a can take part in active selection.
// A zero EndDate pointer is how the store reports an unparseable end date.
func Validate(a *domain.POAmendment) error {
	invalid := func(r InvalidReason) error {
		return &InvalidAmendmentError{AmendmentID: a.ID, Reason: r}
	}
	switch {
	case a.Owner.ID == "":
		return invalid(ReasonMissingOwner)
	case strings.TrimSpace(a.PONumber) == "":
		return invalid(ReasonMissingPONumber)
	case a.StartDate.IsZero():
		return invalid(ReasonMissingStart)
	case a.EndDate != nil && a.EndDate.IsZero():
		return invalid(ReasonMalformedEnd)
	case a.EndDate != nil && a.EndDate.Before(a.StartDate):
		return invalid(ReasonEndBeforeStart)
	}
	return nil
}

// Covers reports whether today falls inside [StartDate, EndDate], both ends
// inclusive. An open end extends indefinitely.
func Covers(a *domain.POAmendment, today time.Time) bool {
	if today.Before(a.StartDate) {
		return false
	}
	return a.EndDate == nil || !a.EndDate.Before(today)
}

// SelectActive returns the amendment in force on today, or nil when none
// qualifies. Overlapping ranges are resolved by latest StartDate, then by
// greatest ID. Invalid amendments are skipped and returned separately.
func SelectActive(amendments []*domain.POAmendment, today time.Time) (*domain.POAmendment, []error) {
	var best *domain.POAmendment
	var invalid []error
	for _, a := range amendments {
		if a == nil {
			continue
		}
		if err := Validate(a); err != nil {
			invalid = append(invalid, err)
			continue
		}
		if !Covers(a, today) {
			continue
		}
		if best == nil || preferred(a, best) {
			best = a
		}
	}
	return best, invalid
}

func preferred(a, b *domain.POAmendment) bool {
	if !a.StartDate.Equal(b.StartDate) {
		return a.StartDate.After(b.StartDate)
	}
	return a.ID > b.ID
}
