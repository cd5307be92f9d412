package po

import (
	"errors"
	"fmt"
)

var (
	// ErrStorageUnavailable wraps any amendment store failure seen during a
	// recalculation. The affected owner is skipped.
	ErrStorageUnavailable = errors.New("amendment storage unavailable")

	// ErrInvalidAmendment marks an amendment that cannot take part in
	// selection. It is excluded, never fatal.
	ErrInvalidAmendment = errors.New("invalid amendment data")
)

type InvalidReason string

const (
	ReasonMissingPONumber InvalidReason = "MISSING_PO_NUMBER"
	ReasonMissingStart    InvalidReason = "MISSING_START_DATE"
	ReasonMalformedEnd    InvalidReason = "MALFORMED_END_DATE"
	ReasonEndBeforeStart  InvalidReason = "END_BEFORE_START"
	ReasonMissingOwner    InvalidReason = "MISSING_OWNER"
)

// InvalidAmendmentError describes why one amendment was excluded.
type InvalidAmendmentError struct {
	AmendmentID string
	Reason      InvalidReason
}

func (e *InvalidAmendmentError) Error() string {
	return fmt.Sprintf("%s: amendment %s: %s", ErrInvalidAmendment, e.AmendmentID, e.Reason)
}

func (e *InvalidAmendmentError) Unwrap() error {
	return ErrInvalidAmendment
}
