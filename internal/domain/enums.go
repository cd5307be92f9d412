package domain

import "fmt"

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectOnHold    ProjectStatus = "on_hold"
	ProjectCancelled ProjectStatus = "cancelled"
)

// ValidProjectStatuses is the canonical set of accepted project statuses.
var ValidProjectStatuses = map[ProjectStatus]bool{
	ProjectActive: true, ProjectCompleted: true, ProjectOnHold: true, ProjectCancelled: true,
}

// ParseProjectStatus accepts the stored form ("on_hold") as well as the
// display form ("On Hold").
func ParseProjectStatus(s string) (ProjectStatus, error) {
	norm := ProjectStatus(snakeLower(s))
	if !ValidProjectStatuses[norm] {
		return "", fmt.Errorf("%w: unknown project status %q", ErrValidation, s)
	}
	return norm, nil
}

type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "active"
	EmployeeInactive EmployeeStatus = "inactive"
)

// OwnerKind identifies what a PO amendment list hangs off.
type OwnerKind string

const (
	OwnerProject    OwnerKind = "project"
	OwnerAssignment OwnerKind = "assignment"
)

type RecalcTrigger string

const (
	TriggerManual           RecalcTrigger = "MANUAL"
	TriggerSessionStart     RecalcTrigger = "SESSION_START"
	TriggerNightly          RecalcTrigger = "NIGHTLY"
	TriggerAmendmentChanged RecalcTrigger = "AMENDMENT_CHANGED"
)

func snakeLower(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z':
			out = append(out, c+('a'-'A'))
		case c == ' ' || c == '-':
			out = append(out, '_')
		default:
			out = append(out, c)
		}
	}
	return string(out)
}
