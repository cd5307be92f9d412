package domain

import (
	"fmt"
	"strings"
	"time"
)

type Project struct {
	ID        string
	Name      string
	Client    string
	Status    ProjectStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the fields a user supplies when creating or editing a project.
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: project name is required", ErrValidation)
	}
	if !ValidProjectStatuses[p.Status] {
		return fmt.Errorf("%w: unknown project status %q", ErrValidation, p.Status)
	}
	return nil
}

// DisplayID returns the first 8 characters of the ID.
func (p *Project) DisplayID() string {
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}

// Owner returns the amendment owner key for this project.
func (p *Project) Owner() Owner {
	return Owner{Kind: OwnerProject, ID: p.ID}
}
