package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/empdesk/empdesk/internal/domain"
	"github.com/empdesk/empdesk/internal/po"
)

// resolveProjectID accepts a full project ID, a unique ID prefix, or an exact
// (case-insensitive) project name.
func resolveProjectID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("project ID is required")
	}

	projects, err := app.Projects.List(ctx)
	if err != nil {
		return "", err
	}

	for _, p := range projects {
		if p.ID == input {
			return p.ID, nil
		}
	}

	var matches []string
	for _, p := range projects {
		if strings.HasPrefix(p.ID, input) {
			matches = append(matches, p.ID)
		}
	}
	if len(matches) == 0 {
		for _, p := range projects {
			if strings.EqualFold(p.Name, input) {
				matches = append(matches, p.ID)
			}
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("project not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("project %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveOwner turns the --project / --assignment flag pair into an owner.
// Exactly one of them must be set.
func resolveOwner(ctx context.Context, app *App, projectRef, assignmentID string) (domain.Owner, error) {
	switch {
	case projectRef != "" && assignmentID != "":
		return domain.Owner{}, fmt.Errorf("use either --project or --assignment, not both")
	case projectRef != "":
		id, err := resolveProjectID(ctx, app, projectRef)
		if err != nil {
			return domain.Owner{}, err
		}
		return domain.ProjectOwner(id), nil
	case assignmentID != "":
		a, err := app.Assignments.GetByID(ctx, assignmentID)
		if err != nil {
			return domain.Owner{}, fmt.Errorf("assignment %q: %w", assignmentID, err)
		}
		return a.Owner(), nil
	default:
		return domain.Owner{}, fmt.Errorf("one of --project or --assignment is required")
	}
}

// parseOptionalDay parses a YYYY-MM-DD flag value; empty yields nil.
func parseOptionalDay(flag, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	d, err := po.ParseDay(value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s %q, expected YYYY-MM-DD", flag, value)
	}
	return &d, nil
}

func parseRequiredDay(flag, value string) (time.Time, error) {
	d, err := parseOptionalDay(flag, value)
	if err != nil {
		return time.Time{}, err
	}
	if d == nil {
		return time.Time{}, fmt.Errorf("--%s is required", flag)
	}
	return *d, nil
}
