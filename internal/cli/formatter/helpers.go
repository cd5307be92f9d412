package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/empdesk/empdesk/internal/domain"
	"github.com/empdesk/empdesk/internal/po"
	"github.com/shopspring/decimal"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(1, 2)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// RelativeDateFrom describes day relative to today in whole calendar days.
func RelativeDateFrom(day, today time.Time) string {
	days := int(math.Round(day.Sub(today).Hours() / 24))

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("In %dw", days/7)
	case days > 0:
		return fmt.Sprintf("In %dmo", days/30)
	case days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// Date renders a calendar day, or "--" for a missing one.
func Date(t *time.Time) string {
	if t == nil {
		return StyleDim.Render("--")
	}
	if t.IsZero() {
		return StyleRed.Render("invalid")
	}
	return t.Format(po.DateLayout)
}

// Money renders an optional amount with two decimals.
func Money(d *decimal.Decimal) string {
	if d == nil {
		return StyleDim.Render("--")
	}
	return d.StringFixed(2)
}

// StatusPill returns a colored indicator for a project status.
func StatusPill(status domain.ProjectStatus) string {
	switch status {
	case domain.ProjectActive:
		return StyleGreen.Render("● Active")
	case domain.ProjectOnHold:
		return StyleYellow.Render("○ On Hold")
	case domain.ProjectCompleted:
		return StyleDim.Render("✔ Completed")
	case domain.ProjectCancelled:
		return StyleDim.Render("✖ Cancelled")
	default:
		return StyleDim.Render(string(status))
	}
}

// EmployeeStatusPill returns a colored indicator for an employee status.
func EmployeeStatusPill(status domain.EmployeeStatus) string {
	if status == domain.EmployeeActive {
		return StyleGreen.Render("● Active")
	}
	return StyleDim.Render("○ Inactive")
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}
