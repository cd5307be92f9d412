package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/empdesk/empdesk/internal/cli/formatter"
	"github.com/empdesk/empdesk/internal/domain"
	"github.com/empdesk/empdesk/internal/po"
	"github.com/shopspring/decimal"
)

func empdeskHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// amendmentInput holds the raw text of a new amendment, from flags or the
// interactive form.
type amendmentInput struct {
	PONumber string
	Start    string
	End      string
	Amount   string
	Notes    string
}

// complete reports whether the required fields are present.
func (in amendmentInput) complete() bool {
	return strings.TrimSpace(in.PONumber) != "" && in.Start != ""
}

func (in amendmentInput) toDomain(owner domain.Owner) (*domain.POAmendment, error) {
	start, err := parseRequiredDay("start", in.Start)
	if err != nil {
		return nil, err
	}
	end, err := parseOptionalDay("end", in.End)
	if err != nil {
		return nil, err
	}
	amount, err := parseOptionalAmount(in.Amount)
	if err != nil {
		return nil, err
	}
	return &domain.POAmendment{
		Owner:     owner,
		PONumber:  strings.TrimSpace(in.PONumber),
		StartDate: start,
		EndDate:   end,
		Amount:    amount,
		Notes:     strings.TrimSpace(in.Notes),
	}, nil
}

// amendmentForm prompts for whatever in is missing. Fields already given on
// the command line are pre-filled.
func amendmentForm(owner domain.Owner, in *amendmentInput) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("PO Number").
				Description(owner.String()).
				Placeholder("PO-2024-001").
				Value(&in.PONumber).
				Validate(validateRequired("PO number")),
			huh.NewInput().
				Title("Start Date (YYYY-MM-DD)").
				Placeholder("2024-01-01").
				Value(&in.Start).
				Validate(validateDate),
			huh.NewInput().
				Title("End Date (YYYY-MM-DD, blank for open-ended)").
				Value(&in.End).
				Validate(validateOptionalDate),
			huh.NewInput().
				Title("Amount (blank for none)").
				Placeholder("12500.00").
				Value(&in.Amount).
				Validate(validateOptionalAmount),
			huh.NewText().
				Title("Notes").
				Value(&in.Notes),
		),
	).WithTheme(empdeskHuhTheme()).WithShowHelp(false)
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validateDate(s string) error {
	if s == "" {
		return fmt.Errorf("date is required")
	}
	return validateOptionalDate(s)
}

// validateOptionalDate accepts empty or a YYYY-MM-DD date string.
func validateOptionalDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := po.ParseDay(s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}

func validateOptionalAmount(s string) error {
	_, err := parseOptionalAmount(s)
	return err
}

func parseOptionalAmount(s string) (*decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("amount cannot be negative")
	}
	return &d, nil
}
