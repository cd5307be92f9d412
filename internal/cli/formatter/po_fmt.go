package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/empdesk/empdesk/internal/app"
	"github.com/empdesk/empdesk/internal/domain"
	"github.com/empdesk/empdesk/internal/po"
)

// AmendmentPhase places an amendment relative to today. The stored active
// flag wins; otherwise the phase is derived from the dates.
func AmendmentPhase(a *domain.POAmendment, today time.Time) string {
	switch {
	case a.IsActive:
		return StyleGreen.Render("● Active")
	case po.Validate(a) != nil:
		return StyleRed.Render("⚠ Invalid")
	case a.StartDate.After(today):
		return StyleBlue.Render("○ Upcoming")
	case a.EndDate != nil && a.EndDate.Before(today):
		return StyleDim.Render("✔ Expired")
	default:
		return StyleYellow.Render("◐ Superseded")
	}
}

// FormatAmendments renders an owner's amendments newest first.
func FormatAmendments(owner domain.Owner, list []*domain.POAmendment, today time.Time) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("PO amendments · %s", owner)))
	b.WriteString("\n\n")

	if len(list) == 0 {
		b.WriteString(Dim("No amendments."))
		b.WriteString("\n")
		return b.String()
	}

	rows := make([][]string, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		a := list[i]
		start := a.StartDate
		rows = append(rows, []string{
			Dim(a.ID),
			Bold(a.PONumber),
			Date(&start),
			Date(a.EndDate),
			Money(a.Amount),
			AmendmentPhase(a, today),
		})
	}
	b.WriteString(RenderTable([]string{"ID", "PO", "START", "END", "AMOUNT", "STATUS"}, rows))
	return b.String()
}

// FormatSummary renders the per-project PO summary report.
func FormatSummary(rows []app.POSummaryRow) string {
	var b strings.Builder
	b.WriteString(Header("PO summary"))
	b.WriteString("\n\n")

	if len(rows) == 0 {
		b.WriteString(Dim("No active projects."))
		b.WriteString("\n")
		return b.String()
	}

	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		active := StyleRed.Render("none")
		if r.HasActivePO() {
			active = StyleGreen.Render(r.ActivePONumber)
		}
		uncovered := Dim("0")
		if r.AssignmentsWithoutPO > 0 {
			uncovered = StyleYellow.Render(fmt.Sprintf("%d", r.AssignmentsWithoutPO))
		}
		table = append(table, []string{
			TruncID(r.ProjectID),
			Bold(r.ProjectName),
			r.Client,
			active,
			Money(r.ActiveAmount),
			r.TotalAmount.StringFixed(2),
			fmt.Sprintf("%d", r.AmendmentCount),
			fmt.Sprintf("%d/%d", r.AssignmentCount-r.AssignmentsWithoutPO, r.AssignmentCount),
			uncovered,
		})
	}
	b.WriteString(RenderTable(
		[]string{"ID", "PROJECT", "CLIENT", "ACTIVE PO", "ACTIVE AMT", "TOTAL", "AMENDS", "COVERED", "NO PO"},
		table,
	))
	return b.String()
}

// FormatRecalcResult is the one-line outcome of reconciling one owner.
func FormatRecalcResult(r app.RecalcResult) string {
	if r.Failed() {
		return Failure(fmt.Sprintf("%s: %v", r.Owner, r.Err))
	}
	active := "none"
	if r.ActiveID != nil {
		active = *r.ActiveID
	}
	line := fmt.Sprintf("%s active=%s changed=%d", r.Owner, active, r.Changed)
	if r.Skipped > 0 {
		line += StyleYellow.Render(fmt.Sprintf(" skipped=%d invalid", r.Skipped))
	}
	return Success(line)
}

// FormatBatchResult summarizes a scheduler run.
func FormatBatchResult(r app.BatchResult) string {
	line := fmt.Sprintf("%s recalculation for %s: processed=%d errors=%d changed=%d (%s)",
		strings.ToLower(string(r.Trigger)),
		r.Today.Format(po.DateLayout),
		r.Processed, r.Errors, r.Changed,
		r.Duration().Round(time.Millisecond),
	)
	if r.Errors > 0 || (r.Err != nil && r.Processed == 0) {
		out := Failure(line)
		if r.Err != nil {
			out += "\n" + Dim(r.Err.Error())
		}
		return out
	}
	return Success(line)
}
