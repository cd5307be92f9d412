package formatter

import (
	"testing"
	"time"

	"github.com/empdesk/empdesk/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRelativeDateFrom(t *testing.T) {
	today := time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		days int
		want string
	}{
		{"today", 0, "Today"},
		{"tomorrow", 1, "Tomorrow"},
		{"yesterday", -1, "Yesterday"},
		{"3 days future", 3, "In 3d"},
		{"3 days past", -3, "3d ago"},
		{"3 weeks future", 21, "In 3w"},
		{"3 months future", 90, "In 3mo"},
		{"2 weeks past", -14, "2w ago"},
		{"3 months past", -90, "3mo ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeDateFrom(today.AddDate(0, 0, tt.days), today))
		})
	}
}

func TestDate(t *testing.T) {
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-01", Date(&d))
	assert.Contains(t, Date(nil), "--")

	var zero time.Time
	assert.Contains(t, Date(&zero), "invalid")
}

func TestMoney(t *testing.T) {
	amt := decimal.RequireFromString("1250.5")
	assert.Equal(t, "1250.50", Money(&amt))
	assert.Contains(t, Money(nil), "--")
}

func TestStatusPill(t *testing.T) {
	assert.Contains(t, StatusPill(domain.ProjectActive), "Active")
	assert.Contains(t, StatusPill(domain.ProjectOnHold), "On Hold")
	assert.Contains(t, StatusPill(domain.ProjectCancelled), "Cancelled")
	assert.Contains(t, EmployeeStatusPill(domain.EmployeeInactive), "Inactive")
}

func TestTruncID(t *testing.T) {
	assert.Contains(t, TruncID("0123456789abcdef"), "01234567")
	assert.NotContains(t, TruncID("0123456789abcdef"), "89")
	assert.Contains(t, TruncID("short"), "short")
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := RenderTable([]string{"A", "LONG"}, [][]string{{"xyz", "1"}, {"q"}})
	lines := splitLines(out)

	assert.Len(t, lines, 4)
	assert.Equal(t, "A    LONG", lines[0])
	assert.Equal(t, "xyz  1", lines[2])
	assert.Equal(t, "q    ", lines[3])
}

func TestRenderTable_NoHeaders(t *testing.T) {
	assert.Empty(t, RenderTable(nil, [][]string{{"x"}}))
}
