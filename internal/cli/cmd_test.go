package cli

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/empdesk/empdesk/internal/domain"
	"github.com/empdesk/empdesk/internal/repository"
	"github.com/empdesk/empdesk/internal/scheduler"
	"github.com/empdesk/empdesk/internal/service"
	"github.com/empdesk/empdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedClock pins "now" for batch runs; timers still use wall time.
type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }
func (c fixedClock) NewTimer(d time.Duration) scheduler.Timer {
	return scheduler.RealClock{}.NewTimer(d)
}

// testApp wires a full App backed by an in-memory DB with today pinned to
// 2024-08-15.
func testApp(t *testing.T) *App {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)

	projects := repository.NewSQLiteProjectRepo(database)
	employees := repository.NewSQLiteEmployeeRepo(database)
	assignments := repository.NewSQLiteAssignmentRepo(database)
	amendments := repository.NewSQLiteAmendmentRepo(database)

	store := service.NewAmendmentStore(projects, assignments, amendments, uow)
	recalc := service.NewRecalcService(store, time.Second, nil)
	today := func() time.Time { return testutil.Day("2024-08-15") }

	return &App{
		Projects:    service.NewProjectService(projects),
		Employees:   service.NewEmployeeService(employees),
		Assignments: service.NewAssignmentService(assignments, uow),
		Amendments:  service.NewAmendmentService(amendments, projects, assignments, recalc, today),
		Recalc:      recalc,
		Reports:     service.NewReportService(store),
		Scheduler: scheduler.New(recalc, store, scheduler.Options{
			Clock: fixedClock{now: time.Date(2024, 8, 15, 12, 0, 0, 0, time.UTC)},
		}),
		Today:    today,
		Location: time.UTC,
	}
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func mustExec(t *testing.T, app *App, args ...string) string {
	t.Helper()
	out, err := executeCmd(t, app, args...)
	require.NoError(t, err, out)
	return out
}

var uuidPattern = regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

// firstID extracts the first UUID printed by a command, which is the ID of
// the entity it created.
func firstID(t *testing.T, out string) string {
	t.Helper()
	id := uuidPattern.FindString(out)
	require.NotEmpty(t, id, "no ID in output: %s", out)
	return id
}

func seedProject(t *testing.T, app *App, name string) *domain.Project {
	t.Helper()
	p := testutil.NewTestProject(name)
	require.NoError(t, app.Projects.Create(context.Background(), p))
	return p
}

// --- root ---

func TestRootCmd_NoArgs_ShowsHelp(t *testing.T) {
	out := mustExec(t, testApp(t))
	assert.Contains(t, out, "empdesk")
	assert.Contains(t, out, "po")
}

// --- project ---

func TestProjectCmd_AddListSetStatus(t *testing.T) {
	app := testApp(t)

	out := mustExec(t, app, "project", "add", "--name", "Apollo", "--client", "ACME")
	assert.Contains(t, out, "Created project")
	id := firstID(t, out)

	out = mustExec(t, app, "project", "list")
	assert.Contains(t, out, "Apollo")
	assert.Contains(t, out, "ACME")
	assert.Contains(t, out, "Active")

	out = mustExec(t, app, "project", "set-status", id[:8], "On Hold")
	assert.Contains(t, out, "On Hold")

	out = mustExec(t, app, "project", "list", "--status", "active")
	assert.Contains(t, out, "No projects.")
}

func TestProjectCmd_AddRequiresName(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "project", "add")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}

func TestProjectCmd_UnknownStatus(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app, "Apollo")

	_, err := executeCmd(t, app, "project", "set-status", p.ID, "paused")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestProjectCmd_RemoveCascades(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app, "Apollo")
	mustExec(t, app, "po", "add", "--project", p.ID, "--po-number", "PO-1", "--start", "2024-01-01")

	mustExec(t, app, "project", "rm", "Apollo")

	_, err := app.Projects.GetByID(context.Background(), p.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolveProjectID(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()
	p := seedProject(t, app, "Apollo")
	seedProject(t, app, "Zeus")

	id, err := resolveProjectID(ctx, app, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, id)

	id, err = resolveProjectID(ctx, app, p.ID[:6])
	require.NoError(t, err)
	assert.Equal(t, p.ID, id)

	id, err = resolveProjectID(ctx, app, "apollo")
	require.NoError(t, err)
	assert.Equal(t, p.ID, id)

	_, err = resolveProjectID(ctx, app, "Hermes")
	assert.ErrorContains(t, err, "not found")

	_, err = resolveProjectID(ctx, app, "")
	assert.Error(t, err)
}

// --- employee and assign ---

func TestEmployeeCmd_AddList(t *testing.T) {
	app := testApp(t)

	out := mustExec(t, app, "employee", "add", "--code", "e001", "--name", "Ada Lovelace", "--hourly-cost", "42.5")
	assert.Contains(t, out, "E001")

	out = mustExec(t, app, "emp", "list")
	assert.Contains(t, out, "Ada Lovelace")
	assert.Contains(t, out, "42.50")
}

func TestEmployeeCmd_BadHourlyCost(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "employee", "add", "--code", "E1", "--name", "X", "--hourly-cost", "lots")
	assert.ErrorContains(t, err, "hourly-cost")
}

func TestAssignCmd_AddListAndOverAllocation(t *testing.T) {
	app := testApp(t)
	seedProject(t, app, "Apollo")
	seedProject(t, app, "Zeus")
	mustExec(t, app, "employee", "add", "--code", "E001", "--name", "Ada")

	out := mustExec(t, app, "assign", "add", "--employee", "E001", "--project", "Apollo",
		"--allocation", "60", "--start", "2024-01-01")
	asgID := firstID(t, out)

	out = mustExec(t, app, "assign", "list", "--project", "Apollo")
	assert.Contains(t, out, asgID)
	assert.Contains(t, out, "60%")

	out = mustExec(t, app, "assign", "list", "--employee", "E001")
	assert.Contains(t, out, asgID)

	_, err := executeCmd(t, app, "assign", "add", "--employee", "E001", "--project", "Zeus",
		"--allocation", "50", "--start", "2024-06-01")
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "110%")
}

func TestAssignCmd_BadDate(t *testing.T) {
	app := testApp(t)
	seedProject(t, app, "Apollo")
	mustExec(t, app, "employee", "add", "--code", "E001", "--name", "Ada")

	_, err := executeCmd(t, app, "assign", "add", "--employee", "E001", "--project", "Apollo", "--start", "01/01/2024")
	assert.ErrorContains(t, err, "YYYY-MM-DD")
}

// --- po ---

func TestPOCmd_AddSelectsActiveAmendment(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app, "Apollo")

	out := mustExec(t, app, "po", "add", "--project", p.ID, "--po-number", "PO-1",
		"--start", "2024-01-01", "--end", "2024-06-30")
	first := firstID(t, out)
	assert.Contains(t, out, "active=none", "an expired amendment is never active")

	out = mustExec(t, app, "po", "add", "--project", p.ID, "--po-number", "PO-2",
		"--start", "2024-07-01", "--amount", "1200")
	second := firstID(t, out)
	assert.Contains(t, out, "active="+second)
	assert.Contains(t, out, "changed=1")

	out = mustExec(t, app, "po", "list", "--project", "Apollo")
	assert.Contains(t, out, first)
	assert.Contains(t, out, "Expired")
	assert.Contains(t, out, "1200.00")
	assert.Contains(t, out, "Active")
}

func TestPOCmd_AddWithoutFlagsNonInteractive(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app, "Apollo")

	_, err := executeCmd(t, app, "po", "add", "--project", p.ID)
	assert.ErrorContains(t, err, "--po-number and --start are required")
}

func TestPOCmd_AddNeedsExactlyOneOwner(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "po", "add", "--po-number", "PO-1", "--start", "2024-01-01")
	assert.ErrorContains(t, err, "--project or --assignment")

	_, err = executeCmd(t, app, "po", "add", "--project", "x", "--assignment", "y", "--po-number", "PO-1", "--start", "2024-01-01")
	assert.Error(t, err)
}

func TestPOCmd_AddToAssignment(t *testing.T) {
	app := testApp(t)
	seedProject(t, app, "Apollo")
	mustExec(t, app, "employee", "add", "--code", "E001", "--name", "Ada")
	asgID := firstID(t, mustExec(t, app, "assign", "add", "--employee", "E001", "--project", "Apollo", "--start", "2024-01-01"))

	out := mustExec(t, app, "po", "add", "--assignment", asgID, "--po-number", "PO-A", "--start", "2024-08-15")
	assert.Contains(t, out, "assignment:"+asgID)
	assert.NotContains(t, out, "active=none", "a PO starting today is active today")
}

func TestPOCmd_EditEndInPastClearsFlag(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app, "Apollo")
	id := firstID(t, mustExec(t, app, "po", "add", "--project", p.ID, "--po-number", "PO-1", "--start", "2024-01-01"))

	out := mustExec(t, app, "po", "edit", id, "--end", "2024-08-14")
	assert.Contains(t, out, "active=none changed=1")

	out = mustExec(t, app, "po", "edit", id, "--clear-end", "--notes", "extended")
	assert.Contains(t, out, "active="+id)

	a, err := app.Amendments.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, a.EndDate)
	assert.Equal(t, "extended", a.Notes)
}

func TestPOCmd_EditRejectsEndBeforeStart(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app, "Apollo")
	id := firstID(t, mustExec(t, app, "po", "add", "--project", p.ID, "--po-number", "PO-1", "--start", "2024-03-01"))

	_, err := executeCmd(t, app, "po", "edit", id, "--end", "2024-02-01")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestPOCmd_RemoveHandsOverToPrevious(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app, "Apollo")
	older := firstID(t, mustExec(t, app, "po", "add", "--project", p.ID, "--po-number", "PO-1", "--start", "2024-01-01"))
	newer := firstID(t, mustExec(t, app, "po", "add", "--project", p.ID, "--po-number", "PO-2", "--start", "2024-08-01"))

	out := mustExec(t, app, "po", "rm", newer)
	assert.Contains(t, out, "active="+older)

	_, err := executeCmd(t, app, "po", "rm", newer)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPOCmd_SummaryAndExport(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app, "Apollo")
	seedProject(t, app, "Zeus")
	mustExec(t, app, "po", "add", "--project", p.ID, "--po-number", "PO-1", "--start", "2024-01-01", "--end", "2024-06-30", "--amount", "500")
	mustExec(t, app, "po", "add", "--project", p.ID, "--po-number", "PO-2", "--start", "2024-07-01", "--amount", "750.75")

	out := mustExec(t, app, "po", "summary")
	assert.Contains(t, out, "Apollo")
	assert.Contains(t, out, "PO-2")
	assert.Contains(t, out, "1250.75")

	out = mustExec(t, app, "po", "export")
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, summaryCSVHeader, records[0])

	byName := map[string][]string{}
	for _, r := range records[1:] {
		byName[r[1]] = r
	}
	assert.Equal(t, []string{p.ID, "Apollo", "test", "PO-2", "750.75", "1250.75", "2", "0", "0"}, byName["Apollo"])
	assert.Equal(t, "", byName["Zeus"][3])
}

func TestPOCmd_ExportToFile(t *testing.T) {
	app := testApp(t)
	seedProject(t, app, "Apollo")
	path := filepath.Join(t.TempDir(), "summary.csv")

	out := mustExec(t, app, "po", "export", "-o", path)
	assert.Contains(t, out, "Wrote 1 projects")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "project_id,project_name"))
}

// --- recalc, login, daemon ---

func TestRecalcCmd_SingleOwnerAsOfDay(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app, "Apollo")
	id := firstID(t, mustExec(t, app, "po", "add", "--project", p.ID, "--po-number", "PO-1",
		"--start", "2024-01-01", "--end", "2024-12-31"))

	out := mustExec(t, app, "recalc", "--project", "Apollo", "--today", "2025-01-01")
	assert.Contains(t, out, "active=none changed=1")

	out = mustExec(t, app, "recalc", "--project", "Apollo", "--today", "2024-12-31")
	assert.Contains(t, out, "active="+id)

	out = mustExec(t, app, "recalc", "--project", "Apollo", "--today", "2024-12-31")
	assert.Contains(t, out, "changed=0")
}

func TestRecalcCmd_Batch(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app, "Apollo")
	seedProject(t, app, "Paused", testutil.WithProjectStatus(domain.ProjectOnHold))
	mustExec(t, app, "po", "add", "--project", p.ID, "--po-number", "PO-1", "--start", "2024-01-01")

	out := mustExec(t, app, "recalc")
	assert.Contains(t, out, "manual recalculation for 2024-08-15: processed=1 errors=0 changed=0")
}

func TestRecalcCmd_TodayNeedsOwner(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "recalc", "--today", "2024-01-01")
	assert.ErrorContains(t, err, "--today applies only")
}

func TestLoginCmd_RunsSessionRecalculation(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app, "Apollo")
	a := testutil.NewTestAmendment(p.Owner(), "PO-1", "2024-01-01")
	_, err := app.Amendments.Create(context.Background(), a)
	require.NoError(t, err)

	out := mustExec(t, app, "login", "--user", "ada")
	assert.Contains(t, out, "Session started for")
	assert.Contains(t, out, "session_start recalculation for 2024-08-15: processed=1 errors=0")

	last, ok := app.Scheduler.LastRun()
	require.True(t, ok)
	assert.Equal(t, domain.TriggerSessionStart, last.Trigger)
}

func TestLoginCmd_RequiresUser(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "login", "--user", "  ")
	assert.ErrorContains(t, err, "--user is required")
}

func TestDaemonCmd_NothingToRun(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "daemon")
	assert.ErrorContains(t, err, "nothing to run")
}

func TestDaemonCmd_NowWithoutNightlyRunsOnce(t *testing.T) {
	app := testApp(t)
	seedProject(t, app, "Apollo")

	out := mustExec(t, app, "daemon", "--now")
	assert.Contains(t, out, "processed=1")
	assert.Equal(t, scheduler.StateCompleted, app.Scheduler.State())
	assert.True(t, app.Scheduler.NextRun().IsZero())
}
