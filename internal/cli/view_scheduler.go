package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/empdesk/empdesk/internal/app"
	"github.com/empdesk/empdesk/internal/cli/formatter"
	"github.com/empdesk/empdesk/internal/po"
	"github.com/empdesk/empdesk/internal/scheduler"
)

const schedulerPollInterval = 500 * time.Millisecond

// ── messages ─────────────────────────────────────────────────────────────────

// schedulerPollMsg asks the view to re-read the scheduler state.
type schedulerPollMsg time.Time

// schedulerTriggeredMsg carries the result of a manual run started from the view.
type schedulerTriggeredMsg struct {
	result app.BatchResult
}

// ── keys ─────────────────────────────────────────────────────────────────────

var schedulerKeys = struct {
	Trigger key.Binding
	Quit    key.Binding
}{
	Trigger: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "recalc now")),
	Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ── view ─────────────────────────────────────────────────────────────────────

// schedulerView is the `daemon --watch` status screen: scheduler state, the
// next nightly run and the counts of the last run.
type schedulerView struct {
	sched Scheduler
	loc   *time.Location
	now   func() time.Time

	spinner    spinner.Model
	state      scheduler.State
	nextRun    time.Time
	last       app.BatchResult
	hasLast    bool
	triggering bool
}

func newSchedulerView(sched Scheduler, loc *time.Location, now func() time.Time) *schedulerView {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(formatter.StylePurple))
	v := &schedulerView{sched: sched, loc: loc, now: now, spinner: sp}
	v.refresh()
	return v
}

func (v *schedulerView) Init() tea.Cmd {
	return tea.Batch(v.spinner.Tick, v.poll())
}

func (v *schedulerView) poll() tea.Cmd {
	return tea.Tick(schedulerPollInterval, func(t time.Time) tea.Msg {
		return schedulerPollMsg(t)
	})
}

func (v *schedulerView) trigger() tea.Cmd {
	sched := v.sched
	return func() tea.Msg {
		return schedulerTriggeredMsg{result: sched.TriggerNow(context.Background())}
	}
}

func (v *schedulerView) refresh() {
	v.state = v.sched.State()
	v.nextRun = v.sched.NextRun()
	v.last, v.hasLast = v.sched.LastRun()
}

// ── update ───────────────────────────────────────────────────────────────────

func (v *schedulerView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case schedulerPollMsg:
		v.refresh()
		return v, v.poll()

	case schedulerTriggeredMsg:
		v.triggering = false
		v.refresh()
		v.last, v.hasLast = msg.result, true
		return v, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, schedulerKeys.Quit):
			return v, tea.Quit
		case key.Matches(msg, schedulerKeys.Trigger):
			if v.triggering || v.state == scheduler.StateRunning {
				return v, nil
			}
			v.triggering = true
			return v, v.trigger()
		}
	}

	return v, nil
}

// ── view rendering ───────────────────────────────────────────────────────────

func (v *schedulerView) View() string {
	var b strings.Builder

	b.WriteString(v.renderState())
	b.WriteString("\n")
	b.WriteString(v.renderNextRun())
	b.WriteString("\n\n")
	b.WriteString(v.renderLastRun())

	help := make([]string, 0, 2)
	for _, k := range []key.Binding{schedulerKeys.Trigger, schedulerKeys.Quit} {
		h := k.Help()
		help = append(help, formatter.Bold(h.Key)+" "+formatter.Dim(h.Desc))
	}

	return formatter.RenderBox("PO scheduler", b.String()) + "\n  " + strings.Join(help, formatter.Dim(" · ")) + "\n"
}

func (v *schedulerView) renderState() string {
	label := formatter.Dim("State      ")
	switch {
	case v.triggering || v.state == scheduler.StateRunning:
		return label + v.spinner.View() + " " + formatter.StyleYellow.Render("running")
	case v.state == scheduler.StateCompleted:
		return label + formatter.StyleGreen.Render("● completed")
	default:
		return label + formatter.StyleDim.Render("○ idle")
	}
}

func (v *schedulerView) renderNextRun() string {
	label := formatter.Dim("Next run   ")
	if v.nextRun.IsZero() {
		return label + formatter.Dim("nightly trigger off")
	}
	until := v.nextRun.Sub(v.now()).Truncate(time.Minute)
	return label + v.nextRun.In(v.loc).Format("2006-01-02 15:04 MST") + formatter.Dim(fmt.Sprintf(" (in %s)", formatUntil(until)))
}

func (v *schedulerView) renderLastRun() string {
	if !v.hasLast {
		return formatter.Dim("No run yet.")
	}
	r := v.last
	failed := formatter.StyleGreen.Render("0")
	if r.Errors > 0 {
		failed = formatter.StyleRed.Render(fmt.Sprintf("%d", r.Errors))
	}
	lines := []string{
		formatter.Bold("Last run") + formatter.Dim(" · "+strings.ToLower(string(r.Trigger))),
		formatter.Dim("Day        ") + r.Today.Format(po.DateLayout),
		formatter.Dim("Finished   ") + r.FinishedAt.In(v.loc).Format("15:04:05") + formatter.Dim(fmt.Sprintf(" (%s)", r.Duration().Round(time.Millisecond))),
		formatter.Dim("Processed  ") + fmt.Sprintf("%d", r.Processed),
		formatter.Dim("Errors     ") + failed,
		formatter.Dim("Changed    ") + fmt.Sprintf("%d", r.Changed),
	}
	return strings.Join(lines, "\n")
}

func formatUntil(d time.Duration) string {
	if d < time.Minute {
		return "<1m"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}
