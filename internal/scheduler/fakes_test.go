package scheduler

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/empdesk/empdesk/internal/app"
	"github.com/empdesk/empdesk/internal/domain"
)

// fakeClock is a manually advanced Clock. Timers fire during Advance.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	ch      chan time.Time
	stopped bool
	fired   bool
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) NewTimer(d time.Duration) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), ch: make(chan time.Time, 1)}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			t.ch <- c.now
		}
	}
}

// pending counts timers that are armed and not yet fired.
func (c *fakeClock) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func (t *fakeTimer) C() <-chan time.Time { return t.ch }

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	wasArmed := !t.stopped && !t.fired
	t.stopped = true
	return wasArmed
}

// fakeEngine records every owner it is asked to reconcile.
type fakeEngine struct {
	mu        sync.Mutex
	calls     []domain.Owner
	todays    []time.Time
	fail      map[string]error
	panicOn   string
	block     chan struct{}
	started   chan struct{}
	delay     time.Duration
	inFlight  int
	maxFlight int
}

func (f *fakeEngine) RecalculateActiveAmendment(ctx context.Context, owner domain.Owner, today time.Time) app.RecalcResult {
	f.mu.Lock()
	f.calls = append(f.calls, owner)
	f.todays = append(f.todays, today)
	f.inFlight++
	if f.inFlight > f.maxFlight {
		f.maxFlight = f.inFlight
	}
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if f.started != nil {
		select {
		case f.started <- struct{}{}:
		default:
		}
	}
	if f.block != nil {
		<-f.block
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if owner.ID == f.panicOn {
		panic("engine exploded")
	}
	if err := f.fail[owner.ID]; err != nil {
		return app.RecalcResult{Owner: owner, Err: err}
	}
	return app.RecalcResult{Owner: owner, Changed: 1}
}

func (f *fakeEngine) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeEngine) ownerIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, len(f.calls))
	for i, o := range f.calls {
		ids[i] = o.ID
	}
	return ids
}

type fakeOwners struct {
	projects    []*domain.Project
	listErr     error
	panicList   bool
	assignments map[string][]*domain.EmployeeProject
	asgErr      map[string]error

	// hangList and hangAsg block until the caller's context ends.
	hangList bool
	hangAsg  map[string]bool
}

func (f *fakeOwners) ListActiveProjects(ctx context.Context) ([]*domain.Project, error) {
	if f.panicList {
		panic("store exploded")
	}
	if f.hangList {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.projects, nil
}

func (f *fakeOwners) ListAssignmentsByProject(ctx context.Context, projectID string) ([]*domain.EmployeeProject, error) {
	if f.hangAsg[projectID] {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err := f.asgErr[projectID]; err != nil {
		return nil, err
	}
	return f.assignments[projectID], nil
}

func projects(ids ...string) []*domain.Project {
	out := make([]*domain.Project, len(ids))
	for i, id := range ids {
		out[i] = &domain.Project{ID: id, Name: id, Status: domain.ProjectActive}
	}
	return out
}

// lockedBuffer is a goroutine-safe log sink.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestLogger(w *lockedBuffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
