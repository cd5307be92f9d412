// Package scheduler decides when PO recalculation runs: once per session,
// nightly at local midnight, and on demand. Each run walks every active
// project and its assignments and reconciles them independently.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/empdesk/empdesk/internal/app"
	"github.com/empdesk/empdesk/internal/domain"
	"github.com/empdesk/empdesk/internal/po"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

// OwnerSource enumerates the owners a batch run visits.
type OwnerSource interface {
	ListActiveProjects(ctx context.Context) ([]*domain.Project, error)
	ListAssignmentsByProject(ctx context.Context, projectID string) ([]*domain.EmployeeProject, error)
}

type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateCompleted State = "completed"
)

// DefaultTimeout bounds each store listing a batch makes when Options.Timeout
// is unset.
const DefaultTimeout = 10 * time.Second

// ErrAlreadyStarted is returned by Start when the nightly loop is running.
var ErrAlreadyStarted = errors.New("scheduler already started")

type Options struct {
	// Location is the canonical timezone for "today" and midnight.
	Location *time.Location
	// Concurrency bounds how many projects are reconciled at once.
	Concurrency int
	// Timeout bounds each project or assignment listing.
	Timeout time.Duration
	Clock   Clock
	Logger  *slog.Logger
}

// Scheduler owns the recalculation triggers. Build one at wiring time; it
// holds no global state.
type Scheduler struct {
	engine  app.RecalcUseCase
	owners  OwnerSource
	loc     *time.Location
	limit   int
	timeout time.Duration
	clock   Clock
	logger  *slog.Logger

	mu       sync.Mutex
	state    State
	inflight *run
	last     *app.BatchResult
	nextRun  time.Time
	sessions map[string]struct{}
	cancel   context.CancelFunc

	loop       sync.WaitGroup
	background sync.WaitGroup
}

// run is one in-flight batch that overlapping triggers wait on.
type run struct {
	done   chan struct{}
	result app.BatchResult
}

func New(engine app.RecalcUseCase, owners OwnerSource, opts Options) *Scheduler {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Scheduler{
		engine:   engine,
		owners:   owners,
		loc:      opts.Location,
		limit:    opts.Concurrency,
		timeout:  opts.Timeout,
		clock:    opts.Clock,
		logger:   opts.Logger,
		state:    StateIdle,
		sessions: make(map[string]struct{}),
	}
}

// State reports the phase of the most recent trigger.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastRun returns the most recent finished batch.
func (s *Scheduler) LastRun() (app.BatchResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return app.BatchResult{}, false
	}
	return *s.last, true
}

// NextRun returns when the nightly trigger fires next, zero when the loop is
// not running.
func (s *Scheduler) NextRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextRun
}

// RecalculateAllActivePOs reconciles every active project and its
// assignments. It never fails; failures are counted and logged. A call made
// while another run is in flight waits for and returns that run's result.
func (s *Scheduler) RecalculateAllActivePOs(ctx context.Context) app.BatchResult {
	return s.trigger(ctx, domain.TriggerManual)
}

// TriggerNow runs a manual batch immediately.
func (s *Scheduler) TriggerNow(ctx context.Context) app.BatchResult {
	return s.RecalculateAllActivePOs(ctx)
}

// OnSessionStart fires one background batch for a newly established
// session. Repeat calls for the same session are ignored and report false.
// The batch outlives ctx cancellation; use Wait or Stop to join it.
func (s *Scheduler) OnSessionStart(ctx context.Context, sessionID string) bool {
	s.mu.Lock()
	if _, seen := s.sessions[sessionID]; seen {
		s.mu.Unlock()
		return false
	}
	s.sessions[sessionID] = struct{}{}
	s.background.Add(1)
	s.mu.Unlock()

	runCtx := context.WithoutCancel(ctx)
	go func() {
		defer s.background.Done()
		defer s.recoverPanic("session_start", slog.String("session_id", sessionID))
		s.trigger(runCtx, domain.TriggerSessionStart)
	}()
	return true
}

// EndSession forgets a session so the guard set only holds live sessions.
// A later OnSessionStart with the same ID fires again.
func (s *Scheduler) EndSession(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

// Wait blocks until every background session batch has finished.
func (s *Scheduler) Wait() {
	s.background.Wait()
}

// Start launches the nightly loop: first at the next local midnight, then at
// each following midnight.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.loop.Add(1)
	s.mu.Unlock()

	go s.nightly(loopCtx)
	return nil
}

// Stop ends the nightly loop and waits for it and any background batches.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.loop.Wait()
	s.background.Wait()
}

func (s *Scheduler) nightly(ctx context.Context) {
	defer s.loop.Done()
	for {
		now := s.clock.Now()
		next := po.NextMidnight(now, s.loc)
		s.setNextRun(next)

		timer := s.clock.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.setNextRun(time.Time{})
			return
		case <-timer.C():
			func() {
				defer s.recoverPanic("nightly")
				s.trigger(ctx, domain.TriggerNightly)
			}()
		}
	}
}

func (s *Scheduler) setNextRun(t time.Time) {
	s.mu.Lock()
	s.nextRun = t
	s.mu.Unlock()
}

func (s *Scheduler) recoverPanic(site string, attrs ...any) {
	if r := recover(); r != nil {
		attrs = append(attrs, "site", site, "panic", fmt.Sprint(r))
		s.logger.Error("po_recalc_panic", attrs...)
	}
}

// trigger runs a batch, or joins the one already in flight.
func (s *Scheduler) trigger(ctx context.Context, trigger domain.RecalcTrigger) app.BatchResult {
	s.mu.Lock()
	if r := s.inflight; r != nil {
		s.mu.Unlock()
		s.logger.Debug("po_recalc_coalesced", "trigger", string(trigger))
		select {
		case <-r.done:
			return r.result
		case <-ctx.Done():
			return app.BatchResult{Trigger: trigger, Err: ctx.Err()}
		}
	}
	r := &run{done: make(chan struct{})}
	s.inflight = r
	s.state = StateRunning
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inflight = nil
		s.state = StateCompleted
		result := r.result
		s.last = &result
		s.mu.Unlock()
		close(r.done)
	}()

	r.result = s.batch(ctx, trigger)
	return r.result
}

func (s *Scheduler) batch(ctx context.Context, trigger domain.RecalcTrigger) app.BatchResult {
	started := s.clock.Now()
	res := app.BatchResult{
		Trigger:   trigger,
		Today:     po.Day(started, s.loc),
		StartedAt: started,
	}

	projects, err := s.listProjects(ctx)
	if err != nil {
		res.Err = fmt.Errorf("listing active projects: %w", err)
		res.FinishedAt = s.clock.Now()
		s.logger.Error("po_recalc_batch", "trigger", string(trigger), "error", res.Err.Error())
		return res
	}

	var (
		mu   sync.Mutex
		errs *multierror.Error
	)
	record := func(r app.RecalcResult) {
		mu.Lock()
		defer mu.Unlock()
		res.Processed++
		res.Changed += r.Changed
		if r.Err != nil {
			res.Errors++
			errs = multierror.Append(errs, r.Err)
			s.logger.Warn("po_recalc_owner_failed", "owner", r.Owner.String(), "error", r.Err.Error())
		}
	}
	listFailed := func(p *domain.Project, err error) {
		mu.Lock()
		defer mu.Unlock()
		res.Errors++
		errs = multierror.Append(errs, fmt.Errorf("listing assignments of project %s: %w", p.ID, err))
		s.logger.Warn("po_recalc_assignments_failed", "project_id", p.ID, "error", err.Error())
	}

	var g errgroup.Group
	g.SetLimit(s.limit)
	for _, p := range projects {
		g.Go(func() error {
			record(s.recalcOwner(ctx, p.Owner(), res.Today))

			assignments, err := s.listAssignments(ctx, p.ID)
			if err != nil {
				listFailed(p, err)
				return nil
			}
			for _, a := range assignments {
				record(s.recalcOwner(ctx, a.Owner(), res.Today))
			}
			return nil
		})
	}
	_ = g.Wait()

	res.FinishedAt = s.clock.Now()
	res.Err = errs.ErrorOrNil()

	attrs := []any{
		"trigger", string(trigger),
		"today", res.Today.Format(po.DateLayout),
		"processed", res.Processed,
		"errors", res.Errors,
		"changed", res.Changed,
		"duration_ms", res.Duration().Milliseconds(),
	}
	if res.Err != nil {
		s.logger.Warn("po_recalc_batch", append(attrs, "error", res.Err.Error())...)
	} else {
		s.logger.Info("po_recalc_batch", attrs...)
	}
	return res
}

func (s *Scheduler) listProjects(ctx context.Context) ([]*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.owners.ListActiveProjects(ctx)
}

func (s *Scheduler) listAssignments(ctx context.Context, projectID string) ([]*domain.EmployeeProject, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.owners.ListAssignmentsByProject(ctx, projectID)
}

// recalcOwner isolates one owner so a panic in the engine only fails that
// owner.
func (s *Scheduler) recalcOwner(ctx context.Context, owner domain.Owner, today time.Time) (res app.RecalcResult) {
	defer func() {
		if r := recover(); r != nil {
			res = app.RecalcResult{Owner: owner, Err: fmt.Errorf("recalculating %s: panic: %v", owner, r)}
		}
	}()
	return s.engine.RecalculateActiveAmendment(ctx, owner, today)
}
