package service

import (
	"context"
	"fmt"
	"time"

	"github.com/empdesk/empdesk/internal/app"
	"github.com/empdesk/empdesk/internal/domain"
	"github.com/empdesk/empdesk/internal/po"
	"github.com/empdesk/empdesk/internal/repository"
	"github.com/google/uuid"
)

type amendmentService struct {
	amendments  repository.AmendmentRepo
	projects    repository.ProjectRepo
	assignments repository.AssignmentRepo
	recalc      RecalcService
	today       TodayFunc
	observer    UseCaseObserver
}

func NewAmendmentService(
	amendments repository.AmendmentRepo,
	projects repository.ProjectRepo,
	assignments repository.AssignmentRepo,
	recalc RecalcService,
	today TodayFunc,
	observers ...UseCaseObserver,
) AmendmentService {
	return &amendmentService{
		amendments:  amendments,
		projects:    projects,
		assignments: assignments,
		recalc:      recalc,
		today:       today,
		observer:    useCaseObserverOrNoop(observers),
	}
}

func (s *amendmentService) Create(ctx context.Context, a *domain.POAmendment) (res app.RecalcResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"owner": a.Owner.String(), "po_number": a.PONumber}
	defer func() { observe(ctx, s.observer, "create-amendment", startedAt, fields, &err) }()

	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if err = validateAmendment(a); err != nil {
		return res, err
	}
	if err = s.ownerExists(ctx, a.Owner); err != nil {
		return res, err
	}

	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	a.IsActive = false
	if err = s.amendments.Create(ctx, a); err != nil {
		return res, err
	}
	fields["amendment_id"] = a.ID

	return s.recalcOwner(ctx, a.Owner), nil
}

func (s *amendmentService) GetByID(ctx context.Context, id string) (*domain.POAmendment, error) {
	return s.amendments.GetByID(ctx, id)
}

func (s *amendmentService) ListByOwner(ctx context.Context, owner domain.Owner) ([]*domain.POAmendment, error) {
	return s.amendments.ListByOwner(ctx, owner)
}

func (s *amendmentService) Update(ctx context.Context, id string, patch domain.AmendmentPatch) (a *domain.POAmendment, res app.RecalcResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"amendment_id": id}
	defer func() { observe(ctx, s.observer, "update-amendment", startedAt, fields, &err) }()

	a, err = s.amendments.GetByID(ctx, id)
	if err != nil {
		return nil, res, err
	}
	fields["owner"] = a.Owner.String()

	patch.Apply(a, time.Now().UTC())
	if err = validateAmendment(a); err != nil {
		return nil, res, err
	}
	if err = s.amendments.Update(ctx, a); err != nil {
		return nil, res, err
	}

	res = s.recalcOwner(ctx, a.Owner)
	a.IsActive = res.ActiveID != nil && *res.ActiveID == a.ID
	return a, res, nil
}

func (s *amendmentService) Delete(ctx context.Context, id string) (res app.RecalcResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"amendment_id": id}
	defer func() { observe(ctx, s.observer, "delete-amendment", startedAt, fields, &err) }()

	a, err := s.amendments.GetByID(ctx, id)
	if err != nil {
		return res, err
	}
	fields["owner"] = a.Owner.String()
	if err = s.amendments.Delete(ctx, id); err != nil {
		return res, err
	}
	return s.recalcOwner(ctx, a.Owner), nil
}

// recalcOwner runs the engine for owner right after a mutation. A failure here
// does not undo the mutation; the next scheduled run repairs the flag.
func (s *amendmentService) recalcOwner(ctx context.Context, owner domain.Owner) app.RecalcResult {
	return s.recalc.RecalculateActiveAmendment(ctx, owner, s.today())
}

func (s *amendmentService) ownerExists(ctx context.Context, owner domain.Owner) error {
	var err error
	switch owner.Kind {
	case domain.OwnerProject:
		_, err = s.projects.GetByID(ctx, owner.ID)
	case domain.OwnerAssignment:
		_, err = s.assignments.GetByID(ctx, owner.ID)
	default:
		return fmt.Errorf("%w: unknown owner kind %q", domain.ErrValidation, owner.Kind)
	}
	if err != nil {
		return fmt.Errorf("amendment owner %s: %w", owner, err)
	}
	return nil
}

// validateAmendment applies the engine's validity rules to user input so an
// amendment that would be excluded from selection is rejected up front.
func validateAmendment(a *domain.POAmendment) error {
	if err := po.Validate(a); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	return nil
}
