package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/empdesk/empdesk/internal/domain"
	"github.com/empdesk/empdesk/internal/po"
	"github.com/empdesk/empdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecalc_SelectsSuccessorAndClearsExpired(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	proj := seedProject(t, r, "Apollo")
	first := seedAmendment(t, r, proj.Owner(), "PO-1", "2024-01-01", testutil.WithEndDate("2024-06-30"))
	second := seedAmendment(t, r, proj.Owner(), "PO-2", "2024-07-01")
	// Stale flag left over from before the first amendment expired.
	require.NoError(t, r.amendments.SetActive(ctx, proj.Owner(), &first.ID))

	svc := NewRecalcService(r.store(), time.Second, nil)
	res := svc.RecalculateActiveAmendment(ctx, proj.Owner(), testutil.Day("2024-08-15"))

	require.NoError(t, res.Err)
	require.NotNil(t, res.ActiveID)
	assert.Equal(t, second.ID, *res.ActiveID)
	assert.Equal(t, 2, res.Changed)
	assert.Equal(t, []string{second.ID}, activeIDs(t, r, proj.Owner()))
}

func TestRecalc_InclusiveStartAndEnd(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	proj := seedProject(t, r, "Boundary")
	a := seedAmendment(t, r, proj.Owner(), "PO-1", "2024-01-01", testutil.WithEndDate("2024-01-01"))

	svc := NewRecalcService(r.store(), time.Second, nil)

	res := svc.RecalculateActiveAmendment(ctx, proj.Owner(), testutil.Day("2024-01-01"))
	require.NoError(t, res.Err)
	require.NotNil(t, res.ActiveID)
	assert.Equal(t, a.ID, *res.ActiveID)

	res = svc.RecalculateActiveAmendment(ctx, proj.Owner(), testutil.Day("2024-01-02"))
	require.NoError(t, res.Err)
	assert.Nil(t, res.ActiveID)
	assert.Equal(t, 1, res.Changed)
	assert.Empty(t, activeIDs(t, r, proj.Owner()))
}

func TestRecalc_FutureDatedOnlyLeavesNoneActive(t *testing.T) {
	r := setupRepos(t)
	proj := seedProject(t, r, "Future")
	seedAmendment(t, r, proj.Owner(), "PO-1", "2025-01-01")

	svc := NewRecalcService(r.store(), time.Second, nil)
	res := svc.RecalculateActiveAmendment(context.Background(), proj.Owner(), testutil.Day("2024-08-15"))

	require.NoError(t, res.Err, "no qualifying amendment is not an error")
	assert.Nil(t, res.ActiveID)
	assert.Zero(t, res.Changed)
}

func TestRecalc_IdempotentSecondRunWritesNothing(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	proj := seedProject(t, r, "Repeat")
	seedAmendment(t, r, proj.Owner(), "PO-1", "2024-01-01", testutil.WithEndDate("2024-06-30"))
	seedAmendment(t, r, proj.Owner(), "PO-2", "2024-07-01")

	store := &countingStore{AmendmentStore: r.store()}
	svc := NewRecalcService(store, time.Second, nil)
	today := testutil.Day("2024-08-15")

	first := svc.RecalculateActiveAmendment(ctx, proj.Owner(), today)
	require.NoError(t, first.Err)
	assert.Equal(t, int32(1), store.writes.Load())

	second := svc.RecalculateActiveAmendment(ctx, proj.Owner(), today)
	require.NoError(t, second.Err)
	assert.Zero(t, second.Changed)
	assert.Equal(t, int32(1), store.writes.Load(), "second run must not write")
	assert.Equal(t, first.ActiveID, second.ActiveID)
}

func TestRecalc_EmptyOwnerNoWritesNoError(t *testing.T) {
	r := setupRepos(t)
	proj := seedProject(t, r, "Empty")

	store := &countingStore{AmendmentStore: r.store()}
	svc := NewRecalcService(store, time.Second, nil)
	res := svc.RecalculateActiveAmendment(context.Background(), proj.Owner(), testutil.Day("2024-08-15"))

	require.NoError(t, res.Err)
	assert.Nil(t, res.ActiveID)
	assert.Zero(t, store.writes.Load())
}

func TestRecalc_InvalidStoredRowIsSkippedAndCleared(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	proj := seedProject(t, r, "Dirty")
	good := seedAmendment(t, r, proj.Owner(), "PO-1", "2024-01-01")

	// A newer row whose end date cannot be parsed, currently flagged active.
	_, err := r.db.ExecContext(ctx, `INSERT INTO po_amendments
		(id, owner_kind, owner_id, po_number, start_date, end_date, is_active, created_at, updated_at)
		VALUES ('zzz-bad', 'project', ?, 'PO-BAD', '2024-05-01', 'soon', 1, '2024-05-01T00:00:00Z', '2024-05-01T00:00:00Z')`,
		proj.ID)
	require.NoError(t, err)

	svc := NewRecalcService(r.store(), time.Second, nil)
	res := svc.RecalculateActiveAmendment(ctx, proj.Owner(), testutil.Day("2024-08-15"))

	require.NoError(t, res.Err)
	assert.Equal(t, 1, res.Skipped)
	require.NotNil(t, res.ActiveID)
	assert.Equal(t, good.ID, *res.ActiveID)
	assert.Equal(t, []string{good.ID}, activeIDs(t, r, proj.Owner()))
}

func TestRecalc_AssignmentOwner(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	proj := seedProject(t, r, "Staffed")
	emp := testutil.NewTestEmployee("Barbara")
	require.NoError(t, r.employees.Create(ctx, emp))
	asg := testutil.NewTestAssignment(emp.ID, proj.ID)
	require.NoError(t, r.assignments.Create(ctx, asg))

	a := seedAmendment(t, r, asg.Owner(), "PO-A", "2024-02-01")
	seedAmendment(t, r, proj.Owner(), "PO-P", "2024-01-01")

	svc := NewRecalcService(r.store(), time.Second, nil)
	res := svc.RecalculateActiveAmendment(ctx, asg.Owner(), testutil.Day("2024-08-15"))
	require.NoError(t, res.Err)
	require.NotNil(t, res.ActiveID)
	assert.Equal(t, a.ID, *res.ActiveID)
	assert.Empty(t, activeIDs(t, r, proj.Owner()), "project owner is untouched")
}

// slowStore blocks every read until the context ends.
type slowStore struct {
	AmendmentStore
}

func (slowStore) ListAmendments(ctx context.Context, _ domain.Owner) ([]*domain.POAmendment, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestRecalc_TimeoutIsOwnerFailure(t *testing.T) {
	r := setupRepos(t)
	proj := seedProject(t, r, "Slow")

	svc := NewRecalcService(slowStore{AmendmentStore: r.store()}, 20*time.Millisecond, nil)
	res := svc.RecalculateActiveAmendment(context.Background(), proj.Owner(), testutil.Day("2024-08-15"))

	require.Error(t, res.Err)
	assert.True(t, res.Failed())
	assert.ErrorIs(t, res.Err, po.ErrStorageUnavailable)
	assert.ErrorIs(t, res.Err, context.DeadlineExceeded)
}

type failingWriteStore struct {
	AmendmentStore
}

func (failingWriteStore) SetActiveAmendment(context.Context, domain.Owner, *string) error {
	return errors.New("disk full")
}

func TestRecalc_WriteFailureKeepsStoredActive(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	proj := seedProject(t, r, "ReadOnly")
	old := seedAmendment(t, r, proj.Owner(), "PO-1", "2024-01-01", testutil.WithEndDate("2024-06-30"))
	seedAmendment(t, r, proj.Owner(), "PO-2", "2024-07-01")
	require.NoError(t, r.amendments.SetActive(ctx, proj.Owner(), &old.ID))

	svc := NewRecalcService(failingWriteStore{AmendmentStore: r.store()}, time.Second, nil)
	res := svc.RecalculateActiveAmendment(ctx, proj.Owner(), testutil.Day("2024-08-15"))

	require.Error(t, res.Err)
	assert.ErrorIs(t, res.Err, po.ErrStorageUnavailable)
	assert.Contains(t, res.Err.Error(), "disk full")
	require.NotNil(t, res.ActiveID)
	assert.Equal(t, old.ID, *res.ActiveID)
	assert.Zero(t, res.Changed)
}
