package repository

import (
	"context"
	"testing"

	"github.com/empdesk/empdesk/internal/domain"
	"github.com/empdesk/empdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Billing Revamp", testutil.WithClient("Acme"))
	require.NoError(t, repo.Create(ctx, proj))

	fetched, err := repo.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, proj.ID, fetched.ID)
	assert.Equal(t, "Billing Revamp", fetched.Name)
	assert.Equal(t, "Acme", fetched.Client)
	assert.Equal(t, domain.ProjectActive, fetched.Status)
}

func TestProjectRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)

	_, err := repo.GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProjectRepo_ListByStatus(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestProject("A")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestProject("B")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestProject("C", testutil.WithProjectStatus(domain.ProjectOnHold))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestProject("D", testutil.WithProjectStatus(domain.ProjectCompleted))))

	active, err := repo.ListByStatus(ctx, domain.ProjectActive)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestProjectRepo_UpdateStatus(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Migration")
	require.NoError(t, repo.Create(ctx, proj))

	proj.Status = domain.ProjectCancelled
	require.NoError(t, repo.Update(ctx, proj))

	fetched, err := repo.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectCancelled, fetched.Status)
}

func TestProjectRepo_UpdateMissing(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)

	err := repo.Update(context.Background(), testutil.NewTestProject("Ghost"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProjectRepo_RejectsUnknownStatus(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)

	proj := testutil.NewTestProject("Bad", testutil.WithProjectStatus("archived"))
	assert.Error(t, repo.Create(context.Background(), proj), "CHECK constraint rejects unknown status")
}

func TestProjectRepo_Delete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Short-lived")
	require.NoError(t, repo.Create(ctx, proj))
	require.NoError(t, repo.Delete(ctx, proj.ID))

	_, err := repo.GetByID(ctx, proj.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, proj.ID), ErrNotFound)
}
