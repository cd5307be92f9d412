package service

import (
	"context"
	"database/sql"
	"sync/atomic"
	"testing"
	"time"

	"github.com/empdesk/empdesk/internal/db"
	"github.com/empdesk/empdesk/internal/domain"
	"github.com/empdesk/empdesk/internal/repository"
	"github.com/empdesk/empdesk/internal/testutil"
	"github.com/stretchr/testify/require"
)

type testRepos struct {
	db          *sql.DB
	uow         db.UnitOfWork
	projects    *repository.SQLiteProjectRepo
	employees   *repository.SQLiteEmployeeRepo
	assignments *repository.SQLiteAssignmentRepo
	amendments  *repository.SQLiteAmendmentRepo
}

func setupRepos(t *testing.T) testRepos {
	t.Helper()
	database := testutil.NewTestDB(t)
	return testRepos{
		db:          database,
		uow:         testutil.NewTestUoW(database),
		projects:    repository.NewSQLiteProjectRepo(database),
		employees:   repository.NewSQLiteEmployeeRepo(database),
		assignments: repository.NewSQLiteAssignmentRepo(database),
		amendments:  repository.NewSQLiteAmendmentRepo(database),
	}
}

func (r testRepos) store() AmendmentStore {
	return NewAmendmentStore(r.projects, r.assignments, r.amendments, r.uow)
}

func fixedToday(s string) TodayFunc {
	d := testutil.Day(s)
	return func() time.Time { return d }
}

// countingStore records how many flag writes reach the underlying store.
type countingStore struct {
	AmendmentStore
	writes atomic.Int32
}

func (c *countingStore) SetActiveAmendment(ctx context.Context, owner domain.Owner, id *string) error {
	c.writes.Add(1)
	return c.AmendmentStore.SetActiveAmendment(ctx, owner, id)
}

// activeIDs returns the IDs of owner's amendments that are flagged active.
func activeIDs(t *testing.T, r testRepos, owner domain.Owner) []string {
	t.Helper()
	list, err := r.amendments.ListByOwner(context.Background(), owner)
	require.NoError(t, err)
	var ids []string
	for _, a := range list {
		if a.IsActive {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

// seedProject creates an active project and returns it.
func seedProject(t *testing.T, r testRepos, name string, opts ...testutil.ProjectOption) *domain.Project {
	t.Helper()
	p := testutil.NewTestProject(name, opts...)
	require.NoError(t, r.projects.Create(context.Background(), p))
	return p
}

// seedAmendment inserts an amendment directly, bypassing the service.
func seedAmendment(t *testing.T, r testRepos, owner domain.Owner, poNumber, start string, opts ...testutil.AmendmentOption) *domain.POAmendment {
	t.Helper()
	a := testutil.NewTestAmendment(owner, poNumber, start, opts...)
	require.NoError(t, r.amendments.Create(context.Background(), a))
	return a
}
