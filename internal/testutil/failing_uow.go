package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/empdesk/empdesk/internal/db"
)

// FailingUoW runs transactions against DB but makes one write fail, so tests
// can check that the statements before it were rolled back.
//
// A write is rejected when its query contains Match, or, with Match empty,
// when it is the FailOn-th write of the transaction (counted from 1). Reads
// pass through.
type FailingUoW struct {
	DB     *sql.DB
	FailOn int32
	Match  string
	Err    error

	writes atomic.Int32
}

// Writes reports how many writes were attempted across all transactions.
func (u *FailingUoW) Writes() int {
	return int(u.writes.Load())
}

func (u *FailingUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	w := &failingTx{DBTX: tx, uow: u}
	if err := fn(ctx, w); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type failingTx struct {
	db.DBTX
	uow *FailingUoW
	n   int32
}

func (f *failingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.n++
	f.uow.writes.Add(1)
	if f.shouldFail(query) {
		return nil, f.uow.Err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}

func (f *failingTx) shouldFail(query string) bool {
	if f.uow.Match != "" {
		return strings.Contains(query, f.uow.Match)
	}
	return f.n == f.uow.FailOn
}
