package testutil

import (
	"context"
	"database/sql"

	"github.com/alexanderramin/feather/internal/db"
)

// FailOnNthExecUoW wraps a UnitOfWork and fails the FailOn-th write
// (counting from 1) of every transaction with Err, so a batch can be
// broken halfway through. Reads are not counted.
type FailOnNthExecUoW struct {
	Inner  db.UnitOfWork
	FailOn int
	Err    error
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return u.Inner.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &failingTx{DBTX: tx, failOn: u.FailOn, err: u.Err})
	})
}

type failingTx struct {
	db.DBTX
	writes int
	failOn int
	err    error
}

func (f *failingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.writes++
	if f.writes == f.failOn {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
