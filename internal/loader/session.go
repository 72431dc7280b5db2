package loader

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"
)

// Tx is the part of pgx.Tx the loader uses. pgx.Tx satisfies it directly.
type Tx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Session opens transactions on a single database connection.
type Session interface {
	Begin(ctx context.Context) (Tx, error)
}
