package loader

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5/pgconn"
)

// fakeSession is an in-memory table with transactional visibility.
type fakeSession struct {
	mu        sync.Mutex
	committed [][]any

	// failRow makes the insert of a row with this first argument fail.
	failRow func(args []any) bool
	// onExec runs before every insert.
	onExec func(n int)

	execs             int
	begins            int
	commits           int
	rollbacks         int
	cancelledRollback bool
	lastSQL           string
}

type fakeTx struct {
	s       *fakeSession
	pending [][]any
	done    bool
}

func (s *fakeSession) Begin(ctx context.Context) (Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.begins++
	return &fakeTx{s: s}, nil
}

func (s *fakeSession) rows() [][]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committed
}

func (tx *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	tx.s.mu.Lock()
	tx.s.execs++
	n := tx.s.execs
	tx.s.lastSQL = sql
	tx.s.mu.Unlock()

	if tx.s.onExec != nil {
		tx.s.onExec(n)
	}
	if tx.done {
		return pgconn.CommandTag{}, errors.New("tx closed")
	}
	if tx.s.failRow != nil && tx.s.failRow(args) {
		return pgconn.CommandTag{}, &pgconn.PgError{Code: "23505", Message: "duplicate key value"}
	}
	tx.pending = append(tx.pending, args)
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (tx *fakeTx) Commit(ctx context.Context) error {
	if tx.done {
		return errors.New("tx closed")
	}
	tx.done = true
	tx.s.mu.Lock()
	defer tx.s.mu.Unlock()
	tx.s.commits++
	tx.s.committed = append(tx.s.committed, tx.pending...)
	return nil
}

func (tx *fakeTx) Rollback(ctx context.Context) error {
	tx.s.mu.Lock()
	defer tx.s.mu.Unlock()
	if ctx.Err() != nil {
		tx.s.cancelledRollback = true
	}
	if tx.done {
		return nil
	}
	tx.done = true
	tx.s.rollbacks++
	tx.pending = nil
	return nil
}
