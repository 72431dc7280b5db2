package importer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vvka-141/csvload/internal/loader"
	"github.com/vvka-141/csvload/pkg/csvload"
)

// fakeDB stands in for PostgreSQL across sessions: it keeps created tables
// and committed rows.
type fakeDB struct {
	mu       sync.Mutex
	ddl      []string
	tables   map[string]bool
	rows     map[string][][]any
	opened   int
	closed   int
	openErr  error
	ddlErr   error
	insertOK func(sql string, args []any) bool
}

func newFakeDB() *fakeDB {
	return &fakeDB{tables: map[string]bool{}, rows: map[string][][]any{}}
}

func (d *fakeDB) opener() SessionOpener {
	return func(ctx context.Context, _ *csvload.ConnectionConfig) (Session, error) {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.openErr != nil {
			return nil, fmt.Errorf("%w: %w", csvload.ErrConnectionFailed, d.openErr)
		}
		d.opened++
		return &fakeSession{db: d}, nil
	}
}

func (d *fakeDB) committed(sql string) [][]any {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rows[sql]
}

type fakeSession struct {
	db *fakeDB
}

func (s *fakeSession) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.ddlErr != nil {
		return pgconn.CommandTag{}, s.db.ddlErr
	}
	s.db.ddl = append(s.db.ddl, sql)
	return pgconn.NewCommandTag("CREATE TABLE"), nil
}

func (s *fakeSession) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return existsRow(s.db.tables[args[0].(string)])
}

func (s *fakeSession) Begin(ctx context.Context) (loader.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &fakeTx{db: s.db}, nil
}

func (s *fakeSession) Close() error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.closed++
	return nil
}

type existsRow bool

func (r existsRow) Scan(dest ...any) error {
	*dest[0].(*bool) = bool(r)
	return nil
}

type fakeTx struct {
	db      *fakeDB
	sql     string
	pending [][]any
}

func (tx *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx.db.insertOK != nil && !tx.db.insertOK(sql, args) {
		return pgconn.CommandTag{}, errors.New("invalid input syntax")
	}
	tx.sql = sql
	tx.pending = append(tx.pending, args)
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (tx *fakeTx) Commit(ctx context.Context) error {
	tx.db.mu.Lock()
	defer tx.db.mu.Unlock()
	tx.db.rows[tx.sql] = append(tx.db.rows[tx.sql], tx.pending...)
	tx.pending = nil
	return nil
}

func (tx *fakeTx) Rollback(ctx context.Context) error {
	tx.pending = nil
	return nil
}
