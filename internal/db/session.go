package db

import (
	"context"
	"errors"
	"io"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/csvload/internal/loader"
	"github.com/vvka-141/csvload/pkg/csvload"
)

// PoolSession adapts *pgxpool.Pool to the interfaces used by the schema
// builder and the loader. It owns the pool and, when set, the connector
// resources behind it.
type PoolSession struct {
	pool   *pgxpool.Pool
	closer io.Closer
}

// NewPoolSession wraps pool. closer may be nil.
func NewPoolSession(pool *pgxpool.Pool, closer io.Closer) *PoolSession {
	return &PoolSession{pool: pool, closer: closer}
}

// Open connects with connector and wraps the pool. Connectors that hold
// resources beyond the pool (the Cloud SQL dialer) are closed with the session.
func Open(ctx context.Context, connector csvload.Connector) (*PoolSession, error) {
	pool, err := connector.Connect(ctx)
	if err != nil {
		return nil, err
	}
	closer, _ := connector.(io.Closer)
	return NewPoolSession(pool, closer), nil
}

// Exec executes a statement outside any explicit transaction.
func (s *PoolSession) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return s.pool.Exec(ctx, sql, args...)
}

// QueryRow executes a query that is expected to return at most one row.
func (s *PoolSession) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return s.pool.QueryRow(ctx, sql, args...)
}

// Begin starts a transaction. pgx.Tx satisfies loader.Tx.
func (s *PoolSession) Begin(ctx context.Context) (loader.Tx, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// Close closes the pool, then the connector resources.
func (s *PoolSession) Close() error {
	s.pool.Close()
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// SessionOpener opens one session per file using the connector that
// factory builds for cfg.
func SessionOpener(factory csvload.ConnectorFactory) func(ctx context.Context, cfg *csvload.ConnectionConfig) (*PoolSession, error) {
	return func(ctx context.Context, cfg *csvload.ConnectionConfig) (*PoolSession, error) {
		connector, err := factory(cfg)
		if err != nil {
			return nil, err
		}
		session, err := Open(ctx, connector)
		if err != nil {
			if c, ok := connector.(io.Closer); ok {
				err = errors.Join(err, c.Close())
			}
			return nil, err
		}
		return session, nil
	}
}

var _ loader.Session = (*PoolSession)(nil)
