package importer

import (
	"context"

	"github.com/vvka-141/csvload/internal/db"
	"github.com/vvka-141/csvload/internal/loader"
	"github.com/vvka-141/csvload/internal/schema"
	"github.com/vvka-141/csvload/pkg/csvload"
)

// Session is one file's database session.
type Session interface {
	loader.Session
	schema.Execer
	schema.Querier
	Close() error
}

// SessionOpener opens a session for a resolved connection config.
type SessionOpener func(ctx context.Context, cfg *csvload.ConnectionConfig) (Session, error)

// DatabaseOpener opens a single-connection pgx pool per call using the
// connector that factory builds.
func DatabaseOpener(factory csvload.ConnectorFactory) SessionOpener {
	open := db.SessionOpener(factory)
	return func(ctx context.Context, cfg *csvload.ConnectionConfig) (Session, error) {
		s, err := open(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}
