// Package schema turns inferred column profiles into PostgreSQL DDL and DML.
package schema

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vvka-141/csvload/internal/infer"
	"github.com/vvka-141/csvload/pkg/csvload"
)

// ColumnSpec is one table column.
type ColumnSpec struct {
	Name string
	Kind infer.StorageKind
	Size int
}

// SQLType renders the column type.
func (c ColumnSpec) SQLType() string {
	return c.Kind.SQLType(c.Size)
}

// TableSpec describes the target table of one file. Treat it as immutable.
type TableSpec struct {
	Name    string
	Columns []ColumnSpec
}

// ColumnNames returns the column names in table order.
func (s TableSpec) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// TableName derives data_{year}{month:02}{stem} from a file path and keeps
// only ASCII letters and digits of the result.
func TableName(path string, now time.Time) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	raw := fmt.Sprintf("%s%d%02d%s", csvload.DefaultTablePrefix, now.Year(), int(now.Month()), stem)

	var b strings.Builder
	for _, r := range raw {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NewTableSpec pairs a table name with column profiles, preserving their order.
func NewTableSpec(name string, profiles []infer.Profile) TableSpec {
	cols := make([]ColumnSpec, len(profiles))
	for i, p := range profiles {
		cols[i] = ColumnSpec{Name: p.Column, Kind: p.Kind, Size: p.Size}
	}
	return TableSpec{Name: name, Columns: cols}
}

// BuildDDL renders CREATE TABLE IF NOT EXISTS with no keys or constraints.
func BuildDDL(spec TableSpec) string {
	defs := make([]string, len(spec.Columns))
	for i, c := range spec.Columns {
		defs[i] = quote(c.Name) + " " + c.SQLType()
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quote(spec.Name), strings.Join(defs, ", "))
}

// BuildInsert renders a positional INSERT with one placeholder per column.
func BuildInsert(spec TableSpec) string {
	cols := make([]string, len(spec.Columns))
	params := make([]string, len(spec.Columns))
	for i, c := range spec.Columns {
		cols[i] = quote(c.Name)
		params[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quote(spec.Name), strings.Join(cols, ", "), strings.Join(params, ", "))
}

// Execer is satisfied by *pgxpool.Pool, pgx.Tx and test fakes.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Create issues the table's DDL. Failures wrap csvload.ErrSchema.
func Create(ctx context.Context, db Execer, spec TableSpec) error {
	if len(spec.Columns) == 0 {
		return fmt.Errorf("%w: table %s has no columns", csvload.ErrSchema, spec.Name)
	}
	if _, err := db.Exec(ctx, BuildDDL(spec)); err != nil {
		return fmt.Errorf("%w: create table %s: %w", csvload.ErrSchema, spec.Name, err)
	}
	return nil
}

const queryTableExists = "SELECT to_regclass($1::text) IS NOT NULL"

// Querier is satisfied by *pgxpool.Pool and pgx.Tx.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Exists reports whether the table is already present in the search path.
func Exists(ctx context.Context, db Querier, name string) (bool, error) {
	var exists bool
	if err := db.QueryRow(ctx, queryTableExists, quote(name)).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: check table %s: %w", csvload.ErrSchema, name, err)
	}
	return exists, nil
}

func quote(ident string) string {
	return pgx.Identifier{ident}.Sanitize()
}
