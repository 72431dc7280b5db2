package loader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/vvka-141/csvload/internal/schema"
	"github.com/vvka-141/csvload/pkg/csvload"
)

// rollbackTimeout bounds the cleanup rollback issued after cancellation.
const rollbackTimeout = 30 * time.Second

// BatchError records why a batch was skipped.
type BatchError struct {
	Batch Batch
	Row   int // absolute row index, -1 when not row-specific
	Err   error
}

func (e *BatchError) Error() string {
	if e.Row >= 0 {
		return fmt.Sprintf("batch %d (rows %d-%d) failed at row %d: %v", e.Batch.Index, e.Batch.Start+1, e.Batch.End, e.Row+1, e.Err)
	}
	return fmt.Sprintf("batch %d (rows %d-%d) failed: %v", e.Batch.Index, e.Batch.Start+1, e.Batch.End, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// LoadOutcome summarises a Load call.
type LoadOutcome struct {
	RowsCommitted int
	Batches       int
	BatchesFailed int
	Errors        []*BatchError
}

// Loader inserts rows batch by batch. It holds no per-load state.
type Loader struct {
	opts   Options
	logger csvload.Logger
}

// New creates a Loader. Panics if logger is nil.
func New(opts Options, logger csvload.Logger) *Loader {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Loader{opts: opts.withDefaults(), logger: logger}
}

// Load inserts rows into spec's table. rows hold bind arguments in column order.
//
// A returned error always wraps csvload.ErrInterrupted; batch failures are
// reported in the outcome instead.
func (l *Loader) Load(ctx context.Context, session Session, spec schema.TableSpec, rows [][]any) (LoadOutcome, error) {
	batches := Plan(len(rows), l.opts)
	out := LoadOutcome{Batches: len(batches)}
	if len(batches) == 0 {
		return out, nil
	}
	if len(batches) > 1 {
		l.logger.Info("Processing %d rows in %d chunks of up to %d", len(rows), len(batches), l.opts.BatchSize)
	}

	insert := schema.BuildInsert(spec)
	for _, b := range batches {
		committed, err := l.loadBatch(ctx, session, insert, rows, b, len(batches))
		out.RowsCommitted += committed

		var batchErr *BatchError
		switch {
		case err == nil:
			l.logger.Info("Chunk %d/%d committed: %d rows", b.Index, len(batches), b.Len())
		case errors.Is(err, csvload.ErrInterrupted):
			return out, err
		case errors.As(err, &batchErr):
			out.BatchesFailed++
			out.Errors = append(out.Errors, batchErr)
			l.logger.Error("Error in chunk %d: %v", b.Index, batchErr.Err)
		default:
			return out, err
		}
	}
	return out, nil
}

// loadBatch returns the rows it committed. Errors are *BatchError or wrap ErrInterrupted.
func (l *Loader) loadBatch(ctx context.Context, session Session, insert string, rows [][]any, b Batch, total int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, interrupted(b, err)
	}

	tx, err := session.Begin(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return 0, interrupted(b, ctx.Err())
		}
		return 0, &BatchError{Batch: b, Row: -1, Err: fmt.Errorf("begin: %w", err)}
	}

	committed, pending := 0, 0
	for i := b.Start; i < b.End; i++ {
		if err := ctx.Err(); err != nil {
			l.rollback(ctx, tx)
			return committed, interrupted(b, err)
		}

		if _, err := tx.Exec(ctx, insert, rows[i]...); err != nil {
			l.rollback(ctx, tx)
			if ctx.Err() != nil {
				return committed, interrupted(b, ctx.Err())
			}
			return committed, &BatchError{Batch: b, Row: i, Err: fmt.Errorf("%w: %w", csvload.ErrRow, err)}
		}
		pending++

		done := i - b.Start + 1
		if done%csvload.ProgressEvery == 0 {
			l.logger.Verbose("Inserted %d/%d rows in chunk %d/%d", done, b.Len(), b.Index, total)
		}

		if b.CommitEvery > 0 && pending == b.CommitEvery && i+1 < b.End {
			if err := tx.Commit(ctx); err != nil {
				l.rollback(ctx, tx)
				return committed, &BatchError{Batch: b, Row: -1, Err: fmt.Errorf("commit: %w", err)}
			}
			committed += pending
			pending = 0
			l.logger.Verbose("Processed %d/%d rows (%.1f%%)", done, b.Len(), 100*float64(done)/float64(b.Len()))

			if tx, err = session.Begin(ctx); err != nil {
				if ctx.Err() != nil {
					return committed, interrupted(b, ctx.Err())
				}
				return committed, &BatchError{Batch: b, Row: -1, Err: fmt.Errorf("begin: %w", err)}
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		l.rollback(ctx, tx)
		if ctx.Err() != nil {
			return committed, interrupted(b, ctx.Err())
		}
		return committed, &BatchError{Batch: b, Row: -1, Err: fmt.Errorf("commit: %w", err)}
	}
	return committed + pending, nil
}

// rollback runs on a context detached from cancellation so an interrupt
// cannot prevent the cleanup itself.
func (l *Loader) rollback(ctx context.Context, tx Tx) {
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rollbackTimeout)
	defer cancel()
	if err := tx.Rollback(rctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		l.logger.Warn("rollback failed: %v", err)
	}
}

func interrupted(b Batch, cause error) error {
	return fmt.Errorf("%w: during chunk %d: %w", csvload.ErrInterrupted, b.Index, cause)
}
