package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vvka-141/csvload/internal/dataset"
	"github.com/vvka-141/csvload/internal/files/filesystem"
	"github.com/vvka-141/csvload/internal/files/scanner"
	"github.com/vvka-141/csvload/internal/infer"
	"github.com/vvka-141/csvload/internal/loader"
	"github.com/vvka-141/csvload/internal/schema"
	"github.com/vvka-141/csvload/pkg/csvload"
)

// Importer imports CSV files into PostgreSQL.
// Thread-Safety: NOT safe for concurrent Run() calls on the same instance.
type Importer struct {
	cfg     csvload.ImportConfig
	open    SessionOpener
	fs      filesystem.FileSystemProvider
	scanner *scanner.Scanner
	loader  *loader.Loader
	logger  csvload.Logger
	now     func() time.Time

	largeFile int64
}

// Option customises an Importer.
type Option func(*Importer)

// WithClock sets the clock used for table names and two-digit years.
func WithClock(now func() time.Time) Option {
	return func(im *Importer) {
		im.now = now
	}
}

// New creates an Importer from a copy of cfg. Date column names are
// normalised the same way CSV headers are, and their formats are checked.
//
// Panics on nil dependencies; returns an error wrapping
// csvload.ErrInvalidConfig for a bad configuration.
func New(cfg csvload.ImportConfig, open SessionOpener, fsProvider filesystem.FileSystemProvider, logger csvload.Logger, opts ...Option) (*Importer, error) {
	if open == nil {
		panic("session opener cannot be nil")
	}
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	cfg = cfg.WithDefaults()
	dates := make(map[string]string, len(cfg.DateColumns))
	var errs []error
	for name, format := range cfg.DateColumns {
		if _, err := infer.StrftimeToLayout(format); err != nil {
			errs = append(errs, fmt.Errorf("date column %q: %v: %w", name, err, csvload.ErrInvalidConfig))
			continue
		}
		dates[dataset.NormalizeColumnName(name)] = format
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	cfg.DateColumns = dates

	im := &Importer{
		cfg:     cfg,
		open:    open,
		fs:      fsProvider,
		scanner: scanner.NewScanner(fsProvider),
		loader: loader.New(loader.Options{
			BatchSize:          cfg.BatchSize,
			ChunkThreshold:     cfg.ChunkThreshold,
			InterimCommitEvery: cfg.InterimCommitEvery,
		}, logger),
		logger:    logger,
		now:       time.Now,
		largeFile: csvload.LargeFileBytes,
	}
	for _, opt := range opts {
		opt(im)
	}
	return im, nil
}

// Run imports every CSV file directly inside dir, in name order.
//
// The summary is returned even on error. The error wraps
// csvload.ErrInterrupted when the run was cancelled, or
// csvload.ErrFilesFailed when at least one file failed.
func (im *Importer) Run(ctx context.Context, dir string) (csvload.RunSummary, error) {
	summary := csvload.RunSummary{RunID: uuid.New()}
	start := time.Now()

	paths, err := im.scanner.ListCSV(dir)
	if err != nil {
		return summary, err
	}
	if len(paths) == 0 {
		im.logger.Info("No CSV files found in %s", dir)
		return summary, nil
	}

	im.logger.Info("Starting import %s: %d CSV files in %s", summary.RunID, len(paths), dir)
	for i, path := range paths {
		if ctx.Err() != nil {
			summary.Interrupted = true
			break
		}
		im.logger.Info("[%d/%d] Importing %s", i+1, len(paths), path)

		res := im.ImportFile(ctx, path)
		summary.Results = append(summary.Results, res)
		if res.Status == csvload.StatusInterrupted {
			summary.Interrupted = true
			break
		}
	}
	summary.Elapsed = time.Since(start)

	im.logger.Info("Import complete: imported %d/%d files in %.2f minutes",
		summary.SucceededCount(), len(paths), summary.Elapsed.Minutes())

	if summary.Interrupted {
		return summary, fmt.Errorf("%w: stopped after %d of %d files: %w",
			csvload.ErrInterrupted, summary.Attempted(), len(paths), context.Cause(ctx))
	}
	if failed := summary.Attempted() - summary.SucceededCount(); failed > 0 {
		return summary, fmt.Errorf("%w: %d of %d", csvload.ErrFilesFailed, failed, len(paths))
	}
	return summary, nil
}

// Prepared is a file read into memory with the table inferred for it.
type Prepared struct {
	Path     string
	Dataset  *dataset.Dataset
	Profiles []infer.Profile
	Table    schema.TableSpec
}

// Prepare reads path, infers and coerces its columns and derives the table.
// It does not touch the database.
func (im *Importer) Prepare(path string) (*Prepared, error) {
	info, err := im.fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", csvload.ErrIO, err)
	}
	if info.Size() > im.largeFile {
		im.logger.Warn("%s is %.1f MB; the whole file is loaded into memory", path, float64(info.Size())/(1024*1024))
	}

	f, err := im.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", csvload.ErrIO, err)
	}
	defer f.Close()

	ds, err := dataset.Read(f, dataset.ReadOptions{Delimiter: im.cfg.Delimiter})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	now := im.now()
	opts := infer.Options{DateColumns: im.cfg.DateColumns, Now: now}
	profiles := infer.InferDataset(ds, opts)
	for _, p := range profiles {
		im.logProfile(p)
	}

	return &Prepared{
		Path:     path,
		Dataset:  ds,
		Profiles: profiles,
		Table:    schema.NewTableSpec(schema.TableName(path, now), profiles),
	}, nil
}

func (im *Importer) logProfile(p infer.Profile) {
	switch {
	case p.Kind == infer.Date && p.DateFormat != infer.DetectedDayFirst:
		if p.DateSuccessRate < 1 {
			im.logger.Warn("Column %s: %.0f%% of values match %q, the rest are stored as NULL", p.Column, 100*p.DateSuccessRate, p.DateFormat)
		}
	case p.DateAttempted && p.Kind != infer.Date:
		im.logger.Verbose("Column %s: date conversion reverted (%.0f%% parsed)", p.Column, 100*p.DateSuccessRate)
	}
	im.logger.Verbose("Column %s: %s", p.Column, p.SQLType())
}

// ImportFile imports a single file. Failures are reported in the result.
func (im *Importer) ImportFile(ctx context.Context, path string) (res csvload.ImportResult) {
	start := time.Now()
	res = csvload.ImportResult{Path: path}
	defer func() {
		res.Elapsed = time.Since(start)
	}()

	prep, err := im.Prepare(path)
	if err != nil {
		return im.failed(ctx, res, err)
	}
	res.Table = prep.Table.Name
	res.RowsRead = prep.Dataset.RowCount()

	if err := ctx.Err(); err != nil {
		return im.failed(ctx, res, err)
	}

	session, err := im.open(ctx, &im.cfg.Connection)
	if err != nil {
		return im.failed(ctx, res, err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			im.logger.Warn("closing connection for %s: %v", path, err)
		}
	}()

	existed, err := schema.Exists(ctx, session, prep.Table.Name)
	if err != nil {
		return im.failed(ctx, res, err)
	}
	if err := schema.Create(ctx, session, prep.Table); err != nil {
		return im.failed(ctx, res, err)
	}
	if existed {
		im.logger.Info("Table %s already exists, appending rows", prep.Table.Name)
	} else {
		im.logger.Info("Created table %s", prep.Table.Name)
	}

	out, err := im.loader.Load(ctx, session, prep.Table, prep.Dataset.Args())
	res.RowsCommitted = out.RowsCommitted
	res.Batches = out.Batches
	res.BatchesFailed = out.BatchesFailed
	if err != nil {
		return im.failed(ctx, res, err)
	}
	if err := loadFailure(out, res.RowsRead); err != nil {
		return im.failed(ctx, res, err)
	}

	if out.BatchesFailed > 0 {
		im.logger.Warn("%s: %d of %d chunks failed, %d/%d rows loaded into %s",
			path, out.BatchesFailed, out.Batches, out.RowsCommitted, res.RowsRead, res.Table)
	} else {
		im.logger.Info("Successfully imported %s: %d rows into %s", path, out.RowsCommitted, res.Table)
	}
	res.Status = csvload.StatusSucceeded
	return res
}

// loadFailure returns an error when the load leaves the file unimported: its
// only batch failed, or no row was committed. Chunked files that committed
// some batches are reported as imported with failed chunks.
func loadFailure(out loader.LoadOutcome, rowsRead int) error {
	if out.BatchesFailed == 0 || (out.Batches > 1 && out.RowsCommitted > 0) {
		return nil
	}
	return fmt.Errorf("%d/%d rows loaded: %w", out.RowsCommitted, rowsRead, out.Errors[0])
}

// failed marks res Interrupted when ctx is done, otherwise Failed.
func (im *Importer) failed(ctx context.Context, res csvload.ImportResult, err error) csvload.ImportResult {
	if ctx.Err() != nil {
		if !errors.Is(err, csvload.ErrInterrupted) {
			err = fmt.Errorf("%w: %w", csvload.ErrInterrupted, err)
		}
		res.Status = csvload.StatusInterrupted
		res.Err = err
		im.logger.Warn("Import of %s interrupted: %v", res.Path, err)
		return res
	}
	res.Status = csvload.StatusFailed
	res.Err = err
	im.logger.Error("Failed to import %s: %v", res.Path, err)
	return res
}
