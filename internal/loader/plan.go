package loader

import "github.com/vvka-141/csvload/pkg/csvload"

// Options sizes the batches. Zero fields take the csvload defaults.
type Options struct {
	BatchSize          int
	ChunkThreshold     int
	InterimCommitEvery int
}

func (o Options) withDefaults() Options {
	if o.BatchSize <= 0 {
		o.BatchSize = csvload.DefaultBatchSize
	}
	if o.ChunkThreshold <= 0 {
		o.ChunkThreshold = csvload.DefaultChunkThreshold
	}
	if o.InterimCommitEvery <= 0 {
		o.InterimCommitEvery = csvload.DefaultInterimCommitEvery
	}
	return o
}

// Batch is the half-open row range [Start, End).
type Batch struct {
	Index int // 1-based
	Start int
	End   int

	// CommitEvery > 0 commits inside the batch every CommitEvery rows.
	CommitEvery int
}

// Len returns the number of rows in the batch.
func (b Batch) Len() int {
	return b.End - b.Start
}

// Plan splits totalRows into batches. Above the chunk threshold the rows are
// cut into BatchSize pieces; otherwise a single batch with interim commits.
func Plan(totalRows int, opts Options) []Batch {
	if totalRows <= 0 {
		return nil
	}
	opts = opts.withDefaults()

	if totalRows <= opts.ChunkThreshold {
		return []Batch{{Index: 1, Start: 0, End: totalRows, CommitEvery: opts.InterimCommitEvery}}
	}

	batches := make([]Batch, 0, (totalRows+opts.BatchSize-1)/opts.BatchSize)
	for start := 0; start < totalRows; start += opts.BatchSize {
		end := min(start+opts.BatchSize, totalRows)
		batches = append(batches, Batch{Index: len(batches) + 1, Start: start, End: end})
	}
	return batches
}
