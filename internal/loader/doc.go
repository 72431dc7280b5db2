// Package loader inserts a dataset's rows into an existing table in
// transactional batches.
//
// Files above the chunk threshold are split into fixed-size batches, each
// committed on its own. Smaller files load as one batch that commits every
// InterimCommitEvery rows. A failed row rolls back the open transaction and
// the rest of its batch is skipped; the next batch still runs.
//
// Cancellation is checked before every row. The open transaction is rolled
// back on a context that is not cancelled, and Load returns an error
// wrapping csvload.ErrInterrupted.
package loader
