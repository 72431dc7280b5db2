package csvload

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Every file imported successfully
	ExitGeneralError    = 1  // Unknown error, or at least one file failed
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration
	ExitConnectionError = 11 // Failed to connect to database
	ExitInterrupted     = 13 // Run cancelled by SIGINT/SIGTERM
)

// Load sizing defaults.
const (
	// DefaultBatchSize is the number of rows committed per transaction
	// once a file is larger than DefaultChunkThreshold.
	DefaultBatchSize = 5000

	// DefaultChunkThreshold is the row count above which a file is split
	// into DefaultBatchSize batches. At or below it the whole file is one batch.
	DefaultChunkThreshold = 10000

	// DefaultInterimCommitEvery bounds transaction size on the single-batch path.
	DefaultInterimCommitEvery = 1000

	// ProgressEvery is how often (in rows) progress is reported within a batch.
	ProgressEvery = 1000

	// LargeFileBytes triggers a warning before a file is read into memory.
	LargeFileBytes = 100 * 1024 * 1024
)

// Type inference thresholds.
const (
	// MaxBoundedTextWidth is the exclusive upper bound on observed width
	// for a VARCHAR column. Wider columns become TEXT.
	MaxBoundedTextWidth = 255

	// TextWidthPadding is added to the observed width of VARCHAR columns.
	TextWidthPadding = 50

	// DecimalPrecision and DecimalScale size NUMERIC columns.
	DecimalPrecision = 18
	DecimalScale     = 4

	// DateUniqueRatioLimit skips date detection for identifier-like columns.
	DateUniqueRatioLimit = 0.8

	// DateMinSuccessRate is the minimum non-null fraction for an
	// auto-detected date conversion to be kept.
	DateMinSuccessRate = 0.5

	// DateSampleMinLength is the minimum length of the first non-null value
	// for a column to be considered date-like.
	DateSampleMinLength = 6
)

const (
	// DefaultConnectTimeout matches the connect_timeout the loader has always used.
	DefaultConnectTimeout = 180 * time.Second

	// DefaultRetryInitialDelay is the default initial delay before the first retry attempt.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between retry attempts.
	DefaultRetryMaxDelay = 30 * time.Second

	// DefaultRetryMaxAttempts is the default maximum number of retry attempts.
	DefaultRetryMaxAttempts = 3

	// DefaultTablePrefix starts every derived table name.
	DefaultTablePrefix = "data_"

	// DefaultAppName is reported to PostgreSQL as application_name.
	DefaultAppName = "csvload"
)
