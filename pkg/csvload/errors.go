package csvload

import (
	"errors"
	"strings"
)

// Sentinel errors for the failure kinds of an import run.
// Callers distinguish them with errors.Is().
//
// Example usage:
//
//	summary, err := importer.Run(ctx, dir)
//	if errors.Is(err, csvload.ErrInterrupted) {
//	    // earlier batches stay committed; the in-flight one was rolled back
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrIO indicates an input file could not be listed, opened or parsed.
	ErrIO = errors.New("input error")

	// ErrConnectionFailed indicates database connection failed.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrSchema indicates the CREATE TABLE statement was rejected.
	ErrSchema = errors.New("schema error")

	// ErrRow indicates a single INSERT was rejected. Never fatal; the
	// surrounding batch is rolled back and skipped.
	ErrRow = errors.New("row rejected")

	// ErrInterrupted indicates the run was cancelled. The in-flight batch
	// has been rolled back by the time this error is returned.
	ErrInterrupted = errors.New("interrupted")

	// ErrNoFiles indicates the source directory holds no CSV files.
	// Informational: an empty directory is a successful run.
	ErrNoFiles = errors.New("no CSV files found")

	// ErrFilesFailed indicates the run finished but at least one file failed.
	ErrFilesFailed = errors.New("one or more files failed to import")

	// ErrUnsupportedAuthMethod indicates the requested authentication method is not supported.
	ErrUnsupportedAuthMethod = errors.New("unsupported authentication method")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInterrupted):
		return ExitInterrupted
	case errors.Is(err, ErrInvalidConfig), errors.Is(err, ErrUnsupportedAuthMethod):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	}

	errStr := err.Error()
	if isUsageError(errStr) {
		return ExitUsageError
	}
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}

// isUsageError matches the messages cobra produces for flag and argument misuse.
func isUsageError(msg string) bool {
	for _, p := range []string{
		"unknown flag",
		"unknown shorthand flag",
		"unknown command",
		"accepts ",
		"requires at least",
		"required flag",
		"invalid argument",
		"missing required argument",
	} {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
