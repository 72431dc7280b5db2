package csvload

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ImportConfig contains every setting an import run needs. It is built once
// by the CLI and handed to the importer, which copies it; nothing mutates it
// after construction.
type ImportConfig struct {
	// SourceDir is the directory scanned (non-recursively) for CSV files.
	SourceDir string

	// Connection is the resolved database connection descriptor.
	Connection ConnectionConfig

	// DateColumns maps a normalised column name to a strftime-style format
	// (e.g. "%Y-%m-%d %H:%M:%S"). Matching columns are always parsed as DATE.
	DateColumns map[string]string

	// BatchSize is the rows-per-transaction once a file exceeds ChunkThreshold.
	BatchSize int

	// ChunkThreshold is the row count above which files are split into batches.
	ChunkThreshold int

	// InterimCommitEvery bounds transaction size when a file is loaded as one batch.
	InterimCommitEvery int

	// Delimiter is the field separator. Zero means ','.
	Delimiter rune

	// Timeout bounds the whole run. Zero means no limit.
	Timeout time.Duration

	// Verbose enables detailed logging
	Verbose bool
}

// WithDefaults returns a copy of c with zero-valued sizing fields set to defaults.
func (c ImportConfig) WithDefaults() ImportConfig {
	if c.BatchSize == 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.ChunkThreshold == 0 {
		c.ChunkThreshold = DefaultChunkThreshold
	}
	if c.InterimCommitEvery == 0 {
		c.InterimCommitEvery = DefaultInterimCommitEvery
	}
	if c.Delimiter == 0 {
		c.Delimiter = ','
	}
	if c.Connection.ConnectTimeout == 0 {
		c.Connection.ConnectTimeout = DefaultConnectTimeout
	}
	if c.Connection.AppName == "" {
		c.Connection.AppName = DefaultAppName
	}
	dates := make(map[string]string, len(c.DateColumns))
	for k, v := range c.DateColumns {
		dates[k] = v
	}
	c.DateColumns = dates
	return c
}

// Validate checks if the ImportConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *ImportConfig) Validate() error {
	var errs []error

	if c.SourceDir == "" {
		errs = append(errs, fmt.Errorf("SourceDir is required: %w", ErrInvalidConfig))
	}
	if c.Connection.Database == "" {
		errs = append(errs, fmt.Errorf("database name is required: %w", ErrInvalidConfig))
	}
	if c.BatchSize < 0 {
		errs = append(errs, fmt.Errorf("batch size cannot be negative: %w", ErrInvalidConfig))
	}
	if c.ChunkThreshold < 0 {
		errs = append(errs, fmt.Errorf("chunk threshold cannot be negative: %w", ErrInvalidConfig))
	}
	if c.InterimCommitEvery < 0 {
		errs = append(errs, fmt.Errorf("interim commit interval cannot be negative: %w", ErrInvalidConfig))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}
	for name, format := range c.DateColumns {
		if format == "" {
			errs = append(errs, fmt.Errorf("date column %q has an empty format: %w", name, ErrInvalidConfig))
		}
	}

	return errors.Join(errs...)
}

// ConnectionConfig represents parsed connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	// Additional connection parameters
	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string

	// Cloud authentication parameters, used by the matching AuthMethod.
	AWSRegion         string
	GoogleInstance    string
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string
}

// AuthMethod represents the type of authentication to use.
type AuthMethod int

const (
	AuthMethodStandard     AuthMethod = iota // Username/Password
	AuthMethodAWSIAM                         // AWS IAM Database Authentication
	AuthMethodGoogleIAM                      // Google Cloud SQL IAM
	AuthMethodAzureEntraID                   // Azure Active Directory (Entra ID)
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// ParseAuthMethod maps a config/flag spelling to an AuthMethod.
func ParseAuthMethod(s string) (AuthMethod, error) {
	switch s {
	case "", "standard", "password":
		return AuthMethodStandard, nil
	case "aws", "aws-iam":
		return AuthMethodAWSIAM, nil
	case "google", "google-iam", "gcp":
		return AuthMethodGoogleIAM, nil
	case "azure", "azure-entra-id", "entra":
		return AuthMethodAzureEntraID, nil
	}
	return AuthMethodStandard, fmt.Errorf("auth method %q: %w", s, ErrUnsupportedAuthMethod)
}

// ImportStatus is the tri-state outcome of one file.
type ImportStatus int

const (
	StatusSucceeded ImportStatus = iota
	StatusFailed
	StatusInterrupted
)

func (s ImportStatus) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	case StatusInterrupted:
		return "interrupted"
	default:
		return fmt.Sprintf("ImportStatus(%d)", int(s))
	}
}

// ImportResult reports what happened to a single input file.
type ImportResult struct {
	Path          string
	Table         string
	Status        ImportStatus
	RowsRead      int
	RowsCommitted int
	Batches       int
	BatchesFailed int
	Elapsed       time.Duration
	Err           error
}

// Succeeded reports whether the file finished without a file-level failure.
// Skipped batches do not make a file fail.
func (r ImportResult) Succeeded() bool {
	return r.Status == StatusSucceeded
}

// RunSummary aggregates the results of a directory run.
type RunSummary struct {
	RunID       uuid.UUID
	Results     []ImportResult
	Elapsed     time.Duration
	Interrupted bool
}

// Attempted is the number of files the run started.
func (s RunSummary) Attempted() int {
	return len(s.Results)
}

// SucceededCount is the number of files that imported successfully.
func (s RunSummary) SucceededCount() int {
	n := 0
	for _, r := range s.Results {
		if r.Succeeded() {
			n++
		}
	}
	return n
}

// RowsCommitted totals committed rows across all files.
func (s RunSummary) RowsCommitted() int {
	n := 0
	for _, r := range s.Results {
		n += r.RowsCommitted
	}
	return n
}
