package logging

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// FileLogger appends "2006-01-02 15:04:05 - LEVEL - message" lines to a file.
// Safe for concurrent use by multiple goroutines.
type FileLogger struct {
	verbose bool
	file    *os.File
	now     func() time.Time
	mu      sync.Mutex
}

// NewFileLogger opens (or creates) path for appending.
// The caller must Close the logger when done.
func NewFileLogger(path string, verbose bool) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return &FileLogger{verbose: verbose, file: f, now: time.Now}, nil
}

// Verbose logs at DEBUG level when verbose mode is enabled.
func (l *FileLogger) Verbose(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.write("DEBUG", format, args)
}

// Info logs at INFO level.
func (l *FileLogger) Info(format string, args ...interface{}) {
	l.write("INFO", format, args)
}

// Warn logs at WARNING level.
func (l *FileLogger) Warn(format string, args ...interface{}) {
	l.write("WARNING", format, args)
}

// Error logs at ERROR level.
func (l *FileLogger) Error(format string, args ...interface{}) {
	l.write("ERROR", format, args)
}

// Close flushes and closes the underlying file.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

func (l *FileLogger) write(level, format string, args []interface{}) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	// write errors are dropped: the log file is a side channel
	fmt.Fprintf(l.file, "%s - %s - %s\n", l.now().Format("2006-01-02 15:04:05"), level, msg)
}
