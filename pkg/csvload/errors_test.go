package csvload_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/vvka-141/csvload/pkg/csvload"
)

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, csvload.ExitSuccess},
		{"unknown flag", errors.New("unknown flag --foo"), csvload.ExitUsageError},
		{"accepts args", errors.New("accepts 1 arg(s), received 0"), csvload.ExitUsageError},
		{"invalid argument", errors.New("invalid argument \"abc\" for \"--port\""), csvload.ExitUsageError},
		{"invalid config", fmt.Errorf("bad: %w", csvload.ErrInvalidConfig), csvload.ExitConfigError},
		{"connection failed", csvload.ErrConnectionFailed, csvload.ExitConnectionError},
		{"connection refused text", errors.New("dial tcp: connection refused"), csvload.ExitConnectionError},
		{"interrupted", fmt.Errorf("run: %w", csvload.ErrInterrupted), csvload.ExitInterrupted},
		{"files failed", csvload.ErrFilesFailed, csvload.ExitGeneralError},
		{"general error", errors.New("something went wrong"), csvload.ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := csvload.ExitCodeForError(tt.err); got != tt.want {
				t.Errorf("ExitCodeForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
