package scanner

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vvka-141/csvload/internal/files/filesystem"
	"github.com/vvka-141/csvload/pkg/csvload"
)

// Scanner lists CSV files. Safe for concurrent use if the provider is.
type Scanner struct {
	fsProvider filesystem.FileSystemProvider
}

// NewScanner creates a scanner over the given filesystem.
// Panics if fsProvider is nil.
func NewScanner(fsProvider filesystem.FileSystemProvider) *Scanner {
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	return &Scanner{fsProvider: fsProvider}
}

// ListCSV returns the paths of the CSV files directly inside dir, sorted by name.
// Errors wrap csvload.ErrIO.
func (s *Scanner) ListCSV(dir string) ([]string, error) {
	info, err := s.fsProvider.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", csvload.ErrIO, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: path is not a directory: %s", csvload.ErrIO, dir)
	}

	entries, err := s.fsProvider.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", csvload.ErrIO, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !IsCSV(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// IsCSV reports whether name has a .csv extension, ignoring case.
func IsCSV(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".csv")
}
