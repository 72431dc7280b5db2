package filesystem

import (
	"io"
	"io/fs"
)

// FileInfo is an alias for fs.FileInfo from the standard library.
type FileInfo = fs.FileInfo

// FileSystemProvider is the subset of filesystem operations the importer needs.
type FileSystemProvider interface {
	// ReadDir returns the direct entries of a directory.
	ReadDir(path string) ([]FileInfo, error)

	// Stat returns file information for the given path.
	Stat(path string) (FileInfo, error)

	// Open opens a file for streaming reads. The caller closes it.
	Open(path string) (io.ReadCloser, error)
}
