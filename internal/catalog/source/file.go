package source

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

// File reads the CSV from the local filesystem.
type File struct {
	path string
}

// NewFile returns a file source for path.
func NewFile(path string) *File {
	return &File{path: filepath.Clean(path)}
}

// Name implements products.Source.
func (f *File) Name() string { return f.path }

// Path returns the cleaned file path; used by the reload watcher.
func (f *File) Path() string { return f.path }

// Open implements products.Source.
func (f *File) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fh, err := os.Open(f.path)
	if err != nil {
		return nil, err
	}
	return fh, nil
}
