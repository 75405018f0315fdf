// Package storage is a minimal file abstraction over local disk and S3.
//
// Writes become visible only when the returned writer is closed: Local
// renames a temporary file into place and S3Store issues a single PUT, so
// readers never observe a half-written file.
package storage

import (
	"bytes"
	"context"
	"io"
)

// FileStore reads and replaces whole files. Paths use forward slashes and
// are relative to the store root. Implementations are safe for concurrent
// use.
type FileStore interface {
	// Read fails with an error wrapping os.ErrNotExist for missing files.
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Write starts replacing path. Nothing is visible until Close returns
	// nil. Abort discards the pending content instead.
	Write(ctx context.Context, path string) (Writer, error)

	// Delete is a no-op for missing files.
	Delete(ctx context.Context, path string) error

	Exists(ctx context.Context, path string) (bool, error)
}

// Writer is returned by FileStore.Write.
type Writer interface {
	io.WriteCloser
	Abort() error
}

// ReadFile returns the full content of path.
func ReadFile(ctx context.Context, fs FileStore, path string) ([]byte, error) {
	r, err := fs.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// WriteFile atomically replaces path with data.
func WriteFile(ctx context.Context, fs FileStore, path string, data []byte) error {
	w, err := fs.Write(ctx, path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		w.Abort()
		return err
	}
	return w.Close()
}
