// Package store defines the storage backend interface for reading job
// output files, and the logical path type used to address them.
package store

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrNotFound is returned when a file does not exist in the store.
	ErrNotFound = errors.New("store: file not found")

	// ErrBackendUnavailable is returned when no backend serves a path's
	// scheme or the backend cannot be reached.
	ErrBackendUnavailable = errors.New("store: backend unavailable")
)

// Store defines the interface for storage backends.
// Names are backend-relative: the key inside a bucket, or the absolute
// path on a filesystem.
type Store interface {
	// Open returns a stream of the raw stored bytes of name.
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// OpenRange returns a stream of n raw bytes of name starting at off.
	// A negative n reads to the end of the file.
	OpenRange(ctx context.Context, name string, off, n int64) (io.ReadCloser, error)

	// Exists reports whether name exists.
	Exists(ctx context.Context, name string) (bool, error)

	// Length returns the stored size of name in bytes.
	Length(ctx context.Context, name string) (int64, error)

	// Close releases any resources held by the store.
	Close() error
}

// LimitReadCloser returns a ReadCloser that reads at most n bytes from rc
// and closes rc. A negative n returns rc unchanged.
func LimitReadCloser(rc io.ReadCloser, n int64) io.ReadCloser {
	if n < 0 {
		return rc
	}
	return &limitReadCloser{r: io.LimitReader(rc, n), c: rc}
}

type limitReadCloser struct {
	r io.Reader
	c io.Closer
}

func (l *limitReadCloser) Read(p []byte) (int, error) {
	return l.r.Read(p)
}

func (l *limitReadCloser) Close() error {
	return l.c.Close()
}
