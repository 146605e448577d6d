package cachedstore

import (
	"context"
	"errors"
	"io"

	"github.com/tabcheck/tabcheck/internal/store"
)

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Store wraps another Store, caching Exists and Length results.
type Store struct {
	underlying store.Store
	backend    Backend
}

// New creates a new cached store wrapping the given store.
func New(underlying store.Store, backend Backend) *Store {
	return &Store{
		underlying: underlying,
		backend:    backend,
	}
}

// Open opens a file on the underlying store.
func (s *Store) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	rc, err := s.underlying.Open(ctx, name)
	s.forgetMissing(name, err)
	return rc, err
}

// OpenRange opens a range of a file on the underlying store.
func (s *Store) OpenRange(ctx context.Context, name string, off, n int64) (io.ReadCloser, error) {
	rc, err := s.underlying.OpenRange(ctx, name, off, n)
	s.forgetMissing(name, err)
	return rc, err
}

// Exists reports whether a file exists, checking the cache first.
func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	_, err := s.Length(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Length returns the size of a file, checking the cache first.
func (s *Store) Length(ctx context.Context, name string) (int64, error) {
	if n, ok := s.backend.Get(name); ok {
		return n, nil
	}

	// Cache miss - ask the underlying store.
	n, err := s.underlying.Length(ctx, name)
	if err != nil {
		return 0, err
	}

	s.backend.Set(name, n)
	return n, nil
}

// Close closes the underlying store.
func (s *Store) Close() error {
	return s.underlying.Close()
}

// Stats returns cache statistics.
func (s *Store) Stats() Stats {
	return s.backend.Stats()
}

func (s *Store) forgetMissing(name string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		s.backend.Remove(name)
	}
}
