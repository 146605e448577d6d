// Package memstore provides an in-memory store implementation for tests and
// the mem:// scheme.
package memstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/tabcheck/tabcheck/internal/store"
)

// Scheme is the path scheme conventionally served by a memory store.
const Scheme = "mem"

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Store is an in-memory store.
type Store struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		files: make(map[string][]byte),
	}
}

// Put sets the content of a file.
// The data is copied to prevent caller mutations from affecting the store.
func (s *Store) Put(name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[name] = bytes.Clone(data)
}

// Remove deletes a file. Removing a missing file is a no-op.
func (s *Store) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, name)
}

// Names returns the stored file names in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open returns the content of a file.
func (s *Store) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	return s.OpenRange(ctx, name, 0, -1)
}

// OpenRange returns n bytes of a file starting at off.
func (s *Store) OpenRange(ctx context.Context, name string, off, n int64) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := s.get(name)
	if err != nil {
		return nil, err
	}
	size := int64(len(data))
	if off < 0 || off > size {
		return nil, fmt.Errorf("memstore: offset %d out of range for %s (%d bytes)", off, name, size)
	}
	end := size
	if n >= 0 && off+n < size {
		end = off + n
	}
	return io.NopCloser(bytes.NewReader(data[off:end])), nil
}

// Exists reports whether a file is stored.
func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	_, err := s.get(name)
	return err == nil, nil
}

// Length returns the size of a file.
func (s *Store) Length(ctx context.Context, name string) (int64, error) {
	data, err := s.get(name)
	if err != nil {
		return 0, err
	}
	return int64(len(data)), nil
}

// Close is a no-op for the memory store.
func (s *Store) Close() error {
	return nil
}

func (s *Store) get(name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.files[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, store.ErrNotFound)
	}
	return data, nil
}
