package store

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.uber.org/multierr"
)

// Resolver creates the store serving one host of a scheme. The host is
// empty for schemes without one, such as file.
type Resolver func(ctx context.Context, host string) (Store, error)

// Mux routes logical paths to stores by scheme and host. Stores created by
// resolvers are cached and closed by Close.
type Mux struct {
	mu          sync.Mutex
	resolvers   map[string]Resolver
	middlewares []Middleware
	stores      map[string]Store
	closed      bool
}

// Middleware wraps a store, for example with a cache.
type Middleware func(Store) Store

// NewMux creates an empty Mux.
func NewMux() *Mux {
	return &Mux{
		resolvers: make(map[string]Resolver),
		stores:    make(map[string]Store),
	}
}

// Handle registers the resolver for a scheme.
func (m *Mux) Handle(scheme string, r Resolver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolvers[scheme] = r
}

// Use adds a middleware applied to stores mounted or resolved afterwards.
func (m *Mux) Use(mw Middleware) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.middlewares = append(m.middlewares, mw)
}

// Mount serves every path of scheme and host from s.
// The Mux takes ownership of s.
func (m *Mux) Mount(scheme, host string, s Store) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stores[muxKey(scheme, host)] = m.wrap(s)
}

// Store returns the store serving p.
func (m *Mux) Store(ctx context.Context, p Path) (Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, fmt.Errorf("%w: mux closed", ErrBackendUnavailable)
	}

	key := muxKey(p.Scheme, p.Host)
	if s, ok := m.stores[key]; ok {
		return s, nil
	}

	r, ok := m.resolvers[p.Scheme]
	if !ok {
		return nil, fmt.Errorf("%w: no backend for scheme %q", ErrBackendUnavailable, p.Scheme)
	}
	s, err := r(ctx, p.Host)
	if err != nil {
		return nil, fmt.Errorf("%w: connecting to %s://%s: %w", ErrBackendUnavailable, p.Scheme, p.Host, err)
	}
	s = m.wrap(s)
	m.stores[key] = s
	return s, nil
}

// Len returns the number of mounted or resolved stores.
func (m *Mux) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stores)
}

// Close closes every mounted or resolved store.
func (m *Mux) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	var err error
	for key, s := range m.stores {
		err = multierr.Append(err, s.Close())
		delete(m.stores, key)
	}
	return err
}

// Compile-time check that Mux implements io.Closer.
var _ io.Closer = (*Mux)(nil)

func (m *Mux) wrap(s Store) Store {
	for _, mw := range m.middlewares {
		s = mw(s)
	}
	return s
}

func muxKey(scheme, host string) string {
	return scheme + "://" + host
}
