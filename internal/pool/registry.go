package pool

import (
	"errors"
	"sync"

	"go.uber.org/multierr"

	"github.com/tabcheck/tabcheck/internal/codec"
	"github.com/tabcheck/tabcheck/internal/stats"
)

// Registry records the handles checked out during one session so that they
// can all be returned with a single ReleaseAll at teardown.
//
// Decompressor metrics are reported to the registry's collector, scoped to
// the session, whatever collector the shared pool uses.
type Registry struct {
	pool  *Pool
	stats stats.Collector

	mu      sync.Mutex
	handles []*Handle
	closed  bool
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryStats sets the collector for the registry's metrics.
func WithRegistryStats(c stats.Collector) RegistryOption {
	return func(r *Registry) { r.stats = c }
}

// NewRegistry creates an empty registry releasing into p.
func NewRegistry(p *Pool, opts ...RegistryOption) *Registry {
	r := &Registry{pool: p, stats: stats.NewNoop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Pool returns the pool handles are acquired from.
func (r *Registry) Pool() *Pool {
	return r.pool
}

// Acquire checks out a decompressor for c from the pool and records it.
// After Close it returns ErrRegistryClosed and holds nothing.
func (r *Registry) Acquire(c codec.Codec) (*Handle, error) {
	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		return nil, ErrRegistryClosed
	}

	h, err := r.pool.Acquire(c)
	if err != nil {
		return nil, err
	}
	if err := r.Track(h); err != nil {
		return nil, err
	}
	return h, nil
}

// Track records h for release at teardown. If the registry is closed, h
// is released at once and ErrRegistryClosed is returned.
func (r *Registry) Track(h *Handle) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		if h == nil {
			return ErrRegistryClosed
		}
		return multierr.Append(ErrRegistryClosed, r.pool.Release(h))
	}
	r.handles = append(r.handles, h)
	n := r.outstandingLocked()
	r.mu.Unlock()

	if h != nil {
		r.stats.IncCounter(stats.MetricDecompressorsAcquired, 1)
		if h.created {
			r.stats.IncCounter(stats.MetricDecompressorsCreated, 1)
		}
	}
	r.stats.SetGauge(stats.MetricDecompressorsOutstanding, int64(n))
	return nil
}

// Len returns the number of recorded handles not yet released.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outstandingLocked()
}

func (r *Registry) outstandingLocked() int {
	n := 0
	for _, h := range r.handles {
		if h != nil && !h.Released() {
			n++
		}
	}
	return n
}

// ReleaseAll returns every recorded handle to the pool whether or not its
// stream was fully consumed. Nil and already released handles are skipped,
// and released handles are forgotten, so calling ReleaseAll again is a no-op.
func (r *Registry) ReleaseAll() error {
	r.mu.Lock()
	handles := r.handles
	r.handles = nil
	r.mu.Unlock()

	var err error
	var failed []*Handle
	released := 0
	for _, h := range handles {
		if h == nil || h.Released() {
			continue
		}
		rerr := r.pool.Release(h)
		switch {
		case rerr == nil:
			released++
		case !errors.Is(rerr, ErrDoubleRelease):
			err = multierr.Append(err, rerr)
			failed = append(failed, h)
		}
	}

	// Handles that could not be released stay recorded for Audit.
	r.mu.Lock()
	r.handles = append(r.handles, failed...)
	n := r.outstandingLocked()
	r.mu.Unlock()

	if released > 0 {
		r.stats.IncCounter(stats.MetricDecompressorsReleased, int64(released))
	}
	r.stats.SetGauge(stats.MetricDecompressorsOutstanding, int64(n))
	return err
}

// Close stops the registry from taking new handles and releases every
// recorded one. Acquires racing Close either complete before it and are
// released by it, or fail with ErrRegistryClosed.
func (r *Registry) Close() error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	return r.ReleaseAll()
}

// Audit reports recorded handles that are still checked out.
func (r *Registry) Audit() error {
	r.mu.Lock()
	var leaked []*Handle
	for _, h := range r.handles {
		if h != nil && !h.Released() {
			leaked = append(leaked, h)
		}
	}
	r.mu.Unlock()

	return reportLeak(r.pool.logger, leaked)
}
