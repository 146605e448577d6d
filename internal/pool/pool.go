// Package pool provides the shared decompressor pool and the session-scoped
// registry that guarantees every checked-out decompressor is returned.
package pool

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/tabcheck/tabcheck/internal/codec"
	"github.com/tabcheck/tabcheck/internal/stats"
)

// Sentinel errors for pool misuse. Misuse is a programming error and is
// always reported, never ignored.
var (
	ErrDoubleRelease = errors.New("pool: decompressor released twice")
	ErrReleased      = errors.New("pool: decompressor used after release")
	ErrNilHandle     = errors.New("pool: nil handle")
	ErrForeignHandle = errors.New("pool: handle belongs to another pool")
	ErrResourceLeak  = errors.New("pool: decompressors not released")
	ErrClosed        = errors.New("pool: closed")

	// ErrRegistryClosed is returned when acquiring through a registry
	// that has already been closed.
	ErrRegistryClosed = errors.New("pool: registry closed")
)

// DefaultMaxIdle is the default number of idle decompressors kept per codec.
const DefaultMaxIdle = 16

// Pool hands out reusable decompressors per codec.
// A Pool is safe for concurrent use by multiple goroutines.
type Pool struct {
	maxIdle int
	stats   stats.Collector
	logger  *zap.Logger

	mu          sync.Mutex
	idle        map[string][]codec.Decompressor
	outstanding map[uint64]*Handle
	nextID      uint64
	closed      bool
}

// Option configures a Pool.
type Option func(*Pool)

// WithMaxIdle bounds the idle decompressors kept per codec.
func WithMaxIdle(n int) Option {
	return func(p *Pool) { p.maxIdle = n }
}

// WithStats sets the stats collector.
func WithStats(c stats.Collector) Option {
	return func(p *Pool) { p.stats = c }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pool) { p.logger = l }
}

// New creates an empty pool.
func New(opts ...Option) *Pool {
	p := &Pool{
		maxIdle:     DefaultMaxIdle,
		stats:       stats.NewNoop(),
		logger:      zap.NewNop(),
		idle:        make(map[string][]codec.Decompressor),
		outstanding: make(map[uint64]*Handle),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var shared = sync.OnceValue(func() *Pool { return New() })

// Default returns the process-wide pool shared by all sessions that do not
// bring their own.
func Default() *Pool {
	return shared()
}

// Acquire checks out a decompressor for c, reusing an idle one if present.
func (p *Pool) Acquire(c codec.Codec) (*Handle, error) {
	if c == nil {
		return nil, errors.New("pool: acquire with nil codec")
	}
	name := c.Name()

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrClosed
	}
	var d codec.Decompressor
	created := false
	if free := p.idle[name]; len(free) > 0 {
		d = free[len(free)-1]
		p.idle[name] = free[:len(free)-1]
	}
	p.mu.Unlock()

	if d == nil {
		var err error
		d, err = c.NewDecompressor()
		if err != nil {
			return nil, fmt.Errorf("creating %s decompressor: %w", name, err)
		}
		created = true
		p.stats.IncCounter(stats.MetricDecompressorsCreated, 1)
	}

	p.mu.Lock()
	p.nextID++
	h := &Handle{id: p.nextID, codec: c, d: d, created: created}
	p.outstanding[h.id] = h
	n := len(p.outstanding)
	p.mu.Unlock()

	p.stats.IncCounter(stats.MetricDecompressorsAcquired, 1)
	p.stats.SetGauge(stats.MetricDecompressorsOutstanding, int64(n))
	p.logger.Debug("decompressor acquired",
		zap.String("codec", name),
		zap.Uint64("handle", h.id),
	)
	return h, nil
}

// Release returns h to the pool. Releasing a handle twice returns
// ErrDoubleRelease.
func (p *Pool) Release(h *Handle) error {
	if h == nil {
		return ErrNilHandle
	}

	p.mu.Lock()
	if _, ok := p.outstanding[h.id]; !ok || p.outstanding[h.id] != h {
		p.mu.Unlock()
		if h.released.Load() {
			return fmt.Errorf("%w: handle %d", ErrDoubleRelease, h.id)
		}
		return fmt.Errorf("%w: handle %d", ErrForeignHandle, h.id)
	}
	h.released.Store(true)
	delete(p.outstanding, h.id)
	n := len(p.outstanding)

	name := h.codec.Name()
	var evict codec.Decompressor
	if !p.closed && len(p.idle[name]) < p.maxIdle {
		p.idle[name] = append(p.idle[name], h.d)
	} else {
		evict = h.d
	}
	h.d = nil
	p.mu.Unlock()

	p.stats.IncCounter(stats.MetricDecompressorsReleased, 1)
	p.stats.SetGauge(stats.MetricDecompressorsOutstanding, int64(n))
	p.logger.Debug("decompressor released",
		zap.String("codec", name),
		zap.Uint64("handle", h.id),
	)

	if evict != nil {
		return evict.Close()
	}
	return nil
}

// Outstanding returns the number of checked-out handles.
func (p *Pool) Outstanding() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.outstanding)
}

// Idle returns the number of idle decompressors kept for the named codec.
func (p *Pool) Idle(codecName string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.idle[codecName])
}

// Audit reports handles that are still checked out as ErrResourceLeak.
// Leaks are logged; builds with the leakcheck tag panic instead.
func (p *Pool) Audit() error {
	p.mu.Lock()
	leaked := make([]*Handle, 0, len(p.outstanding))
	for _, h := range p.outstanding {
		leaked = append(leaked, h)
	}
	p.mu.Unlock()

	return reportLeak(p.logger, leaked)
}

// Close audits the pool and closes every idle decompressor. Handles
// released after Close are closed instead of kept.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	p.closed = true
	idle := p.idle
	p.idle = make(map[string][]codec.Decompressor)
	p.mu.Unlock()

	err := p.Audit()
	for _, free := range idle {
		for _, d := range free {
			err = multierr.Append(err, d.Close())
		}
	}
	return err
}

func reportLeak(logger *zap.Logger, leaked []*Handle) error {
	if len(leaked) == 0 {
		return nil
	}
	sort.Slice(leaked, func(i, j int) bool { return leaked[i].id < leaked[j].id })
	names := make([]string, len(leaked))
	for i, h := range leaked {
		names[i] = fmt.Sprintf("%d:%s", h.id, h.codec.Name())
	}
	err := fmt.Errorf("%w: %d outstanding [%s]", ErrResourceLeak, len(leaked), strings.Join(names, " "))
	if leakFatal {
		panic(err)
	}
	logger.Error("decompressor leak", zap.Error(err))
	return err
}
