// Package opener turns logical paths into decompressed byte streams.
//
// The codec is chosen from the file name suffix alone. Decompressors come
// from a shared pool and are recorded in the caller's pool.Registry; the
// opener never releases them.
package opener

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/tabcheck/tabcheck/internal/codec"
	"github.com/tabcheck/tabcheck/internal/pool"
	"github.com/tabcheck/tabcheck/internal/stats"
	"github.com/tabcheck/tabcheck/internal/store"
)

// ErrPathNotFound is returned when the logical path does not exist on its
// backend. It wraps together with store.ErrNotFound.
var ErrPathNotFound = errors.New("opener: path not found")

// Info describes a file without opening it.
type Info struct {
	Path       store.Path
	Size       int64
	Resolution codec.Resolution
}

// Opener opens files through a store.Mux, decompressing them according to
// a codec.Registry. An Opener is used by one goroutine at a time.
type Opener struct {
	mux     *store.Mux
	codecs  *codec.Registry
	handles *pool.Registry
	stats   stats.Collector
	logger  *zap.Logger
}

// Option configures an Opener.
type Option func(*Opener)

// WithStats sets the metrics collector.
func WithStats(c stats.Collector) Option {
	return func(o *Opener) {
		o.stats = c
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Opener) {
		o.logger = l
	}
}

// New creates an Opener. Handles acquired for compressed files are
// recorded in handles.
func New(mux *store.Mux, codecs *codec.Registry, handles *pool.Registry, opts ...Option) *Opener {
	o := &Opener{
		mux:     mux,
		codecs:  codecs,
		handles: handles,
		stats:   stats.NewNoop(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Open returns the decompressed content of the file at path.
// Closing the stream closes the backend stream only; decompressor handles
// stay recorded in the registry until it is released.
func (o *Opener) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	rc, res, err := o.open(ctx, path)
	if err != nil {
		o.stats.IncCounter(stats.MetricOpenErrors, 1)
		o.logger.Debug("open failed", zap.String("path", path), zap.Error(err))
		return nil, err
	}

	o.stats.IncCounter(stats.MetricOpens, 1)
	if res.Kind != codec.KindNone {
		o.stats.IncCounter(stats.MetricOpensCompressed, 1)
	}
	o.logger.Debug("opened",
		zap.String("path", path),
		zap.Stringer("kind", res.Kind),
		zap.String("codec", codecName(res.Codec)),
	)
	return rc, nil
}

func (o *Opener) open(ctx context.Context, path string) (io.ReadCloser, codec.Resolution, error) {
	p, s, err := o.locate(ctx, path)
	if err != nil {
		return nil, codec.Resolution{}, err
	}

	exists, err := s.Exists(ctx, p.Name)
	if err != nil {
		return nil, codec.Resolution{}, fmt.Errorf("checking %s: %w", path, err)
	}
	if !exists {
		return nil, codec.Resolution{}, fmt.Errorf("%s: %w: %w", path, ErrPathNotFound, store.ErrNotFound)
	}

	res := o.codecs.Resolve(p.Base())

	switch res.Kind {
	case codec.KindNone:
		rc, err := s.Open(ctx, p.Name)
		if err != nil {
			return nil, res, o.wrapStoreErr(path, err)
		}
		return rc, res, nil

	case codec.KindSequential:
		h, err := o.acquire(path, res.Codec)
		if err != nil {
			return nil, res, err
		}
		raw, err := s.Open(ctx, p.Name)
		if err != nil {
			return nil, res, o.wrapStoreErr(path, err)
		}
		if err := h.Reset(raw); err != nil {
			raw.Close()
			return nil, res, fmt.Errorf("binding %s decompressor for %s: %w", res.Codec.Name(), path, err)
		}
		return &stream{r: h, raw: raw}, res, nil

	case codec.KindSplittable:
		h, err := o.acquire(path, res.Codec)
		if err != nil {
			return nil, res, err
		}
		length, err := s.Length(ctx, p.Name)
		if err != nil {
			return nil, res, o.wrapStoreErr(path, err)
		}
		// The length may come from a metadata cache and be stale, so the
		// bytes read always run to the end of the file.
		raw, err := s.OpenRange(ctx, p.Name, 0, -1)
		if err != nil {
			return nil, res, o.wrapStoreErr(path, err)
		}
		sr, err := res.Codec.(codec.Splittable).NewSplitReader(h, raw, 0, length, codec.ReadModeContinuous)
		if err != nil {
			raw.Close()
			return nil, res, fmt.Errorf("opening %s split reader for %s: %w", res.Codec.Name(), path, err)
		}
		return &stream{r: sr, raw: raw}, res, nil

	default:
		return nil, res, fmt.Errorf("%w: unknown codec kind %v", codec.ErrResolution, res.Kind)
	}
}

// Inspect reports the stored size and codec of the file at path.
func (o *Opener) Inspect(ctx context.Context, path string) (Info, error) {
	p, s, err := o.locate(ctx, path)
	if err != nil {
		return Info{}, err
	}
	size, err := s.Length(ctx, p.Name)
	if err != nil {
		return Info{}, o.wrapStoreErr(path, err)
	}
	return Info{
		Path:       p,
		Size:       size,
		Resolution: o.codecs.Resolve(p.Base()),
	}, nil
}

func (o *Opener) locate(ctx context.Context, path string) (store.Path, store.Store, error) {
	p, err := store.ParsePath(path)
	if err != nil {
		return store.Path{}, nil, err
	}
	s, err := o.mux.Store(ctx, p)
	if err != nil {
		return store.Path{}, nil, err
	}
	return p, s, nil
}

func (o *Opener) acquire(path string, c codec.Codec) (*pool.Handle, error) {
	h, err := o.handles.Acquire(c)
	if errors.Is(err, pool.ErrClosed) || errors.Is(err, pool.ErrRegistryClosed) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s for %s: %w", codec.ErrResolution, c.Name(), path, err)
	}
	return h, nil
}

func (o *Opener) wrapStoreErr(path string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%s: %w: %w", path, ErrPathNotFound, err)
	}
	return fmt.Errorf("opening %s: %w", path, err)
}

// stream reads decompressed bytes and closes the backend stream.
type stream struct {
	r      io.Reader
	raw    io.Closer
	closed bool
}

func (s *stream) Read(p []byte) (int, error) {
	if s.closed {
		return 0, errors.New("opener: read on closed stream")
	}
	return s.r.Read(p)
}

func (s *stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.raw.Close()
}

func codecName(c codec.Codec) string {
	if c == nil {
		return "none"
	}
	return c.Name()
}
