// Package tabcheck opens the output files of distributed batch jobs on any
// supported storage backend, decompresses them according to their file
// name, and decodes them into rows of formatted cells.
//
// Example usage:
//
//	s, err := tabcheck.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	rows, err := s.ReadRows(ctx, "s3://bucket/job/out/part-r-00000.xlsx.gz", 2)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(rows[0].Values())
package tabcheck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/tabcheck/tabcheck/internal/codec"
	"github.com/tabcheck/tabcheck/internal/decoder"
	"github.com/tabcheck/tabcheck/internal/decoder/linedecoder"
	"github.com/tabcheck/tabcheck/internal/opener"
	"github.com/tabcheck/tabcheck/internal/pool"
	"github.com/tabcheck/tabcheck/internal/stats"
	"github.com/tabcheck/tabcheck/internal/store"
)

// Sentinel errors for well-defined error conditions.
var (
	// ErrClosed indicates the session has been closed.
	ErrClosed = errors.New("tabcheck: session closed")

	// ErrPathNotFound indicates the file does not exist on its backend.
	ErrPathNotFound = opener.ErrPathNotFound

	// ErrBackendUnavailable indicates no backend serves the path, or the
	// backend could not be reached.
	ErrBackendUnavailable = store.ErrBackendUnavailable

	// ErrCodecResolution indicates the codec registered for the file
	// suffix could not be instantiated.
	ErrCodecResolution = codec.ErrResolution

	// ErrMalformedContent indicates the stream could not be decoded.
	ErrMalformedContent = decoder.ErrMalformedContent

	// ErrUnknownFormat indicates no row format is registered under a name.
	ErrUnknownFormat = decoder.ErrUnknownFormat

	// ErrResourceLeak indicates decompressors were not returned to the pool.
	ErrResourceLeak = pool.ErrResourceLeak
)

// Row is one decoded row.
type Row = decoder.Row

// Cell is one value of a row.
type Cell = decoder.Cell

// CellType classifies the raw value of a cell.
type CellType = decoder.CellType

// Info describes a stored file without opening it.
type Info = opener.Info

// Session opens and decodes files. Every decompressor acquired by a
// session is returned to the pool when the session is closed.
//
// The streams and row readers a session returns are used by one goroutine
// at a time. Open and Close may be called concurrently: an Open that loses
// the race fails with ErrClosed and holds no decompressor.
type Session struct {
	id          string
	mux         *store.Mux
	codecs      *codec.Registry
	formats     *decoder.Formats
	pool        *pool.Pool
	handles     *pool.Registry
	opener      *opener.Opener
	decoderOpts []decoder.Option
	stats       stats.Collector
	logger      *zap.Logger
	closed      atomic.Bool
}

// New creates a new Session with the given options.
// If no options are provided, local files and the s3, gs and hdfs schemes
// are served, with every built-in codec and format.
func New(opts ...Option) (*Session, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}
	if err := cfg.build(); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	logger := cfg.logger.With(zap.String("session", id))

	s := &Session{
		id:          id,
		mux:         cfg.mux,
		codecs:      cfg.codecs,
		formats:     cfg.formats,
		pool:        cfg.pool,
		handles:     pool.NewRegistry(cfg.pool, pool.WithRegistryStats(cfg.stats)),
		decoderOpts: cfg.decoderOpts,
		stats:       cfg.stats,
		logger:      logger,
	}
	s.opener = opener.New(s.mux, s.codecs, s.handles,
		opener.WithStats(cfg.stats),
		opener.WithLogger(logger.Named("opener")),
	)

	s.logger.Debug("session initialized",
		zap.Int("codecs", len(s.codecs.Mappings())),
		zap.Strings("formats", s.formats.Names()),
	)

	return s, nil
}

// ID returns the unique identifier of the session.
func (s *Session) ID() string {
	return s.id
}

// Open returns the decompressed content of the file at path.
//
// The stream must be closed by the caller. Decompressors it uses stay
// checked out until the session is closed.
func (s *Session) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	rc, err := s.opener.Open(ctx, path)
	if errors.Is(err, pool.ErrRegistryClosed) {
		return nil, fmt.Errorf("opening %s: %w", path, ErrClosed)
	}
	return rc, err
}

// Inspect returns the stored size and codec of the file at path.
func (s *Session) Inspect(ctx context.Context, path string) (Info, error) {
	if s.closed.Load() {
		return Info{}, ErrClosed
	}
	return s.opener.Inspect(ctx, path)
}

// Format returns the row format used for path: the format registered for
// its extension once the codec suffix is removed.
func (s *Session) Format(path string) (string, error) {
	p, err := store.ParsePath(path)
	if err != nil {
		return "", err
	}
	stem := s.codecs.Resolve(p.Base()).Stem
	format, ok := s.formats.FormatFor(stem)
	if !ok {
		return "", fmt.Errorf("%w: no format for %s", ErrUnknownFormat, stem)
	}
	return format, nil
}

// Decode returns a RowReader decoding r in the named format.
// Closing the RowReader does not close r.
func (s *Session) Decode(r io.Reader, format string, opts ...decoder.Option) (*RowReader, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	d, err := s.formats.Open(format, r, append(s.decoderOpts, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", format, err)
	}
	return newRowReader(d, nil, s.stats), nil
}

// OpenRows opens the file at path and returns a RowReader over it, using
// the format chosen by Format. Closing the RowReader closes the file.
func (s *Session) OpenRows(ctx context.Context, path string, opts ...decoder.Option) (*RowReader, error) {
	format, err := s.Format(path)
	if err != nil {
		return nil, err
	}
	return s.openRows(ctx, path, format, opts)
}

func (s *Session) openRows(ctx context.Context, path, format string, opts []decoder.Option) (*RowReader, error) {
	rc, err := s.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	d, err := s.formats.Open(format, rc, append(s.decoderOpts, opts...)...)
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("decoding %s as %s: %w", path, format, err)
	}
	return newRowReader(d, rc, s.stats), nil
}

// ReadRows returns at most n rows of the file at path. Rows after the
// n-th are never decoded. A negative n reads every row.
func (s *Session) ReadRows(ctx context.Context, path string, n int, opts ...decoder.Option) ([]Row, error) {
	rr, err := s.OpenRows(ctx, path, opts...)
	if err != nil {
		return nil, err
	}
	rows, err := rr.Take(n)
	return rows, multierr.Append(err, rr.Close())
}

// ReadLines returns at most n lines of the file at path, whatever its
// extension.
func (s *Session) ReadLines(ctx context.Context, path string, n int) ([]string, error) {
	rr, err := s.openRows(ctx, path, linedecoder.Name, nil)
	if err != nil {
		return nil, err
	}
	rows, err := rr.Take(n)
	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = row.Cells[0].Formatted
	}
	return lines, multierr.Append(err, rr.Close())
}

// Outstanding returns the number of decompressors this session holds.
func (s *Session) Outstanding() int {
	return s.handles.Len()
}

// Close returns every decompressor acquired by the session to the pool and
// closes the session's stores. Streams still open become unreadable.
// After Close, the session should not be used.
func (s *Session) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}

	err := s.handles.Close()
	if err != nil {
		err = fmt.Errorf("releasing decompressors: %w", err)
	}
	err = multierr.Append(err, s.handles.Audit())
	if cerr := s.mux.Close(); cerr != nil {
		err = multierr.Append(err, fmt.Errorf("closing stores: %w", cerr))
	}

	s.logger.Debug("session closed", zap.Error(err))
	return err
}
