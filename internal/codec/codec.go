// Package codec provides the compression codecs used to read job output files.
//
// A codec is selected purely from a file name suffix (see Registry). Codecs
// hand out resettable decompressors so that a pool can reuse them across
// streams.
package codec

import (
	"errors"
	"io"
)

var (
	// ErrResolution is returned when a suffix maps to a codec that cannot
	// be instantiated.
	ErrResolution = errors.New("codec: cannot instantiate codec")

	// ErrUnsupportedReadMode is returned by splittable codecs for read modes
	// or ranges they do not implement.
	ErrUnsupportedReadMode = errors.New("codec: unsupported split read mode")
)

// Kind classifies how a stream for a path must be constructed.
type Kind int

const (
	// KindNone means the file is stored uncompressed.
	KindNone Kind = iota
	// KindSequential means the file can only be decompressed front to back.
	KindSequential
	// KindSplittable means the codec supports decoding byte ranges of the
	// compressed file independently.
	KindSplittable
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindSequential:
		return "sequential"
	case KindSplittable:
		return "splittable"
	default:
		return "unknown"
	}
}

// Decompressor is a stateful decompressing reader that can be rebound to a
// new compressed source with Reset.
type Decompressor interface {
	io.Reader
	// Reset discards any state and starts decompressing r.
	Reset(r io.Reader) error
	// Close releases resources held by the decompressor itself.
	// It does not close the source passed to Reset.
	Close() error
}

// Codec provides compression and decompression functionality.
type Codec interface {
	// Name returns the codec name (e.g., "gzip", "zstd").
	Name() string
	// Extension returns the default file extension without dot (e.g., "zst", "gz").
	Extension() string
	// NewDecompressor returns an unbound decompressor. Reset must be called
	// before the first Read.
	NewDecompressor() (Decompressor, error)
	// Writer wraps w to compress data written to it.
	Writer(w io.Writer) (io.WriteCloser, error)
}

// Splittable is a Codec whose compressed stream can be read starting from a
// byte range rather than only from the beginning of the file.
type Splittable interface {
	Codec
	// NewSplitReader binds d to r, which must be positioned at start, and
	// returns a reader for the range [start, end) in the given mode.
	NewSplitReader(d Decompressor, r io.Reader, start, end int64, mode ReadMode) (*SplitReader, error)
}

// KindOf reports the kind of c. A nil codec is KindNone.
func KindOf(c Codec) Kind {
	switch c.(type) {
	case nil:
		return KindNone
	case Splittable:
		return KindSplittable
	default:
		return KindSequential
	}
}
