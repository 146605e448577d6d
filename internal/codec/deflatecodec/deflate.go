// Package deflatecodec provides the zlib-wrapped deflate codec that batch
// jobs write under the ".deflate" suffix.
package deflatecodec

import (
	"errors"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/tabcheck/tabcheck/internal/codec"
)

// Compile-time check that Codec implements codec.Codec.
var _ codec.Codec = (*Codec)(nil)

// Codec implements zlib compression.
type Codec struct{}

// New returns a new deflate codec.
func New() *Codec {
	return &Codec{}
}

// Name returns "deflate".
func (c *Codec) Name() string {
	return "deflate"
}

// Extension returns "deflate".
func (c *Codec) Extension() string {
	return "deflate"
}

// NewDecompressor returns an unbound zlib decompressor.
func (c *Codec) NewDecompressor() (codec.Decompressor, error) {
	return &decompressor{}, nil
}

// Writer wraps w to compress data with zlib.
func (c *Codec) Writer(w io.Writer) (io.WriteCloser, error) {
	return zlib.NewWriter(w), nil
}

// decompressor creates the zlib reader on first use and resets it after.
type decompressor struct {
	zr      io.ReadCloser
	src     io.Reader
	pending bool
	err     error
}

func (d *decompressor) Reset(r io.Reader) error {
	d.src = r
	d.pending = true
	d.err = nil
	return nil
}

func (d *decompressor) Read(p []byte) (int, error) {
	if d.src == nil {
		return 0, errors.New("deflatecodec: read before reset")
	}
	if d.pending {
		d.pending = false
		d.err = d.bind()
	}
	if d.err != nil {
		return 0, d.err
	}
	return d.zr.Read(p)
}

func (d *decompressor) bind() error {
	if d.zr == nil {
		zr, err := zlib.NewReader(d.src)
		if err != nil {
			return err
		}
		d.zr = zr
		return nil
	}
	return d.zr.(zlib.Resetter).Reset(d.src, nil)
}

func (d *decompressor) Close() error {
	if d.zr == nil {
		return nil
	}
	return d.zr.Close()
}
