// Package gzipcodec provides a gzip compression codec.
package gzipcodec

import (
	"errors"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/tabcheck/tabcheck/internal/codec"
)

// Compile-time check that Codec implements codec.Codec.
var _ codec.Codec = (*Codec)(nil)

// Codec implements gzip compression.
type Codec struct{}

// New returns a new gzip codec.
func New() *Codec {
	return &Codec{}
}

// Name returns "gzip".
func (c *Codec) Name() string {
	return "gzip"
}

// Extension returns "gz".
func (c *Codec) Extension() string {
	return "gz"
}

// NewDecompressor returns an unbound gzip decompressor.
func (c *Codec) NewDecompressor() (codec.Decompressor, error) {
	return &decompressor{}, nil
}

// Writer wraps w to compress data with gzip.
func (c *Codec) Writer(w io.Writer) (io.WriteCloser, error) {
	return gzip.NewWriter(w), nil
}

// decompressor defers reading the gzip header to the first Read so that
// binding to an empty file succeeds and yields an empty stream.
type decompressor struct {
	zr      gzip.Reader
	src     io.Reader
	pending bool
	done    bool
	err     error
	// bound is set once zr has read a valid header; zr cannot be closed
	// before that.
	bound bool
}

func (d *decompressor) Reset(r io.Reader) error {
	d.src = r
	d.pending = true
	d.done = false
	d.err = nil
	return nil
}

func (d *decompressor) Read(p []byte) (int, error) {
	if d.src == nil {
		return 0, errors.New("gzipcodec: read before reset")
	}
	if d.pending {
		d.pending = false
		if err := d.zr.Reset(d.src); err != nil {
			d.done = true
			if errors.Is(err, io.EOF) {
				return 0, io.EOF
			}
			d.err = err
			return 0, err
		}
		d.bound = true
	}
	if d.err != nil {
		return 0, d.err
	}
	if d.done {
		return 0, io.EOF
	}
	return d.zr.Read(p)
}

func (d *decompressor) Close() error {
	if !d.bound {
		return nil
	}
	return d.zr.Close()
}
