// Package lz4codec provides an LZ4 frame compression codec.
package lz4codec

import (
	"io"

	"github.com/pierrec/lz4/v4"

	"github.com/tabcheck/tabcheck/internal/codec"
)

// Compile-time check that Codec implements codec.Codec.
var _ codec.Codec = (*Codec)(nil)

// Codec implements LZ4 frame compression.
type Codec struct{}

// New returns a new lz4 codec.
func New() *Codec {
	return &Codec{}
}

// Name returns "lz4".
func (c *Codec) Name() string {
	return "lz4"
}

// Extension returns "lz4".
func (c *Codec) Extension() string {
	return "lz4"
}

// NewDecompressor returns an unbound LZ4 frame reader.
func (c *Codec) NewDecompressor() (codec.Decompressor, error) {
	return &decompressor{Reader: lz4.NewReader(nil)}, nil
}

// Writer wraps w to compress data with lz4.
func (c *Codec) Writer(w io.Writer) (io.WriteCloser, error) {
	return lz4.NewWriter(w), nil
}

type decompressor struct{ *lz4.Reader }

func (d *decompressor) Reset(r io.Reader) error {
	d.Reader.Reset(r)
	return nil
}

func (d *decompressor) Close() error { return nil }
