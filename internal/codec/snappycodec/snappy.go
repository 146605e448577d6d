// Package snappycodec provides a codec for the snappy framing format.
package snappycodec

import (
	"io"

	"github.com/golang/snappy"

	"github.com/tabcheck/tabcheck/internal/codec"
)

// Compile-time check that Codec implements codec.Codec.
var _ codec.Codec = (*Codec)(nil)

// Codec implements snappy compression using the framed stream format.
type Codec struct{}

// New returns a new snappy codec.
func New() *Codec {
	return &Codec{}
}

// Name returns "snappy".
func (c *Codec) Name() string {
	return "snappy"
}

// Extension returns "snappy".
func (c *Codec) Extension() string {
	return "snappy"
}

// NewDecompressor returns an unbound snappy stream reader.
func (c *Codec) NewDecompressor() (codec.Decompressor, error) {
	return &decompressor{Reader: snappy.NewReader(nil)}, nil
}

// Writer wraps w to compress data with snappy.
func (c *Codec) Writer(w io.Writer) (io.WriteCloser, error) {
	return snappy.NewBufferedWriter(w), nil
}

type decompressor struct{ *snappy.Reader }

func (d *decompressor) Reset(r io.Reader) error {
	d.Reader.Reset(r)
	return nil
}

func (d *decompressor) Close() error { return nil }
