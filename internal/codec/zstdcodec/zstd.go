// Package zstdcodec provides a zstd compression codec.
package zstdcodec

import (
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/tabcheck/tabcheck/internal/codec"
)

// Compile-time check that Codec implements codec.Codec.
var _ codec.Codec = (*Codec)(nil)

// Codec implements zstd compression.
type Codec struct{}

// New returns a new zstd codec.
func New() *Codec {
	return &Codec{}
}

// Name returns "zstd".
func (c *Codec) Name() string {
	return "zstd"
}

// Extension returns "zst".
func (c *Codec) Extension() string {
	return "zst"
}

// NewDecompressor returns a single-goroutine zstd decoder. Pooled decoders
// are reused across streams, so no background workers are started.
func (c *Codec) NewDecompressor() (codec.Decompressor, error) {
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	return &decompressor{Decoder: dec}, nil
}

// Writer wraps w to compress data with zstd.
func (c *Codec) Writer(w io.Writer) (io.WriteCloser, error) {
	return zstd.NewWriter(w)
}

// decompressor adapts a zstd.Decoder to codec.Decompressor.
type decompressor struct{ *zstd.Decoder }

func (d *decompressor) Close() error {
	d.Decoder.Close()
	return nil
}
