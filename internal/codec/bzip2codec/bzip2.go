// Package bzip2codec provides the splittable bzip2 codec.
package bzip2codec

import (
	"errors"
	"fmt"
	"io"

	"github.com/dsnet/compress/bzip2"

	"github.com/tabcheck/tabcheck/internal/codec"
)

// Compile-time check that Codec implements codec.Splittable.
var _ codec.Splittable = (*Codec)(nil)

// Codec implements bzip2 compression.
type Codec struct {
	level int
}

// New returns a new bzip2 codec using the default compression level.
func New() *Codec {
	return &Codec{level: bzip2.DefaultCompression}
}

// Name returns "bzip2".
func (c *Codec) Name() string {
	return "bzip2"
}

// Extension returns "bz2".
func (c *Codec) Extension() string {
	return "bz2"
}

// NewDecompressor returns an unbound bzip2 decompressor.
func (c *Codec) NewDecompressor() (codec.Decompressor, error) {
	return &decompressor{}, nil
}

// Writer wraps w to compress data with bzip2.
func (c *Codec) Writer(w io.Writer) (io.WriteCloser, error) {
	return bzip2.NewWriter(w, &bzip2.WriterConfig{Level: c.level})
}

// NewSplitReader binds d to r for the range [start, end).
//
// Only continuous reads from the beginning of the stream are supported: a
// single reader decodes the whole file even though bzip2 blocks could in
// principle be located and decoded independently.
func (c *Codec) NewSplitReader(d codec.Decompressor, r io.Reader, start, end int64, mode codec.ReadMode) (*codec.SplitReader, error) {
	if mode != codec.ReadModeContinuous {
		return nil, fmt.Errorf("%w: %s", codec.ErrUnsupportedReadMode, mode)
	}
	if start != 0 {
		return nil, fmt.Errorf("%w: range must start at 0, got %d", codec.ErrUnsupportedReadMode, start)
	}
	if end < start {
		return nil, fmt.Errorf("invalid range [%d, %d)", start, end)
	}
	if err := d.Reset(r); err != nil {
		return nil, fmt.Errorf("binding decompressor: %w", err)
	}
	return codec.NewSplitReader(d, start, end, mode), nil
}

type decompressor struct {
	br      *bzip2.Reader
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
		return 0, errors.New("bzip2codec: read before reset")
	}
	if d.pending {
		d.pending = false
		d.err = d.bind()
	}
	if d.err != nil {
		return 0, d.err
	}
	return d.br.Read(p)
}

func (d *decompressor) bind() error {
	if d.br == nil {
		br, err := bzip2.NewReader(d.src, nil)
		if err != nil {
			return err
		}
		d.br = br
		return nil
	}
	return d.br.Reset(d.src)
}

func (d *decompressor) Close() error {
	if d.br == nil {
		return nil
	}
	return d.br.Close()
}
