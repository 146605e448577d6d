package tabcheck

import (
	"io"
	"iter"

	"go.uber.org/multierr"

	"github.com/tabcheck/tabcheck/internal/decoder"
	"github.com/tabcheck/tabcheck/internal/stats"
)

// RowReader is a forward-only sequence of rows.
// It is not safe for concurrent use.
type RowReader struct {
	d      decoder.Decoder
	src    io.Closer
	stats  stats.Collector
	rows   int
	closed bool
}

func newRowReader(d decoder.Decoder, src io.Closer, collector stats.Collector) *RowReader {
	return &RowReader{d: d, src: src, stats: collector}
}

// Next returns the next row, or io.EOF after the last one.
func (r *RowReader) Next() (Row, error) {
	if r.closed {
		return Row{}, io.EOF
	}
	row, err := r.d.Next()
	if err != nil {
		return Row{}, err
	}
	r.rows++
	r.stats.IncCounter(stats.MetricRowsDecoded, 1)
	return row, nil
}

// Take returns at most n further rows. A negative n reads every row.
func (r *RowReader) Take(n int) ([]Row, error) {
	return decoder.Take(r, n)
}

// All returns an iterator over the remaining rows.
func (r *RowReader) All() iter.Seq2[Row, error] {
	return decoder.All(r)
}

// Rows returns the number of rows read so far.
func (r *RowReader) Rows() int {
	return r.rows
}

// Close releases the decoder and closes the file it reads, if the
// RowReader opened it. Calling Close more than once is a no-op.
func (r *RowReader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	err := r.d.Close()
	if r.src != nil {
		err = multierr.Append(err, r.src.Close())
	}
	return err
}

// Compile-time check that RowReader implements decoder.Decoder.
var _ decoder.Decoder = (*RowReader)(nil)
