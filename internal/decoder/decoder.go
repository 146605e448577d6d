// Package decoder turns decompressed byte streams into rows of formatted
// cells.
//
// Decoders are pull-based: each call to Next decodes one row, so a caller
// that stops early never pays for the rest of the stream.
package decoder

import (
	"errors"
	"fmt"
	"io"
	"iter"
)

// ErrMalformedContent is returned when a stream cannot be interpreted in
// the requested format. Rows returned before the error remain valid.
var ErrMalformedContent = errors.New("decoder: malformed content")

// Decoder is a forward-only row source. It is not safe for concurrent use.
type Decoder interface {
	// Next returns the next row, or io.EOF when the stream is exhausted.
	Next() (Row, error)
	// Close releases decoder resources. It does not close the underlying
	// stream. Calling Close more than once is a no-op.
	Close() error
}

// Malformed wraps err as ErrMalformedContent with context.
func Malformed(format string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrMalformedContent, format, err)
}

// Take returns at most n rows from d. It stops at io.EOF without error and
// never reads past the n-th row. A negative n reads every row.
func Take(d Decoder, n int) ([]Row, error) {
	var rows []Row
	if n > 0 {
		rows = make([]Row, 0, min(n, 1024))
	}
	for n < 0 || len(rows) < n {
		row, err := d.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return rows, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// All returns an iterator over the remaining rows of d. Iteration ends at
// io.EOF, or after yielding the first other error.
func All(d Decoder) iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		for {
			row, err := d.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(row, err) || err != nil {
				return
			}
		}
	}
}
