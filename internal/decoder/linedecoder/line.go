// Package linedecoder decodes plain text job output, one row per line.
package linedecoder

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/tabcheck/tabcheck/internal/decoder"
)

// Name is the format name.
const Name = "lines"

// Format returns the lines format registration. It has no extensions and
// is the usual fallback for suffix-less part files.
func Format() decoder.Format {
	return decoder.Format{
		Name:       Name,
		Extensions: []string{"txt"},
		Factory:    New,
	}
}

// Compile-time check that Decoder implements decoder.Decoder.
var _ decoder.Decoder = (*Decoder)(nil)

// Decoder returns each line as a row with a single cell.
type Decoder struct {
	s      *bufio.Scanner
	row    int
	closed bool
}

// New returns a decoder reading lines from r. Line endings ("\n" or
// "\r\n") are stripped.
func New(r io.Reader, cfg decoder.Config) (decoder.Decoder, error) {
	limit := cfg.MaxLineSize
	if limit <= 0 {
		limit = decoder.DefaultMaxLineSize
	}
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, min(limit, 64*1024)), limit)
	return &Decoder{s: s}, nil
}

// Next returns the next line.
func (d *Decoder) Next() (decoder.Row, error) {
	if d.closed {
		return decoder.Row{}, io.EOF
	}
	line, err := d.NextLine()
	if err != nil {
		return decoder.Row{}, err
	}
	return decoder.Row{
		Number: d.row,
		Cells:  []decoder.Cell{{Address: decoder.CellName(1, d.row), Formatted: line, Raw: line, Type: cellType(line)}},
	}, nil
}

// NextLine returns the next line as a string.
func (d *Decoder) NextLine() (string, error) {
	if !d.s.Scan() {
		if err := d.s.Err(); err != nil {
			if errors.Is(err, bufio.ErrTooLong) {
				return "", decoder.Malformed(Name, fmt.Errorf("line %d: %w", d.row+1, err))
			}
			return "", err
		}
		return "", io.EOF
	}
	d.row++
	b := d.s.Bytes()
	if !utf8.Valid(b) {
		return "", decoder.Malformed(Name, fmt.Errorf("line %d: invalid UTF-8", d.row))
	}
	return strings.TrimSuffix(string(b), "\r"), nil
}

// Close marks the decoder exhausted.
func (d *Decoder) Close() error {
	d.closed = true
	return nil
}

func cellType(line string) decoder.CellType {
	if line == "" {
		return decoder.CellEmpty
	}
	return decoder.CellString
}
