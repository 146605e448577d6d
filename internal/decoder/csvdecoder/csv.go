// Package csvdecoder decodes delimited text into rows.
package csvdecoder

import (
	"encoding/csv"
	"errors"
	"io"

	"github.com/tabcheck/tabcheck/internal/decoder"
)

// Format names.
const (
	Name    = "csv"
	TSVName = "tsv"
)

// Format returns the csv format registration.
func Format() decoder.Format {
	return decoder.Format{
		Name:       Name,
		Extensions: []string{"csv"},
		Factory:    New,
	}
}

// TSVFormat returns the tab-separated format registration.
func TSVFormat() decoder.Format {
	return decoder.Format{
		Name:       TSVName,
		Extensions: []string{"tsv", "tab"},
		Factory:    NewTSV,
	}
}

// Compile-time check that Decoder implements decoder.Decoder.
var _ decoder.Decoder = (*Decoder)(nil)

// Decoder reads one record per row.
type Decoder struct {
	r      *csv.Reader
	format string
	row    int
	closed bool
}

// New returns a decoder reading comma-separated r, or values separated by
// cfg.Comma when set. Records may have varying field counts.
func New(r io.Reader, cfg decoder.Config) (decoder.Decoder, error) {
	return newDecoder(Name, ',', r, cfg), nil
}

// NewTSV returns a decoder reading tab-separated r, or values separated by
// cfg.Comma when set.
func NewTSV(r io.Reader, cfg decoder.Config) (decoder.Decoder, error) {
	return newDecoder(TSVName, '\t', r, cfg), nil
}

func newDecoder(format string, comma rune, r io.Reader, cfg decoder.Config) *Decoder {
	cr := csv.NewReader(r)
	cr.Comma = comma
	if cfg.Comma != 0 {
		cr.Comma = cfg.Comma
	}
	cr.FieldsPerRecord = -1
	return &Decoder{r: cr, format: format}
}

// Next returns the next record.
func (d *Decoder) Next() (decoder.Row, error) {
	if d.closed {
		return decoder.Row{}, io.EOF
	}
	record, err := d.r.Read()
	if errors.Is(err, io.EOF) {
		return decoder.Row{}, io.EOF
	}
	if err != nil {
		return decoder.Row{}, decoder.Malformed(d.format, err)
	}
	d.row++
	return decoder.InferRow(d.row, record), nil
}

// Close marks the decoder exhausted.
func (d *Decoder) Close() error {
	d.closed = true
	return nil
}
