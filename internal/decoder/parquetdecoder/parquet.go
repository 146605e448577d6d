// Package parquetdecoder decodes Parquet files into rows.
package parquetdecoder

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"
	"go.uber.org/multierr"

	"github.com/tabcheck/tabcheck/internal/decoder"
)

// Name is the format name.
const Name = "parquet"

// rowBufferSize is the number of rows read from a row group at a time.
const rowBufferSize = 256

// Format returns the parquet format registration.
func Format() decoder.Format {
	return decoder.Format{
		Name:       Name,
		Extensions: []string{"parquet"},
		Factory:    New,
	}
}

// Compile-time check that Decoder implements decoder.Decoder.
var _ decoder.Decoder = (*Decoder)(nil)

// Decoder iterates the rows of a Parquet file, row group by row group.
// Each leaf column becomes one cell.
type Decoder struct {
	file     *parquet.File
	tempFile *os.File
	columns  []string

	rowGroups    []parquet.RowGroup
	currentRGIdx int
	currentRows  parquet.Rows
	rowBuf       []parquet.Row
	bufIdx       int
	bufLen       int

	row    int
	closed bool
}

// New buffers r to a temporary file, since Parquet needs random access to
// its footer, and opens it.
func New(r io.Reader, cfg decoder.Config) (decoder.Decoder, error) {
	tempFile, err := os.CreateTemp(cfg.TempDir, "tabcheck-*.parquet")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}

	written, err := io.Copy(tempFile, r)
	if err != nil {
		removeTemp(tempFile)
		return nil, fmt.Errorf("buffer parquet data: %w", err)
	}

	file, err := parquet.OpenFile(tempFile, written)
	if err != nil {
		removeTemp(tempFile)
		return nil, decoder.Malformed(Name, err)
	}

	var columns []string
	for _, path := range file.Schema().Columns() {
		columns = append(columns, path[len(path)-1])
	}

	return &Decoder{
		file:         file,
		tempFile:     tempFile,
		columns:      columns,
		rowGroups:    file.RowGroups(),
		currentRGIdx: -1,
		rowBuf:       make([]parquet.Row, rowBufferSize),
	}, nil
}

// Columns returns the leaf column names in cell order.
func (d *Decoder) Columns() []string {
	return d.columns
}

// Next returns the next row.
func (d *Decoder) Next() (decoder.Row, error) {
	if d.closed {
		return decoder.Row{}, io.EOF
	}
	for {
		if d.bufIdx < d.bufLen {
			row := d.rowBuf[d.bufIdx]
			d.bufIdx++
			d.row++
			return d.convert(row), nil
		}

		if d.currentRows != nil {
			n, err := d.currentRows.ReadRows(d.rowBuf)
			if n > 0 {
				d.bufIdx = 0
				d.bufLen = n
				continue
			}
			if err != nil && !errors.Is(err, io.EOF) {
				return decoder.Row{}, decoder.Malformed(Name, fmt.Errorf("read rows: %w", err))
			}
			// Current row group exhausted.
			d.currentRows.Close()
			d.currentRows = nil
		}

		d.currentRGIdx++
		if d.currentRGIdx >= len(d.rowGroups) {
			return decoder.Row{}, io.EOF
		}
		d.currentRows = d.rowGroups[d.currentRGIdx].Rows()
	}
}

func (d *Decoder) convert(row parquet.Row) decoder.Row {
	cells := make([]decoder.Cell, len(d.columns))
	for i := range cells {
		cells[i] = decoder.Cell{Address: decoder.CellName(i+1, d.row)}
	}
	for _, v := range row {
		col := v.Column()
		if col < 0 || col >= len(cells) || v.IsNull() {
			continue
		}
		c := &cells[col]
		c.Formatted = v.String()
		switch v.Kind() {
		case parquet.Boolean:
			c.Type, c.Raw = decoder.CellBool, v.Boolean()
		case parquet.Int32:
			c.Type, c.Raw = decoder.CellNumber, int64(v.Int32())
		case parquet.Int64:
			c.Type, c.Raw = decoder.CellNumber, v.Int64()
		case parquet.Float:
			c.Type, c.Raw = decoder.CellNumber, float64(v.Float())
		case parquet.Double:
			c.Type, c.Raw = decoder.CellNumber, v.Double()
		default:
			c.Type, c.Raw = decoder.CellString, string(v.ByteArray())
		}
	}
	return decoder.Row{Number: d.row, Cells: cells}
}

// Close releases the row iterator and removes the temporary file.
func (d *Decoder) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true

	var err error
	if d.currentRows != nil {
		err = multierr.Append(err, d.currentRows.Close())
		d.currentRows = nil
	}
	return multierr.Append(err, removeTemp(d.tempFile))
}

func removeTemp(f *os.File) error {
	name := f.Name()
	return multierr.Append(f.Close(), os.Remove(name))
}
