// Package xlsxdecoder decodes spreadsheet workbooks into rows using
// excelize.
package xlsxdecoder

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
	"go.uber.org/multierr"

	"github.com/tabcheck/tabcheck/internal/decoder"
)

// Name is the format name.
const Name = "xlsx"

// Format returns the xlsx format registration.
func Format() decoder.Format {
	return decoder.Format{
		Name:       Name,
		Extensions: []string{"xlsx", "xlsm"},
		Factory:    New,
	}
}

// Compile-time check that Decoder implements decoder.Decoder.
var _ decoder.Decoder = (*Decoder)(nil)

// Decoder streams the rows of one sheet.
type Decoder struct {
	f      *excelize.File
	rows   *excelize.Rows
	sheet  string
	raw    bool
	row    int
	closed bool
}

// New reads a workbook from r and positions the decoder at the first row
// of the configured sheet, or of the first sheet.
func New(r io.Reader, cfg decoder.Config) (decoder.Decoder, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, decoder.Malformed(Name, err)
	}

	sheet := cfg.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			f.Close()
			return nil, decoder.Malformed(Name, errors.New("workbook has no sheets"))
		}
		sheet = sheets[0]
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		f.Close()
		return nil, decoder.Malformed(Name, fmt.Errorf("sheet %q: %w", sheet, err))
	}

	return &Decoder{f: f, rows: rows, sheet: sheet, raw: cfg.RawValues}, nil
}

// Sheet returns the name of the sheet being decoded.
func (d *Decoder) Sheet() string {
	return d.sheet
}

// Next returns the next row of the sheet. Empty rows inside the used range
// are returned with no cells.
func (d *Decoder) Next() (decoder.Row, error) {
	if d.closed || !d.rows.Next() {
		if d.closed {
			return decoder.Row{}, io.EOF
		}
		if err := d.rows.Error(); err != nil {
			return decoder.Row{}, decoder.Malformed(Name, err)
		}
		return decoder.Row{}, io.EOF
	}
	d.row++

	values, err := d.rows.Columns()
	if err != nil {
		return decoder.Row{}, decoder.Malformed(Name, fmt.Errorf("row %d: %w", d.row, err))
	}
	if !d.raw {
		return decoder.InferRow(d.row, values), nil
	}

	row := decoder.Row{Number: d.row, Cells: make([]decoder.Cell, len(values))}
	for i, v := range values {
		c, err := d.typedCell(decoder.CellName(i+1, d.row), v)
		if err != nil {
			return decoder.Row{}, decoder.Malformed(Name, err)
		}
		row.Cells[i] = c
	}
	return row, nil
}

// typedCell reads the stored type and raw value of a cell.
func (d *Decoder) typedCell(addr, formatted string) (decoder.Cell, error) {
	c := decoder.InferCell(addr, formatted)

	formula, err := d.f.GetCellFormula(d.sheet, addr)
	if err != nil {
		return c, fmt.Errorf("cell %s: %w", addr, err)
	}
	typ, err := d.f.GetCellType(d.sheet, addr)
	if err != nil {
		return c, fmt.Errorf("cell %s: %w", addr, err)
	}
	raw, err := d.f.GetCellValue(d.sheet, addr, excelize.Options{RawCellValue: true})
	if err != nil {
		return c, fmt.Errorf("cell %s: %w", addr, err)
	}

	switch {
	case formula != "":
		c.Type = decoder.CellFormula
		c.Raw = raw
	case typ == excelize.CellTypeBool:
		c.Type = decoder.CellBool
		c.Raw = raw == "1" || raw == "TRUE" || raw == "true"
	case typ == excelize.CellTypeDate:
		c.Type = decoder.CellDate
		c.Raw = raw
	case typ == excelize.CellTypeError:
		c.Type = decoder.CellError
		c.Raw = raw
	case typ == excelize.CellTypeSharedString, typ == excelize.CellTypeInlineString:
		c.Type = decoder.CellString
		c.Raw = raw
	case typ == excelize.CellTypeNumber, typ == excelize.CellTypeUnset:
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			c.Type = decoder.CellNumber
			c.Raw = f
		}
	}
	return c, nil
}

// Close releases the workbook.
func (d *Decoder) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	return multierr.Append(d.rows.Close(), d.f.Close())
}
