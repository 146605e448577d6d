package decoder

import (
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// CellType classifies the raw value of a cell.
type CellType int

const (
	CellEmpty CellType = iota
	CellString
	CellNumber
	CellBool
	CellDate
	CellFormula
	CellError
)

var cellTypeNames = [...]string{
	CellEmpty:   "empty",
	CellString:  "string",
	CellNumber:  "number",
	CellBool:    "bool",
	CellDate:    "date",
	CellFormula: "formula",
	CellError:   "error",
}

// String returns the lower-case name of the type.
func (t CellType) String() string {
	if t < 0 || int(t) >= len(cellTypeNames) {
		return "unknown"
	}
	return cellTypeNames[t]
}

// Cell is one value of a row.
type Cell struct {
	// Address is the A1-style reference of the cell.
	Address string
	// Formatted is the display value.
	Formatted string
	// Raw is the typed value when the format provides one: string,
	// float64, int64, bool, or nil for empty cells.
	Raw  any
	Type CellType
}

// Row is one decoded row. Number is 1-based and follows the order of the
// stream.
type Row struct {
	Number int
	Cells  []Cell
}

// Values returns the formatted values of the row.
func (r Row) Values() []string {
	out := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		out[i] = c.Formatted
	}
	return out
}

// CellName returns the A1-style address of a 1-based column and row.
func CellName(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return ""
	}
	return name
}

// InferCell builds a cell from a formatted value, typing it as a number,
// a boolean, or a string.
func InferCell(address, formatted string) Cell {
	c := Cell{Address: address, Formatted: formatted}
	switch {
	case formatted == "":
		c.Type = CellEmpty
	case strings.EqualFold(formatted, "true"), strings.EqualFold(formatted, "false"):
		c.Type = CellBool
		c.Raw = strings.EqualFold(formatted, "true")
	default:
		if f, err := strconv.ParseFloat(formatted, 64); err == nil {
			c.Type = CellNumber
			c.Raw = f
		} else {
			c.Type = CellString
			c.Raw = formatted
		}
	}
	return c
}

// InferRow builds a row from formatted values.
func InferRow(number int, values []string) Row {
	cells := make([]Cell, len(values))
	for i, v := range values {
		cells[i] = InferCell(CellName(i+1, number), v)
	}
	return Row{Number: number, Cells: cells}
}
