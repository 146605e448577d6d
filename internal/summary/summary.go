// Package summary computes per-column statistics over decoded rows.
package summary

import (
	"math"
	"sort"
	"strconv"

	"github.com/xuri/excelize/v2"
	"gonum.org/v1/gonum/stat"

	"github.com/tabcheck/tabcheck/internal/decoder"
)

// Column summarizes one column of a set of rows.
type Column struct {
	Name    string // Column letter, as in A1 addresses.
	Cells   int    // Non-empty cells.
	Numeric int    // Cells holding a number.

	// Statistics over the numeric cells. Zero when Numeric is zero.
	Mean   float64
	StdDev float64 // Sample standard deviation; NaN with a single value.
	Min    float64
	Median float64
	Max    float64
}

// Summarize returns one Column per column present in rows, in column order.
func Summarize(rows []decoder.Row) []Column {
	var width int
	for _, row := range rows {
		width = max(width, len(row.Cells))
	}

	cols := make([]Column, width)
	values := make([][]float64, width)
	for i := range cols {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			name = strconv.Itoa(i + 1)
		}
		cols[i].Name = name
	}

	for _, row := range rows {
		for i, c := range row.Cells {
			if c.Type == decoder.CellEmpty {
				continue
			}
			cols[i].Cells++
			if v, ok := Number(c); ok {
				values[i] = append(values[i], v)
			}
		}
	}

	for i, v := range values {
		cols[i].Numeric = len(v)
		if len(v) == 0 {
			continue
		}
		sort.Float64s(v)
		cols[i].Mean, cols[i].StdDev = stat.MeanStdDev(v, nil)
		cols[i].Min = v[0]
		cols[i].Max = v[len(v)-1]
		cols[i].Median = stat.Quantile(0.5, stat.Empirical, v, nil)
	}
	return cols
}

// Number returns the numeric value of c, if it holds one.
func Number(c decoder.Cell) (float64, bool) {
	if c.Type != decoder.CellNumber {
		return 0, false
	}
	switch v := c.Raw.(type) {
	case float64:
		return v, !math.IsNaN(v)
	case int64:
		return float64(v), true
	}
	f, err := strconv.ParseFloat(c.Formatted, 64)
	return f, err == nil
}
