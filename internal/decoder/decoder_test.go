package decoder

import (
	"errors"
	"io"
	"testing"
)

// sliceDecoder returns preset rows, then err (io.EOF if nil).
type sliceDecoder struct {
	rows  []Row
	err   error
	reads int
}

func (d *sliceDecoder) Next() (Row, error) {
	if d.reads < len(d.rows) {
		d.reads++
		return d.rows[d.reads-1], nil
	}
	if d.err != nil {
		return Row{}, d.err
	}
	return Row{}, io.EOF
}

func (d *sliceDecoder) Close() error { return nil }

func rowsOf(n int) []Row {
	rows := make([]Row, n)
	for i := range rows {
		rows[i] = InferRow(i+1, []string{"v"})
	}
	return rows
}

func TestTake(t *testing.T) {
	tests := []struct {
		name      string
		available int
		n         int
		want      int
		wantReads int
	}{
		{"fewer than available", 5, 2, 2, 2},
		{"exactly available", 2, 2, 2, 2},
		{"more than available", 2, 10, 2, 2},
		{"zero", 5, 0, 0, 0},
		{"all", 4, -1, 4, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &sliceDecoder{rows: rowsOf(tt.available)}
			rows, err := Take(d, tt.n)
			if err != nil {
				t.Fatalf("Take() error = %v", err)
			}
			if len(rows) != tt.want {
				t.Errorf("Take() returned %d rows, want %d", len(rows), tt.want)
			}
			if d.reads != tt.wantReads {
				t.Errorf("Take() read %d rows, want %d", d.reads, tt.wantReads)
			}
		})
	}
}

func TestTake_Error(t *testing.T) {
	cause := Malformed("test", errors.New("bad byte"))
	d := &sliceDecoder{rows: rowsOf(1), err: cause}

	rows, err := Take(d, 5)
	if !errors.Is(err, ErrMalformedContent) {
		t.Errorf("Take() error = %v, want ErrMalformedContent", err)
	}
	if len(rows) != 1 {
		t.Errorf("Take() returned %d rows, want the 1 decoded before the error", len(rows))
	}
}

func TestAll(t *testing.T) {
	d := &sliceDecoder{rows: rowsOf(3)}
	var numbers []int
	for row, err := range All(d) {
		if err != nil {
			t.Fatalf("All() error = %v", err)
		}
		numbers = append(numbers, row.Number)
		if row.Number == 2 {
			break
		}
	}
	if len(numbers) != 2 || d.reads != 2 {
		t.Errorf("All() yielded %v after %d reads, want [1 2] after 2", numbers, d.reads)
	}
}

func TestInferCell(t *testing.T) {
	tests := []struct {
		in       string
		wantType CellType
		wantRaw  any
	}{
		{"", CellEmpty, nil},
		{"1", CellNumber, 1.0},
		{"-2.5", CellNumber, -2.5},
		{"TRUE", CellBool, true},
		{"false", CellBool, false},
		{"test1", CellString, "test1"},
	}

	for _, tt := range tests {
		c := InferCell("A1", tt.in)
		if c.Type != tt.wantType || c.Raw != tt.wantRaw || c.Formatted != tt.in {
			t.Errorf("InferCell(%q) = %+v, want type %v raw %v", tt.in, c, tt.wantType, tt.wantRaw)
		}
	}
}

func TestCellName(t *testing.T) {
	tests := []struct {
		col, row int
		want     string
	}{
		{1, 1, "A1"},
		{4, 2, "D2"},
		{27, 10, "AA10"},
		{0, 1, ""},
	}
	for _, tt := range tests {
		if got := CellName(tt.col, tt.row); got != tt.want {
			t.Errorf("CellName(%d, %d) = %q, want %q", tt.col, tt.row, got, tt.want)
		}
	}
}

func TestCellType_String(t *testing.T) {
	if got := CellFormula.String(); got != "formula" {
		t.Errorf("String() = %q, want formula", got)
	}
	if got := CellType(99).String(); got != "unknown" {
		t.Errorf("String() = %q, want unknown", got)
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig(WithComma(';'), WithSheet("s"))
	if cfg.Comma != ';' || cfg.Sheet != "s" || cfg.MaxLineSize != DefaultMaxLineSize {
		t.Errorf("NewConfig() = %+v", cfg)
	}
}
