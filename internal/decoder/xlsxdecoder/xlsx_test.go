package xlsxdecoder

import (
	"bytes"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/tabcheck/tabcheck/internal/decoder"
)

// workbook builds an xlsx file with the given rows on Sheet1.
func workbook(t *testing.T, rows ...[]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell := decoder.CellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("SetSheetRow() error = %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer() error = %v", err)
	}
	return buf.Bytes()
}

func TestDecoder_TwoRows(t *testing.T) {
	data := workbook(t,
		[]any{1, 2, 3, 4},
		[]any{"test1", "test2", "test3", "test4"},
	)

	d, err := New(bytes.NewReader(data), decoder.NewConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer d.Close()

	rows, err := decoder.Take(d, 2)
	if err != nil {
		t.Fatalf("Take() error = %v", err)
	}
	want := [][]string{{"1", "2", "3", "4"}, {"test1", "test2", "test3", "test4"}}
	if len(rows) != len(want) {
		t.Fatalf("Take() returned %d rows, want %d", len(rows), len(want))
	}
	for i, row := range rows {
		if got := row.Values(); !reflect.DeepEqual(got, want[i]) {
			t.Errorf("row %d = %v, want %v", i, got, want[i])
		}
		if row.Number != i+1 {
			t.Errorf("row %d Number = %d, want %d", i, row.Number, i+1)
		}
	}
	if got := rows[1].Cells[2].Address; got != "C2" {
		t.Errorf("Address = %q, want C2", got)
	}
}

func TestDecoder_EarlyStop(t *testing.T) {
	data := workbook(t, []any{"a"}, []any{"b"}, []any{"c"})
	d, _ := New(bytes.NewReader(data), decoder.NewConfig())
	defer d.Close()

	rows, err := decoder.Take(d, 1)
	if err != nil || len(rows) != 1 {
		t.Fatalf("Take() = %d rows, %v, want 1 row", len(rows), err)
	}
	if err := d.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := d.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, err := d.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Next() after Close error = %v, want io.EOF", err)
	}
}

func TestDecoder_RawValues(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	f.SetCellValue("Sheet1", "A1", 42)
	f.SetCellValue("Sheet1", "B1", "text")
	f.SetCellValue("Sheet1", "C1", true)
	f.SetCellFormula("Sheet1", "D1", "A1*2")
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer() error = %v", err)
	}

	d, err := New(bytes.NewReader(buf.Bytes()), decoder.NewConfig(decoder.WithRawValues()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer d.Close()

	row, err := d.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if len(row.Cells) < 3 {
		t.Fatalf("row has %d cells, want at least 3", len(row.Cells))
	}

	wantTypes := []decoder.CellType{decoder.CellNumber, decoder.CellString, decoder.CellBool}
	for i, want := range wantTypes {
		if got := row.Cells[i].Type; got != want {
			t.Errorf("cell %s Type = %v, want %v", row.Cells[i].Address, got, want)
		}
	}
	if row.Cells[0].Raw != 42.0 {
		t.Errorf("A1 Raw = %v, want 42", row.Cells[0].Raw)
	}
	if row.Cells[2].Raw != true {
		t.Errorf("C1 Raw = %v, want true", row.Cells[2].Raw)
	}
	if len(row.Cells) == 4 && row.Cells[3].Type != decoder.CellFormula {
		t.Errorf("D1 Type = %v, want formula", row.Cells[3].Type)
	}
}

func TestDecoder_Sheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	if _, err := f.NewSheet("results"); err != nil {
		t.Fatalf("NewSheet() error = %v", err)
	}
	f.SetCellValue("results", "A1", "from results")
	buf, _ := f.WriteToBuffer()

	d, err := New(bytes.NewReader(buf.Bytes()), decoder.NewConfig(decoder.WithSheet("results")))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer d.Close()
	if got := d.(*Decoder).Sheet(); got != "results" {
		t.Errorf("Sheet() = %q, want results", got)
	}
	row, err := d.Next()
	if err != nil || row.Values()[0] != "from results" {
		t.Errorf("Next() = %v, %v, want [from results]", row.Values(), err)
	}

	if _, err := New(bytes.NewReader(buf.Bytes()), decoder.NewConfig(decoder.WithSheet("missing"))); !errors.Is(err, decoder.ErrMalformedContent) {
		t.Errorf("New(missing sheet) error = %v, want ErrMalformedContent", err)
	}
}

func TestNew_Malformed(t *testing.T) {
	for _, in := range []string{"", "not a zip archive"} {
		if _, err := New(strings.NewReader(in), decoder.NewConfig()); !errors.Is(err, decoder.ErrMalformedContent) {
			t.Errorf("New(%q) error = %v, want ErrMalformedContent", in, err)
		}
	}
}
