package csvdecoder

import (
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/tabcheck/tabcheck/internal/decoder"
)

func TestDecoder_TwoRows(t *testing.T) {
	d, err := New(strings.NewReader("1,2,3,4\ntest1,test2,test3,test4\n"), decoder.NewConfig())
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
	}
	if c := rows[0].Cells[0]; c.Type != decoder.CellNumber || c.Raw != 1.0 || c.Address != "A1" {
		t.Errorf("cell A1 = %+v, want number 1", c)
	}
	if c := rows[1].Cells[3]; c.Type != decoder.CellString || c.Address != "D2" {
		t.Errorf("cell D2 = %+v, want string", c)
	}
}

func TestDecoder_TabsAndRaggedRows(t *testing.T) {
	d, _ := New(strings.NewReader("a\tb\nc\n"), decoder.NewConfig(decoder.WithComma('\t')))

	rows, err := decoder.Take(d, -1)
	if err != nil {
		t.Fatalf("Take() error = %v", err)
	}
	if len(rows) != 2 || len(rows[0].Cells) != 2 || len(rows[1].Cells) != 1 {
		t.Errorf("Take() = %+v, want rows of 2 and 1 cells", rows)
	}
}

func TestDecoder_Malformed(t *testing.T) {
	d, _ := New(strings.NewReader("ok,1\n\"unterminated,2\n"), decoder.NewConfig())

	row, err := d.Next()
	if err != nil {
		t.Fatalf("first Next() error = %v", err)
	}
	if row.Number != 1 {
		t.Errorf("row.Number = %d, want 1", row.Number)
	}
	if _, err := d.Next(); !errors.Is(err, decoder.ErrMalformedContent) {
		t.Errorf("second Next() error = %v, want ErrMalformedContent", err)
	}
}

func TestDecoder_Close(t *testing.T) {
	d, _ := New(strings.NewReader("a\nb\n"), decoder.NewConfig())
	if err := d.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	if _, err := d.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Next() after Close error = %v, want io.EOF", err)
	}
}

func TestNewTSV(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  []decoder.Option
		want  []string
	}{
		{"tabs by default", "1\t2\t3\t4\n", nil, []string{"1", "2", "3", "4"}},
		{"commas kept", "a,b\tc\n", nil, []string{"a,b", "c"}},
		{"explicit delimiter", "a;b\n", []decoder.Option{decoder.WithComma(';')}, []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewTSV(strings.NewReader(tt.input), decoder.NewConfig(tt.opts...))
			if err != nil {
				t.Fatalf("NewTSV() error = %v", err)
			}
			row, err := d.Next()
			if err != nil {
				t.Fatalf("Next() error = %v", err)
			}
			if got := row.Values(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Next() = %q, want %q", got, tt.want)
			}
		})
	}
}
