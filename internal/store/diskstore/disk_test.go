package diskstore

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/tabcheck/tabcheck/internal/store"
)

func writeFile(t *testing.T, dir, name, data string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func read(t *testing.T, rc io.ReadCloser) string {
	t.Helper()
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	return string(data)
}

func TestStore_Open(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "output/part-r-00000", "1\n2\n3\n")

	s, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	rc, err := s.Open(context.Background(), "output/part-r-00000")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if got := read(t, rc); got != "1\n2\n3\n" {
		t.Errorf("Open() = %q, want %q", got, "1\n2\n3\n")
	}
}

func TestStore_OpenRange(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "f", "0123456789")
	s, _ := New(dir)

	tests := []struct {
		off, n int64
		want   string
	}{
		{0, -1, "0123456789"},
		{2, 3, "234"},
		{7, -1, "789"},
		{9, 10, "9"},
	}
	for _, tt := range tests {
		rc, err := s.OpenRange(context.Background(), "f", tt.off, tt.n)
		if err != nil {
			t.Fatalf("OpenRange(%d, %d) error = %v", tt.off, tt.n, err)
		}
		if got := read(t, rc); got != tt.want {
			t.Errorf("OpenRange(%d, %d) = %q, want %q", tt.off, tt.n, got, tt.want)
		}
	}
}

func TestStore_NotFound(t *testing.T) {
	s, _ := New(t.TempDir())
	ctx := context.Background()

	if _, err := s.Open(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Open() error = %v, want ErrNotFound", err)
	}
	if _, err := s.Length(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Length() error = %v, want ErrNotFound", err)
	}
	if ok, err := s.Exists(ctx, "missing"); ok || err != nil {
		t.Errorf("Exists() = %v, %v, want false, nil", ok, err)
	}
}

func TestStore_ExistsAndLength(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sub/empty", "")
	writeFile(t, dir, "sub/five", "12345")
	s, _ := New(dir)
	ctx := context.Background()

	if ok, _ := s.Exists(ctx, "sub/empty"); !ok {
		t.Error("Exists(empty) = false, want true")
	}
	if ok, _ := s.Exists(ctx, "sub"); ok {
		t.Error("Exists(directory) = true, want false")
	}
	if n, err := s.Length(ctx, "sub/five"); err != nil || n != 5 {
		t.Errorf("Length() = %d, %v, want 5, nil", n, err)
	}
}

func TestStore_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "f", "x")
	s, _ := New(dir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Open(ctx, "f"); !errors.Is(err, context.Canceled) {
		t.Errorf("Open() error = %v, want context.Canceled", err)
	}
}

func TestNew_InvalidRoot(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "file", "x")

	if _, err := New(filepath.Join(dir, "nope")); err == nil {
		t.Error("New(missing) error = nil, want error")
	}
	if _, err := New(filepath.Join(dir, "file")); err == nil {
		t.Error("New(file) error = nil, want error")
	}
}
