//go:build e2e

package tabcheck_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"

	"github.com/tabcheck/tabcheck"
)

// TestE2E_CLI writes a compressed job output to disk and checks it with
// the tabcheck command.
func TestE2E_CLI(t *testing.T) {
	dir := t.TempDir()

	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatalf("Error creating encoder: %v", err)
	}
	enc.Write([]byte("1,2,3,4\ntest1,test2,test3,test4\n"))
	if err := enc.Close(); err != nil {
		t.Fatalf("Error compressing: %v", err)
	}

	output := tabcheck.OutputFile(dir, "part-r-00000.csv.zst")
	if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
		t.Fatalf("Error writing output: %v", err)
	}
	expected := filepath.Join(dir, "want.csv")
	if err := os.WriteFile(expected, []byte("1,2,3,4\ntest1,test2,test3,test4\n"), 0644); err != nil {
		t.Fatalf("Error writing expected rows: %v", err)
	}

	t.Log("Reading rows...")
	out := run(t, "rows", "-n", "2", output)
	if want := "1\t2\t3\t4\ntest1\ttest2\ttest3\ttest4\n"; out != want {
		t.Errorf("rows output = %q, want %q", out, want)
	}

	t.Log("Verifying output...")
	out = run(t, "verify", "--expected", expected, output)
	if !strings.Contains(out, "All 2 rows match.") {
		t.Errorf("verify output = %q", out)
	}

	t.Log("Inspecting output...")
	out = run(t, "cat", "--stat", output)
	if !strings.Contains(out, "Codec: zstd") {
		t.Errorf("cat --stat output = %q", out)
	}
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	cmd := exec.Command("go", append([]string{"run", "./cmd/tabcheck"}, args...)...)
	cmd.Stderr = os.Stderr
	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("Error running tabcheck %s: %v", strings.Join(args, " "), err)
	}
	return string(out)
}
