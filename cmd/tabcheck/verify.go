package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/tabcheck/tabcheck"
	"github.com/tabcheck/tabcheck/internal/decoder"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [PATH]",
	Short: "Check a job output against the expected rows",
	Long: `Check that the first rows of a job output match an expected file.

The expected file is decoded like any other input, so it may be a CSV, a
workbook or plain lines. Only as many rows as the expected file holds are
read from the output, unless -n is given.

This command reports:
- Rows missing from the output
- Rows whose number of cells differs
- Cells whose formatted value differs`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

var (
	verifyExpected string
	verifyLimit    int
	verifySheet    string
)

func init() {
	verifyCmd.Flags().StringVar(&verifyExpected, "expected", "", "file holding the expected rows")
	verifyCmd.Flags().IntVarP(&verifyLimit, "num", "n", -1, "number of rows to compare (negative compares all expected rows)")
	verifyCmd.Flags().StringVar(&verifySheet, "sheet", "", "worksheet to read from workbooks")
	verifyCmd.MarkFlagRequired("expected")
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) (err error) {
	session, closeSession, err := openSession()
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, closeSession()) }()

	ctx := context.Background()
	want, err := readRows(ctx, session, verifyExpected, "", verifyLimit, verifySheet)
	if err != nil {
		return fmt.Errorf("reading expected rows: %w", err)
	}
	got, err := readRows(ctx, session, args[0], "", len(want), verifySheet)
	if err != nil {
		return fmt.Errorf("reading output: %w", err)
	}

	if verbose {
		fmt.Printf("Comparing %d rows of %s\n", len(want), args[0])
	}
	mismatches := compareRows(got, want)
	for _, m := range mismatches {
		fmt.Printf("  MISMATCH: %s\n", m)
	}
	if len(mismatches) > 0 {
		return fmt.Errorf("%d mismatches", len(mismatches))
	}

	fmt.Printf("All %d rows match.\n", len(want))
	return nil
}

// compareRows describes every difference between got and want, one
// message per cell.
func compareRows(got, want []tabcheck.Row) []string {
	var out []string
	for i, w := range want {
		if i >= len(got) {
			out = append(out, fmt.Sprintf("Row %d is missing", i+1))
			continue
		}
		g := got[i]
		if len(g.Cells) != len(w.Cells) {
			out = append(out, fmt.Sprintf("Row %d has %d cells, want %d", i+1, len(g.Cells), len(w.Cells)))
		}
		for j, wc := range w.Cells {
			if j >= len(g.Cells) {
				break
			}
			if gv := g.Cells[j].Formatted; gv != wc.Formatted {
				out = append(out, fmt.Sprintf("Cell %s has value %q, want %q", decoder.CellName(j+1, i+1), gv, wc.Formatted))
			}
		}
	}
	return out
}
