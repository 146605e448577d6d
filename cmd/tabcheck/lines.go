package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

var linesCmd = &cobra.Command{
	Use:   "lines [PATH]",
	Short: "Print the first lines of a file",
	Long: `Print the first lines of a file as text, whatever its extension.
Compressed files are decompressed first.`,
	Args: cobra.ExactArgs(1),
	RunE: runLines,
}

var linesLimit int

func init() {
	linesCmd.Flags().IntVarP(&linesLimit, "num", "n", 10, "number of lines to print (negative prints all)")
	rootCmd.AddCommand(linesCmd)
}

func runLines(cmd *cobra.Command, args []string) (err error) {
	session, closeSession, err := openSession()
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, closeSession()) }()

	lines, err := session.ReadLines(context.Background(), args[0], linesLimit)
	if err != nil {
		return err
	}
	for _, line := range lines {
		fmt.Println(line)
	}
	return nil
}
