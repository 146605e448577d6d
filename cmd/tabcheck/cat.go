package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

var catCmd = &cobra.Command{
	Use:   "cat [PATH]",
	Short: "Write the decompressed content of a file to stdout",
	Long: `Write the decompressed content of a file to stdout.

With --stat, print the stored size and the codec chosen for the file
instead of its content.`,
	Args: cobra.ExactArgs(1),
	RunE: runCat,
}

var catStat bool

func init() {
	catCmd.Flags().BoolVar(&catStat, "stat", false, "print size and codec instead of content")
	rootCmd.AddCommand(catCmd)
}

func runCat(cmd *cobra.Command, args []string) (err error) {
	session, closeSession, err := openSession()
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, closeSession()) }()

	ctx := context.Background()
	if catStat {
		info, err := session.Inspect(ctx, args[0])
		if err != nil {
			return err
		}
		codecName := "none"
		if info.Resolution.Codec != nil {
			codecName = info.Resolution.Codec.Name()
		}
		fmt.Printf("Path:  %s\n", info.Path)
		fmt.Printf("Size:  %s\n", formatBytes(info.Size))
		fmt.Printf("Codec: %s (%s)\n", codecName, info.Resolution.Kind)
		return nil
	}

	rc, err := session.Open(ctx, args[0])
	if err != nil {
		return err
	}
	defer rc.Close()
	if _, err := io.Copy(os.Stdout, rc); err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	return nil
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
