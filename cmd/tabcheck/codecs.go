package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tabcheck/tabcheck/internal/codec"
	"github.com/tabcheck/tabcheck/internal/codec/allcodecs"
)

var codecsCmd = &cobra.Command{
	Use:   "codecs",
	Short: "List the file suffixes and the codecs they select",
	Args:  cobra.NoArgs,
	RunE:  runCodecs,
}

func init() {
	rootCmd.AddCommand(codecsCmd)
}

func runCodecs(cmd *cobra.Command, args []string) error {
	codecs := allcodecs.NewRegistry()
	extra, err := parseCodecFlags(codecs, codecFlags)
	if err != nil {
		return err
	}
	for ext, c := range extra {
		codecs.RegisterExtension(ext, c)
	}

	fmt.Printf("%-10s %-10s %s\n", "SUFFIX", "CODEC", "KIND")
	for _, m := range codecs.Mappings() {
		fmt.Printf("%-10s %-10s %s\n", "."+m.Extension, m.Codec.Name(), codec.KindOf(m.Codec))
	}
	return nil
}
