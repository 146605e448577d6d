// Package main provides the tabcheck CLI tool for reading and checking the
// output files of data processing jobs.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
