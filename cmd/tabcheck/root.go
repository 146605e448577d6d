package main

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags.
	verbose     bool
	showMetrics bool
	s3Endpoint  string
	s3Region    string
	hdfsUser    string
	cacheSize   int
	codecFlags  []string
)

var rootCmd = &cobra.Command{
	Use:   "tabcheck",
	Short: "Read and check the output files of data processing jobs",
	Long: `Tabcheck reads the output files written by batch jobs, whether plain or
compressed, on local disk, S3, GCS or HDFS, and decodes them into rows.

The codec is chosen from the file suffix (.gz, .bz2, .deflate, .lz4,
.snappy, .zst) and the row format from the remaining extension (.csv,
.tsv, .xlsx, .parquet; anything else is read as lines).

Examples:
  # Print the first 10 lines of a job output
  tabcheck lines -n 10 /tmp/out/part-r-00000.gz

  # Print the first two rows of a workbook stored on S3
  tabcheck rows -n 2 s3://bucket/out/part-r-00000.xlsx.gz

  # Check an output against an expected CSV
  tabcheck verify --expected want.csv hdfs://namenode:8020/out/part-r-00000.csv.bz2`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&showMetrics, "metrics", false, "print metrics in Prometheus text format on exit")
	rootCmd.PersistentFlags().StringVar(&s3Endpoint, "s3-endpoint", "", "S3 endpoint URL (path-style addressing, e.g. MinIO)")
	rootCmd.PersistentFlags().StringVar(&s3Region, "s3-region", "", "S3 region")
	rootCmd.PersistentFlags().StringVar(&hdfsUser, "hdfs-user", "", "user to read HDFS paths as")
	rootCmd.PersistentFlags().IntVar(&cacheSize, "cache-size", 256, "number of file lengths to cache (0 disables)")
	rootCmd.PersistentFlags().StringArrayVar(&codecFlags, "codec", nil, "extra suffix mapping as ext=codec (e.g. gzip=gzip)")
}
