package tabcheck

import "strings"

// Default part file names written by a single reducer.
const (
	DefaultOutputFile      = "part-r-00000"
	DefaultOutputExcelFile = "part-r-00000.xlsx"
)

// OutputFile returns the path of the part file name inside the job output
// directory dir. dir may be a bare path or a URL such as s3://bucket/out.
func OutputFile(dir, name string) string {
	if dir == "" {
		return name
	}
	return strings.TrimSuffix(dir, "/") + "/" + name
}
