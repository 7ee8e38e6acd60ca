// Package report renders sweep results.
//
// The text format is one header line followed by one row per successful
// configuration, in sweep enumeration order:
//
//	implementation, MB/s
//	zlib-go, 48.12
//	zlib-klauspost, 131.07
//
// Failed configurations never appear as rows. They are kept in
// Report.Failures and rendered separately by WriteFailures.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/arloliu/zbench/bench"
	"github.com/arloliu/zbench/format"
)

// Header is the first line of every report.
const Header = "implementation, MB/s"

// Row is one successful measurement.
type Row struct {
	// Label is the implementation column, usually the engine display name.
	Label  string
	Sample bench.Sample
}

// Failure is a configuration that was skipped because its engine failed.
type Failure struct {
	Engine string
	Level  int
	Mode   format.Mode
	Err    error
}

func (f Failure) String() string {
	return fmt.Sprintf("%s %s level %d: %v", f.Engine, f.Mode, f.Level, f.Err)
}

// Report is the ordered outcome of one sweep.
type Report struct {
	Rows     []Row
	Failures []Failure
}

// Add appends a row.
func (r *Report) Add(label string, s bench.Sample) {
	r.Rows = append(r.Rows, Row{Label: label, Sample: s})
}

// AddFailure appends a failure.
func (r *Report) AddFailure(f Failure) {
	r.Failures = append(r.Failures, f)
}

// Len returns the number of rows.
func (r *Report) Len() int {
	return len(r.Rows)
}

// Write renders r to w in the text format.
//
// The output is buffered and written once.
func Write(w io.Writer, r *Report) error {
	bw := bufio.NewWriter(w)

	bw.WriteString(Header)
	bw.WriteByte('\n')

	if r != nil {
		for _, row := range r.Rows {
			bw.WriteString(row.Label)
			bw.WriteString(", ")
			bw.WriteString(FormatThroughput(row.Sample.Throughput()))
			bw.WriteByte('\n')
		}
	}

	return bw.Flush()
}

// WriteFailures writes one diagnostic line per failure.
func WriteFailures(w io.Writer, r *Report) error {
	if r == nil || len(r.Failures) == 0 {
		return nil
	}

	bw := bufio.NewWriter(w)
	for _, f := range r.Failures {
		bw.WriteString(f.String())
		bw.WriteByte('\n')
	}

	return bw.Flush()
}

// FormatThroughput formats a MB/s value with two decimals.
//
// Positive values below 0.01 use three significant digits so a slow
// configuration never renders as 0.00.
func FormatThroughput(v float64) string {
	if v > 0 && v < 0.01 {
		return strconv.FormatFloat(v, 'g', 3, 64)
	}

	return strconv.FormatFloat(v, 'f', 2, 64)
}
