// Package report runs the record-by-record comparison between a reference and
// a candidate decode and renders the human-readable parity report. One
// Aggregator owns one run's discrepancy state; nothing is shared across runs,
// so a long-lived harness can run it repeatedly without contamination.
package report

import "errors"

// Category buckets discrepancies for the summary section.
type Category string

const (
	CategoryValues   Category = "values"
	CategoryMetadata Category = "metadata"
	CategoryGrid     Category = "grid"
	CategoryTime     Category = "time"
)

// Categories lists the buckets in report order.
var Categories = []Category{CategoryValues, CategoryMetadata, CategoryGrid, CategoryTime}

// Discrepancy is one recorded mismatch between corresponding records.
type Discrepancy struct {
	Category Category
	Message  int // 1-based message ordinal
	Detail   string
}

// Result is the structured verdict of one comparison run. The textual report
// is for humans; Result is for callers that need an exit code.
type Result struct {
	RecordCount   int
	Discrepancies map[Category][]Discrepancy
}

// AllMatch reports whether the run recorded zero discrepancies in every category.
func (r Result) AllMatch() bool {
	return r.Total() == 0
}

// Total counts discrepancies across all categories.
func (r Result) Total() int {
	n := 0
	for _, ds := range r.Discrepancies {
		n += len(ds)
	}
	return n
}

// ErrRecordCountMismatch means the two sequences have different lengths.
// Fatal: without an agreed index correspondence no per-message comparison is
// meaningful.
var ErrRecordCountMismatch = errors.New("record count mismatch")
