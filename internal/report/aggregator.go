package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/grib-parity/internal/domain"
	"github.com/couchcryptid/grib-parity/internal/observability"
)

const (
	rule        = "======================================================================"
	maxListed   = 10 // discrepancies shown per category in the summary
	failPreview = 5  // elementwise lines shown under a failed value check
)

// Aggregator drives one comparison run, streaming per-message results to w
// and accumulating discrepancies by category.
type Aggregator struct {
	w       io.Writer
	tol     domain.Tolerances
	metrics *observability.Metrics
	found   map[Category][]Discrepancy
	ready   atomic.Bool
}

// New creates an Aggregator writing its report to w.
func New(w io.Writer, tol domain.Tolerances, metrics *observability.Metrics) *Aggregator {
	return &Aggregator{w: w, tol: tol, metrics: metrics}
}

// CheckReadiness returns nil once the run has compared at least one record.
func (a *Aggregator) CheckReadiness(_ context.Context) error {
	if !a.ready.Load() {
		return errors.New("comparison has not processed any records yet")
	}
	return nil
}

// Run compares the two record sequences index by index and prints the full
// report. A record count mismatch is fatal: it returns ErrRecordCountMismatch
// before any per-message output.
func (a *Aggregator) Run(ref, cand []domain.MessageRecord) (Result, error) {
	a.found = make(map[Category][]Discrepancy)
	start := time.Now()

	fmt.Fprintln(a.w, rule)
	fmt.Fprintln(a.w, "REFERENCE vs CANDIDATE DEEP COMPARISON")
	fmt.Fprintln(a.w, rule)
	fmt.Fprintf(a.w, "Generated: %s\n", domain.Now().UTC().Format(time.RFC3339))

	fmt.Fprintf(a.w, "\nReference messages: %d\n", len(ref))
	fmt.Fprintf(a.w, "Candidate messages: %d\n", len(cand))

	if len(ref) != len(cand) {
		return Result{}, fmt.Errorf("%w: reference has %d messages, candidate has %d",
			ErrRecordCountMismatch, len(ref), len(cand))
	}

	fmt.Fprintf(a.w, "\nComparing %d messages...\n\n", len(ref))

	for i := range ref {
		a.compareRecords(i+1, &ref[i], &cand[i])
		a.metrics.RecordsCompared.Inc()
		a.ready.Store(true)
	}

	a.printSummary()
	if len(ref) > 0 {
		a.printFirstMessageDetail(&ref[0], &cand[0])
	}

	a.metrics.ComparisonDuration.Observe(time.Since(start).Seconds())

	return Result{RecordCount: len(ref), Discrepancies: a.found}, nil
}

// record files a discrepancy into its category bucket.
func (a *Aggregator) record(cat Category, msgNum int, format string, args ...any) {
	a.found[cat] = append(a.found[cat], Discrepancy{
		Category: cat,
		Message:  msgNum,
		Detail:   fmt.Sprintf(format, args...),
	})
	a.metrics.Discrepancies.WithLabelValues(string(cat)).Inc()
}

func (a *Aggregator) compareRecords(msgNum int, ref, cand *domain.MessageRecord) {
	a.compareValuePayload(msgNum, ref, cand)
	a.compareStatistics(msgNum, ref, cand)
	a.compareSpotValues(msgNum, ref, cand)
	a.compareGrid(msgNum, ref, cand)
	a.compareMetadata(msgNum, ref, cand)
	a.compareTime(msgNum, ref, cand)
}

// compareValuePayload checks whichever value payload both records carry: the
// full array, or the head and tail samples (both must pass). Records sampled
// differently on the two sides are not comparable and are skipped.
func (a *Aggregator) compareValuePayload(msgNum int, ref, cand *domain.MessageRecord) {
	name := truncate(ref.ParameterName, 30)

	switch {
	case ref.Exhaustive() && cand.Exhaustive():
		c := domain.CompareValues(ref.AllValues, cand.AllValues, a.tol.Value)
		if c.OK() {
			fmt.Fprintf(a.w, "[OK]   Message %d: %-30s %s\n", msgNum, name, c.Summary())
			return
		}
		a.record(CategoryValues, msgNum, "Msg %d (%s): %s", msgNum, ref.ParameterName, c.Summary())
		fmt.Fprintf(a.w, "[FAIL] Message %d: VALUES MISMATCH\n", msgNum)
		fmt.Fprintf(a.w, "       Parameter: %s\n", ref.ParameterName)
		fmt.Fprintf(a.w, "       %s\n", c.Summary())
		a.printFailPreview(ref.AllValues, cand.AllValues)

	case ref.First10 != nil && cand.First10 != nil:
		first := domain.CompareValues(ref.First10, cand.First10, a.tol.Value)
		last := domain.CompareValues(ref.Last10, cand.Last10, a.tol.Value)
		if first.OK() && last.OK() {
			fmt.Fprintf(a.w, "[OK]   Message %d: %-30s (sampled)\n", msgNum, name)
			return
		}
		a.record(CategoryValues, msgNum, "Msg %d: first10/last10 mismatch", msgNum)
		fmt.Fprintf(a.w, "[FAIL] Message %d: %-30s\n", msgNum, name)
		if !first.OK() {
			fmt.Fprintf(a.w, "       First10: %s\n", first.Summary())
		}
		if !last.OK() {
			fmt.Fprintf(a.w, "       Last10: %s\n", last.Summary())
		}

	default:
		// One side sampled, the other exhaustive (or a payload missing
		// entirely): not comparable, not a mismatch.
		fmt.Fprintf(a.w, "[N/A]  Message %d: %-30s value payloads not comparable\n", msgNum, name)
	}
}

// printFailPreview shows the first few elementwise comparisons to aid debugging.
func (a *Aggregator) printFailPreview(ref, cand []float64) {
	n := failPreview
	if len(ref) < n {
		n = len(ref)
	}
	if len(cand) < n {
		n = len(cand)
	}
	fmt.Fprintf(a.w, "       First %d values comparison:\n", n)
	for j := 0; j < n; j++ {
		diff := math.Abs(ref[j] - cand[j])
		fmt.Fprintf(a.w, "         [%d] reference: %.10f, candidate: %.10f, diff: %.2e %s\n",
			j, ref[j], cand[j], diff, matchMark(diff <= a.tol.Value))
	}
	fmt.Fprintln(a.w)
}

func (a *Aggregator) compareStatistics(msgNum int, ref, cand *domain.MessageRecord) {
	if !domain.WithinTolerance(ref.Min, cand.Min, a.tol.Value) {
		a.record(CategoryValues, msgNum, "Msg %d: min value differs: %g vs %g", msgNum, ref.Min, cand.Min)
	}
	if !domain.WithinTolerance(ref.Max, cand.Max, a.tol.Value) {
		a.record(CategoryValues, msgNum, "Msg %d: max value differs: %g vs %g", msgNum, ref.Max, cand.Max)
	}
	if !domain.WithinTolerance(ref.Mean, cand.Mean, a.tol.Mean) {
		a.record(CategoryValues, msgNum, "Msg %d: mean value differs: %g vs %g", msgNum, ref.Mean, cand.Mean)
	}
}

// compareSpotValues checks the fixed spot-check indices both sides reported.
func (a *Aggregator) compareSpotValues(msgNum int, ref, cand *domain.MessageRecord) {
	if ref.SpotValues == nil || cand.SpotValues == nil {
		return
	}
	keys := make([]string, 0, len(ref.SpotValues))
	for k := range ref.SpotValues {
		if _, ok := cand.SpotValues[k]; ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		rv, cv := ref.SpotValues[k], cand.SpotValues[k]
		if !domain.WithinTolerance(rv, cv, a.tol.Value) {
			a.record(CategoryValues, msgNum, "Msg %d: spot value at index %s differs: %g vs %g", msgNum, k, rv, cv)
		}
	}
}

func (a *Aggregator) compareGrid(msgNum int, ref, cand *domain.MessageRecord) {
	if intsDiffer(ref.Ni, cand.Ni) || intsDiffer(ref.Nj, cand.Nj) {
		a.record(CategoryGrid, msgNum, "Msg %d: grid size differs: %sx%s vs %sx%s",
			msgNum, fmtIntPtr(ref.Ni), fmtIntPtr(ref.Nj), fmtIntPtr(cand.Ni), fmtIntPtr(cand.Nj))
	}
	if ref.NumValues != cand.NumValues {
		a.record(CategoryGrid, msgNum, "Msg %d: value count differs: %d vs %d", msgNum, ref.NumValues, cand.NumValues)
	}

	corners := []struct {
		label  string
		rv, cv *float64
	}{
		{"latitudeOfFirstGridPoint", ref.LatitudeOfFirstGridPoint, cand.LatitudeOfFirstGridPoint},
		{"longitudeOfFirstGridPoint", ref.LongitudeOfFirstGridPoint, cand.LongitudeOfFirstGridPoint},
		{"latitudeOfLastGridPoint", ref.LatitudeOfLastGridPoint, cand.LatitudeOfLastGridPoint},
		{"longitudeOfLastGridPoint", ref.LongitudeOfLastGridPoint, cand.LongitudeOfLastGridPoint},
		{"iDirectionIncrement", ref.IDirectionIncrement, cand.IDirectionIncrement},
		{"jDirectionIncrement", ref.JDirectionIncrement, cand.JDirectionIncrement},
		{"firstLat", ref.FirstLat, cand.FirstLat},
		{"firstLon", ref.FirstLon, cand.FirstLon},
		{"lastLat", ref.LastLat, cand.LastLat},
		{"lastLon", ref.LastLon, cand.LastLon},
	}
	for _, c := range corners {
		if c.rv == nil || c.cv == nil {
			continue // N/A, not comparable
		}
		if !domain.WithinTolerance(*c.rv, *c.cv, a.tol.Value) {
			a.record(CategoryGrid, msgNum, "Msg %d: %s differs: %g vs %g", msgNum, c.label, *c.rv, *c.cv)
		}
	}
}

func (a *Aggregator) compareMetadata(msgNum int, ref, cand *domain.MessageRecord) {
	if intsDiffer(ref.IndicatorOfParameter, cand.IndicatorOfParameter) {
		a.record(CategoryMetadata, msgNum, "Msg %d: parameter ID differs: %s vs %s",
			msgNum, fmtIntPtr(ref.IndicatorOfParameter), fmtIntPtr(cand.IndicatorOfParameter))
	}
	if ref.ParameterName != "" && cand.ParameterName != "" && ref.ParameterName != cand.ParameterName {
		a.record(CategoryMetadata, msgNum, "Msg %d: parameter name differs: %q vs %q",
			msgNum, ref.ParameterName, cand.ParameterName)
	}
	if intsDiffer(ref.Table2Version, cand.Table2Version) {
		a.record(CategoryMetadata, msgNum, "Msg %d: table version differs: %s vs %s",
			msgNum, fmtIntPtr(ref.Table2Version), fmtIntPtr(cand.Table2Version))
	}
	if intsDiffer(ref.Level, cand.Level) {
		a.record(CategoryMetadata, msgNum, "Msg %d: level differs: %s vs %s",
			msgNum, fmtIntPtr(ref.Level), fmtIntPtr(cand.Level))
	}
}

func (a *Aggregator) compareTime(msgNum int, ref, cand *domain.MessageRecord) {
	fields := []struct {
		label  string
		rv, cv *int
	}{
		{"year", ref.Year, cand.Year},
		{"month", ref.Month, cand.Month},
		{"day", ref.Day, cand.Day},
		{"hour", ref.Hour, cand.Hour},
		{"minute", ref.Minute, cand.Minute},
		{"dataDate", ref.DataDate, cand.DataDate},
		{"dataTime", ref.DataTime, cand.DataTime},
	}
	for _, f := range fields {
		if intsDiffer(f.rv, f.cv) {
			a.record(CategoryTime, msgNum, "Msg %d: %s differs: %s vs %s",
				msgNum, f.label, fmtIntPtr(f.rv), fmtIntPtr(f.cv))
		}
	}
	if ref.ValidDate != "" && cand.ValidDate != "" && ref.ValidDate != cand.ValidDate {
		a.record(CategoryTime, msgNum, "Msg %d: validDate differs: %q vs %q", msgNum, ref.ValidDate, cand.ValidDate)
	}
}

func (a *Aggregator) printSummary() {
	fmt.Fprintln(a.w)
	fmt.Fprintln(a.w, rule)
	fmt.Fprintln(a.w, "SUMMARY")
	fmt.Fprintln(a.w, rule)

	total := 0
	for _, ds := range a.found {
		total += len(ds)
	}
	if total == 0 {
		fmt.Fprintln(a.w, "\n✓ ALL VALUES MATCH! Candidate output is identical to the reference.")
		fmt.Fprintln(a.w)
		return
	}

	fmt.Fprintln(a.w, "\n✗ DISCREPANCIES FOUND")

	for _, cat := range Categories {
		items := a.found[cat]
		if len(items) == 0 {
			continue
		}
		fmt.Fprintf(a.w, "\n%s Issues (%d):\n", strings.ToUpper(string(cat)), len(items))
		for i, d := range items {
			if i == maxListed {
				break
			}
			fmt.Fprintf(a.w, "  - %s\n", d.Detail)
		}
		if len(items) > maxListed {
			fmt.Fprintf(a.w, "  ... and %d more\n", len(items)-maxListed)
		}
	}
}

// --- helpers ---

func intsDiffer(a, b *int) bool {
	if a == nil || b == nil {
		return false // N/A, not comparable
	}
	return *a != *b
}

func fmtIntPtr(p *int) string {
	if p == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d", *p)
}

func matchMark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
