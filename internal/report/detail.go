package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/couchcryptid/grib-parity/internal/domain"
)

// fieldValue is one side of a detail-table row: a display string plus the
// numeric value when the field is numeric. present is false for missing
// (null) fields, which render and match as N/A.
type fieldValue struct {
	display string
	num     float64
	numeric bool
	present bool
}

func missingValue() fieldValue {
	return fieldValue{display: "N/A"}
}

func stringValue(s string) fieldValue {
	if s == "" {
		return missingValue()
	}
	if len(s) > 20 {
		s = s[:20]
	}
	return fieldValue{display: s, present: true}
}

func intValue(p *int) fieldValue {
	if p == nil {
		return missingValue()
	}
	return fieldValue{display: fmt.Sprintf("%d", *p), num: float64(*p), numeric: true, present: true}
}

func floatValue(v float64) fieldValue {
	return fieldValue{display: fmt.Sprintf("%.6f", v), num: v, numeric: true, present: true}
}

func floatPtrValue(p *float64) fieldValue {
	if p == nil {
		return missingValue()
	}
	return floatValue(*p)
}

// detailRow is one labelled row of the first-message field table.
type detailRow struct {
	label string
	get   func(r *domain.MessageRecord) fieldValue
}

// detailRows lists the fields shown in the first-message table: identity,
// grid shape, statistics, coordinate cross-checks, and timestamp parts.
var detailRows = []detailRow{
	{"parameterName", func(r *domain.MessageRecord) fieldValue { return stringValue(r.ParameterName) }},
	{"indicatorOfParameter", func(r *domain.MessageRecord) fieldValue { return intValue(r.IndicatorOfParameter) }},
	{"level", func(r *domain.MessageRecord) fieldValue { return intValue(r.Level) }},
	{"Ni (grid cols)", func(r *domain.MessageRecord) fieldValue { return intValue(r.Ni) }},
	{"Nj (grid rows)", func(r *domain.MessageRecord) fieldValue { return intValue(r.Nj) }},
	{"numValues", func(r *domain.MessageRecord) fieldValue { return floatValue(float64(r.NumValues)) }},
	{"min", func(r *domain.MessageRecord) fieldValue { return floatValue(r.Min) }},
	{"max", func(r *domain.MessageRecord) fieldValue { return floatValue(r.Max) }},
	{"mean", func(r *domain.MessageRecord) fieldValue { return floatValue(r.Mean) }},
	{"firstLat", func(r *domain.MessageRecord) fieldValue { return floatPtrValue(r.FirstLat) }},
	{"firstLon", func(r *domain.MessageRecord) fieldValue { return floatPtrValue(r.FirstLon) }},
	{"lastLat", func(r *domain.MessageRecord) fieldValue { return floatPtrValue(r.LastLat) }},
	{"lastLon", func(r *domain.MessageRecord) fieldValue { return floatPtrValue(r.LastLon) }},
	{"latitudeOfFirstGridPoint", func(r *domain.MessageRecord) fieldValue { return floatPtrValue(r.LatitudeOfFirstGridPoint) }},
	{"longitudeOfFirstGridPoint", func(r *domain.MessageRecord) fieldValue { return floatPtrValue(r.LongitudeOfFirstGridPoint) }},
	{"latitudeOfLastGridPoint", func(r *domain.MessageRecord) fieldValue { return floatPtrValue(r.LatitudeOfLastGridPoint) }},
	{"longitudeOfLastGridPoint", func(r *domain.MessageRecord) fieldValue { return floatPtrValue(r.LongitudeOfLastGridPoint) }},
	{"year", func(r *domain.MessageRecord) fieldValue { return intValue(r.Year) }},
	{"month", func(r *domain.MessageRecord) fieldValue { return intValue(r.Month) }},
	{"day", func(r *domain.MessageRecord) fieldValue { return intValue(r.Day) }},
	{"hour", func(r *domain.MessageRecord) fieldValue { return intValue(r.Hour) }},
	{"minute", func(r *domain.MessageRecord) fieldValue { return intValue(r.Minute) }},
}

// printFirstMessageDetail renders the fixed field-by-field table for message 1
// and, when both sides carry the full value array, an element table of the
// first 20 values.
func (a *Aggregator) printFirstMessageDetail(ref, cand *domain.MessageRecord) {
	fmt.Fprintln(a.w, rule)
	fmt.Fprintln(a.w, "FIRST MESSAGE DETAILED COMPARISON")
	fmt.Fprintln(a.w, rule)

	fmt.Fprintf(a.w, "\n%-35s %20s %20s %8s\n", "Field", "Reference", "Candidate", "Match")
	fmt.Fprintln(a.w, strings.Repeat("-", 85))

	for _, row := range detailRows {
		rv := row.get(ref)
		cv := row.get(cand)
		fmt.Fprintf(a.w, "%-35s %20s %20s %8s\n", row.label, rv.display, cv.display, a.rowMark(rv, cv))
	}

	if !ref.Exhaustive() || !cand.Exhaustive() {
		return
	}

	fmt.Fprintln(a.w)
	fmt.Fprintln(a.w, rule)
	fmt.Fprintln(a.w, "FIRST 20 VALUES COMPARISON (Message 1)")
	fmt.Fprintln(a.w, rule)

	fmt.Fprintf(a.w, "\n%6s %18s %18s %15s %6s\n", "Index", "Reference", "Candidate", "Diff", "Match")
	fmt.Fprintln(a.w, strings.Repeat("-", 65))

	n := 20
	if len(ref.AllValues) < n {
		n = len(ref.AllValues)
	}
	if len(cand.AllValues) < n {
		n = len(cand.AllValues)
	}
	for j := 0; j < n; j++ {
		diff := math.Abs(ref.AllValues[j] - cand.AllValues[j])
		fmt.Fprintf(a.w, "%6d %18.9f %18.9f %15.2e %6s\n",
			j, ref.AllValues[j], cand.AllValues[j], diff, matchMark(diff <= a.tol.Value))
	}
}

// rowMark computes the match column: N/A when either side is missing, a
// tolerance check for numeric pairs, string equality otherwise.
func (a *Aggregator) rowMark(rv, cv fieldValue) string {
	if !rv.present || !cv.present {
		return "N/A"
	}
	if rv.numeric && cv.numeric {
		return matchMark(math.Abs(rv.num-cv.num) <= a.tol.Value)
	}
	return matchMark(rv.display == cv.display)
}
