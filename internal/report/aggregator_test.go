package report

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/grib-parity/internal/domain"
	"github.com/couchcryptid/grib-parity/internal/observability"
)

func newTestAggregator() (*Aggregator, *bytes.Buffer) {
	var buf bytes.Buffer
	a := New(&buf, domain.DefaultTolerances, observability.NewMetricsForTesting())
	return a, &buf
}

func testRecord(msg int, n int, exhaustive bool) domain.MessageRecord {
	values := make([]float64, n)
	lats := make([]float64, n)
	lons := make([]float64, n)
	for i := range values {
		values[i] = 100000.0 + float64(i)
		lats[i] = -31.0 - 0.5*float64(i/5)
		lons[i] = 145.0 + 0.5*float64(i%5)
	}
	raw := domain.RawMessage{
		MessageMeta: domain.MessageMeta{
			Message:              msg,
			ParameterName:        "Pressure reduced to MSL",
			IndicatorOfParameter: ip(2),
			Level:                ip(0),
			Ni:                   ip(5),
			Nj:                   ip(n / 5),
			Year:                 ip(2024),
			Month:                ip(3),
			Day:                  ip(15),
			Hour:                 ip(6),
			Minute:               ip(0),
		},
		Values:     values,
		Latitudes:  lats,
		Longitudes: lons,
	}
	return domain.BuildRecord(raw, exhaustive)
}

func ip(v int) *int { return &v }

func TestRun_AllMatch(t *testing.T) {
	a, buf := newTestAggregator()

	ref := []domain.MessageRecord{testRecord(1, 25, true), testRecord(2, 25, false)}
	cand := []domain.MessageRecord{testRecord(1, 25, true), testRecord(2, 25, false)}

	result, err := a.Run(ref, cand)
	require.NoError(t, err)

	assert.True(t, result.AllMatch())
	assert.Equal(t, 2, result.RecordCount)

	out := buf.String()
	assert.Contains(t, out, "REFERENCE vs CANDIDATE DEEP COMPARISON")
	assert.Contains(t, out, "[OK]   Message 1")
	assert.Contains(t, out, "[OK]   Message 2")
	assert.Contains(t, out, "✓ ALL VALUES MATCH!")
	assert.Contains(t, out, "FIRST MESSAGE DETAILED COMPARISON")
	assert.Contains(t, out, "FIRST 20 VALUES COMPARISON")
	assert.NotContains(t, out, "[FAIL]")
}

func TestRun_GeneratedTimestampUsesClock(t *testing.T) {
	fixed := time.Date(2024, 3, 15, 6, 0, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(fixed))
	t.Cleanup(func() { domain.SetClock(nil) })

	a, buf := newTestAggregator()
	_, err := a.Run(nil, nil)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "Generated: 2024-03-15T06:00:00Z")
}

func TestRun_ValueMismatchStreamsFailAndPreview(t *testing.T) {
	a, buf := newTestAggregator()

	ref := []domain.MessageRecord{testRecord(1, 25, true)}
	cand := []domain.MessageRecord{testRecord(1, 25, true)}
	cand[0].AllValues = append([]float64(nil), cand[0].AllValues...)
	cand[0].AllValues[3] += 0.5

	result, err := a.Run(ref, cand)
	require.NoError(t, err)

	assert.False(t, result.AllMatch())
	require.NotEmpty(t, result.Discrepancies[CategoryValues])

	out := buf.String()
	assert.Contains(t, out, "[FAIL] Message 1: VALUES MISMATCH")
	assert.Contains(t, out, "Max diff")
	assert.Contains(t, out, "at index 3")
	assert.Contains(t, out, "First 5 values comparison:")
	assert.Contains(t, out, "reference:")
	assert.Contains(t, out, "candidate:")
	assert.Contains(t, out, "✗ DISCREPANCIES FOUND")
	assert.Contains(t, out, "VALUES Issues (1):")
}

func TestRun_DiffAtToleranceStillPasses(t *testing.T) {
	a, _ := newTestAggregator()

	ref := []domain.MessageRecord{testRecord(1, 25, true)}
	cand := []domain.MessageRecord{testRecord(1, 25, true)}
	cand[0].AllValues = append([]float64(nil), cand[0].AllValues...)
	cand[0].AllValues[0] += domain.DefaultTolerances.Value
	cand[0].Min += domain.DefaultTolerances.Value

	result, err := a.Run(ref, cand)
	require.NoError(t, err)
	assert.True(t, result.AllMatch())
}

func TestRun_MeanMismatchOnly(t *testing.T) {
	a, _ := newTestAggregator()

	ref := []domain.MessageRecord{testRecord(1, 25, false)}
	cand := []domain.MessageRecord{testRecord(1, 25, false)}
	cand[0].Mean += 2e-4

	result, err := a.Run(ref, cand)
	require.NoError(t, err)

	expected := []Discrepancy{{Category: CategoryValues, Message: 1}}
	if diff := cmp.Diff(expected, result.Discrepancies[CategoryValues], ignoreDetail); diff != "" {
		t.Errorf("discrepancies mismatch (-want +got):\n%s", diff)
	}
	assert.Contains(t, result.Discrepancies[CategoryValues][0].Detail, "mean value differs")
}

// ignoreDetail compares discrepancies by category and message only; the
// rendered detail strings are covered by the Contains assertions.
var ignoreDetail = cmp.Comparer(func(a, b Discrepancy) bool {
	return a.Category == b.Category && a.Message == b.Message
})

func TestRun_CategoryRouting(t *testing.T) {
	a, buf := newTestAggregator()

	ref := []domain.MessageRecord{testRecord(1, 25, false)}
	cand := []domain.MessageRecord{testRecord(1, 25, false)}
	cand[0].Level = ip(850)
	cand[0].Ni = ip(7)
	cand[0].Year = ip(2025)

	result, err := a.Run(ref, cand)
	require.NoError(t, err)

	assert.NotEmpty(t, result.Discrepancies[CategoryMetadata], "level routes to metadata")
	assert.NotEmpty(t, result.Discrepancies[CategoryGrid], "grid size routes to grid")
	assert.NotEmpty(t, result.Discrepancies[CategoryTime], "year routes to time")
	assert.Empty(t, result.Discrepancies[CategoryValues])

	out := buf.String()
	assert.Contains(t, out, "METADATA Issues")
	assert.Contains(t, out, "GRID Issues")
	assert.Contains(t, out, "TIME Issues")
}

func TestRun_SpotValueMismatch(t *testing.T) {
	a, _ := newTestAggregator()

	ref := []domain.MessageRecord{testRecord(1, 100, false)}
	cand := []domain.MessageRecord{testRecord(1, 100, false)}
	cand[0].SpotValues = map[string]float64{}
	for k, v := range ref[0].SpotValues {
		cand[0].SpotValues[k] = v
	}
	cand[0].SpotValues["50"] += 1.0

	result, err := a.Run(ref, cand)
	require.NoError(t, err)

	require.Len(t, result.Discrepancies[CategoryValues], 1)
	assert.Contains(t, result.Discrepancies[CategoryValues][0].Detail, "spot value at index 50")
}

func TestRun_MixedSamplingIsNotComparable(t *testing.T) {
	a, buf := newTestAggregator()

	ref := []domain.MessageRecord{testRecord(1, 25, true)}
	cand := []domain.MessageRecord{testRecord(1, 25, false)}

	result, err := a.Run(ref, cand)
	require.NoError(t, err)

	assert.Empty(t, result.Discrepancies[CategoryValues])
	assert.Contains(t, buf.String(), "[N/A]  Message 1")
}

func TestRun_RecordCountMismatchIsFatal(t *testing.T) {
	a, buf := newTestAggregator()

	ref := make([]domain.MessageRecord, 51)
	cand := make([]domain.MessageRecord, 50)
	for i := range ref {
		ref[i] = testRecord(i+1, 25, false)
	}
	for i := range cand {
		cand[i] = testRecord(i+1, 25, false)
	}

	_, err := a.Run(ref, cand)
	require.ErrorIs(t, err, ErrRecordCountMismatch)
	assert.Contains(t, err.Error(), "reference has 51 messages, candidate has 50")

	out := buf.String()
	assert.Contains(t, out, "Reference messages: 51")
	assert.Contains(t, out, "Candidate messages: 50")
	assert.NotContains(t, out, "[OK]", "no per-message comparison after a fatal mismatch")
	assert.NotContains(t, out, "SUMMARY")
}

func TestRun_SummaryTruncatesLongCategories(t *testing.T) {
	a, buf := newTestAggregator()

	ref := make([]domain.MessageRecord, 15)
	cand := make([]domain.MessageRecord, 15)
	for i := range ref {
		ref[i] = testRecord(i+1, 25, false)
		cand[i] = testRecord(i+1, 25, false)
		cand[i].Level = ip(850)
	}

	result, err := a.Run(ref, cand)
	require.NoError(t, err)

	require.Len(t, result.Discrepancies[CategoryMetadata], 15)

	out := buf.String()
	assert.Contains(t, out, "METADATA Issues (15):")
	assert.Contains(t, out, "... and 5 more")
	assert.Equal(t, 10, strings.Count(out, "level differs"))
}

func TestCheckReadiness(t *testing.T) {
	a, _ := newTestAggregator()

	require.Error(t, a.CheckReadiness(context.Background()))

	_, err := a.Run(
		[]domain.MessageRecord{testRecord(1, 25, false)},
		[]domain.MessageRecord{testRecord(1, 25, false)},
	)
	require.NoError(t, err)

	assert.NoError(t, a.CheckReadiness(context.Background()))
}

func TestFirstMessageDetail_MissingFieldsShowNA(t *testing.T) {
	a, buf := newTestAggregator()

	ref := testRecord(1, 25, false)
	cand := testRecord(1, 25, false)
	ref.Minute = nil

	_, err := a.Run([]domain.MessageRecord{ref}, []domain.MessageRecord{cand})
	require.NoError(t, err)

	var minuteLine string
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.HasPrefix(line, "minute") {
			minuteLine = line
		}
	}
	require.NotEmpty(t, minuteLine)
	assert.Contains(t, minuteLine, "N/A")
}
