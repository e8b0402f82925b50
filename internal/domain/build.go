package domain

import "strconv"

// edgeSampleSize is the length of the first10/last10 samples. Fixed: the
// record field names encode it.
const edgeSampleSize = 10

// BuildRecord normalizes one fully decoded message into its comparison-ready
// record. When exhaustive is true the record carries the complete value array;
// otherwise a head and tail sample. Statistics, spot values, and the
// coordinate cross-check fields are always computed.
func BuildRecord(raw RawMessage, exhaustive bool) MessageRecord {
	rec := MessageRecord{
		MessageMeta: raw.MessageMeta,
		NumValues:   len(raw.Values),
	}

	if len(raw.Values) > 0 {
		rec.Min, rec.Max, rec.Mean = stats(raw.Values)
		rec.SpotValues = spotValues(raw.Values)

		if exhaustive {
			rec.AllValues = append([]float64(nil), raw.Values...)
		} else {
			rec.First10 = head(raw.Values, edgeSampleSize)
			rec.Last10 = tail(raw.Values, edgeSampleSize)
		}
	}

	if len(raw.Latitudes) > 0 {
		rec.FirstLat = ptr(raw.Latitudes[0])
		rec.LastLat = ptr(raw.Latitudes[len(raw.Latitudes)-1])
	}
	if len(raw.Longitudes) > 0 {
		rec.FirstLon = ptr(raw.Longitudes[0])
		rec.LastLon = ptr(raw.Longitudes[len(raw.Longitudes)-1])
	}

	return rec
}

// BuildRecords normalizes a full decode dump, applying the sampling policy by
// 0-based message position.
func BuildRecords(raws []RawMessage, policy SamplingPolicy) []MessageRecord {
	records := make([]MessageRecord, len(raws))
	for i, raw := range raws {
		rec := BuildRecord(raw, policy.Exhaustive(i))
		if rec.Message == 0 {
			rec.Message = i + 1
		}
		records[i] = rec
	}
	return records
}

func stats(values []float64) (minV, maxV, mean float64) {
	minV, maxV = values[0], values[0]
	var sum float64
	for _, v := range values {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
		sum += v
	}
	return minV, maxV, sum / float64(len(values))
}

// spotValues picks fixed check points across the array: the first three
// indices, the quartile positions, and the last three indices. Duplicate
// indices on tiny arrays collapse into one entry.
func spotValues(values []float64) map[string]float64 {
	n := len(values)
	indices := []int{0, 1, 2, n / 4, n / 2, 3 * n / 4, n - 3, n - 2, n - 1}

	spots := make(map[string]float64)
	for _, idx := range indices {
		if idx < 0 || idx >= n {
			continue
		}
		spots[strconv.Itoa(idx)] = values[idx]
	}
	return spots
}

func head(values []float64, n int) []float64 {
	if len(values) < n {
		n = len(values)
	}
	return append([]float64(nil), values[:n]...)
}

func tail(values []float64, n int) []float64 {
	if len(values) < n {
		n = len(values)
	}
	return append([]float64(nil), values[len(values)-n:]...)
}

func ptr(v float64) *float64 { return &v }
