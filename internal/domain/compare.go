package domain

import (
	"fmt"
	"math"
)

// Tolerances are the absolute-difference thresholds for numeric comparison.
type Tolerances struct {
	// Value bounds elementwise array differences and min/max statistics.
	Value float64
	// Mean bounds the mean statistic. Looser than Value because the mean
	// accumulates rounding error across every element.
	Mean float64
}

// DefaultTolerances match the reference Python tooling: 1e-6 for values,
// 1e-4 for means.
var DefaultTolerances = Tolerances{Value: 1e-6, Mean: 1e-4}

// SamplingPolicy decides which messages carry the full value array. Message i
// (0-based) is exhaustive when i < HeadCount, or when its position inside a
// BlockSize-message block is below BlockHead.
type SamplingPolicy struct {
	HeadCount int
	BlockSize int
	BlockHead int
}

// DefaultSamplingPolicy mirrors the reference dataset's layout: the first 5
// messages plus the first 2 of every 51-message parameter block.
var DefaultSamplingPolicy = SamplingPolicy{HeadCount: 5, BlockSize: 51, BlockHead: 2}

// Exhaustive reports whether message i (0-based) gets a full value array.
func (p SamplingPolicy) Exhaustive(i int) bool {
	if i < p.HeadCount {
		return true
	}
	if p.BlockSize <= 0 {
		return false
	}
	return i%p.BlockSize < p.BlockHead
}

// ValueComparison is the outcome of comparing two value arrays.
type ValueComparison struct {
	LengthMismatch bool
	LenA, LenB     int
	MaxDiff        float64
	MaxDiffIndex   int
	ExceedCount    int
}

// OK reports whether the arrays matched within tolerance.
func (c ValueComparison) OK() bool {
	return !c.LengthMismatch && c.ExceedCount == 0
}

// Summary renders the one-line outcome. The maximum observed difference is
// reported win or lose.
func (c ValueComparison) Summary() string {
	if c.LengthMismatch {
		return fmt.Sprintf("Length mismatch: %d vs %d", c.LenA, c.LenB)
	}
	if c.ExceedCount > 0 {
		return fmt.Sprintf("Max diff %.10f at index %d, %d values differ",
			c.MaxDiff, c.MaxDiffIndex, c.ExceedCount)
	}
	return fmt.Sprintf("Max diff %.10e", c.MaxDiff)
}

// CompareValues checks two same-length arrays under an absolute tolerance.
// Unequal lengths short-circuit: no element comparison is attempted. A
// difference exactly equal to the tolerance passes.
func CompareValues(a, b []float64, tolerance float64) ValueComparison {
	c := ValueComparison{LenA: len(a), LenB: len(b)}
	if len(a) != len(b) {
		c.LengthMismatch = true
		return c
	}
	for i := range a {
		diff := math.Abs(a[i] - b[i])
		if diff > c.MaxDiff {
			c.MaxDiff = diff
			c.MaxDiffIndex = i
		}
		if diff > tolerance {
			c.ExceedCount++
		}
	}
	return c
}

// WithinTolerance reports whether two scalars differ by at most tol.
func WithinTolerance(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
