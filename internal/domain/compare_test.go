package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareValues_Identical(t *testing.T) {
	a := []float64{1.5, 2.5, 3.5}
	c := CompareValues(a, []float64{1.5, 2.5, 3.5}, 1e-6)

	assert.True(t, c.OK())
	assert.Zero(t, c.MaxDiff)
	assert.Zero(t, c.ExceedCount)
	assert.Contains(t, c.Summary(), "Max diff")
}

func TestCompareValues_ToleranceBoundary(t *testing.T) {
	const tol = 1e-6

	t.Run("difference exactly at tolerance passes", func(t *testing.T) {
		c := CompareValues([]float64{1.0}, []float64{1.0 + tol}, tol)
		assert.True(t, c.OK())

		// Both argument orders.
		c = CompareValues([]float64{1.0 + tol}, []float64{1.0}, tol)
		assert.True(t, c.OK())
	})

	t.Run("difference just past tolerance fails", func(t *testing.T) {
		c := CompareValues([]float64{1.0}, []float64{1.0 + 2*tol}, tol)
		assert.False(t, c.OK())
		assert.Equal(t, 1, c.ExceedCount)

		c = CompareValues([]float64{1.0 + 2*tol}, []float64{1.0}, tol)
		assert.False(t, c.OK())
	})
}

func TestCompareValues_TracksWorstIndex(t *testing.T) {
	a := []float64{0, 0, 0, 0}
	b := []float64{1e-8, 3e-5, 2e-6, 1e-7}

	c := CompareValues(a, b, 1e-6)
	assert.False(t, c.OK())
	assert.Equal(t, 1, c.MaxDiffIndex)
	assert.InDelta(t, 3e-5, c.MaxDiff, 1e-12)
	assert.Equal(t, 2, c.ExceedCount, "indices 1 and 2 exceed tolerance")
	assert.Contains(t, c.Summary(), "at index 1")
	assert.Contains(t, c.Summary(), "2 values differ")
}

func TestCompareValues_LengthMismatch(t *testing.T) {
	a := make([]float64, 50)
	b := make([]float64, 51)

	c := CompareValues(a, b, 1e-6)
	assert.False(t, c.OK())
	assert.True(t, c.LengthMismatch)
	assert.Equal(t, "Length mismatch: 50 vs 51", c.Summary())

	// Same outcome regardless of argument order.
	c = CompareValues(b, a, 1e-6)
	assert.False(t, c.OK())
	assert.True(t, c.LengthMismatch)
}

func TestCompareValues_Idempotent(t *testing.T) {
	a := []float64{1.0, 2.0, 3.000001}
	b := []float64{1.0, 2.0000004, 3.0}

	first := CompareValues(a, b, 1e-6)
	second := CompareValues(a, b, 1e-6)

	require.Equal(t, first, second)
	assert.Equal(t, first.Summary(), second.Summary())
}

func TestSamplingPolicy_Exhaustive(t *testing.T) {
	p := DefaultSamplingPolicy

	// First five messages are always exhaustive.
	for i := 0; i < 5; i++ {
		assert.True(t, p.Exhaustive(i), "message %d", i)
	}
	assert.False(t, p.Exhaustive(5))
	assert.False(t, p.Exhaustive(50))

	// First two of each 51-message block.
	assert.True(t, p.Exhaustive(51))
	assert.True(t, p.Exhaustive(52))
	assert.False(t, p.Exhaustive(53))
	assert.True(t, p.Exhaustive(102))
	assert.False(t, p.Exhaustive(104))
}

func TestSamplingPolicy_ZeroBlockSize(t *testing.T) {
	p := SamplingPolicy{HeadCount: 3}

	assert.True(t, p.Exhaustive(0))
	assert.True(t, p.Exhaustive(2))
	assert.False(t, p.Exhaustive(3))
	assert.False(t, p.Exhaustive(1000))
}

func TestWithinTolerance(t *testing.T) {
	assert.True(t, WithinTolerance(1.0, 1.0, 0))
	assert.True(t, WithinTolerance(1.0, 1.0+1e-6, 1e-6))
	assert.False(t, WithinTolerance(1.0, 1.0+2e-6, 1e-6))
}
