package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantileLinearInterpolation(t *testing.T) {
	vals := []float64{4, 1, 3, 2}
	q1, ok := Quantile(vals, 0.25)
	require.True(t, ok)
	assert.InDelta(t, 1.75, q1, 1e-12)

	q3, _ := Quantile(vals, 0.75)
	assert.InDelta(t, 3.25, q3, 1e-12)

	lo, _ := Quantile(vals, 0)
	hi, _ := Quantile(vals, 1)
	assert.Equal(t, 1.0, lo)
	assert.Equal(t, 4.0, hi)
}

func TestQuantileIgnoresNaN(t *testing.T) {
	m, ok := Median([]float64{math.NaN(), 20, 24, math.NaN()})
	require.True(t, ok)
	assert.Equal(t, 22.0, m)

	_, ok = Median([]float64{math.NaN()})
	assert.False(t, ok)
	_, ok = Median(nil)
	assert.False(t, ok)
}

func TestMedianOddCount(t *testing.T) {
	m, ok := Median([]float64{5, 1, 3})
	require.True(t, ok)
	assert.Equal(t, 3.0, m)
}

func TestIQRBoundsAndClip(t *testing.T) {
	vals := []float64{1, 2, 3, 4, 5, 6, 7, 8, 100}
	b, ok := IQRBounds(vals, DefaultIQRMultiplier)
	require.True(t, ok)
	assert.Equal(t, 3.0, b.Q1)
	assert.Equal(t, 7.0, b.Q3)
	assert.Equal(t, 4.0, b.IQR)
	assert.Equal(t, -3.0, b.Lower)
	assert.Equal(t, 13.0, b.Upper)

	assert.Equal(t, 13.0, b.Clip(100))
	assert.Equal(t, -3.0, b.Clip(-50))
	assert.Equal(t, 5.0, b.Clip(5))
	assert.True(t, math.IsNaN(b.Clip(math.NaN())))
	assert.True(t, b.Contains(13))
	assert.False(t, b.Contains(13.01))

	_, ok = IQRBounds([]float64{math.NaN()}, DefaultIQRMultiplier)
	assert.False(t, ok)
}

func TestMeanAndSum(t *testing.T) {
	m, ok := Mean([]float64{1, math.NaN(), 0, 1, 0})
	require.True(t, ok)
	assert.Equal(t, 0.5, m)
	assert.Equal(t, 2.0, Sum([]float64{1, math.NaN(), 1}))

	_, ok = Mean(nil)
	assert.False(t, ok)
}

func TestCorrelationPairwiseComplete(t *testing.T) {
	x := []float64{1, 2, 3, math.NaN(), 5}
	y := []float64{2, 4, 6, 100, 10}
	assert.InDelta(t, 1.0, Correlation(x, y), 1e-12)

	neg := Correlation([]float64{1, 2, 3}, []float64{3, 2, 1})
	assert.InDelta(t, -1.0, neg, 1e-12)

	assert.True(t, math.IsNaN(Correlation([]float64{1}, []float64{1})))
	assert.True(t, math.IsNaN(Correlation([]float64{1, 1, 1}, []float64{1, 2, 3})))
}
