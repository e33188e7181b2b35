// Package stats provides the order statistics used for imputation and
// outlier capping, plus thin wrappers over gonum for moments and correlation.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// DefaultIQRMultiplier is the Tukey fence factor.
const DefaultIQRMultiplier = 1.5

// Quantile returns the q-th quantile (0..1) of vals by linear interpolation
// between order statistics at rank q*(n-1). NaN values are ignored. ok is
// false when no value remains.
func Quantile(vals []float64, q float64) (v float64, ok bool) {
	sorted := sortedObserved(vals)
	if len(sorted) == 0 {
		return math.NaN(), false
	}
	return quantile(sorted, q), true
}

// Median is Quantile(vals, 0.5).
func Median(vals []float64) (float64, bool) {
	return Quantile(vals, 0.5)
}

// Mean returns the arithmetic mean of the non-NaN values.
func Mean(vals []float64) (float64, bool) {
	obs := observed(vals)
	if len(obs) == 0 {
		return math.NaN(), false
	}
	return stat.Mean(obs, nil), true
}

// Sum returns the sum of the non-NaN values.
func Sum(vals []float64) float64 {
	var s float64
	for _, v := range vals {
		if !math.IsNaN(v) {
			s += v
		}
	}
	return s
}

// Correlation returns the Pearson coefficient over the index pairs where both
// x and y are present. It is NaN with fewer than two pairs or zero variance.
func Correlation(x, y []float64) float64 {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsInf(r, 0) {
		return math.NaN()
	}
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}

// Bounds are the interquartile fences of a distribution.
type Bounds struct {
	Q1    float64 `json:"q1"`
	Q3    float64 `json:"q3"`
	IQR   float64 `json:"iqr"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// IQRBounds computes Q1, Q3 and the fences Q1-k*IQR and Q3+k*IQR.
func IQRBounds(vals []float64, k float64) (Bounds, bool) {
	sorted := sortedObserved(vals)
	if len(sorted) == 0 {
		return Bounds{}, false
	}
	q1 := quantile(sorted, 0.25)
	q3 := quantile(sorted, 0.75)
	iqr := q3 - q1
	return Bounds{Q1: q1, Q3: q3, IQR: iqr, Lower: q1 - k*iqr, Upper: q3 + k*iqr}, true
}

// Clip clamps v into [Lower, Upper]. NaN passes through.
func (b Bounds) Clip(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return v
	case v < b.Lower:
		return b.Lower
	case v > b.Upper:
		return b.Upper
	default:
		return v
	}
}

// Contains reports whether v lies within the fences.
func (b Bounds) Contains(v float64) bool { return v >= b.Lower && v <= b.Upper }

func observed(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

func sortedObserved(vals []float64) []float64 {
	out := observed(vals)
	sort.Float64s(out)
	return out
}

func quantile(sorted []float64, q float64) float64 {
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
