package analysis

import (
	"math"
	"sort"

	"github.com/KaramelBytes/strokeprep/internal/stats"
	"github.com/KaramelBytes/strokeprep/internal/table"
)

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// PairCorr is a simple correlation pair summary.
type PairCorr struct {
	A, B string
	R    float64
}

// Correlations computes Pearson coefficients between every pair of numeric
// columns using pairwise complete rows. Undefined coefficients are NaN.
// It returns nil when t has no numeric column.
func Correlations(t *table.Table) *CorrMatrix {
	var names []string
	var data [][]float64
	for _, c := range t.Columns() {
		n, ok := c.(*table.NumericColumn)
		if !ok {
			continue
		}
		vals := make([]float64, n.Len())
		for i := range vals {
			vals[i], _ = n.Value(i)
		}
		names = append(names, n.Name())
		data = append(data, vals)
	}
	if len(names) == 0 {
		return nil
	}
	mat := make([][]float64, len(names))
	for i := range mat {
		mat[i] = make([]float64, len(names))
	}
	for a := range names {
		for b := a; b < len(names); b++ {
			r := stats.Correlation(data[a], data[b])
			mat[a][b] = r
			mat[b][a] = r
		}
	}
	return &CorrMatrix{Columns: names, Values: mat}
}

// TopPairs lists off-diagonal pairs by |r| descending, skipping NaN.
func (m *CorrMatrix) TopPairs(n int) []PairCorr {
	var pairs []PairCorr
	for i := range m.Columns {
		for j := i + 1; j < len(m.Columns); j++ {
			r := m.Values[i][j]
			if math.IsNaN(r) {
				continue
			}
			pairs = append(pairs, PairCorr{A: m.Columns[i], B: m.Columns[j], R: r})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		ai, aj := math.Abs(pairs[i].R), math.Abs(pairs[j].R)
		if ai == aj {
			return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
		}
		return ai > aj
	})
	if n > 0 && len(pairs) > n {
		pairs = pairs[:n]
	}
	return pairs
}
