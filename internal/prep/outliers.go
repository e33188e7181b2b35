package prep

import (
	"math"

	"github.com/KaramelBytes/strokeprep/internal/stats"
	"github.com/KaramelBytes/strokeprep/internal/table"
)

// CapResult describes one capped column.
type CapResult struct {
	Source  string        `json:"source"`
	Target  string        `json:"target"`
	Bounds  *stats.Bounds `json:"bounds,omitempty"`
	Raised  int           `json:"raised"`
	Lowered int           `json:"lowered"`
}

// CapIQR returns a copy of col named name whose values are clamped to the
// column's interquartile fences. Nulls pass through. When the column has no
// observations the copy is unchanged and ok is false.
func CapIQR(col *table.NumericColumn, k float64, name string) (out *table.NumericColumn, res CapResult, ok bool) {
	res = CapResult{Source: col.Name(), Target: name}
	b, ok := stats.IQRBounds(col.Observed(), k)
	if !ok {
		return col.Copy(name), res, false
	}
	res.Bounds = &b

	vals := make([]float64, col.Len())
	valid := make([]bool, col.Len())
	for i := range vals {
		v, present := col.Value(i)
		if !present {
			continue
		}
		c := b.Clip(v)
		if c > v {
			res.Raised++
		} else if c < v {
			res.Lowered++
		}
		vals[i] = c
		valid[i] = true
	}
	if col.Integer() && isWhole(b.Lower) && isWhole(b.Upper) {
		out = table.NewNumeric(name, vals, valid)
	} else {
		out = table.NewFloat(name, vals, valid)
	}
	return out, res, true
}

// CapColumns writes a capped copy of every configured column present in t.
func CapColumns(t *table.Table, opt Options) ([]CapResult, error) {
	var results []CapResult
	for _, name := range opt.CapColumns {
		col, ok := t.Numeric(name)
		if !ok {
			continue
		}
		capped, res, _ := CapIQR(col, opt.IQRMultiplier, name+opt.CapSuffix)
		if err := t.Set(capped); err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func isWhole(v float64) bool { return v == math.Trunc(v) }
