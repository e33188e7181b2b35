package analysis

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/KaramelBytes/strokeprep/internal/stats"
	"github.com/KaramelBytes/strokeprep/internal/table"
)

// Agg selects the group aggregate.
type Agg int

const (
	AggSum Agg = iota
	AggMean
	AggCount
)

func (a Agg) String() string {
	switch a {
	case AggSum:
		return "sum"
	case AggMean:
		return "mean"
	case AggCount:
		return "count"
	default:
		return "unknown"
	}
}

// GroupValue is the aggregate of one group.
type GroupValue struct {
	Key   string
	Count int // non-null values aggregated
	Value float64
}

// GroupBy aggregates the numeric column value per label of group. Categorical
// groups follow domain order and include empty categories (sum 0, mean NaN);
// other groups are sorted by key. Rows with a null group label are ignored.
func GroupBy(t *table.Table, group, value string, agg Agg) ([]GroupValue, error) {
	gc, ok := t.Column(group)
	if !ok {
		return nil, fmt.Errorf("group column %q not found", group)
	}
	vc, ok := t.Numeric(value)
	if !ok {
		return nil, fmt.Errorf("value column %q not found or not numeric", value)
	}

	var keys []string
	switch c := gc.(type) {
	case *table.CategoricalColumn:
		keys = c.Categories()
	default:
		keys = distinctKeys(gc)
	}

	buckets := make(map[string][]float64, len(keys))
	for _, k := range keys {
		buckets[k] = nil
	}
	for i := 0; i < t.Len(); i++ {
		if gc.IsNull(i) {
			continue
		}
		v, present := vc.Value(i)
		if !present {
			continue
		}
		k := gc.Format(i)
		buckets[k] = append(buckets[k], v)
	}

	out := make([]GroupValue, 0, len(keys))
	for _, k := range keys {
		vals := buckets[k]
		gv := GroupValue{Key: k, Count: len(vals)}
		switch agg {
		case AggSum:
			gv.Value = stats.Sum(vals)
		case AggMean:
			gv.Value, _ = stats.Mean(vals)
		case AggCount:
			gv.Value = float64(len(vals))
		}
		out = append(out, gv)
	}
	return out, nil
}

func distinctKeys(c table.Column) []string {
	seen := map[string]struct{}{}
	var keys []string
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			continue
		}
		k := c.Format(i)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	if c.Kind() == table.KindNumeric {
		sort.Slice(keys, func(i, j int) bool {
			a, _ := strconv.ParseFloat(keys[i], 64)
			b, _ := strconv.ParseFloat(keys[j], 64)
			return a < b
		})
	} else {
		sort.Strings(keys)
	}
	return keys
}

// SortDesc returns a copy of groups ordered by value descending. NaN values
// go last; ties keep their order.
func SortDesc(groups []GroupValue) []GroupValue {
	out := make([]GroupValue, len(groups))
	copy(out, groups)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Value, out[j].Value
		if math.IsNaN(b) {
			return !math.IsNaN(a)
		}
		if math.IsNaN(a) {
			return false
		}
		return a > b
	})
	return out
}

// Keys returns the group labels.
func Keys(groups []GroupValue) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Key
	}
	return out
}

// Values returns the aggregates.
func Values(groups []GroupValue) []float64 {
	out := make([]float64, len(groups))
	for i, g := range groups {
		out[i] = g.Value
	}
	return out
}

// GroupText renders groups as a two-column table under a bracketed title.
// NaN aggregates print as NaN.
func GroupText(title, valueHeader string, groups []GroupValue) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s]\n", strings.ToUpper(title)))
	b.WriteString(fmt.Sprintf("| Group | %s |\n| --- | --- |\n", valueHeader))
	for _, g := range groups {
		b.WriteString(fmt.Sprintf("| %s | %s |\n", safeVal(g.Key), strconv.FormatFloat(g.Value, 'g', 6, 64)))
	}
	return b.String()
}

// CorrText renders the n strongest pairs of m.
func CorrText(m *CorrMatrix, n int) string {
	var b strings.Builder
	b.WriteString("[TOP CORRELATIONS]\n")
	if m == nil {
		b.WriteString("(no numeric columns)\n")
		return b.String()
	}
	for _, p := range m.TopPairs(n) {
		b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", p.A, p.B, p.R))
	}
	return b.String()
}
