package prep

import (
	"fmt"
	"sort"

	"github.com/KaramelBytes/strokeprep/internal/stats"
	"github.com/KaramelBytes/strokeprep/internal/table"
)

// CleanReport describes what Clean changed.
type CleanReport struct {
	DroppedColumns    []string   `json:"dropped_columns,omitempty"`
	DuplicatesRemoved int        `json:"duplicates_removed"`
	Imputation        Imputation `json:"imputation"`
	Categorized       []string   `json:"categorized,omitempty"`
	SentinelAdded     bool       `json:"sentinel_added"`
	SentinelFilled    int        `json:"sentinel_filled"`
}

// Clean returns a cleaned copy of t: identifier dropped, duplicate rows
// removed, the impute column filled from group medians, textual columns
// converted to categoricals and the sentinel column filled. Stages whose
// column is absent are skipped.
func Clean(t *table.Table, opt Options) (*table.Table, CleanReport, error) {
	var rep CleanReport
	out := t.Clone()

	if DropID(out, opt.IDColumn) {
		rep.DroppedColumns = append(rep.DroppedColumns, opt.IDColumn)
	}

	out, rep.DuplicatesRemoved = DropDuplicates(out)

	imp, err := ImputeGroupMedian(out, opt.ImputeColumn, opt.GroupColumn)
	if err != nil {
		return nil, rep, fmt.Errorf("impute %s: %w", opt.ImputeColumn, err)
	}
	rep.Imputation = imp

	rep.Categorized, err = Categorize(out, opt.LabelColumn)
	if err != nil {
		return nil, rep, fmt.Errorf("categorize: %w", err)
	}

	rep.SentinelAdded, rep.SentinelFilled, err = FillSentinel(out, opt.SentinelColumn, opt.Sentinel)
	if err != nil {
		return nil, rep, fmt.Errorf("fill %s: %w", opt.SentinelColumn, err)
	}
	return out, rep, nil
}

// DropID removes the identifier column if present.
func DropID(t *table.Table, name string) bool {
	return t.Drop(name)
}

// DropDuplicates keeps the first occurrence of every distinct row, in order,
// and returns the number of rows removed.
func DropDuplicates(t *table.Table) (*table.Table, int) {
	seen := make(map[string]struct{}, t.Len())
	keep := make([]int, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		k := t.RowKey(i)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keep = append(keep, i)
	}
	removed := t.Len() - len(keep)
	if removed == 0 {
		return t, 0
	}
	return t.Take(keep), removed
}

// Imputation reports how a column's nulls were filled.
type Imputation struct {
	Column       string             `json:"column,omitempty"`
	GroupColumn  string             `json:"group_column,omitempty"`
	GroupMedians map[string]float64 `json:"group_medians,omitempty"`
	Overall      *float64           `json:"overall_median,omitempty"`
	FromGroup    int                `json:"from_group"`
	FromOverall  int                `json:"from_overall"`
	// Unfilled counts nulls left because no observation exists at all.
	Unfilled int `json:"unfilled"`
}

// Filled returns the number of cells that received a value.
func (i Imputation) Filled() int { return i.FromGroup + i.FromOverall }

// ImputeGroupMedian fills nulls in column value with the median of the row's
// group, falling back to the median of the whole column when the group has
// no observations. A textual value column is first coerced to numeric.
func ImputeGroupMedian(t *table.Table, value, group string) (Imputation, error) {
	imp := Imputation{Column: value, GroupColumn: group}
	if !t.Has(value) {
		return imp, nil
	}
	col, err := numericColumn(t, value)
	if err != nil {
		return imp, err
	}

	imp.GroupMedians = GroupMedians(t, col, group)
	overall, hasOverall := stats.Median(col.Observed())
	if hasOverall {
		imp.Overall = &overall
	}

	keys := groupKeys(t, group)
	for i := 0; i < col.Len(); i++ {
		if !col.IsNull(i) {
			continue
		}
		if k, ok := keys[i]; ok {
			if m, ok := imp.GroupMedians[k]; ok {
				col.Set(i, m)
				imp.FromGroup++
				continue
			}
		}
		if hasOverall {
			col.Set(i, overall)
			imp.FromOverall++
			continue
		}
		imp.Unfilled++
	}
	return imp, nil
}

// GroupMedians returns the median of the observed values per distinct group
// label. Groups without observations have no entry.
func GroupMedians(t *table.Table, col *table.NumericColumn, group string) map[string]float64 {
	keys := groupKeys(t, group)
	byGroup := map[string][]float64{}
	for i := 0; i < col.Len(); i++ {
		k, ok := keys[i]
		if !ok {
			continue
		}
		if v, present := col.Value(i); present {
			byGroup[k] = append(byGroup[k], v)
		}
	}
	out := make(map[string]float64, len(byGroup))
	for k, vals := range byGroup {
		if m, ok := stats.Median(vals); ok {
			out[k] = m
		}
	}
	return out
}

// groupKeys maps row index to the row's group label; rows with a null label
// or a missing group column are absent.
func groupKeys(t *table.Table, group string) map[int]string {
	out := map[int]string{}
	c, ok := t.Column(group)
	if !ok {
		return out
	}
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			continue
		}
		out[i] = c.Format(i)
	}
	return out
}

func numericColumn(t *table.Table, name string) (*table.NumericColumn, error) {
	if n, ok := t.Numeric(name); ok {
		return n, nil
	}
	if s, ok := t.Text(name); ok {
		n := table.ToNumeric(s)
		if err := t.Set(n); err != nil {
			return nil, err
		}
		return n, nil
	}
	return nil, fmt.Errorf("column %q is not numeric", name)
}

// Categorize converts every text column except the excluded ones into a
// categorical and returns the converted names in column order.
func Categorize(t *table.Table, exclude ...string) ([]string, error) {
	skip := map[string]struct{}{}
	for _, e := range exclude {
		skip[e] = struct{}{}
	}
	var names []string
	for _, c := range t.Columns() {
		s, ok := c.(*table.TextColumn)
		if !ok {
			continue
		}
		if _, ok := skip[s.Name()]; ok {
			continue
		}
		if err := t.Set(table.Categorize(s)); err != nil {
			return names, err
		}
		names = append(names, s.Name())
	}
	return names, nil
}

// FillSentinel replaces nulls in column with label. For a categorical column
// the label is added to the domain first when missing. It reports whether the
// domain was extended and how many cells were filled.
func FillSentinel(t *table.Table, column, label string) (added bool, filled int, err error) {
	c, ok := t.Column(column)
	if !ok {
		return false, 0, nil
	}
	switch col := c.(type) {
	case *table.CategoricalColumn:
		if !col.HasCategory(label) {
			if err := col.AddCategories(label); err != nil {
				return false, 0, err
			}
			added = true
		}
		filled, err = col.FillNull(label)
		return added, filled, err
	case *table.TextColumn:
		for i := 0; i < col.Len(); i++ {
			if col.IsNull(i) {
				col.Set(i, label)
				filled++
			}
		}
		return false, filled, nil
	default:
		return false, 0, fmt.Errorf("column %q is %s, want categorical", column, c.Kind())
	}
}

// SortedGroups returns the group labels of medians in lexical order.
func SortedGroups(medians map[string]float64) []string {
	out := make([]string, 0, len(medians))
	for k := range medians {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
