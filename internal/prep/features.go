package prep

import (
	"fmt"
	"math"

	"github.com/KaramelBytes/strokeprep/internal/table"
)

// Bins are right-closed intervals (Edges[i], Edges[i+1]] labelled Labels[i].
// The first interval also includes its lower edge.
type Bins struct {
	Edges  []float64
	Labels []string
}

// AgeBins returns the five age groups 0-18, 19-35, 36-50, 51-65 and 66+
// over [0, 120].
func AgeBins() Bins {
	return Bins{
		Edges:  []float64{0, 18, 35, 50, 65, 120},
		Labels: []string{"0-18", "19-35", "36-50", "51-65", "66+"},
	}
}

// Validate checks that edges increase and that there is one label per interval.
func (b Bins) Validate() error {
	if len(b.Edges) < 2 {
		return fmt.Errorf("bins need at least two edges, got %d", len(b.Edges))
	}
	if len(b.Labels) != len(b.Edges)-1 {
		return fmt.Errorf("bins need %d labels, got %d", len(b.Edges)-1, len(b.Labels))
	}
	for i := 1; i < len(b.Edges); i++ {
		if !(b.Edges[i] > b.Edges[i-1]) {
			return fmt.Errorf("bin edges must increase: %v", b.Edges)
		}
	}
	return nil
}

// Assign returns the interval index of v, or false when v is NaN or outside
// [Edges[0], Edges[last]].
func (b Bins) Assign(v float64) (int, bool) {
	if math.IsNaN(v) || len(b.Edges) < 2 {
		return 0, false
	}
	if v < b.Edges[0] || v > b.Edges[len(b.Edges)-1] {
		return 0, false
	}
	for i := 1; i < len(b.Edges); i++ {
		if v <= b.Edges[i] {
			return i - 1, true
		}
	}
	return 0, false
}

// Bucketize maps each value of col to its bin label as an ordered categorical
// named name. Nulls and out-of-range values get a null label.
func Bucketize(col *table.NumericColumn, name string, b Bins) (*table.CategoricalColumn, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	labels := make([]string, col.Len())
	valid := make([]bool, col.Len())
	for i := range labels {
		v, ok := col.Value(i)
		if !ok {
			continue
		}
		if idx, ok := b.Assign(v); ok {
			labels[i] = b.Labels[idx]
			valid[i] = true
		}
	}
	return table.NewCategorical(name, b.Labels, labels, valid, true)
}

// AgeGroupReport counts rows that received no age group.
type AgeGroupReport struct {
	Column     string `json:"column,omitempty"`
	Assigned   int    `json:"assigned"`
	Unassigned int    `json:"unassigned"`
}

// DeriveAgeGroups adds the age group column when the age column exists.
func DeriveAgeGroups(t *table.Table, opt Options) (AgeGroupReport, error) {
	var rep AgeGroupReport
	age, ok := t.Numeric(opt.AgeColumn)
	if !ok {
		return rep, nil
	}
	groups, err := Bucketize(age, opt.AgeGroupColumn, opt.AgeBins)
	if err != nil {
		return rep, err
	}
	if err := t.Set(groups); err != nil {
		return rep, err
	}
	rep.Column = opt.AgeGroupColumn
	rep.Unassigned = groups.NullCount()
	rep.Assigned = groups.Len() - rep.Unassigned
	return rep, nil
}
