package prep

import (
	"testing"

	"github.com/KaramelBytes/strokeprep/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nulls(n int, at ...int) []bool {
	v := make([]bool, n)
	for i := range v {
		v[i] = true
	}
	for _, i := range at {
		v[i] = false
	}
	return v
}

// fiveRows has one null bmi in the Female group, whose other bmi values are
// 20 and 24.
func fiveRows(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.New(
		table.NewNumeric("id", []float64{1, 2, 3, 4, 5}, nil),
		table.NewText("gender", []string{"Female", "Female", "Female", "Male", "Male"}, nil),
		table.NewNumeric("age", []float64{30, 45, 70, 18, 0}, nil),
		table.NewFloat("bmi", []float64{20, 24, 0, 30, 31}, nulls(5, 2)),
		table.NewText("smoking_status", []string{"smokes", "", "never smoked", "", "smokes"}, nulls(5, 1, 3)),
		table.NewNumeric("stroke", []float64{0, 1, 0, 0, 1}, nil),
	)
	require.NoError(t, err)
	return tbl
}

func TestCleanEndToEndImputation(t *testing.T) {
	in := fiveRows(t)
	out, rep, err := Clean(in, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 5, out.Len())
	assert.False(t, out.Has("id"))
	assert.Equal(t, []string{"id"}, rep.DroppedColumns)

	bmi, ok := out.Numeric("bmi")
	require.True(t, ok)
	v, ok := bmi.Value(2)
	require.True(t, ok)
	assert.Equal(t, 22.0, v)
	assert.Equal(t, 1, rep.Imputation.FromGroup)
	assert.Equal(t, 0, rep.Imputation.FromOverall)
	assert.Equal(t, map[string]float64{"Female": 22, "Male": 30.5}, rep.Imputation.GroupMedians)

	// Input untouched.
	orig, _ := in.Numeric("bmi")
	assert.True(t, orig.IsNull(2))
	assert.True(t, in.Has("id"))
}

func TestCleanCategorizesAndFillsSentinel(t *testing.T) {
	out, rep, err := Clean(fiveRows(t), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"gender", "smoking_status"}, rep.Categorized)
	_, ok := out.Numeric("stroke")
	assert.True(t, ok, "label stays numeric")

	smoke, ok := out.Categorical("smoking_status")
	require.True(t, ok)
	assert.Equal(t, []string{"never smoked", "smokes", "Unknown"}, smoke.Categories())
	assert.Equal(t, 0, smoke.NullCount())
	assert.Equal(t, "Unknown", smoke.Format(1))
	assert.Equal(t, "Unknown", smoke.Format(3))
	assert.True(t, rep.SentinelAdded)
	assert.Equal(t, 2, rep.SentinelFilled)
}

func TestCleanIsIdempotent(t *testing.T) {
	opt := DefaultOptions()
	once, _, err := Clean(fiveRows(t), opt)
	require.NoError(t, err)
	twice, rep, err := Clean(once, opt)
	require.NoError(t, err)
	assert.True(t, once.Equal(twice))
	assert.Equal(t, 0, rep.DuplicatesRemoved)
	assert.False(t, rep.SentinelAdded)
	assert.Equal(t, 0, rep.Imputation.Filled())
}

func TestCleanSentinelAlreadyInDomain(t *testing.T) {
	tbl, err := table.New(
		table.NewText("smoking_status", []string{"Unknown", "", "smokes"}, nulls(3, 1)),
	)
	require.NoError(t, err)
	out, rep, err := Clean(tbl, DefaultOptions())
	require.NoError(t, err)
	assert.False(t, rep.SentinelAdded)
	assert.Equal(t, 1, rep.SentinelFilled)
	smoke, _ := out.Categorical("smoking_status")
	assert.Equal(t, []string{"Unknown", "smokes"}, smoke.Categories())
}

func TestDropDuplicates(t *testing.T) {
	tbl, err := table.New(
		table.NewText("gender", []string{"Male", "Male", "Female", "Male"}, nil),
		table.NewFloat("bmi", []float64{30, 30, 0, 30}, nulls(4, 2)),
	)
	require.NoError(t, err)
	out, removed := DropDuplicates(tbl)
	assert.Equal(t, 2, removed)
	assert.Equal(t, 2, out.Len())
	assert.Equal(t, []string{"Male", "30.0"}, out.Row(0))
	assert.Equal(t, []string{"Female", ""}, out.Row(1))

	same, removed := DropDuplicates(out)
	assert.Equal(t, 0, removed)
	assert.Same(t, out, same)
}

func TestImputeFallsBackToOverallMedian(t *testing.T) {
	tbl, err := table.New(
		table.NewText("gender", []string{"Male", "Male", "Other", "Female", ""}, nulls(5, 4)),
		table.NewFloat("bmi", []float64{20, 30, 0, 40, 0}, nulls(5, 2, 4)),
	)
	require.NoError(t, err)
	imp, err := ImputeGroupMedian(tbl, "bmi", "gender")
	require.NoError(t, err)

	bmi, _ := tbl.Numeric("bmi")
	// "Other" has no observations and row 4 has no group.
	v2, _ := bmi.Value(2)
	v4, _ := bmi.Value(4)
	assert.Equal(t, 30.0, v2)
	assert.Equal(t, 30.0, v4)
	require.NotNil(t, imp.Overall)
	assert.Equal(t, 30.0, *imp.Overall)
	assert.Equal(t, 0, imp.FromGroup)
	assert.Equal(t, 2, imp.FromOverall)
}

func TestImputeWithoutGroupColumn(t *testing.T) {
	tbl, err := table.New(table.NewFloat("bmi", []float64{10, 0, 20}, nulls(3, 1)))
	require.NoError(t, err)
	imp, err := ImputeGroupMedian(tbl, "bmi", "gender")
	require.NoError(t, err)
	assert.Equal(t, 1, imp.FromOverall)
	bmi, _ := tbl.Numeric("bmi")
	v, _ := bmi.Value(1)
	assert.Equal(t, 15.0, v)
}

func TestImputeNoObservations(t *testing.T) {
	tbl, err := table.New(table.NewFloat("bmi", []float64{0, 0}, nulls(2, 0, 1)))
	require.NoError(t, err)
	imp, err := ImputeGroupMedian(tbl, "bmi", "gender")
	require.NoError(t, err)
	assert.Nil(t, imp.Overall)
	assert.Equal(t, 2, imp.Unfilled)
}

func TestImputeCoercesText(t *testing.T) {
	tbl, err := table.New(
		table.NewText("gender", []string{"Male", "Male", "Male"}, nil),
		table.NewText("bmi", []string{"20", "N/A", "30"}, nil),
	)
	require.NoError(t, err)
	_, err = ImputeGroupMedian(tbl, "bmi", "gender")
	require.NoError(t, err)
	bmi, ok := tbl.Numeric("bmi")
	require.True(t, ok)
	v, _ := bmi.Value(1)
	assert.Equal(t, 25.0, v)
}

func TestFillSentinelRejectsNumeric(t *testing.T) {
	tbl, err := table.New(table.NewNumeric("smoking_status", []float64{1}, nil))
	require.NoError(t, err)
	_, _, err = FillSentinel(tbl, "smoking_status", "Unknown")
	assert.Error(t, err)
}

func TestCleanMissingColumnsAreNoOps(t *testing.T) {
	tbl, err := table.New(table.NewNumeric("x", []float64{1, 2}, nil))
	require.NoError(t, err)
	out, rep, err := Clean(tbl, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, tbl.Equal(out))
	assert.Empty(t, rep.DroppedColumns)
	assert.Empty(t, rep.Categorized)
}
