package analysis

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/strokeprep/internal/prep"
	"github.com/KaramelBytes/strokeprep/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strokeTable(t *testing.T) *table.Table {
	t.Helper()
	gender, err := table.NewCategorical("gender", []string{"Female", "Male", "Other"},
		[]string{"Female", "Male", "Female", "Male", ""}, []bool{true, true, true, true, false}, false)
	require.NoError(t, err)
	tbl, err := table.New(
		gender,
		table.NewNumeric("age", []float64{10, 40, 70, 80, 50}, nil),
		table.NewFloat("bmi", []float64{20, 0, 24, 30, 22}, []bool{true, false, true, true, true}),
		table.NewText("note", []string{"a|b", "x", "x", "y", "z"}, nil),
		table.NewNumeric("stroke", []float64{0, 1, 1, 1, 0}, nil),
	)
	require.NoError(t, err)
	return tbl
}

func TestSummarizeText(t *testing.T) {
	s := Summarize("stroke.csv", strokeTable(t), 2)
	assert.Equal(t, 5, s.Rows)
	require.Len(t, s.Head, 2)

	out := s.Text("Original Data Preview")
	for _, want := range []string{
		"[DATASET SUMMARY]",
		"File: stroke.csv",
		"Rows: 5",
		"Columns: 5",
		"[DTYPES]",
		"- gender: category",
		"- age: int64",
		"- bmi: float64",
		"- note: object",
		"| Column | Missing Count | Missing Percent |",
		"| gender | 1 | 20.00% |",
		"| stroke | 0 | 0.00% |",
		"[ORIGINAL DATA PREVIEW]",
		"| gender | age | bmi | note | stroke |",
		"| Male | 40 | NaN | x | 1 |",
		"a/b",
	} {
		assert.Contains(t, out, want)
	}
	// Default head title.
	assert.Contains(t, s.Text(""), "[FIRST 2 ROWS]")
}

func TestMissingReportSortedDescending(t *testing.T) {
	m := MissingReport(strokeTable(t))
	require.Len(t, m, 5)
	// gender and bmi tie at 1 and keep column order.
	assert.Equal(t, "gender", m[0].Column)
	assert.Equal(t, "bmi", m[1].Column)
	assert.Equal(t, 0, m[4].Count)
	assert.InDelta(t, 20.0, m[0].Percent, 1e-9)
}

func TestGroupByCategoricalDomainOrder(t *testing.T) {
	tbl := strokeTable(t)
	sum, err := GroupBy(tbl, "gender", "stroke", AggSum)
	require.NoError(t, err)
	assert.Equal(t, []string{"Female", "Male", "Other"}, Keys(sum))
	assert.Equal(t, []float64{1, 2, 0}, Values(sum))

	mean, err := GroupBy(tbl, "gender", "stroke", AggMean)
	require.NoError(t, err)
	assert.Equal(t, 0.5, mean[0].Value)
	assert.Equal(t, 1.0, mean[1].Value)
	assert.True(t, math.IsNaN(mean[2].Value))

	sorted := SortDesc(mean)
	assert.Equal(t, []string{"Male", "Female", "Other"}, Keys(sorted))
	assert.Equal(t, "Female", mean[0].Key, "SortDesc copies")
}

func TestGroupByTextAndErrors(t *testing.T) {
	tbl := strokeTable(t)
	cnt, err := GroupBy(tbl, "note", "bmi", AggCount)
	require.NoError(t, err)
	assert.Equal(t, []string{"a|b", "x", "y", "z"}, Keys(cnt))
	assert.Equal(t, []float64{1, 1, 1, 1}, Values(cnt))

	_, err = GroupBy(tbl, "nope", "stroke", AggSum)
	assert.Error(t, err)
	_, err = GroupBy(tbl, "gender", "note", AggSum)
	assert.Error(t, err)

	text := GroupText("Strokes by Gender", "Stroke Count", nanGroups())
	assert.Contains(t, text, "[STROKES BY GENDER]")
	assert.Contains(t, text, "| a | NaN |")
}

// nanGroups has one NaN aggregate.
func nanGroups() []GroupValue {
	return []GroupValue{{Key: "a", Value: math.NaN()}, {Key: "b", Value: 2}}
}

func TestCorrelations(t *testing.T) {
	tbl := strokeTable(t)
	m := Correlations(tbl)
	require.NotNil(t, m)
	assert.Equal(t, []string{"age", "bmi", "stroke"}, m.Columns)
	for i := range m.Columns {
		assert.InDelta(t, 1.0, m.Values[i][i], 1e-9)
		for j := range m.Columns {
			if !math.IsNaN(m.Values[i][j]) {
				assert.InDelta(t, m.Values[i][j], m.Values[j][i], 1e-12)
			}
		}
	}
	pairs := m.TopPairs(1)
	require.Len(t, pairs, 1)
	assert.Contains(t, CorrText(m, 2), "[TOP CORRELATIONS]")

	empty, err := table.New(table.NewText("a", []string{"x"}, nil))
	require.NoError(t, err)
	assert.Nil(t, Correlations(empty))
	assert.Contains(t, CorrText(nil, 3), "no numeric columns")
}

func TestWriteRunSummary(t *testing.T) {
	tbl := strokeTable(t)
	res, err := prep.Run(tbl, prep.DefaultOptions(), nil)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "out", "run.json")
	err = WriteRunSummary(path, RunSummary{
		RunID:    "r1",
		RowsIn:   tbl.Len(),
		RowsOut:  res.Table.Len(),
		Missing:  MissingReport(tbl),
		Pipeline: res,
	})
	require.NoError(t, err)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	s := string(b)
	for _, want := range []string{`"run_id": "r1"`, `"missing_count": 1`, `"bmi_capped"`, `"age_group"`} {
		assert.True(t, strings.Contains(s, want), "missing %s in %s", want, s)
	}
}
