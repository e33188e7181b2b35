package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(t *testing.T) *Table {
	t.Helper()
	g := Categorize(NewText("gender", []string{"Male", "Female", "Male"}, nil))
	tbl, err := New(
		NewNumeric("id", []float64{1, 2, 3}, nil),
		g,
		NewFloat("bmi", []float64{20, 0, 24}, []bool{true, false, true}),
	)
	require.NoError(t, err)
	return tbl
}

func TestNewValidates(t *testing.T) {
	_, err := New(NewNumeric("a", []float64{1}, nil), NewNumeric("a", []float64{2}, nil))
	assert.ErrorIs(t, err, ErrDuplicateColumn)

	_, err = New(NewNumeric("a", []float64{1}, nil), NewNumeric("b", []float64{1, 2}, nil))
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestAccessorsAndDrop(t *testing.T) {
	tbl := sample(t)
	assert.Equal(t, 3, tbl.Len())
	assert.Equal(t, []string{"id", "gender", "bmi"}, tbl.Names())

	_, ok := tbl.Numeric("gender")
	assert.False(t, ok)
	_, ok = tbl.Categorical("gender")
	assert.True(t, ok)

	assert.False(t, tbl.Drop("missing"))
	assert.True(t, tbl.Drop("id"))
	assert.Equal(t, []string{"gender", "bmi"}, tbl.Names())
	assert.Equal(t, []string{"Female", ""}, tbl.Row(1))
}

func TestSetReplacesOrAppends(t *testing.T) {
	tbl := sample(t)
	require.NoError(t, tbl.Set(NewFloat("bmi", []float64{1, 2, 3}, nil)))
	assert.Equal(t, 3, tbl.Width())
	require.NoError(t, tbl.Set(NewText("note", []string{"a", "b", "c"}, nil)))
	assert.Equal(t, "note", tbl.Names()[3])
	assert.ErrorIs(t, tbl.Set(NewText("short", []string{"a"}, nil)), ErrLengthMismatch)
}

func TestCloneIsIndependent(t *testing.T) {
	tbl := sample(t)
	cp := tbl.Clone()
	require.True(t, tbl.Equal(cp))

	n, _ := cp.Numeric("bmi")
	n.Set(1, 99)
	assert.False(t, tbl.Equal(cp))
	orig, _ := tbl.Numeric("bmi")
	assert.True(t, orig.IsNull(1))
}

func TestRowKeyAndHead(t *testing.T) {
	tbl := sample(t)
	tbl.Drop("id")
	assert.NotEqual(t, tbl.RowKey(0), tbl.RowKey(1))
	assert.Equal(t, 2, tbl.Head(2).Len())
	assert.Equal(t, 3, tbl.Head(10).Len())
	assert.Equal(t, 0, tbl.Head(-1).Len())
}

func TestEqualComparesDomains(t *testing.T) {
	a := sample(t)
	b := sample(t)
	c, _ := b.Categorical("gender")
	require.NoError(t, c.AddCategories("Unknown"))
	assert.False(t, a.Equal(b))
}
