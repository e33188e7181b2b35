// Package table holds the in-memory Record Table: ordered, equally sized,
// uniquely named columns of numeric, text or categorical cells, plus the
// loaders and writers that move it to and from delimited files.
package table

import (
	"fmt"
	"strings"
)

// Table is an ordered set of equally sized, uniquely named columns.
type Table struct {
	cols  []Column
	index map[string]int
	rows  int
}

// New builds a table from columns. Names must be unique and lengths equal.
func New(cols ...Column) (*Table, error) {
	t := &Table{index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if _, dup := t.index[c.Name()]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateColumn, c.Name())
		}
		if i == 0 {
			t.rows = c.Len()
		} else if c.Len() != t.rows {
			return nil, fmt.Errorf("%w: %s has %d rows, want %d", ErrLengthMismatch, c.Name(), c.Len(), t.rows)
		}
		t.index[c.Name()] = i
		t.cols = append(t.cols, c)
	}
	return t, nil
}

// Len returns the number of rows.
func (t *Table) Len() int { return t.rows }

// Width returns the number of columns.
func (t *Table) Width() int { return len(t.cols) }

// Names returns the column names in order.
func (t *Table) Names() []string {
	out := make([]string, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.Name()
	}
	return out
}

// Columns returns the columns in order. The slice is a copy; the columns are shared.
func (t *Table) Columns() []Column {
	out := make([]Column, len(t.cols))
	copy(out, t.cols)
	return out
}

func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.cols[i], true
}

func (t *Table) Numeric(name string) (*NumericColumn, bool) {
	c, ok := t.Column(name)
	if !ok {
		return nil, false
	}
	n, ok := c.(*NumericColumn)
	return n, ok
}

func (t *Table) Text(name string) (*TextColumn, bool) {
	c, ok := t.Column(name)
	if !ok {
		return nil, false
	}
	s, ok := c.(*TextColumn)
	return s, ok
}

func (t *Table) Categorical(name string) (*CategoricalColumn, bool) {
	c, ok := t.Column(name)
	if !ok {
		return nil, false
	}
	s, ok := c.(*CategoricalColumn)
	return s, ok
}

// Drop removes the named columns that exist and reports whether any were removed.
func (t *Table) Drop(names ...string) bool {
	drop := map[string]struct{}{}
	for _, n := range names {
		if t.Has(n) {
			drop[n] = struct{}{}
		}
	}
	if len(drop) == 0 {
		return false
	}
	kept := t.cols[:0:0]
	for _, c := range t.cols {
		if _, ok := drop[c.Name()]; !ok {
			kept = append(kept, c)
		}
	}
	t.cols = kept
	t.reindex()
	return true
}

// Set replaces the same-named column in place or appends col.
func (t *Table) Set(col Column) error {
	if len(t.cols) > 0 && col.Len() != t.rows {
		return fmt.Errorf("%w: %s has %d rows, want %d", ErrLengthMismatch, col.Name(), col.Len(), t.rows)
	}
	if len(t.cols) == 0 {
		t.rows = col.Len()
	}
	if i, ok := t.index[col.Name()]; ok {
		t.cols[i] = col
		return nil
	}
	t.index[col.Name()] = len(t.cols)
	t.cols = append(t.cols, col)
	return nil
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.cols))
	for i, c := range t.cols {
		t.index[c.Name()] = i
	}
}

// Take returns a new table holding the given rows in the given order.
func (t *Table) Take(rows []int) *Table {
	out := &Table{index: make(map[string]int, len(t.cols)), rows: len(rows)}
	for i, c := range t.cols {
		out.cols = append(out.cols, c.take(rows))
		out.index[c.Name()] = i
	}
	return out
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table { return t.Take(seq(t.rows)) }

// Head returns the first n rows.
func (t *Table) Head(n int) *Table {
	if n > t.rows {
		n = t.rows
	}
	if n < 0 {
		n = 0
	}
	return t.Take(seq(n))
}

// RowKey returns a canonical key for row i over all columns. Nulls compare equal.
func (t *Table) RowKey(i int) string {
	var b strings.Builder
	for j, c := range t.cols {
		if j > 0 {
			b.WriteByte('\x1f')
		}
		b.WriteString(c.key(i))
	}
	return b.String()
}

// Row returns the formatted cells of row i.
func (t *Table) Row(i int) []string {
	out := make([]string, len(t.cols))
	for j, c := range t.cols {
		out[j] = c.Format(i)
	}
	return out
}

// Equal reports whether both tables have the same columns, kinds, dtypes,
// category domains and cells.
func (t *Table) Equal(o *Table) bool {
	if t.rows != o.rows || len(t.cols) != len(o.cols) {
		return false
	}
	for j, c := range t.cols {
		oc := o.cols[j]
		if c.Name() != oc.Name() || c.Kind() != oc.Kind() || c.DType() != oc.DType() {
			return false
		}
		if cc, ok := c.(*CategoricalColumn); ok {
			occ := oc.(*CategoricalColumn)
			if strings.Join(cc.categories, "\x1f") != strings.Join(occ.categories, "\x1f") {
				return false
			}
		}
		for i := 0; i < t.rows; i++ {
			if c.key(i) != oc.key(i) {
				return false
			}
		}
	}
	return true
}
