package table

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind is the semantic type of a column.
type Kind int

const (
	KindNumeric Kind = iota
	KindText
	KindCategorical
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindText:
		return "text"
	case KindCategorical:
		return "categorical"
	default:
		return "unknown"
	}
}

// Column is a named, nullable sequence of cells of one Kind.
type Column interface {
	Name() string
	Kind() Kind
	// DType reports a pandas-style storage label: int64, float64, object or category.
	DType() string
	Len() int
	IsNull(i int) bool
	// Format renders a cell for delimited output; nulls render as "".
	Format(i int) string

	key(i int) string
	take(rows []int) Column
	rename(name string) Column
}

const nullKey = "\x00null"

// NumericColumn stores float64 cells with a validity mask.
type NumericColumn struct {
	name    string
	values  []float64
	valid   []bool
	integer bool
}

// NewNumeric builds a numeric column. A nil valid slice marks every
// non-NaN value as present.
func NewNumeric(name string, values []float64, valid []bool) *NumericColumn {
	vs := make([]float64, len(values))
	copy(vs, values)
	ok := make([]bool, len(values))
	for i, v := range vs {
		if valid != nil && i < len(valid) {
			ok[i] = valid[i] && !math.IsNaN(v)
		} else {
			ok[i] = !math.IsNaN(v)
		}
	}
	c := &NumericColumn{name: name, values: vs, valid: ok}
	c.integer = c.allIntegral()
	return c
}

// NewFloat builds a numeric column that is always reported as float64.
func NewFloat(name string, values []float64, valid []bool) *NumericColumn {
	c := NewNumeric(name, values, valid)
	c.integer = false
	return c
}

func (c *NumericColumn) allIntegral() bool {
	for i, v := range c.values {
		if c.valid[i] && v != math.Trunc(v) {
			return false
		}
	}
	return true
}

func (c *NumericColumn) Name() string { return c.name }
func (c *NumericColumn) Kind() Kind   { return KindNumeric }
func (c *NumericColumn) Len() int     { return len(c.values) }

func (c *NumericColumn) DType() string {
	if c.integer {
		return "int64"
	}
	return "float64"
}

// Integer reports whether the column holds whole numbers only.
func (c *NumericColumn) Integer() bool { return c.integer }

func (c *NumericColumn) IsNull(i int) bool { return !c.valid[i] }

// Value returns the cell value and whether it is present.
func (c *NumericColumn) Value(i int) (float64, bool) {
	if !c.valid[i] {
		return math.NaN(), false
	}
	return c.values[i], true
}

// Set stores v at row i. A fractional value demotes an integral column to float64.
func (c *NumericColumn) Set(i int, v float64) {
	if math.IsNaN(v) {
		c.SetNull(i)
		return
	}
	c.values[i] = v
	c.valid[i] = true
	if c.integer && v != math.Trunc(v) {
		c.integer = false
	}
}

func (c *NumericColumn) SetNull(i int) {
	c.values[i] = math.NaN()
	c.valid[i] = false
	// A missing cell cannot live in an int64 column.
	c.integer = false
}

// Observed returns the non-null values in row order.
func (c *NumericColumn) Observed() []float64 {
	out := make([]float64, 0, len(c.values))
	for i, v := range c.values {
		if c.valid[i] {
			out = append(out, v)
		}
	}
	return out
}

// NullCount returns the number of missing cells.
func (c *NumericColumn) NullCount() int {
	n := 0
	for _, ok := range c.valid {
		if !ok {
			n++
		}
	}
	return n
}

func (c *NumericColumn) Format(i int) string {
	if !c.valid[i] {
		return ""
	}
	return formatFloat(c.values[i], c.integer)
}

func formatFloat(v float64, integer bool) string {
	if integer {
		return strconv.FormatInt(int64(v), 10)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEIN") {
		s += ".0"
	}
	return s
}

func (c *NumericColumn) key(i int) string {
	if !c.valid[i] {
		return nullKey
	}
	return strconv.FormatFloat(c.values[i], 'g', -1, 64)
}

func (c *NumericColumn) take(rows []int) Column {
	out := &NumericColumn{name: c.name, values: make([]float64, len(rows)), valid: make([]bool, len(rows)), integer: c.integer}
	for j, r := range rows {
		out.values[j] = c.values[r]
		out.valid[j] = c.valid[r]
	}
	return out
}

func (c *NumericColumn) rename(name string) Column {
	out := c.take(seq(c.Len())).(*NumericColumn)
	out.name = name
	return out
}

// Copy returns an independent copy under a new name.
func (c *NumericColumn) Copy(name string) *NumericColumn {
	return c.rename(name).(*NumericColumn)
}

// TextColumn stores nullable free-text cells.
type TextColumn struct {
	name   string
	values []string
	valid  []bool
}

// NewText builds a text column. A nil valid slice marks every cell present.
func NewText(name string, values []string, valid []bool) *TextColumn {
	vs := make([]string, len(values))
	copy(vs, values)
	ok := make([]bool, len(values))
	for i := range ok {
		ok[i] = valid == nil || (i < len(valid) && valid[i])
	}
	return &TextColumn{name: name, values: vs, valid: ok}
}

func (c *TextColumn) Name() string      { return c.name }
func (c *TextColumn) Kind() Kind        { return KindText }
func (c *TextColumn) DType() string     { return "object" }
func (c *TextColumn) Len() int          { return len(c.values) }
func (c *TextColumn) IsNull(i int) bool { return !c.valid[i] }

func (c *TextColumn) Value(i int) (string, bool) {
	if !c.valid[i] {
		return "", false
	}
	return c.values[i], true
}

func (c *TextColumn) Set(i int, v string) {
	c.values[i] = v
	c.valid[i] = true
}

func (c *TextColumn) SetNull(i int) {
	c.values[i] = ""
	c.valid[i] = false
}

func (c *TextColumn) Format(i int) string {
	if !c.valid[i] {
		return ""
	}
	return c.values[i]
}

func (c *TextColumn) key(i int) string {
	if !c.valid[i] {
		return nullKey
	}
	return c.values[i]
}

func (c *TextColumn) take(rows []int) Column {
	out := &TextColumn{name: c.name, values: make([]string, len(rows)), valid: make([]bool, len(rows))}
	for j, r := range rows {
		out.values[j] = c.values[r]
		out.valid[j] = c.valid[r]
	}
	return out
}

func (c *TextColumn) rename(name string) Column {
	out := c.take(seq(c.Len())).(*TextColumn)
	out.name = name
	return out
}

// ToNumeric coerces a text column to numeric. Cells that do not parse become null.
func ToNumeric(c *TextColumn) *NumericColumn {
	vals := make([]float64, c.Len())
	valid := make([]bool, c.Len())
	for i := range vals {
		s, ok := c.Value(i)
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(f) {
			continue
		}
		vals[i] = f
		valid[i] = true
	}
	out := NewNumeric(c.name, vals, valid)
	if out.NullCount() > 0 {
		out.integer = false
	}
	return out
}

// CategoricalColumn stores codes into a closed label domain. Code -1 is null.
type CategoricalColumn struct {
	name       string
	categories []string
	lookup     map[string]int
	codes      []int
	ordered    bool
}

// NewCategorical builds a categorical column over the given domain. Each
// value must be a member of categories; a nil valid slice marks every cell present.
func NewCategorical(name string, categories []string, values []string, valid []bool, ordered bool) (*CategoricalColumn, error) {
	c := &CategoricalColumn{name: name, lookup: make(map[string]int), codes: make([]int, len(values)), ordered: ordered}
	if err := c.AddCategories(categories...); err != nil {
		return nil, err
	}
	for i, v := range values {
		if valid != nil && (i >= len(valid) || !valid[i]) {
			c.codes[i] = -1
			continue
		}
		if err := c.Set(i, v); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Categorize converts a text column into a categorical over its distinct
// non-null values, sorted lexically.
func Categorize(c *TextColumn) *CategoricalColumn {
	seen := map[string]struct{}{}
	for i := range c.values {
		if c.valid[i] {
			seen[c.values[i]] = struct{}{}
		}
	}
	cats := make([]string, 0, len(seen))
	for v := range seen {
		cats = append(cats, v)
	}
	sort.Strings(cats)
	out := &CategoricalColumn{name: c.name, lookup: make(map[string]int, len(cats)), codes: make([]int, c.Len())}
	for i, v := range cats {
		out.categories = append(out.categories, v)
		out.lookup[v] = i
	}
	for i := range c.values {
		if !c.valid[i] {
			out.codes[i] = -1
			continue
		}
		out.codes[i] = out.lookup[c.values[i]]
	}
	return out
}

func (c *CategoricalColumn) Name() string      { return c.name }
func (c *CategoricalColumn) Kind() Kind        { return KindCategorical }
func (c *CategoricalColumn) DType() string     { return "category" }
func (c *CategoricalColumn) Len() int          { return len(c.codes) }
func (c *CategoricalColumn) IsNull(i int) bool { return c.codes[i] < 0 }
func (c *CategoricalColumn) Ordered() bool     { return c.ordered }

// Categories returns the label domain in order.
func (c *CategoricalColumn) Categories() []string {
	out := make([]string, len(c.categories))
	copy(out, c.categories)
	return out
}

func (c *CategoricalColumn) HasCategory(label string) bool {
	_, ok := c.lookup[label]
	return ok
}

// AddCategories appends labels to the domain. A label already present is rejected.
func (c *CategoricalColumn) AddCategories(labels ...string) error {
	for _, l := range labels {
		if _, ok := c.lookup[l]; ok {
			return &CategoryError{Column: c.name, Label: l, Err: ErrDuplicateCategory}
		}
		c.lookup[l] = len(c.categories)
		c.categories = append(c.categories, l)
	}
	return nil
}

// Label returns the label at row i and whether it is present.
func (c *CategoricalColumn) Label(i int) (string, bool) {
	code := c.codes[i]
	if code < 0 {
		return "", false
	}
	return c.categories[code], true
}

// Code returns the domain index at row i, or -1 for null.
func (c *CategoricalColumn) Code(i int) int { return c.codes[i] }

// Set stores label at row i. The label must already be in the domain.
func (c *CategoricalColumn) Set(i int, label string) error {
	code, ok := c.lookup[label]
	if !ok {
		return &CategoryError{Column: c.name, Label: label, Err: ErrUnknownCategory}
	}
	c.codes[i] = code
	return nil
}

func (c *CategoricalColumn) SetNull(i int) { c.codes[i] = -1 }

// FillNull assigns label to every null row and returns how many were filled.
func (c *CategoricalColumn) FillNull(label string) (int, error) {
	code, ok := c.lookup[label]
	if !ok {
		return 0, &CategoryError{Column: c.name, Label: label, Err: ErrUnknownCategory}
	}
	n := 0
	for i, v := range c.codes {
		if v < 0 {
			c.codes[i] = code
			n++
		}
	}
	return n, nil
}

func (c *CategoricalColumn) NullCount() int {
	n := 0
	for _, v := range c.codes {
		if v < 0 {
			n++
		}
	}
	return n
}

func (c *CategoricalColumn) Format(i int) string {
	l, _ := c.Label(i)
	return l
}

func (c *CategoricalColumn) key(i int) string {
	l, ok := c.Label(i)
	if !ok {
		return nullKey
	}
	return l
}

func (c *CategoricalColumn) take(rows []int) Column {
	out := &CategoricalColumn{
		name:       c.name,
		categories: c.Categories(),
		lookup:     make(map[string]int, len(c.lookup)),
		codes:      make([]int, len(rows)),
		ordered:    c.ordered,
	}
	for k, v := range c.lookup {
		out.lookup[k] = v
	}
	for j, r := range rows {
		out.codes[j] = c.codes[r]
	}
	return out
}

func (c *CategoricalColumn) rename(name string) Column {
	out := c.take(seq(c.Len())).(*CategoricalColumn)
	out.name = name
	return out
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
