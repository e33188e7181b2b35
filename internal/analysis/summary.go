package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/strokeprep/internal/table"
	"gonum.org/v1/gonum/stat"
)

// Summary is a console-friendly description of a table.
type Summary struct {
	Name    string
	Rows    int
	Cols    []ColumnSummary
	Missing []MissingStat
	Header  []string
	Head    [][]string
}

// ColumnSummary captures the dtype and basic statistics of a column.
type ColumnSummary struct {
	Name    string
	DType   string
	Kind    string
	NonNull int
	Missing int
	// Numeric stats
	Min  float64
	Max  float64
	Mean float64
	Std  float64
	// Categorical/text
	Unique    int
	TopValues []CategoryCount
}

type CategoryCount struct {
	Value string
	Count int
}

// MissingStat is one row of the missing-value report.
type MissingStat struct {
	Column  string  `json:"column"`
	Count   int     `json:"missing_count"`
	Percent float64 `json:"missing_percent"`
}

// Summarize describes t. headRows limits the sample rows kept; 0 keeps none.
func Summarize(name string, t *table.Table, headRows int) *Summary {
	s := &Summary{Name: name, Rows: t.Len(), Header: t.Names()}
	for _, c := range t.Columns() {
		s.Cols = append(s.Cols, summarizeColumn(c))
	}
	s.Missing = MissingReport(t)
	head := t.Head(headRows)
	for i := 0; i < head.Len(); i++ {
		s.Head = append(s.Head, head.Row(i))
	}
	return s
}

func summarizeColumn(c table.Column) ColumnSummary {
	cs := ColumnSummary{Name: c.Name(), DType: c.DType(), Kind: c.Kind().String()}
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			cs.Missing++
		}
	}
	cs.NonNull = c.Len() - cs.Missing
	switch col := c.(type) {
	case *table.NumericColumn:
		obs := col.Observed()
		if len(obs) == 0 {
			break
		}
		cs.Min, cs.Max = obs[0], obs[0]
		for _, v := range obs {
			cs.Min = math.Min(cs.Min, v)
			cs.Max = math.Max(cs.Max, v)
		}
		if len(obs) > 1 {
			cs.Mean, cs.Std = stat.MeanStdDev(obs, nil)
		} else {
			cs.Mean = obs[0]
		}
	default:
		counts := map[string]int{}
		for i := 0; i < c.Len(); i++ {
			if !c.IsNull(i) {
				counts[c.Format(i)]++
			}
		}
		tops := make([]CategoryCount, 0, len(counts))
		for k, v := range counts {
			tops = append(tops, CategoryCount{Value: k, Count: v})
		}
		sort.Slice(tops, func(i, j int) bool {
			if tops[i].Count == tops[j].Count {
				return tops[i].Value < tops[j].Value
			}
			return tops[i].Count > tops[j].Count
		})
		cs.Unique = len(tops)
		if len(tops) > 8 {
			tops = tops[:8]
		}
		cs.TopValues = tops
	}
	return cs
}

// MissingReport lists every column with its missing count and percent,
// sorted by count descending. Ties keep column order.
func MissingReport(t *table.Table) []MissingStat {
	out := make([]MissingStat, 0, t.Width())
	for _, c := range t.Columns() {
		n := 0
		for i := 0; i < c.Len(); i++ {
			if c.IsNull(i) {
				n++
			}
		}
		pct := 0.0
		if t.Len() > 0 {
			pct = float64(n) * 100 / float64(t.Len())
		}
		out = append(out, MissingStat{Column: c.Name(), Count: n, Percent: pct})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// Text renders the summary as bracketed sections. title, when set, heads the
// sample rows section.
func (s *Summary) Text(title string) string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if s.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", s.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", s.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n", len(s.Cols)))

	b.WriteString("\n[DTYPES]\n")
	for _, c := range s.Cols {
		b.WriteString(fmt.Sprintf("- %s: %s", safeName(c.Name), c.DType))
		switch c.Kind {
		case "numeric":
			if c.NonNull > 0 {
				b.WriteString(fmt.Sprintf(" — min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std))
			}
		default:
			if len(c.TopValues) > 0 {
				b.WriteString(" — top: ")
				for i, kv := range c.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
				}
				if c.Unique > len(c.TopValues) {
					b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
				}
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("\n[MISSING VALUES]\n")
	b.WriteString("| Column | Missing Count | Missing Percent |\n")
	b.WriteString("| --- | --- | --- |\n")
	for _, m := range s.Missing {
		b.WriteString(fmt.Sprintf("| %s | %d | %.2f%% |\n", safeName(m.Column), m.Count, m.Percent))
	}

	if len(s.Head) > 0 {
		b.WriteString("\n[")
		if title != "" {
			b.WriteString(strings.ToUpper(title))
		} else {
			b.WriteString(fmt.Sprintf("FIRST %d ROWS", len(s.Head)))
		}
		b.WriteString("]\n")
		writeRows(&b, s.Header, s.Head)
	}
	return b.String()
}

func writeRows(b *strings.Builder, header []string, rows [][]string) {
	b.WriteString("| ")
	for i, h := range header {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(safeName(h))
	}
	b.WriteString(" |\n| ")
	for i := range header {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString("---")
	}
	b.WriteString(" |\n")
	for _, row := range rows {
		b.WriteString("| ")
		for i := range header {
			if i > 0 {
				b.WriteString(" | ")
			}
			val := ""
			if i < len(row) {
				val = row[i]
			}
			if val == "" {
				val = "NaN"
			}
			if len(val) > 80 {
				val = val[:77] + "..."
			}
			b.WriteString(safeVal(val))
		}
		b.WriteString(" |\n")
	}
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}
func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
