package table

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

// DefaultNullValues are the cell tokens read as missing.
var DefaultNullValues = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None", "n/a", "nan", "null",
}

// LoadOptions controls how an input file is read.
type LoadOptions struct {
	// Delimiter for text input. If 0, '\t' for .tsv files and ',' otherwise.
	Delimiter rune
	// Sheet selects the XLSX worksheet; empty means the first sheet.
	Sheet string
	// NullValues overrides DefaultNullValues when non-nil.
	NullValues []string
}

// Source reads one input format into a Table.
type Source interface {
	CanLoad(path string) bool
	Load(path string, opt LoadOptions) (*Table, error)
}

var sources []Source

// Register adds a Source. Later registrations are consulted first.
func Register(s Source) {
	sources = append([]Source{s}, sources...)
}

func init() {
	Register(csvSource{})
	Register(xlsxSource{})
}

// Load reads path into a Table using the first Source that accepts it.
// Every failure is returned as a *LoadError.
func Load(path string, opt LoadOptions) (*Table, error) {
	for _, s := range sources {
		if s.CanLoad(path) {
			t, err := s.Load(path, opt)
			if err != nil {
				var le *LoadError
				if errors.As(err, &le) {
					return nil, err
				}
				return nil, &LoadError{Path: path, Err: err}
			}
			return t, nil
		}
	}
	return nil, &LoadError{Path: path, Err: errors.New("no source for file type")}
}

type csvSource struct{}

func (csvSource) CanLoad(path string) bool {
	return !strings.EqualFold(filepath.Ext(path), ".xlsx")
}

func (csvSource) Load(path string, opt LoadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	df := dataframe.ReadCSV(f,
		dataframe.WithDelimiter(delim),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(nullValues(opt)),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("parse: %w", df.Err)
	}
	return fromDataFrame(df)
}

type xlsxSource struct{}

func (xlsxSource) CanLoad(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}

func (xlsxSource) Load(path string, opt LoadOptions) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()
	sheet := opt.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrNoHeader
	}
	// GetRows trims trailing empty cells; pad to the header width.
	width := len(rows[0])
	for i, r := range rows {
		if len(r) < width {
			padded := make([]string, width)
			copy(padded, r)
			rows[i] = padded
		} else if len(r) > width {
			rows[i] = r[:width]
		}
	}
	df := dataframe.LoadRecords(rows,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(nullValues(opt)),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("parse: %w", df.Err)
	}
	return fromDataFrame(df)
}

func nullValues(opt LoadOptions) []string {
	if opt.NullValues != nil {
		return opt.NullValues
	}
	return DefaultNullValues
}

func sniffDelimiter(path string) rune {
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		return '\t'
	}
	return ','
}

// fromDataFrame maps gota series onto table columns: Int, Float and Bool
// become numeric, String becomes text.
func fromDataFrame(df dataframe.DataFrame) (*Table, error) {
	names := df.Names()
	if len(names) == 0 {
		return nil, ErrNoHeader
	}
	cols := make([]Column, 0, len(names))
	for _, name := range names {
		s := df.Col(name)
		if s.Err != nil {
			return nil, fmt.Errorf("column %q: %w", name, s.Err)
		}
		n := s.Len()
		switch s.Type() {
		case series.Int, series.Float, series.Bool:
			vals := make([]float64, n)
			valid := make([]bool, n)
			nulls := 0
			for i := 0; i < n; i++ {
				e := s.Elem(i)
				if e.IsNA() {
					nulls++
					continue
				}
				vals[i] = e.Float()
				valid[i] = true
			}
			if s.Type() == series.Float || nulls > 0 {
				cols = append(cols, NewFloat(name, vals, valid))
			} else {
				cols = append(cols, NewNumeric(name, vals, valid))
			}
		default:
			vals := make([]string, n)
			valid := make([]bool, n)
			for i := 0; i < n; i++ {
				e := s.Elem(i)
				if e.IsNA() {
					continue
				}
				vals[i] = e.String()
				valid[i] = true
			}
			cols = append(cols, NewText(name, vals, valid))
		}
	}
	return New(cols...)
}
