package dataset

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// DType is the inferred type of a column
type DType string

const (
	DTypeNumeric     DType = "numeric"
	DTypeBoolean     DType = "boolean"
	DTypeDatetime    DType = "datetime"
	DTypeCategorical DType = "categorical"
)

// Column is a typed series of values. Raw always holds the original strings;
// Floats is populated for numeric columns with NaN marking missing cells.
type Column struct {
	Name  string
	DType DType
	Raw   []string
	Null  []bool
}

// Frame is an in-memory table parsed from a CSV file
type Frame struct {
	cols  []*Column
	index map[string]int
	rows  int
}

// NewFrame builds a frame from ordered columns. Column lengths must match.
func NewFrame(cols []*Column) (*Frame, error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("frame requires at least one column")
	}
	rows := len(cols[0].Raw)
	index := make(map[string]int, len(cols))
	for i, col := range cols {
		if len(col.Raw) != rows {
			return nil, fmt.Errorf("column %q has %d rows, want %d", col.Name, len(col.Raw), rows)
		}
		if len(col.Null) != rows {
			return nil, fmt.Errorf("column %q null mask has %d rows, want %d", col.Name, len(col.Null), rows)
		}
		if _, dup := index[col.Name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", col.Name)
		}
		index[col.Name] = i
	}
	return &Frame{cols: cols, index: index, rows: rows}, nil
}

// Rows returns the number of rows
func (f *Frame) Rows() int { return f.rows }

// Shape returns (rows, columns)
func (f *Frame) Shape() (int, int) { return f.rows, len(f.cols) }

// Columns returns column names in order
func (f *Frame) Columns() []string {
	names := make([]string, len(f.cols))
	for i, c := range f.cols {
		names[i] = c.Name
	}
	return names
}

// DTypes returns the column name to dtype mapping
func (f *Frame) DTypes() map[string]DType {
	out := make(map[string]DType, len(f.cols))
	for _, c := range f.cols {
		out[c.Name] = c.DType
	}
	return out
}

// Column returns the named column or nil
func (f *Frame) Column(name string) *Column {
	i, ok := f.index[name]
	if !ok {
		return nil
	}
	return f.cols[i]
}

// ColumnAt returns the column at position i
func (f *Frame) ColumnAt(i int) *Column { return f.cols[i] }

// NumericColumns returns names of numeric columns in order
func (f *Frame) NumericColumns() []string {
	return f.columnsOfType(DTypeNumeric)
}

// CategoricalColumns returns names of categorical and boolean columns in order
func (f *Frame) CategoricalColumns() []string {
	var names []string
	for _, c := range f.cols {
		if c.DType == DTypeCategorical || c.DType == DTypeBoolean {
			names = append(names, c.Name)
		}
	}
	return names
}

// DatetimeColumns returns names of datetime columns in order
func (f *Frame) DatetimeColumns() []string {
	return f.columnsOfType(DTypeDatetime)
}

func (f *Frame) columnsOfType(t DType) []string {
	var names []string
	for _, c := range f.cols {
		if c.DType == t {
			names = append(names, c.Name)
		}
	}
	return names
}

// Float64s returns the numeric values of a column with NaN for missing or
// unparseable cells. Non-numeric columns yield all NaN.
func (c *Column) Float64s() []float64 {
	out := make([]float64, len(c.Raw))
	for i, v := range c.Raw {
		if c.Null[i] {
			out[i] = math.NaN()
			continue
		}
		fv, ok := parseNumeric(v)
		if !ok {
			out[i] = math.NaN()
			continue
		}
		out[i] = fv
	}
	return out
}

// Strings returns non-null values of a column in row order
func (c *Column) Strings() []string {
	out := make([]string, 0, len(c.Raw))
	for i, v := range c.Raw {
		if !c.Null[i] {
			out = append(out, v)
		}
	}
	return out
}

// MissingCount returns the number of null cells
func (c *Column) MissingCount() int {
	n := 0
	for _, isNull := range c.Null {
		if isNull {
			n++
		}
	}
	return n
}

// UniqueCount returns the number of distinct non-null values
func (c *Column) UniqueCount() int {
	seen := make(map[string]struct{})
	for i, v := range c.Raw {
		if !c.Null[i] {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}

// ValueCounts returns distinct non-null values with counts, most frequent first.
// Ties break alphabetically so output is deterministic.
func (c *Column) ValueCounts() []ValueCount {
	counts := make(map[string]int)
	for i, v := range c.Raw {
		if !c.Null[i] {
			counts[v]++
		}
	}
	out := make([]ValueCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, ValueCount{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}

// ValueCount pairs a distinct value with its frequency
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Preview returns up to n rows as JSON-ready records
func (f *Frame) Preview(n int) []map[string]interface{} {
	if n > f.rows {
		n = f.rows
	}
	return f.records(0, n)
}

// Records returns every row as a JSON-ready record
func (f *Frame) Records() []map[string]interface{} {
	return f.records(0, f.rows)
}

func (f *Frame) records(start, end int) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, end-start)
	for r := start; r < end; r++ {
		rec := make(map[string]interface{}, len(f.cols))
		for _, c := range f.cols {
			if c.Null[r] {
				rec[c.Name] = nil
				continue
			}
			if c.DType == DTypeNumeric {
				if fv, ok := parseNumeric(c.Raw[r]); ok {
					rec[c.Name] = fv
					continue
				}
			}
			rec[c.Name] = c.Raw[r]
		}
		out = append(out, rec)
	}
	return out
}

// DuplicateRows returns indexes of rows that repeat an earlier row exactly
func (f *Frame) DuplicateRows() []int {
	seen := make(map[string]struct{}, f.rows)
	var dups []int
	var b strings.Builder
	for r := 0; r < f.rows; r++ {
		b.Reset()
		for _, c := range f.cols {
			if c.Null[r] {
				b.WriteString("\x00")
			} else {
				b.WriteString(c.Raw[r])
			}
			b.WriteString("\x1f")
		}
		key := b.String()
		if _, ok := seen[key]; ok {
			dups = append(dups, r)
		} else {
			seen[key] = struct{}{}
		}
	}
	return dups
}

// DropRows returns a new frame without the given row indexes
func (f *Frame) DropRows(rows []int) *Frame {
	drop := make(map[int]struct{}, len(rows))
	for _, r := range rows {
		drop[r] = struct{}{}
	}

	newCols := make([]*Column, len(f.cols))
	for i, c := range f.cols {
		nc := &Column{Name: c.Name, DType: c.DType}
		for r := 0; r < f.rows; r++ {
			if _, skip := drop[r]; skip {
				continue
			}
			nc.Raw = append(nc.Raw, c.Raw[r])
			nc.Null = append(nc.Null, c.Null[r])
		}
		newCols[i] = nc
	}

	out, _ := NewFrame(newCols)
	return out
}

// AddColumn appends a column; lengths must match the frame
func (f *Frame) AddColumn(c *Column) error {
	if len(c.Raw) != f.rows || len(c.Null) != f.rows {
		return fmt.Errorf("column %q length mismatch", c.Name)
	}
	if _, dup := f.index[c.Name]; dup {
		return fmt.Errorf("column %q already exists", c.Name)
	}
	f.index[c.Name] = len(f.cols)
	f.cols = append(f.cols, c)
	return nil
}

// ReplaceColumn swaps the named column for a new one of the same length
func (f *Frame) ReplaceColumn(name string, c *Column) error {
	i, ok := f.index[name]
	if !ok {
		return fmt.Errorf("no column %q", name)
	}
	if len(c.Raw) != f.rows || len(c.Null) != f.rows {
		return fmt.Errorf("column %q length mismatch", c.Name)
	}
	if c.Name != name {
		if _, dup := f.index[c.Name]; dup {
			return fmt.Errorf("column %q already exists", c.Name)
		}
		delete(f.index, name)
		f.index[c.Name] = i
	}
	f.cols[i] = c
	return nil
}

// Clone deep-copies the frame
func (f *Frame) Clone() *Frame {
	cols := make([]*Column, len(f.cols))
	for i, c := range f.cols {
		nc := &Column{
			Name:  c.Name,
			DType: c.DType,
			Raw:   append([]string(nil), c.Raw...),
			Null:  append([]bool(nil), c.Null...),
		}
		cols[i] = nc
	}
	out, _ := NewFrame(cols)
	return out
}

// MemoryBytes estimates the in-memory footprint of the raw data
func (f *Frame) MemoryBytes() int64 {
	var total int64
	for _, c := range f.cols {
		for _, v := range c.Raw {
			total += int64(len(v)) + 16
		}
		total += int64(len(c.Null))
	}
	return total
}
