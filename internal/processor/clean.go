package processor

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/ArnavKarwa07/Automated-EDA/internal/dataset"
)

// CleanOptions controls the cleaning pass
type CleanOptions struct {
	DropDuplicates  bool    `json:"drop_duplicates"`
	MissingStrategy string  `json:"missing_strategy"` // drop, impute
	DropThreshold   float64 `json:"drop_threshold"`   // row missing fraction for drop
	NumericImpute   string  `json:"numeric_impute"`   // mean, median
	RemoveOutliers  bool    `json:"remove_outliers"`
	ConvertDTypes   bool    `json:"convert_dtypes"`
}

// DefaultCleanOptions mirrors what the AI mode falls back to
func DefaultCleanOptions() CleanOptions {
	return CleanOptions{
		DropDuplicates:  true,
		MissingStrategy: "impute",
		DropThreshold:   0.5,
		NumericImpute:   "mean",
		RemoveOutliers:  false,
		ConvertDTypes:   true,
	}
}

// CleanResult reports what cleaning did
type CleanResult struct {
	Frame      *dataset.Frame `json:"-"`
	Operations []string       `json:"operations"`
	RowsBefore int            `json:"rows_before"`
	RowsAfter  int            `json:"rows_after"`
	ColsBefore int            `json:"cols_before"`
	ColsAfter  int            `json:"cols_after"`
}

// Clean applies duplicate removal, missing handling, outlier removal and
// dtype conversion in that order, logging each operation performed
func Clean(f *dataset.Frame, opts CleanOptions) (*CleanResult, error) {
	if opts.MissingStrategy == "" {
		opts.MissingStrategy = "impute"
	}
	if opts.DropThreshold <= 0 {
		opts.DropThreshold = 0.5
	}
	if opts.NumericImpute == "" {
		opts.NumericImpute = "mean"
	}

	rowsBefore, colsBefore := f.Shape()
	out := f.Clone()
	result := &CleanResult{
		RowsBefore: rowsBefore,
		ColsBefore: colsBefore,
	}

	if opts.DropDuplicates {
		dups := out.DuplicateRows()
		if len(dups) > 0 {
			out = out.DropRows(dups)
			result.Operations = append(result.Operations,
				fmt.Sprintf("dropped %d duplicate rows", len(dups)))
		}
	}

	switch opts.MissingStrategy {
	case "drop":
		toDrop := missingRowIndexes(out, opts.DropThreshold)
		if len(toDrop) > 0 {
			out = out.DropRows(toDrop)
			result.Operations = append(result.Operations,
				fmt.Sprintf("dropped %d rows above %.0f%% missing", len(toDrop), opts.DropThreshold*100))
		}
	case "impute":
		imputed := imputeMissing(out, opts.NumericImpute)
		if imputed > 0 {
			result.Operations = append(result.Operations,
				fmt.Sprintf("imputed %d missing cells (%s/most_frequent)", imputed, opts.NumericImpute))
		}
	default:
		return nil, fmt.Errorf("unknown missing strategy %q", opts.MissingStrategy)
	}

	if opts.RemoveOutliers {
		removed := outlierRows(out)
		if len(removed) > 0 {
			out = out.DropRows(removed)
			result.Operations = append(result.Operations,
				fmt.Sprintf("removed %d outlier rows (1.5 IQR)", len(removed)))
		}
	}

	if opts.ConvertDTypes {
		converted := convertDTypes(out)
		if converted > 0 {
			result.Operations = append(result.Operations,
				fmt.Sprintf("converted %d columns to better dtypes", converted))
		}
	}

	result.Frame = out
	result.RowsAfter, result.ColsAfter = out.Shape()
	if len(result.Operations) == 0 {
		result.Operations = []string{"no changes needed"}
	}
	return result, nil
}

// missingRowIndexes returns rows whose missing fraction exceeds the threshold
func missingRowIndexes(f *dataset.Frame, threshold float64) []int {
	rows, cols := f.Shape()
	var out []int
	for r := 0; r < rows; r++ {
		missing := 0
		for i := 0; i < cols; i++ {
			if f.ColumnAt(i).Null[r] {
				missing++
			}
		}
		if float64(missing)/float64(cols) > threshold {
			out = append(out, r)
		}
	}
	return out
}

// imputeMissing fills numeric nulls with mean or median and categorical
// nulls with the most frequent value. Returns the number of cells filled.
func imputeMissing(f *dataset.Frame, numericStrategy string) int {
	filled := 0

	for _, name := range f.NumericColumns() {
		c := f.Column(name)
		values := c.Float64s()
		var present []float64
		for _, v := range values {
			if !math.IsNaN(v) {
				present = append(present, v)
			}
		}
		if len(present) == 0 {
			continue
		}

		var fill float64
		if numericStrategy == "median" {
			sort.Float64s(present)
			fill = present[len(present)/2]
			if len(present)%2 == 0 {
				fill = (present[len(present)/2-1] + present[len(present)/2]) / 2
			}
		} else {
			sum := 0.0
			for _, v := range present {
				sum += v
			}
			fill = sum / float64(len(present))
		}

		str := strconv.FormatFloat(fill, 'f', -1, 64)
		for i := range c.Raw {
			if c.Null[i] {
				c.Raw[i] = str
				c.Null[i] = false
				filled++
			}
		}
	}

	for _, name := range f.CategoricalColumns() {
		c := f.Column(name)
		counts := c.ValueCounts()
		if len(counts) == 0 {
			continue
		}
		mode := counts[0].Value
		for i := range c.Raw {
			if c.Null[i] {
				c.Raw[i] = mode
				c.Null[i] = false
				filled++
			}
		}
	}

	return filled
}

// outlierRows returns rows containing a value outside the 1.5 IQR fences
// of any numeric column
func outlierRows(f *dataset.Frame) []int {
	rows := f.Rows()
	flag := make([]bool, rows)

	for _, name := range f.NumericColumns() {
		values := f.Column(name).Float64s()
		var present []float64
		for _, v := range values {
			if !math.IsNaN(v) {
				present = append(present, v)
			}
		}
		if len(present) < 4 {
			continue
		}
		sort.Float64s(present)
		q1 := quantile(present, 0.25)
		q3 := quantile(present, 0.75)
		iqr := q3 - q1
		lower, upper := q1-1.5*iqr, q3+1.5*iqr

		for r, v := range values {
			if !math.IsNaN(v) && (v < lower || v > upper) {
				flag[r] = true
			}
		}
	}

	var out []int
	for r, bad := range flag {
		if bad {
			out = append(out, r)
		}
	}
	return out
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	rank := q * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// convertDTypes retypes categorical columns whose values all parse as
// datetimes or numbers. Returns the number of columns converted.
func convertDTypes(f *dataset.Frame) int {
	converted := 0
	for _, name := range f.CategoricalColumns() {
		c := f.Column(name)
		if c.DType != dataset.DTypeCategorical {
			continue
		}
		newType := dataset.InferDType(c.Raw, c.Null)
		if newType != dataset.DTypeCategorical {
			c.DType = newType
			converted++
		}
	}
	return converted
}
