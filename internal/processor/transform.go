package processor

import (
	"fmt"
	"math"
	"strconv"

	"github.com/ArnavKarwa07/Automated-EDA/internal/dataset"
)

// TransformOptions controls feature scaling and encoding
type TransformOptions struct {
	Scaling            string `json:"scaling"`  // standard, minmax, none
	Encoding           string `json:"encoding"` // label, onehot, none
	InteractionFeature bool   `json:"interaction_feature"`
}

// DefaultTransformOptions is the AI-mode fallback
func DefaultTransformOptions() TransformOptions {
	return TransformOptions{
		Scaling:            "standard",
		Encoding:           "label",
		InteractionFeature: false,
	}
}

// TransformResult reports the transformation outcome
type TransformResult struct {
	Frame      *dataset.Frame `json:"-"`
	Operations []string       `json:"operations"`
	NewColumns []string       `json:"new_columns"`
}

// Transform scales numeric columns, encodes categoricals and optionally adds
// an interaction feature built from the first two numeric columns
func Transform(f *dataset.Frame, opts TransformOptions) (*TransformResult, error) {
	out := f.Clone()
	result := &TransformResult{}

	switch opts.Scaling {
	case "standard":
		n := scaleColumns(out, true)
		if n > 0 {
			result.Operations = append(result.Operations,
				fmt.Sprintf("standard-scaled %d numeric columns", n))
		}
	case "minmax":
		n := scaleColumns(out, false)
		if n > 0 {
			result.Operations = append(result.Operations,
				fmt.Sprintf("min-max scaled %d numeric columns", n))
		}
	case "", "none":
	default:
		return nil, fmt.Errorf("unknown scaling %q", opts.Scaling)
	}

	switch opts.Encoding {
	case "label":
		cols := labelEncode(out)
		if len(cols) > 0 {
			result.NewColumns = append(result.NewColumns, cols...)
			result.Operations = append(result.Operations,
				fmt.Sprintf("label-encoded %d categorical columns", len(cols)))
		}
	case "onehot":
		cols := oneHotEncode(out)
		if len(cols) > 0 {
			result.NewColumns = append(result.NewColumns, cols...)
			result.Operations = append(result.Operations,
				fmt.Sprintf("one-hot encoded into %d indicator columns", len(cols)))
		}
	case "", "none":
	default:
		return nil, fmt.Errorf("unknown encoding %q", opts.Encoding)
	}

	if opts.InteractionFeature {
		if name, ok := addInteraction(out); ok {
			result.NewColumns = append(result.NewColumns, name)
			result.Operations = append(result.Operations,
				fmt.Sprintf("added interaction feature %q", name))
		}
	}

	result.Frame = out
	if len(result.Operations) == 0 {
		result.Operations = []string{"no transformations applied"}
	}
	return result, nil
}

// scaleColumns rewrites numeric columns in place. standard z-scores the
// values; otherwise min-max scales them to [0,1].
func scaleColumns(f *dataset.Frame, standard bool) int {
	scaled := 0
	for _, name := range f.NumericColumns() {
		c := f.Column(name)
		values := c.Float64s()

		var present []float64
		for _, v := range values {
			if !math.IsNaN(v) {
				present = append(present, v)
			}
		}
		if len(present) < 2 {
			continue
		}

		var shift, span float64
		if standard {
			sum := 0.0
			for _, v := range present {
				sum += v
			}
			m := sum / float64(len(present))
			ss := 0.0
			for _, v := range present {
				ss += (v - m) * (v - m)
			}
			sd := math.Sqrt(ss / float64(len(present)-1))
			if sd == 0 {
				continue
			}
			shift, span = m, sd
		} else {
			lo, hi := present[0], present[0]
			for _, v := range present {
				if v < lo {
					lo = v
				}
				if v > hi {
					hi = v
				}
			}
			if hi == lo {
				continue
			}
			shift, span = lo, hi-lo
		}

		for i, v := range values {
			if c.Null[i] || math.IsNaN(v) {
				continue
			}
			c.Raw[i] = strconv.FormatFloat((v-shift)/span, 'f', 6, 64)
		}
		scaled++
	}
	return scaled
}

// labelEncode adds <col>_encoded numeric columns mapping each distinct
// value to its frequency rank
func labelEncode(f *dataset.Frame) []string {
	var added []string
	for _, name := range f.CategoricalColumns() {
		c := f.Column(name)
		counts := c.ValueCounts()
		if len(counts) == 0 {
			continue
		}
		codes := make(map[string]int, len(counts))
		for i, vc := range counts {
			codes[vc.Value] = i
		}

		nc := &dataset.Column{
			Name:  name + "_encoded",
			DType: dataset.DTypeNumeric,
			Raw:   make([]string, len(c.Raw)),
			Null:  make([]bool, len(c.Raw)),
		}
		for i, v := range c.Raw {
			if c.Null[i] {
				nc.Null[i] = true
				continue
			}
			nc.Raw[i] = strconv.Itoa(codes[v])
		}
		if err := f.AddColumn(nc); err == nil {
			added = append(added, nc.Name)
		}
	}
	return added
}

// oneHotCap skips columns with too many categories to expand
const oneHotCap = 10

// oneHotEncode adds <col>_<value> indicator columns for categoricals with
// at most oneHotCap distinct values
func oneHotEncode(f *dataset.Frame) []string {
	var added []string
	for _, name := range f.CategoricalColumns() {
		c := f.Column(name)
		counts := c.ValueCounts()
		if len(counts) == 0 || len(counts) > oneHotCap {
			continue
		}

		for _, vc := range counts {
			nc := &dataset.Column{
				Name:  name + "_" + vc.Value,
				DType: dataset.DTypeNumeric,
				Raw:   make([]string, len(c.Raw)),
				Null:  make([]bool, len(c.Raw)),
			}
			for i, v := range c.Raw {
				if c.Null[i] {
					nc.Null[i] = true
					continue
				}
				if v == vc.Value {
					nc.Raw[i] = "1"
				} else {
					nc.Raw[i] = "0"
				}
			}
			if err := f.AddColumn(nc); err == nil {
				added = append(added, nc.Name)
			}
		}
	}
	return added
}

// addInteraction multiplies the first two numeric columns into a new feature
func addInteraction(f *dataset.Frame) (string, bool) {
	numCols := f.NumericColumns()
	if len(numCols) < 2 {
		return "", false
	}

	a := f.Column(numCols[0])
	b := f.Column(numCols[1])
	av, bv := a.Float64s(), b.Float64s()

	nc := &dataset.Column{
		Name:  numCols[0] + "_x_" + numCols[1],
		DType: dataset.DTypeNumeric,
		Raw:   make([]string, len(av)),
		Null:  make([]bool, len(av)),
	}
	for i := range av {
		if math.IsNaN(av[i]) || math.IsNaN(bv[i]) {
			nc.Null[i] = true
			continue
		}
		nc.Raw[i] = strconv.FormatFloat(av[i]*bv[i], 'f', -1, 64)
	}

	if err := f.AddColumn(nc); err != nil {
		return "", false
	}
	return nc.Name, true
}
