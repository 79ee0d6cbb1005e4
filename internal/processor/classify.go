package processor

import (
	"fmt"

	"github.com/ArnavKarwa07/Automated-EDA/internal/dataset"
	"github.com/ArnavKarwa07/Automated-EDA/internal/profile"
)

// ColumnClass is the classification of one column
type ColumnClass struct {
	Name                 string `json:"name"`
	Category             string `json:"category"` // numerical, categorical, datetime, other
	UniqueCount          int    `json:"unique_count"`
	MissingCount         int    `json:"missing_count"`
	PotentialCategorical bool   `json:"potential_categorical,omitempty"`
	PotentialDatetime    bool   `json:"potential_datetime,omitempty"`
	PotentialNumeric     bool   `json:"potential_numeric,omitempty"`
}

// ClassifyResult is the full column classification report
type ClassifyResult struct {
	Columns         []ColumnClass   `json:"columns"`
	Recommendations []string        `json:"recommendations"`
	Quality         profile.Quality `json:"quality"`
}

/// potentialCategoricalMax: a numeric column with this few distinct values
// probably encodes categories
const potentialCategoricalMax = 10

// Classify categorizes each column and recommends follow-up operations
func Classify(f *dataset.Frame) *ClassifyResult {
	result := &ClassifyResult{}

	for _, name := range f.Columns() {
		c := f.Column(name)
		cc := ColumnClass{
			Name:         name,
			UniqueCount:  c.UniqueCount(),
			MissingCount: c.MissingCount(),
		}

		switch c.DType {
		case dataset.DTypeNumeric:
			cc.Category = "numerical"
			if cc.UniqueCount <= potentialCategoricalMax {
				cc.PotentialCategorical = true
			}
		case dataset.DTypeDatetime:
			cc.Category = "datetime"
		case dataset.DTypeCategorical, dataset.DTypeBoolean:
			cc.Category = "categorical"
			cc.PotentialDatetime = looksLike(c, func(v string) bool {
				_, ok := dataset.ParseDatetime(v)
				return ok
			})
			cc.PotentialNumeric = looksLikeNumeric(c)
		default:
			cc.Category = "other"
		}

		result.Columns = append(result.Columns, cc)
	}

	result.Recommendations = recommendations(f, result.Columns)
	result.Quality = profile.Describe(f).Quality
	return result
}

// looksLike reports whether at least 80% of non-null values satisfy pred
func looksLike(c *dataset.Column, pred func(string) bool) bool {
	total, matched := 0, 0
	for i, v := range c.Raw {
		if c.Null[i] {
			continue
		}
		total++
		if pred(v) {
			matched++
		}
	}
	return total > 0 && float64(matched)/float64(total) >= 0.8
}

func looksLikeNumeric(c *dataset.Column) bool {
	probe := &dataset.Column{Raw: c.Raw, Null: c.Null}
	return dataset.InferDType(probe.Raw, probe.Null) == dataset.DTypeNumeric
}

func recommendations(f *dataset.Frame, classes []ColumnClass) []string {
	var recs []string
	rows := f.Rows()

	for _, cc := range classes {
		if cc.MissingCount > 0 && rows > 0 {
			pct := float64(cc.MissingCount) / float64(rows) * 100
			if pct > 50 {
				recs = append(recs, fmt.Sprintf("consider dropping column %q (%.0f%% missing)", cc.Name, pct))
			} else if pct > 5 {
				recs = append(recs, fmt.Sprintf("impute missing values in column %q (%.0f%% missing)", cc.Name, pct))
			}
		}
		if cc.PotentialCategorical {
			recs = append(recs, fmt.Sprintf("numeric column %q has only %d distinct values; treat as categorical?", cc.Name, cc.UniqueCount))
		}
		if cc.PotentialDatetime {
			recs = append(recs, fmt.Sprintf("text column %q parses as dates; convert to datetime", cc.Name))
		}
		if cc.PotentialNumeric {
			recs = append(recs, fmt.Sprintf("text column %q parses as numbers; convert to numeric", cc.Name))
		}
	}

	if dups := len(f.DuplicateRows()); dups > 0 {
		recs = append(recs, fmt.Sprintf("remove %d duplicate rows", dups))
	}

	if len(recs) == 0 {
		recs = []string{"dataset looks clean; no operations recommended"}
	}
	return recs
}
