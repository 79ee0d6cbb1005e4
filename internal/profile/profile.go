package profile

import (
	"fmt"
	"math"

	"github.com/ArnavKarwa07/Automated-EDA/internal/dataset"
)

// Distribution classes for numeric columns
const (
	DistNormal      = "normal"
	DistSkewedLeft  = "skewed_left"
	DistSkewedRight = "skewed_right"
	DistHeavyTailed = "heavy_tailed"
)

// NumericSummary describes one numeric column
type NumericSummary struct {
	Count        int     `json:"count"`
	Mean         float64 `json:"mean"`
	Std          float64 `json:"std"`
	Min          float64 `json:"min"`
	P25          float64 `json:"p25"`
	Median       float64 `json:"median"`
	P75          float64 `json:"p75"`
	Max          float64 `json:"max"`
	Skewness     float64 `json:"skewness"`
	Kurtosis     float64 `json:"kurtosis"`
	Distribution string  `json:"distribution"`
	OutlierPct   float64 `json:"outlier_pct"`
}

// CategoricalSummary describes one categorical column
type CategoricalSummary struct {
	Count       int                  `json:"count"`
	UniqueCount int                  `json:"unique_count"`
	Mode        string               `json:"mode"`
	TopValues   []dataset.ValueCount `json:"top_values"`
}

// CorrelationPair is a strongly correlated column pair
type CorrelationPair struct {
	ColumnA     string  `json:"column_a"`
	ColumnB     string  `json:"column_b"`
	Correlation float64 `json:"correlation"`
}

// BasicInfo captures the dataset shape and per-column metadata
type BasicInfo struct {
	Rows         int                      `json:"rows"`
	Columns      int                      `json:"columns"`
	ColumnNames  []string                 `json:"column_names"`
	DTypes       map[string]dataset.DType `json:"dtypes"`
	MissingCount map[string]int           `json:"missing_count"`
	MemoryBytes  int64                    `json:"memory_bytes"`
}

// Quality holds the dataset quality assessment
type Quality struct {
	Score        float64  `json:"score"`
	MissingPct   float64  `json:"missing_pct"`
	DuplicatePct float64  `json:"duplicate_pct"`
	Issues       []string `json:"issues"`
}

// Report is the complete profile of a dataset
type Report struct {
	Info         BasicInfo                     `json:"info"`
	Numeric      map[string]NumericSummary     `json:"numeric"`
	Categorical  map[string]CategoricalSummary `json:"categorical"`
	Correlations [][]float64                   `json:"correlations"`
	CorrColumns  []string                      `json:"corr_columns"`
	StrongPairs  []CorrelationPair             `json:"strong_pairs"`
	Quality      Quality                       `json:"quality"`
}

// strongCorrThreshold marks a pair worth surfacing to the user
const strongCorrThreshold = 0.7

// Describe profiles a frame end to end
func Describe(f *dataset.Frame) *Report {
	rows, cols := f.Shape()

	info := BasicInfo{
		Rows:         rows,
		Columns:      cols,
		ColumnNames:  f.Columns(),
		DTypes:       f.DTypes(),
		MissingCount: make(map[string]int, cols),
		MemoryBytes:  f.MemoryBytes(),
	}
	for _, name := range info.ColumnNames {
		info.MissingCount[name] = f.Column(name).MissingCount()
	}

	report := &Report{
		Info:        info,
		Numeric:     make(map[string]NumericSummary),
		Categorical: make(map[string]CategoricalSummary),
	}

	for _, name := range f.NumericColumns() {
		report.Numeric[name] = describeNumeric(f.Column(name))
	}
	for _, name := range f.CategoricalColumns() {
		report.Categorical[name] = describeCategorical(f.Column(name))
	}

	report.CorrColumns, report.Correlations, report.StrongPairs = correlations(f)
	report.Quality = assessQuality(f)

	return report
}

func describeNumeric(c *dataset.Column) NumericSummary {
	values := dropNaN(c.Float64s())
	if len(values) == 0 {
		return NumericSummary{Distribution: DistNormal}
	}
	sorted := sortedCopy(values)

	skew := skewness(values)
	kurt := kurtosis(values)

	lower, upper := iqrFences(sorted)
	outliers := 0
	for _, v := range values {
		if v < lower || v > upper {
			outliers++
		}
	}

	return NumericSummary{
		Count:        len(values),
		Mean:         round2(mean(values)),
		Std:          round2(stdDev(values)),
		Min:          sorted[0],
		P25:          round2(percentile(sorted, 25)),
		Median:       round2(percentile(sorted, 50)),
		P75:          round2(percentile(sorted, 75)),
		Max:          sorted[len(sorted)-1],
		Skewness:     round2(skew),
		Kurtosis:     round2(kurt),
		Distribution: classifyDistribution(skew, kurt),
		OutlierPct:   round2(float64(outliers) / float64(len(values)) * 100),
	}
}

func classifyDistribution(skew, kurt float64) string {
	if kurt > 3 {
		return DistHeavyTailed
	}
	switch {
	case math.Abs(skew) <= 0.5:
		return DistNormal
	case skew > 0:
		return DistSkewedRight
	default:
		return DistSkewedLeft
	}
}

func describeCategorical(c *dataset.Column) CategoricalSummary {
	counts := c.ValueCounts()
	top := counts
	if len(top) > 5 {
		top = top[:5]
	}
	mode := ""
	if len(counts) > 0 {
		mode = counts[0].Value
	}
	return CategoricalSummary{
		Count:       len(c.Strings()),
		UniqueCount: len(counts),
		Mode:        mode,
		TopValues:   top,
	}
}

func correlations(f *dataset.Frame) ([]string, [][]float64, []CorrelationPair) {
	numCols := f.NumericColumns()
	if len(numCols) < 2 {
		return nil, nil, nil
	}

	series := make([][]float64, len(numCols))
	for i, name := range numCols {
		series[i] = f.Column(name).Float64s()
	}

	matrix := make([][]float64, len(numCols))
	var strong []CorrelationPair
	for i := range numCols {
		matrix[i] = make([]float64, len(numCols))
		for j := range numCols {
			if i == j {
				matrix[i][j] = 1
				continue
			}
			r := pearson(series[i], series[j])
			if math.IsNaN(r) {
				r = 0
			}
			matrix[i][j] = round2(r)
			if j > i && math.Abs(r) >= strongCorrThreshold {
				strong = append(strong, CorrelationPair{
					ColumnA:     numCols[i],
					ColumnB:     numCols[j],
					Correlation: round2(r),
				})
			}
		}
	}

	return numCols, matrix, strong
}

// assessQuality scores the dataset: start at 100, subtract up to 30 points
// for missing cells and up to 20 for duplicate rows
func assessQuality(f *dataset.Frame) Quality {
	rows, cols := f.Shape()
	totalCells := rows * cols

	missing := 0
	for _, name := range f.Columns() {
		missing += f.Column(name).MissingCount()
	}
	missingPct := 0.0
	if totalCells > 0 {
		missingPct = float64(missing) / float64(totalCells) * 100
	}

	dupPct := 0.0
	if rows > 0 {
		dupPct = float64(len(f.DuplicateRows())) / float64(rows) * 100
	}

	score := 100.0
	score -= math.Min(missingPct, 30)
	score -= math.Min(2*dupPct, 20)
	if score < 0 {
		score = 0
	}

	var issues []string
	if missingPct > 0 {
		issues = append(issues, fmt.Sprintf("%.1f%% of cells are missing", missingPct))
	}
	if dupPct > 0 {
		issues = append(issues, fmt.Sprintf("%.1f%% of rows are duplicates", dupPct))
	}
	for _, name := range f.Columns() {
		c := f.Column(name)
		if rows > 0 && float64(c.MissingCount())/float64(rows) > 0.5 {
			issues = append(issues, fmt.Sprintf("column %q is more than half missing", name))
		}
	}

	return Quality{
		Score:        round2(score),
		MissingPct:   round2(missingPct),
		DuplicatePct: round2(dupPct),
		Issues:       issues,
	}
}
