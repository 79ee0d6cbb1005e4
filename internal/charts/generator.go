package charts

import (
	"fmt"
	"math"

	"github.com/ArnavKarwa07/Automated-EDA/internal/dataset"
	"github.com/ArnavKarwa07/Automated-EDA/internal/profile"
)

// Caps keeping chart output bounded on wide datasets
const (
	maxCategoricalUniques = 20
	maxPieCategories      = 10
	maxScatterColumns     = 3
	maxGroupedCategorical = 2
	maxGroupedNumeric     = 2
	maxGroupedCategories  = 10
	histogramBins         = 30
)

// Generate builds the full automatic chart set for a frame
func Generate(f *dataset.Frame, rep *profile.Report) []Spec {
	var specs []Spec

	for _, name := range f.NumericColumns() {
		if s, ok := histogram(f, name); ok {
			specs = append(specs, s)
		}
		if s, ok := box(f, name); ok {
			specs = append(specs, s)
		}
	}

	for _, name := range f.CategoricalColumns() {
		c := f.Column(name)
		uniques := c.UniqueCount()
		if uniques == 0 || uniques > maxCategoricalUniques {
			continue
		}
		specs = append(specs, bar(c))
		if uniques <= maxPieCategories {
			specs = append(specs, pie(c))
		}
	}

	if s, ok := correlationHeatmap(rep); ok {
		specs = append(specs, s)
	}

	specs = append(specs, scatterPairs(f)...)
	specs = append(specs, groupedBoxes(f)...)

	if s, ok := missingBar(f); ok {
		specs = append(specs, s)
	}
	if s, ok := summaryTable(rep); ok {
		specs = append(specs, s)
	}

	return specs
}

func numericValues(f *dataset.Frame, name string) []float64 {
	var out []float64
	for _, v := range f.Column(name).Float64s() {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

func histogram(f *dataset.Frame, name string) (Spec, bool) {
	values := numericValues(f, name)
	if !varies(values) {
		return Spec{}, false
	}
	return Spec{
		ID:          "hist_" + name,
		Kind:        KindDistribution,
		Type:        "histogram",
		Title:       fmt.Sprintf("Distribution of %s", name),
		Description: fmt.Sprintf("Histogram of %s over %d values", name, len(values)),
		Data: []map[string]interface{}{{
			"type":    "histogram",
			"x":       values,
			"nbinsx":  histogramBins,
			"opacity": 0.7,
			"name":    name,
		}},
		Layout: baseLayout(fmt.Sprintf("Distribution of %s", name)),
	}, true
}

func box(f *dataset.Frame, name string) (Spec, bool) {
	values := numericValues(f, name)
	if !varies(values) {
		return Spec{}, false
	}
	return Spec{
		ID:          "box_" + name,
		Kind:        KindDistribution,
		Type:        "box",
		Title:       fmt.Sprintf("Box Plot of %s", name),
		Description: fmt.Sprintf("Quartiles and outliers of %s", name),
		Data: []map[string]interface{}{{
			"type":      "box",
			"y":         values,
			"name":      name,
			"boxpoints": "outliers",
		}},
		Layout: baseLayout(fmt.Sprintf("Box Plot of %s", name)),
	}, true
}

// varies rejects constant or near-empty series that would render as a bar
func varies(values []float64) bool {
	if len(values) < 2 {
		return false
	}
	first := values[0]
	for _, v := range values[1:] {
		if v != first {
			return true
		}
	}
	return false
}

func bar(c *dataset.Column) Spec {
	counts := c.ValueCounts()
	labels := make([]string, len(counts))
	values := make([]int, len(counts))
	for i, vc := range counts {
		labels[i] = vc.Value
		values[i] = vc.Count
	}
	return Spec{
		ID:          "bar_" + c.Name,
		Kind:        KindCategorical,
		Type:        "bar",
		Title:       fmt.Sprintf("Counts of %s", c.Name),
		Description: fmt.Sprintf("Value counts for %s (%d categories)", c.Name, len(counts)),
		Data: []map[string]interface{}{{
			"type": "bar",
			"x":    labels,
			"y":    values,
			"name": c.Name,
		}},
		Layout: baseLayout(fmt.Sprintf("Counts of %s", c.Name)),
	}
}

func pie(c *dataset.Column) Spec {
	counts := c.ValueCounts()
	labels := make([]string, len(counts))
	values := make([]int, len(counts))
	for i, vc := range counts {
		labels[i] = vc.Value
		values[i] = vc.Count
	}
	return Spec{
		ID:          "pie_" + c.Name,
		Kind:        KindCategorical,
		Type:        "pie",
		Title:       fmt.Sprintf("Share of %s", c.Name),
		Description: fmt.Sprintf("Proportions of %s categories", c.Name),
		Data: []map[string]interface{}{{
			"type":   "pie",
			"labels": labels,
			"values": values,
			"hole":   0.3,
		}},
		Layout: baseLayout(fmt.Sprintf("Share of %s", c.Name)),
	}
}

func correlationHeatmap(rep *profile.Report) (Spec, bool) {
	if len(rep.CorrColumns) < 2 {
		return Spec{}, false
	}
	return Spec{
		ID:          "corr_heatmap",
		Kind:        KindCorrelation,
		Type:        "heatmap",
		Title:       "Correlation Matrix",
		Description: fmt.Sprintf("Pearson correlations across %d numeric columns", len(rep.CorrColumns)),
		Data: []map[string]interface{}{{
			"type":       "heatmap",
			"z":          rep.Correlations,
			"x":          rep.CorrColumns,
			"y":          rep.CorrColumns,
			"colorscale": "Viridis",
			"zmin":       -1,
			"zmax":       1,
		}},
		Layout: baseLayout("Correlation Matrix"),
	}, true
}

func scatterPairs(f *dataset.Frame) []Spec {
	numCols := f.NumericColumns()
	if len(numCols) > maxScatterColumns {
		numCols = numCols[:maxScatterColumns]
	}

	var specs []Spec
	for i := 0; i < len(numCols); i++ {
		for j := i + 1; j < len(numCols); j++ {
			x := f.Column(numCols[i]).Float64s()
			y := f.Column(numCols[j]).Float64s()
			var xs, ys []float64
			for k := range x {
				if math.IsNaN(x[k]) || math.IsNaN(y[k]) {
					continue
				}
				xs = append(xs, x[k])
				ys = append(ys, y[k])
			}
			if len(xs) < 2 {
				continue
			}
			title := fmt.Sprintf("%s vs %s", numCols[i], numCols[j])
			specs = append(specs, Spec{
				ID:          fmt.Sprintf("scatter_%s_%s", numCols[i], numCols[j]),
				Kind:        KindRelationship,
				Type:        "scatter",
				Title:       title,
				Description: fmt.Sprintf("Relationship between %s and %s", numCols[i], numCols[j]),
				Data: []map[string]interface{}{{
					"type":   "scatter",
					"mode":   "markers",
					"x":      xs,
					"y":      ys,
					"marker": map[string]interface{}{"opacity": 0.6},
				}},
				Layout: baseLayout(title),
			})
		}
	}
	return specs
}

func groupedBoxes(f *dataset.Frame) []Spec {
	catCols := f.CategoricalColumns()
	numCols := f.NumericColumns()
	if len(catCols) > maxGroupedCategorical {
		catCols = catCols[:maxGroupedCategorical]
	}
	if len(numCols) > maxGroupedNumeric {
		numCols = numCols[:maxGroupedNumeric]
	}

	var specs []Spec
	for _, catName := range catCols {
		cat := f.Column(catName)
		if cat.UniqueCount() > maxGroupedCategories {
			continue
		}
		for _, numName := range numCols {
			num := f.Column(numName).Float64s()

			groups := make(map[string][]float64)
			var order []string
			for r, label := range cat.Raw {
				if cat.Null[r] || math.IsNaN(num[r]) {
					continue
				}
				if _, ok := groups[label]; !ok {
					order = append(order, label)
				}
				groups[label] = append(groups[label], num[r])
			}
			if len(order) < 2 {
				continue
			}

			data := make([]map[string]interface{}, 0, len(order))
			for _, label := range order {
				data = append(data, map[string]interface{}{
					"type": "box",
					"y":    groups[label],
					"name": label,
				})
			}

			title := fmt.Sprintf("%s by %s", numName, catName)
			specs = append(specs, Spec{
				ID:          fmt.Sprintf("groupbox_%s_%s", numName, catName),
				Kind:        KindComparison,
				Type:        "box",
				Title:       title,
				Description: fmt.Sprintf("Spread of %s across %s groups", numName, catName),
				Data:        data,
				Layout:      baseLayout(title),
			})
		}
	}
	return specs
}

func missingBar(f *dataset.Frame) (Spec, bool) {
	var labels []string
	var values []int
	for _, name := range f.Columns() {
		if n := f.Column(name).MissingCount(); n > 0 {
			labels = append(labels, name)
			values = append(values, n)
		}
	}
	if len(labels) == 0 {
		return Spec{}, false
	}
	return Spec{
		ID:          "missing_values",
		Kind:        KindQuality,
		Type:        "bar",
		Title:       "Missing Values by Column",
		Description: fmt.Sprintf("%d columns contain missing values", len(labels)),
		Data: []map[string]interface{}{{
			"type":   "bar",
			"x":      labels,
			"y":      values,
			"marker": map[string]interface{}{"color": "#ef4444"},
		}},
		Layout: baseLayout("Missing Values by Column"),
	}, true
}

func summaryTable(rep *profile.Report) (Spec, bool) {
	if len(rep.Numeric) == 0 {
		return Spec{}, false
	}

	header := []string{"column", "mean", "std", "min", "median", "max", "skewness"}
	cols := make([][]interface{}, len(header))
	for i := range cols {
		cols[i] = []interface{}{}
	}
	for _, name := range rep.CorrColumns {
		s, ok := rep.Numeric[name]
		if !ok {
			continue
		}
		row := []interface{}{name, s.Mean, s.Std, s.Min, s.Median, s.Max, s.Skewness}
		for i, v := range row {
			cols[i] = append(cols[i], v)
		}
	}
	if len(cols[0]) == 0 {
		for name, s := range rep.Numeric {
			row := []interface{}{name, s.Mean, s.Std, s.Min, s.Median, s.Max, s.Skewness}
			for i, v := range row {
				cols[i] = append(cols[i], v)
			}
		}
	}

	return Spec{
		ID:          "summary_stats",
		Kind:        KindSummary,
		Type:        "table",
		Title:       "Summary Statistics",
		Description: "Descriptive statistics for numeric columns",
		Data: []map[string]interface{}{{
			"type":   "table",
			"header": map[string]interface{}{"values": header},
			"cells":  map[string]interface{}{"values": cols},
		}},
		Layout: baseLayout("Summary Statistics"),
	}, true
}
