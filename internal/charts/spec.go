package charts

// Chart categories used by the recommendation engine
const (
	KindDistribution = "distribution"
	KindCategorical  = "categorical"
	KindCorrelation  = "correlation"
	KindRelationship = "relationship"
	KindComparison   = "comparison"
	KindQuality      = "quality"
	KindSummary      = "summary"
)

// Spec is one Plotly chart: traces plus layout, ready to embed as JSON
type Spec struct {
	ID          string                   `json:"id"`
	Kind        string                   `json:"kind"`
	Type        string                   `json:"type"` // plotly trace type of the primary trace
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	Data        []map[string]interface{} `json:"data"`
	Layout      map[string]interface{}   `json:"layout"`
}

func baseLayout(title string) map[string]interface{} {
	return map[string]interface{}{
		"title":    map[string]interface{}{"text": title},
		"margin":   map[string]interface{}{"t": 48, "r": 24, "b": 48, "l": 56},
		"autosize": true,
	}
}
