package charts

import "sort"

// Dashboard types
const (
	TypeExecutive   = "executive"
	TypeDataQuality = "data_quality"
	TypeExploratory = "exploratory"
	TypeTimeseries  = "timeseries"
)

// NormalizeDashboardType maps unknown types to exploratory
func NormalizeDashboardType(t string) string {
	switch t {
	case TypeExecutive, TypeDataQuality, TypeExploratory, TypeTimeseries:
		return t
	default:
		return TypeExploratory
	}
}

// kindWeights ranks chart kinds per dashboard type. Higher is better.
var kindWeights = map[string]map[string]int{
	TypeExecutive: {
		KindSummary:      100,
		KindCorrelation:  80,
		KindCategorical:  70,
		KindComparison:   60,
		KindDistribution: 40,
		KindRelationship: 30,
		KindQuality:      20,
	},
	TypeDataQuality: {
		KindQuality:      100,
		KindSummary:      90,
		KindDistribution: 70,
		KindCategorical:  50,
		KindCorrelation:  40,
		KindComparison:   30,
		KindRelationship: 20,
	},
	TypeExploratory: {
		KindDistribution: 100,
		KindRelationship: 90,
		KindCorrelation:  80,
		KindComparison:   70,
		KindCategorical:  60,
		KindSummary:      50,
		KindQuality:      40,
	},
	TypeTimeseries: {
		KindRelationship: 100,
		KindDistribution: 80,
		KindCorrelation:  70,
		KindComparison:   60,
		KindSummary:      50,
		KindCategorical:  40,
		KindQuality:      30,
	},
}

// Recommend ranks the generated charts for a dashboard type and returns at
// most capacity specs, preserving a stable order within equal scores
func Recommend(specs []Spec, dashboardType string, capacity int) []Spec {
	if capacity <= 0 || len(specs) == 0 {
		return nil
	}

	weights := kindWeights[NormalizeDashboardType(dashboardType)]

	type ranked struct {
		spec  Spec
		score int
		pos   int
	}
	rankedSpecs := make([]ranked, len(specs))
	for i, s := range specs {
		rankedSpecs[i] = ranked{spec: s, score: weights[s.Kind], pos: i}
	}

	sort.SliceStable(rankedSpecs, func(i, j int) bool {
		if rankedSpecs[i].score != rankedSpecs[j].score {
			return rankedSpecs[i].score > rankedSpecs[j].score
		}
		return rankedSpecs[i].pos < rankedSpecs[j].pos
	})

	if capacity > len(rankedSpecs) {
		capacity = len(rankedSpecs)
	}
	out := make([]Spec, capacity)
	for i := 0; i < capacity; i++ {
		out[i] = rankedSpecs[i].spec
	}
	return out
}

// FilterKinds keeps only specs of the requested kinds; empty filter keeps all
func FilterKinds(specs []Spec, kinds []string) []Spec {
	if len(kinds) == 0 {
		return specs
	}
	want := make(map[string]struct{}, len(kinds))
	for _, k := range kinds {
		want[k] = struct{}{}
	}
	var out []Spec
	for _, s := range specs {
		if _, ok := want[s.Kind]; ok {
			out = append(out, s)
		}
	}
	return out
}
