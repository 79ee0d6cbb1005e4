package dashboard

import "github.com/ArnavKarwa07/Automated-EDA/internal/charts"

// Section kinds
const (
	SectionKPI      = "kpi"
	SectionChart    = "chart"
	SectionInsights = "insights"
)

// Section is one grid cell of the dashboard
type Section struct {
	ID     string `json:"id"`
	Kind   string `json:"kind"`
	Span   int    `json:"span"`   // grid columns out of Layout.Columns
	Height int    `json:"height"` // pixels
}

// Layout is the grid plan for a dashboard type
type Layout struct {
	Type     string    `json:"type"`
	Columns  int       `json:"columns"`
	Sections []Section `json:"sections"`
}

// ChartCapacity is how many chart sections the layout offers
func (l Layout) ChartCapacity() int {
	n := 0
	for _, s := range l.Sections {
		if s.Kind == SectionChart {
			n++
		}
	}
	return n
}

// LayoutFor picks the grid plan for a dashboard type. Executive dashboards
// lead with KPI cards and few large charts; exploratory ones pack more
// charts in; data quality keeps the insights panel prominent.
func LayoutFor(dashboardType string) Layout {
	switch charts.NormalizeDashboardType(dashboardType) {
	case charts.TypeExecutive:
		return Layout{
			Type:    charts.TypeExecutive,
			Columns: 12,
			Sections: []Section{
				{ID: "kpi", Kind: SectionKPI, Span: 12, Height: 120},
				{ID: "chart-1", Kind: SectionChart, Span: 6, Height: 380},
				{ID: "chart-2", Kind: SectionChart, Span: 6, Height: 380},
				{ID: "chart-3", Kind: SectionChart, Span: 12, Height: 420},
				{ID: "chart-4", Kind: SectionChart, Span: 12, Height: 360},
				{ID: "insights", Kind: SectionInsights, Span: 12, Height: 280},
			},
		}
	case charts.TypeDataQuality:
		return Layout{
			Type:    charts.TypeDataQuality,
			Columns: 12,
			Sections: []Section{
				{ID: "kpi", Kind: SectionKPI, Span: 12, Height: 120},
				{ID: "chart-1", Kind: SectionChart, Span: 12, Height: 380},
				{ID: "chart-2", Kind: SectionChart, Span: 6, Height: 360},
				{ID: "chart-3", Kind: SectionChart, Span: 6, Height: 360},
				{ID: "chart-4", Kind: SectionChart, Span: 6, Height: 360},
				{ID: "chart-5", Kind: SectionChart, Span: 6, Height: 360},
				{ID: "insights", Kind: SectionInsights, Span: 12, Height: 320},
			},
		}
	case charts.TypeTimeseries:
		return Layout{
			Type:    charts.TypeTimeseries,
			Columns: 12,
			Sections: []Section{
				{ID: "kpi", Kind: SectionKPI, Span: 12, Height: 120},
				{ID: "chart-1", Kind: SectionChart, Span: 12, Height: 420},
				{ID: "chart-2", Kind: SectionChart, Span: 6, Height: 360},
				{ID: "chart-3", Kind: SectionChart, Span: 6, Height: 360},
				{ID: "chart-4", Kind: SectionChart, Span: 12, Height: 380},
				{ID: "insights", Kind: SectionInsights, Span: 12, Height: 280},
			},
		}
	default:
		return Layout{
			Type:    charts.TypeExploratory,
			Columns: 12,
			Sections: []Section{
				{ID: "kpi", Kind: SectionKPI, Span: 12, Height: 120},
				{ID: "chart-1", Kind: SectionChart, Span: 6, Height: 360},
				{ID: "chart-2", Kind: SectionChart, Span: 6, Height: 360},
				{ID: "chart-3", Kind: SectionChart, Span: 6, Height: 360},
				{ID: "chart-4", Kind: SectionChart, Span: 6, Height: 360},
				{ID: "chart-5", Kind: SectionChart, Span: 6, Height: 360},
				{ID: "chart-6", Kind: SectionChart, Span: 6, Height: 360},
				{ID: "chart-7", Kind: SectionChart, Span: 12, Height: 420},
				{ID: "chart-8", Kind: SectionChart, Span: 12, Height: 360},
				{ID: "insights", Kind: SectionInsights, Span: 12, Height: 300},
			},
		}
	}
}
