package dashboard

import "github.com/ArnavKarwa07/Automated-EDA/internal/charts"

// Palette is the embedded CSS color scheme for a dashboard type
type Palette struct {
	Primary    string
	Secondary  string
	Accent     string
	Background string
}

// PaletteFor returns the color scheme for a dashboard type
func PaletteFor(dashboardType string) Palette {
	switch charts.NormalizeDashboardType(dashboardType) {
	case charts.TypeExecutive:
		return Palette{
			Primary:    "#1e40af",
			Secondary:  "#3b82f6",
			Accent:     "#60a5fa",
			Background: "#f8fafc",
		}
	case charts.TypeDataQuality:
		return Palette{
			Primary:    "#059669",
			Secondary:  "#10b981",
			Accent:     "#34d399",
			Background: "#f0fdf4",
		}
	default:
		return Palette{
			Primary:    "#7c3aed",
			Secondary:  "#8b5cf6",
			Accent:     "#a78bfa",
			Background: "#faf5ff",
		}
	}
}

// jsMarker is replaced with the chart bootstrap script during finalize
const jsMarker = "// Dashboard JavaScript will be injected here"

// plotlyCDN is the pinned script tag every generated dashboard loads
const plotlyCDN = "https://cdn.plot.ly/plotly-2.32.0.min.js"
