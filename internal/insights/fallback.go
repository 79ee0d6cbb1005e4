package insights

import (
	"fmt"
	"math"
	"sort"

	"github.com/ArnavKarwa07/Automated-EDA/internal/profile"
)

// Fallback computes deterministic template insights from the profile alone
func Fallback(rep *profile.Report, dashboardType string) *Result {
	out := &Result{Source: SourceFallback}

	out.Summary = fmt.Sprintf(
		"The dataset has %d rows and %d columns (%d numeric, %d categorical) with a quality score of %.0f/100.",
		rep.Info.Rows, rep.Info.Columns, len(rep.Numeric), len(rep.Categorical), rep.Quality.Score)

	out.Findings = append(out.Findings, qualityFindings(rep)...)
	out.Findings = append(out.Findings, numericFindings(rep)...)
	out.Findings = append(out.Findings, correlationFindings(rep)...)
	out.Findings = append(out.Findings, categoricalFindings(rep)...)

	out.Actions = actions(rep)
	return out
}

func qualityFindings(rep *profile.Report) []string {
	var out []string
	if rep.Quality.MissingPct > 0 {
		out = append(out, fmt.Sprintf("%.1f%% of cells are missing.", rep.Quality.MissingPct))
	}
	if rep.Quality.DuplicatePct > 0 {
		out = append(out, fmt.Sprintf("%.1f%% of rows are exact duplicates.", rep.Quality.DuplicatePct))
	}
	return out
}

func numericFindings(rep *profile.Report) []string {
	names := make([]string, 0, len(rep.Numeric))
	for name := range rep.Numeric {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []string
	for _, name := range names {
		s := rep.Numeric[name]
		switch s.Distribution {
		case profile.DistSkewedRight:
			out = append(out, fmt.Sprintf("%s is right-skewed (skewness %.2f); the mean %.2f sits above the median %.2f.", name, s.Skewness, s.Mean, s.Median))
		case profile.DistSkewedLeft:
			out = append(out, fmt.Sprintf("%s is left-skewed (skewness %.2f).", name, s.Skewness))
		case profile.DistHeavyTailed:
			out = append(out, fmt.Sprintf("%s is heavy-tailed (kurtosis %.2f); expect extreme values.", name, s.Kurtosis))
		}
		if s.OutlierPct >= 5 {
			out = append(out, fmt.Sprintf("%s has %.1f%% outliers beyond the 1.5 IQR fences.", name, s.OutlierPct))
		}
	}
	return out
}

func correlationFindings(rep *profile.Report) []string {
	var out []string
	for _, pair := range rep.StrongPairs {
		direction := "positively"
		if pair.Correlation < 0 {
			direction = "negatively"
		}
		out = append(out, fmt.Sprintf("%s and %s are strongly %s correlated (r = %.2f).",
			pair.ColumnA, pair.ColumnB, direction, pair.Correlation))
	}
	return out
}

func categoricalFindings(rep *profile.Report) []string {
	names := make([]string, 0, len(rep.Categorical))
	for name := range rep.Categorical {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []string
	for _, name := range names {
		s := rep.Categorical[name]
		if s.Count == 0 || len(s.TopValues) == 0 {
			continue
		}
		topShare := float64(s.TopValues[0].Count) / float64(s.Count) * 100
		if topShare >= 50 {
			out = append(out, fmt.Sprintf("%s is dominated by %q (%.0f%% of values).", name, s.Mode, topShare))
		}
		if s.UniqueCount > 50 {
			out = append(out, fmt.Sprintf("%s has high cardinality (%d distinct values).", name, s.UniqueCount))
		}
	}
	return out
}

func actions(rep *profile.Report) []string {
	var out []string
	if rep.Quality.MissingPct > 5 {
		out = append(out, "Impute or drop missing values before modeling.")
	}
	if rep.Quality.DuplicatePct > 0 {
		out = append(out, "Remove duplicate rows.")
	}
	for _, pair := range rep.StrongPairs {
		if math.Abs(pair.Correlation) >= 0.9 {
			out = append(out, fmt.Sprintf("Consider dropping one of %s / %s; they are nearly collinear.", pair.ColumnA, pair.ColumnB))
			break
		}
	}
	if len(out) == 0 {
		out = append(out, "The dataset is in good shape; proceed with analysis.")
	}
	return out
}
