package processor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ArnavKarwa07/Automated-EDA/internal/dataset"
	"github.com/ArnavKarwa07/Automated-EDA/internal/llm"
	"github.com/ArnavKarwa07/Automated-EDA/internal/logger"
	"github.com/ArnavKarwa07/Automated-EDA/internal/metrics"
	"github.com/ArnavKarwa07/Automated-EDA/internal/profile"
)

// AICleanOptions asks the LLM to choose cleaning options from the profile.
// Any failure falls back to DefaultCleanOptions.
func AICleanOptions(ctx context.Context, p llm.Provider, f *dataset.Frame) CleanOptions {
	opts := DefaultCleanOptions()

	rep := profile.Describe(f)
	summary, err := json.Marshal(map[string]interface{}{
		"rows":          rep.Info.Rows,
		"columns":       rep.Info.Columns,
		"missing_pct":   rep.Quality.MissingPct,
		"duplicate_pct": rep.Quality.DuplicatePct,
		"issues":        rep.Quality.Issues,
	})
	if err != nil {
		return opts
	}

	req := llm.Request{
		System: "You are a data cleaning assistant. Respond with JSON only.",
		Prompt: fmt.Sprintf(`Given this dataset summary, choose cleaning options.
Summary: %s
Respond with JSON: {"drop_duplicates": bool, "missing_strategy": "drop"|"impute", "drop_threshold": number, "numeric_impute": "mean"|"median", "remove_outliers": bool, "convert_dtypes": bool}`, summary),
		Temperature: 0.2,
		MaxTokens:   256,
	}

	var chosen CleanOptions
	if err := llm.CompleteJSON(ctx, p, req, &chosen); err != nil {
		logger.WarnWithFields("AI clean options unavailable, using defaults", err)
		metrics.Get().LLMFallbackTotal.WithLabelValues("clean_options").Inc()
		return opts
	}

	// Guard nonsense values before trusting the model
	if chosen.MissingStrategy != "drop" && chosen.MissingStrategy != "impute" {
		chosen.MissingStrategy = opts.MissingStrategy
	}
	if chosen.DropThreshold <= 0 || chosen.DropThreshold > 1 {
		chosen.DropThreshold = opts.DropThreshold
	}
	if chosen.NumericImpute != "mean" && chosen.NumericImpute != "median" {
		chosen.NumericImpute = opts.NumericImpute
	}
	return chosen
}

// AITransformOptions asks the LLM to choose transform options.
// Any failure falls back to DefaultTransformOptions.
func AITransformOptions(ctx context.Context, p llm.Provider, f *dataset.Frame) TransformOptions {
	opts := DefaultTransformOptions()

	req := llm.Request{
		System: "You are a feature engineering assistant. Respond with JSON only.",
		Prompt: fmt.Sprintf(`A dataset has %d numeric and %d categorical columns. Choose transform options.
Respond with JSON: {"scaling": "standard"|"minmax"|"none", "encoding": "label"|"onehot"|"none", "interaction_feature": bool}`,
			len(f.NumericColumns()), len(f.CategoricalColumns())),
		Temperature: 0.2,
		MaxTokens:   128,
	}

	var chosen TransformOptions
	if err := llm.CompleteJSON(ctx, p, req, &chosen); err != nil {
		logger.WarnWithFields("AI transform options unavailable, using defaults", err)
		metrics.Get().LLMFallbackTotal.WithLabelValues("transform_options").Inc()
		return opts
	}

	switch chosen.Scaling {
	case "standard", "minmax", "none":
	default:
		chosen.Scaling = opts.Scaling
	}
	switch chosen.Encoding {
	case "label", "onehot", "none":
	default:
		chosen.Encoding = opts.Encoding
	}
	return chosen
}
