package processor

import (
	"context"
	"errors"
	"testing"

	"github.com/ArnavKarwa07/Automated-EDA/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAICleanOptionsFromLLM(t *testing.T) {
	mock := &llm.MockProvider{Responses: []string{
		`{"drop_duplicates": true, "missing_strategy": "drop", "drop_threshold": 0.3, "numeric_impute": "median", "remove_outliers": true, "convert_dtypes": false}`,
	}}
	f := mustFrame(t, "v\n1\n2\n3\n")

	opts := AICleanOptions(context.Background(), mock, f)
	assert.Equal(t, "drop", opts.MissingStrategy)
	assert.Equal(t, 0.3, opts.DropThreshold)
	assert.Equal(t, "median", opts.NumericImpute)
	assert.True(t, opts.RemoveOutliers)
	require.Len(t, mock.Calls, 1)
}

func TestAICleanOptionsGuardsBadValues(t *testing.T) {
	mock := &llm.MockProvider{Responses: []string{
		`{"missing_strategy": "delete everything", "drop_threshold": 7, "numeric_impute": "mode"}`,
	}}
	f := mustFrame(t, "v\n1\n2\n")

	opts := AICleanOptions(context.Background(), mock, f)
	defaults := DefaultCleanOptions()
	assert.Equal(t, defaults.MissingStrategy, opts.MissingStrategy)
	assert.Equal(t, defaults.DropThreshold, opts.DropThreshold)
	assert.Equal(t, defaults.NumericImpute, opts.NumericImpute)
}

func TestAICleanOptionsFallsBackOnError(t *testing.T) {
	mock := &llm.MockProvider{Err: errors.New("rate limited")}
	f := mustFrame(t, "v\n1\n2\n")

	opts := AICleanOptions(context.Background(), mock, f)
	assert.Equal(t, DefaultCleanOptions(), opts)
}

func TestAITransformOptionsFromLLM(t *testing.T) {
	mock := &llm.MockProvider{Responses: []string{
		`{"scaling": "minmax", "encoding": "onehot", "interaction_feature": true}`,
	}}
	f := mustFrame(t, "v,c\n1,x\n2,y\n")

	opts := AITransformOptions(context.Background(), mock, f)
	assert.Equal(t, "minmax", opts.Scaling)
	assert.Equal(t, "onehot", opts.Encoding)
	assert.True(t, opts.InteractionFeature)
}

func TestAITransformOptionsGuardsBadValues(t *testing.T) {
	mock := &llm.MockProvider{Responses: []string{
		`{"scaling": "logarithmic", "encoding": "base64"}`,
	}}
	f := mustFrame(t, "v\n1\n2\n")

	opts := AITransformOptions(context.Background(), mock, f)
	defaults := DefaultTransformOptions()
	assert.Equal(t, defaults.Scaling, opts.Scaling)
	assert.Equal(t, defaults.Encoding, opts.Encoding)
}
