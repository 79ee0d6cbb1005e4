package profile

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ArnavKarwa07/Automated-EDA/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustFrame(t *testing.T, csv string) *dataset.Frame {
	t.Helper()
	f, err := dataset.ReadCSVString(csv)
	require.NoError(t, err)
	return f
}

func TestDescribeBasicInfo(t *testing.T) {
	f := mustFrame(t, "age,city\n30,NYC\n25,LA\nNA,NYC\n")
	rep := Describe(f)

	assert.Equal(t, 3, rep.Info.Rows)
	assert.Equal(t, 2, rep.Info.Columns)
	assert.Equal(t, 1, rep.Info.MissingCount["age"])
	assert.Equal(t, 0, rep.Info.MissingCount["city"])
	assert.Greater(t, rep.Info.MemoryBytes, int64(0))
}

func TestDescribeNumericSummary(t *testing.T) {
	f := mustFrame(t, "v\n1\n2\n3\n4\n5\n")
	rep := Describe(f)

	s, ok := rep.Numeric["v"]
	require.True(t, ok)
	assert.Equal(t, 5, s.Count)
	assert.Equal(t, 3.0, s.Mean)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 5.0, s.Max)
	assert.Equal(t, 3.0, s.Median)
	assert.Equal(t, 2.0, s.P25)
	assert.Equal(t, 4.0, s.P75)
	assert.Equal(t, DistNormal, s.Distribution)
	assert.Equal(t, 0.0, s.OutlierPct)
}

func TestDescribeCategoricalSummary(t *testing.T) {
	f := mustFrame(t, "c\nred\nblue\nred\nred\ngreen\nblue\nyellow\n")
	rep := Describe(f)

	s, ok := rep.Categorical["c"]
	require.True(t, ok)
	assert.Equal(t, 7, s.Count)
	assert.Equal(t, 4, s.UniqueCount)
	assert.Equal(t, "red", s.Mode)
	require.NotEmpty(t, s.TopValues)
	assert.Equal(t, "red", s.TopValues[0].Value)
	assert.Equal(t, 3, s.TopValues[0].Count)
}

func TestDescribeCorrelations(t *testing.T) {
	var b strings.Builder
	b.WriteString("x,y,noise\n")
	noise := []string{"9", "1", "7", "3", "8", "2", "6", "4", "5", "1"}
	for i := 1; i <= 10; i++ {
		fmt.Fprintf(&b, "%d,%d,%s\n", i, i*2, noise[i-1])
	}

	f := mustFrame(t, b.String())
	rep := Describe(f)

	require.Equal(t, []string{"x", "y", "noise"}, rep.CorrColumns)
	require.Len(t, rep.Correlations, 3)
	assert.Equal(t, 1.0, rep.Correlations[0][0])
	assert.Equal(t, 1.0, rep.Correlations[0][1])

	require.NotEmpty(t, rep.StrongPairs)
	assert.Equal(t, "x", rep.StrongPairs[0].ColumnA)
	assert.Equal(t, "y", rep.StrongPairs[0].ColumnB)
	assert.Equal(t, 1.0, rep.StrongPairs[0].Correlation)
}

func TestQualityPerfectData(t *testing.T) {
	f := mustFrame(t, "a,b\n1,x\n2,y\n3,z\n")
	q := Describe(f).Quality

	assert.Equal(t, 100.0, q.Score)
	assert.Equal(t, 0.0, q.MissingPct)
	assert.Equal(t, 0.0, q.DuplicatePct)
	assert.Empty(t, q.Issues)
}

func TestQualityPenalties(t *testing.T) {
	// 1 missing cell of 8 (12.5%), 1 duplicate row of 4 (25%, capped at 20)
	f := mustFrame(t, "a,b\n1,x\n2,\n3,z\n1,x\n")
	q := Describe(f).Quality

	assert.Equal(t, 12.5, q.MissingPct)
	assert.Equal(t, 25.0, q.DuplicatePct)
	// 100 - 12.5 - min(2*25, 20) = 67.5
	assert.Equal(t, 67.5, q.Score)
	assert.Len(t, q.Issues, 2)
}

func TestQualityMostlyMissingColumn(t *testing.T) {
	f := mustFrame(t, "a,b\n1,\n2,\n3,x\n")
	q := Describe(f).Quality

	found := false
	for _, issue := range q.Issues {
		if strings.Contains(issue, `"b"`) {
			found = true
		}
	}
	assert.True(t, found, "expected an issue about column b, got %v", q.Issues)
}

func TestClassifyDistribution(t *testing.T) {
	assert.Equal(t, DistNormal, classifyDistribution(0.2, 2.5))
	assert.Equal(t, DistSkewedRight, classifyDistribution(1.2, 2.5))
	assert.Equal(t, DistSkewedLeft, classifyDistribution(-1.2, 2.5))
	assert.Equal(t, DistHeavyTailed, classifyDistribution(0.1, 5.0))
	// Heavy tails take precedence over skew
	assert.Equal(t, DistHeavyTailed, classifyDistribution(2.0, 8.0))
}
