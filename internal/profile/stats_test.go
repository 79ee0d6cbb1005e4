package profile

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 2.0, mean([]float64{1, 2, 3}))
	assert.True(t, math.IsNaN(mean(nil)))
}

func TestStdDev(t *testing.T) {
	// Sample std of {2,4,4,4,5,5,7,9} is ~2.138
	got := stdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, 2.138, got, 0.001)

	assert.Equal(t, 0.0, stdDev([]float64{5}))
}

func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}
	assert.Equal(t, 3.0, percentile(sorted, 50))
	assert.Equal(t, 1.0, percentile(sorted, 0))
	assert.Equal(t, 5.0, percentile(sorted, 100))
	assert.Equal(t, 2.0, percentile(sorted, 25))

	// Interpolated rank
	assert.InDelta(t, 1.5, percentile([]float64{1, 2}, 50), 1e-9)
	assert.True(t, math.IsNaN(percentile(nil, 50)))
}

func TestSkewness(t *testing.T) {
	// Symmetric data has zero skew
	assert.InDelta(t, 0, skewness([]float64{1, 2, 3, 4, 5}), 1e-9)

	// A long right tail skews positive
	assert.Greater(t, skewness([]float64{1, 1, 1, 2, 2, 3, 50}), 1.0)

	// Constant series is defined as zero
	assert.Equal(t, 0.0, skewness([]float64{7, 7, 7, 7}))
}

func TestPearson(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{2, 4, 6, 8, 10}
	assert.InDelta(t, 1.0, pearson(x, y), 1e-9)

	inverse := []float64{10, 8, 6, 4, 2}
	assert.InDelta(t, -1.0, pearson(x, inverse), 1e-9)

	// NaN pairs are skipped, not propagated
	withNaN := []float64{1, math.NaN(), 3, 4, 5}
	assert.InDelta(t, 1.0, pearson(withNaN, []float64{2, 99, 6, 8, 10}), 1e-9)

	// Constant series has no defined correlation
	assert.True(t, math.IsNaN(pearson(x, []float64{1, 1, 1, 1, 1})))
}

func TestIQRFences(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}
	lower, upper := iqrFences(sorted)
	assert.Equal(t, -1.0, lower)
	assert.Equal(t, 7.0, upper)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, round2(1.2345))
	assert.Equal(t, 0.0, round2(math.NaN()))
	assert.Equal(t, 0.0, round2(math.Inf(1)))
}
