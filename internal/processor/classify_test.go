package processor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyCategories(t *testing.T) {
	f := mustFrame(t, "n,d,c,b\n1.5,2024-01-01,red,true\n2.5,2024-01-02,blue,false\n")

	res := Classify(f)
	require.Len(t, res.Columns, 4)

	byName := map[string]ColumnClass{}
	for _, cc := range res.Columns {
		byName[cc.Name] = cc
	}

	assert.Equal(t, "numerical", byName["n"].Category)
	assert.Equal(t, "datetime", byName["d"].Category)
	assert.Equal(t, "categorical", byName["c"].Category)
	assert.Equal(t, "categorical", byName["b"].Category)
}

func TestClassifyPotentialCategorical(t *testing.T) {
	// Numeric column with few distinct values
	f := mustFrame(t, "flag\n0\n1\n0\n1\n1\n")

	res := Classify(f)
	assert.True(t, res.Columns[0].PotentialCategorical)
}

func TestClassifyPotentialConversions(t *testing.T) {
	// Force categorical dtype so the latent-type probes run
	f := mustFrame(t, "dates,nums\n2024-01-01,1\nnot a date,2\n2024-03-01,3\n2024-04-01,4\n2024-05-01,5\n")

	byName := map[string]ColumnClass{}
	for _, cc := range Classify(f).Columns {
		byName[cc.Name] = cc
	}

	// 4 of 5 values parse as dates (80%)
	assert.Equal(t, "categorical", byName["dates"].Category)
	assert.True(t, byName["dates"].PotentialDatetime)
	assert.Equal(t, "numerical", byName["nums"].Category)
}

func TestClassifyRecommendations(t *testing.T) {
	f := mustFrame(t, "v,c\n1,x\n,x\n3,y\n1,x\n1,x\n")

	res := Classify(f)
	joined := strings.Join(res.Recommendations, "\n")
	assert.Contains(t, joined, "impute missing values")
	assert.Contains(t, joined, "duplicate rows")
	assert.Greater(t, res.Quality.Score, 0.0)
}

func TestClassifyCleanDataset(t *testing.T) {
	var b strings.Builder
	b.WriteString("x,y\n")
	for i := 0; i < 12; i++ {
		b.WriteString(rowFor(i))
	}
	f := mustFrame(t, b.String())

	res := Classify(f)
	assert.Equal(t, []string{"dataset looks clean; no operations recommended"}, res.Recommendations)
}

func rowFor(i int) string {
	return string(rune('a'+i)) + "1," + string(rune('a'+i)) + "2\n"
}
