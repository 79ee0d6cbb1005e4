package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnFloat64s(t *testing.T) {
	f, err := ReadCSVString("v\n1.5\nNA\nabc\n3\n")
	require.NoError(t, err)

	vals := f.Column("v").Float64s()
	require.Len(t, vals, 4)
	assert.Equal(t, 1.5, vals[0])
	assert.True(t, math.IsNaN(vals[1]))
	assert.True(t, math.IsNaN(vals[2]))
	assert.Equal(t, 3.0, vals[3])
}

func TestValueCounts(t *testing.T) {
	f, err := ReadCSVString("c\nb\na\nb\nNA\na\nb\n")
	require.NoError(t, err)

	counts := f.Column("c").ValueCounts()
	require.Len(t, counts, 2)
	assert.Equal(t, ValueCount{Value: "b", Count: 3}, counts[0])
	assert.Equal(t, ValueCount{Value: "a", Count: 2}, counts[1])
}

func TestDuplicateRows(t *testing.T) {
	f, err := ReadCSVString("a,b\n1,x\n2,y\n1,x\n2,y\n3,z\n")
	require.NoError(t, err)

	assert.Equal(t, []int{2, 3}, f.DuplicateRows())

	out := f.DropRows(f.DuplicateRows())
	assert.Equal(t, 3, out.Rows())
	assert.Empty(t, out.DuplicateRows())
}

func TestDropRowsPreservesDTypes(t *testing.T) {
	f, err := ReadCSVString("n,c\n1,x\n2,y\n3,z\n")
	require.NoError(t, err)

	out := f.DropRows([]int{1})
	assert.Equal(t, 2, out.Rows())
	assert.Equal(t, DTypeNumeric, out.Column("n").DType)
	assert.Equal(t, []string{"1", "3"}, out.Column("n").Raw)
}

func TestAddAndReplaceColumn(t *testing.T) {
	f, err := ReadCSVString("a\n1\n2\n")
	require.NoError(t, err)

	err = f.AddColumn(&Column{
		Name:  "b",
		DType: DTypeNumeric,
		Raw:   []string{"10", "20"},
		Null:  []bool{false, false},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, f.Columns())

	// Duplicate name rejected
	err = f.AddColumn(&Column{Name: "b", Raw: []string{"0", "0"}, Null: []bool{false, false}})
	assert.Error(t, err)

	// Length mismatch rejected
	err = f.AddColumn(&Column{Name: "c", Raw: []string{"1"}, Null: []bool{false}})
	assert.Error(t, err)

	err = f.ReplaceColumn("b", &Column{
		Name:  "b",
		DType: DTypeNumeric,
		Raw:   []string{"30", "40"},
		Null:  []bool{false, false},
	})
	require.NoError(t, err)
	assert.Equal(t, "30", f.Column("b").Raw[0])
}

func TestCloneIsIndependent(t *testing.T) {
	f, err := ReadCSVString("a\n1\n2\n")
	require.NoError(t, err)

	clone := f.Clone()
	clone.Column("a").Raw[0] = "99"
	assert.Equal(t, "1", f.Column("a").Raw[0])
}

func TestPreviewAndRecords(t *testing.T) {
	f, err := ReadCSVString("n,c\n1,x\nNA,y\n3,z\n")
	require.NoError(t, err)

	preview := f.Preview(2)
	require.Len(t, preview, 2)
	assert.Equal(t, 1.0, preview[0]["n"])
	assert.Equal(t, "x", preview[0]["c"])
	assert.Nil(t, preview[1]["n"])

	assert.Len(t, f.Records(), 3)
	assert.Len(t, f.Preview(100), 3)
}

func TestCategoricalColumnsIncludesBoolean(t *testing.T) {
	f, err := ReadCSVString("n,b,c\n1,true,x\n2,false,y\n")
	require.NoError(t, err)

	assert.Equal(t, []string{"n"}, f.NumericColumns())
	assert.ElementsMatch(t, []string{"b", "c"}, f.CategoricalColumns())
}
