package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSVBasic(t *testing.T) {
	f, err := ReadCSVString("name,age,score\nalice,30,91.5\nbob,25,88.0\n")
	require.NoError(t, err)

	rows, cols := f.Shape()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 3, cols)
	assert.Equal(t, []string{"name", "age", "score"}, f.Columns())

	assert.Equal(t, DTypeCategorical, f.Column("name").DType)
	assert.Equal(t, DTypeNumeric, f.Column("age").DType)
	assert.Equal(t, DTypeNumeric, f.Column("score").DType)
}

func TestReadCSVEmptyFile(t *testing.T) {
	_, err := ReadCSVString("")
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestReadCSVHeaderOnly(t *testing.T) {
	_, err := ReadCSVString("a,b,c\n")
	assert.ErrorIs(t, err, ErrNoDataRows)
}

func TestReadCSVRaggedRow(t *testing.T) {
	_, err := ReadCSVString("a,b\n1,2\n3\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3")
}

func TestReadCSVNullTokens(t *testing.T) {
	f, err := ReadCSVString("v\n1\nNA\nn/a\nNULL\nnan\nNone\n\"\"\n5\n")
	require.NoError(t, err)

	col := f.Column("v")
	assert.Equal(t, 6, col.MissingCount())
	assert.Equal(t, DTypeNumeric, col.DType)
}

func TestReadCSVDedupeHeaders(t *testing.T) {
	f, err := ReadCSVString("a,a,,a\n1,2,3,4\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a_1", "column_3", "a_2"}, f.Columns())
}

func TestReadCSVTrimsWhitespace(t *testing.T) {
	f, err := ReadCSVString("name, value\nx , 7\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "value"}, f.Columns())
	assert.Equal(t, "x", f.Column("name").Raw[0])
	assert.Equal(t, "7", f.Column("value").Raw[0])
}

func TestWriteCSVRoundTrip(t *testing.T) {
	original := "name,age\nalice,30\nbob,\n"
	f, err := ReadCSVString(original)
	require.NoError(t, err)

	raw, err := WriteCSV(f)
	require.NoError(t, err)

	again, err := ReadCSV(strings.NewReader(string(raw)))
	require.NoError(t, err)

	rows, cols := again.Shape()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 2, cols)
	assert.Equal(t, 1, again.Column("age").MissingCount())
	assert.Equal(t, "alice", again.Column("name").Raw[0])
}
