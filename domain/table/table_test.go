package table

import (
	"math"
	"testing"

	"edadash/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNormalizesHeaderAndRows(t *testing.T) {
	tbl, err := New("sales", []string{"id", " ", "id", "price"}, [][]string{
		{"1", "x", "a", "9.5"},
		{"2", "y"},
		{"3", "z", "c", "NA", "extra"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "Column_2", "id_2", "price"}, tbl.ColumnNames())
	assert.Equal(t, 3, tbl.RowCount())
	assert.Equal(t, 4, tbl.ColumnCount())

	price, ok := tbl.Column("price")
	require.True(t, ok)
	assert.Equal(t, []string{"9.5", "", ""}, price.Values)
	assert.Equal(t, 2, price.MissingCount())
	assert.Equal(t, 3, tbl.MissingCells())
	assert.NoError(t, tbl.Validate())
}

func TestNewRejectsEmptyHeader(t *testing.T) {
	_, err := New("empty", nil, nil)
	require.Error(t, err)
	assert.True(t, core.IsInvalidInput(err))
}

func TestValidateDetectsMisalignedColumns(t *testing.T) {
	tbl, err := New("t", []string{"a", "b"}, [][]string{{"1", "2"}, {"3", "4"}})
	require.NoError(t, err)

	tbl.Columns[1].Values = tbl.Columns[1].Values[:1]
	err = tbl.Validate()
	require.Error(t, err)
	assert.True(t, core.IsInvalidInput(err))
}

func TestColumnHelpers(t *testing.T) {
	c := &Column{
		Name:    "n",
		Type:    TypeNumeric,
		Values:  []string{"1", "", "3", "3"},
		Numbers: []float64{1, math.NaN(), 3, 3},
	}

	assert.Equal(t, []float64{1, 3, 3}, c.Floats())
	assert.True(t, c.HasNumbers())
	assert.Equal(t, 2, c.DistinctCount())

	top := c.TopValues(1)
	require.Len(t, top, 1)
	assert.Equal(t, "3", top[0].Value)
	assert.Equal(t, 2, top[0].Count)
	assert.InDelta(t, 0.5, top[0].Ratio, 1e-9)
}

func TestHeadTailAndDuplicates(t *testing.T) {
	tbl, err := New("t", []string{"a", "b"}, [][]string{
		{"1", "x"}, {"2", "y"}, {"1", "x"}, {"3", "z"},
	})
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"1", "x"}, {"2", "y"}}, tbl.Head(2))
	assert.Equal(t, [][]string{{"3", "z"}}, tbl.Tail(1))
	assert.Len(t, tbl.Head(10), 4)
	assert.Equal(t, 1, tbl.DuplicateRows())
	assert.Greater(t, tbl.MemoryBytes(), int64(0))
}

func TestFingerprintTracksContent(t *testing.T) {
	a, _ := New("a", []string{"x"}, [][]string{{"1"}, {"2"}})
	b, _ := New("b", []string{"x"}, [][]string{{"1"}, {"2"}})
	c, _ := New("c", []string{"x"}, [][]string{{"1"}, {"3"}})

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestColumnsOfType(t *testing.T) {
	tbl, _ := New("t", []string{"a", "b", "c"}, [][]string{{"1", "x", "true"}})
	tbl.Columns[0].Type = TypeNumeric
	tbl.Columns[2].Type = TypeBoolean

	got := tbl.ColumnsOfType(TypeCategorical, TypeBoolean)
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].Name)
	assert.True(t, TypeBoolean.IsDiscrete())
	assert.False(t, TypeNumeric.IsDiscrete())
}
