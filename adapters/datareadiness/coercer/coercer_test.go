package coercer

import (
	"math"
	"testing"

	"edadash/domain/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
		ok       bool
	}{
		{"42", 42, true},
		{" -3.5 ", -3.5, true},
		{"$1,200", 1200, true},
		{"(250)", -250, true},
		{"12%", 12, true},
		{"1.234,56", 1234.56, true},
		{"1,234.56", 1234.56, true},
		{"3,5", 3.5, true},
		{"1,234,567", 1234567, true},
		{"1e3", 1000, true},
		{"€ 99", 99, true},
		{"", 0, false},
		{"abc", 0, false},
		{"inf", 0, false},
		{"$", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseNumber(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.expected, got, 1e-9)
			}
		})
	}
}

func TestParseBoolAndTime(t *testing.T) {
	v, ok := ParseBool("Yes")
	assert.True(t, ok)
	assert.True(t, v)

	v, ok = ParseBool("off")
	assert.True(t, ok)
	assert.False(t, v)

	_, ok = ParseBool("maybe")
	assert.False(t, ok)

	ts, ok := ParseTime("2024-03-01")
	require.True(t, ok)
	assert.Equal(t, 2024, ts.Year())

	_, ok = ParseTime("not a date")
	assert.False(t, ok)
}

func TestRecommendedTypes(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	codes := make([]string, 0, 100)
	for i := 0; i < 100; i++ {
		codes = append(codes, []string{"1", "2", "3"}[i%3])
	}

	tests := []struct {
		name     string
		values   []string
		expected table.ColumnType
	}{
		{"numeric strings", []string{"25", "34", "45.5", "28", "52"}, table.TypeNumeric},
		{"currency", []string{"$45000", "$78000", "$120000", "$56000", "$95000"}, table.TypeNumeric},
		{"boolean words", []string{"true", "false", "true", "", "false"}, table.TypeBoolean},
		{"zero one flags", []string{"0", "1", "1", "0", "1"}, table.TypeBoolean},
		{"integer codes", codes, table.TypeCategorical},
		{"dates", []string{"2024-01-01", "2024-01-02", "2024-02-01"}, table.TypeTemporal},
		{"regions", []string{"North", "South", "East", "West", "North"}, table.TypeCategorical},
		{"all missing", []string{"", ""}, table.TypeText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := c.AnalyzeTypeDistribution(tt.values)
			assert.Equal(t, tt.expected, analysis.RecommendedType)
		})
	}
}

func TestFreeTextWhenMostlyUnique(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	values := make([]string, 0, 200)
	for i := 0; i < 200; i++ {
		values = append(values, "comment number "+string(rune('a'+i%26))+string(rune('a'+i/26)))
	}

	analysis := c.AnalyzeTypeDistribution(values)
	assert.Equal(t, table.TypeText, analysis.RecommendedType)
	assert.Equal(t, 200, analysis.DistinctCount)
}

func TestCoerceColumnParsesCells(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	col := &table.Column{Name: "price", Values: []string{"10", "", "12.5", "oops", "11", "13", "9", "10.5", "14", "15"}}
	analysis := c.CoerceColumn(col)

	assert.Equal(t, table.TypeNumeric, col.Type)
	assert.Equal(t, 9, analysis.ValidCount)
	require.Len(t, col.Numbers, 10)
	assert.True(t, math.IsNaN(col.Numbers[1]))
	assert.True(t, math.IsNaN(col.Numbers[3]))
	assert.Equal(t, 12.5, col.Numbers[2])

	flag := &table.Column{Name: "active", Values: []string{"yes", "no", "yes"}}
	c.CoerceColumn(flag)
	assert.Equal(t, table.TypeBoolean, flag.Type)
	assert.Equal(t, []float64{1, 0, 1}, flag.Numbers)

	when := &table.Column{Name: "when", Values: []string{"2024-01-01", "", "2024-01-03"}}
	c.CoerceColumn(when)
	assert.Equal(t, table.TypeTemporal, when.Type)
	assert.True(t, when.Times[1].IsZero())
	assert.Equal(t, 3, when.Times[2].Day())
}

func TestStratifiedSample(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2}, StratifiedSample(3, 10))
	assert.Equal(t, []int{0, 25, 50, 75}, StratifiedSample(100, 4))
	assert.Len(t, StratifiedSample(1000, 500), 500)
}
