package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sort"
	"strconv"
	"testing"

	"edadash/domain/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func numericColumn(name string, vals ...float64) *table.Column {
	c := &table.Column{Name: name, Type: table.TypeNumeric, Values: make([]string, len(vals)), Numbers: vals}
	for i, v := range vals {
		if !math.IsNaN(v) {
			c.Values[i] = strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return c
}

func categoricalColumn(name string, vals ...string) *table.Column {
	return &table.Column{Name: name, Type: table.TypeCategorical, Values: vals}
}

func newTable(name string, cols ...*table.Column) *table.Table {
	return &table.Table{Name: name, Columns: cols}
}

func TestPearsonAndSpearman(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	assert.InDelta(t, 1.0, Pearson(x, []float64{2, 4, 6, 8, 10}), 1e-9)
	assert.InDelta(t, -1.0, Pearson(x, []float64{5, 4, 3, 2, 1}), 1e-9)

	// Monotonic but not linear
	y := []float64{1, 8, 27, 64, 125}
	assert.InDelta(t, 1.0, Spearman(x, y), 1e-9)
	assert.Less(t, Pearson(x, y), 1.0)

	assert.True(t, math.IsNaN(Pearson(x, []float64{3, 3, 3, 3, 3})))
	assert.True(t, math.IsNaN(Spearman([]float64{1, 2}, []float64{1, 2})))
}

func TestRankAveragesTies(t *testing.T) {
	assert.Equal(t, []float64{1, 2.5, 2.5, 4}, rank([]float64{10, 20, 20, 30}))
	assert.Equal(t, []float64{3, 1, 2}, rank([]float64{9, 1, 5}))
}

func TestPairedFloatsSkipsMissing(t *testing.T) {
	a := numericColumn("a", 1, math.NaN(), 3, 4)
	b := numericColumn("b", 10, 20, math.NaN(), 40)
	x, y := PairedFloats(a, b)
	assert.Equal(t, []float64{1, 4}, x)
	assert.Equal(t, []float64{10, 40}, y)
}

func TestCramersV(t *testing.T) {
	perfect := CramersV([]string{"x", "x", "y", "y"}, []string{"p", "p", "q", "q"})
	assert.InDelta(t, 1.0, perfect.V, 1e-9)
	assert.Equal(t, 1, perfect.DF)
	assert.Equal(t, 4, perfect.N)

	independent := CramersV(
		[]string{"x", "x", "y", "y", "x", "x", "y", "y"},
		[]string{"p", "q", "p", "q", "p", "q", "p", "q"},
	)
	assert.InDelta(t, 0.0, independent.V, 1e-9)
	assert.InDelta(t, 1.0, independent.PValue, 1e-9)

	single := CramersV([]string{"x", "x"}, []string{"p", "q"})
	assert.True(t, math.IsNaN(single.V))
}

func TestOneWayANOVA(t *testing.T) {
	res := OneWayANOVA(
		[]string{"a", "a", "a", "b", "b", "b", ""},
		[]float64{1, 2, 3, 10, 11, 12, 99},
	)
	assert.Equal(t, 6, res.N)
	assert.Equal(t, 1, res.DF1)
	assert.Equal(t, 4, res.DF2)
	assert.InDelta(t, 121.5, res.F, 1e-9)
	assert.InDelta(t, math.Sqrt(121.5/125.5), res.Eta, 1e-9)
	assert.Less(t, res.PValue, 0.001)
	require.Len(t, res.Groups, 2)
	assert.Equal(t, "a", res.Groups[0].Group)
	assert.InDelta(t, 2.0, res.Groups[0].Mean, 1e-9)
}

func TestKSAndTotalVariation(t *testing.T) {
	assert.InDelta(t, 0.0, KSStatistic([]float64{1, 2, 3}, []float64{3, 2, 1}), 1e-9)
	assert.InDelta(t, 1.0, KSStatistic([]float64{1, 2, 3}, []float64{10, 11, 12}), 1e-9)

	assert.InDelta(t, 0.5, TotalVariation([]string{"a", "a", "b", "b"}, []string{"a", "a", "a", "a"}), 1e-9)
	assert.InDelta(t, 0.0, TotalVariation([]string{"a", "b"}, []string{"b", "a", ""}), 1e-9)
	assert.True(t, math.IsNaN(TotalVariation(nil, []string{"a"})))
}

func TestPValueHelpers(t *testing.T) {
	assert.Equal(t, 1.0, KolmogorovPValue(0, 10, 10))
	assert.Less(t, KolmogorovPValue(0.9, 200, 200), 1e-6)
	assert.Equal(t, 1.0, FTestPValue(2, 0, 10))
	assert.InDelta(t, 0.05, ChiSquarePValue(3.841, 1), 1e-3)
	assert.Equal(t, 0.0, CorrelationPValue(1, 10))
	assert.Greater(t, CorrelationPValue(0.1, 10), 0.5)
}

func TestNewHistogram(t *testing.T) {
	data := []float64{5, 1, 2, 3, 4, 5, 2}
	h := NewHistogram(data, 4)
	require.Len(t, h.Edges, 5)
	require.Len(t, h.Counts, 4)

	total := 0.0
	for _, c := range h.Counts {
		total += c
	}
	assert.Equal(t, float64(len(data)), total)
	assert.Equal(t, 1.0, h.Edges[0])

	constant := NewHistogram([]float64{7, 7, 7}, 10)
	assert.Equal(t, []float64{3}, constant.Counts)
	assert.Equal(t, 3.0, constant.MaxCount())

	assert.Empty(t, NewHistogram(nil, 10).Counts)
}

func TestNewHistogramSpansExtremeRange(t *testing.T) {
	data := []float64{-1e308, 1e308, 0}
	h := NewHistogram(data, DefaultBins)
	require.Len(t, h.Edges, DefaultBins+1)
	assert.True(t, sort.Float64sAreSorted(h.Edges))
	for _, e := range h.Edges {
		assert.False(t, math.IsInf(e, 0) || math.IsNaN(e), "edge %v", e)
	}
	assert.Equal(t, 3.0, floats.Sum(h.Counts))

	assert.Empty(t, NewHistogram([]float64{1, math.Inf(1)}, 4).Counts)
}

func TestCompareColumnsExtremeRange(t *testing.T) {
	left := numericColumn("a", -1e308, 0, 1)
	right := numericColumn("a", 2, 1e308, 3)
	d := CompareColumns(left, right, DefaultBins)
	require.NotNil(t, d.Left.Histogram)
	require.NotNil(t, d.Right.Histogram)
	assert.Equal(t, d.Left.Histogram.Edges, d.Right.Histogram.Edges)
	assert.Equal(t, 3.0, floats.Sum(d.Right.Histogram.Counts))
}

func TestSummarizeShortNumericColumns(t *testing.T) {
	tests := []struct {
		name     string
		vals     []float64
		q25, q75 float64
	}{
		{"one value", []float64{5}, 5, 5},
		{"two values", []float64{1, 2}, 1, 1.5},
		{"three values", []float64{1, 2, 3}, 1, 2.25},
		{"zeros", []float64{0, 0, 5}, 0, 1.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Summarize(numericColumn("x", tt.vals...), DefaultBins)
			require.NotNil(t, s.Numeric)
			assert.InDelta(t, tt.q25, s.Numeric.Q25, 1e-9)
			assert.InDelta(t, tt.q75, s.Numeric.Q75, 1e-9)
			assert.InDelta(t, tt.q75-tt.q25, s.Numeric.IQR, 1e-9)

			_, err := json.Marshal(s)
			assert.NoError(t, err)
		})
	}
}

func TestSummarizeNumeric(t *testing.T) {
	col := numericColumn("price", 0, 2, 4, 6, 8, math.NaN())
	s := Summarize(col, 5)

	assert.Equal(t, 5, s.Count)
	assert.Equal(t, 1, s.Missing)
	assert.InDelta(t, 1.0/6, s.MissingRatio, 1e-9)
	require.NotNil(t, s.Numeric)
	assert.InDelta(t, 4.0, s.Numeric.Mean, 1e-9)
	assert.InDelta(t, 4.0, s.Numeric.Median, 1e-9)
	assert.Equal(t, 0.0, s.Numeric.Min)
	assert.Equal(t, 8.0, s.Numeric.Max)
	assert.Equal(t, 20.0, s.Numeric.Sum)
	assert.Equal(t, 1, s.Numeric.Zeros)
	assert.InDelta(t, math.Sqrt(10), s.Numeric.StdDev, 1e-9)
	require.NotNil(t, s.Histogram)
	assert.Len(t, s.Histogram.Counts, 5)

	noHist := Summarize(col, 0)
	assert.Nil(t, noHist.Histogram)
}

func TestSummarizeCategorical(t *testing.T) {
	s := Summarize(categoricalColumn("region", "n", "n", "s", ""), 10)
	require.NotNil(t, s.Categorical)
	assert.Equal(t, "n", s.Categorical.Mode)
	assert.Equal(t, 2, s.Categorical.ModeCount)
	assert.Equal(t, 2, s.Distinct)
	assert.InDelta(t, 0.9183, s.Categorical.Entropy, 1e-3)
	assert.Nil(t, s.Histogram)
}

func TestMissingness(t *testing.T) {
	tbl := newTable("t",
		numericColumn("a", 1, math.NaN(), 3),
		categoricalColumn("b", "x", "", ""),
	)
	r := Missingness(tbl)
	assert.Equal(t, 6, r.TotalCells)
	assert.Equal(t, 3, r.MissingCells)
	assert.Equal(t, 2, r.RowsWithMissing)
	assert.Equal(t, 1, r.CompleteRows)
	assert.Equal(t, [][]bool{{false, false}, {true, true}, {false, true}}, r.Matrix)

	assert.Len(t, evenlySpaced(1000, 200), 200)
	assert.Equal(t, []int{0, 1, 2}, evenlySpaced(3, 200))
}

func TestColumnAlerts(t *testing.T) {
	summaries := []ColumnSummary{
		Summarize(categoricalColumn("flag", "y", "y", "y", "y"), 0),
		Summarize(numericColumn("sparse", 1, math.NaN(), math.NaN(), 4), 0),
	}
	alerts := ColumnAlerts(summaries)

	kinds := map[AlertKind]string{}
	for _, a := range alerts {
		kinds[a.Kind] = a.Column
	}
	assert.Equal(t, "flag", kinds[AlertConstant])
	assert.Equal(t, "sparse", kinds[AlertMissing])
}

func sampleTable() *table.Table {
	return newTable("sales",
		numericColumn("price", 10, 20, 30, 40, 50, 60),
		numericColumn("cost", 5, 10, 15, 20, 25, 30),
		categoricalColumn("region", "n", "s", "n", "s", "n", "s"),
		categoricalColumn("tier", "a", "b", "a", "b", "a", "b"),
	)
}

func TestBuildProfile(t *testing.T) {
	ctx := context.Background()

	full, err := BuildProfile(ctx, sampleTable(), DefaultProfileOptions())
	require.NoError(t, err)
	assert.Equal(t, 6, full.Overview.Rows)
	assert.Equal(t, 4, full.Overview.Columns)
	assert.Equal(t, 2, full.Overview.TypeCounts[table.TypeNumeric])
	require.NotNil(t, full.Pearson)
	assert.InDelta(t, 1.0, full.Pearson.At(0, 1), 1e-9)
	require.NotNil(t, full.CramersV)
	require.NotNil(t, full.Missing)
	require.NotEmpty(t, full.Interactions)
	assert.Equal(t, "price", full.Interactions[0].A)

	var highCorr int
	for _, a := range full.Alerts {
		if a.Kind == AlertHighCorrelation {
			highCorr++
		}
	}
	assert.Equal(t, 2, highCorr)

	opts := DefaultProfileOptions()
	opts.Minimal = true
	minimal, err := BuildProfile(ctx, sampleTable(), opts)
	require.NoError(t, err)
	assert.True(t, minimal.Minimal)
	assert.Nil(t, minimal.Pearson)
	assert.Nil(t, minimal.Missing)
	assert.Nil(t, minimal.Columns[0].Histogram)
	assert.Len(t, minimal.Head, 6)
}

func TestBuildProfileHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := BuildProfile(ctx, sampleTable(), DefaultProfileOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildTargetProfile(t *testing.T) {
	p, err := BuildTargetProfile(context.Background(), sampleTable(), "price", DefaultBins)
	require.NoError(t, err)
	assert.Equal(t, "price", p.Target.Name)
	require.Len(t, p.Associations, 3)
	assert.Equal(t, "cost", p.Associations[0].Feature)
	assert.Equal(t, "pearson", p.Associations[0].Method)
	assert.InDelta(t, 1.0, p.Associations[0].Strength, 1e-9)

	_, err = BuildTargetProfile(context.Background(), sampleTable(), "Z", DefaultBins)
	require.Error(t, err)
	var compErr ComputationError
	assert.True(t, errors.As(err, &compErr))
	assert.Contains(t, err.Error(), `"Z"`)
}

func TestAssociateDiscreteTarget(t *testing.T) {
	target := categoricalColumn("churn", "yes", "no", "yes", "no", "yes", "no")
	a := Associate(categoricalColumn("tier", "a", "b", "a", "b", "a", "b"), target)
	assert.Equal(t, "cramers_v", a.Method)
	assert.InDelta(t, 1.0, a.Strength, 1e-9)
	require.Len(t, a.Groups, 2)

	num := Associate(numericColumn("spend", 1, 9, 2, 8, 3, 7), target)
	assert.Equal(t, "correlation_ratio", num.Method)
	assert.Greater(t, num.Strength, 0.9)

	text := Associate(&table.Column{Name: "notes", Type: table.TypeText, Values: make([]string, 6)}, target)
	assert.False(t, text.Supported())
}

func TestBuildComparison(t *testing.T) {
	left := sampleTable()
	right := newTable("other",
		numericColumn("price", 110, 120, 130, 140, 150, 160),
		categoricalColumn("region", "n", "n", "n", "n", "n", "s"),
		categoricalColumn("channel", "web", "web", "app", "app", "web", "app"),
	)

	p, err := BuildComparison(context.Background(), left, right, "", DefaultBins)
	require.NoError(t, err)
	assert.Equal(t, []string{"price", "region"}, p.Schema.Shared)
	assert.Equal(t, []string{"cost", "tier"}, p.Schema.LeftOnly)
	assert.Equal(t, []string{"channel"}, p.Schema.RightOnly)

	require.Len(t, p.Drifts, 2)
	assert.Equal(t, "ks", p.Drifts[0].Method)
	assert.InDelta(t, 1.0, p.Drifts[0].Statistic, 1e-9)
	require.NotNil(t, p.Drifts[0].Left.Histogram)
	assert.Equal(t, p.Drifts[0].Left.Histogram.Edges, p.Drifts[0].Right.Histogram.Edges)
	assert.Equal(t, "tv", p.Drifts[1].Method)
	assert.True(t, p.Drifts[1].Shifted())

	withTarget, err := BuildComparison(context.Background(), left, right, "price", DefaultBins)
	require.NoError(t, err)
	assert.Contains(t, withTarget.LeftTarget, "region")
	assert.Contains(t, withTarget.RightTarget, "region")

	_, err = BuildComparison(context.Background(), left, right, "cost", DefaultBins)
	assert.Error(t, err)
}
