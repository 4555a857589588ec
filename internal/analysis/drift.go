package analysis

import (
	"math"
	"sort"

	"edadash/domain/table"

	"gonum.org/v1/gonum/stat"
)

// Drift compares one column across two datasets
type Drift struct {
	Column    string           `json:"column"`
	Type      table.ColumnType `json:"type"`
	Method    string           `json:"method"` // ks or tv
	Statistic float64          `json:"statistic"`
	PValue    float64          `json:"p_value"`
	Left      ColumnSummary    `json:"left"`
	Right     ColumnSummary    `json:"right"`
}

// Shifted reports whether the difference looks material
func (d Drift) Shifted() bool {
	switch d.Method {
	case "ks":
		return d.PValue < 0.05
	case "tv":
		return d.Statistic > 0.1
	}
	return false
}

// KSStatistic is the two-sample Kolmogorov-Smirnov distance
func KSStatistic(x, y []float64) float64 {
	if len(x) == 0 || len(y) == 0 {
		return math.NaN()
	}
	xs := append([]float64(nil), x...)
	ys := append([]float64(nil), y...)
	sort.Float64s(xs)
	sort.Float64s(ys)
	return stat.KolmogorovSmirnov(xs, nil, ys, nil)
}

// TotalVariation is half the L1 distance between the two value distributions
func TotalVariation(a, b []string) float64 {
	pa, na := proportions(a)
	pb, nb := proportions(b)
	if na == 0 || nb == 0 {
		return math.NaN()
	}
	d := 0.0
	for v, p := range pa {
		d += math.Abs(p - pb[v])
	}
	for v, p := range pb {
		if _, ok := pa[v]; !ok {
			d += p
		}
	}
	return d / 2
}

func proportions(values []string) (map[string]float64, int) {
	out := map[string]float64{}
	n := 0
	for _, v := range values {
		if v != "" {
			out[v]++
			n++
		}
	}
	for v := range out {
		out[v] /= float64(n)
	}
	return out, n
}

// CompareColumns measures drift between two same-named columns. Numeric
// columns use KS on both sides' parsed values; everything else uses total
// variation over raw values. The left column's type decides the method.
func CompareColumns(left, right *table.Column, bins int) Drift {
	d := Drift{
		Column: left.Name,
		Type:   left.Type,
		Left:   Summarize(left, bins),
		Right:  Summarize(right, bins),
	}

	if left.Type == table.TypeNumeric && right.HasNumbers() {
		x, y := left.Floats(), right.Floats()
		d.Method = "ks"
		d.Statistic = KSStatistic(x, y)
		d.PValue = KolmogorovPValue(d.Statistic, len(x), len(y))
		if bins > 0 && len(x) > 0 && len(y) > 0 {
			d.Left.Histogram, d.Right.Histogram = sharedHistograms(x, y, bins)
		}
		return d
	}

	d.Method = "tv"
	d.Statistic = TotalVariation(left.Values, right.Values)
	d.PValue = math.NaN()
	return d
}

// sharedHistograms bins both samples on the same edges so they can be overlaid
func sharedHistograms(x, y []float64, bins int) (*Histogram, *Histogram) {
	combined := make([]float64, 0, len(x)+len(y))
	combined = append(combined, x...)
	combined = append(combined, y...)
	edges := NewHistogram(combined, bins).Edges
	if len(edges) == 0 {
		return nil, nil
	}

	hx := binOn(edges, x)
	hy := binOn(edges, y)
	return &hx, &hy
}

func binOn(edges, data []float64) Histogram {
	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	return Histogram{Edges: edges, Counts: stat.Histogram(nil, edges, sorted, nil)}
}

// SchemaDiff lists columns present on only one side
type SchemaDiff struct {
	Shared    []string `json:"shared"`
	LeftOnly  []string `json:"left_only"`
	RightOnly []string `json:"right_only"`
}

// DiffColumns compares column names, preserving left then right order
func DiffColumns(left, right *table.Table) SchemaDiff {
	var d SchemaDiff
	for _, name := range left.ColumnNames() {
		if right.HasColumn(name) {
			d.Shared = append(d.Shared, name)
		} else {
			d.LeftOnly = append(d.LeftOnly, name)
		}
	}
	for _, name := range right.ColumnNames() {
		if !left.HasColumn(name) {
			d.RightOnly = append(d.RightOnly, name)
		}
	}
	return d
}
