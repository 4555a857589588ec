package analysis

import (
	"math"
	"sort"

	"edadash/domain/table"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// HighCorrelationThreshold flags near-redundant column pairs
const HighCorrelationThreshold = 0.9

// CorrelationMatrix is a symmetric association matrix over named columns.
// Undefined entries (too few pairs, zero variance) are NaN.
type CorrelationMatrix struct {
	Method  string      `json:"method"`
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

// At returns the entry for columns i and j
func (m CorrelationMatrix) At(i, j int) float64 {
	return m.Values[i][j]
}

// Pair is one off-diagonal matrix entry
type Pair struct {
	A      string  `json:"a"`
	B      string  `json:"b"`
	Method string  `json:"method"`
	Value  float64 `json:"value"`
}

// Pearson returns the Pearson coefficient, NaN when undefined
func Pearson(x, y []float64) float64 {
	if len(x) < 3 || len(x) != len(y) || isConstant(x) || isConstant(y) {
		return math.NaN()
	}
	r, err := stats.Pearson(x, y)
	if err != nil {
		return math.NaN()
	}
	return r
}

// Spearman returns the rank correlation with average ranks for ties
func Spearman(x, y []float64) float64 {
	if len(x) < 3 || len(x) != len(y) || isConstant(x) || isConstant(y) {
		return math.NaN()
	}
	return stat.Correlation(rank(x), rank(y), nil)
}

// rank assigns 1-based ranks, averaging ties
func rank(data []float64) []float64 {
	idx := make([]int, len(data))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return data[idx[a]] < data[idx[b]] })

	ranks := make([]float64, len(data))
	for i := 0; i < len(idx); {
		j := i
		for j+1 < len(idx) && data[idx[j+1]] == data[idx[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avg
		}
		i = j + 1
	}
	return ranks
}

func isConstant(data []float64) bool {
	for _, v := range data[1:] {
		if v != data[0] {
			return false
		}
	}
	return true
}

// PairedFloats returns the rows where both columns carry a parsed number
func PairedFloats(a, b *table.Column) (x, y []float64) {
	if !a.HasNumbers() || !b.HasNumbers() {
		return nil, nil
	}
	for i := range a.Numbers {
		if math.IsNaN(a.Numbers[i]) || math.IsNaN(b.Numbers[i]) {
			continue
		}
		x = append(x, a.Numbers[i])
		y = append(y, b.Numbers[i])
	}
	return x, y
}

// NumericMatrix builds a Pearson or Spearman matrix over pairwise-complete rows
func NumericMatrix(method string, cols []*table.Column) CorrelationMatrix {
	fn := Pearson
	if method == "spearman" {
		fn = Spearman
	}
	return buildMatrix(method, cols, func(a, b *table.Column) float64 {
		return fn(PairedFloats(a, b))
	})
}

// CramersVMatrix builds a Cramér's V matrix over discrete columns
func CramersVMatrix(cols []*table.Column) CorrelationMatrix {
	return buildMatrix("cramers_v", cols, func(a, b *table.Column) float64 {
		return CramersV(a.Values, b.Values).V
	})
}

func buildMatrix(method string, cols []*table.Column, fn func(a, b *table.Column) float64) CorrelationMatrix {
	m := CorrelationMatrix{Method: method, Columns: make([]string, len(cols)), Values: make([][]float64, len(cols))}
	for i, c := range cols {
		m.Columns[i] = c.Name
		m.Values[i] = make([]float64, len(cols))
		m.Values[i][i] = 1
	}
	for i := range cols {
		for j := i + 1; j < len(cols); j++ {
			v := fn(cols[i], cols[j])
			m.Values[i][j] = v
			m.Values[j][i] = v
		}
	}
	return m
}

// TopPairs returns up to n off-diagonal entries by absolute value
func TopPairs(m CorrelationMatrix, n int) []Pair {
	var pairs []Pair
	for i := range m.Columns {
		for j := i + 1; j < len(m.Columns); j++ {
			v := m.Values[i][j]
			if math.IsNaN(v) {
				continue
			}
			pairs = append(pairs, Pair{A: m.Columns[i], B: m.Columns[j], Method: m.Method, Value: v})
		}
	}
	sort.SliceStable(pairs, func(a, b int) bool {
		return math.Abs(pairs[a].Value) > math.Abs(pairs[b].Value)
	})
	if n > 0 && len(pairs) > n {
		pairs = pairs[:n]
	}
	return pairs
}

// ChiSquareResult is a test of independence between two discrete variables
type ChiSquareResult struct {
	N         int     `json:"n"`
	ChiSquare float64 `json:"chi_square"`
	DF        int     `json:"df"`
	PValue    float64 `json:"p_value"`
	V         float64 `json:"cramers_v"`
}

// CramersV computes Cramér's V over rows where both values are present.
// V is NaN when either side has fewer than two categories.
func CramersV(a, b []string) ChiSquareResult {
	res := ChiSquareResult{V: math.NaN(), PValue: 1.0}

	rowIdx := map[string]int{}
	colIdx := map[string]int{}
	type cell struct{ r, c int }
	counts := map[cell]float64{}
	for i := range a {
		if i >= len(b) || a[i] == "" || b[i] == "" {
			continue
		}
		r, ok := rowIdx[a[i]]
		if !ok {
			r = len(rowIdx)
			rowIdx[a[i]] = r
		}
		c, ok := colIdx[b[i]]
		if !ok {
			c = len(colIdx)
			colIdx[b[i]] = c
		}
		counts[cell{r, c}]++
		res.N++
	}

	k := len(rowIdx)
	if len(colIdx) < k {
		k = len(colIdx)
	}
	if k < 2 || res.N == 0 {
		return res
	}

	rowTotals := make([]float64, len(rowIdx))
	colTotals := make([]float64, len(colIdx))
	for key, n := range counts {
		rowTotals[key.r] += n
		colTotals[key.c] += n
	}

	n := float64(res.N)
	for r := range rowTotals {
		for c := range colTotals {
			expected := rowTotals[r] * colTotals[c] / n
			if expected == 0 {
				continue
			}
			diff := counts[cell{r, c}] - expected
			res.ChiSquare += diff * diff / expected
		}
	}

	res.DF = (len(rowIdx) - 1) * (len(colIdx) - 1)
	res.PValue = ChiSquarePValue(res.ChiSquare, res.DF)
	res.V = math.Min(1, math.Sqrt(res.ChiSquare/(n*float64(k-1))))
	return res
}

// GroupMean is the mean of a numeric variable within one category
type GroupMean struct {
	Group string  `json:"group"`
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
}

// ANOVAResult is a one-way analysis of variance
type ANOVAResult struct {
	N      int         `json:"n"`
	F      float64     `json:"f"`
	DF1    int         `json:"df1"`
	DF2    int         `json:"df2"`
	PValue float64     `json:"p_value"`
	Eta    float64     `json:"eta"` // correlation ratio
	Groups []GroupMean `json:"groups"`
}

// OneWayANOVA tests whether values differ across groups. Rows with an empty
// group or NaN value are skipped. Groups are ordered by size.
func OneWayANOVA(groups []string, values []float64) ANOVAResult {
	res := ANOVAResult{PValue: 1.0, Eta: math.NaN()}

	sums := map[string]float64{}
	counts := map[string]int{}
	var all []float64
	for i := range groups {
		if i >= len(values) || groups[i] == "" || math.IsNaN(values[i]) {
			continue
		}
		sums[groups[i]] += values[i]
		counts[groups[i]]++
		all = append(all, values[i])
	}
	res.N = len(all)

	for g, n := range counts {
		res.Groups = append(res.Groups, GroupMean{Group: g, Count: n, Mean: sums[g] / float64(n)})
	}
	sort.Slice(res.Groups, func(i, j int) bool {
		if res.Groups[i].Count != res.Groups[j].Count {
			return res.Groups[i].Count > res.Groups[j].Count
		}
		return res.Groups[i].Group < res.Groups[j].Group
	})

	k := len(res.Groups)
	if k < 2 || res.N <= k {
		return res
	}

	grand := stat.Mean(all, nil)
	ssTotal := 0.0
	for _, v := range all {
		ssTotal += (v - grand) * (v - grand)
	}
	ssBetween := 0.0
	for _, g := range res.Groups {
		ssBetween += float64(g.Count) * (g.Mean - grand) * (g.Mean - grand)
	}
	if ssTotal == 0 {
		return res
	}
	ssWithin := ssTotal - ssBetween

	res.Eta = math.Sqrt(ssBetween / ssTotal)
	res.DF1 = k - 1
	res.DF2 = res.N - k
	if ssWithin <= 0 {
		res.F = math.Inf(1)
		res.PValue = 0
		return res
	}
	res.F = (ssBetween / float64(res.DF1)) / (ssWithin / float64(res.DF2))
	res.PValue = FTestPValue(res.F, res.DF1, res.DF2)
	return res
}
