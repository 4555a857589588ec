package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultBins is the histogram resolution used by full reports
const DefaultBins = 20

// Histogram holds equal-width bin counts. Edges has one more entry than Counts.
type Histogram struct {
	Edges  []float64 `json:"edges"`
	Counts []float64 `json:"counts"`
}

// MaxCount returns the tallest bin
func (h Histogram) MaxCount() float64 {
	if len(h.Counts) == 0 {
		return 0
	}
	return floats.Max(h.Counts)
}

// NewHistogram bins data into equal-width buckets spanning its range. A
// constant column yields a single bin. Data containing infinities has no
// finite range and yields an empty histogram.
func NewHistogram(data []float64, bins int) Histogram {
	if len(data) == 0 || bins <= 0 {
		return Histogram{}
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) || math.IsNaN(lo) || math.IsNaN(hi) {
		return Histogram{}
	}
	if lo == hi {
		bins = 1
	}
	dividers := spanEdges(lo, hi, bins)
	counts := stat.Histogram(nil, dividers, sorted, nil)
	return Histogram{Edges: dividers, Counts: counts}
}

// spanEdges returns bins+1 sorted edges from lo to just past hi. The width is
// taken as hi/bins - lo/bins so ranges wider than MaxFloat64 do not overflow.
func spanEdges(lo, hi float64, bins int) []float64 {
	width := hi/float64(bins) - lo/float64(bins)
	edges := make([]float64, bins+1)
	for i := 0; i < bins; i++ {
		edges[i] = math.Min(lo+float64(i)*width, hi)
	}
	// The last divider is exclusive, so nudge it past the maximum.
	edges[bins] = math.Nextafter(hi, math.Inf(1))
	return edges
}
