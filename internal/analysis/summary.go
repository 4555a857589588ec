package analysis

import (
	"math"
	"sort"
	"time"
	"unicode/utf8"

	"edadash/domain/table"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// TopValueLimit is how many frequent values a discrete summary keeps
const TopValueLimit = 10

// ColumnSummary is the univariate description of one column
type ColumnSummary struct {
	Name          string           `json:"name"`
	Type          table.ColumnType `json:"type"`
	Count         int              `json:"count"`
	Missing       int              `json:"missing"`
	MissingRatio  float64          `json:"missing_ratio"`
	Distinct      int              `json:"distinct"`
	DistinctRatio float64          `json:"distinct_ratio"`

	Numeric     *NumericSummary     `json:"numeric,omitempty"`
	Categorical *CategoricalSummary `json:"categorical,omitempty"`
	Temporal    *TemporalSummary    `json:"temporal,omitempty"`
	Text        *TextSummary        `json:"text,omitempty"`
	Histogram   *Histogram          `json:"histogram,omitempty"`
}

// NumericSummary holds moments, quantiles and quality measures
type NumericSummary struct {
	Mean       float64 `json:"mean"`
	StdDev     float64 `json:"std_dev"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	Sum        float64 `json:"sum"`
	Median     float64 `json:"median"`
	Q25        float64 `json:"q25"`
	Q75        float64 `json:"q75"`
	IQR        float64 `json:"iqr"`
	CV         float64 `json:"cv"`
	Skewness   float64 `json:"skewness"`
	Kurtosis   float64 `json:"kurtosis"` // excess
	Zeros      int     `json:"zeros"`
	ZerosRatio float64 `json:"zeros_ratio"`
	Negatives  int     `json:"negatives"`
	Outliers   int     `json:"outliers"`
	IsNormal   bool    `json:"is_normal"`
	NormalityP float64 `json:"normality_p"`
}

// CategoricalSummary describes discrete value frequencies
type CategoricalSummary struct {
	Top       []table.ValueCount `json:"top"`
	Mode      string             `json:"mode"`
	ModeCount int                `json:"mode_count"`
	Entropy   float64            `json:"entropy"`
	Gini      float64            `json:"gini"`
}

// TemporalSummary describes the range of a date column
type TemporalSummary struct {
	Min  time.Time     `json:"min"`
	Max  time.Time     `json:"max"`
	Span time.Duration `json:"span"`
}

// TextSummary describes free-text lengths
type TextSummary struct {
	MinLength  int                `json:"min_length"`
	MaxLength  int                `json:"max_length"`
	MeanLength float64            `json:"mean_length"`
	Top        []table.ValueCount `json:"top"`
}

// Summarize describes one column. Histograms are only built when bins > 0.
func Summarize(col *table.Column, bins int) ColumnSummary {
	s := ColumnSummary{
		Name:     col.Name,
		Type:     col.Type,
		Missing:  col.MissingCount(),
		Distinct: col.DistinctCount(),
	}
	s.Count = col.Len() - s.Missing
	if col.Len() > 0 {
		s.MissingRatio = float64(s.Missing) / float64(col.Len())
	}
	if s.Count > 0 {
		s.DistinctRatio = float64(s.Distinct) / float64(s.Count)
	}

	switch col.Type {
	case table.TypeNumeric:
		data := col.Floats()
		if num, err := summarizeNumeric(data); err == nil {
			s.Numeric = num
			if bins > 0 {
				h := NewHistogram(data, bins)
				s.Histogram = &h
			}
		}
	case table.TypeCategorical, table.TypeBoolean:
		s.Categorical = summarizeCategorical(col)
	case table.TypeTemporal:
		s.Temporal = summarizeTemporal(col.Times)
		if bins > 0 && s.Temporal != nil {
			h := NewHistogram(unixSeconds(col.Times), bins)
			s.Histogram = &h
		}
	default:
		s.Text = summarizeText(col)
	}
	return s
}

// summarizeNumeric computes the summary of non-missing numeric values.
// Quartiles interpolate linearly, so they stay defined for very short columns.
func summarizeNumeric(data []float64) (*NumericSummary, error) {
	mean, err := stats.Mean(data)
	if err != nil {
		return nil, err
	}
	sum, err := stats.Sum(data)
	if err != nil {
		return nil, err
	}
	median, err := stats.Median(data)
	if err != nil {
		return nil, err
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	q25 := stat.Quantile(0.25, stat.LinInterp, sorted, nil)
	q75 := stat.Quantile(0.75, stat.LinInterp, sorted, nil)

	s := &NumericSummary{
		Mean:   mean,
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Sum:    sum,
		Median: median,
		Q25:    q25,
		Q75:    q75,
		IQR:    q75 - q25,
	}

	if len(data) > 1 {
		if s.StdDev, err = stats.StandardDeviationSample(data); err != nil {
			return nil, err
		}
	}
	if mean != 0 {
		s.CV = s.StdDev / math.Abs(mean)
	}
	if len(data) >= 3 && s.StdDev > 0 {
		s.Skewness = stat.Skew(data, nil)
	}
	if len(data) >= 4 && s.StdDev > 0 {
		s.Kurtosis = stat.ExKurtosis(data, nil)
	}

	for _, x := range data {
		if x == 0 {
			s.Zeros++
		}
		if x < 0 {
			s.Negatives++
		}
	}
	s.ZerosRatio = float64(s.Zeros) / float64(len(data))
	s.Outliers = countOutliers(data, q25, q75)
	if s.StdDev > 0 {
		s.IsNormal, s.NormalityP = testNormality(data, s.Skewness, s.Kurtosis)
	} else {
		s.NormalityP = 1.0
	}
	return s, nil
}

// countOutliers uses the 1.5 IQR fences
func countOutliers(data []float64, q25, q75 float64) int {
	iqr := q75 - q25
	lower := q25 - 1.5*iqr
	upper := q75 + 1.5*iqr

	n := 0
	for _, x := range data {
		if x < lower || x > upper {
			n++
		}
	}
	return n
}

func summarizeCategorical(col *table.Column) *CategoricalSummary {
	freq := col.Frequencies()
	total := 0
	for _, n := range freq {
		total += n
	}

	s := &CategoricalSummary{Top: col.TopValues(TopValueLimit)}
	if len(s.Top) > 0 {
		s.Mode = s.Top[0].Value
		s.ModeCount = s.Top[0].Count
	}
	if total == 0 {
		return s
	}

	sumSquares := 0.0
	for _, count := range freq {
		p := float64(count) / float64(total)
		s.Entropy -= p * math.Log2(p)
		sumSquares += p * p
	}
	s.Gini = 1.0 - sumSquares
	return s
}

func summarizeTemporal(times []time.Time) *TemporalSummary {
	var s *TemporalSummary
	for _, ts := range times {
		if ts.IsZero() {
			continue
		}
		if s == nil {
			s = &TemporalSummary{Min: ts, Max: ts}
			continue
		}
		if ts.Before(s.Min) {
			s.Min = ts
		}
		if ts.After(s.Max) {
			s.Max = ts
		}
	}
	if s != nil {
		s.Span = s.Max.Sub(s.Min)
	}
	return s
}

func summarizeText(col *table.Column) *TextSummary {
	s := &TextSummary{Top: col.TopValues(TopValueLimit)}
	total, n := 0, 0
	for _, v := range col.Values {
		if v == "" {
			continue
		}
		l := utf8.RuneCountInString(v)
		if n == 0 || l < s.MinLength {
			s.MinLength = l
		}
		if l > s.MaxLength {
			s.MaxLength = l
		}
		total += l
		n++
	}
	if n > 0 {
		s.MeanLength = float64(total) / float64(n)
	}
	return s
}

func unixSeconds(times []time.Time) []float64 {
	out := make([]float64, 0, len(times))
	for _, ts := range times {
		if !ts.IsZero() {
			out = append(out, float64(ts.Unix()))
		}
	}
	sort.Float64s(out)
	return out
}
