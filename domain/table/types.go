package table

import (
	"math"
	"sort"
	"strings"
	"time"
)

// ColumnType is the inferred semantic type of a column
type ColumnType string

const (
	TypeNumeric     ColumnType = "numeric"
	TypeCategorical ColumnType = "categorical"
	TypeText        ColumnType = "text"
	TypeTemporal    ColumnType = "temporal"
	TypeBoolean     ColumnType = "boolean"
)

// IsValid reports whether t is one of the known column types
func (t ColumnType) IsValid() bool {
	switch t {
	case TypeNumeric, TypeCategorical, TypeText, TypeTemporal, TypeBoolean:
		return true
	}
	return false
}

// IsDiscrete reports whether values are best summarized by frequency counts.
func (t ColumnType) IsDiscrete() bool {
	return t == TypeCategorical || t == TypeBoolean
}

// Column holds one named column. Values are the trimmed cell texts with missing
// cells stored as "". Numbers and Times are aligned with Values when the reader
// could parse them: NaN and the zero time mark missing or unparseable cells.
type Column struct {
	Name    string      `json:"name"`
	Type    ColumnType  `json:"type"`
	Values  []string    `json:"-"`
	Numbers []float64   `json:"-"`
	Times   []time.Time `json:"-"`
}

// ValueCount represents a value and its frequency
type ValueCount struct {
	Value string  `json:"value"`
	Count int     `json:"count"`
	Ratio float64 `json:"ratio"`
}

// Len returns the number of cells in the column
func (c *Column) Len() int {
	return len(c.Values)
}

// IsMissing reports whether cell i is missing
func (c *Column) IsMissing(i int) bool {
	return c.Values[i] == ""
}

// MissingCount counts missing cells
func (c *Column) MissingCount() int {
	n := 0
	for _, v := range c.Values {
		if v == "" {
			n++
		}
	}
	return n
}

// Floats returns the parsed, non-missing numeric values in row order.
func (c *Column) Floats() []float64 {
	out := make([]float64, 0, len(c.Numbers))
	for _, v := range c.Numbers {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// HasNumbers reports whether the column carries parsed numeric values.
func (c *Column) HasNumbers() bool {
	return len(c.Numbers) == len(c.Values) && len(c.Values) > 0
}

// Frequencies counts non-missing values.
func (c *Column) Frequencies() map[string]int {
	freq := make(map[string]int)
	for _, v := range c.Values {
		if v != "" {
			freq[v]++
		}
	}
	return freq
}

// DistinctCount counts distinct non-missing values
func (c *Column) DistinctCount() int {
	return len(c.Frequencies())
}

// TopValues returns up to n most frequent non-missing values, ties broken by value.
// Ratios are relative to all cells including missing ones.
func (c *Column) TopValues(n int) []ValueCount {
	freq := c.Frequencies()
	out := make([]ValueCount, 0, len(freq))
	total := float64(len(c.Values))
	for v, count := range freq {
		ratio := 0.0
		if total > 0 {
			ratio = float64(count) / total
		}
		out = append(out, ValueCount{Value: v, Count: count, Ratio: ratio})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// naTokens are cell texts read as missing, matching common spreadsheet exports.
var naTokens = map[string]bool{
	"":         true,
	"#n/a":     true,
	"#n/a n/a": true,
	"#na":      true,
	"<na>":     true,
	"n/a":      true,
	"na":       true,
	"nan":      true,
	"-nan":     true,
	"null":     true,
	"none":     true,
}

// IsNAToken reports whether s is a missing-value marker
func IsNAToken(s string) bool {
	return naTokens[strings.ToLower(strings.TrimSpace(s))]
}
