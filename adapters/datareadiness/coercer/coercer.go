package coercer

import (
	"math"
	"strconv"
	"strings"
	"time"

	"edadash/domain/table"
)

// TypeCoercer infers column types and parses cells into typed values
type TypeCoercer struct {
	config CoercionConfig
}

// CoercionConfig defines the coercion thresholds and rules
type CoercionConfig struct {
	NumericThreshold   float64 `json:"numeric_threshold"`   // % of values that must parse as numbers
	BooleanThreshold   float64 `json:"boolean_threshold"`   // % of values that must parse as booleans
	TimestampThreshold float64 `json:"timestamp_threshold"` // % of values that must parse as timestamps
	MaxCategories      int     `json:"max_categories"`      // Distinct values above this are free text
	CodeMaxDistinct    int     `json:"code_max_distinct"`   // Integer columns at or below this may be codes
	CodeUniqueRatio    float64 `json:"code_unique_ratio"`   // ...when distinct/valid is below this
	SampleSize         int     `json:"sample_size"`         // Rows inspected for inference
}

// DefaultCoercionConfig returns sensible defaults
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		NumericThreshold:   0.8,
		BooleanThreshold:   0.9,
		TimestampThreshold: 0.8,
		MaxCategories:      100,
		CodeMaxDistinct:    20,
		CodeUniqueRatio:    0.1,
		SampleSize:         500,
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	return &TypeCoercer{config: config}
}

// TypeAnalysis contains the results of type distribution analysis
type TypeAnalysis struct {
	TotalCount      int              `json:"total_count"`
	ValidCount      int              `json:"valid_count"`
	NumericCount    int              `json:"numeric_count"`
	IntegerCount    int              `json:"integer_count"`
	BooleanCount    int              `json:"boolean_count"`
	TimestampCount  int              `json:"timestamp_count"`
	DistinctCount   int              `json:"distinct_count"`
	NumericRatio    float64          `json:"numeric_ratio"`
	BooleanRatio    float64          `json:"boolean_ratio"`
	TimestampRatio  float64          `json:"timestamp_ratio"`
	RecommendedType table.ColumnType `json:"recommended_type"`
}

// AnalyzeTypeDistribution counts how many non-missing cells parse as each type
// and recommends a column type.
func (c *TypeCoercer) AnalyzeTypeDistribution(values []string) TypeAnalysis {
	analysis := TypeAnalysis{TotalCount: len(values)}
	distinct := make(map[string]struct{})

	for _, v := range values {
		if v == "" {
			continue
		}
		analysis.ValidCount++
		distinct[v] = struct{}{}

		if n, ok := ParseNumber(v); ok {
			analysis.NumericCount++
			if n == math.Trunc(n) {
				analysis.IntegerCount++
			}
		}
		if _, ok := ParseBool(v); ok {
			analysis.BooleanCount++
		}
		if _, ok := ParseTime(v); ok {
			analysis.TimestampCount++
		}
	}

	analysis.DistinctCount = len(distinct)
	if analysis.ValidCount > 0 {
		valid := float64(analysis.ValidCount)
		analysis.NumericRatio = float64(analysis.NumericCount) / valid
		analysis.BooleanRatio = float64(analysis.BooleanCount) / valid
		analysis.TimestampRatio = float64(analysis.TimestampCount) / valid
	}

	analysis.RecommendedType = c.determineRecommendedType(analysis)
	return analysis
}

// determineRecommendedType chooses the best type based on analysis. Boolean
// words win over numeric so that 0/1 flags mixed with yes/no stay boolean;
// integer columns with very few distinct values are treated as category codes.
func (c *TypeCoercer) determineRecommendedType(a TypeAnalysis) table.ColumnType {
	if a.ValidCount == 0 {
		return table.TypeText
	}

	if a.BooleanRatio >= c.config.BooleanThreshold && a.DistinctCount <= 2 {
		return table.TypeBoolean
	}

	if a.NumericRatio >= c.config.NumericThreshold {
		uniqueRatio := float64(a.DistinctCount) / float64(a.ValidCount)
		if a.IntegerCount == a.NumericCount && a.DistinctCount <= c.config.CodeMaxDistinct && uniqueRatio < c.config.CodeUniqueRatio {
			return table.TypeCategorical
		}
		return table.TypeNumeric
	}

	if a.TimestampRatio >= c.config.TimestampThreshold {
		return table.TypeTemporal
	}

	uniqueRatio := float64(a.DistinctCount) / float64(a.ValidCount)
	if a.DistinctCount <= c.config.MaxCategories && (a.DistinctCount <= 20 || uniqueRatio < 0.5) {
		return table.TypeCategorical
	}
	return table.TypeText
}

// CoerceColumn infers the column type from a stratified sample, then parses
// every cell into Numbers (numeric and boolean columns) or Times (temporal).
func (c *TypeCoercer) CoerceColumn(col *table.Column) TypeAnalysis {
	sample := make([]string, 0, c.config.SampleSize)
	for _, idx := range StratifiedSample(col.Len(), c.config.SampleSize) {
		sample = append(sample, col.Values[idx])
	}

	analysis := c.AnalyzeTypeDistribution(sample)
	col.Type = analysis.RecommendedType
	col.Numbers = nil
	col.Times = nil

	switch col.Type {
	case table.TypeNumeric:
		col.Numbers = make([]float64, col.Len())
		for i, v := range col.Values {
			col.Numbers[i] = math.NaN()
			if n, ok := ParseNumber(v); ok {
				col.Numbers[i] = n
			}
		}
	case table.TypeBoolean:
		col.Numbers = make([]float64, col.Len())
		for i, v := range col.Values {
			col.Numbers[i] = math.NaN()
			if b, ok := ParseBool(v); ok {
				col.Numbers[i] = 0
				if b {
					col.Numbers[i] = 1
				}
			}
		}
	case table.TypeTemporal:
		col.Times = make([]time.Time, col.Len())
		for i, v := range col.Values {
			if ts, ok := ParseTime(v); ok {
				col.Times[i] = ts
			}
		}
	}

	return analysis
}

// CoerceTable runs CoerceColumn over every column
func (c *TypeCoercer) CoerceTable(t *table.Table) map[string]TypeAnalysis {
	out := make(map[string]TypeAnalysis, len(t.Columns))
	for _, col := range t.Columns {
		out[col.Name] = c.CoerceColumn(col)
	}
	return out
}

// ParseNumber parses a cell as a number. It accepts currency symbols,
// percentage signs, parentheses for negatives, thousands separators and
// European decimal commas.
func ParseNumber(strVal string) (float64, bool) {
	cleanVal := strings.TrimSpace(strVal)
	if cleanVal == "" {
		return 0, false
	}

	isNegative := false
	if strings.HasPrefix(cleanVal, "(") && strings.HasSuffix(cleanVal, ")") {
		cleanVal = strings.TrimSuffix(strings.TrimPrefix(cleanVal, "("), ")")
		isNegative = true
	}

	for _, symbol := range []string{"$", "€", "£", "¥", "USD", "EUR", "GBP", "JPY"} {
		cleanVal = strings.ReplaceAll(cleanVal, symbol, "")
	}
	cleanVal = strings.TrimSpace(strings.ReplaceAll(cleanVal, "%", ""))
	if cleanVal == "" {
		return 0, false
	}

	hasComma := strings.Contains(cleanVal, ",")
	hasPeriod := strings.Contains(cleanVal, ".")
	hasSpace := strings.Contains(cleanVal, " ")

	switch {
	case hasComma && (hasPeriod || hasSpace):
		// 1.234,56 and 1 234,56 use the comma as the decimal separator when it
		// comes last with at most three digits after it.
		commaIdx := strings.LastIndex(cleanVal, ",")
		periodIdx := strings.LastIndex(cleanVal, ".")
		afterComma := cleanVal[commaIdx+1:]
		if commaIdx > periodIdx && len(afterComma) <= 3 && isDigits(afterComma) {
			cleanVal = strings.ReplaceAll(cleanVal, ".", "")
			cleanVal = strings.ReplaceAll(cleanVal, " ", "")
			cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
		} else {
			cleanVal = strings.ReplaceAll(cleanVal, ",", "")
			cleanVal = strings.ReplaceAll(cleanVal, " ", "")
		}
	case hasComma:
		// 1,000 is a thousands separator; 3,5 is a decimal comma.
		parts := strings.Split(cleanVal, ",")
		if len(parts) > 2 || len(parts[len(parts)-1]) == 3 {
			cleanVal = strings.ReplaceAll(cleanVal, ",", "")
		} else {
			cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
		}
	default:
		cleanVal = strings.ReplaceAll(cleanVal, " ", "")
	}

	if isNegative {
		cleanVal = "-" + cleanVal
	}

	val, err := strconv.ParseFloat(cleanVal, 64)
	if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ParseBool accepts true/false, yes/no, y/n, on/off and 1/0 in any case
func ParseBool(strVal string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(strVal)) {
	case "true", "1", "yes", "y", "on", "t":
		return true, true
	case "false", "0", "no", "n", "off", "f":
		return false, true
	}
	return false, false
}

// timestampFormats are tried in order
var timestampFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006",
	"01/02/2006 15:04",
	"2006/01/02",
	"02-Jan-2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// ParseTime attempts to parse a timestamp in one of the common layouts
func ParseTime(strVal string) (time.Time, bool) {
	strVal = strings.TrimSpace(strVal)
	if strVal == "" {
		return time.Time{}, false
	}
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, strVal); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// StratifiedSample returns evenly spaced row indices, all rows when the table
// is no larger than sampleSize.
func StratifiedSample(totalRows, sampleSize int) []int {
	if sampleSize <= 0 || sampleSize >= totalRows {
		indices := make([]int, totalRows)
		for i := range indices {
			indices[i] = i
		}
		return indices
	}

	indices := make([]int, 0, sampleSize)
	step := float64(totalRows) / float64(sampleSize)
	for i := 0; i < sampleSize; i++ {
		indices = append(indices, int(float64(i)*step))
	}
	return indices
}
