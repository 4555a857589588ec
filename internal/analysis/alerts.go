package analysis

import (
	"fmt"
	"math"
	"sort"

	"edadash/domain/table"
)

// AlertKind classifies a data quality warning
type AlertKind string

const (
	AlertMissing         AlertKind = "missing"
	AlertConstant        AlertKind = "constant"
	AlertUnique          AlertKind = "unique"
	AlertHighCardinality AlertKind = "high_cardinality"
	AlertSkewed          AlertKind = "skewed"
	AlertZeros           AlertKind = "zeros"
	AlertHighCorrelation AlertKind = "high_correlation"
	AlertDuplicates      AlertKind = "duplicates"
	AlertImbalance       AlertKind = "imbalance"
)

// Alert thresholds
const (
	MissingAlertRatio    = 0.05
	ZerosAlertRatio      = 0.10
	SkewAlertThreshold   = 2.0
	CardinalityThreshold = 50
	ImbalanceThreshold   = 0.9
)

// Alert is one data quality warning
type Alert struct {
	Kind    AlertKind `json:"kind"`
	Column  string    `json:"column,omitempty"`
	Message string    `json:"message"`
}

// ColumnAlerts derives warnings from column summaries
func ColumnAlerts(summaries []ColumnSummary) []Alert {
	var alerts []Alert
	for _, s := range summaries {
		if s.MissingRatio > MissingAlertRatio {
			alerts = append(alerts, Alert{AlertMissing, s.Name,
				fmt.Sprintf("`%s` has %d (%.1f%%) missing values", s.Name, s.Missing, 100*s.MissingRatio)})
		}
		if s.Distinct == 1 {
			alerts = append(alerts, Alert{AlertConstant, s.Name,
				fmt.Sprintf("`%s` has a constant value", s.Name)})
			continue
		}
		if s.Count > 1 && s.Distinct == s.Count && s.Type != table.TypeNumeric {
			alerts = append(alerts, Alert{AlertUnique, s.Name,
				fmt.Sprintf("`%s` has all unique values", s.Name)})
		} else if (s.Type == table.TypeCategorical || s.Type == table.TypeText) && s.Distinct > CardinalityThreshold {
			alerts = append(alerts, Alert{AlertHighCardinality, s.Name,
				fmt.Sprintf("`%s` has a high cardinality: %d distinct values", s.Name, s.Distinct)})
		}
		if n := s.Numeric; n != nil {
			if math.Abs(n.Skewness) > SkewAlertThreshold {
				alerts = append(alerts, Alert{AlertSkewed, s.Name,
					fmt.Sprintf("`%s` is highly skewed (γ1 = %.2f)", s.Name, n.Skewness)})
			}
			if n.ZerosRatio > ZerosAlertRatio {
				alerts = append(alerts, Alert{AlertZeros, s.Name,
					fmt.Sprintf("`%s` has %d (%.1f%%) zeros", s.Name, n.Zeros, 100*n.ZerosRatio)})
			}
		}
		if c := s.Categorical; c != nil && s.Distinct > 1 && s.Count > 0 {
			if share := float64(c.ModeCount) / float64(s.Count); share > ImbalanceThreshold {
				alerts = append(alerts, Alert{AlertImbalance, s.Name,
					fmt.Sprintf("`%s` is highly imbalanced (%.1f%% `%s`)", s.Name, 100*share, c.Mode)})
			}
		}
	}
	return alerts
}

// CorrelationAlerts flags column pairs above HighCorrelationThreshold
func CorrelationAlerts(matrices ...CorrelationMatrix) []Alert {
	var alerts []Alert
	for _, m := range matrices {
		for _, p := range TopPairs(m, 0) {
			if math.Abs(p.Value) < HighCorrelationThreshold {
				break
			}
			alerts = append(alerts, Alert{AlertHighCorrelation, p.A,
				fmt.Sprintf("`%s` is highly correlated with `%s` (%s = %.2f)", p.A, p.B, m.Method, p.Value)})
		}
	}
	return alerts
}

// DuplicateAlert flags repeated rows
func DuplicateAlert(o Overview) []Alert {
	if o.DuplicateRows == 0 {
		return nil
	}
	return []Alert{{Kind: AlertDuplicates, Message: fmt.Sprintf("Dataset has %d (%.1f%%) duplicate rows", o.DuplicateRows, 100*o.DuplicateRatio)}}
}

// SortAlerts groups alerts by kind, keeping column order within a kind
func SortAlerts(alerts []Alert) {
	order := map[AlertKind]int{
		AlertDuplicates: 0, AlertHighCorrelation: 1, AlertConstant: 2, AlertMissing: 3,
		AlertImbalance: 4, AlertSkewed: 5, AlertZeros: 6, AlertHighCardinality: 7, AlertUnique: 8,
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		return order[alerts[i].Kind] < order[alerts[j].Kind]
	})
}
