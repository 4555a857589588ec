package analysis

import (
	"math"
	"sort"

	"edadash/domain/table"
)

// Association relates one feature column to the target column
type Association struct {
	Feature  string           `json:"feature"`
	Type     table.ColumnType `json:"type"`
	Method   string           `json:"method"` // pearson, correlation_ratio, cramers_v
	Strength float64          `json:"strength"`
	PValue   float64          `json:"p_value"`
	N        int              `json:"n"`
	// Groups holds per-category target means (numeric target) or per-class
	// feature means (discrete target).
	Groups []GroupMean `json:"groups,omitempty"`
}

// Supported reports whether the pair could be measured at all
func (a Association) Supported() bool {
	return a.Method != "" && !math.IsNaN(a.Strength)
}

// TargetIsNumeric reports whether target statistics use means rather than rates
func TargetIsNumeric(target *table.Column) bool {
	return target.Type == table.TypeNumeric
}

// Associate measures how strongly feature relates to target. Text and
// temporal features return an Association with an empty Method.
func Associate(feature, target *table.Column) Association {
	a := Association{Feature: feature.Name, Type: feature.Type, Strength: math.NaN(), PValue: 1.0}
	featureDiscrete := feature.Type.IsDiscrete()
	featureNumeric := feature.Type == table.TypeNumeric
	if !featureDiscrete && !featureNumeric {
		return a
	}

	switch {
	case TargetIsNumeric(target) && featureNumeric:
		x, y := PairedFloats(feature, target)
		a.Method = "pearson"
		a.N = len(x)
		a.Strength = Pearson(x, y)
		a.PValue = CorrelationPValue(a.Strength, a.N)

	case TargetIsNumeric(target) && featureDiscrete:
		res := OneWayANOVA(feature.Values, target.Numbers)
		a.Method = "correlation_ratio"
		a.N, a.Strength, a.PValue, a.Groups = res.N, res.Eta, res.PValue, res.Groups

	case target.Type.IsDiscrete() && featureNumeric:
		res := OneWayANOVA(target.Values, feature.Numbers)
		a.Method = "correlation_ratio"
		a.N, a.Strength, a.PValue, a.Groups = res.N, res.Eta, res.PValue, res.Groups

	case target.Type.IsDiscrete() && featureDiscrete:
		res := CramersV(feature.Values, target.Values)
		a.Method = "cramers_v"
		a.N, a.Strength, a.PValue = res.N, res.V, res.PValue
		a.Groups = targetRates(feature, target)
	}
	return a
}

// targetRates returns, per feature category, the share of rows carrying the
// target's most frequent class.
func targetRates(feature, target *table.Column) []GroupMean {
	top := target.TopValues(1)
	if len(top) == 0 {
		return nil
	}
	positive := top[0].Value
	if target.Type == table.TypeBoolean && target.HasNumbers() {
		// Rate of true for boolean targets.
		for i, v := range target.Numbers {
			if v == 1 {
				positive = target.Values[i]
				break
			}
		}
	}

	hits := map[string]int{}
	counts := map[string]int{}
	for i, g := range feature.Values {
		if g == "" || target.Values[i] == "" {
			continue
		}
		counts[g]++
		if target.Values[i] == positive {
			hits[g]++
		}
	}

	out := make([]GroupMean, 0, len(counts))
	for g, n := range counts {
		out = append(out, GroupMean{Group: g, Count: n, Mean: float64(hits[g]) / float64(n)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Group < out[j].Group
	})
	return out
}

// RankAssociations orders supported associations by strength, strongest first.
// Unsupported pairs keep their relative order at the end.
func RankAssociations(in []Association) []Association {
	out := append([]Association(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := out[i].Supported(), out[j].Supported()
		if si != sj {
			return si
		}
		if !si {
			return false
		}
		return math.Abs(out[i].Strength) > math.Abs(out[j].Strength)
	})
	return out
}
