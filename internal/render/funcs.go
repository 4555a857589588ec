package render

import (
	"fmt"
	"html/template"
	"math"
	"strconv"
	"strings"
	"time"

	"edadash/domain/table"
	"edadash/internal/analysis"
)

var typeOrder = []table.ColumnType{
	table.TypeNumeric, table.TypeCategorical, table.TypeBoolean, table.TypeTemporal, table.TypeText,
}

var funcMap = template.FuncMap{
	"num":       formatNumber,
	"pct":       formatPercent,
	"pvalue":    formatP,
	"mb":        func(b int64) string { return fmt.Sprintf("%.2f MB", float64(b)/(1024*1024)) },
	"date":      func(t time.Time) string { return t.Format("2006-01-02 15:04") },
	"duration":  formatDuration,
	"method":    methodLabel,
	"markdown":  Markdown,
	"histogram": HistogramSVG,
	"overlay":   OverlaySVG,
	"bars":      BarsSVG,
	"nullity":   NullitySVG,
	"heat":      heatStyle,
	"add":       func(a, b int) int { return a + b },
	"anchor":    anchor,
	"typecount": func(o analysis.Overview, t string) int { return o.TypeCounts[table.ColumnType(t)] },
}

func formatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "–"
	case math.IsInf(v, 1):
		return "∞"
	case math.IsInf(v, -1):
		return "-∞"
	case v == math.Trunc(v) && math.Abs(v) < 1e15:
		return strconv.FormatFloat(v, 'f', 0, 64)
	case math.Abs(v) >= 1e6 || math.Abs(v) < 1e-3:
		return strconv.FormatFloat(v, 'g', 4, 64)
	}
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func formatPercent(v float64) string {
	if math.IsNaN(v) {
		return "–"
	}
	return fmt.Sprintf("%.1f%%", 100*v)
}

func formatP(p float64) string {
	switch {
	case math.IsNaN(p):
		return "–"
	case p < 0.001:
		return "< 0.001"
	}
	return fmt.Sprintf("%.3f", p)
}

func formatDuration(d time.Duration) string {
	days := d.Hours() / 24
	if days >= 1 {
		return fmt.Sprintf("%.0f days", days)
	}
	return d.String()
}

func methodLabel(m string) string {
	switch m {
	case "pearson":
		return "Pearson r"
	case "spearman":
		return "Spearman ρ"
	case "cramers_v":
		return "Cramér's V"
	case "correlation_ratio":
		return "Correlation ratio η"
	case "ks":
		return "KS statistic"
	case "tv":
		return "Total variation"
	}
	return m
}

// anchor turns a column name into an element id
func anchor(name string) string {
	var b strings.Builder
	b.WriteString("col-")
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

// heatStyle colors a correlation cell: blue for positive, red for negative
func heatStyle(v float64) template.CSS {
	if math.IsNaN(v) {
		return "background:#f3f3f3"
	}
	a := math.Min(1, math.Abs(v))
	if v >= 0 {
		return template.CSS(fmt.Sprintf("background:rgba(37,99,235,%.2f)", a))
	}
	return template.CSS(fmt.Sprintf("background:rgba(220,38,38,%.2f)", a))
}
