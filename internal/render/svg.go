package render

import (
	"fmt"
	"html"
	"html/template"
	"strings"

	"edadash/domain/table"
	"edadash/internal/analysis"
)

const (
	chartWidth  = 360
	chartHeight = 140
	chartPad    = 18
)

// HistogramSVG draws bin counts as an inline bar chart
func HistogramSVG(h *analysis.Histogram) template.HTML {
	if h == nil || len(h.Counts) == 0 {
		return ""
	}
	var b strings.Builder
	openSVG(&b, chartWidth, chartHeight)
	drawBins(&b, h, h.MaxCount(), "#2563eb", 0.85)
	drawRange(&b, h)
	b.WriteString("</svg>")
	return template.HTML(b.String())
}

// OverlaySVG draws two histograms on shared edges, left in blue and right in orange.
// Heights are normalized to each side's total so different row counts compare.
func OverlaySVG(left, right *analysis.Histogram) template.HTML {
	if !sameEdges(left, right) {
		return HistogramSVG(left)
	}
	l, r := normalize(left), normalize(right)
	max := l.MaxCount()
	if rm := r.MaxCount(); rm > max {
		max = rm
	}

	var b strings.Builder
	openSVG(&b, chartWidth, chartHeight)
	drawBins(&b, &l, max, "#2563eb", 0.55)
	drawBins(&b, &r, max, "#f97316", 0.55)
	drawRange(&b, left)
	b.WriteString("</svg>")
	return template.HTML(b.String())
}

func sameEdges(a, b *analysis.Histogram) bool {
	if a == nil || b == nil || len(a.Counts) == 0 || len(a.Edges) != len(b.Edges) {
		return false
	}
	for i := range a.Edges {
		if a.Edges[i] != b.Edges[i] {
			return false
		}
	}
	return true
}

func normalize(h *analysis.Histogram) analysis.Histogram {
	total := 0.0
	for _, c := range h.Counts {
		total += c
	}
	out := analysis.Histogram{Edges: h.Edges, Counts: make([]float64, len(h.Counts))}
	if total == 0 {
		return out
	}
	for i, c := range h.Counts {
		out.Counts[i] = c / total
	}
	return out
}

// BarsSVG draws horizontal frequency bars for top values
func BarsSVG(values []table.ValueCount) template.HTML {
	if len(values) == 0 {
		return ""
	}
	const rowH = 18
	height := rowH*len(values) + 4
	maxCount := values[0].Count
	for _, v := range values {
		if v.Count > maxCount {
			maxCount = v.Count
		}
	}

	var b strings.Builder
	openSVG(&b, chartWidth, height)
	labelW := 120
	barSpace := float64(chartWidth - labelW - 50)
	for i, v := range values {
		y := i*rowH + 2
		w := barSpace * float64(v.Count) / float64(maxCount)
		fmt.Fprintf(&b, `<text x="%d" y="%d" class="lbl" text-anchor="end">%s</text>`, labelW-6, y+13, html.EscapeString(truncate(v.Value, 18)))
		fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%.1f" height="%d" fill="#2563eb" opacity="0.85"><title>%s: %d</title></rect>`,
			labelW, y, w, rowH-4, html.EscapeString(v.Value), v.Count)
		fmt.Fprintf(&b, `<text x="%.1f" y="%d" class="lbl">%d</text>`, float64(labelW)+w+4, y+13, v.Count)
	}
	b.WriteString("</svg>")
	return template.HTML(b.String())
}

// NullitySVG draws the sampled missing-value matrix: one column per variable,
// one row per sampled record, dark cells present and light cells missing.
func NullitySVG(m *analysis.MissingReport) template.HTML {
	if m == nil || len(m.Matrix) == 0 || len(m.Columns) == 0 {
		return ""
	}
	const width, height, header = 640, 220, 16
	cols := len(m.Columns)
	cellW := float64(width) / float64(cols)
	cellH := float64(height-header) / float64(len(m.Matrix))

	var b strings.Builder
	openSVG(&b, width, height)
	for j, c := range m.Columns {
		fmt.Fprintf(&b, `<text x="%.1f" y="12" class="lbl" text-anchor="middle">%s</text>`,
			cellW*(float64(j)+0.5), html.EscapeString(truncate(c.Name, int(cellW/7)+1)))
		fmt.Fprintf(&b, `<rect x="%.1f" y="%d" width="%.1f" height="%d" fill="#1f2937"/>`, cellW*float64(j)+1, header, cellW-2, height-header)
	}
	for i, row := range m.Matrix {
		for j, missing := range row {
			if missing {
				fmt.Fprintf(&b, `<rect x="%.1f" y="%.2f" width="%.1f" height="%.2f" fill="#f3f4f6"/>`,
					cellW*float64(j)+1, float64(header)+cellH*float64(i), cellW-2, cellH)
			}
		}
	}
	b.WriteString("</svg>")
	return template.HTML(b.String())
}

func openSVG(b *strings.Builder, w, h int) {
	fmt.Fprintf(b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d" role="img">`, w, h, w, h)
}

func drawBins(b *strings.Builder, h *analysis.Histogram, max float64, color string, opacity float64) {
	if max <= 0 {
		return
	}
	plotH := float64(chartHeight - chartPad)
	barW := float64(chartWidth) / float64(len(h.Counts))
	for i, c := range h.Counts {
		bh := plotH * c / max
		fmt.Fprintf(b, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" opacity="%.2f"><title>[%s, %s): %s</title></rect>`,
			barW*float64(i)+0.5, plotH-bh, barW-1, bh, color, opacity,
			formatNumber(h.Edges[i]), formatNumber(h.Edges[i+1]), formatNumber(c))
	}
}

func drawRange(b *strings.Builder, h *analysis.Histogram) {
	if len(h.Edges) == 0 {
		return
	}
	fmt.Fprintf(b, `<text x="0" y="%d" class="lbl">%s</text>`, chartHeight-4, formatNumber(h.Edges[0]))
	fmt.Fprintf(b, `<text x="%d" y="%d" class="lbl" text-anchor="end">%s</text>`, chartWidth, chartHeight-4, formatNumber(h.Edges[len(h.Edges)-1]))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
