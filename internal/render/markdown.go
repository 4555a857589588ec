package render

import (
	"fmt"
	"html/template"
	"strings"

	"edadash/internal/analysis"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Markdown converts report narrative to HTML. Raw HTML in the source is
// dropped, so column names and cell values cannot inject markup.
func Markdown(src string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.NoEmptyLineBeforeBlock)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.SkipHTML})
	return template.HTML(markdown.ToHTML([]byte(src), p, r))
}

// AlertsMarkdown lists alerts as a markdown bullet list
func AlertsMarkdown(alerts []analysis.Alert) string {
	if len(alerts) == 0 {
		return "No data quality warnings.\n"
	}
	var b strings.Builder
	for _, a := range alerts {
		fmt.Fprintf(&b, "- **%s**: %s\n", alertLabel(a.Kind), a.Message)
	}
	return b.String()
}

func alertLabel(k analysis.AlertKind) string {
	switch k {
	case analysis.AlertHighCorrelation:
		return "High correlation"
	case analysis.AlertHighCardinality:
		return "High cardinality"
	}
	s := strings.ReplaceAll(string(k), "_", " ")
	return strings.ToUpper(s[:1]) + s[1:]
}

// OverviewMarkdown is the one-paragraph dataset description
func OverviewMarkdown(o analysis.Overview) string {
	var parts []string
	for _, ty := range typeOrder {
		if n := o.TypeCounts[ty]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, ty))
		}
	}
	return fmt.Sprintf("`%s` has **%d rows** and **%d columns** (%s). %.1f%% of cells are missing and %d rows are duplicates.\n",
		escapeCode(o.Name), o.Rows, o.Columns, strings.Join(parts, ", "), 100*o.MissingRatio, o.DuplicateRows)
}

// TargetMarkdown summarizes the strongest associations with the target
func TargetMarkdown(target string, assoc []analysis.Association, limit int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Target: `%s`.\n\n", escapeCode(target))
	n := 0
	for _, a := range assoc {
		if !a.Supported() || n == limit {
			continue
		}
		if n == 0 {
			b.WriteString("Strongest associations:\n\n")
		}
		fmt.Fprintf(&b, "1. `%s`: %s = %.3f (p = %s)\n", escapeCode(a.Feature), methodLabel(a.Method), a.Strength, formatP(a.PValue))
		n++
	}
	if n == 0 {
		b.WriteString("No column could be related to the target.\n")
	}
	return b.String()
}

// escapeCode keeps a name inside a single code span
func escapeCode(s string) string {
	return strings.ReplaceAll(s, "`", "'")
}

// ComparisonMarkdown summarizes schema differences and shifted columns
func ComparisonMarkdown(leftLabel, rightLabel string, p *analysis.ComparisonProfile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**: %d rows, %d columns. **%s**: %d rows, %d columns.\n\n",
		leftLabel, p.Left.Rows, p.Left.Columns, rightLabel, p.Right.Rows, p.Right.Columns)

	var shifted []string
	for _, d := range p.Drifts {
		if d.Shifted() {
			shifted = append(shifted, "`"+escapeCode(d.Column)+"`")
		}
	}
	fmt.Fprintf(&b, "%d shared columns", len(p.Schema.Shared))
	if len(shifted) > 0 {
		fmt.Fprintf(&b, ", distribution shift in %s", strings.Join(shifted, ", "))
	}
	b.WriteString(".\n")

	if len(p.Schema.LeftOnly) > 0 {
		fmt.Fprintf(&b, "\nOnly in %s: %s.\n", leftLabel, codeList(p.Schema.LeftOnly))
	}
	if len(p.Schema.RightOnly) > 0 {
		fmt.Fprintf(&b, "\nOnly in %s: %s.\n", rightLabel, codeList(p.Schema.RightOnly))
	}
	return b.String()
}

func codeList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "`" + escapeCode(n) + "`"
	}
	return strings.Join(quoted, ", ")
}
