package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"edadash/internal/analysis"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageProfile    = "profile.html"
	pageTarget     = "target.html"
	pageBasic      = "basic.html"
	pageComparison = "comparison.html"
)

// pages holds one template set per report kind, each sharing the layout
var pages = mustParsePages(pageProfile, pageTarget, pageBasic, pageComparison)

func mustParsePages(names ...string) map[string]*template.Template {
	base := template.Must(template.New("layout.html").Funcs(funcMap).
		ParseFS(templateFS, "templates/layout.html", "templates/partials.html"))

	out := make(map[string]*template.Template, len(names))
	for _, name := range names {
		t := template.Must(base.Clone())
		out[name] = template.Must(t.ParseFS(templateFS, "templates/"+name))
	}
	return out
}

// Document is the data passed to every page
type Document struct {
	Title       string
	Subtitle    string
	GeneratedAt time.Time
	Body        any
}

func execute(w io.Writer, page string, doc Document) error {
	t, ok := pages[page]
	if !ok {
		return fmt.Errorf("unknown report page %q", page)
	}
	if doc.GeneratedAt.IsZero() {
		doc.GeneratedAt = time.Now()
	}
	if err := t.ExecuteTemplate(w, "layout", doc); err != nil {
		return fmt.Errorf("failed to render %s: %w", page, err)
	}
	return nil
}

// ProfileBody feeds profile.html
type ProfileBody struct {
	Profile   *analysis.Profile
	Narrative template.HTML
	Alerts    template.HTML
}

// Profile writes a profiling report
func Profile(w io.Writer, title string, p *analysis.Profile) error {
	body := ProfileBody{
		Profile:   p,
		Narrative: Markdown(OverviewMarkdown(p.Overview)),
		Alerts:    Markdown(AlertsMarkdown(p.Alerts)),
	}
	return execute(w, pageProfile, Document{Title: title, Body: body})
}

// TargetBody feeds target.html
type TargetBody struct {
	Profile   *analysis.TargetProfile
	Narrative template.HTML
}

// Target writes a target-aware report
func Target(w io.Writer, title string, p *analysis.TargetProfile) error {
	body := TargetBody{
		Profile:   p,
		Narrative: Markdown(OverviewMarkdown(p.Overview) + "\n" + TargetMarkdown(p.Target.Name, p.Associations, 5)),
	}
	return execute(w, pageTarget, Document{Title: title, Subtitle: "Target: " + p.Target.Name, Body: body})
}

// BasicBody feeds basic.html
type BasicBody struct {
	Overview  analysis.Overview
	Columns   []analysis.ColumnSummary
	Narrative template.HTML
}

// Basic writes a per-column report without bivariate analysis
func Basic(w io.Writer, title string, o analysis.Overview, cols []analysis.ColumnSummary) error {
	body := BasicBody{Overview: o, Columns: cols, Narrative: Markdown(OverviewMarkdown(o))}
	return execute(w, pageBasic, Document{Title: title, Body: body})
}

// ComparisonBody feeds comparison.html
type ComparisonBody struct {
	LeftLabel  string
	RightLabel string
	Profile    *analysis.ComparisonProfile
	Narrative  template.HTML
}

// Comparison writes a two-dataset comparison report
func Comparison(w io.Writer, title, leftLabel, rightLabel string, p *analysis.ComparisonProfile) error {
	body := ComparisonBody{
		LeftLabel:  leftLabel,
		RightLabel: rightLabel,
		Profile:    p,
		Narrative:  Markdown(ComparisonMarkdown(leftLabel, rightLabel, p)),
	}
	subtitle := leftLabel + " vs " + rightLabel
	if p.Target != "" {
		subtitle += ", target " + p.Target
	}
	return execute(w, pageComparison, Document{Title: title, Subtitle: subtitle, Body: body})
}
