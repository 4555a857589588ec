package comparative

import (
	"context"
	"io"

	"edadash/domain/core"
	"edadash/domain/report"
	"edadash/internal/analysis"
	"edadash/internal/render"
	"edadash/internal/storage"
)

// FileName is the fixed report file name
const FileName = "comparative_report.html"

// Dataset labels used in comparison reports
const (
	MainLabel       = "Main Dataset"
	ComparisonLabel = "Comparison Dataset"
)

const title = "Comparative Report"

// SelectAnalysis picks the report variant from which optional inputs are set:
// a comparison table wins over a target, and neither means a basic report.
func SelectAnalysis(req *report.Request) report.Analysis {
	switch {
	case req.Compare != nil:
		return report.AnalysisComparison
	case req.Target != "":
		return report.AnalysisTarget
	}
	return report.AnalysisBasic
}

// ComparativeAdapter writes target-aware and two-dataset reports
type ComparativeAdapter struct {
	bins int
}

// NewComparativeAdapter creates a comparative adapter
func NewComparativeAdapter() *ComparativeAdapter {
	return &ComparativeAdapter{bins: analysis.DefaultBins}
}

// Backend returns the backend this adapter serves
func (a *ComparativeAdapter) Backend() report.Backend {
	return report.BackendComparative
}

// Generate writes FileName into req.OutputDir. The target column is looked up
// by the analysis itself, so an unknown target fails as
// ErrReportGenerationFailed rather than ErrInvalidInput.
func (a *ComparativeAdapter) Generate(ctx context.Context, req *report.Request) (*report.Artifact, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	kind := SelectAnalysis(req)
	write, err := a.prepare(ctx, req, kind)
	if err != nil {
		return nil, report.GenerationError(a.Backend(), err)
	}

	store, err := storage.NewReportStore(req.OutputDir)
	if err != nil {
		return nil, report.GenerationError(a.Backend(), err)
	}
	file, err := store.WriteAtomic(ctx, FileName, write)
	if err != nil {
		return nil, report.GenerationError(a.Backend(), err)
	}

	return &report.Artifact{
		ID:          core.NewID(),
		Backend:     a.Backend(),
		Kind:        report.KindHTML,
		Analysis:    kind,
		Title:       title,
		Path:        file.Path,
		FileName:    FileName,
		SizeBytes:   file.Size,
		Fingerprint: req.Primary.Fingerprint(),
		CreatedAt:   core.Now(),
	}, nil
}

// prepare runs the analysis and returns the renderer for its result
func (a *ComparativeAdapter) prepare(ctx context.Context, req *report.Request, kind report.Analysis) (func(io.Writer) error, error) {
	switch kind {
	case report.AnalysisComparison:
		p, err := analysis.BuildComparison(ctx, req.Primary, req.Compare, req.Target, a.bins)
		if err != nil {
			return nil, err
		}
		return func(w io.Writer) error {
			return render.Comparison(w, title, MainLabel, ComparisonLabel, p)
		}, nil

	case report.AnalysisTarget:
		p, err := analysis.BuildTargetProfile(ctx, req.Primary, req.Target, a.bins)
		if err != nil {
			return nil, err
		}
		return func(w io.Writer) error {
			return render.Target(w, title, p)
		}, nil
	}

	cols, err := analysis.DescribeColumns(ctx, req.Primary, a.bins)
	if err != nil {
		return nil, err
	}
	overview := analysis.OverviewOf(req.Primary)
	return func(w io.Writer) error {
		return render.Basic(w, title, overview, cols)
	}, nil
}
