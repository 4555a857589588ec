package profiling

import (
	"context"
	"io"

	"edadash/domain/core"
	"edadash/domain/report"
	"edadash/internal/analysis"
	"edadash/internal/render"
	"edadash/internal/storage"
)

// FileName is the fixed report file name; repeated runs into the same
// directory overwrite it.
const FileName = "profile_report.html"

// Report titles; the minimal title marks reports written in minimal mode
const (
	TitleFull    = "Profiling Report"
	TitleMinimal = "Profiling Report (Minimal Mode)"
)

// ProfilingAdapter writes a univariate and bivariate profile of one table
type ProfilingAdapter struct {
	options analysis.ProfileOptions
}

// NewProfilingAdapter creates a profiling adapter with default options
func NewProfilingAdapter() *ProfilingAdapter {
	return &ProfilingAdapter{options: analysis.DefaultProfileOptions()}
}

// Backend returns the backend this adapter serves
func (a *ProfilingAdapter) Backend() report.Backend {
	return report.BackendProfiling
}

// Generate profiles req.Primary and writes FileName into req.OutputDir. Minimal
// mode skips histograms, missing-value patterns, correlations and interactions.
func (a *ProfilingAdapter) Generate(ctx context.Context, req *report.Request) (*report.Artifact, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	opts := a.options
	kind, title := report.AnalysisFull, TitleFull
	if req.EffectiveMode() == report.ModeMinimal {
		opts.Minimal = true
		kind, title = report.AnalysisMinimal, TitleMinimal
	}

	profile, err := analysis.BuildProfile(ctx, req.Primary, opts)
	if err != nil {
		return nil, report.GenerationError(a.Backend(), err)
	}

	store, err := storage.NewReportStore(req.OutputDir)
	if err != nil {
		return nil, report.GenerationError(a.Backend(), err)
	}
	file, err := store.WriteAtomic(ctx, FileName, func(w io.Writer) error {
		return render.Profile(w, title, profile)
	})
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
