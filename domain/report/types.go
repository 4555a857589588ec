package report

import (
	"fmt"

	"edadash/domain/core"
	"edadash/domain/table"
)

// Backend identifies one of the interchangeable report generators
type Backend string

const (
	BackendProfiling   Backend = "profiling"
	BackendComparative Backend = "comparative"
	BackendLiveViewer  Backend = "liveviewer"
)

// Backends lists every backend in the order the dashboard offers them.
var Backends = []Backend{BackendComparative, BackendProfiling, BackendLiveViewer}

// ParseBackend maps a form value to a Backend
func ParseBackend(s string) (Backend, error) {
	switch Backend(s) {
	case BackendProfiling, BackendComparative, BackendLiveViewer:
		return Backend(s), nil
	}
	return "", fmt.Errorf("%w: unknown backend %q", core.ErrInvalidInput, s)
}

// Label is the human-readable backend name
func (b Backend) Label() string {
	switch b {
	case BackendProfiling:
		return "Profiling Report"
	case BackendComparative:
		return "Comparative / Target Report"
	case BackendLiveViewer:
		return "Live Viewer"
	}
	return string(b)
}

// WritesFile reports whether the backend produces an HTML file rather than a URL
func (b Backend) WritesFile() bool {
	return b == BackendProfiling || b == BackendComparative
}

// Mode controls profiling depth
type Mode string

const (
	ModeFull    Mode = "full"
	ModeMinimal Mode = "minimal"
)

// Analysis names what a generated report actually contains
type Analysis string

const (
	AnalysisFull       Analysis = "full"
	AnalysisMinimal    Analysis = "minimal"
	AnalysisBasic      Analysis = "basic"
	AnalysisTarget     Analysis = "target"
	AnalysisComparison Analysis = "comparison"
	AnalysisLive       Analysis = "live"
)

// ArtifactKind distinguishes static reports from live viewer URLs
type ArtifactKind string

const (
	KindHTML ArtifactKind = "html"
	KindURL  ArtifactKind = "url"
)

// Request describes one report generation call. Compare and Target are
// optional; Target is not checked against Primary here because column lookup
// belongs to the analysis backend.
type Request struct {
	Backend   Backend
	Primary   *table.Table
	Compare   *table.Table
	Target    string
	Mode      Mode
	OutputDir string
}

// Validate checks the structural requirements only
func (r *Request) Validate() error {
	if r == nil {
		return core.NewInvalidInputError("nil request", nil)
	}
	if _, err := ParseBackend(string(r.Backend)); err != nil {
		return err
	}
	if r.Primary == nil {
		return core.NewInvalidInputError("primary table is required", nil)
	}
	if err := r.Primary.Validate(); err != nil {
		return err
	}
	if r.Compare != nil {
		if err := r.Compare.Validate(); err != nil {
			return fmt.Errorf("comparison table: %w", err)
		}
	}
	switch r.Mode {
	case "", ModeFull, ModeMinimal:
	default:
		return core.NewInvalidInputError(fmt.Sprintf("unknown mode %q", r.Mode), nil)
	}
	return nil
}

// EffectiveMode returns ModeFull when no mode was chosen
func (r *Request) EffectiveMode() Mode {
	if r.Mode == "" {
		return ModeFull
	}
	return r.Mode
}

// Artifact is the output of a successful generation: a path to a
// self-contained HTML file or the URL of a running live viewer.
type Artifact struct {
	ID          core.ID        `json:"id" db:"id"`
	Backend     Backend        `json:"backend" db:"backend"`
	Kind        ArtifactKind   `json:"kind" db:"kind"`
	Analysis    Analysis       `json:"analysis" db:"analysis"`
	Title       string         `json:"title" db:"title"`
	Path        string         `json:"path,omitempty" db:"path"`
	URL         string         `json:"url,omitempty" db:"url"`
	FileName    string         `json:"file_name,omitempty" db:"file_name"`
	SizeBytes   int64          `json:"size_bytes" db:"size_bytes"`
	Fingerprint core.Hash      `json:"fingerprint" db:"fingerprint"`
	CreatedAt   core.Timestamp `json:"created_at" db:"-"`
}

// IsHTML reports whether the artifact is a report file
func (a *Artifact) IsHTML() bool {
	return a.Kind == KindHTML
}
