package liveviewer

import (
	"context"

	"edadash/domain/core"
	"edadash/domain/report"
	"edadash/domain/table"
	"edadash/internal/netutil"
)

// LiveViewerAdapter serves tables through an interactive grid on a fresh
// loopback port. Every launch starts a new server; viewers run until the
// registry closes them.
type LiveViewerAdapter struct {
	attempts int
	registry *Registry
}

// NewLiveViewerAdapter creates an adapter that binds with up to attempts tries.
// A nil registry gets a private one.
func NewLiveViewerAdapter(attempts int, registry *Registry) *LiveViewerAdapter {
	if registry == nil {
		registry = NewRegistry()
	}
	return &LiveViewerAdapter{attempts: attempts, registry: registry}
}

// Backend returns the backend this adapter serves
func (a *LiveViewerAdapter) Backend() report.Backend {
	return report.BackendLiveViewer
}

// Registry returns the viewers started by this adapter
func (a *LiveViewerAdapter) Registry() *Registry {
	return a.registry
}

// Generate launches a viewer for req.Primary; the other request fields are
// ignored.
func (a *LiveViewerAdapter) Generate(ctx context.Context, req *report.Request) (*report.Artifact, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return a.Launch(ctx, req.Primary)
}

// Launch binds a fresh port and starts serving t. The server is accepting
// connections when Launch returns. A failed bind is ErrResourceUnavailable.
func (a *LiveViewerAdapter) Launch(ctx context.Context, t *table.Table) (*report.Artifact, error) {
	if t == nil {
		return nil, core.NewInvalidInputError("no table to view", nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ln, port, err := netutil.ListenFresh(a.attempts)
	if err != nil {
		return nil, err
	}

	v := newViewer(core.NewID(), t, port)
	v.serve(ln)
	a.registry.add(v)

	return &report.Artifact{
		ID:          v.ID,
		Backend:     a.Backend(),
		Kind:        report.KindURL,
		Analysis:    report.AnalysisLive,
		Title:       "Live Viewer: " + t.Name,
		URL:         v.URL,
		Fingerprint: t.Fingerprint(),
		CreatedAt:   v.StartedAt,
	}, nil
}
