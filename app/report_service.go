package app

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"edadash/domain/core"
	"edadash/domain/report"
	"edadash/internal"
	"edadash/internal/config"
	"edadash/internal/storage"
	"edadash/ports"
)

// ReportService dispatches report requests to the registered backends and
// records every artifact it produces
type ReportService struct {
	adapters map[report.Backend]ports.ReportAdapter
	repo     ports.ArtifactRepository
	store    *storage.ReportStore
	naming   config.Naming
	logger   *internal.Logger
}

// NewReportService creates a report service. Requests without an output
// directory write into store.
func NewReportService(store *storage.ReportStore, naming config.Naming, repo ports.ArtifactRepository, logger *internal.Logger, adapters ...ports.ReportAdapter) *ReportService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &ReportService{
		adapters: make(map[report.Backend]ports.ReportAdapter, len(adapters)),
		repo:     repo,
		store:    store,
		naming:   naming,
		logger:   logger.Named("ReportService"),
	}
	for _, a := range adapters {
		s.adapters[a.Backend()] = a
	}
	return s
}

// Backends lists the registered backends in display order
func (s *ReportService) Backends() []report.Backend {
	out := make([]report.Backend, 0, len(s.adapters))
	for _, b := range report.Backends {
		if _, ok := s.adapters[b]; ok {
			out = append(out, b)
		}
	}
	return out
}

// Generate runs the adapter for req.Backend. With unique naming each file
// report gets its own <dir>/<id>/ subdirectory and the artifact carries that
// id; with fixed naming reports overwrite the backend's fixed file name.
func (s *ReportService) Generate(ctx context.Context, req *report.Request) (*report.Artifact, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	adapter, ok := s.adapters[req.Backend]
	if !ok {
		return nil, core.NewInvalidInputError(fmt.Sprintf("backend %q is not available", req.Backend), nil)
	}

	resolved := *req
	if resolved.OutputDir == "" {
		resolved.OutputDir = s.store.Dir()
	}
	var id core.ID
	if s.naming == config.NamingUnique && req.Backend.WritesFile() {
		id = core.NewID()
		resolved.OutputDir = filepath.Join(resolved.OutputDir, id.String())
	}

	start := time.Now()
	s.logger.Debug("generating %s report for %s (%d rows, target=%q, compare=%t)",
		req.Backend, req.Primary.Name, req.Primary.RowCount(), req.Target, req.Compare != nil)

	art, err := adapter.Generate(ctx, &resolved)
	if err != nil {
		s.logger.Warn("%s generation failed after %s: %v", req.Backend, time.Since(start).Round(time.Millisecond), err)
		return nil, err
	}
	if !id.IsEmpty() {
		art.ID = id
	}

	if err := s.repo.SaveArtifact(ctx, art); err != nil {
		s.logger.Error("failed to record artifact %s: %v", art.ID, err)
		return nil, err
	}

	s.logger.Info("%s report %s ready in %s (%s)", req.Backend, art.ID.Short(), time.Since(start).Round(time.Millisecond), art.Analysis)
	return art, nil
}

// Artifact returns a recorded artifact
func (s *ReportService) Artifact(ctx context.Context, id core.ID) (*report.Artifact, error) {
	return s.repo.GetArtifact(ctx, id)
}

// Recent lists the newest artifacts first
func (s *ReportService) Recent(ctx context.Context, limit int) ([]*report.Artifact, error) {
	return s.repo.ListArtifacts(ctx, limit)
}

// OpenReport opens the HTML file behind an artifact. URL artifacts have no
// file and are rejected as invalid input.
func (s *ReportService) OpenReport(ctx context.Context, id core.ID) (*report.Artifact, io.ReadCloser, error) {
	art, err := s.repo.GetArtifact(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !art.IsHTML() {
		return nil, nil, core.NewInvalidInputError(fmt.Sprintf("artifact %s is a live viewer, not a report file", id), nil)
	}
	rc, err := storage.Open(art.Path)
	if err != nil {
		return nil, nil, err
	}
	return art, rc, nil
}

// Prune deletes report files older than olderThan from the reports directory
// and forgets artifacts whose file is gone.
func (s *ReportService) Prune(ctx context.Context, olderThan time.Duration) (int, error) {
	removed, err := s.store.CleanupExpired(ctx, olderThan)
	if err != nil {
		return removed, err
	}

	artifacts, err := s.repo.ListArtifacts(ctx, 0)
	if err != nil {
		return removed, err
	}
	for _, art := range artifacts {
		if !art.IsHTML() {
			continue
		}
		if _, err := storage.Stat(art.Path); core.IsNotFoundError(err) {
			if err := s.repo.DeleteArtifact(ctx, art.ID); err != nil && !core.IsNotFoundError(err) {
				return removed, err
			}
		}
	}

	if removed > 0 {
		s.logger.Info("pruned %d expired report files", removed)
	}
	return removed, nil
}
