package memory

import (
	"context"
	"sort"
	"sync"

	"edadash/domain/core"
	"edadash/domain/report"
	"edadash/ports"
)

// artifactRepository keeps artifact metadata for the lifetime of the process
type artifactRepository struct {
	mu        sync.RWMutex
	artifacts map[core.ID]*report.Artifact
}

// NewArtifactRepository creates an in-memory artifact repository
func NewArtifactRepository() ports.ArtifactRepository {
	return &artifactRepository{artifacts: make(map[core.ID]*report.Artifact)}
}

func (r *artifactRepository) SaveArtifact(ctx context.Context, artifact *report.Artifact) error {
	if artifact == nil || artifact.ID.IsEmpty() {
		return core.NewInvalidInputError("artifact requires an ID", nil)
	}
	copied := *artifact

	r.mu.Lock()
	defer r.mu.Unlock()
	r.artifacts[artifact.ID] = &copied
	return nil
}

func (r *artifactRepository) GetArtifact(ctx context.Context, id core.ID) (*report.Artifact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.artifacts[id]
	if !ok {
		return nil, core.NewNotFoundError("artifact", id.String())
	}
	copied := *a
	return &copied, nil
}

// ListArtifacts returns the newest artifacts first; limit <= 0 returns all
func (r *artifactRepository) ListArtifacts(ctx context.Context, limit int) ([]*report.Artifact, error) {
	r.mu.RLock()
	out := make([]*report.Artifact, 0, len(r.artifacts))
	for _, a := range r.artifacts {
		copied := *a
		out = append(out, &copied)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Time().Equal(out[j].CreatedAt.Time()) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *artifactRepository) DeleteArtifact(ctx context.Context, id core.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.artifacts[id]; !ok {
		return core.NewNotFoundError("artifact", id.String())
	}
	delete(r.artifacts, id)
	return nil
}
