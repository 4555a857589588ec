package ports

import (
	"context"

	"edadash/domain/core"
	"edadash/domain/report"
)

// ArtifactRepository records generated artifacts so the shell can serve and
// list them after the generating request returns. Only metadata is stored;
// report files stay on disk.
type ArtifactRepository interface {
	SaveArtifact(ctx context.Context, artifact *report.Artifact) error
	GetArtifact(ctx context.Context, id core.ID) (*report.Artifact, error)
	ListArtifacts(ctx context.Context, limit int) ([]*report.Artifact, error)
	DeleteArtifact(ctx context.Context, id core.ID) error
}
