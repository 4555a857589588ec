package memory

import (
	"context"
	"testing"
	"time"

	"edadash/domain/core"
	"edadash/domain/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func artifactAt(offset time.Duration) *report.Artifact {
	return &report.Artifact{
		ID:        core.NewID(),
		Backend:   report.BackendProfiling,
		Kind:      report.KindHTML,
		Title:     "Profiling Report",
		CreatedAt: core.NewTimestamp(time.Now().Add(offset)),
	}
}

func TestSaveAndGet(t *testing.T) {
	repo := NewArtifactRepository()
	ctx := context.Background()
	a := artifactAt(0)

	require.NoError(t, repo.SaveArtifact(ctx, a))
	got, err := repo.GetArtifact(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Title, got.Title)

	got.Title = "changed"
	again, err := repo.GetArtifact(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Profiling Report", again.Title)
}

func TestSaveRequiresID(t *testing.T) {
	err := NewArtifactRepository().SaveArtifact(context.Background(), &report.Artifact{})
	assert.True(t, core.IsInvalidInput(err))
}

func TestListNewestFirst(t *testing.T) {
	repo := NewArtifactRepository()
	ctx := context.Background()
	old, mid, fresh := artifactAt(-2*time.Hour), artifactAt(-time.Hour), artifactAt(0)
	for _, a := range []*report.Artifact{mid, fresh, old} {
		require.NoError(t, repo.SaveArtifact(ctx, a))
	}

	all, err := repo.ListArtifacts(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []core.ID{fresh.ID, mid.ID, old.ID}, []core.ID{all[0].ID, all[1].ID, all[2].ID})

	two, err := repo.ListArtifacts(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
}

func TestDelete(t *testing.T) {
	repo := NewArtifactRepository()
	ctx := context.Background()
	a := artifactAt(0)
	require.NoError(t, repo.SaveArtifact(ctx, a))

	require.NoError(t, repo.DeleteArtifact(ctx, a.ID))
	_, err := repo.GetArtifact(ctx, a.ID)
	assert.True(t, core.IsNotFoundError(err))
	assert.True(t, core.IsNotFoundError(repo.DeleteArtifact(ctx, a.ID)))
}
