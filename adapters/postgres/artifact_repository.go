package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"edadash/domain/core"
	"edadash/domain/report"
	"edadash/ports"

	"github.com/jmoiron/sqlx"
)

const artifactColumns = `id, backend, kind, analysis, title, COALESCE(path, '') AS path, COALESCE(url, '') AS url,
	COALESCE(file_name, '') AS file_name, size_bytes, fingerprint, created_at`

// artifactRow mirrors the report_artifacts table
type artifactRow struct {
	ID          string    `db:"id"`
	Backend     string    `db:"backend"`
	Kind        string    `db:"kind"`
	Analysis    string    `db:"analysis"`
	Title       string    `db:"title"`
	Path        string    `db:"path"`
	URL         string    `db:"url"`
	FileName    string    `db:"file_name"`
	SizeBytes   int64     `db:"size_bytes"`
	Fingerprint string    `db:"fingerprint"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r artifactRow) toArtifact() *report.Artifact {
	return &report.Artifact{
		ID:          core.ID(r.ID),
		Backend:     report.Backend(r.Backend),
		Kind:        report.ArtifactKind(r.Kind),
		Analysis:    report.Analysis(r.Analysis),
		Title:       r.Title,
		Path:        r.Path,
		URL:         r.URL,
		FileName:    r.FileName,
		SizeBytes:   r.SizeBytes,
		Fingerprint: core.Hash(r.Fingerprint),
		CreatedAt:   core.NewTimestamp(r.CreatedAt),
	}
}

// artifactRepository implements ports.ArtifactRepository on PostgreSQL
type artifactRepository struct {
	db *sqlx.DB
}

// NewArtifactRepository creates a new artifact repository
func NewArtifactRepository(db *sqlx.DB) ports.ArtifactRepository {
	return &artifactRepository{db: db}
}

// SaveArtifact inserts an artifact, replacing the row with the same ID
func (r *artifactRepository) SaveArtifact(ctx context.Context, a *report.Artifact) error {
	if a == nil || a.ID.IsEmpty() {
		return core.NewInvalidInputError("artifact requires an ID", nil)
	}

	query := `INSERT INTO report_artifacts (
		id, backend, kind, analysis, title, path, url, file_name, size_bytes, fingerprint, created_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
	)
	ON CONFLICT (id) DO UPDATE SET
		title = EXCLUDED.title, path = EXCLUDED.path, url = EXCLUDED.url,
		file_name = EXCLUDED.file_name, size_bytes = EXCLUDED.size_bytes`

	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.Backend, a.Kind, a.Analysis, a.Title, nullable(a.Path), nullable(a.URL), nullable(a.FileName),
		a.SizeBytes, a.Fingerprint, a.CreatedAt.Time(),
	)
	if err != nil {
		return fmt.Errorf("failed to save artifact: %w", err)
	}
	return nil
}

// GetArtifact retrieves an artifact by its ID
func (r *artifactRepository) GetArtifact(ctx context.Context, id core.ID) (*report.Artifact, error) {
	query := `SELECT ` + artifactColumns + ` FROM report_artifacts WHERE id = $1`

	var row artifactRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.NewNotFoundError("artifact", id.String())
		}
		return nil, fmt.Errorf("failed to get artifact: %w", err)
	}
	return row.toArtifact(), nil
}

// ListArtifacts returns the newest artifacts first; limit <= 0 returns all
func (r *artifactRepository) ListArtifacts(ctx context.Context, limit int) ([]*report.Artifact, error) {
	query := `SELECT ` + artifactColumns + ` FROM report_artifacts ORDER BY created_at DESC, id DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	var rows []artifactRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}

	artifacts := make([]*report.Artifact, 0, len(rows))
	for _, row := range rows {
		artifacts = append(artifacts, row.toArtifact())
	}
	return artifacts, nil
}

// DeleteArtifact removes an artifact record; the report file is left alone
func (r *artifactRepository) DeleteArtifact(ctx context.Context, id core.ID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM report_artifacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete artifact: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return core.NewNotFoundError("artifact", id.String())
	}
	return nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
