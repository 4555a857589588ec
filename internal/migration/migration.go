package migration

import (
	"context"

	"edadash/internal"
	"edadash/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner creates the artifact schema. Every statement is idempotent
// so Run is safe on each start.
type MigrationRunner struct {
	version string
	logger  *internal.Logger
}

// NewRunner creates a new migration runner
func NewRunner(logger *internal.Logger) *MigrationRunner {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &MigrationRunner{
		version: "1.0.0",
		logger:  logger.Named("Migration"),
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createArtifactsTable(ctx, db); err != nil {
		return errors.DatabaseError("failed to create report_artifacts table", err)
	}

	r.createIndexes(ctx, db)
	return nil
}

func (r *MigrationRunner) createArtifactsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS report_artifacts (
			id UUID PRIMARY KEY,
			backend VARCHAR(32) NOT NULL,
			kind VARCHAR(16) NOT NULL,
			analysis VARCHAR(32) NOT NULL DEFAULT '',
			title TEXT NOT NULL DEFAULT '',
			path TEXT,
			url TEXT,
			file_name VARCHAR(255),
			size_bytes BIGINT NOT NULL DEFAULT 0,
			fingerprint VARCHAR(64) NOT NULL DEFAULT '',
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

// createIndexes logs failures instead of aborting; the table works without them
func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_artifacts_created_at ON report_artifacts(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_artifacts_backend ON report_artifacts(backend)",
		"CREATE INDEX IF NOT EXISTS idx_artifacts_fingerprint ON report_artifacts(fingerprint)",
	}

	for _, idxSQL := range indexes {
		if _, err := db.ExecContext(ctx, idxSQL); err != nil {
			r.logger.Warn("failed to create index: %v", err)
		}
	}
}
