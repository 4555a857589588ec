package main

import (
	"context"
	"log"
	"os"

	"edadash/adapters/postgres"
	"edadash/internal"
	"edadash/internal/migration"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// migrate creates the artifact schema and records report files already on
// disk, so history from before the database was configured shows up in the
// dashboard.
func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate <reports_dir> [database_url]")
	}
	reportsDir := os.Args[1]

	databaseURL := os.Getenv("DATABASE_URL")
	if len(os.Args) > 2 {
		databaseURL = os.Args[2]
	}
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	logger := internal.NewLogger(internal.LogLevelInfo)

	db, err := sqlx.ConnectContext(ctx, "postgres", databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.NewRunner(logger).Run(ctx, db); err != nil {
		log.Fatalf("Schema migration failed: %v", err)
	}

	artifacts, err := findReports(reportsDir)
	if err != nil {
		log.Fatalf("Failed to scan %s: %v", reportsDir, err)
	}
	log.Printf("Found %d report files under %s", len(artifacts), reportsDir)

	repo := postgres.NewArtifactRepository(db)
	recorded, skipped := 0, 0
	for _, art := range artifacts {
		if err := repo.SaveArtifact(ctx, art); err != nil {
			log.Printf("Failed to record %s: %v", art.Path, err)
			skipped++
			continue
		}
		recorded++
	}

	log.Printf("Backfill complete: %d recorded, %d skipped", recorded, skipped)
}
