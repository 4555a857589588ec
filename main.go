package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"edadash/adapters/comparative"
	"edadash/adapters/excel"
	"edadash/adapters/liveviewer"
	"edadash/adapters/memory"
	"edadash/adapters/postgres"
	"edadash/adapters/profiling"
	"edadash/app"
	"edadash/internal"
	"edadash/internal/config"
	apperrors "edadash/internal/errors"
	"edadash/internal/migration"
	"edadash/internal/storage"
	"edadash/ports"
	"edadash/ui"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"
)

// initRepository returns the PostgreSQL artifact repository when DATABASE_URL
// is set, otherwise an in-process one
func initRepository(ctx context.Context, cfg *config.Config, logger *internal.Logger) (ports.ArtifactRepository, func(), error) {
	if !cfg.Database.Enabled() {
		logger.Info("DATABASE_URL not set, keeping artifact history in memory")
		return memory.NewArtifactRepository(), func() {}, nil
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.Database.URL)
	if err != nil {
		return nil, nil, apperrors.DatabaseError("failed to connect to database", err)
	}
	if err := migration.NewRunner(logger).Run(ctx, db); err != nil {
		db.Close()
		return nil, nil, apperrors.Wrap(err, "database migration failed")
	}
	return postgres.NewArtifactRepository(db), func() { db.Close() }, nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := initRepository(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize artifact repository: %v", err)
	}
	defer closeRepo()

	store, err := storage.NewReportStore(cfg.Reports.Dir)
	if err != nil {
		log.Fatalf("Failed to prepare reports directory: %v", err)
	}

	viewers := liveviewer.NewRegistry()
	reports := app.NewReportService(store, cfg.Reports.Naming, repo, logger,
		profiling.NewProfilingAdapter(),
		comparative.NewComparativeAdapter(),
		liveviewer.NewLiveViewerAdapter(cfg.Viewer.BindAttempts, viewers),
	)

	server, err := ui.NewServer(reports, excel.NewDataReader(excel.DefaultReaderConfig()), logger, ui.Options{
		MaxUploadMB: cfg.Server.MaxUploadMB,
		GinMode:     cfg.Server.GinMode,
	})
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting dashboard on http://localhost:%s (reports in %s)", cfg.Server.Port, store.Dir())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := viewers.CloseAll(shutdownCtx); err != nil {
			logger.Warn("stopping live viewers: %v", err)
		}
		return httpServer.Shutdown(shutdownCtx)
	})

	if cfg.Reports.Retention > 0 {
		g.Go(func() error {
			runJanitor(gctx, reports, cfg.Reports.Retention, logger)
			return nil
		})
	}

	if cfg.Profiling.Enabled {
		go func() {
			logger.Info("pprof listening on :%s", cfg.Profiling.Port)
			if err := http.ListenAndServe(":"+cfg.Profiling.Port, nil); err != nil {
				logger.Warn("pprof server failed: %v", err)
			}
		}()
	}

	if err := g.Wait(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// runJanitor prunes reports older than retention until ctx is done
func runJanitor(ctx context.Context, reports *app.ReportService, retention time.Duration, logger *internal.Logger) {
	interval := retention / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := reports.Prune(ctx, retention)
			if err != nil {
				logger.Warn("pruning reports: %v", err)
				continue
			}
			if removed > 0 {
				logger.Info("pruned %d expired reports", removed)
			}
		}
	}
}
