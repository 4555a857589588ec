package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"edadash/adapters/comparative"
	"edadash/adapters/excel"
	"edadash/adapters/liveviewer"
	"edadash/adapters/memory"
	"edadash/adapters/profiling"
	"edadash/app"
	"edadash/domain/report"
	"edadash/domain/table"
	"edadash/internal"
	"edadash/internal/config"
	"edadash/internal/storage"

	"github.com/spf13/cobra"
)

type options struct {
	out      string
	naming   string
	logLevel string
}

func main() {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:           "edareport",
		Short:         "Generate exploratory data analysis reports from CSV or Excel files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.out, "out", config.DefaultReportsDir(), "Directory reports are written to")
	rootCmd.PersistentFlags().StringVar(&opts.naming, "naming", string(config.NamingFixed), "Report naming: fixed|unique")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "WARN", "ERROR|WARN|INFO|DEBUG|TRACE")

	rootCmd.AddCommand(
		newProfileCmd(opts),
		newCompareCmd(opts),
		newViewCmd(),
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newProfileCmd(opts *options) *cobra.Command {
	var minimal bool

	cmd := &cobra.Command{
		Use:   "profile [file]",
		Short: "Write a full profiling report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := readTable(args[0])
			if err != nil {
				return err
			}
			req := &report.Request{Backend: report.BackendProfiling, Primary: t}
			if minimal {
				req.Mode = report.ModeMinimal
			}
			return run(cmd.Context(), opts, req)
		},
	}

	cmd.Flags().BoolVar(&minimal, "minimal", false, "Skip histograms, missing-value patterns, correlations and interactions")
	return cmd
}

func newCompareCmd(opts *options) *cobra.Command {
	var target, compareFile string

	cmd := &cobra.Command{
		Use:   "compare [file]",
		Short: "Write a comparative report: basic, target-focused or two-dataset comparison",
		Long: `Selects the analysis from the flags given:

  --compare FILE   compares the two datasets (target honored when given)
  --target COLUMN  profiles every column against COLUMN
  neither          writes a basic overview`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := readTable(args[0])
			if err != nil {
				return err
			}
			req := &report.Request{Backend: report.BackendComparative, Primary: t, Target: target}
			if compareFile != "" {
				if req.Compare, err = readTable(compareFile); err != nil {
					return err
				}
			}
			return run(cmd.Context(), opts, req)
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "Target column name")
	cmd.Flags().StringVar(&compareFile, "compare", "", "Second dataset to compare against")
	return cmd
}

func newViewCmd() *cobra.Command {
	var attempts int

	cmd := &cobra.Command{
		Use:   "view [file]",
		Short: "Serve the dataset in an interactive grid until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := readTable(args[0])
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			registry := liveviewer.NewRegistry()
			art, err := liveviewer.NewLiveViewerAdapter(attempts, registry).Launch(ctx, t)
			if err != nil {
				return err
			}
			fmt.Println(art.URL)
			fmt.Fprintln(os.Stderr, "Press Ctrl+C to stop")

			viewer, ok := registry.Get(art.ID)
			if !ok {
				return fmt.Errorf("viewer %s is not running", art.ID.Short())
			}
			select {
			case <-ctx.Done():
			case <-viewer.Done():
			}
			if err := registry.CloseAll(context.Background()); err != nil {
				return err
			}
			return viewer.Err()
		},
	}

	cmd.Flags().IntVar(&attempts, "bind-attempts", 1, "Fresh ports to try before giving up")
	return cmd
}

func run(ctx context.Context, opts *options, req *report.Request) error {
	level, ok := internal.ParseLogLevel(opts.logLevel)
	if !ok {
		return fmt.Errorf("invalid --log-level %q", opts.logLevel)
	}
	naming := config.Naming(opts.naming)
	if naming != config.NamingFixed && naming != config.NamingUnique {
		return fmt.Errorf("invalid --naming %q, must be fixed or unique", opts.naming)
	}

	store, err := storage.NewReportStore(opts.out)
	if err != nil {
		return err
	}
	svc := app.NewReportService(store, naming, memory.NewArtifactRepository(), internal.NewLogger(level),
		profiling.NewProfilingAdapter(),
		comparative.NewComparativeAdapter(),
	)

	art, err := svc.Generate(ctx, req)
	if err != nil {
		return err
	}
	fmt.Println(art.Path)
	return nil
}

func readTable(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return excel.NewDataReader(excel.DefaultReaderConfig()).ReadTable(filepath.Base(path), f)
}
