package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rfmkit-dev/rfmkit/internal/config"
	"github.com/rfmkit-dev/rfmkit/internal/importer"
	"github.com/rfmkit-dev/rfmkit/internal/model"
	"github.com/rfmkit-dev/rfmkit/internal/pipeline"
	"github.com/rfmkit-dev/rfmkit/internal/report"
	"github.com/rfmkit-dev/rfmkit/internal/segment"
	"github.com/rfmkit-dev/rfmkit/internal/store"
)

const segmentsFile = "rfm_segments.csv"

func newAnalyzeCommand() *cobra.Command {
	var configPath string
	var input string
	var bins int
	var snapshot string
	var outDir string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Segment customers from a transaction export",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath, cmd.Flags().Changed("config"))
			if err != nil {
				return err
			}

			// Flags override file configuration.
			if input != "" {
				cfg.Source.Format = "csv"
				cfg.Source.Path = input
			}
			if cmd.Flags().Changed("bins") {
				// Overriding the tier count invalidates file-configured
				// cut points, so re-derive them.
				cfg.Bins = bins
				cfg.Thresholds = segment.DefaultThresholds(bins)
			}
			if snapshot != "" {
				cfg.Snapshot = snapshot
			}
			if outDir != "" {
				cfg.Output.Dir = outDir
			}

			return runAnalyze(cmd, cfg, quiet)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "rfmkit.yaml", "path to rfmkit.yaml")
	cmd.Flags().StringVar(&input, "input", "", "transaction CSV path (overrides configured source)")
	cmd.Flags().IntVar(&bins, "bins", 0, "score tier count (overrides config)")
	cmd.Flags().StringVar(&snapshot, "snapshot", "", "snapshot reference date YYYY-MM-DD (overrides config)")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "report output directory (overrides config)")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "suppress logging and progress output")

	return cmd
}

// loadConfig reads the config file. Only the implicit default path may
// be absent and fall back to defaults; an explicitly passed path that
// does not exist is an error.
func loadConfig(path string, explicit bool) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return config.Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func runAnalyze(cmd *cobra.Command, cfg *config.Config, quiet bool) error {
	logger := zap.NewNop()
	if !quiet {
		l, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		defer l.Sync() //nolint:errcheck
		logger = l
	}

	rows, err := loadRows(cmd, cfg)
	if err != nil {
		return err
	}

	result, err := pipeline.Run(rows, cfg, pipeline.Options{
		Logger:   logger,
		Progress: !quiet,
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	tablePath := filepath.Join(cfg.Output.Dir, segmentsFile)
	f, err := os.Create(tablePath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", tablePath, err)
	}
	defer f.Close()
	if err := report.WriteTable(f, result.Scored, result.Assignments); err != nil {
		return fmt.Errorf("writing segment table: %w", err)
	}

	summary := report.BuildSummary(result)
	summaryPath := report.TimestampedFilename(cfg.Output.Dir, "summary")
	if err := report.ExportJSON(summaryPath, summary); err != nil {
		return err
	}

	printBreakdown(cmd, summary)
	cmd.Printf("\nSegment table: %s\nRun summary:   %s\n", tablePath, summaryPath)
	return nil
}

// loadRows fetches raw rows from the configured source. File formats
// resolve through the parser registry; the warehouse source is its own
// branch since it reads a table, not a stream.
func loadRows(cmd *cobra.Command, cfg *config.Config) ([]model.RawRow, error) {
	if cfg.Source.Format == "postgres" {
		if cfg.Source.DB.Table == "" {
			return nil, fmt.Errorf("postgres source requires source.db.table")
		}
		if err := store.LoadEnv(cfg.Source.DB.EnvFile); err != nil {
			return nil, err
		}
		db, err := store.Open(cmd.Context())
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return store.FetchRows(cmd.Context(), db, cfg.Source.DB.Table, cfg.Columns)
	}

	parser := importer.DefaultRegistry(cfg.Columns).Get(cfg.Source.Format)
	if parser == nil {
		return nil, fmt.Errorf("unknown source format %q", cfg.Source.Format)
	}

	if cfg.Source.Path == "" {
		return nil, fmt.Errorf("no input CSV configured; pass --input or set source.path")
	}
	f, err := os.Open(cfg.Source.Path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()
	return parser.Parse(f)
}

func printBreakdown(cmd *cobra.Command, s report.Summary) {
	cmd.Printf("Analyzed %d customers (snapshot %s, %d bins)\n", s.Customers, s.Snapshot, s.Bins)
	cmd.Printf("Rows: %d read, %d kept, %d dropped\n", s.Rows.Total, s.Rows.Kept, s.Rows.Total-s.Rows.Kept)
	if len(s.Rows.Dropped) > 0 {
		reasons := make([]string, 0, len(s.Rows.Dropped))
		for r := range s.Rows.Dropped {
			reasons = append(reasons, r)
		}
		sort.Strings(reasons)
		for _, r := range reasons {
			cmd.Printf("  - %s: %d\n", r, s.Rows.Dropped[r])
		}
	}
	cmd.Println("\nSegment breakdown:")
	for _, seg := range s.Segments {
		cmd.Printf("  - %s: %d customers (%.1f%%)\n", seg.Name, seg.Count, seg.Share*100)
	}
}
