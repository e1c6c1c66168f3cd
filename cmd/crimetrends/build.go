package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/crimetrends/internal/chart"
	"github.com/nao1215/crimetrends/internal/config"
	"github.com/nao1215/crimetrends/internal/grid"
	"github.com/nao1215/crimetrends/internal/log"
	"github.com/nao1215/crimetrends/internal/model"
	"github.com/nao1215/crimetrends/internal/pipeline"
	"github.com/nao1215/crimetrends/internal/report"
	"github.com/nao1215/crimetrends/internal/source"
)

// NewBuildCmd creates the build command.
func NewBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Download the dataset and publish the document",
		Long: `Build runs the whole document pipeline:

  1. download the CSV (cached under the XDG cache directory)
  2. clean it and sum offences by year, borough and offence type
  3. render the small-multiples chart of every borough
  4. compute the trend, mean and IQR of every borough and offence
  5. publish the interactive grid
  6. write the article embedding the chart and the grid

A summary is printed to stdout when the build succeeds.

Examples:
  # Build into ./public with the defaults
  crimetrends build

  # Use another copy of the dataset and output directory
  crimetrends build --source https://example.org/crime.csv -o site

  # Three rows of five panels per grid page, summary as JSON
  crimetrends build --rows 3 --cols 5 --json

  # Use a custom configuration file
  crimetrends build -c site.yaml`,
		Args: cobra.NoArgs,
		RunE: runBuildCmd,
	}

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .crimetrends.yaml in current or home directory)")

	cmd.Flags().StringP("source", "s", config.DefaultSource, "URL of the CSV dataset")
	cmd.Flags().DurationP("timeout", "t", source.DefaultTimeout, "Download timeout")
	cmd.Flags().Bool("no-cache", false, "Always download the dataset")
	cmd.Flags().Bool("strict-years", false, "Abort on rows without a year in range instead of dropping them")

	cmd.Flags().StringP("output", "o", config.DefaultOutputDir, "Output directory")
	cmd.Flags().String("grid-dir", config.DefaultGridDir, "Grid directory, relative to the output directory")
	cmd.Flags().Int("rows", grid.DefaultRows, "Grid rows per page")
	cmd.Flags().Int("cols", grid.DefaultCols, "Grid columns per page")
	cmd.Flags().String("sort", string(model.SortBySlope), "Initial grid sort (slope, mean, iqr, count, min, max, pct_change, borough, offence)")
	cmd.Flags().Bool("no-thumbnails", false, "Do not render a PNG per grid panel")
	cmd.Flags().Int("chart-columns", chart.DefaultColumns, "Borough panels per row in the static chart")
	cmd.Flags().String("title", report.DefaultArticleTitle, "Article title")

	cmd.Flags().BoolP("json", "j", false,
		"Print the summary as JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Print the summary as Markdown (mutually exclusive with --json)")

	return cmd
}

// runBuildCmd executes the build command.
func runBuildCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runBuild(ctx, cfg, logger, cmd.OutOrStdout())
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig resolves the configuration: defaults, then the config file,
// then flags that were set explicitly.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}
	if _, err := config.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	stringFlags := map[string]*string{
		"source":   &cfg.Source,
		"output":   &cfg.OutputDir,
		"grid-dir": &cfg.GridDir,
		"sort":     &cfg.SortKey,
		"title":    &cfg.Title,
	}
	for name, dst := range stringFlags {
		if flags.Changed(name) {
			if *dst, err = flags.GetString(name); err != nil {
				return nil, err
			}
		}
	}

	intFlags := map[string]*int{
		"rows":          &cfg.GridRows,
		"cols":          &cfg.GridCols,
		"chart-columns": &cfg.ChartColumns,
	}
	for name, dst := range intFlags {
		if flags.Changed(name) {
			if *dst, err = flags.GetInt(name); err != nil {
				return nil, err
			}
		}
	}

	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}

	if flags.Changed("no-cache") {
		noCache, err := flags.GetBool("no-cache")
		if err != nil {
			return nil, err
		}
		cfg.UseCache = !noCache
	}
	if flags.Changed("no-thumbnails") {
		noThumbnails, err := flags.GetBool("no-thumbnails")
		if err != nil {
			return nil, err
		}
		cfg.Thumbnails = !noThumbnails
	}
	if flags.Changed("strict-years") {
		if cfg.StrictYears, err = flags.GetBool("strict-years"); err != nil {
			return nil, err
		}
	}

	// A format chosen on the command line replaces the one from the config file.
	if flags.Changed("json") {
		if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
			return nil, err
		}
		if cfg.JSONReport && !flags.Changed("markdown") {
			cfg.MarkdownReport = false
		}
	}
	if flags.Changed("markdown") {
		if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
			return nil, err
		}
		if cfg.MarkdownReport && !flags.Changed("json") {
			cfg.JSONReport = false
		}
	}

	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// runBuild executes the pipeline and prints the summary to out.
func runBuild(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	logger.Info("starting build",
		"source", cfg.Source,
		"output", cfg.OutputDir,
		"cache", cfg.UseCache,
	)

	p, err := pipeline.DefaultPipeline(cfg, pipeline.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	build := model.NewBuild(cfg.Source, cfg.OutputDir, cfg.GridDir)
	if err := p.Execute(ctx, build); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	logger.Info("build completed",
		"build", build.ID,
		"records", len(build.Records),
		"panels", len(build.Panels),
		"elapsed", build.FinishedAt.Sub(build.StartedAt),
	)

	_, err = newSummaryWriter(cfg, out).Write(build)
	return err
}

// newSummaryWriter returns the writer for the configured summary format.
func newSummaryWriter(cfg *config.Config, out io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(out, report.WithPrettyPrint(), report.WithJSONTopN(cfg.TopN))
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(out)
	default:
		return report.NewSimpleWriter(out, report.WithTopN(cfg.TopN), report.WithVerbose(cfg.Verbose))
	}
}
