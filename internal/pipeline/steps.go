package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nao1215/crimetrends/internal/aggregate"
	"github.com/nao1215/crimetrends/internal/chart"
	"github.com/nao1215/crimetrends/internal/clean"
	"github.com/nao1215/crimetrends/internal/cognostics"
	"github.com/nao1215/crimetrends/internal/config"
	"github.com/nao1215/crimetrends/internal/grid"
	"github.com/nao1215/crimetrends/internal/model"
	"github.com/nao1215/crimetrends/internal/palette"
	"github.com/nao1215/crimetrends/internal/report"
	"github.com/nao1215/crimetrends/internal/source"
)

// FetchStep downloads the dataset and parses it into a frame.
type FetchStep struct {
	fetcher *source.Fetcher
}

// NewFetchStep creates a fetch step using fetcher.
func NewFetchStep(fetcher *source.Fetcher) *FetchStep {
	return &FetchStep{fetcher: fetcher}
}

// Name returns the step name.
func (s *FetchStep) Name() string {
	return "fetch"
}

// Do executes the fetch step.
func (s *FetchStep) Do(ctx context.Context, build *model.Build) error {
	fr, err := s.fetcher.Load(ctx, build.Source, clean.Schema)
	if err != nil {
		return err
	}
	build.Frame = fr
	return nil
}

// CleanStep turns the raw frame into observations.
type CleanStep struct {
	cleaner *clean.Cleaner
}

// NewCleanStep creates a clean step using cleaner.
func NewCleanStep(cleaner *clean.Cleaner) *CleanStep {
	return &CleanStep{cleaner: cleaner}
}

// Name returns the step name.
func (s *CleanStep) Name() string {
	return "clean"
}

// Do executes the clean step.
func (s *CleanStep) Do(_ context.Context, build *model.Build) error {
	if build.Frame == nil {
		return fmt.Errorf("%w: no frame to clean", ErrMissingInput)
	}
	rows, stats, err := s.cleaner.Clean(build.Frame)
	build.CleanStats = stats
	if err != nil {
		return err
	}
	build.Rows = rows
	return nil
}

// AggregateStep sums observations into one record per (year, borough, offence).
type AggregateStep struct {
	filter aggregate.Filter
}

// NewAggregateStep creates an aggregate step dropping the groups matched by filter.
func NewAggregateStep(filter aggregate.Filter) *AggregateStep {
	return &AggregateStep{filter: filter}
}

// Name returns the step name.
func (s *AggregateStep) Name() string {
	return "aggregate"
}

// Do executes the aggregate step.
func (s *AggregateStep) Do(ctx context.Context, build *model.Build) error {
	records, err := aggregate.Aggregate(ctx, build.Rows, s.filter)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return ErrNoRecords
	}
	build.Records = records
	return nil
}

// StaticChartStep renders the small-multiples image.
type StaticChartStep struct {
	path  string
	theme chart.Theme
}

// NewStaticChartStep creates a chart step writing to path.
func NewStaticChartStep(path string, theme chart.Theme) *StaticChartStep {
	return &StaticChartStep{path: path, theme: theme}
}

// Name returns the step name.
func (s *StaticChartStep) Name() string {
	return "static_chart"
}

// Do executes the chart step.
func (s *StaticChartStep) Do(_ context.Context, build *model.Build) error {
	if err := chart.Save(s.path, build.Records, s.theme); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	build.StaticChartPath = s.path
	return nil
}

// SummarizeStep computes the cognostics of every panel.
type SummarizeStep struct {
	colors []string
}

// NewSummarizeStep creates a summarize step. Offences are coloured from
// colors by sorted position, matching the static chart.
func NewSummarizeStep(colors []string) *SummarizeStep {
	return &SummarizeStep{colors: colors}
}

// Name returns the step name.
func (s *SummarizeStep) Name() string {
	return "summarize"
}

// Do executes the summarize step.
func (s *SummarizeStep) Do(_ context.Context, build *model.Build) error {
	if len(build.Records) == 0 {
		return fmt.Errorf("%w: no records to summarize", ErrMissingInput)
	}
	build.Panels = cognostics.Summarize(build.Records, palette.Assign(build.Offences(), s.colors))
	return nil
}

// PublishStep writes the interactive grid site.
type PublishStep struct {
	displayOpts   []grid.Option
	publisherOpts []grid.PublisherOption
}

// NewPublishStep creates a publish step. The site goes to the build's
// GridDir under its OutputDir.
func NewPublishStep(displayOpts []grid.Option, publisherOpts ...grid.PublisherOption) *PublishStep {
	return &PublishStep{displayOpts: displayOpts, publisherOpts: publisherOpts}
}

// Name returns the step name.
func (s *PublishStep) Name() string {
	return "publish"
}

// Do executes the publish step.
func (s *PublishStep) Do(_ context.Context, build *model.Build) error {
	display, err := grid.NewDisplay(build.Panels, s.displayOpts...)
	if err != nil {
		return err
	}

	opts := append([]grid.PublisherOption{}, s.publisherOpts...)
	opts = append(opts, grid.WithBuildID(build.ID), grid.WithProtectedPaths(build.StaticChartPath, build.ArticlePath))
	if _, err := grid.NewPublisher(opts...).Publish(filepath.Join(build.OutputDir, build.GridDir), display); err != nil {
		return fmt.Errorf("failed to publish grid: %w", err)
	}
	return nil
}

// ArticleStep writes the narrative article.
type ArticleStep struct {
	path string
	opts []report.ArticleWriterOption
}

// NewArticleStep creates an article step writing to path.
func NewArticleStep(path string, opts ...report.ArticleWriterOption) *ArticleStep {
	return &ArticleStep{path: path, opts: opts}
}

// Name returns the step name.
func (s *ArticleStep) Name() string {
	return "article"
}

// Do executes the article step.
func (s *ArticleStep) Do(_ context.Context, build *model.Build) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0750); err != nil {
		return fmt.Errorf("failed to create article directory: %w", err)
	}
	file, err := os.Create(s.path) //nolint:gosec // path comes from configuration
	if err != nil {
		return fmt.Errorf("failed to create article: %w", err)
	}
	defer file.Close()

	opts := append([]report.ArticleWriterOption{report.WithBaseDir(filepath.Dir(s.path))}, s.opts...)
	if _, err := report.NewArticleWriter(file, opts...).Write(build); err != nil {
		return fmt.Errorf("failed to write article: %w", err)
	}
	build.ArticlePath = s.path
	return nil
}

// DefaultPipeline builds the full document pipeline from cfg.
// cfg must have passed Validate.
func DefaultPipeline(cfg *config.Config, opts ...Option) (*Pipeline, error) {
	p := New(opts...)
	logger := p.logger

	cleaner, err := clean.New(clean.Options{
		YearMin:     cfg.YearMin,
		YearMax:     cfg.YearMax,
		Exclusions:  cfg.Exclusions(),
		StrictYears: cfg.StrictYears,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}

	theme, err := chart.NewTheme(cfg.Palette, cfg.ChartColumns)
	if err != nil {
		return nil, err
	}

	sortKey, err := model.ParseSortKey(cfg.SortKey)
	if err != nil {
		return nil, err
	}

	p.AddSteps(
		NewFetchStep(newFetcher(cfg, logger)),
		NewCleanStep(cleaner),
		NewAggregateStep(cfg.Exclusions()),
		NewStaticChartStep(cfg.ChartPath(), theme),
		NewSummarizeStep(theme.Palette),
		NewPublishStep(
			[]grid.Option{
				grid.WithName(cfg.DisplayName),
				grid.WithLayout(cfg.GridRows, cfg.GridCols),
				grid.WithSort(sortKey, cfg.SortDescending),
			},
			grid.WithLogger(logger),
			grid.WithThumbnails(cfg.Thumbnails),
			grid.WithProtectedPaths(cfg.ChartPath(), cfg.ArticlePath()),
		),
		NewArticleStep(cfg.ArticlePath(),
			report.WithTitle(cfg.Title),
			report.WithArticleTopN(cfg.TopN),
			report.WithSortOrder(sortKey, cfg.SortDescending),
		),
	)

	return p, nil
}

func newFetcher(cfg *config.Config, logger *slog.Logger) *source.Fetcher {
	opts := []source.Option{
		source.WithTimeout(cfg.Timeout),
		source.WithUserAgent(cfg.UserAgent),
		source.WithHeaders(cfg.Headers),
		source.WithLogger(logger),
	}
	if cfg.MaxBodySize > 0 {
		opts = append(opts, source.WithMaxBodySize(cfg.MaxBodySize))
	}
	if cfg.UseCache {
		opts = append(opts, source.WithCache(source.NewCache(cfg.CacheDir, cfg.CacheMaxAge)))
	}
	return source.NewFetcher(opts...)
}
