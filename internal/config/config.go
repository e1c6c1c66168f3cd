package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/crimetrends/internal/chart"
	"github.com/nao1215/crimetrends/internal/clean"
	"github.com/nao1215/crimetrends/internal/grid"
	"github.com/nao1215/crimetrends/internal/model"
	"github.com/nao1215/crimetrends/internal/palette"
	"github.com/nao1215/crimetrends/internal/report"
	"github.com/nao1215/crimetrends/internal/source"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "crimetrends"

	// DefaultSource is the London Datastore download of recorded offences
	// by borough and offence type.
	DefaultSource = "https://data.london.gov.uk/download/recorded_crime_rates/" +
		"c051c7ec-c3ad-4534-bbfe-6bdfee2ef6bb/crime%20rates.csv"

	// DefaultOutputDir is where the article, the chart and the grid are written.
	DefaultOutputDir = "public"

	// DefaultGridDir is the grid site directory, relative to the output directory.
	DefaultGridDir = "trelliscope"

	// DefaultChartFile is the static chart file name inside the output directory.
	DefaultChartFile = "crime-trends.png"

	// DefaultCacheMaxAge keeps a downloaded dataset for a day. The source
	// is republished at most monthly.
	DefaultCacheMaxAge = 24 * time.Hour

	// MinPaletteColors and MaxPaletteColors bound the base palette length.
	MinPaletteColors = 3
	MaxPaletteColors = 5
)

// Config holds all configuration options for a build.
// It is populated from defaults, the config file and CLI flags and passed
// down explicitly rather than kept in global state.
type Config struct {
	// Source is the URL of the CSV dataset.
	Source string

	// Timeout bounds the dataset download.
	Timeout time.Duration

	// UserAgent is the User-Agent header sent with the download.
	UserAgent string

	// Headers are extra request headers, for portals that want an API key.
	Headers map[string]string

	// MaxBodySize is the maximum dataset size in bytes. Zero uses the default.
	MaxBodySize int64

	// UseCache enables the download cache under CacheDir.
	UseCache bool

	// CacheDir is where downloaded datasets are kept.
	CacheDir string

	// CacheMaxAge is how long a cached dataset stays fresh.
	CacheMaxAge time.Duration

	// YearMin and YearMax bound the accepted years, inclusive.
	YearMin int
	YearMax int

	// AggregateLabel is the offence label of all-offence totals, which are dropped.
	AggregateLabel string

	// ExcludedBoroughs are rollup areas that are not boroughs.
	ExcludedBoroughs []string

	// StrictYears aborts the build on a row without a year in range.
	StrictYears bool

	// OutputDir is the directory every artifact is written under.
	OutputDir string

	// GridDir is the grid site directory relative to OutputDir.
	GridDir string

	// ChartFile is the static chart file name relative to OutputDir.
	ChartFile string

	// ChartColumns is the number of borough panels per row in the static chart.
	ChartColumns int

	// Palette is the base palette the offence colours are interpolated from.
	Palette []string

	// GridRows and GridCols are the panels per grid page.
	GridRows int
	GridCols int

	// SortKey is the cognostic the grid is sorted by initially.
	SortKey string

	// SortDescending sorts the grid in descending order initially.
	SortDescending bool

	// DisplayName names the grid display.
	DisplayName string

	// Thumbnails enables a PNG per grid panel.
	Thumbnails bool

	// Title is the article title.
	Title string

	// TopN is the number of rising and falling panels listed in summaries.
	TopN int

	// Verbose enables detailed log output using slog.LevelDebug.
	Verbose bool

	// JSONReport prints the build summary as JSON.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport prints the build summary as Markdown.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, .crimetrends.yaml is looked up in the current directory
	// and then in the user's home directory.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Source:           DefaultSource,
		Timeout:          source.DefaultTimeout,
		UserAgent:        source.DefaultUserAgent,
		MaxBodySize:      source.DefaultMaxBodySize,
		UseCache:         true,
		CacheDir:         XDGCacheDir(),
		CacheMaxAge:      DefaultCacheMaxAge,
		YearMin:          clean.DefaultYearMin,
		YearMax:          clean.DefaultYearMax,
		AggregateLabel:   clean.DefaultAggregateLabel,
		ExcludedBoroughs: append([]string(nil), clean.DefaultExcludedBoroughs...),
		OutputDir:        DefaultOutputDir,
		GridDir:          DefaultGridDir,
		ChartFile:        DefaultChartFile,
		ChartColumns:     chart.DefaultColumns,
		Palette:          append([]string(nil), palette.DefaultBase...),
		GridRows:         grid.DefaultRows,
		GridCols:         grid.DefaultCols,
		SortKey:          string(model.SortBySlope),
		SortDescending:   true,
		DisplayName:      grid.DefaultName,
		Thumbnails:       true,
		Title:            report.DefaultArticleTitle,
		TopN:             report.DefaultTopN,
	}
}

// XDGCacheDir returns the XDG cache directory for crimetrends.
// On Linux: ~/.cache/crimetrends
// On macOS: ~/Library/Caches/crimetrends
// On Windows: %LOCALAPPDATA%\crimetrends\cache
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// XDGConfigDir returns the XDG config directory for crimetrends.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Exclusions returns the cleaner's exclusion set.
func (c *Config) Exclusions() clean.Exclusions {
	return clean.NewExclusions(c.AggregateLabel, c.ExcludedBoroughs)
}

// ChartPath returns the static chart path.
func (c *Config) ChartPath() string {
	return filepath.Join(c.OutputDir, c.ChartFile)
}

// GridPath returns the grid site directory.
func (c *Config) GridPath() string {
	return filepath.Join(c.OutputDir, c.GridDir)
}

// ArticlePath returns the article path.
func (c *Config) ArticlePath() string {
	return filepath.Join(c.OutputDir, report.ArticleFile)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as a sentinel error.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Source) == "" {
		return ErrNoSource
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.YearMin > c.YearMax {
		return ErrInvalidYearRange
	}

	if c.GridRows <= 0 || c.GridCols <= 0 {
		return ErrInvalidGridLayout
	}

	if c.ChartColumns <= 0 {
		return ErrInvalidChartColumns
	}

	if n := len(c.Palette); n < MinPaletteColors || n > MaxPaletteColors {
		return fmt.Errorf("%w: need %d to %d colours, got %d", ErrInvalidPalette, MinPaletteColors, MaxPaletteColors, n)
	}
	if err := palette.Validate(c.Palette); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPalette, err)
	}

	if _, err := model.ParseSortKey(c.SortKey); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidSortKey, c.SortKey)
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if strings.TrimSpace(c.OutputDir) == "" {
		return ErrInvalidOutputDir
	}

	if !filepath.IsLocal(c.GridDir) {
		return ErrAbsoluteGridDir
	}
	if filepath.Clean(c.GridDir) == "." {
		return fmt.Errorf("%w: %q is the output directory", ErrGridDirOverlap, c.GridDir)
	}
	for _, path := range []string{c.ChartPath(), c.ArticlePath()} {
		if within(c.GridPath(), path) {
			return fmt.Errorf("%w: %s is inside %s", ErrGridDirOverlap, path, c.GridPath())
		}
	}

	return nil
}

// within reports whether path is dir or lies below it.
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && filepath.IsLocal(rel)
}
