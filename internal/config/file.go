package config

import (
	"fmt"
	"time"
)

// File represents the structure of the .crimetrends.yaml configuration file.
// Zero values leave the corresponding Config field unchanged. Booleans that
// default to true are pointers so that false can be set explicitly.
type File struct {
	Source SourceConfig `yaml:"source,omitempty"`
	Data   DataConfig   `yaml:"data,omitempty"`
	Chart  ChartConfig  `yaml:"chart,omitempty"`
	Grid   GridConfig   `yaml:"grid,omitempty"`
	Output OutputConfig `yaml:"output,omitempty"`
}

// SourceConfig configures the dataset download.
type SourceConfig struct {
	URL         string            `yaml:"url,omitempty"`
	Timeout     time.Duration     `yaml:"timeout,omitempty"`
	UserAgent   string            `yaml:"userAgent,omitempty"`
	Headers     map[string]string `yaml:"headers,omitempty"`
	MaxBodySize int64             `yaml:"maxBodySize,omitempty"`
	Cache       *bool             `yaml:"cache,omitempty"`
	CacheMaxAge time.Duration     `yaml:"cacheMaxAge,omitempty"`
}

// DataConfig configures cleaning.
type DataConfig struct {
	YearMin          int      `yaml:"yearMin,omitempty"`
	YearMax          int      `yaml:"yearMax,omitempty"`
	AggregateLabel   string   `yaml:"aggregateLabel,omitempty"`
	ExcludedBoroughs []string `yaml:"excludedBoroughs,omitempty"`
	StrictYears      bool     `yaml:"strictYears,omitempty"`
}

// ChartConfig configures the static small-multiples chart.
type ChartConfig struct {
	File    string   `yaml:"file,omitempty"`
	Columns int      `yaml:"columns,omitempty"`
	Palette []string `yaml:"palette,omitempty"`
}

// GridConfig configures the interactive grid.
type GridConfig struct {
	Dir        string `yaml:"dir,omitempty"`
	Name       string `yaml:"name,omitempty"`
	Rows       int    `yaml:"rows,omitempty"`
	Cols       int    `yaml:"cols,omitempty"`
	Sort       string `yaml:"sort,omitempty"`
	Descending *bool  `yaml:"descending,omitempty"`
	Thumbnails *bool  `yaml:"thumbnails,omitempty"`
}

// Summary formats accepted by output.format.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// OutputConfig configures where artifacts go, the article and the summary
// printed after a build.
type OutputConfig struct {
	Dir    string `yaml:"dir,omitempty"`
	Title  string `yaml:"title,omitempty"`
	TopN   int    `yaml:"topN,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Apply overlays the values set in the file onto cfg.
func (f *File) Apply(cfg *Config) {
	setString(&cfg.Source, f.Source.URL)
	setDuration(&cfg.Timeout, f.Source.Timeout)
	setString(&cfg.UserAgent, f.Source.UserAgent)
	if len(f.Source.Headers) > 0 {
		if cfg.Headers == nil {
			cfg.Headers = make(map[string]string, len(f.Source.Headers))
		}
		for k, v := range f.Source.Headers {
			cfg.Headers[k] = v
		}
	}
	if f.Source.MaxBodySize != 0 {
		cfg.MaxBodySize = f.Source.MaxBodySize
	}
	setBool(&cfg.UseCache, f.Source.Cache)
	setDuration(&cfg.CacheMaxAge, f.Source.CacheMaxAge)

	setInt(&cfg.YearMin, f.Data.YearMin)
	setInt(&cfg.YearMax, f.Data.YearMax)
	setString(&cfg.AggregateLabel, f.Data.AggregateLabel)
	if len(f.Data.ExcludedBoroughs) > 0 {
		cfg.ExcludedBoroughs = append([]string(nil), f.Data.ExcludedBoroughs...)
	}
	if f.Data.StrictYears {
		cfg.StrictYears = true
	}

	setString(&cfg.ChartFile, f.Chart.File)
	setInt(&cfg.ChartColumns, f.Chart.Columns)
	if len(f.Chart.Palette) > 0 {
		cfg.Palette = append([]string(nil), f.Chart.Palette...)
	}

	setString(&cfg.GridDir, f.Grid.Dir)
	setString(&cfg.DisplayName, f.Grid.Name)
	setInt(&cfg.GridRows, f.Grid.Rows)
	setInt(&cfg.GridCols, f.Grid.Cols)
	setString(&cfg.SortKey, f.Grid.Sort)
	setBool(&cfg.SortDescending, f.Grid.Descending)
	setBool(&cfg.Thumbnails, f.Grid.Thumbnails)

	setString(&cfg.OutputDir, f.Output.Dir)
	setString(&cfg.Title, f.Output.Title)
	setInt(&cfg.TopN, f.Output.TopN)
	switch f.Output.Format {
	case FormatText:
		cfg.JSONReport, cfg.MarkdownReport = false, false
	case FormatJSON:
		cfg.JSONReport, cfg.MarkdownReport = true, false
	case FormatMarkdown:
		cfg.JSONReport, cfg.MarkdownReport = false, true
	}
}

func (f *File) validate() error {
	switch f.Output.Format {
	case "", FormatText, FormatJSON, FormatMarkdown:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidReportFormat, f.Output.Format)
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v != 0 {
		*dst = v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
