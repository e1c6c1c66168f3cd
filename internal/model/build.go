package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/nao1215/crimetrends/internal/frame"
)

// Build is the state of a single document build.
// Each pipeline step reads what earlier steps produced and fills in its own
// section. A Build is created once per run and discarded when the process exits.
type Build struct {
	// ID uniquely identifies this build. It is written to the site manifest
	// so a published site can be traced back to the run that produced it.
	ID string `json:"id"`

	// Source is the URL the dataset was fetched from.
	Source string `json:"source"`

	// StartedAt is when the build began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the last step completed. Zero until the build is done.
	FinishedAt time.Time `json:"finished_at,omitempty"`

	// Frame is the raw typed table produced by the fetch step.
	Frame *frame.Frame `json:"-"`

	// Rows are the cleaned observations produced by the clean step.
	Rows []RawRow `json:"-"`

	// CleanStats describes what the clean step kept and dropped.
	CleanStats CleanStats `json:"clean_stats"`

	// Records is the aggregated dataset.
	Records []OffenceRecord `json:"-"`

	// StaticChartPath is the path of the rendered small-multiples image.
	StaticChartPath string `json:"static_chart_path,omitempty"`

	// Panels holds one summary per (borough, offence) group. Undefined
	// cognostics are NaN, which encoding/json rejects, so panels are
	// serialized by the report and grid packages instead.
	Panels []PanelSummary `json:"-"`

	// OutputDir is the directory every artifact is written under.
	OutputDir string `json:"output_dir"`

	// GridDir is the grid site directory relative to OutputDir.
	GridDir string `json:"grid_dir"`

	// ArticlePath is the path of the generated article document.
	ArticlePath string `json:"article_path,omitempty"`

	// PerformedSteps lists the pipeline steps that ran, in order.
	PerformedSteps []string `json:"performed_steps"`

	// Error holds the error that stopped the build, if any.
	Error error `json:"-"`

	// ErrorMessage is Error rendered as a string for serialization.
	ErrorMessage string `json:"error,omitempty"`
}

// NewBuild creates a Build for the given source URL and output directory.
func NewBuild(source, outputDir, gridDir string) *Build {
	return &Build{
		ID:             uuid.NewString(),
		Source:         source,
		StartedAt:      time.Now(),
		OutputDir:      outputDir,
		GridDir:        gridDir,
		PerformedSteps: make([]string, 0),
	}
}

// Complete reports whether the build finished without error.
func (b *Build) Complete() bool {
	return b.Error == nil && !b.FinishedAt.IsZero()
}

// Boroughs returns the distinct boroughs in the aggregated records, sorted.
func (b *Build) Boroughs() []string {
	return distinct(b.Records, func(r OffenceRecord) string { return r.Borough })
}

// Offences returns the distinct offence types in the aggregated records, sorted.
func (b *Build) Offences() []string {
	return distinct(b.Records, func(r OffenceRecord) string { return r.Offence })
}

// CleanStats summarizes the work done by the clean step.
type CleanStats struct {
	// InputRows is the number of rows read from the source.
	InputRows int `json:"input_rows"`

	// UnmatchedYears counts rows whose year field held no year in range.
	UnmatchedYears int `json:"unmatched_years"`

	// MissingCounts counts rows with a blank or NA offence count.
	MissingCounts int `json:"missing_counts"`

	// ExcludedRows counts aggregate and non-borough rows that were filtered out.
	ExcludedRows int `json:"excluded_rows"`

	// KeptRows is the number of rows passed on to aggregation.
	KeptRows int `json:"kept_rows"`
}

// Dropped returns the number of input rows the clean step discarded.
func (s CleanStats) Dropped() int {
	return s.UnmatchedYears + s.MissingCounts + s.ExcludedRows
}
