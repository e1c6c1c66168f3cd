package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can use
// errors.Is() to tell them apart.
var (
	// ErrNoSource is returned when no dataset URL is configured.
	ErrNoSource = errors.New("no source specified: provide a CSV URL with --source or in the config file")

	// ErrInvalidTimeout is returned when the download timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidGridLayout is returned when the grid rows or columns are not positive.
	ErrInvalidGridLayout = errors.New("invalid grid layout: rows and columns must be positive")

	// ErrInvalidChartColumns is returned when the static chart column count is not positive.
	ErrInvalidChartColumns = errors.New("invalid chart columns: must be positive")

	// ErrInvalidYearRange is returned when the first year is after the last year.
	ErrInvalidYearRange = errors.New("invalid year range: year_min must not be after year_max")

	// ErrInvalidPalette is returned when the base palette does not hold
	// between MinPaletteColors and MaxPaletteColors valid hex colours.
	ErrInvalidPalette = errors.New("invalid palette")

	// ErrInvalidSortKey is returned when the initial grid sort is not a known cognostic.
	ErrInvalidSortKey = errors.New("invalid sort key")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidReportFormat is returned for an output.format other than
	// text, json or markdown.
	ErrInvalidReportFormat = errors.New("invalid report format: must be text, json or markdown")

	// ErrInvalidOutputDir is returned when the output directory is empty.
	ErrInvalidOutputDir = errors.New("invalid output directory: must not be empty")

	// ErrAbsoluteGridDir is returned when the grid directory is absolute or
	// escapes the output directory. The article links to it relatively.
	ErrAbsoluteGridDir = errors.New("invalid grid directory: must be a relative path inside the output directory")

	// ErrGridDirOverlap is returned when the grid directory would replace the
	// output directory itself or the static chart inside it.
	ErrGridDirOverlap = errors.New("invalid grid directory: must be a subdirectory that does not hold the chart or article")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")
)
