package clean

import (
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"

	"github.com/nao1215/crimetrends/internal/frame"
	"github.com/nao1215/crimetrends/internal/model"
)

// Normalized names of the columns the cleaner reads.
const (
	ColumnYear    = "year"
	ColumnBorough = "borough"
	ColumnOffence = "offences"
	ColumnCount   = "number_of_offences"
)

// Default accepted year range of the London dataset.
const (
	DefaultYearMin = 1999
	DefaultYearMax = 2017
)

// Schema is the column typing the cleaner expects from the source.
var Schema = frame.Schema{
	ColumnYear:    frame.KindString,
	ColumnBorough: frame.KindCategory,
	ColumnOffence: frame.KindCategory,
	ColumnCount:   frame.KindNumeric,
}

// digitRun matches maximal runs of digits; a year is a run of exactly four.
var digitRun = regexp.MustCompile(`[0-9]+`)

// Options configures a Cleaner.
type Options struct {
	// YearMin and YearMax bound the accepted years, inclusive.
	YearMin int
	YearMax int

	// Exclusions lists the rows that are not borough observations.
	Exclusions Exclusions

	// StrictYears aborts on the first row without a year in range instead
	// of dropping it.
	StrictYears bool

	// Logger receives a summary of dropped rows. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns the options for the London dataset.
func DefaultOptions() Options {
	return Options{
		YearMin:    DefaultYearMin,
		YearMax:    DefaultYearMax,
		Exclusions: DefaultExclusions(),
	}
}

// Cleaner converts a raw frame into rows ready for aggregation.
type Cleaner struct {
	opts   Options
	logger *slog.Logger
}

// New creates a Cleaner.
func New(opts Options) (*Cleaner, error) {
	if opts.YearMin > opts.YearMax {
		return nil, fmt.Errorf("%w: %d > %d", ErrInvalidYearRange, opts.YearMin, opts.YearMax)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{opts: opts, logger: logger}, nil
}

// Clean renames the frame's columns to their normalized form and extracts
// one RawRow per usable input row.
//
// Rows whose year field holds no year in range are dropped, or abort the
// clean with ErrMalformedYear in strict mode. Rows with a missing count are
// dropped. A negative count aborts with ErrNegativeCount.
func (c *Cleaner) Clean(f *frame.Frame) ([]model.RawRow, model.CleanStats, error) {
	stats := model.CleanStats{InputRows: f.Rows()}

	if err := f.Rename(frame.NormalizeName); err != nil {
		return nil, stats, fmt.Errorf("failed to normalize column names: %w", err)
	}
	if err := f.RequireColumns(ColumnYear, ColumnBorough, ColumnOffence, ColumnCount); err != nil {
		return nil, stats, err
	}

	year, _ := f.Column(ColumnYear)
	borough, _ := f.Column(ColumnBorough)
	offence, _ := f.Column(ColumnOffence)
	count, _ := f.Column(ColumnCount)
	if count.Kind != frame.KindNumeric {
		return nil, stats, fmt.Errorf("%w: %q is %s, expected numeric", ErrColumnKind, ColumnCount, count.Kind)
	}

	rows := make([]model.RawRow, 0, f.Rows())
	for i := 0; i < f.Rows(); i++ {
		// Line numbers count the header as line 1.
		line := i + 2

		y, ok := ExtractYear(year.Text(i), c.opts.YearMin, c.opts.YearMax)
		if !ok {
			if c.opts.StrictYears {
				return nil, stats, fmt.Errorf("%w: line %d: %q", ErrMalformedYear, line, year.Text(i))
			}
			stats.UnmatchedYears++
			continue
		}

		n := count.Float(i)
		if math.IsNaN(n) {
			stats.MissingCounts++
			continue
		}
		if n < 0 {
			return nil, stats, fmt.Errorf("%w: line %d: %v", ErrNegativeCount, line, n)
		}

		b, o := borough.Text(i), offence.Text(i)
		if c.opts.Exclusions.Excluded(b, o) {
			stats.ExcludedRows++
			continue
		}

		rows = append(rows, model.RawRow{Year: y, Borough: b, Offence: o, Count: n})
	}
	stats.KeptRows = len(rows)

	if stats.Dropped() > 0 {
		c.logger.Debug("dropped rows during cleaning",
			"unmatched_years", stats.UnmatchedYears,
			"missing_counts", stats.MissingCounts,
			"excluded", stats.ExcludedRows,
		)
	}

	return rows, stats, nil
}

// ExtractYear returns the first four-digit number in s that lies within
// [minYear, maxYear]. Longer digit runs are never split.
func ExtractYear(s string, minYear, maxYear int) (int, bool) {
	for _, run := range digitRun.FindAllString(s, -1) {
		if len(run) != 4 {
			continue
		}
		y, err := strconv.Atoi(run)
		if err != nil {
			continue
		}
		if y >= minYear && y <= maxYear {
			return y, true
		}
	}
	return 0, false
}
