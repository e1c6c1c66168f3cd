package clean

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/nao1215/crimetrends/internal/frame"
)

func readFrame(t *testing.T, input string) *frame.Frame {
	t.Helper()

	f, err := frame.ReadCSV(strings.NewReader(input), Schema)
	if err != nil {
		t.Fatalf("failed to read CSV: %v", err)
	}
	return f
}

func newCleaner(t *testing.T, opts Options) *Cleaner {
	t.Helper()

	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := New(opts)
	if err != nil {
		t.Fatalf("failed to create cleaner: %v", err)
	}
	return c
}

func TestExtractYear(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected int
		ok       bool
	}{
		{"1999-00", 1999, true},
		{"2016-17", 2016, true},
		{"2005", 2005, true},
		{"FY 2010/11", 2010, true},
		{"1998-99", 0, false},
		{"2018", 0, false},
		{"1990 to 2001", 2001, true},
		{"20051", 0, false},
		{"", 0, false},
		{"unknown", 0, false},
	}

	for _, tt := range tests {

		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, ok := ExtractYear(tt.input, DefaultYearMin, DefaultYearMax)
			if ok != tt.ok || got != tt.expected {
				t.Errorf("ExtractYear(%q) = %d, %v; expected %d, %v", tt.input, got, ok, tt.expected, tt.ok)
			}
		})
	}
}

func TestExclusions(t *testing.T) {
	t.Parallel()

	e := DefaultExclusions()

	tests := []struct {
		borough  string
		offence  string
		excluded bool
	}{
		{"Camden", "Robbery", false},
		{"Camden", "All recorded offences", true},
		{"Inner London", "Robbery", true},
		{"England and Wales", "Drugs", true},
		{"Hackney", "All recorded offences ", false},
	}

	for _, tt := range tests {
		if got := e.Excluded(tt.borough, tt.offence); got != tt.excluded {
			t.Errorf("Excluded(%q, %q) = %v, expected %v", tt.borough, tt.offence, got, tt.excluded)
		}
	}

	if len(e.Boroughs()) != len(DefaultExcludedBoroughs) {
		t.Errorf("unexpected boroughs %v", e.Boroughs())
	}
	if NewExclusions("", nil).Excluded("Camden", "") {
		t.Error("empty exclusion set must keep every row")
	}
}

func TestCleanerClean(t *testing.T) {
	t.Parallel()

	input := "Year,Borough,Offences,Number of offences\n" +
		"1999-00,Camden,Robbery,100\n" +
		"1999-00,Camden,Robbery,5\n" +
		"2000-01,Camden,All recorded offences,900\n" +
		"2000-01,Inner London,Robbery,4000\n" +
		"2000-01,Hackney,Drugs,NA\n" +
		"1998-99,Hackney,Drugs,7\n" +
		"2001-02,Hackney,Drugs,\"1,200\"\n"

	t.Run("keeps only usable borough rows", func(t *testing.T) {
		t.Parallel()

		c := newCleaner(t, DefaultOptions())
		rows, stats, err := c.Clean(readFrame(t, input))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(rows) != 3 {
			t.Fatalf("expected 3 rows, got %d: %+v", len(rows), rows)
		}
		for _, r := range rows {
			if DefaultExclusions().Excluded(r.Borough, r.Offence) {
				t.Errorf("excluded row retained: %+v", r)
			}
		}
		if rows[0].Year != 1999 || rows[0].Count != 100 {
			t.Errorf("unexpected first row %+v", rows[0])
		}
		if rows[2].Year != 2001 || rows[2].Count != 1200 {
			t.Errorf("unexpected last row %+v", rows[2])
		}

		if stats.InputRows != 7 || stats.KeptRows != 3 {
			t.Errorf("unexpected stats %+v", stats)
		}
		if stats.UnmatchedYears != 1 || stats.MissingCounts != 1 || stats.ExcludedRows != 2 {
			t.Errorf("unexpected drop counts %+v", stats)
		}
	})

	t.Run("strict mode rejects unmatched years", func(t *testing.T) {
		t.Parallel()

		opts := DefaultOptions()
		opts.StrictYears = true
		c := newCleaner(t, opts)

		_, _, err := c.Clean(readFrame(t, input))
		if !errors.Is(err, ErrMalformedYear) {
			t.Fatalf("expected ErrMalformedYear, got %v", err)
		}
		if !strings.Contains(err.Error(), "line 7") {
			t.Errorf("expected line number in error, got %v", err)
		}
	})

	t.Run("negative counts abort", func(t *testing.T) {
		t.Parallel()

		c := newCleaner(t, DefaultOptions())
		_, _, err := c.Clean(readFrame(t, "year,borough,offences,number_of_offences\n2000,Camden,Robbery,-1\n"))
		if !errors.Is(err, ErrNegativeCount) {
			t.Errorf("expected ErrNegativeCount, got %v", err)
		}
	})

	t.Run("missing columns abort", func(t *testing.T) {
		t.Parallel()

		c := newCleaner(t, DefaultOptions())
		_, _, err := c.Clean(readFrame(t, "year,borough,count\n2000,Camden,1\n"))
		if !errors.Is(err, frame.ErrMissingColumn) {
			t.Errorf("expected ErrMissingColumn, got %v", err)
		}
	})

	t.Run("count column must be numeric", func(t *testing.T) {
		t.Parallel()

		f, err := frame.ReadCSV(strings.NewReader("year,borough,offences,number_of_offences\n2000,Camden,Robbery,1\n"), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		c := newCleaner(t, DefaultOptions())
		if _, _, err := c.Clean(f); !errors.Is(err, ErrColumnKind) {
			t.Errorf("expected ErrColumnKind, got %v", err)
		}
	})
}

func TestNewRejectsInvertedYearRange(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.YearMin, opts.YearMax = 2017, 1999
	if _, err := New(opts); !errors.Is(err, ErrInvalidYearRange) {
		t.Errorf("expected ErrInvalidYearRange, got %v", err)
	}
}
