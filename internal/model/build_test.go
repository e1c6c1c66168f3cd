package model

import (
	"errors"
	"testing"
	"time"
)

// TestNewBuild tests the Build constructor.
func TestNewBuild(t *testing.T) {
	t.Parallel()

	build := NewBuild("https://example.com/crime.csv", "public", "trelliscope")

	t.Run("sets source and directories", func(t *testing.T) {
		t.Parallel()
		if build.Source != "https://example.com/crime.csv" {
			t.Errorf("unexpected source %q", build.Source)
		}
		if build.OutputDir != "public" || build.GridDir != "trelliscope" {
			t.Errorf("unexpected dirs %q %q", build.OutputDir, build.GridDir)
		}
	})

	t.Run("assigns an id", func(t *testing.T) {
		t.Parallel()
		if len(build.ID) != 36 {
			t.Errorf("expected uuid, got %q", build.ID)
		}
	})

	t.Run("sets start timestamp", func(t *testing.T) {
		t.Parallel()
		if time.Since(build.StartedAt) > time.Second {
			t.Error("StartedAt is too old")
		}
	})

	t.Run("is not complete until finished", func(t *testing.T) {
		t.Parallel()
		if build.Complete() {
			t.Error("new build must not be complete")
		}
	})
}

func TestBuildComplete(t *testing.T) {
	t.Parallel()

	build := NewBuild("u", "o", "g")
	build.FinishedAt = time.Now()
	if !build.Complete() {
		t.Error("expected complete build")
	}

	build.Error = errors.New("boom")
	if build.Complete() {
		t.Error("failed build must not be complete")
	}
}

func TestBuildBoroughsAndOffences(t *testing.T) {
	t.Parallel()

	build := NewBuild("u", "o", "g")
	build.Records = []OffenceRecord{
		{Year: 2000, Borough: "Hackney", Offence: "Robbery", Count: 1},
		{Year: 2001, Borough: "Camden", Offence: "Drugs", Count: 2},
		{Year: 2001, Borough: "Hackney", Offence: "Drugs", Count: 3},
	}

	boroughs := build.Boroughs()
	if len(boroughs) != 2 || boroughs[0] != "Camden" || boroughs[1] != "Hackney" {
		t.Errorf("unexpected boroughs %v", boroughs)
	}
	offences := build.Offences()
	if len(offences) != 2 || offences[0] != "Drugs" {
		t.Errorf("unexpected offences %v", offences)
	}
	if LatestYear(build.Records) != 2001 {
		t.Errorf("unexpected latest year %d", LatestYear(build.Records))
	}
}

func TestCleanStatsDropped(t *testing.T) {
	t.Parallel()

	s := CleanStats{InputRows: 10, UnmatchedYears: 2, MissingCounts: 1, ExcludedRows: 1, KeptRows: 6}
	if s.Dropped() != 4 {
		t.Errorf("Dropped() = %d, expected 4", s.Dropped())
	}
}
