package aggregate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/nao1215/crimetrends/internal/clean"
	"github.com/nao1215/crimetrends/internal/frame"
	"github.com/nao1215/crimetrends/internal/model"
)

func TestAggregate(t *testing.T) {
	t.Parallel()

	rows := []model.RawRow{
		{Year: 2000, Borough: "Hackney", Offence: "Robbery", Count: 10},
		{Year: 2000, Borough: "Camden", Offence: "Robbery", Count: 3},
		{Year: 2000, Borough: "Camden", Offence: "Robbery", Count: 4.4},
		{Year: 1999, Borough: "Camden", Offence: "Robbery", Count: 1},
		{Year: 1999, Borough: "Camden", Offence: "Drugs", Count: 2},
	}

	t.Run("sums counts per key in order", func(t *testing.T) {
		t.Parallel()

		records, err := Aggregate(context.Background(), rows, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		expected := []model.OffenceRecord{
			{Year: 1999, Borough: "Camden", Offence: "Drugs", Count: 2},
			{Year: 1999, Borough: "Camden", Offence: "Robbery", Count: 1},
			{Year: 2000, Borough: "Camden", Offence: "Robbery", Count: 7},
			{Year: 2000, Borough: "Hackney", Offence: "Robbery", Count: 10},
		}
		if !reflect.DeepEqual(records, expected) {
			t.Errorf("unexpected records:\n got %+v\nwant %+v", records, expected)
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()

		first, err := Aggregate(context.Background(), rows, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := Aggregate(context.Background(), model.ToRawRows(first), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Errorf("re-aggregation changed records:\n got %+v\nwant %+v", second, first)
		}
	})

	t.Run("keys are unique", func(t *testing.T) {
		t.Parallel()

		records, err := Aggregate(context.Background(), rows, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		seen := make(map[model.RecordKey]bool)
		for _, r := range records {
			if seen[r.Key()] {
				t.Errorf("duplicate key %+v", r.Key())
			}
			seen[r.Key()] = true
		}
	})

	t.Run("applies filter", func(t *testing.T) {
		t.Parallel()

		records, err := Aggregate(context.Background(), rows, clean.NewExclusions("Drugs", []string{"Hackney"}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("expected 2 records, got %+v", records)
		}
		for _, r := range records {
			if r.Borough != "Camden" || r.Offence != "Robbery" {
				t.Errorf("unexpected record %+v", r)
			}
		}
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		records, err := Aggregate(context.Background(), nil, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(records) != 0 {
			t.Errorf("expected no records, got %+v", records)
		}
	})

	t.Run("rejects invalid counts", func(t *testing.T) {
		t.Parallel()

		for _, n := range []float64{-1, math.NaN(), math.Inf(1)} {
			_, err := Aggregate(context.Background(), []model.RawRow{{Year: 2000, Borough: "Camden", Offence: "Drugs", Count: n}}, nil)
			if !errors.Is(err, ErrInvalidCount) {
				t.Errorf("count %v: expected ErrInvalidCount, got %v", n, err)
			}
		}
	})
}

func TestStoreSumTwice(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, err := Open(ctx)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer s.Close()

	if err := s.Insert(ctx, []model.RawRow{{Year: 2001, Borough: "Brent", Offence: "Fraud", Count: 2}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Insert(ctx, []model.RawRow{{Year: 2001, Borough: "Brent", Offence: "Fraud", Count: 3}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 2; i++ {
		records, err := s.Sum(ctx, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(records) != 1 || records[0].Count != 5 {
			t.Errorf("pass %d: unexpected records %+v", i, records)
		}
	}
}

// TestCleanAndAggregate runs a synthetic dataset through cleaning and
// aggregation and checks that rollup areas do not survive.
func TestCleanAndAggregate(t *testing.T) {
	t.Parallel()

	input := "Year,Borough,Offences,Number of offences\n" +
		"2000-01,Camden,Robbery,100\n" +
		"2000-01,Camden,Robbery,20\n" +
		"2000-01,Inner London,Robbery,5000\n" +
		"2000-01,Outer London,Robbery,6000\n" +
		"2001-02,Camden,All recorded offences,900\n" +
		"2001-02,Camden,Robbery,90\n"

	f, err := frame.ReadCSV(strings.NewReader(input), clean.Schema)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	opts := clean.DefaultOptions()
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := clean.New(opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows, _, err := c.Clean(f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := Aggregate(context.Background(), rows, opts.Exclusions)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, r := range records {
		if r.Borough == "Inner London" || r.Borough == "Outer London" {
			t.Errorf("rollup borough survived aggregation: %+v", r)
		}
		if r.Offence == clean.DefaultAggregateLabel {
			t.Errorf("aggregate label survived aggregation: %+v", r)
		}
	}
	expected := []model.OffenceRecord{
		{Year: 2000, Borough: "Camden", Offence: "Robbery", Count: 120},
		{Year: 2001, Borough: "Camden", Offence: "Robbery", Count: 90},
	}
	if !reflect.DeepEqual(records, expected) {
		t.Errorf("unexpected records:\n got %+v\nwant %+v", records, expected)
	}
}
