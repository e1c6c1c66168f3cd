package model

import (
	"math"
	"testing"
)

func TestPanelSummarySlug(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		borough  string
		offence  string
		expected string
	}{
		{"simple words", "Camden", "Robbery", "camden--robbery"},
		{"spaces and ampersand", "Kensington & Chelsea", "Theft and handling", "kensington-chelsea--theft-and-handling"},
		{"punctuation runs", "City of London", "Fraud / forgery", "city-of-london--fraud-forgery"},
	}

	for _, tt := range tests {

		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := PanelSummary{Borough: tt.borough, Offence: tt.offence}
			if got := p.Slug(); got != tt.expected {
				t.Errorf("Slug() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestSortPanels(t *testing.T) {
	t.Parallel()

	newPanels := func() []PanelSummary {
		return []PanelSummary{
			{Borough: "Camden", Offence: "Drugs", Slope: 1.5, Mean: 10},
			{Borough: "Barnet", Offence: "Robbery", Slope: math.NaN(), Mean: 30},
			{Borough: "Brent", Offence: "Burglary", Slope: -2, Mean: 20},
			{Borough: "Ealing", Offence: "Drugs", Slope: 4.25, Mean: 5},
		}
	}

	t.Run("slope descending puts NaN last", func(t *testing.T) {
		t.Parallel()
		panels := newPanels()
		SortPanels(panels, SortBySlope, true)

		expected := []string{"Ealing", "Camden", "Brent", "Barnet"}
		for i, b := range expected {
			if panels[i].Borough != b {
				t.Errorf("position %d: got %q, expected %q", i, panels[i].Borough, b)
			}
		}
	})

	t.Run("slope ascending still puts NaN last", func(t *testing.T) {
		t.Parallel()
		panels := newPanels()
		SortPanels(panels, SortBySlope, false)

		if panels[0].Borough != "Brent" {
			t.Errorf("expected Brent first, got %q", panels[0].Borough)
		}
		if panels[len(panels)-1].HasSlope() {
			t.Error("expected panel without slope to be last")
		}
	})

	t.Run("sorts by borough name", func(t *testing.T) {
		t.Parallel()
		panels := newPanels()
		SortPanels(panels, SortByBorough, false)

		if panels[0].Borough != "Barnet" || panels[3].Borough != "Ealing" {
			t.Errorf("unexpected order: %v", panels)
		}
	})

	t.Run("ties broken by borough", func(t *testing.T) {
		t.Parallel()
		panels := []PanelSummary{
			{Borough: "Hackney", Offence: "Drugs", Mean: 1},
			{Borough: "Brent", Offence: "Drugs", Mean: 1},
		}
		SortPanels(panels, SortByMean, true)
		if panels[0].Borough != "Brent" {
			t.Errorf("expected Brent first on tie, got %q", panels[0].Borough)
		}
	})
}

func TestParseSortKey(t *testing.T) {
	t.Parallel()

	if key, err := ParseSortKey(" Slope "); err != nil || key != SortBySlope {
		t.Errorf("ParseSortKey(Slope) = %q, %v", key, err)
	}
	if _, err := ParseSortKey("median"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestPanelSummaryCognostic(t *testing.T) {
	t.Parallel()

	p := PanelSummary{Slope: 2, Mean: 3, IQR: 4, Count: 5, Min: 6, Max: 7, PctChange: 8}
	for i, key := range NumericSortKeys {
		v, ok := p.Cognostic(key)
		if !ok {
			t.Fatalf("expected %s to be numeric", key)
		}
		if v != float64(i+2) {
			t.Errorf("Cognostic(%s) = %v, expected %v", key, v, i+2)
		}
	}
	if _, ok := p.Cognostic(SortByBorough); ok {
		t.Error("borough must not be numeric")
	}
}
