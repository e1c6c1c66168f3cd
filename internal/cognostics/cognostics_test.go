package cognostics

import (
	"math"
	"testing"

	"github.com/nao1215/crimetrends/internal/model"
)

func TestSlope(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		xs, ys   []float64
		expected float64
	}{
		{"perfect line", []float64{2010, 2011, 2012}, []float64{10, 20, 30}, 10},
		{"flat", []float64{2000, 2001}, []float64{5, 5}, 0},
		{"falling", []float64{2000, 2001, 2002, 2003}, []float64{8, 6, 4, 2}, -2},
	}

	for _, tt := range tests {

		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Round2(Slope(tt.xs, tt.ys))
			if got != tt.expected {
				t.Errorf("Slope = %v, expected %v", got, tt.expected)
			}
		})
	}

	t.Run("single distinct year is NaN", func(t *testing.T) {
		t.Parallel()
		if !math.IsNaN(Slope([]float64{2005, 2005}, []float64{1, 3})) {
			t.Error("expected NaN slope")
		}
		if !math.IsNaN(Slope([]float64{2005}, []float64{1})) {
			t.Error("expected NaN slope for a single point")
		}
	})
}

func TestRound2(t *testing.T) {
	t.Parallel()

	for input, expected := range map[float64]float64{
		1.234: 1.23, 1.236: 1.24, -0.456: -0.46, 10: 10,
	} {
		if got := Round2(input); got != expected {
			t.Errorf("Round2(%v) = %v, expected %v", input, got, expected)
		}
	}
	if !math.IsNaN(Round2(math.NaN())) {
		t.Error("Round2(NaN) must be NaN")
	}
}

func TestMeanAndIQR(t *testing.T) {
	t.Parallel()

	values := []float64{4, 2, 1, 3}
	if got := Mean(values); got != 2.5 {
		t.Errorf("Mean = %v, expected 2.5", got)
	}
	if got := IQR(values); got != 1.5 {
		t.Errorf("IQR = %v, expected 1.5", got)
	}
	if values[0] != 4 {
		t.Error("IQR must not reorder its input")
	}

	if !math.IsNaN(Mean(nil)) || !math.IsNaN(IQR(nil)) {
		t.Error("expected NaN for empty input")
	}
	if IQR([]float64{7}) != 0 {
		t.Error("expected zero IQR for a single value")
	}
}

func TestQuantile7(t *testing.T) {
	t.Parallel()

	sorted := []float64{1, 2, 3, 4}
	tests := []struct {
		p        float64
		expected float64
	}{
		{0, 1},
		{0.25, 1.75},
		{0.5, 2.5},
		{0.75, 3.25},
		{1, 4},
	}
	for _, tt := range tests {
		if got := Quantile7(sorted, tt.p); got != tt.expected {
			t.Errorf("Quantile7(%v) = %v, expected %v", tt.p, got, tt.expected)
		}
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	records := []model.OffenceRecord{
		{Year: 2012, Borough: "Camden", Offence: "Robbery", Count: 30},
		{Year: 2010, Borough: "Camden", Offence: "Robbery", Count: 10},
		{Year: 2011, Borough: "Camden", Offence: "Robbery", Count: 20},
		{Year: 2010, Borough: "Barnet", Offence: "Drugs", Count: 0},
		{Year: 2010, Borough: "Camden", Offence: "Drugs", Count: 4},
	}
	colors := map[string]string{"Robbery": "#d7191c"}

	panels := Summarize(records, colors)
	if len(panels) != 3 {
		t.Fatalf("expected 3 panels, got %d", len(panels))
	}

	if panels[0].Borough != "Barnet" || panels[1].Offence != "Drugs" || panels[2].Offence != "Robbery" {
		t.Errorf("unexpected order: %+v", panels)
	}

	robbery := panels[2]
	if robbery.Slope != 10 || robbery.Mean != 20 || robbery.IQR != 10 {
		t.Errorf("unexpected cognostics %+v", robbery)
	}
	if robbery.Count != 3 || robbery.Min != 10 || robbery.Max != 30 {
		t.Errorf("unexpected range cognostics %+v", robbery)
	}
	if robbery.FirstYear != 2010 || robbery.LastYear != 2012 || robbery.PctChange != 200 {
		t.Errorf("unexpected year cognostics %+v", robbery)
	}
	for i, p := range robbery.Chart.Points {
		if p.Year != 2010+i {
			t.Errorf("chart points not ordered by year: %+v", robbery.Chart.Points)
		}
	}
	if robbery.Chart.Color != "#d7191c" || robbery.Chart.XLabel != XLabel {
		t.Errorf("unexpected chart %+v", robbery.Chart)
	}

	barnet := panels[0]
	if barnet.HasSlope() {
		t.Error("single-year panel must have no slope")
	}
	if !math.IsNaN(barnet.PctChange) {
		t.Error("expected NaN percent change from zero")
	}
	if barnet.Chart.Color != fallbackColor {
		t.Errorf("expected fallback colour, got %q", barnet.Chart.Color)
	}
}

func TestSummarizeRoundsCognostics(t *testing.T) {
	t.Parallel()

	panels := Summarize([]model.OffenceRecord{
		{Year: 2010, Borough: "Camden", Offence: "Robbery", Count: 10},
		{Year: 2011, Borough: "Camden", Offence: "Robbery", Count: 11},
		{Year: 2012, Borough: "Camden", Offence: "Robbery", Count: 11},
	}, nil)
	if len(panels) != 1 {
		t.Fatalf("expected 1 panel, got %d", len(panels))
	}

	p := panels[0]
	if p.Mean != 10.67 {
		t.Errorf("expected mean rounded to 10.67, got %v", p.Mean)
	}
	if p.IQR != 0.5 {
		t.Errorf("expected IQR 0.5, got %v", p.IQR)
	}
	if p.Slope != 0.5 {
		t.Errorf("expected slope 0.5, got %v", p.Slope)
	}
}
