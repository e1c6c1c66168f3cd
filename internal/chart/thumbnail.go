package chart

import (
	"fmt"
	"io"
	"strconv"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/nao1215/crimetrends/internal/model"
)

// Default thumbnail size in pixels.
const (
	ThumbnailWidth  = 320
	ThumbnailHeight = 200
)

// Thumbnail renders the panel's chart as a small PNG line chart with point
// markers in the panel colour. Panels with a single year or a constant
// count are drawn with padded axis ranges.
func Thumbnail(w io.Writer, panel model.PanelSummary, width, height int) error {
	points := panel.Chart.Points
	if len(points) == 0 {
		return fmt.Errorf("%w: panel %s has no points", ErrNoRecords, panel.Key())
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = float64(p.Year)
		ys[i] = float64(p.Count)
	}

	rgba := colorOf(panel.Chart.Color)
	stroke := drawing.Color{R: rgba.R, G: rgba.G, B: rgba.B, A: rgba.A}

	first, last := points[0].Year, points[len(points)-1].Year
	xRange := paddedRange(float64(first), float64(last), 0.5)
	yMin, yMax := float64(panel.Min), float64(panel.Max)
	yRange := paddedRange(min(0, yMin), yMax*1.05, 1)

	ch := gochart.Chart{
		Width:      width,
		Height:     height,
		Background: gochart.Style{Padding: gochart.Box{Top: 12, Left: 8, Right: 12, Bottom: 8}},
		XAxis: gochart.XAxis{
			Range: xRange,
			Ticks: yearAxisTicks(first, last),
		},
		YAxis: gochart.YAxis{
			Range: yRange,
		},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    panel.Offence,
				XValues: xs,
				YValues: ys,
				Style: gochart.Style{
					StrokeColor: stroke,
					StrokeWidth: 2,
					DotColor:    stroke,
					DotWidth:    3,
				},
			},
		},
	}

	if err := ch.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("failed to render thumbnail for %s: %w", panel.Key(), err)
	}
	return nil
}

// paddedRange returns [lo, hi], widened by pad on both sides when empty.
func paddedRange(lo, hi, pad float64) *gochart.ContinuousRange {
	if hi <= lo {
		lo, hi = lo-pad, lo+pad
	}
	return &gochart.ContinuousRange{Min: lo, Max: hi}
}

func yearAxisTicks(first, last int) []gochart.Tick {
	if first == last {
		return []gochart.Tick{
			{Value: float64(first) - 0.5},
			{Value: float64(first), Label: strconv.Itoa(first)},
			{Value: float64(first) + 0.5},
		}
	}
	return []gochart.Tick{
		{Value: float64(first), Label: strconv.Itoa(first)},
		{Value: float64(last), Label: strconv.Itoa(last)},
	}
}
