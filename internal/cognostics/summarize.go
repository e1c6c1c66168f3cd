package cognostics

import (
	"math"
	"sort"

	"github.com/nao1215/crimetrends/internal/model"
)

// Axis labels of the embedded panel charts.
const (
	XLabel = "Year"
	YLabel = "Offences"
)

// fallbackColor is used for offences missing from the colour map.
const fallbackColor = "#4d4d4d"

// Summarize computes one PanelSummary per (borough, offence) group in
// records, ordered by borough then offence. colors maps an offence to the
// line colour of its panel chart.
func Summarize(records []model.OffenceRecord, colors map[string]string) []model.PanelSummary {
	type key struct{ borough, offence string }

	groups := make(map[key][]model.Point)
	for _, r := range records {
		k := key{r.Borough, r.Offence}
		groups[k] = append(groups[k], model.Point{Year: r.Year, Count: r.Count})
	}

	panels := make([]model.PanelSummary, 0, len(groups))
	for k, points := range groups {
		color, ok := colors[k.offence]
		if !ok {
			color = fallbackColor
		}
		panels = append(panels, summarize(k.borough, k.offence, points, color))
	}

	sort.Slice(panels, func(i, j int) bool {
		if panels[i].Borough != panels[j].Borough {
			return panels[i].Borough < panels[j].Borough
		}
		return panels[i].Offence < panels[j].Offence
	})
	return panels
}

func summarize(borough, offence string, points []model.Point, color string) model.PanelSummary {
	sort.Slice(points, func(i, j int) bool { return points[i].Year < points[j].Year })

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	minCount, maxCount := points[0].Count, points[0].Count
	for i, p := range points {
		xs[i] = float64(p.Year)
		ys[i] = float64(p.Count)
		minCount = min(minCount, p.Count)
		maxCount = max(maxCount, p.Count)
	}

	first, last := points[0], points[len(points)-1]

	return model.PanelSummary{
		Borough:   borough,
		Offence:   offence,
		Slope:     Round2(Slope(xs, ys)),
		Mean:      Round2(Mean(ys)),
		IQR:       Round2(IQR(ys)),
		Count:     len(points),
		Min:       minCount,
		Max:       maxCount,
		FirstYear: first.Year,
		LastYear:  last.Year,
		PctChange: PercentChange(float64(first.Count), float64(last.Count)),
		Chart: model.PanelChart{
			Points: points,
			Color:  color,
			XLabel: XLabel,
			YLabel: YLabel,
		},
	}
}

// PercentChange returns the change from first to last in percent, rounded
// to two decimals. It is NaN when first is zero.
func PercentChange(first, last float64) float64 {
	if first == 0 {
		return math.NaN()
	}
	return Round2((last - first) / first * 100)
}
