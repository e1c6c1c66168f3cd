package chart

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/nao1215/crimetrends/internal/model"
	"github.com/nao1215/crimetrends/internal/palette"
)

// Figure is a grid of per-borough plots followed by a legend plot.
// Unused trailing cells of the last row are nil.
type Figure struct {
	// Plots is the row-major grid of panels.
	Plots [][]*plot.Plot

	// Boroughs are the panel titles in drawing order.
	Boroughs []string

	// Offences are the legend entries in order.
	Offences []string

	theme Theme
}

// Rows returns the number of panel rows.
func (f *Figure) Rows() int {
	return len(f.Plots)
}

// Cols returns the number of panel columns.
func (f *Figure) Cols() int {
	return f.theme.Columns
}

// Size returns the width and height of the whole figure.
func (f *Figure) Size() (vg.Length, vg.Length) {
	return vg.Length(f.Cols()) * f.theme.PanelWidth, vg.Length(f.Rows()) * f.theme.PanelHeight
}

// SmallMultiples builds one panel per borough, sorted by name, each with one
// line per offence type over the years. Every panel has its own y-scale.
func SmallMultiples(records []model.OffenceRecord, theme Theme) (*Figure, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	if theme.Columns < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidColumns, theme.Columns)
	}

	series := make(map[string]map[string]plotter.XYs)
	offenceNames := make([]string, 0)
	for _, r := range records {
		byOffence, ok := series[r.Borough]
		if !ok {
			byOffence = make(map[string]plotter.XYs)
			series[r.Borough] = byOffence
		}
		byOffence[r.Offence] = append(byOffence[r.Offence], plotter.XY{X: float64(r.Year), Y: float64(r.Count)})
		offenceNames = append(offenceNames, r.Offence)
	}

	colors := palette.Assign(offenceNames, theme.Palette)
	offences := sortedKeys(colors)

	boroughs := make([]string, 0, len(series))
	for b := range series {
		boroughs = append(boroughs, b)
	}
	sort.Strings(boroughs)

	// One extra cell for the legend.
	cells := len(boroughs) + 1
	rows := (cells + theme.Columns - 1) / theme.Columns
	plots := make([][]*plot.Plot, rows)
	for i := range plots {
		plots[i] = make([]*plot.Plot, theme.Columns)
	}

	for i, borough := range boroughs {
		p, err := boroughPlot(borough, series[borough], colors, theme)
		if err != nil {
			return nil, fmt.Errorf("failed to plot %s: %w", borough, err)
		}
		plots[i/theme.Columns][i%theme.Columns] = p
	}

	legend := legendPlot(offences, colors, theme)
	plots[len(boroughs)/theme.Columns][len(boroughs)%theme.Columns] = legend

	return &Figure{
		Plots:    plots,
		Boroughs: boroughs,
		Offences: offences,
		theme:    theme,
	}, nil
}

// Draw tiles the figure's plots onto dc with aligned data areas.
func (f *Figure) Draw(dc draw.Canvas) {
	tiles := draw.Tiles{
		Rows:      f.Rows(),
		Cols:      f.Cols(),
		PadX:      vg.Points(6),
		PadY:      vg.Points(6),
		PadTop:    vg.Points(4),
		PadBottom: vg.Points(4),
		PadLeft:   vg.Points(4),
		PadRight:  vg.Points(4),
	}

	dc.SetColor(f.theme.Background)
	dc.Fill(dc.Rectangle.Path())

	canvases := plot.Align(f.Plots, tiles, dc)
	for j, row := range f.Plots {
		for i, p := range row {
			if p != nil {
				p.Draw(canvases[j][i])
			}
		}
	}
}

// WritePNG renders the figure as a PNG image to w.
func (f *Figure) WritePNG(w io.Writer) error {
	width, height := f.Size()
	img := vgimg.New(width, height)
	f.Draw(draw.New(img))

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		return fmt.Errorf("failed to encode chart: %w", err)
	}
	return nil
}

// Render builds the small-multiples figure for records and writes it as PNG.
func Render(w io.Writer, records []model.OffenceRecord, theme Theme) error {
	fig, err := SmallMultiples(records, theme)
	if err != nil {
		return err
	}
	return fig.WritePNG(w)
}

// Save renders the figure to path, creating parent directories.
func Save(path string, records []model.OffenceRecord, theme Theme) error {
	fig, err := SmallMultiples(records, theme)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create chart directory: %w", err)
	}
	file, err := os.Create(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer file.Close()

	if err := fig.WritePNG(file); err != nil {
		return err
	}
	return file.Close()
}

func boroughPlot(borough string, byOffence map[string]plotter.XYs, colors map[string]string, theme Theme) (*plot.Plot, error) {
	p := plot.New()
	p.BackgroundColor = theme.Background
	p.Title.Text = borough
	p.Title.TextStyle.Font.Size = theme.TitleSize
	p.X.Tick.Label.Font.Size = theme.LabelSize
	p.Y.Tick.Label.Font.Size = theme.LabelSize
	p.X.Tick.Marker = yearTicks{}
	p.Add(plotter.NewGrid())

	for _, offence := range sortedKeys(byOffence) {
		xys := byOffence[offence]
		sort.Slice(xys, func(i, j int) bool { return xys[i].X < xys[j].X })

		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, err
		}
		line.Color = colorOf(colors[offence])
		line.Width = theme.LineWidth
		p.Add(line)

		if theme.MarkerRadius > 0 {
			markers, err := plotter.NewScatter(xys)
			if err != nil {
				return nil, err
			}
			markers.GlyphStyle.Color = line.Color
			markers.GlyphStyle.Radius = theme.MarkerRadius
			markers.GlyphStyle.Shape = draw.CircleGlyph{}
			p.Add(markers)
		}
	}
	return p, nil
}

func legendPlot(offences []string, colors map[string]string, theme Theme) *plot.Plot {
	p := plot.New()
	p.BackgroundColor = theme.Background
	p.HideAxes()
	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.TextStyle.Font.Size = theme.LabelSize

	for _, offence := range offences {
		swatch := &plotter.Line{LineStyle: draw.LineStyle{
			Color: colorOf(colors[offence]),
			Width: theme.LineWidth * 2,
		}}
		p.Legend.Add(offence, swatch)
	}
	return p
}

// yearTicks labels whole years only, at most five per axis.
type yearTicks struct{}

// Ticks implements plot.Ticker.
func (yearTicks) Ticks(lo, hi float64) []plot.Tick {
	first, last := int(math.Ceil(lo)), int(math.Floor(hi))
	if last < first {
		return nil
	}
	step := max(1, (last-first+4)/5)

	ticks := make([]plot.Tick, 0, 5)
	for y := first; y <= last; y++ {
		if (y-first)%step == 0 {
			ticks = append(ticks, plot.Tick{Value: float64(y), Label: strconv.Itoa(y)})
		} else {
			ticks = append(ticks, plot.Tick{Value: float64(y)})
		}
	}
	return ticks
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
