package chart

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot/vg"

	"github.com/nao1215/crimetrends/internal/palette"
)

// Theme is the complete styling of the static chart.
type Theme struct {
	// Palette holds the offence line colours as hex strings. Offences are
	// assigned colours by their sorted position.
	Palette []string

	// Background fills every panel.
	Background color.Color

	// LineWidth is the width of the offence lines.
	LineWidth vg.Length

	// MarkerRadius is the radius of the point markers. Zero hides them.
	MarkerRadius vg.Length

	// TitleSize is the font size of the panel titles.
	TitleSize vg.Length

	// LabelSize is the font size of tick and legend labels.
	LabelSize vg.Length

	// PanelWidth and PanelHeight are the size of one facet.
	PanelWidth  vg.Length
	PanelHeight vg.Length

	// Columns is the number of facets per row.
	Columns int
}

// DefaultColumns is the default number of facets per row.
const DefaultColumns = 4

// NewTheme builds the default theme with an offence palette interpolated
// from base and the given number of facet columns.
func NewTheme(base []string, columns int) (Theme, error) {
	if columns < 1 {
		return Theme{}, fmt.Errorf("%w: %d", ErrInvalidColumns, columns)
	}
	colors, err := palette.Ramp(base, palette.RampSize)
	if err != nil {
		return Theme{}, fmt.Errorf("failed to build palette: %w", err)
	}

	return Theme{
		Palette:      colors,
		Background:   color.White,
		LineWidth:    vg.Points(1.2),
		MarkerRadius: vg.Points(1.5),
		TitleSize:    vg.Points(10),
		LabelSize:    vg.Points(7),
		PanelWidth:   vg.Points(200),
		PanelHeight:  vg.Points(150),
		Columns:      columns,
	}, nil
}

// DefaultTheme returns the theme built from the default base palette.
func DefaultTheme() Theme {
	theme, err := NewTheme(palette.DefaultBase, DefaultColumns)
	if err != nil {
		// The default base palette always parses.
		panic(err)
	}
	return theme
}

// colorOf returns the RGBA value of a hex colour, falling back to black.
func colorOf(hex string) color.RGBA {
	c, err := palette.RGBA(hex)
	if err != nil {
		return color.RGBA{A: 0xff}
	}
	return c
}
