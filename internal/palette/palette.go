// Package palette builds colour ramps for the charts.
package palette

import (
	"errors"
	"fmt"
	"image/color"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Sentinel errors for the palette package.
var (
	// ErrEmptyPalette is returned when a ramp is requested from no colours.
	ErrEmptyPalette = errors.New("empty palette")

	// ErrInvalidHex is returned for a colour that is not #rgb or #rrggbb.
	ErrInvalidHex = errors.New("invalid hex colour")
)

// RampSize is the number of colours used for offence lines.
const RampSize = 9

// DefaultBase is the base palette the offence ramp is interpolated from,
// ordered from cool to warm.
var DefaultBase = []string{"#2c7bb6", "#abd9e9", "#fdae61", "#d7191c"}

// Ramp interpolates n colours along base in CIE-Lab space, keeping the base
// ordering. The first and last colours are the base endpoints.
func Ramp(base []string, n int) ([]string, error) {
	if len(base) == 0 {
		return nil, ErrEmptyPalette
	}
	if n <= 0 {
		return []string{}, nil
	}

	stops, err := parse(base)
	if err != nil {
		return nil, err
	}

	out := make([]string, n)
	if n == 1 || len(stops) == 1 {
		for i := range out {
			out[i] = stops[0].Hex()
		}
		return out, nil
	}

	segments := float64(len(stops) - 1)
	for i := range out {
		switch {
		case i == 0:
			out[i] = stops[0].Hex()
			continue
		case i == n-1:
			out[i] = stops[len(stops)-1].Hex()
			continue
		}

		pos := float64(i) / float64(n-1) * segments
		idx := int(pos)
		if idx >= len(stops)-1 {
			idx = len(stops) - 2
		}
		out[i] = stops[idx].BlendLab(stops[idx+1], pos-float64(idx)).Clamped().Hex()
	}
	return out, nil
}

// Validate reports whether every colour of base parses.
func Validate(base []string) error {
	_, err := parse(base)
	return err
}

// RGBA converts a hex colour to an opaque color.RGBA.
func RGBA(hex string) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidHex, hex)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

func parse(base []string) ([]colorful.Color, error) {
	stops := make([]colorful.Color, len(base))
	for i, hex := range base {
		c, err := colorful.Hex(hex)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidHex, hex)
		}
		stops[i] = c
	}
	return stops, nil
}

// Assign maps each distinct key to a colour by its position in sorted
// order, cycling through colors when there are more keys than colours.
func Assign(keys []string, colors []string) map[string]string {
	sorted := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	out := make(map[string]string, len(sorted))
	if len(colors) == 0 {
		return out
	}
	for i, k := range sorted {
		out[k] = colors[i%len(colors)]
	}
	return out
}
