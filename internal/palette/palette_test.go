package palette

import (
	"errors"
	"image/color"
	"testing"
)

func TestRamp(t *testing.T) {
	t.Parallel()

	t.Run("nine colours keep base endpoints", func(t *testing.T) {
		t.Parallel()

		colors, err := Ramp(DefaultBase, RampSize)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(colors) != 9 {
			t.Fatalf("expected 9 colours, got %d", len(colors))
		}
		if colors[0] != DefaultBase[0] {
			t.Errorf("first colour %q, expected %q", colors[0], DefaultBase[0])
		}
		if colors[8] != DefaultBase[len(DefaultBase)-1] {
			t.Errorf("last colour %q, expected %q", colors[8], DefaultBase[len(DefaultBase)-1])
		}
	})

	t.Run("works for three and five colour bases", func(t *testing.T) {
		t.Parallel()

		for _, base := range [][]string{
			{"#000000", "#808080", "#ffffff"},
			{"#ff0000", "#ffff00", "#00ff00", "#00ffff", "#0000ff"},
		} {
			colors, err := Ramp(base, 9)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(colors) != 9 || colors[0] != base[0] || colors[8] != base[len(base)-1] {
				t.Errorf("unexpected ramp %v for base %v", colors, base)
			}
		}
	})

	t.Run("colours are distinct along a ramp", func(t *testing.T) {
		t.Parallel()

		colors, err := Ramp([]string{"#000000", "#ffffff"}, 5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		seen := make(map[string]bool)
		for _, c := range colors {
			if seen[c] {
				t.Errorf("duplicate colour %q in %v", c, colors)
			}
			seen[c] = true
		}
	})

	t.Run("single colour returns first base colour", func(t *testing.T) {
		t.Parallel()

		colors, err := Ramp(DefaultBase, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(colors) != 1 || colors[0] != DefaultBase[0] {
			t.Errorf("unexpected ramp %v", colors)
		}
	})

	t.Run("single base colour fills the ramp", func(t *testing.T) {
		t.Parallel()

		colors, err := Ramp([]string{"#000000"}, 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(colors) != 3 {
			t.Fatalf("expected 3 colours, got %v", colors)
		}
		for _, c := range colors {
			if c != "#000000" {
				t.Errorf("unexpected colour %q in %v", c, colors)
			}
		}
	})

	t.Run("errors", func(t *testing.T) {
		t.Parallel()

		if _, err := Ramp(nil, 9); !errors.Is(err, ErrEmptyPalette) {
			t.Errorf("expected ErrEmptyPalette, got %v", err)
		}
		if _, err := Ramp([]string{"#000000", "blue"}, 9); !errors.Is(err, ErrInvalidHex) {
			t.Errorf("expected ErrInvalidHex, got %v", err)
		}
	})
}

func TestRGBA(t *testing.T) {
	t.Parallel()

	got, err := RGBA("#d7191c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != (color.RGBA{R: 0xd7, G: 0x19, B: 0x1c, A: 0xff}) {
		t.Errorf("unexpected colour %v", got)
	}
	if _, err := RGBA("#12"); !errors.Is(err, ErrInvalidHex) {
		t.Errorf("expected ErrInvalidHex, got %v", err)
	}
	if err := Validate(DefaultBase); err != nil {
		t.Errorf("default base must be valid: %v", err)
	}
}

func TestAssign(t *testing.T) {
	t.Parallel()

	got := Assign([]string{"Robbery", "Drugs", "Robbery", "Burglary"}, []string{"#000000", "#ffffff"})
	expected := map[string]string{
		"Burglary": "#000000",
		"Drugs":    "#ffffff",
		"Robbery":  "#000000",
	}
	if len(got) != len(expected) {
		t.Fatalf("unexpected assignment %v", got)
	}
	for k, v := range expected {
		if got[k] != v {
			t.Errorf("Assign[%q] = %q, expected %q", k, got[k], v)
		}
	}
	if len(Assign([]string{"a"}, nil)) != 0 {
		t.Error("expected empty assignment without colours")
	}
}
