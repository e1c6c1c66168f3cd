package model

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"
)

// Point is one (year, count) observation of a panel.
type Point struct {
	Year  int   `json:"year"`
	Count int64 `json:"count"`
}

// PanelChart is the interactive chart embedded in a panel: a line through
// year-ordered points with a marker per point that shows the count on hover.
type PanelChart struct {
	Points []Point `json:"points"`
	Color  string  `json:"color"`
	XLabel string  `json:"x_label"`
	YLabel string  `json:"y_label"`
}

// PanelSummary holds the cognostics for one (borough, offence) group.
// Slope is NaN when the group spans fewer than two distinct years.
// PctChange is NaN when the first count is zero.
type PanelSummary struct {
	Borough string `json:"borough"`
	Offence string `json:"offence"`

	Slope     float64 `json:"slope"`
	Mean      float64 `json:"mean"`
	IQR       float64 `json:"iqr"`
	Count     int     `json:"count"`
	Min       int64   `json:"min"`
	Max       int64   `json:"max"`
	FirstYear int     `json:"first_year"`
	LastYear  int     `json:"last_year"`
	PctChange float64 `json:"pct_change"`

	Chart PanelChart `json:"chart"`

	// Thumbnail is the panel image path relative to the grid directory.
	Thumbnail string `json:"thumbnail,omitempty"`
}

// HasSlope reports whether the trend cognostic is defined.
func (p PanelSummary) HasSlope() bool {
	return !math.IsNaN(p.Slope)
}

// Key returns a human-readable identifier of the panel.
func (p PanelSummary) Key() string {
	return p.Borough + " / " + p.Offence
}

// Slug returns a filesystem and URL safe identifier of the panel.
func (p PanelSummary) Slug() string {
	return slugify(p.Borough) + "--" + slugify(p.Offence)
}

// SortKey names a field panels can be ordered by.
type SortKey string

// Sortable panel fields.
const (
	SortBySlope     SortKey = "slope"
	SortByMean      SortKey = "mean"
	SortByIQR       SortKey = "iqr"
	SortByCount     SortKey = "count"
	SortByMin       SortKey = "min"
	SortByMax       SortKey = "max"
	SortByPctChange SortKey = "pct_change"
	SortByBorough   SortKey = "borough"
	SortByOffence   SortKey = "offence"
)

// NumericSortKeys lists the numeric cognostics in display order.
var NumericSortKeys = []SortKey{
	SortBySlope, SortByMean, SortByIQR, SortByCount,
	SortByMin, SortByMax, SortByPctChange,
}

// ParseSortKey validates a sort key name.
func ParseSortKey(s string) (SortKey, error) {
	key := SortKey(strings.ToLower(strings.TrimSpace(s)))
	switch key {
	case SortBySlope, SortByMean, SortByIQR, SortByCount, SortByMin,
		SortByMax, SortByPctChange, SortByBorough, SortByOffence:
		return key, nil
	default:
		return "", fmt.Errorf("unknown sort key %q", s)
	}
}

// Cognostic returns the numeric value of key for p.
// The second result is false for non-numeric keys.
func (p PanelSummary) Cognostic(key SortKey) (float64, bool) {
	switch key {
	case SortBySlope:
		return p.Slope, true
	case SortByMean:
		return p.Mean, true
	case SortByIQR:
		return p.IQR, true
	case SortByCount:
		return float64(p.Count), true
	case SortByMin:
		return float64(p.Min), true
	case SortByMax:
		return float64(p.Max), true
	case SortByPctChange:
		return p.PctChange, true
	default:
		return 0, false
	}
}

// SortPanels orders panels in place by key.
// Undefined (NaN) cognostics always sort after defined ones, whatever the
// direction. Ties are broken by borough then offence, ascending.
func SortPanels(panels []PanelSummary, key SortKey, descending bool) {
	sort.SliceStable(panels, func(i, j int) bool {
		a, b := panels[i], panels[j]

		switch key {
		case SortByBorough, SortByOffence:
			av, bv := a.Borough, b.Borough
			if key == SortByOffence {
				av, bv = a.Offence, b.Offence
			}
			if av != bv {
				if descending {
					return av > bv
				}
				return av < bv
			}
		default:
			av, _ := a.Cognostic(key)
			bv, _ := b.Cognostic(key)
			aNaN, bNaN := math.IsNaN(av), math.IsNaN(bv)
			switch {
			case aNaN && !bNaN:
				return false
			case !aNaN && bNaN:
				return true
			case !aNaN && !bNaN && av != bv:
				if descending {
					return av > bv
				}
				return av < bv
			}
		}

		if a.Borough != b.Borough {
			return a.Borough < b.Borough
		}
		return a.Offence < b.Offence
	})
}

// slugify lowercases s and replaces every run of non-alphanumeric
// characters with a single hyphen.
func slugify(s string) string {
	var sb strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			hyphen = false
			continue
		}
		if !hyphen && sb.Len() > 0 {
			sb.WriteByte('-')
			hyphen = true
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}
