package grid

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/crimetrends/internal/model"
)

// Display defaults.
const (
	DefaultName        = "london_crime_trends"
	DefaultDescription = "Recorded offences by London borough and offence type"
	DefaultRows        = 2
	DefaultCols        = 4
)

// Cognostic describes one per-panel metric the grid can sort and filter by.
type Cognostic struct {
	Key         model.SortKey `json:"key"`
	Label       string        `json:"label"`
	Description string        `json:"description"`
	Numeric     bool          `json:"numeric"`
}

// Display is the panel and cognostics record set consumed by the static
// grid renderer.
type Display struct {
	Name        string
	Description string

	// Rows and Cols are the number of panels per page.
	Rows int
	Cols int

	// SortKey and SortDescending are the initial ordering.
	SortKey        model.SortKey
	SortDescending bool

	// Labels are the cognostics printed under every panel.
	Labels []model.SortKey

	Cognostics []Cognostic

	// Panels are ordered by the initial sort.
	Panels []model.PanelSummary
}

// Option configures a Display.
type Option func(*Display)

// WithName sets the display name.
func WithName(name string) Option {
	return func(d *Display) {
		d.Name = name
	}
}

// WithDescription sets the display description.
func WithDescription(description string) Option {
	return func(d *Display) {
		d.Description = description
	}
}

// WithLayout sets the number of panel rows and columns per page.
func WithLayout(rows, cols int) Option {
	return func(d *Display) {
		d.Rows = rows
		d.Cols = cols
	}
}

// WithSort sets the initial ordering.
func WithSort(key model.SortKey, descending bool) Option {
	return func(d *Display) {
		d.SortKey = key
		d.SortDescending = descending
	}
}

// NewDisplay creates a display of panels. By default panels are laid out
// 2x4 per page and sorted by slope, steepest rise first; panels without a
// slope come last. The input slice is not modified.
func NewDisplay(panels []model.PanelSummary, opts ...Option) (*Display, error) {
	if len(panels) == 0 {
		return nil, ErrNoPanels
	}

	d := &Display{
		Name:           DefaultName,
		Description:    DefaultDescription,
		Rows:           DefaultRows,
		Cols:           DefaultCols,
		SortKey:        model.SortBySlope,
		SortDescending: true,
		Labels:         []model.SortKey{model.SortByBorough, model.SortByOffence, model.SortBySlope},
		Cognostics:     DefaultCognostics(),
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.Rows < 1 || d.Cols < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidLayout, d.Rows, d.Cols)
	}

	d.Panels = make([]model.PanelSummary, len(panels))
	copy(d.Panels, panels)
	model.SortPanels(d.Panels, d.SortKey, d.SortDescending)

	return d, nil
}

// Title returns the display name as a heading, "london_crime_trends"
// becoming "London Crime Trends".
func (d *Display) Title() string {
	return cases.Title(language.English).String(strings.ReplaceAll(d.Name, "_", " "))
}

// PerPage returns the number of panels on one page.
func (d *Display) PerPage() int {
	return d.Rows * d.Cols
}

// Pages returns the number of pages needed for all panels.
func (d *Display) Pages() int {
	return (len(d.Panels) + d.PerPage() - 1) / d.PerPage()
}

// cognosticDescriptions documents every sortable field.
var cognosticDescriptions = map[model.SortKey]string{
	model.SortByBorough:   "London borough",
	model.SortByOffence:   "Offence type",
	model.SortBySlope:     "Least squares change in offences per year",
	model.SortByMean:      "Mean offences per year",
	model.SortByIQR:       "Interquartile range of yearly offences",
	model.SortByCount:     "Number of years observed",
	model.SortByMin:       "Fewest offences in a year",
	model.SortByMax:       "Most offences in a year",
	model.SortByPctChange: "Percent change from the first to the last year",
}

// DefaultCognostics returns the descriptors of every panel field, the two
// label fields first.
func DefaultCognostics() []Cognostic {
	keys := append([]model.SortKey{model.SortByBorough, model.SortByOffence}, model.NumericSortKeys...)

	out := make([]Cognostic, len(keys))
	for i, key := range keys {
		_, numeric := model.PanelSummary{}.Cognostic(key)
		out[i] = Cognostic{
			Key:         key,
			Label:       Label(key),
			Description: cognosticDescriptions[key],
			Numeric:     numeric,
		}
	}
	return out
}

// Label returns the display label of a cognostic key.
// Abbreviations stay upper case: "iqr" becomes "IQR", "pct_change" "Pct Change".
func Label(key model.SortKey) string {
	if key == model.SortByIQR {
		return "IQR"
	}
	return cases.Title(language.English).String(strings.ReplaceAll(string(key), "_", " "))
}
