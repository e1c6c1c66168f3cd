package report

import (
	"encoding/json"
	"io"
	"math"
	"time"

	"github.com/nao1215/crimetrends/internal/model"
)

// JSONWriter outputs the build summary in JSON format.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string

	// topN is the number of rising and falling panels listed.
	topN int
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithJSONTopN sets the number of rising and falling panels listed.
func WithJSONTopN(n int) JSONWriterOption {
	return func(w *JSONWriter) {
		w.topN = n
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
		topN:       DefaultTopN,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the build summary in JSON format.
func (w *JSONWriter) Write(build *model.Build) (int, error) {
	return w.writeJSON(NewSummary(build, w.topN))
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}

// Summary is the serializable result of a build.
type Summary struct {
	Build     *model.Build   `json:"build"`
	Duration  string         `json:"duration,omitempty"`
	Records   int            `json:"records"`
	Boroughs  []string       `json:"boroughs"`
	Offences  []string       `json:"offences"`
	FirstYear int            `json:"first_year,omitempty"`
	LastYear  int            `json:"last_year,omitempty"`
	Panels    []PanelJSON    `json:"panels"`
	Rising    []PanelJSON    `json:"rising"`
	Falling   []PanelJSON    `json:"falling"`
	Mix       []OffenceTotal `json:"latest_offence_mix"`
}

// PanelJSON is a panel's cognostics with undefined values as null.
type PanelJSON struct {
	Borough   string   `json:"borough"`
	Offence   string   `json:"offence"`
	Slope     *float64 `json:"slope"`
	Mean      *float64 `json:"mean"`
	IQR       *float64 `json:"iqr"`
	Count     int      `json:"count"`
	Min       int64    `json:"min"`
	Max       int64    `json:"max"`
	FirstYear int      `json:"first_year"`
	LastYear  int      `json:"last_year"`
	PctChange *float64 `json:"pct_change"`
}

// NewSummary collects the summary of build, listing topN movers each way.
func NewSummary(build *model.Build, topN int) *Summary {
	if build.Error != nil {
		build.ErrorMessage = build.Error.Error()
	}

	s := &Summary{
		Build:    build,
		Records:  len(build.Records),
		Boroughs: build.Boroughs(),
		Offences: build.Offences(),
		Panels:   toPanelJSON(build.Panels),
		Rising:   toPanelJSON(Rising(build.Panels, topN)),
		Falling:  toPanelJSON(Falling(build.Panels, topN)),
		Mix:      OffenceTotals(build.Records, model.LatestYear(build.Records)),
	}
	s.FirstYear, s.LastYear = yearSpan(build.Records)
	if !build.FinishedAt.IsZero() {
		s.Duration = build.FinishedAt.Sub(build.StartedAt).Round(time.Millisecond).String()
	}
	return s
}

func toPanelJSON(panels []model.PanelSummary) []PanelJSON {
	out := make([]PanelJSON, len(panels))
	for i, p := range panels {
		out[i] = PanelJSON{
			Borough:   p.Borough,
			Offence:   p.Offence,
			Slope:     finite(p.Slope),
			Mean:      finite(p.Mean),
			IQR:       finite(p.IQR),
			Count:     p.Count,
			Min:       p.Min,
			Max:       p.Max,
			FirstYear: p.FirstYear,
			LastYear:  p.LastYear,
			PctChange: finite(p.PctChange),
		}
	}
	return out
}

// finite returns a pointer to v, or nil when v is NaN or infinite.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
