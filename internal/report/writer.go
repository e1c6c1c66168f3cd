package report

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/nao1215/crimetrends/internal/model"
)

// DefaultTopN is the number of panels listed as fastest rising or falling.
const DefaultTopN = 5

// Writer defines the interface for build output.
type Writer interface {
	// Write outputs the build to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(build *model.Build) (int, error)
}

// MultiWriter writes to multiple Writers in order.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the build to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(build *model.Build) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(build)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// Rising returns up to n panels with a positive slope, steepest first.
func Rising(panels []model.PanelSummary, n int) []model.PanelSummary {
	return movers(panels, n, true)
}

// Falling returns up to n panels with a negative slope, steepest first.
func Falling(panels []model.PanelSummary, n int) []model.PanelSummary {
	return movers(panels, n, false)
}

func movers(panels []model.PanelSummary, n int, rising bool) []model.PanelSummary {
	out := make([]model.PanelSummary, 0)
	for _, p := range panels {
		if !p.HasSlope() {
			continue
		}
		if (rising && p.Slope > 0) || (!rising && p.Slope < 0) {
			out = append(out, p)
		}
	}
	model.SortPanels(out, model.SortBySlope, rising)
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// OffenceTotals returns the summed count per offence in year, ordered by
// count descending then name.
func OffenceTotals(records []model.OffenceRecord, year int) []OffenceTotal {
	totals := make(map[string]int64)
	for _, r := range records {
		if r.Year == year {
			totals[r.Offence] += r.Count
		}
	}

	out := make([]OffenceTotal, 0, len(totals))
	for offence, count := range totals {
		out = append(out, OffenceTotal{Offence: offence, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Offence < out[j].Offence
	})
	return out
}

// OffenceTotal is the number of offences of one type in a year.
type OffenceTotal struct {
	Offence string `json:"offence"`
	Count   int64  `json:"count"`
}

// formatFloat renders a cognostic with two decimals, or "n/a" when undefined.
func formatFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// formatSigned renders a slope with an explicit sign, or "n/a".
func formatSigned(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%+.2f", v)
}

// joinPath joins the output directory and a path relative to it.
func joinPath(dir, rel string) string {
	if dir == "" {
		return rel
	}
	return filepath.Join(dir, rel)
}

// yearSpan returns the first and last year present in records.
func yearSpan(records []model.OffenceRecord) (int, int) {
	if len(records) == 0 {
		return 0, 0
	}
	first, last := records[0].Year, records[0].Year
	for _, r := range records {
		first = min(first, r.Year)
		last = max(last, r.Year)
	}
	return first, last
}

// undefinedSlopes counts panels without a trend.
func undefinedSlopes(panels []model.PanelSummary) int {
	n := 0
	for _, p := range panels {
		if !p.HasSlope() {
			n++
		}
	}
	return n
}
