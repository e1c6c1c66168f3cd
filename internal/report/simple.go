package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/crimetrends/internal/model"
)

// SimpleWriter outputs a human-readable build summary.
type SimpleWriter struct {
	baseWriter

	// topN is the number of rising and falling panels listed.
	topN int

	// verbose adds the cleaning breakdown.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithTopN sets the number of rising and falling panels listed.
func WithTopN(n int) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.topN = n
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		topN:       DefaultTopN,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the build summary in human-readable format.
func (w *SimpleWriter) Write(build *model.Build) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, build)
	w.writeData(&sb, build)
	w.writeMovers(&sb, "FASTEST RISING", Rising(build.Panels, w.topN))
	w.writeMovers(&sb, "FASTEST FALLING", Falling(build.Panels, w.topN))
	w.writeOutputs(&sb, build)

	return w.output.Write([]byte(sb.String()))
}

func rule(sb *strings.Builder, char string) {
	sb.WriteString(strings.Repeat(char, 70))
	sb.WriteString("\n")
}

func section(sb *strings.Builder, title string) {
	rule(sb, "-")
	sb.WriteString(title)
	sb.WriteString("\n")
	rule(sb, "-")
	sb.WriteString("\n")
}

// writeHeader writes the build identity and status.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, build *model.Build) {
	sb.WriteString("\n")
	rule(sb, "=")
	sb.WriteString("                        CRIMETRENDS BUILD\n")
	rule(sb, "=")
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("Build ID:  %s\n", build.ID))
	sb.WriteString(fmt.Sprintf("Source:    %s\n", build.Source))
	sb.WriteString(fmt.Sprintf("Started:   %s\n", build.StartedAt.Format("2006-01-02 15:04:05 MST")))
	if !build.FinishedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("Duration:  %s\n", build.FinishedAt.Sub(build.StartedAt).Round(time.Millisecond)))
	}

	switch {
	case build.Error != nil:
		sb.WriteString(fmt.Sprintf("Status:    FAILED - %v\n", build.Error))
	case build.Complete():
		sb.WriteString("Status:    Complete\n")
	default:
		sb.WriteString("Status:    Incomplete\n")
	}
	sb.WriteString("\n")
}

// writeData writes the dataset counts.
func (w *SimpleWriter) writeData(sb *strings.Builder, build *model.Build) {
	section(sb, "DATA")

	stats := build.CleanStats
	sb.WriteString(fmt.Sprintf("  Input rows:  %d\n", stats.InputRows))
	sb.WriteString(fmt.Sprintf("  Kept rows:   %d (%d dropped)\n", stats.KeptRows, stats.Dropped()))
	if w.verbose {
		sb.WriteString(fmt.Sprintf("    unmatched years: %d\n", stats.UnmatchedYears))
		sb.WriteString(fmt.Sprintf("    missing counts:  %d\n", stats.MissingCounts))
		sb.WriteString(fmt.Sprintf("    excluded rows:   %d\n", stats.ExcludedRows))
	}
	sb.WriteString(fmt.Sprintf("  Records:     %d\n", len(build.Records)))
	if first, last := yearSpan(build.Records); first != 0 {
		sb.WriteString(fmt.Sprintf("  Years:       %d-%d\n", first, last))
	}
	sb.WriteString(fmt.Sprintf("  Boroughs:    %d\n", len(build.Boroughs())))
	sb.WriteString(fmt.Sprintf("  Offences:    %d\n", len(build.Offences())))
	sb.WriteString(fmt.Sprintf("  Panels:      %d", len(build.Panels)))
	if n := undefinedSlopes(build.Panels); n > 0 {
		sb.WriteString(fmt.Sprintf(" (%d without trend)", n))
	}
	sb.WriteString("\n\n")
}

// writeMovers writes a ranked list of panels.
func (w *SimpleWriter) writeMovers(sb *strings.Builder, title string, panels []model.PanelSummary) {
	if len(panels) == 0 {
		return
	}

	section(sb, title)
	for i, p := range panels {
		sb.WriteString(fmt.Sprintf("  %d. %-45s %10s/yr\n", i+1, p.Key(), formatSigned(p.Slope)))
	}
	sb.WriteString("\n")
}

// writeOutputs writes the paths of the generated artifacts.
func (w *SimpleWriter) writeOutputs(sb *strings.Builder, build *model.Build) {
	section(sb, "OUTPUTS")

	if build.StaticChartPath != "" {
		sb.WriteString(fmt.Sprintf("  Chart:    %s\n", build.StaticChartPath))
	}
	if build.GridDir != "" {
		sb.WriteString(fmt.Sprintf("  Grid:     %s\n", joinPath(build.OutputDir, build.GridDir)))
	}
	if build.ArticlePath != "" {
		sb.WriteString(fmt.Sprintf("  Article:  %s\n", build.ArticlePath))
	}
	sb.WriteString(fmt.Sprintf("  Steps:    %s\n", strings.Join(build.PerformedSteps, ", ")))
	sb.WriteString("\n")
	rule(sb, "=")
}
