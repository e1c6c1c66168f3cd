package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/nao1215/crimetrends/internal/model"
)

// MarkdownWriter outputs the build summary in Markdown format.
type MarkdownWriter struct {
	baseWriter

	// topN is the number of rising and falling panels listed.
	topN int
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		topN:       DefaultTopN,
	}
}

// Write outputs the build summary in Markdown format.
func (w *MarkdownWriter) Write(build *model.Build) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("crimetrends build")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Build ID", "`" + build.ID + "`"},
			{"Source", build.Source},
			{"Started", build.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Status", statusText(build)},
			{"Input rows", strconv.Itoa(build.CleanStats.InputRows)},
			{"Dropped rows", strconv.Itoa(build.CleanStats.Dropped())},
			{"Records", strconv.Itoa(len(build.Records))},
			{"Panels", strconv.Itoa(len(build.Panels))},
		},
	})
	md.PlainText("")

	if n := undefinedSlopes(build.Panels); n > 0 {
		md.Note(strconv.Itoa(n) + " panel(s) cover a single year and have no trend.")
		md.PlainText("")
	}

	md.H2("Fastest rising")
	md.PlainText("")
	moversTable(md, Rising(build.Panels, w.topN))

	md.H2("Fastest falling")
	md.PlainText("")
	moversTable(md, Falling(build.Panels, w.topN))

	md.H2("Outputs")
	md.PlainText("")
	outputs := make([]string, 0, 3)
	if build.StaticChartPath != "" {
		outputs = append(outputs, "Chart: `"+build.StaticChartPath+"`")
	}
	if build.GridDir != "" {
		outputs = append(outputs, "Grid: `"+joinPath(build.OutputDir, build.GridDir)+"`")
	}
	if build.ArticlePath != "" {
		outputs = append(outputs, "Article: `"+build.ArticlePath+"`")
	}
	outputs = append(outputs, "Steps: "+strings.Join(build.PerformedSteps, ", "))
	md.BulletList(outputs...)

	return len(md.String()), md.Build()
}

// statusText returns the status text based on build state.
func statusText(build *model.Build) string {
	switch {
	case build.Error != nil:
		return "Failed - " + build.Error.Error()
	case build.Complete():
		return "Complete"
	default:
		return "Incomplete"
	}
}

// moversTable writes a table of panels and their cognostics.
func moversTable(md *markdown.Markdown, panels []model.PanelSummary) {
	if len(panels) == 0 {
		md.PlainText("None.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(panels))
	for i, p := range panels {
		rows[i] = []string{
			p.Borough,
			p.Offence,
			formatSigned(p.Slope),
			formatFloat(p.Mean),
			formatFloat(p.IQR),
			formatSigned(p.PctChange) + "%",
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Borough", "Offence", "Slope (per year)", "Mean", "IQR", "Change"},
		Rows:   rows,
	})
	md.PlainText("")
}
