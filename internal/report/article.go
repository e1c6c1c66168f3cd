package report

import (
	"io"
	"path/filepath"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/crimetrends/internal/model"
)

// Article defaults.
const (
	DefaultArticleTitle = "Recorded crime in London's boroughs"
	ArticleFile         = "index.md"
	gridIndex           = "index.html"
	maxPieSlices        = 8
)

// ArticleWriter writes the narrative article that embeds the static chart
// and the interactive grid. Paths in the article are relative to baseDir,
// the directory the article is written to.
type ArticleWriter struct {
	baseWriter

	title      string
	baseDir    string
	topN       int
	sortKey    model.SortKey
	descending bool
}

// ArticleWriterOption configures an ArticleWriter.
type ArticleWriterOption func(*ArticleWriter)

// WithTitle sets the article title.
func WithTitle(title string) ArticleWriterOption {
	return func(w *ArticleWriter) {
		w.title = title
	}
}

// WithBaseDir sets the directory links in the article are relative to.
func WithBaseDir(dir string) ArticleWriterOption {
	return func(w *ArticleWriter) {
		w.baseDir = dir
	}
}

// WithArticleTopN sets the number of rising and falling panels listed.
func WithArticleTopN(n int) ArticleWriterOption {
	return func(w *ArticleWriter) {
		w.topN = n
	}
}

// WithSortOrder sets the grid's initial sort, which the article describes.
func WithSortOrder(key model.SortKey, descending bool) ArticleWriterOption {
	return func(w *ArticleWriter) {
		w.sortKey = key
		w.descending = descending
	}
}

// NewArticleWriter creates an ArticleWriter that outputs to the given writer.
func NewArticleWriter(output io.Writer, opts ...ArticleWriterOption) *ArticleWriter {
	w := &ArticleWriter{
		baseWriter: newBaseWriter(output),
		title:      DefaultArticleTitle,
		topN:       DefaultTopN,
		sortKey:    model.SortBySlope,
		descending: true,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the article for build.
func (w *ArticleWriter) Write(build *model.Build) (int, error) {
	md := markdown.NewMarkdown(w.output)
	first, last := yearSpan(build.Records)

	md.H1(w.title)
	md.PlainText("")
	md.PlainTextf(
		"Between %d and %d the police recorded offences in %d London boroughs across %d offence types. "+
			"This article shows how each of them changed, using the [recorded crime dataset](%s) "+
			"published by the London Datastore.",
		first, last, len(build.Boroughs()), len(build.Offences()), build.Source,
	)
	md.PlainText("")

	w.writeChart(md, build)
	w.writeGrid(md, build)
	w.writeMovers(md, build)
	w.writeMix(md, build)
	w.writeMethod(md, build)

	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Generated by crimetrends, build `%s`.*", build.ID)

	return len(md.String()), md.Build()
}

func (w *ArticleWriter) writeChart(md *markdown.Markdown, build *model.Build) {
	if build.StaticChartPath == "" {
		return
	}
	md.H2("Every borough at a glance")
	md.PlainText("")
	md.PlainText("Each panel is one borough, with a line per offence type. " +
		"Every panel has its own vertical scale, so compare shapes rather than heights.")
	md.PlainText("")
	md.PlainTextf("![Offences per year by borough and offence type](%s)", w.rel(build.StaticChartPath))
	md.PlainText("")
}

func (w *ArticleWriter) writeGrid(md *markdown.Markdown, build *model.Build) {
	if build.GridDir == "" || len(build.Panels) == 0 {
		return
	}
	src := w.rel(filepath.Join(build.OutputDir, build.GridDir, gridIndex))

	md.H2("Explore every borough and offence")
	md.PlainText("")
	md.PlainTextf(
		"The grid below has one panel per borough and offence, %d in total. "+
			"Panels start sorted %s; sort by any statistic or filter by name.",
		len(build.Panels), sortOrderText(w.sortKey, w.descending),
	)
	md.PlainText("")
	md.PlainTextf(`<iframe src="%s" width="100%%" height="720" style="border:0" title="Crime trends grid"></iframe>`, src)
	md.PlainText("")
	md.PlainTextf("If the grid does not load, [open it on its own page](%s).", src)
	md.PlainText("")
}

// sortNames describes each sort key in the article's prose.
var sortNames = map[model.SortKey]string{
	model.SortBySlope:     "trend",
	model.SortByMean:      "average offences a year",
	model.SortByIQR:       "spread of yearly counts",
	model.SortByCount:     "number of years reported",
	model.SortByMin:       "lowest yearly count",
	model.SortByMax:       "highest yearly count",
	model.SortByPctChange: "percent change",
	model.SortByBorough:   "borough",
	model.SortByOffence:   "offence",
}

// sortOrderText returns e.g. "by trend, steepest rise first".
func sortOrderText(key model.SortKey, descending bool) string {
	name, ok := sortNames[key]
	if !ok {
		name = string(key)
	}
	var order string
	switch {
	case key == model.SortBySlope && descending:
		order = "steepest rise first"
	case key == model.SortBySlope:
		order = "steepest fall first"
	case key == model.SortByBorough || key == model.SortByOffence:
		order = "A to Z"
		if descending {
			order = "Z to A"
		}
	case descending:
		order = "highest first"
	default:
		order = "lowest first"
	}
	return "by " + name + ", " + order
}

func (w *ArticleWriter) writeMovers(md *markdown.Markdown, build *model.Build) {
	rising := Rising(build.Panels, w.topN)
	falling := Falling(build.Panels, w.topN)
	if len(rising) == 0 && len(falling) == 0 {
		return
	}

	md.H2("Biggest movers")
	md.PlainText("")
	if len(rising) > 0 {
		top := rising[0]
		md.PlainTextf("The steepest rise was %s in %s, up %s offences a year on average.",
			top.Offence, top.Borough, formatFloat(top.Slope))
		md.PlainText("")
		moversTable(md, rising)
	}
	if len(falling) > 0 {
		top := falling[0]
		md.PlainTextf("The steepest fall was %s in %s, down %s offences a year on average.",
			top.Offence, top.Borough, formatFloat(-top.Slope))
		md.PlainText("")
		moversTable(md, falling)
	}
}

func (w *ArticleWriter) writeMix(md *markdown.Markdown, build *model.Build) {
	latest := model.LatestYear(build.Records)
	totals := OffenceTotals(build.Records, latest)
	if len(totals) == 0 {
		return
	}

	md.H2("Offence mix in " + strconv.Itoa(latest))
	md.PlainText("")

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Offences recorded in "+strconv.Itoa(latest)),
		piechart.WithShowData(true),
	)

	var other int64
	for i, t := range totals {
		if i >= maxPieSlices-1 && len(totals) > maxPieSlices {
			other += t.Count
			continue
		}
		chart.LabelAndIntValue(t.Offence, uint64(t.Count)) //nolint:gosec // counts are non-negative
	}
	if other > 0 {
		chart.LabelAndIntValue("Other", uint64(other)) //nolint:gosec // counts are non-negative
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *ArticleWriter) writeMethod(md *markdown.Markdown, build *model.Build) {
	stats := build.CleanStats
	md.Details("How the numbers were made", "Counts are summed by year, borough and offence type after removing "+
		"the all-offence totals and areas that are not boroughs ("+strconv.Itoa(stats.ExcludedRows)+" rows). "+
		strconv.Itoa(stats.UnmatchedYears)+" rows without a year in range and "+
		strconv.Itoa(stats.MissingCounts)+" rows without a count were dropped. "+
		"The trend is the least squares slope of offences on year, rounded to two decimals; "+
		"quartiles use linear interpolation between order statistics.")
	md.PlainText("")

	if n := undefinedSlopes(build.Panels); n > 0 {
		md.Note(strconv.Itoa(n) + " panel(s) cover a single year. They have no trend and are listed last when sorting by slope.")
		md.PlainText("")
	}
}

// rel returns path relative to the article directory with forward slashes.
func (w *ArticleWriter) rel(path string) string {
	if w.baseDir != "" {
		if r, err := filepath.Rel(w.baseDir, path); err == nil {
			path = r
		}
	}
	return filepath.ToSlash(path)
}
