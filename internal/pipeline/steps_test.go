package pipeline

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/crimetrends/internal/chart"
	"github.com/nao1215/crimetrends/internal/clean"
	"github.com/nao1215/crimetrends/internal/config"
	"github.com/nao1215/crimetrends/internal/grid"
	"github.com/nao1215/crimetrends/internal/model"
	"github.com/nao1215/crimetrends/internal/source"
)

const testCSV = "Year,Borough,Offences,Number of offences\n" +
	"1999-00,Camden,Robbery,100\n" +
	"2000-01,Camden,Robbery,120\n" +
	"2001-02,Camden,Robbery,140\n" +
	"1999-00,Camden,Burglary,90\n" +
	"2000-01,Camden,Burglary,60\n" +
	"2001-02,Camden,Burglary,30\n" +
	"1999-00,Hackney,Robbery,50\n" +
	"2000-01,Hackney,Robbery,NA\n" +
	"2001-02,Hackney,Robbery,55\n" +
	"1999-00,Hackney,Burglary,40\n" +
	"2001-02,Camden,All recorded offences,170\n" +
	"2001-02,Inner London,Robbery,1000\n" +
	"Unknown,Camden,Robbery,5\n"

func newCSVServer(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = io.WriteString(w, testCSV)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchCleanAggregateSteps(t *testing.T) {
	t.Parallel()

	server := newCSVServer(t)
	build := model.NewBuild(server.URL+"/crime.csv", t.TempDir(), "grid")

	cleaner, err := clean.New(clean.DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := context.Background()
	steps := []Step{
		NewFetchStep(source.NewFetcher(source.WithLogger(quietLogger()))),
		NewCleanStep(cleaner),
		NewAggregateStep(clean.DefaultExclusions()),
	}
	for _, s := range steps {
		if err := s.Do(ctx, build); err != nil {
			t.Fatalf("%s: unexpected error: %v", s.Name(), err)
		}
	}

	if build.Frame.Rows() != 13 {
		t.Errorf("expected 13 frame rows, got %d", build.Frame.Rows())
	}
	stats := build.CleanStats
	if stats.InputRows != 13 || stats.UnmatchedYears != 1 || stats.MissingCounts != 1 || stats.ExcludedRows != 2 {
		t.Errorf("unexpected clean stats %+v", stats)
	}
	if len(build.Records) != 9 {
		t.Fatalf("expected 9 records, got %d", len(build.Records))
	}
	first := build.Records[0]
	if first.Borough != "Camden" || first.Offence != "Burglary" || first.Year != 1999 || first.Count != 90 {
		t.Errorf("unexpected first record %+v", first)
	}
}

func TestStepsMissingInput(t *testing.T) {
	t.Parallel()

	cleaner, err := clean.New(clean.DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("clean without frame", func(t *testing.T) {
		t.Parallel()
		if err := NewCleanStep(cleaner).Do(context.Background(), newTestBuild()); !errors.Is(err, ErrMissingInput) {
			t.Errorf("expected ErrMissingInput, got %v", err)
		}
	})

	t.Run("aggregate of nothing", func(t *testing.T) {
		t.Parallel()
		err := NewAggregateStep(clean.DefaultExclusions()).Do(context.Background(), newTestBuild())
		if !errors.Is(err, ErrNoRecords) {
			t.Errorf("expected ErrNoRecords, got %v", err)
		}
	})

	t.Run("summarize without records", func(t *testing.T) {
		t.Parallel()
		if err := NewSummarizeStep([]string{"#000000"}).Do(context.Background(), newTestBuild()); !errors.Is(err, ErrMissingInput) {
			t.Errorf("expected ErrMissingInput, got %v", err)
		}
	})

	t.Run("publish without panels", func(t *testing.T) {
		t.Parallel()
		build := model.NewBuild("", t.TempDir(), "grid")
		if err := NewPublishStep(nil).Do(context.Background(), build); !errors.Is(err, grid.ErrNoPanels) {
			t.Errorf("expected ErrNoPanels, got %v", err)
		}
	})
}

func TestSummarizeStepColours(t *testing.T) {
	t.Parallel()

	build := newTestBuild()
	build.Records = []model.OffenceRecord{
		{Year: 2000, Borough: "Camden", Offence: "Robbery", Count: 1},
		{Year: 2001, Borough: "Camden", Offence: "Robbery", Count: 3},
		{Year: 2000, Borough: "Camden", Offence: "Burglary", Count: 2},
	}

	if err := NewSummarizeStep([]string{"#111111", "#222222"}).Do(context.Background(), build); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(build.Panels) != 2 {
		t.Fatalf("expected 2 panels, got %d", len(build.Panels))
	}
	// Panels are ordered by borough then offence; colours by sorted offence.
	if build.Panels[0].Offence != "Burglary" || build.Panels[0].Chart.Color != "#111111" {
		t.Errorf("unexpected first panel %+v", build.Panels[0])
	}
	if build.Panels[1].Chart.Color != "#222222" || build.Panels[1].Slope != 2 {
		t.Errorf("unexpected second panel %+v", build.Panels[1])
	}
}

func TestDefaultPipeline(t *testing.T) {
	t.Parallel()

	server := newCSVServer(t)
	out := filepath.Join(t.TempDir(), "public")

	cfg := config.NewConfig()
	cfg.Source = server.URL + "/crime.csv"
	cfg.OutputDir = out
	cfg.UseCache = false
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, err := DefaultPipeline(cfg, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{"fetch", "clean", "aggregate", "static_chart", "summarize", "publish", "article"}
	names := p.StepNames()
	if len(names) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, names)
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Errorf("step %d: got %q, expected %q", i, names[i], expected[i])
		}
	}

	build := model.NewBuild(cfg.Source, cfg.OutputDir, cfg.GridDir)
	if err := p.Execute(context.Background(), build); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !build.Complete() {
		t.Fatal("expected complete build")
	}

	for _, path := range []string{
		filepath.Join(out, config.DefaultChartFile),
		filepath.Join(out, "index.md"),
		filepath.Join(out, "trelliscope", "index.html"),
		filepath.Join(out, "trelliscope", "data", "display.js"),
		filepath.Join(out, "trelliscope", grid.ManifestFile),
	} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected %s: %v", path, err)
		}
	}

	if len(build.Panels) != 4 {
		t.Errorf("expected 4 panels, got %d", len(build.Panels))
	}

	article, err := os.ReadFile(filepath.Join(out, "index.md"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"(" + config.DefaultChartFile + ")", `src="trelliscope/index.html"`} {
		if !strings.Contains(string(article), want) {
			t.Errorf("expected article to contain %q", want)
		}
	}

	if problems, err := grid.Verify(filepath.Join(out, "trelliscope")); err != nil || len(problems) != 0 {
		t.Errorf("expected verified site, got %v %v", problems, err)
	}
}

func TestDefaultPipelineKeepsChartOutsideGrid(t *testing.T) {
	t.Parallel()

	server := newCSVServer(t)

	cfg := config.NewConfig()
	cfg.Source = server.URL + "/crime.csv"
	cfg.OutputDir = filepath.Join(t.TempDir(), "public")
	cfg.UseCache = false
	cfg.GridDir = "."
	if err := cfg.Validate(); !errors.Is(err, config.ErrGridDirOverlap) {
		t.Fatalf("expected ErrGridDirOverlap, got %v", err)
	}

	p, err := DefaultPipeline(cfg, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	build := model.NewBuild(cfg.Source, cfg.OutputDir, cfg.GridDir)
	if err := p.Execute(context.Background(), build); !errors.Is(err, grid.ErrProtectedPath) {
		t.Fatalf("expected ErrProtectedPath, got %v", err)
	}
	if build.Complete() {
		t.Error("expected incomplete build")
	}
	if _, err := os.Stat(cfg.ChartPath()); err != nil {
		t.Errorf("expected static chart to survive publish: %v", err)
	}
}

func TestDefaultPipelineStopsOnFetchError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	cfg := config.NewConfig()
	cfg.Source = server.URL
	cfg.OutputDir = t.TempDir()
	cfg.UseCache = false

	p, err := DefaultPipeline(cfg, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	build := model.NewBuild(cfg.Source, cfg.OutputDir, cfg.GridDir)
	if err := p.Execute(context.Background(), build); !errors.Is(err, source.ErrHTTPStatus) {
		t.Fatalf("expected ErrHTTPStatus, got %v", err)
	}
	if len(build.PerformedSteps) != 0 {
		t.Errorf("expected no performed steps, got %v", build.PerformedSteps)
	}
	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "index.md")); !os.IsNotExist(err) {
		t.Error("expected no article to be written")
	}
}

func TestStaticChartStep(t *testing.T) {
	t.Parallel()

	build := newTestBuild()
	build.Records = []model.OffenceRecord{
		{Year: 2000, Borough: "Camden", Offence: "Robbery", Count: 1},
		{Year: 2001, Borough: "Camden", Offence: "Robbery", Count: 3},
	}
	path := filepath.Join(t.TempDir(), "nested", "chart.png")

	if err := NewStaticChartStep(path, chart.DefaultTheme()).Do(context.Background(), build); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if build.StaticChartPath != path {
		t.Errorf("expected path recorded, got %q", build.StaticChartPath)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("expected non-empty chart, got %v", err)
	}
}
