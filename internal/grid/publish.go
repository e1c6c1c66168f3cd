package grid

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/nao1215/crimetrends/internal/chart"
	"github.com/nao1215/crimetrends/internal/model"
)

//go:embed assets/index.html.tmpl assets/grid.js assets/grid.css
var assets embed.FS

var indexTemplate = template.Must(template.ParseFS(assets, "assets/index.html.tmpl"))

// Publisher writes a Display as a static site.
type Publisher struct {
	logger          *slog.Logger
	buildID         string
	now             func() time.Time
	thumbnails      bool
	thumbnailWidth  int
	thumbnailHeight int
	protected       []string
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithBuildID records the build identifier in the published data and manifest.
func WithBuildID(id string) PublisherOption {
	return func(p *Publisher) {
		p.buildID = id
	}
}

// WithThumbnails enables or disables the per-panel PNG thumbnails.
func WithThumbnails(enabled bool) PublisherOption {
	return func(p *Publisher) {
		p.thumbnails = enabled
	}
}

// WithThumbnailSize sets the thumbnail size in pixels.
func WithThumbnailSize(width, height int) PublisherOption {
	return func(p *Publisher) {
		p.thumbnailWidth = width
		p.thumbnailHeight = height
	}
}

// WithProtectedPaths lists files Publish must never remove. Publishing to a
// directory that holds one of them fails with ErrProtectedPath.
func WithProtectedPaths(paths ...string) PublisherOption {
	return func(p *Publisher) {
		p.protected = append(p.protected, paths...)
	}
}

// NewPublisher creates a Publisher with the given options.
func NewPublisher(opts ...PublisherOption) *Publisher {
	p := &Publisher{
		logger:          slog.Default(),
		now:             time.Now,
		thumbnails:      true,
		thumbnailWidth:  chart.ThumbnailWidth,
		thumbnailHeight: chart.ThumbnailHeight,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// pageData is the data passed to the index template.
type pageData struct {
	Display     *Display
	Title       string
	BuildID     string
	GeneratedAt string
	IDs         []string
}

// Publish writes the display to dir, replacing any previous content.
// The site is assembled in a temporary sibling directory and moved into
// place only once every file has been written, so a failed publish leaves
// the previous site untouched.
func (p *Publisher) Publish(dir string, d *Display) (*Manifest, error) {
	if d == nil || len(d.Panels) == 0 {
		return nil, ErrNoPanels
	}
	clean := filepath.Clean(dir)
	if dir == "" || clean == string(filepath.Separator) || clean == "." {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDir, dir)
	}
	for _, path := range p.protected {
		if path == "" {
			continue
		}
		if rel, err := filepath.Rel(clean, filepath.Clean(path)); err == nil && filepath.IsLocal(rel) {
			return nil, fmt.Errorf("%w: %s is inside %s", ErrProtectedPath, path, clean)
		}
	}

	parent := filepath.Dir(clean)
	if err := os.MkdirAll(parent, 0750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	staging, err := os.MkdirTemp(parent, "."+filepath.Base(clean)+"-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(staging) //nolint:errcheck // gone after a successful rename

	manifest, err := p.write(staging, d)
	if err != nil {
		return nil, err
	}
	if err := os.Chmod(staging, 0755); err != nil { //nolint:gosec // served by a web server
		return nil, fmt.Errorf("failed to set site permissions: %w", err)
	}

	if err := os.RemoveAll(clean); err != nil {
		return nil, fmt.Errorf("failed to remove previous site: %w", err)
	}
	if err := os.Rename(staging, clean); err != nil {
		return nil, fmt.Errorf("failed to move site into place: %w", err)
	}

	p.logger.Info("grid published", "dir", clean, "panels", len(d.Panels), "files", len(manifest.Files))
	return manifest, nil
}

func (p *Publisher) write(root string, d *Display) (*Manifest, error) {
	generatedAt := p.now()
	manifest := &Manifest{
		BuildID:     p.buildID,
		GeneratedAt: generatedAt.UTC(),
		Panels:      len(d.Panels),
	}

	put := func(rel string, data []byte) error {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil { //nolint:gosec // served by a web server
			return fmt.Errorf("failed to create directory for %s: %w", rel, err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil { //nolint:gosec // served by a web server
			return fmt.Errorf("failed to write %s: %w", rel, err)
		}
		manifest.add(rel, data)
		return nil
	}

	// Work on a copy so thumbnail paths do not leak into the caller's display.
	site := *d
	site.Panels = make([]model.PanelSummary, len(d.Panels))
	copy(site.Panels, d.Panels)
	ids := uniqueIDs(site.Panels)

	if p.thumbnails {
		for i := range site.Panels {
			rel := "panels/" + ids[i] + ".png"
			var buf bytes.Buffer
			if err := chart.Thumbnail(&buf, site.Panels[i], p.thumbnailWidth, p.thumbnailHeight); err != nil {
				return nil, err
			}
			if err := put(rel, buf.Bytes()); err != nil {
				return nil, err
			}
			site.Panels[i].Thumbnail = rel
		}
		p.logger.Debug("thumbnails rendered", "count", len(site.Panels))
	}

	script, err := encodeDisplayScript(newDisplayDoc(&site, ids, p.buildID, generatedAt))
	if err != nil {
		return nil, err
	}
	if err := put("data/display.js", script); err != nil {
		return nil, err
	}

	cogs, err := encodeCognostics(site.Panels)
	if err != nil {
		return nil, err
	}
	if err := put("data/cognostics.json", cogs); err != nil {
		return nil, err
	}

	var workbook bytes.Buffer
	if err := writeWorkbook(&workbook, &site); err != nil {
		return nil, err
	}
	if err := put("cognostics.xlsx", workbook.Bytes()); err != nil {
		return nil, err
	}

	for _, name := range []string{"grid.js", "grid.css"} {
		data, err := assets.ReadFile("assets/" + name)
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded %s: %w", name, err)
		}
		if err := put("assets/"+name, data); err != nil {
			return nil, err
		}
	}

	var index bytes.Buffer
	if err := indexTemplate.Execute(&index, pageData{
		Display:     &site,
		Title:       site.Title(),
		BuildID:     p.buildID,
		GeneratedAt: generatedAt.UTC().Format(time.RFC3339),
		IDs:         ids,
	}); err != nil {
		return nil, fmt.Errorf("failed to render index: %w", err)
	}
	if err := put("index.html", index.Bytes()); err != nil {
		return nil, err
	}

	if err := manifest.write(root); err != nil {
		return nil, err
	}
	return manifest, nil
}

// uniqueIDs returns the panel slugs, suffixing repeats with the first
// unused -2, -3, ...
func uniqueIDs(panels []model.PanelSummary) []string {
	ids := make([]string, len(panels))
	seen := make(map[string]int, len(panels))
	for i, p := range panels {
		id := p.Slug()
		if id == "" || id == "--" {
			id = "panel"
		}
		if seen[id] > 0 {
			base := id
			for n := seen[base] + 1; ; n++ {
				id = base + "-" + strconv.Itoa(n)
				if seen[id] == 0 {
					seen[base] = n
					break
				}
			}
		}
		seen[id]++
		ids[i] = id
	}
	return ids
}
