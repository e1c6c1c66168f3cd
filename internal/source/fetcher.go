package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/nao1215/crimetrends/internal/frame"
)

// Fetcher defaults.
const (
	// DefaultTimeout bounds the whole download including the body.
	DefaultTimeout = 60 * time.Second

	// DefaultMaxBodySize is far above the few hundred kilobytes the
	// borough-level dataset occupies.
	DefaultMaxBodySize = 64 * 1024 * 1024

	// DefaultUserAgent identifies crimetrends to open-data portals.
	DefaultUserAgent = "crimetrends/1.0 (+https://github.com/nao1215/crimetrends)"
)

// Fetcher downloads a CSV dataset over HTTP.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	headers     map[string]string
	maxBodySize int64
	cache       *Cache
	logger      *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets the HTTP client. It takes precedence over
// WithTimeout, WithUserAgent and WithHeaders.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithTimeout sets the download timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(f *Fetcher) {
		f.userAgent = userAgent
	}
}

// WithHeaders sets extra request headers.
func WithHeaders(headers map[string]string) Option {
	return func(f *Fetcher) {
		f.headers = headers
	}
}

// WithMaxBodySize limits the number of body bytes read.
func WithMaxBodySize(size int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = size
	}
}

// WithCache enables the on-disk download cache.
func WithCache(cache *Cache) Option {
	return func(f *Fetcher) {
		f.cache = cache
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// NewFetcher creates a Fetcher with the given options.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultTimeout,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = NewHTTPClient(f.timeout, f.userAgent, f.headers)
	}

	return f
}

// Fetch returns the dataset at rawURL as UTF-8 bytes.
// A fresh cache entry is returned without touching the network.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := validateURL(rawURL); err != nil {
		return nil, err
	}

	if f.cache != nil {
		data, ok, err := f.cache.Get(rawURL)
		if err != nil {
			return nil, err
		}
		if ok {
			f.logger.Info("using cached dataset", "url", rawURL, "path", f.cache.Path(rawURL))
			return data, nil
		}
	}

	f.logger.Info("downloading dataset", "url", rawURL)
	start := time.Now()

	data, err := f.download(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	f.logger.Info("dataset downloaded",
		"url", rawURL,
		"bytes", len(data),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	if f.cache != nil {
		if err := f.cache.Put(rawURL, data); err != nil {
			return nil, err
		}
	}

	return data, nil
}

// Load fetches the dataset and parses it into a frame using schema.
func (f *Fetcher) Load(ctx context.Context, rawURL string, schema frame.Schema) (*frame.Frame, error) {
	data, err := f.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	fr, err := frame.ReadCSV(bytes.NewReader(data), schema)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}
	return fr, nil
}

// download performs the GET request and decodes the body.
func (f *Fetcher) download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrHTTPStatus, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > f.maxBodySize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, f.maxBodySize)
	}

	contentType := resp.Header.Get("Content-Type")
	if isHTML(body, contentType) {
		title := htmlTitle(body)
		if title == "" {
			return nil, ErrNotCSV
		}
		return nil, fmt.Errorf("%w: page title %q", ErrNotCSV, title)
	}

	decoded, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to determine charset: %w", err)
	}
	data, err := io.ReadAll(decoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}
	return data, nil
}

// validateURL accepts absolute http and https URLs only.
func validateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}
	return nil
}

// isHTML reports whether the body is an HTML document.
// The declared Content-Type is checked first; portals that serve errors as
// text/plain are caught by sniffing the first bytes.
func isHTML(body []byte, contentType string) bool {
	if strings.HasPrefix(strings.ToLower(contentType), "text/html") {
		return true
	}
	return strings.HasPrefix(http.DetectContentType(body), "text/html")
}

// htmlTitle returns the text of the first <title> element, if any.
func htmlTitle(body []byte) string {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	var walk func(n *html.Node) string
	walk = func(n *html.Node) string {
		if n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil {
			return strings.TrimSpace(n.FirstChild.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if t := walk(c); t != "" {
				return t
			}
		}
		return ""
	}
	return walk(doc)
}
