package source

import (
	"net/http"
	"time"
)

// maxRedirects bounds redirect chains. Open-data portals commonly redirect
// once or twice to a storage bucket.
const maxRedirects = 10

// NewHTTPClient creates the HTTP client used for dataset downloads.
// Every request carries userAgent and the given extra headers, which is how
// portals that require an API key header are supported.
func NewHTTPClient(timeout time.Duration, userAgent string, headers map[string]string) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConns = 2
	transport.IdleConnTimeout = 30 * time.Second

	return &http.Client{
		Transport: &headerInjectingTransport{
			base:      transport,
			userAgent: userAgent,
			headers:   headers,
		},
		Timeout: timeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
}

// headerInjectingTransport wraps an http.RoundTripper to add the
// User-Agent and custom headers to every request, including redirects.
type headerInjectingTransport struct {
	base      http.RoundTripper
	userAgent string
	headers   map[string]string
}

// RoundTrip implements http.RoundTripper.
func (t *headerInjectingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())

	if t.userAgent != "" {
		clone.Header.Set("User-Agent", t.userAgent)
	}
	for key, value := range t.headers {
		clone.Header.Set(key, value)
	}

	return t.base.RoundTrip(clone)
}
