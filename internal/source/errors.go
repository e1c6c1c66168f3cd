package source

import "errors"

// Download errors.
var (
	// ErrHTTPStatus is returned when the server answers with a non-2xx status.
	ErrHTTPStatus = errors.New("unexpected HTTP status")

	// ErrNotCSV is returned when the server sends an HTML page instead of CSV.
	ErrNotCSV = errors.New("response is an HTML page, not CSV")

	// ErrBodyTooLarge is returned when the body exceeds the configured limit.
	ErrBodyTooLarge = errors.New("response body exceeds size limit")

	// ErrInvalidURL is returned when the source is not an http(s) URL.
	ErrInvalidURL = errors.New("invalid source URL: expected http or https")
)
