// Package source downloads the crime dataset and parses it into a frame.
//
// The Fetcher performs a single HTTP GET per build. The response body is
// size-limited, decoded to UTF-8 according to its Content-Type charset or
// byte order mark, and rejected if the server returned an HTML page (a login
// wall or an error page) instead of CSV. A Cache keeps the decoded body in
// the user's XDG cache directory so repeated builds skip the download.
//
// Failures are returned to the caller unchanged; there are no retries.
package source
