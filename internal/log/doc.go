// Package log provides the structured logger used across crimetrends,
// built on top of the standard slog package.
//
// Open-data portals sometimes require an API key, passed either as a request
// header or as a query parameter of the dataset URL. The RedactingHandler
// masks such values before they reach the log output:
//   - attributes whose key names a credential (api_key, token, x-api-key)
//   - values that look like bearer tokens or long opaque keys
//   - userinfo and secret query parameters inside URLs
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	logger.Info("downloading dataset", "url", "https://data.example.org/crime.csv?api_key=abc")
//	// url=https://data.example.org/crime.csv?api_key=%2A%2A%2AREDACTED%2A%2A%2A
//
//	slog.SetDefault(logger)
package log
