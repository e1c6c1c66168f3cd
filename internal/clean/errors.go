package clean

import "errors"

// Sentinel errors for the clean package.
var (
	// ErrMalformedYear is returned in strict mode when a year field holds no
	// year inside the accepted range.
	ErrMalformedYear = errors.New("malformed year")

	// ErrNegativeCount is returned when an offence count is below zero.
	ErrNegativeCount = errors.New("negative offence count")

	// ErrColumnKind is returned when the count column was not parsed as numeric.
	ErrColumnKind = errors.New("unexpected column kind")

	// ErrInvalidYearRange is returned when the minimum year exceeds the maximum.
	ErrInvalidYearRange = errors.New("invalid year range")
)
