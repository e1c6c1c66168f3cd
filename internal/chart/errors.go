package chart

import "errors"

// Sentinel errors for the chart package.
var (
	// ErrNoRecords is returned when there is nothing to plot.
	ErrNoRecords = errors.New("no records to plot")

	// ErrInvalidColumns is returned when a theme has fewer than one column.
	ErrInvalidColumns = errors.New("invalid number of facet columns")
)
