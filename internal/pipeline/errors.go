package pipeline

import "errors"

var (
	// ErrMissingInput is returned when a step runs before the step that
	// produces its input.
	ErrMissingInput = errors.New("step input missing")

	// ErrNoRecords is returned when nothing is left after cleaning and
	// aggregation.
	ErrNoRecords = errors.New("no records left after cleaning")
)
