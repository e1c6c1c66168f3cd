package frame

import "errors"

// Errors returned while reading or reshaping a frame.
var (
	// ErrEmptyInput is returned when the CSV has no header row.
	ErrEmptyInput = errors.New("empty CSV input")

	// ErrParse is returned when a cell cannot be converted to its column kind.
	ErrParse = errors.New("failed to parse cell")

	// ErrMissingColumn is returned when a required column is absent.
	ErrMissingColumn = errors.New("missing column")

	// ErrDuplicateColumn is returned when two columns share a name.
	ErrDuplicateColumn = errors.New("duplicate column")
)
