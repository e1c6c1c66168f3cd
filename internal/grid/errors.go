package grid

import "errors"

// Sentinel errors for the grid package.
var (
	// ErrNoPanels is returned when a display would contain no panels.
	ErrNoPanels = errors.New("display has no panels")

	// ErrInvalidLayout is returned for a page layout below 1x1.
	ErrInvalidLayout = errors.New("invalid grid layout")

	// ErrInvalidDir is returned when the publish directory is empty or the
	// filesystem root.
	ErrInvalidDir = errors.New("invalid publish directory")

	// ErrProtectedPath is returned when publishing would replace a directory
	// holding a file the publisher was told to keep.
	ErrProtectedPath = errors.New("publish directory holds a protected file")
)
