package aggregate

import "errors"

// ErrInvalidCount is returned when a row's count is NaN, infinite or negative.
var ErrInvalidCount = errors.New("invalid offence count")
