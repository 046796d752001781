package usage

import "errors"

// Common errors returned by the usage package.
var (
	// ErrInvalidCostMode is returned for an unrecognized cost mode string.
	ErrInvalidCostMode = errors.New("invalid cost mode (want auto, calculate, or display)")

	// ErrInvalidSortOrder is returned for an unrecognized sort order string.
	ErrInvalidSortOrder = errors.New("invalid sort order (want asc or desc)")
)
