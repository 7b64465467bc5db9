package board

import "errors"

// Flip error kinds. These are the only error kinds Flip ever returns.
var (
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrNoCardHere         = errors.New("no card here")
	ErrTargetControlled   = errors.New("target controlled")
)

// Construction-time errors.
var (
	ErrParseError     = errors.New("malformed board file")
	ErrLengthMismatch = errors.New("label count does not match rows*cols")
)

// Map error kinds.
var (
	ErrEmptyLabel = errors.New("map function must not return an empty label")
)
