package core

import "errors"

var (
	// ErrOutOfBounds reports a coordinate outside the grid. Physics and
	// injection never produce one in correct operation.
	ErrOutOfBounds = errors.New("coordinate out of bounds")
	// ErrInvalidConfiguration reports unusable construction parameters such
	// as non-positive grid dimensions.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)
