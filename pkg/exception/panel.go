package exception

import "github.com/yanun0323/errors"

// Panel errors
var (
	// ErrUnknownLabel is returned when a frame references a field or column
	// outside the store's current axes.
	ErrUnknownLabel = errors.New("panel: unknown label")

	// ErrShapeMismatch is returned when a block does not match the shape of
	// the visible window.
	ErrShapeMismatch = errors.New("panel: shape mismatch")

	// ErrAllocation is returned when the requested axes and capacity cannot
	// be backed by a buffer.
	ErrAllocation = errors.New("panel: allocation failure")

	ErrInvalidConfig = errors.New("panel: invalid config")
)
