package scene

import "errors"

var (
	// ErrCapacityExceeded is returned by NewScene when more entities are requested than the transform buffer can hold.
	ErrCapacityExceeded = errors.New("scene: entity count exceeds transform buffer capacity")

	// ErrInvalidCapacity is returned by NewScene when the configured capacity is not positive.
	ErrInvalidCapacity = errors.New("scene: capacity must be positive")
)
