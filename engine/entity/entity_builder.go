package entity

import "github.com/go-gl/mathgl/mgl32"

// EntityBuilderOption is a functional option for configuring an Entity during construction.
type EntityBuilderOption func(*entity)

// WithID sets the ID of the Entity.
//
// Parameters:
//   - id: identifier for the Entity
//
// Returns:
//   - EntityBuilderOption: functional option to set the ID
func WithID(id uint64) EntityBuilderOption {
	return func(e *entity) {
		e.id = id
	}
}

// WithPosition sets the world-space position of the Entity.
//
// Parameters:
//   - position: the position vector
//
// Returns:
//   - EntityBuilderOption: functional option to set the position
func WithPosition(position mgl32.Vec3) EntityBuilderOption {
	return func(e *entity) {
		e.position = position
	}
}

// WithEulers sets the initial orientation of the Entity in degrees.
// The Z component is the yaw that Update advances; it is wrapped into [0, 360).
//
// Parameters:
//   - eulers: rotation angles about X, Y, Z in degrees
//
// Returns:
//   - EntityBuilderOption: functional option to set the orientation
func WithEulers(eulers mgl32.Vec3) EntityBuilderOption {
	return func(e *entity) {
		e.eulers = eulers
	}
}

// WithYaw sets only the initial rotation about the Z axis in degrees.
//
// Parameters:
//   - yaw: the yaw angle in degrees
//
// Returns:
//   - EntityBuilderOption: functional option to set the yaw
func WithYaw(yaw float32) EntityBuilderOption {
	return func(e *entity) {
		e.eulers[2] = yaw
	}
}
