package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraBuilderOption is a functional option for configuring a Camera.
type CameraBuilderOption func(*cameraImpl)

// WithPosition sets the initial world-space position.
//
// Parameters:
//   - position: the camera position
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithPosition(position mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.position = position
	}
}

// WithYaw sets the initial heading in degrees. 0 looks down +X.
//
// Parameters:
//   - yaw: heading in degrees
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithYaw(yaw float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.eulers[2] = yaw
	}
}

// WithPitch sets the initial elevation in degrees. Values outside [-MaxPitch, MaxPitch] are clamped.
//
// Parameters:
//   - pitch: elevation in degrees
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithPitch(pitch float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.eulers[1] = pitch
	}
}
