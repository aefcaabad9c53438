package camera

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithMoveSpeed sets the distance moved per tick while a movement key is held.
//
// Parameters:
//   - speed: world units per tick (default 0.02)
//
// Returns:
//   - CameraControllerOption: functional option to set the move speed
func WithMoveSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.moveSpeed = speed
	}
}

// WithLookSensitivity sets how many degrees one pixel of cursor travel turns the camera.
//
// Parameters:
//   - degreesPerPixel: look sensitivity (default 0.1)
//
// Returns:
//   - CameraControllerOption: functional option to set the look sensitivity
func WithLookSensitivity(degreesPerPixel float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.lookSensitivity = degreesPerPixel
	}
}

// WithInvertY makes moving the mouse down raise the pitch.
//
// Parameters:
//   - invert: true to invert the vertical look axis
//
// Returns:
//   - CameraControllerOption: functional option to set the inversion
func WithInvertY(invert bool) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.invertY = invert
	}
}
