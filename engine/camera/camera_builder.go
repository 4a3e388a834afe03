package camera

// CameraBuilderOption is a functional option applied to a camera during construction via NewCamera.
type CameraBuilderOption func(*cameraImpl)

// WithFov sets the vertical field of view in degrees.
//
// Parameters:
//   - degrees: the field of view
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFov(degrees float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = degrees
	}
}

// WithClipPlanes sets the near and far clipping distances.
//
// Parameters:
//   - near: near plane distance, must be > 0
//   - far: far plane distance, must be > near
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's clip planes
func WithClipPlanes(near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
		c.far = far
	}
}

// WithState starts the camera in the given pose instead of DefaultState.
func WithState(state CameraState) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.current = state.Clamped()
		c.target = c.current
	}
}

// WithInteractive enables Orbit and Zoom.
func WithInteractive(enabled bool) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.interactive = enabled
	}
}
