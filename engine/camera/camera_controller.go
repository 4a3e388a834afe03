package camera

// CameraController translates raw pointer input into Camera orbit and zoom requests.
// A drag is tracked between button press and release; scroll offsets are forwarded as zoom.
// Every method is a no-op while the camera is not interactive.
type CameraController interface {
	// BeginDrag starts tracking a drag at the given window position.
	BeginDrag(x, y float64)

	// EndDrag stops tracking the current drag.
	EndDrag()

	// Dragging reports whether a drag is in progress.
	Dragging() bool

	// Move feeds a pointer position. While dragging, the delta since the last position orbits the camera.
	//
	// Parameters:
	//   - x, y: window position in pixels
	Move(x, y float64)

	// Scroll zooms the camera by the vertical scroll offset scaled by the zoom speed.
	//
	// Parameters:
	//   - dy: scroll offset, positive away from the user
	Scroll(dy float64)

	// Camera returns the camera being driven.
	Camera() Camera

	// MouseSensitivity returns the degrees of orbit per pixel of drag.
	MouseSensitivity() float32

	// ZoomSpeed returns the world units of zoom per scroll step.
	ZoomSpeed() float32
}
