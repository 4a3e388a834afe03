package camera

import "sync"

// cameraControllerImpl is the implementation of CameraController.
type cameraControllerImpl struct {
	mu *sync.Mutex

	camera Camera

	dragging     bool
	lastX, lastY float64

	mouseSensitivity float32
	zoomSpeed        float32
	invertY          bool
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a controller driving cam.
//
// Parameters:
//   - cam: the camera to orbit and zoom
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(cam Camera, options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:               &sync.Mutex{},
		camera:           cam,
		mouseSensitivity: 0.25,
		zoomSpeed:        0.8,
	}
	for _, option := range options {
		option(cc)
	}
	return cc
}

func (cc *cameraControllerImpl) BeginDrag(x, y float64) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if !cc.camera.Interactive() {
		return
	}
	cc.dragging = true
	cc.lastX, cc.lastY = x, y
}

func (cc *cameraControllerImpl) EndDrag() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.dragging = false
}

func (cc *cameraControllerImpl) Dragging() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.dragging
}

func (cc *cameraControllerImpl) Move(x, y float64) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if !cc.dragging {
		return
	}
	dx := float32(x-cc.lastX) * cc.mouseSensitivity
	dy := float32(y-cc.lastY) * cc.mouseSensitivity
	cc.lastX, cc.lastY = x, y
	if cc.invertY {
		dy = -dy
	}
	// dragging right swings the eye left around the focus, dragging down raises it
	cc.camera.Orbit(-dx, dy)
}

func (cc *cameraControllerImpl) Scroll(dy float64) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if dy == 0 {
		return
	}
	cc.camera.Zoom(float32(dy) * cc.zoomSpeed)
}

func (cc *cameraControllerImpl) Camera() Camera {
	return cc.camera
}

func (cc *cameraControllerImpl) MouseSensitivity() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.mouseSensitivity
}

func (cc *cameraControllerImpl) ZoomSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.zoomSpeed
}
