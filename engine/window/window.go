// Package window wraps a GLFW window and translates its input events into framebuffer-pixel callbacks.
package window

import (
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/neon-chess/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides platform windowing and input event handling.
// All pointer coordinates handed to callbacks are in framebuffer pixels, origin top-left.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the callback for vertical scroll wheel events.
	//
	// Parameters:
	//   - callback: function receiving the scroll delta (positive = away from the user)
	SetScrollCallback(callback func(dy float64))

	// SetKeyDownCallback sets the callback for key press events. Repeats are not reported.
	//
	// Parameters:
	//   - callback: function receiving the GLFW key code
	SetKeyDownCallback(callback func(key int))

	// SetMouseButtonCallback sets the callback for button press and release.
	//
	// Parameters:
	//   - callback: function receiving the button (common.MouseLeft etc.), the press state and the cursor position
	SetMouseButtonCallback(callback func(button int, pressed bool, x, y float64))

	// SetMouseMoveCallback sets the callback for cursor movement.
	//
	// Parameters:
	//   - callback: function receiving the cursor position
	SetMouseMoveCallback(callback func(x, y float64))

	// SetTitle replaces the title bar text.
	SetTitle(title string)

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still open.
	IsRunning() bool

	// RequestClose asks the message loop to stop after the current iteration.
	RequestClose()

	// Close destroys the window and releases platform resources.
	//
	// Returns:
	//   - error: error if the window was never created
	Close() error

	// ProcessMessages runs the window message loop on the calling goroutine, which must be locked to the main thread.
	// Blocks until the window is closed. Calls the update callback each iteration.
	ProcessMessages()

	// Width returns the current framebuffer width in pixels.
	Width() int

	// Height returns the current framebuffer height in pixels.
	Height() int
}

// engineWindow is the implementation of the Window interface.
type engineWindow struct {
	mu *sync.Mutex

	title     string
	resizable bool

	minWidth, minHeight int
	maxWidth, maxHeight int

	// width and height are the framebuffer size; windowWidth and windowHeight are in screen coordinates.
	width, height             int
	windowWidth, windowHeight int

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	onUpdate      func()
	onResize      func(width, height int)
	onScroll      func(dy float64)
	onKeyDown     func(key int)
	onMouseButton func(button int, pressed bool, x, y float64)
	onMouseMove   func(x, y float64)
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a GLFW window. Must be called from the main thread.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the open window
//   - error: an error if GLFW cannot be initialized or the window cannot be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		return nil, err
	}
	return w, nil
}

// newEngineWindow applies defaults and options without touching the platform layer.
func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		mu:        &sync.Mutex{},
		title:     "Neon City Chess",
		resizable: true,
		minWidth:  320,
		minHeight: 200,
		width:     1280,
		height:    720,
	}
	for _, opt := range options {
		opt(w)
	}
	w.width, w.height = max(w.width, 1), max(w.height, 1)
	w.windowWidth, w.windowHeight = w.width, w.height
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetScrollCallback(callback func(dy float64)) {
	w.onScroll = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(key int)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetMouseButtonCallback(callback func(button int, pressed bool, x, y float64)) {
	w.onMouseButton = callback
}

func (w *engineWindow) SetMouseMoveCallback(callback func(x, y float64)) {
	w.onMouseMove = callback
}

func (w *engineWindow) SetTitle(title string) {
	w.mu.Lock()
	w.title = title
	w.mu.Unlock()
	platformSetTitle(w, title)
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	platformRequestClose(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width
}

func (w *engineWindow) Height() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.height
}

// toFramebuffer scales a cursor position from screen coordinates to framebuffer pixels.
// On high-DPI displays the two differ; a zero-sized window leaves the position unscaled.
func (w *engineWindow) toFramebuffer(x, y float64) (float64, float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	sx, sy := 1.0, 1.0
	if w.windowWidth > 0 {
		sx = float64(w.width) / float64(w.windowWidth)
	}
	if w.windowHeight > 0 {
		sy = float64(w.height) / float64(w.windowHeight)
	}
	return x * sx, y * sy
}

// setSizes records the framebuffer and window sizes reported by the platform.
func (w *engineWindow) setSizes(fbWidth, fbHeight, winWidth, winHeight int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.width, w.height = fbWidth, fbHeight
	w.windowWidth, w.windowHeight = winWidth, winHeight
}

// The dispatch methods below are what the platform callbacks feed; they hold no GLFW state.

func (w *engineWindow) dispatchKey(key int, pressed bool) {
	if !pressed {
		return
	}
	if key == common.KeyEsc {
		w.RequestClose()
		return
	}
	if w.onKeyDown != nil {
		w.onKeyDown(key)
	}
}

func (w *engineWindow) dispatchMouseButton(button int, pressed bool, x, y float64) {
	if w.onMouseButton == nil {
		return
	}
	fx, fy := w.toFramebuffer(x, y)
	w.onMouseButton(button, pressed, fx, fy)
}

func (w *engineWindow) dispatchMouseMove(x, y float64) {
	if w.onMouseMove == nil {
		return
	}
	fx, fy := w.toFramebuffer(x, y)
	w.onMouseMove(fx, fy)
}

func (w *engineWindow) dispatchScroll(dy float64) {
	if w.onScroll != nil && dy != 0 {
		w.onScroll(dy)
	}
}

// dispatchFramebufferResize ignores minimized (zero-sized) framebuffers.
func (w *engineWindow) dispatchFramebufferResize(fbWidth, fbHeight, winWidth, winHeight int) {
	if fbWidth <= 0 || fbHeight <= 0 {
		return
	}
	w.setSizes(fbWidth, fbHeight, winWidth, winHeight)
	if w.onResize != nil {
		w.onResize(fbWidth, fbHeight)
	}
}
