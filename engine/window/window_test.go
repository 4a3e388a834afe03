package window

import (
	"testing"

	"github.com/Carmen-Shannon/neon-chess/common"
	"github.com/stretchr/testify/assert"
)

func TestDefaultsAndOptions(t *testing.T) {
	w := newEngineWindow()
	assert.Equal(t, 1280, w.Width())
	assert.Equal(t, 720, w.Height())
	assert.True(t, w.resizable)

	w = newEngineWindow(WithTitle("x"), WithSize(0, 300), WithMinSize(10, 20), WithMaxSize(800, 600), WithResizable(false))
	assert.Equal(t, "x", w.title)
	assert.Equal(t, 1, w.Width(), "size is clamped to one")
	assert.Equal(t, 300, w.Height())
	assert.Equal(t, [4]int{10, 20, 800, 600}, [4]int{w.minWidth, w.minHeight, w.maxWidth, w.maxHeight})
	assert.False(t, w.resizable)
}

func TestCursorScaledToFramebuffer(t *testing.T) {
	w := newEngineWindow(WithSize(800, 600))
	w.setSizes(1600, 1200, 800, 600)

	var gotX, gotY float64
	var gotButton int
	var gotPressed bool
	w.SetMouseButtonCallback(func(button int, pressed bool, x, y float64) {
		gotButton, gotPressed, gotX, gotY = button, pressed, x, y
	})
	w.dispatchMouseButton(common.MouseLeft, true, 100, 50)
	assert.Equal(t, common.MouseLeft, gotButton)
	assert.True(t, gotPressed)
	assert.Equal(t, 200.0, gotX)
	assert.Equal(t, 100.0, gotY)

	w.SetMouseMoveCallback(func(x, y float64) { gotX, gotY = x, y })
	w.dispatchMouseMove(10, 20)
	assert.Equal(t, 20.0, gotX)
	assert.Equal(t, 40.0, gotY)
}

func TestKeyDispatch(t *testing.T) {
	w := newEngineWindow()
	var keys []int
	w.SetKeyDownCallback(func(key int) { keys = append(keys, key) })

	w.dispatchKey(common.KeyR, true)
	w.dispatchKey(common.KeyR, false)
	w.dispatchKey(common.KeySpace, true)
	// escape closes instead of forwarding; without a platform window this is a no-op
	w.dispatchKey(common.KeyEsc, true)

	assert.Equal(t, []int{common.KeyR, common.KeySpace}, keys)
	assert.False(t, w.IsRunning())
}

func TestScrollAndResize(t *testing.T) {
	w := newEngineWindow(WithSize(640, 480))

	var scrolls []float64
	w.SetScrollCallback(func(dy float64) { scrolls = append(scrolls, dy) })
	w.dispatchScroll(0)
	w.dispatchScroll(-1.5)
	assert.Equal(t, []float64{-1.5}, scrolls)

	var resized [][2]int
	w.SetResizeCallback(func(width, height int) { resized = append(resized, [2]int{width, height}) })
	w.dispatchFramebufferResize(0, 0, 0, 0)
	w.dispatchFramebufferResize(1024, 768, 512, 384)
	assert.Equal(t, [][2]int{{1024, 768}}, resized)
	assert.Equal(t, 1024, w.Width())
	assert.Equal(t, 768, w.Height())

	x, y := w.toFramebuffer(1, 1)
	assert.Equal(t, 2.0, x)
	assert.Equal(t, 2.0, y)
}

func TestCloseWithoutPlatform(t *testing.T) {
	w := newEngineWindow()
	assert.Error(t, w.Close())
	assert.Nil(t, w.SurfaceDescriptor())
	w.SetTitle("still fine")
	assert.Equal(t, "still fine", w.title)
}
