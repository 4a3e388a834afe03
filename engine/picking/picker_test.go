package picking

import (
	"testing"

	"github.com/Carmen-Shannon/neon-chess/common"
	"github.com/Carmen-Shannon/neon-chess/engine/board"
	"github.com/Carmen-Shannon/neon-chess/engine/camera"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const boardY = 2.4

type fixedView struct {
	viewProj mgl32.Mat4
	revision uint64
	calls    int
}

func (f *fixedView) ViewProjection(float32) mgl32.Mat4 {
	f.calls++
	return f.viewProj
}

func (f *fixedView) Revision() uint64 { return f.revision }

func lookingDown() *fixedView {
	view := common.LookAt(mgl32.Vec3{0, 20, 0.001}, mgl32.Vec3{0, boardY, 0})
	return &fixedView{viewProj: common.Perspective(mgl32.DegToRad(50), 1, 0.1, 280).Mul4(view)}
}

// toPixel projects a world point to framebuffer pixels, origin top-left.
func toPixel(viewProj mgl32.Mat4, p mgl32.Vec3, w, h int) (float32, float32) {
	ndc := common.Project(viewProj, p)
	return (ndc.X() + 1) * 0.5 * float32(w), (1 - ndc.Y()) * 0.5 * float32(h)
}

func TestSquareGeometry(t *testing.T) {
	x, z := SquareCenter(board.NewSquare(0, 0))
	assert.Equal(t, float32(-3.5), x)
	assert.Equal(t, float32(-3.5), z)

	sq, ok := SquareAt(3.99, -3.99)
	require.True(t, ok)
	assert.Equal(t, board.NewSquare(7, 0), sq)

	_, ok = SquareAt(4.0, 0)
	assert.False(t, ok)
	_, ok = SquareAt(0, -4.01)
	assert.False(t, ok)
}

func TestUnprojectRoundTrip(t *testing.T) {
	cam := camera.NewCamera(mgl32.Vec3{0, boardY + 0.25, 0})
	vp := cam.ViewProjection(16.0 / 9.0)
	world := mgl32.Vec3{1.25, boardY, -2.75}

	ndc := common.Project(vp, world)
	assert.GreaterOrEqual(t, ndc.Z(), float32(0))
	assert.LessOrEqual(t, ndc.Z(), float32(1))

	back, ok := common.Unproject(vp.Inv(), ndc)
	require.True(t, ok)
	assert.InDelta(t, world.X(), back.X(), 1e-3)
	assert.InDelta(t, world.Y(), back.Y(), 1e-3)
	assert.InDelta(t, world.Z(), back.Z(), 1e-3)
}

func TestPickEverySquareFromCamera(t *testing.T) {
	const w, h = 1280, 720
	cam := camera.NewCamera(mgl32.Vec3{0, boardY + 0.25, 0})
	p := NewPicker(cam, boardY, w, h)
	vp := cam.ViewProjection(float32(w) / h)

	for i := 0; i < 64; i++ {
		sq := board.Square(i)
		x, z := SquareCenter(sq)
		px, py := toPixel(vp, mgl32.Vec3{x, boardY, z}, w, h)
		got, ok := p.Pick(px, py)
		require.True(t, ok, sq.String())
		assert.Equal(t, sq, got, sq.String())
	}
}

func TestPickMisses(t *testing.T) {
	src := lookingDown()
	p := NewPicker(src, boardY, 800, 800)

	sq, ok := p.Pick(400, 400)
	require.True(t, ok)
	assert.Contains(t, []board.Square{27, 28, 35, 36}, sq)

	// far corner of the window sees the ground outside the board
	_, ok = p.Pick(0, 0)
	assert.False(t, ok)
}

func TestPickBehindCamera(t *testing.T) {
	view := common.LookAt(mgl32.Vec3{0, 10, 0}, mgl32.Vec3{0, 20, 1})
	src := &fixedView{viewProj: common.Perspective(mgl32.DegToRad(50), 1, 0.1, 280).Mul4(view)}
	p := NewPicker(src, boardY, 100, 100)
	_, ok := p.Pick(50, 50)
	assert.False(t, ok)
}

func TestPickParallelRay(t *testing.T) {
	view := common.LookAt(mgl32.Vec3{0, boardY, 10}, mgl32.Vec3{0, boardY, 0})
	src := &fixedView{viewProj: common.Perspective(mgl32.DegToRad(50), 1, 0.1, 280).Mul4(view)}
	p := NewPicker(src, boardY, 100, 100)
	_, ok := p.Pick(50, 50)
	assert.False(t, ok)
}

func TestInverseCache(t *testing.T) {
	src := lookingDown()
	p := NewPicker(src, boardY, 800, 800)

	p.Pick(400, 400)
	p.Pick(10, 10)
	assert.Equal(t, 1, src.calls)

	src.revision++
	p.Pick(400, 400)
	assert.Equal(t, 2, src.calls)

	p.Invalidate()
	p.Pick(400, 400)
	assert.Equal(t, 3, src.calls)

	p.Resize(0, -5)
	p.Pick(0, 0)
	assert.Equal(t, 4, src.calls)
}

func TestCameraRevisionInvalidates(t *testing.T) {
	cam := camera.NewCamera(mgl32.Vec3{0, boardY + 0.25, 0})
	p := NewPicker(cam, boardY, 640, 480)

	before, ok := p.Pick(320, 300)
	require.True(t, ok)

	cam.SetTurnView(false)
	for i := 0; i < 200; i++ {
		cam.Update(0.05)
	}
	after, ok := p.Pick(320, 300)
	require.True(t, ok)
	assert.NotEqual(t, before, after)
}
