package camera

import (
	"testing"

	"github.com/Carmen-Shannon/neon-chess/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var boardFocus = mgl32.Vec3{0, 2.65, 0}

func step(c Camera, dt float32, total float32) {
	for elapsed := float32(0); elapsed < total; elapsed += dt {
		c.Update(dt)
	}
}

func TestSmoothIsStepIndependent(t *testing.T) {
	fine := float32(180)
	for range 100 {
		fine = Smooth(fine, 0, 0.01, yawSpeed)
	}
	coarse := Smooth(180, 0, 1.0, yawSpeed)
	assert.InDelta(t, coarse, fine, 1e-3)

	v := SmoothVec(mgl32.Vec3{}, mgl32.Vec3{10, 0, -10}, 0.5, focusSpeed)
	w := SmoothVec(SmoothVec(mgl32.Vec3{}, mgl32.Vec3{10, 0, -10}, 0.25, focusSpeed), mgl32.Vec3{10, 0, -10}, 0.25, focusSpeed)
	assert.InDelta(t, v.X(), w.X(), 1e-4)
	assert.InDelta(t, v.Z(), w.Z(), 1e-4)

	// zero dt still moves by a tiny blend and never divides by zero
	assert.InDelta(t, float32(1), Smooth(1, 2, 0, 5), 1e-4)
}

func TestUpdateConvergesForAnyStep(t *testing.T) {
	for _, dt := range []float32{0.004, 0.016, 0.05, 0.25} {
		c := NewCamera(boardFocus)
		c.SetTurnView(true)
		step(c, dt, 8)

		cur, tgt := c.Current(), c.Target()
		assert.InDelta(t, tgt.Yaw, cur.Yaw, 1e-3, "dt=%v", dt)
		assert.InDelta(t, tgt.Pitch, cur.Pitch, 1e-3, "dt=%v", dt)
		assert.InDelta(t, tgt.Distance, cur.Distance, 1e-3, "dt=%v", dt)
	}
}

func TestArcProfile(t *testing.T) {
	assert.InDelta(t, 0, Arc(0), 1e-6)
	assert.InDelta(t, 0, Arc(1), 1e-6)
	assert.InDelta(t, 1, Arc(0.5), 1e-6)
	for p := float32(0); p <= 1; p += 0.05 {
		assert.LessOrEqual(t, Arc(p), Arc(0.5)+1e-6)
		assert.GreaterOrEqual(t, Arc(p), float32(-1e-6))
	}
	assert.Equal(t, Arc(0), Arc(-3))
}

func TestTurnChangeTransition(t *testing.T) {
	c := NewCamera(boardFocus)
	c.SetTurnView(true)
	assert.Zero(t, c.Transition(), "same side starts no handoff")
	step(c, 0.016, 3)

	c.SetTurnView(false)
	assert.Equal(t, float32(1), c.Transition())
	assert.False(t, c.WhiteSide())
	assert.Equal(t, TurnView(false), c.Target())

	// the handoff lasts 1/1.65 seconds
	step(c, 0.016, 0.65)
	assert.Zero(t, c.Transition())

	step(c, 0.016, 6)
	assert.InDelta(t, float32(0), c.Current().Yaw, 1e-3)
	assert.Zero(t, c.Transition())
}

func TestTransitionLiftsEye(t *testing.T) {
	settledCam := NewCamera(boardFocus)
	swinging := NewCamera(boardFocus)
	swinging.SetTurnView(false)
	settledCam.SetTurnView(false)

	// same pose, but only one of them is mid handoff
	settledCam.(*cameraImpl).transition = 0

	// the arc is zero on the first step of a handoff
	for range 2 {
		settledCam.Update(0.15)
		swinging.Update(0.15)
	}
	assert.Greater(t, swinging.Eye().Y(), settledCam.Eye().Y())
}

func TestEyeOrbitsFocus(t *testing.T) {
	c := NewCamera(boardFocus)
	eye := c.Eye()

	assert.InDelta(t, DefaultState.Distance, eye.Sub(c.Focus()).Len(), 1e-3)
	assert.Less(t, eye.Z(), float32(0), "yaw 180 views from -z")
	assert.InDelta(t, 0, eye.X(), 1e-3)
	assert.Greater(t, eye.Y(), boardFocus.Y())

	fwd := c.Forward()
	assert.InDelta(t, 1, fwd.Len(), 1e-5)
	assert.Greater(t, fwd.Z(), float32(0))
}

func TestCaptureShake(t *testing.T) {
	c := NewCamera(boardFocus)
	c.AddCaptureShake(0.45)
	c.AddCaptureShake(0.45)
	c.AddCaptureShake(0.45)
	assert.Equal(t, float32(1), c.Shake())

	c.Update(0.016)
	assert.Less(t, c.Shake(), float32(1))
	step(c, 0.016, 1)
	assert.Zero(t, c.Shake())
}

func TestProjectionUsesZeroToOneDepth(t *testing.T) {
	c := NewCamera(boardFocus)
	p := c.Projection(16.0 / 9.0)

	near := common.Project(p, mgl32.Vec3{0, 0, -c.Near()})
	far := common.Project(p, mgl32.Vec3{0, 0, -c.Far()})
	assert.InDelta(t, 0, near.Z(), 1e-5)
	assert.InDelta(t, 1, far.Z(), 1e-4)

	// degenerate aspect is clamped rather than producing infinities
	q := c.Projection(0)
	assert.InDelta(t, p[5]/0.1, q[0], 1e-3)
}

func TestOrbitAndZoomRequireInteractive(t *testing.T) {
	c := NewCamera(boardFocus)
	before := c.Target()
	c.Orbit(30, 30)
	c.Zoom(5)
	assert.Equal(t, before, c.Target())

	c.SetInteractive(true)
	c.Orbit(30, 200)
	assert.Equal(t, before.Yaw+30, c.Target().Yaw)
	assert.Equal(t, float32(85), c.Target().Pitch)

	c.Zoom(100)
	assert.Equal(t, float32(4), c.Target().Distance)
	c.Zoom(-100)
	assert.Equal(t, float32(60), c.Target().Distance)
}

func TestRevisionTracksChanges(t *testing.T) {
	c := NewCamera(boardFocus)
	r := c.Revision()
	c.FocusOn(mgl32.Vec3{1, 2, 3})
	assert.Greater(t, c.Revision(), r)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, c.FocusTarget())

	r = c.Revision()
	c.Update(0.1)
	assert.Greater(t, c.Revision(), r)
	assert.Greater(t, c.Velocity(), float32(0))
}

func TestBuilderOptions(t *testing.T) {
	c := NewCamera(boardFocus,
		WithFov(60),
		WithClipPlanes(0.5, 100),
		WithState(CameraState{Yaw: 90, Pitch: 120, Distance: 1}),
		WithInteractive(true),
	)
	require.True(t, c.Interactive())
	assert.Equal(t, float32(60), c.Fov())
	assert.Equal(t, float32(0.5), c.Near())
	assert.Equal(t, float32(100), c.Far())
	assert.Equal(t, CameraState{Yaw: 90, Pitch: 85, Distance: 4}, c.Current())
}
