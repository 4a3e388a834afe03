package camera

import (
	"sync"

	"github.com/Carmen-Shannon/neon-chess/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	focusSpeed    = 9.2
	yawSpeed      = 4.8
	pitchSpeed    = 5.2
	distanceSpeed = 5.6

	turnPitch    = 32.0
	turnDistance = 15.4

	transitionDecay = 1.65
	arcSway         = 1.55
	arcLift         = 2.1

	shakePhaseRate = 30.0
	shakeAmplitude = 0.06
	shakeDecay     = 2.2

	// settled is the level below which transition and shake stop contributing.
	settled = 1e-4

	minPitch    = -85.0
	maxPitch    = 85.0
	minDistance = 4.0
	maxDistance = 60.0
	minAspect   = 0.1
)

// CameraState is an orbit pose around the focus point. Yaw and Pitch are in degrees.
type CameraState struct {
	Yaw      float32
	Pitch    float32
	Distance float32
}

// DefaultState is the pose the camera starts in before the first turn view is applied.
var DefaultState = CameraState{Yaw: 180, Pitch: 27.5, Distance: 14}

// Clamped limits pitch to [-85, 85] degrees and distance to [4, 60].
func (s CameraState) Clamped() CameraState {
	s.Pitch = common.Clamp(s.Pitch, minPitch, maxPitch)
	s.Distance = common.Clamp(s.Distance, minDistance, maxDistance)
	return s
}

// TurnView returns the target pose for the side to move. Each side watches from behind its own pieces.
func TurnView(whiteToMove bool) CameraState {
	if whiteToMove {
		return CameraState{Yaw: 180, Pitch: turnPitch, Distance: turnDistance}
	}
	return CameraState{Yaw: 0, Pitch: turnPitch, Distance: turnDistance}
}

// Smooth moves current toward target with frame-rate independent exponential smoothing.
func Smooth(current, target, dt, speed float32) float32 {
	return current + (target-current)*blend(dt, speed)
}

// SmoothVec applies Smooth to every component of a vector.
func SmoothVec(current, target mgl32.Vec3, dt, speed float32) mgl32.Vec3 {
	return current.Add(target.Sub(current).Mul(blend(dt, speed)))
}

func blend(dt, speed float32) float32 {
	return 1 - math32.Exp(-speed*math32.Max(dt, 1e-6))
}

// Arc is the lift and sway profile of a turn handoff at the given progress in [0, 1].
// It is zero at both ends and peaks at the midpoint.
func Arc(progress float32) float32 {
	return math32.Sin(common.Clamp(progress, 0, 1) * math32.Pi)
}

type cameraImpl struct {
	mu *sync.Mutex

	fov  float32
	near float32
	far  float32

	current CameraState
	target  CameraState

	focus       mgl32.Vec3
	focusTarget mgl32.Vec3

	eye      mgl32.Vec3
	prevEye  mgl32.Vec3
	velocity float32

	shake      float32
	shakePhase float32

	whiteSide      bool
	transition     float32
	transitionSign float32

	interactive bool
	revision    uint64
}

// Camera is a directed camera that follows the game rather than the mouse.
// It smooths toward a target pose around a focus point, swings through a short arc whenever the side to move
// changes, and shakes briefly on captures. Orbit and Zoom only act when interactive control is enabled.
type Camera interface {
	// SetTurnView targets the pose for the side to move and starts a handoff arc when the side changes.
	//
	// Parameters:
	//   - whiteToMove: true when white is to move
	SetTurnView(whiteToMove bool)

	// FocusOn sets the point the camera eases toward.
	FocusOn(point mgl32.Vec3)

	// AddCaptureShake adds to the shake level, saturating at 1.
	AddCaptureShake(amount float32)

	// Orbit rotates the target pose by the given yaw and pitch deltas in degrees.
	// Pitch is clamped. Ignored unless interactive control is enabled.
	Orbit(dYaw, dPitch float32)

	// Zoom moves the target pose closer by amount world units; negative values move it away.
	// Distance is clamped. Ignored unless interactive control is enabled.
	Zoom(amount float32)

	// Update advances smoothing, the handoff arc and shake by dt seconds and recomputes the eye.
	Update(dt float32)

	// View returns the look-at matrix from the eye to the smoothed focus.
	View() mgl32.Mat4

	// Projection returns the perspective matrix for aspect, mapping depth to [0, 1].
	Projection(aspect float32) mgl32.Mat4

	// ViewProjection returns Projection(aspect) * View().
	ViewProjection(aspect float32) mgl32.Mat4

	Eye() mgl32.Vec3
	Focus() mgl32.Vec3
	FocusTarget() mgl32.Vec3
	Forward() mgl32.Vec3
	Current() CameraState
	Target() CameraState

	// Transition returns the remaining handoff level, 1 at the start of a side change and 0 when settled.
	Transition() float32

	// Velocity returns the eye speed over the last update in world units per second.
	Velocity() float32

	Shake() float32
	WhiteSide() bool

	Fov() float32
	Near() float32
	Far() float32

	Interactive() bool
	SetInteractive(enabled bool)

	// Revision increases whenever the camera matrices may have changed.
	Revision() uint64
}

var _ Camera = &cameraImpl{}

// NewCamera creates a Camera looking at focus from the default pose.
// The camera is advanced by one 16ms step so Eye and View are valid immediately.
//
// Parameters:
//   - focus: the initial look target
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(focus mgl32.Vec3, options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:             &sync.Mutex{},
		fov:            50,
		near:           0.1,
		far:            280,
		current:        DefaultState,
		target:         DefaultState,
		focus:          focus,
		focusTarget:    focus,
		whiteSide:      true,
		transitionSign: 1,
	}
	for _, option := range options {
		option(c)
	}
	c.update(0.016)
	c.prevEye = c.eye
	c.velocity = 0
	return c
}

func (c *cameraImpl) SetTurnView(whiteToMove bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.whiteSide != whiteToMove {
		c.transition = 1
		c.transitionSign = 1
		if !whiteToMove {
			c.transitionSign = -1
		}
		c.whiteSide = whiteToMove
	}
	c.target = TurnView(whiteToMove)
	c.revision++
}

func (c *cameraImpl) FocusOn(point mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.focusTarget = point
	c.revision++
}

func (c *cameraImpl) AddCaptureShake(amount float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shake = math32.Min(1, c.shake+amount)
	c.revision++
}

func (c *cameraImpl) Orbit(dYaw, dPitch float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.interactive {
		return
	}
	c.target.Yaw += dYaw
	c.target.Pitch += dPitch
	c.target = c.target.Clamped()
	c.revision++
}

func (c *cameraImpl) Zoom(amount float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.interactive {
		return
	}
	c.target.Distance -= amount
	c.target = c.target.Clamped()
	c.revision++
}

func (c *cameraImpl) Update(dt float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.update(dt)
}

// update recomputes the eye for a dt step. Caller must hold the mutex.
func (c *cameraImpl) update(dt float32) {
	c.focus = SmoothVec(c.focus, c.focusTarget, dt, focusSpeed)
	c.current.Yaw = Smooth(c.current.Yaw, c.target.Yaw, dt, yawSpeed)
	c.current.Pitch = Smooth(c.current.Pitch, c.target.Pitch, dt, pitchSpeed)
	c.current.Distance = Smooth(c.current.Distance, c.target.Distance, dt, distanceSpeed)

	yaw := mgl32.DegToRad(c.current.Yaw)
	pitch := mgl32.DegToRad(c.current.Pitch)
	horizontal := c.current.Distance * math32.Cos(pitch)
	eye := c.focus.Add(mgl32.Vec3{
		horizontal * math32.Sin(yaw),
		c.current.Distance * math32.Sin(pitch),
		horizontal * math32.Cos(yaw),
	})

	if c.transition > settled {
		arc := Arc(1 - c.transition)
		right := mgl32.Vec3{math32.Cos(yaw), 0, -math32.Sin(yaw)}
		eye = eye.Add(right.Mul(arc * arcSway * c.transitionSign))
		eye[1] += arc * arcLift
		c.transition = math32.Max(0, c.transition-dt*transitionDecay)
	} else {
		c.transition = 0
	}

	if c.shake > settled {
		c.shakePhase += dt * shakePhaseRate
		p := c.shakePhase
		jitter := mgl32.Vec3{
			math32.Sin(p * 1.7),
			math32.Cos(p*2.1) * 0.45,
			math32.Sin(p*1.3) * 0.65,
		}
		eye = eye.Add(jitter.Mul(shakeAmplitude * c.shake))
		c.shake = math32.Max(0, c.shake-dt*shakeDecay)
	} else {
		c.shake = 0
	}

	c.eye = eye
	c.velocity = eye.Sub(c.prevEye).Len() / math32.Max(dt, 1e-5)
	c.prevEye = eye
	c.revision++
}

func (c *cameraImpl) View() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return common.LookAt(c.eye, c.focus)
}

func (c *cameraImpl) Projection(aspect float32) mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return common.Perspective(mgl32.DegToRad(c.fov), math32.Max(aspect, minAspect), c.near, c.far)
}

func (c *cameraImpl) ViewProjection(aspect float32) mgl32.Mat4 {
	return c.Projection(aspect).Mul4(c.View())
}

func (c *cameraImpl) Eye() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eye
}

func (c *cameraImpl) Focus() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.focus
}

func (c *cameraImpl) FocusTarget() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.focusTarget
}

func (c *cameraImpl) Forward() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return common.Normalize(c.focus.Sub(c.eye), mgl32.Vec3{0, 0, -1})
}

func (c *cameraImpl) Current() CameraState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *cameraImpl) Target() CameraState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

func (c *cameraImpl) Transition() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transition
}

func (c *cameraImpl) Velocity() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.velocity
}

func (c *cameraImpl) Shake() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shake
}

func (c *cameraImpl) WhiteSide() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.whiteSide
}

func (c *cameraImpl) Fov() float32 {
	return c.fov
}

func (c *cameraImpl) Near() float32 {
	return c.near
}

func (c *cameraImpl) Far() float32 {
	return c.far
}

func (c *cameraImpl) Interactive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interactive
}

func (c *cameraImpl) SetInteractive(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.interactive = enabled
}

func (c *cameraImpl) Revision() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.revision
}
