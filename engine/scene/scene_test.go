package scene

import (
	"testing"

	"github.com/Carmen-Shannon/neon-chess/common"
	"github.com/Carmen-Shannon/neon-chess/engine/board"
	"github.com/Carmen-Shannon/neon-chess/engine/camera"
	"github.com/Carmen-Shannon/neon-chess/engine/light"
	"github.com/Carmen-Shannon/neon-chess/engine/picking"
	"github.com/Carmen-Shannon/neon-chess/engine/postprocess"
	"github.com/Carmen-Shannon/neon-chess/engine/renderer/devicetest"
	"github.com/Carmen-Shannon/neon-chess/engine/skybox"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testWidth  = 1280
	testHeight = 720
)

func newTestScene(t *testing.T, options ...SceneBuilderOption) (Scene, *devicetest.Device) {
	t.Helper()
	dev := devicetest.New(testWidth, testHeight)
	options = append([]SceneBuilderOption{WithRainDrops(16), WithWorkers(2)}, options...)
	s, err := NewScene(dev, options...)
	require.NoError(t, err)
	t.Cleanup(s.Release)
	return s, dev
}

// pixelOf returns the framebuffer position a square's centre projects to.
func pixelOf(s Scene, sq board.Square) (float64, float64) {
	x, z := picking.SquareCenter(sq)
	vp := s.Camera().ViewProjection(float32(testWidth) / float32(testHeight))
	ndc := common.Project(vp, mgl32.Vec3{x, BoardHeight, z})
	return float64((ndc.X() + 1) * 0.5 * testWidth), float64((1 - ndc.Y()) * 0.5 * testHeight)
}

func square(t *testing.T, name string) board.Square {
	t.Helper()
	sq, err := board.ParseSquare(name)
	require.NoError(t, err)
	return sq
}

func TestNewSceneRegistersPipelines(t *testing.T) {
	_, dev := newTestScene(t)
	for _, key := range []string{ScenePipelineKey, light.ShadowPipelineKey, skybox.SkyboxPipelineKey, postprocess.BlurPipelineKey, postprocess.CompositePipelineKey} {
		assert.NotNil(t, dev.Pipeline(key), key)
	}
}

func TestNewSceneInitialState(t *testing.T) {
	s, _ := newTestScene(t)
	assert.Equal(t, camera.TurnView(true), s.Camera().Target())
	assert.Equal(t, mgl32.Vec3{0, BoardHeight + 0.25, 0}, s.Camera().FocusTarget())
	assert.False(t, s.Camera().Interactive())
	assert.Equal(t, board.NoSquare, s.GameState().Selected())
	assert.Len(t, s.World().Rain(), 16)
	assert.NotEmpty(t, s.World().Pieces())
	assert.Equal(t, "White to move", s.StatusText())
	assert.Contains(t, s.ScoreText(), "Mat W:39 B:39")
}

func TestRenderPassOrder(t *testing.T) {
	s, dev := newTestScene(t, WithBloomPasses(3))
	s.Update(0.016)
	require.NoError(t, s.Render())

	assert.Equal(t, []string{"shadow", "scene", "bloom_h", "bloom_v", "bloom_h", "composite"}, dev.PassLabels())
	assert.False(t, dev.InPass())

	passes := dev.Passes()
	shadow := passes[0]
	require.Len(t, shadow.Draws, 1)
	assert.Equal(t, light.ShadowPipelineKey, shadow.Draws[0].Pipeline)
	assert.Equal(t, uint32(len(s.World().ShadowCasters())), shadow.Draws[0].InstanceCount)

	scenePass := passes[1]
	require.Len(t, scenePass.Draws, 2)
	assert.Equal(t, skybox.SkyboxPipelineKey, scenePass.Draws[0].Pipeline)
	objects := scenePass.Draws[1]
	assert.Equal(t, ScenePipelineKey, objects.Pipeline)
	assert.Equal(t, uint32(s.Visible()), objects.InstanceCount)
	assert.Positive(t, s.Visible())

	total := len(s.World().DrawList(board.NoSquare, nil))
	assert.LessOrEqual(t, s.Visible(), total)
	assert.NotEmpty(t, dev.Written(objects.BindGroups[1], 0))
}

func TestRenderCullsOffscreenObjects(t *testing.T) {
	s, _ := newTestScene(t)
	require.NoError(t, s.Render())
	total := len(s.World().DrawList(board.NoSquare, nil))
	// the camera looks down at the board, so towers behind it are dropped
	assert.Less(t, s.Visible(), total)
}

func TestClickSelectsAndMoves(t *testing.T) {
	s, _ := newTestScene(t)

	x, y := pixelOf(s, square(t, "e2"))
	s.HandleMouseButton(common.MouseLeft, true, x, y)
	assert.Equal(t, square(t, "e2"), s.GameState().Selected())
	assert.Equal(t, []board.Square{square(t, "e3"), square(t, "e4")}, s.GameState().LegalTargets())
	assert.Equal(t, mgl32.Vec3{0.5, BoardHeight + 0.35, -2.5}, s.Camera().FocusTarget())

	// releasing the button does nothing
	s.HandleMouseButton(common.MouseLeft, false, x, y)
	assert.Equal(t, square(t, "e2"), s.GameState().Selected())

	x, y = pixelOf(s, square(t, "e4"))
	s.HandleMouseButton(common.MouseLeft, true, x, y)
	assert.Equal(t, board.NoSquare, s.GameState().Selected())
	assert.Equal(t, board.Black, s.GameState().Board().Turn())
	assert.Equal(t, camera.TurnView(false), s.Camera().Target())
	assert.Equal(t, mgl32.Vec3{0, BoardHeight + 0.25, 0}, s.Camera().FocusTarget())
	assert.Equal(t, MoveMotionBlur, s.MotionBlur())
	assert.Equal(t, float32(0), s.Camera().Shake())

	// the spot light moved to black's half
	assert.Positive(t, s.Lighting().SpotLights[0].Position().Z())
	assert.Equal(t, light.ActiveSideIntensity, s.Lighting().BlackSide.Intensity())

	s.Update(0.1)
	assert.InDelta(t, MoveMotionBlur-0.18, s.MotionBlur(), 1e-5)
}

func TestClickMissesBoard(t *testing.T) {
	s, _ := newTestScene(t)
	s.HandleMouseButton(common.MouseLeft, true, 0, 0)
	assert.Equal(t, board.NoSquare, s.GameState().Selected())
}

func TestIllegalMoveDeselects(t *testing.T) {
	s, _ := newTestScene(t)
	_, err := s.ClickSquare(square(t, "e2"))
	require.NoError(t, err)
	_, err = s.ClickSquare(square(t, "e5"))
	assert.ErrorIs(t, err, board.ErrIllegalMove)
	assert.Equal(t, board.NoSquare, s.GameState().Selected())
	assert.Equal(t, mgl32.Vec3{0, BoardHeight + 0.25, 0}, s.Camera().FocusTarget())
	assert.Equal(t, float32(0), s.MotionBlur())
}

func TestCaptureShakesCamera(t *testing.T) {
	b, err := board.NewChessBoard(board.WithFEN("rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 2"))
	require.NoError(t, err)
	s, _ := newTestScene(t, WithBoard(b))

	_, err = s.ClickSquare(square(t, "e4"))
	require.NoError(t, err)
	u, err := s.ClickSquare(square(t, "d5"))
	require.NoError(t, err)
	assert.True(t, u.Captured)
	assert.InDelta(t, CaptureShake, s.Camera().Shake(), 1e-6)
	assert.Contains(t, s.ScoreText(), "Caps W:1 B:0")
}

func TestKeys(t *testing.T) {
	s, _ := newTestScene(t)

	s.HandleKey(common.KeySpace)
	assert.Equal(t, board.Pawn, s.GameState().Board().PieceAt(square(t, "a3")).Kind)
	assert.Equal(t, board.Black, s.GameState().Board().Turn())
	assert.Equal(t, MoveMotionBlur, s.MotionBlur())

	s.HandleKey(common.KeyR)
	assert.Equal(t, board.StartingFEN, s.GameState().Board().FEN())
	assert.Equal(t, camera.TurnView(true), s.Camera().Target())

	// unbound keys are ignored
	s.HandleKey(common.KeyEsc)
	assert.Equal(t, board.StartingFEN, s.GameState().Board().FEN())
}

func TestOrbitAndZoomNeedInteractive(t *testing.T) {
	s, _ := newTestScene(t)
	before := s.Camera().Target()
	s.HandleMouseButton(common.MouseRight, true, 100, 100)
	s.HandleMouseMove(180, 140)
	s.HandleMouseButton(common.MouseRight, false, 180, 140)
	s.HandleScroll(3)
	assert.Equal(t, before, s.Camera().Target())

	s, _ = newTestScene(t, WithInteractive(true, 0.25, 0.8, false))
	before = s.Camera().Target()
	s.HandleMouseButton(common.MouseRight, true, 100, 100)
	assert.True(t, s.Controller().Dragging())
	s.HandleMouseMove(180, 100)
	assert.NotEqual(t, before.Yaw, s.Camera().Target().Yaw)
	s.HandleMouseButton(common.MouseRight, false, 180, 100)
	assert.False(t, s.Controller().Dragging())

	before = s.Camera().Target()
	s.HandleScroll(2)
	assert.InDelta(t, before.Distance-1.6, s.Camera().Target().Distance, 1e-5)
}

func TestResize(t *testing.T) {
	s, dev := newTestScene(t)
	require.NoError(t, s.Resize(0, 300))
	w, h := s.PostProcessing().Size()
	assert.Equal(t, 1, w)
	assert.Equal(t, 300, h)
	assert.Equal(t, float32(1), dev.Viewport().Width)

	require.NoError(t, s.Resize(640, 360))
	dev.ResetPasses()
	require.NoError(t, s.Render())
	assert.Equal(t, float32(640), dev.Passes()[1].Viewport.Width)
}

func TestMotionBlurDecays(t *testing.T) {
	s, _ := newTestScene(t)
	_, err := s.PlayFirstLegal()
	require.NoError(t, err)
	assert.Equal(t, MoveMotionBlur, s.MotionBlur())

	s.Update(0.1)
	assert.InDelta(t, MoveMotionBlur-0.18, s.MotionBlur(), 1e-5)
	s.Update(1)
	assert.Zero(t, s.MotionBlur())
}

func TestCompositeParams(t *testing.T) {
	s, _ := newTestScene(t, WithExposure(1.5), WithBloomStrength(0.9))
	impl := s.(*sceneImpl)
	s.Update(0.25)

	p := impl.compositeParams()
	dist := s.Camera().Current().Distance
	fd := common.Clamp((dist-8)/28, 0.25, 0.85)
	assert.Equal(t, float32(1.5), p.Exposure)
	assert.Equal(t, float32(0.9), p.BloomStrength)
	assert.InDelta(t, 0.25, p.Time, 1e-6)
	assert.InDelta(t, fd, p.FocusDepth, 1e-6)
	assert.InDelta(t, common.Clamp(0.32+(1-fd)*0.5, 0.2, 0.78), p.DofStrength, 1e-6)
	assert.InDelta(t, common.Clamp(s.Camera().Velocity()*0.06, 0, 1), p.CameraSpeed, 1e-6)
	assert.GreaterOrEqual(t, p.DofStrength, float32(0.2))
	assert.LessOrEqual(t, p.DofStrength, float32(0.78))
}
