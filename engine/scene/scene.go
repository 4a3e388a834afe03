// Package scene builds the neon city and board and renders it frame by frame.
package scene

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/Carmen-Shannon/neon-chess/assets"
	"github.com/Carmen-Shannon/neon-chess/common"
	"github.com/Carmen-Shannon/neon-chess/engine/board"
	"github.com/Carmen-Shannon/neon-chess/engine/camera"
	"github.com/Carmen-Shannon/neon-chess/engine/light"
	"github.com/Carmen-Shannon/neon-chess/engine/picking"
	"github.com/Carmen-Shannon/neon-chess/engine/postprocess"
	"github.com/Carmen-Shannon/neon-chess/engine/renderer"
	"github.com/Carmen-Shannon/neon-chess/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/neon-chess/engine/renderer/shader"
	"github.com/Carmen-Shannon/neon-chess/engine/skybox"
	"github.com/Carmen-Shannon/neon-chess/logx"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// CaptureShake is the shake added to the camera when a move takes a piece.
	CaptureShake float32 = 0.45

	// MoveMotionBlur is the motion blur level every committed move raises the composite to.
	MoveMotionBlur float32 = 0.85

	motionBlurDecay   = 1.8
	defaultObjectSize = 1024

	centerFocusLift   = 0.25
	selectedFocusLift = 0.35
)

// sceneImpl is the implementation of the Scene interface.
type sceneImpl struct {
	mu *sync.Mutex

	device renderer.Device
	shaders fs.FS
	workers int

	seed          int64
	rainDrops     int
	bloomPasses   int
	exposure      float32
	bloomStrength float32
	boardHeight   float32

	interactive      bool
	mouseSensitivity float32
	zoomSpeed        float32
	invertY          bool

	board board.Board
	state *board.GameState

	camera     camera.Camera
	controller camera.CameraController
	lighting   *light.SceneLighting
	fog        light.Fog
	shadows    light.ShadowMapper
	sky        skybox.Skybox
	post       postprocess.PostProcessingPipeline
	picker     picking.Picker
	world      *World
	mesh       *MeshBundle

	sceneUniforms *shader.UniformBlock
	objects       *shader.UniformBlock
	frameGroup    bind_group_provider.BindGroupProvider
	objectGroup   bind_group_provider.BindGroupProvider
	capacity      int

	elapsed    float32
	motionBlur float32
	visible    int
	cursorX    float64
	cursorY    float64
}

// Scene owns every GPU resource of the renderer and the game it shows.
//
// Update advances time-based state and Render records the shadow pass, the scene pass, bloom and the
// composite in that order. Input handlers translate pointer and key events into camera and board changes.
type Scene interface {
	// Update advances the camera, pulsing neon, motion blur decay and rain by dt seconds.
	Update(dt float32)

	// Render records one frame. The device must be inside a frame.
	//
	// Returns:
	//   - error: the first pass or draw failure
	Render() error

	// Resize rebuilds the size-dependent targets and re-aims picking.
	//
	// Parameters:
	//   - width, height: the new framebuffer size, each clamped to at least one
	//
	// Returns:
	//   - error: an error if the targets cannot be rebuilt
	Resize(width, height int) error

	// HandleMouseButton reacts to a button press or release at framebuffer position (x, y).
	// A left press picks a square and clicks it; the right button drags the camera when interactive.
	HandleMouseButton(button int, pressed bool, x, y float64)

	// HandleMouseMove tracks the pointer and orbits the camera while right-dragging.
	HandleMouseMove(x, y float64)

	// HandleScroll zooms the camera when interactive.
	HandleScroll(dy float64)

	// HandleKey reacts to a key press: R resets the game and Space plays the first legal move.
	HandleKey(key int)

	// ClickSquare feeds a square to the game state and applies the result to the camera, lights and pieces.
	//
	// Returns:
	//   - board.Update: what changed
	//   - error: board.ErrGameOver or board.ErrIllegalMove
	ClickSquare(sq board.Square) (board.Update, error)

	// Reset restores the starting position.
	Reset()

	// PlayFirstLegal plays the first legal move in UCI order.
	PlayFirstLegal() (board.Update, error)

	Camera() camera.Camera
	Controller() camera.CameraController
	GameState() *board.GameState
	World() *World
	Lighting() *light.SceneLighting
	PostProcessing() postprocess.PostProcessingPipeline
	Picker() picking.Picker

	// Elapsed returns the scene time in seconds.
	Elapsed() float32

	// MotionBlur returns the current motion blur level in [0, 1].
	MotionBlur() float32

	// Visible returns the number of objects drawn by the last Render after frustum culling.
	Visible() int

	// StatusText describes the side to move or the result.
	StatusText() string

	// ScoreText summarizes material and captures.
	ScoreText() string

	// Release frees every GPU resource the scene created.
	Release()
}

var _ Scene = &sceneImpl{}

// NewScene registers the pipelines, builds the city and creates every GPU resource of the renderer.
//
// Parameters:
//   - dev: the device to render with
//   - options: variadic list of SceneBuilderOption functions
//
// Returns:
//   - Scene: the scene
//   - error: an error if a shader, pipeline or resource cannot be created
func NewScene(dev renderer.Device, options ...SceneBuilderOption) (Scene, error) {
	s := &sceneImpl{
		mu:               &sync.Mutex{},
		device:           dev,
		shaders:          assets.Shaders(),
		workers:          4,
		seed:             DefaultSeed,
		rainDrops:        DefaultRainDrops,
		bloomPasses:      postprocess.DefaultBloomPasses,
		exposure:         1.08,
		bloomStrength:    1.24,
		boardHeight:      BoardHeight,
		mouseSensitivity: 0.25,
		zoomSpeed:        0.8,
		fog:              light.DefaultFog,
		capacity:         defaultObjectSize,
	}
	for _, opt := range options {
		opt(s)
	}

	if s.board == nil {
		b, err := board.NewChessBoard()
		if err != nil {
			return nil, fmt.Errorf("scene: %w", err)
		}
		s.board = b
	}
	s.state = board.NewGameState(s.board)

	if err := RegisterPipelines(dev, s.shaders, s.workers); err != nil {
		return nil, err
	}
	if err := s.init(); err != nil {
		s.Release()
		return nil, err
	}
	logx.Infof("scene ready: seed=%d objects=%d rain=%d", s.seed, len(s.world.Static())+64, len(s.world.Rain()))
	return s, nil
}

func (s *sceneImpl) init() error {
	var err error
	width, height := s.device.Size()

	s.camera = camera.NewCamera(s.centerFocus(), camera.WithInteractive(s.interactive))
	s.camera.SetTurnView(s.board.Turn() == board.White)
	s.controller = camera.NewCameraController(s.camera,
		camera.WithMouseSensitivity(s.mouseSensitivity),
		camera.WithZoomSpeed(s.zoomSpeed),
		camera.WithInvertY(s.invertY),
	)
	s.lighting = light.CyberpunkDefaults(s.boardHeight)
	s.lighting.ApplyTurnBias(s.board.Turn() == board.White)
	s.picker = picking.NewPicker(s.camera, s.boardHeight, width, height)

	if s.mesh, err = NewCubeMesh(s.device); err != nil {
		return err
	}
	if s.shadows, err = light.NewShadowMapper(s.device); err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	if s.sky, err = skybox.NewSkybox(s.device); err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	if s.post, err = postprocess.NewPostProcessingPipeline(s.device, width, height); err != nil {
		return fmt.Errorf("scene: %w", err)
	}

	p := s.device.Pipeline(ScenePipelineKey)
	frame, err := p.Uniforms().Require("scene")
	if err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	objects, err := p.Uniforms().Require("objects")
	if err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	s.sceneUniforms = shader.NewUniformBlock(frame, 0)
	s.objects = shader.NewUniformBlock(objects, s.capacity)

	s.frameGroup, err = s.device.CreateBindGroup(ScenePipelineKey, 0, renderer.BindGroupResources{
		Textures: map[int]*renderer.Target{1: s.shadows.Target(), 3: s.sky.Cubemap()},
		Samplers: map[int]renderer.SamplerStagingData{
			2: renderer.ShadowComparisonSampler,
			4: renderer.LinearClampSampler,
		},
	})
	if err != nil {
		return fmt.Errorf("scene: create frame bind group: %w", err)
	}
	if err := s.createObjectGroup(); err != nil {
		return err
	}

	s.world = NewWorld(s.seed, s.boardHeight, s.rainDrops)
	s.world.RebuildPieces(s.board, board.NoSquare)
	s.world.Pulse(0)
	return nil
}

// createObjectGroup (re)allocates the object storage buffer for the current capacity.
func (s *sceneImpl) createObjectGroup() error {
	if s.objectGroup != nil {
		s.objectGroup.Release()
	}
	stride := s.objects.Binding().Size
	g, err := s.device.CreateBindGroup(ScenePipelineKey, 1, renderer.BindGroupResources{
		BufferSizes: map[int]uint64{0: stride * uint64(s.capacity)},
	})
	if err != nil {
		s.objectGroup = nil
		return fmt.Errorf("scene: create object bind group: %w", err)
	}
	s.objectGroup = g
	return nil
}

func (s *sceneImpl) centerFocus() mgl32.Vec3 {
	return mgl32.Vec3{0, s.boardHeight + centerFocusLift, 0}
}

func (s *sceneImpl) Update(dt float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elapsed += dt
	s.camera.Update(dt)
	s.motionBlur = max(0, s.motionBlur-dt*motionBlurDecay)
	s.world.Pulse(s.elapsed)
	s.world.StepRain(dt)
}

func (s *sceneImpl) Render() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	width, height := s.post.Size()
	aspect := float32(width) / float32(height)
	view := s.camera.View()
	projection := s.camera.Projection(aspect)

	if err := s.renderShadows(); err != nil {
		return err
	}
	if err := s.renderScene(view, projection); err != nil {
		return err
	}
	if err := s.post.ApplyBloom(s.bloomPasses); err != nil {
		return fmt.Errorf("scene: %w", err)
	}

	if err := s.post.Composite(s.compositeParams()); err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	return nil
}

// compositeParams derives the lens settings from the camera distance and speed.
func (s *sceneImpl) compositeParams() postprocess.CompositeParams {
	focusDepth := common.Clamp((s.camera.Current().Distance-8)/28, 0.25, 0.85)
	return postprocess.CompositeParams{
		Exposure:      s.exposure,
		BloomStrength: s.bloomStrength,
		Time:          s.elapsed,
		CameraSpeed:   common.Clamp(s.camera.Velocity()*0.06, 0, 1),
		FocusDepth:    focusDepth,
		DofStrength:   common.Clamp(0.32+(1-focusDepth)*0.5, 0.2, 0.78),
		MotionBlur:    s.motionBlur,
	}
}

func (s *sceneImpl) renderShadows() error {
	s.shadows.UpdateLightMatrix(s.lighting.Directional.Direction(), mgl32.Vec3{0, s.boardHeight, 0})
	if err := s.shadows.Begin(); err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	defer s.shadows.End()
	if err := s.shadows.Draw(s.mesh.Shadow, s.world.ShadowCasters()); err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	return nil
}

func (s *sceneImpl) renderScene(view, projection mgl32.Mat4) error {
	if err := s.post.BeginScene(); err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	defer s.post.EndScene()

	if err := s.sky.Render(view, projection); err != nil {
		return fmt.Errorf("scene: %w", err)
	}

	s.sceneUniforms.SetMat4("view", view)
	s.sceneUniforms.SetMat4("projection", projection)
	s.sceneUniforms.SetMat4("lightSpace", s.shadows.LightSpace())
	s.sceneUniforms.SetVec3("viewPos", s.camera.Eye())
	s.sceneUniforms.SetFloat("time", s.elapsed)
	s.lighting.Upload(s.sceneUniforms)
	s.fog.Upload(s.sceneUniforms)

	frustum := common.ExtractFrustum(projection.Mul4(view))
	items := s.world.DrawList(s.state.Selected(), s.state.IsLegalTarget)
	visible := make([]DrawItem, 0, len(items))
	for _, it := range items {
		if frustum.ContainsSphere(it.Center, it.Radius) {
			visible = append(visible, it)
		}
	}
	s.visible = len(visible)

	if len(visible) > s.capacity {
		s.capacity = max(len(visible), s.capacity*2)
		s.objects.Resize(s.capacity)
		if err := s.createObjectGroup(); err != nil {
			return err
		}
	}
	for i, it := range visible {
		obj := s.objects.Element(i)
		obj.SetMat4("model", it.Model)
		it.Material.Upload(obj)
	}

	writes := []bind_group_provider.BufferWrite{
		{Provider: s.frameGroup, Binding: s.sceneUniforms.Binding().Binding, Data: s.sceneUniforms.Bytes()},
	}
	if len(visible) == 0 {
		s.device.WriteBuffers(writes)
		return nil
	}
	stride := s.objects.Binding().Size
	writes = append(writes, bind_group_provider.BufferWrite{
		Provider: s.objectGroup,
		Binding:  s.objects.Binding().Binding,
		Data:     s.objects.Bytes()[:stride*uint64(len(visible))],
	})
	s.device.WriteBuffers(writes)

	err := s.device.Draw(renderer.DrawCommand{
		Pipeline:      ScenePipelineKey,
		Mesh:          s.mesh.Scene,
		InstanceCount: uint32(len(visible)),
		BindGroups:    []bind_group_provider.BindGroupProvider{s.frameGroup, s.objectGroup},
	})
	if err != nil {
		return fmt.Errorf("scene: draw objects: %w", err)
	}
	return nil
}

func (s *sceneImpl) Resize(width, height int) error {
	width, height = max(width, 1), max(height, 1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.post.Resize(width, height); err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	s.device.SetViewport(renderer.FullViewport(width, height))
	s.picker.Resize(width, height)
	return nil
}

func (s *sceneImpl) HandleMouseButton(button int, pressed bool, x, y float64) {
	switch button {
	case common.MouseRight:
		if pressed {
			s.controller.BeginDrag(x, y)
		} else {
			s.controller.EndDrag()
		}
	case common.MouseLeft:
		if !pressed {
			return
		}
		sq, ok := s.picker.Pick(float32(x), float32(y))
		if !ok {
			return
		}
		if _, err := s.ClickSquare(sq); err != nil {
			logx.Debugf("click %s: %v", sq, err)
		}
	}
}

func (s *sceneImpl) HandleMouseMove(x, y float64) {
	s.mu.Lock()
	s.cursorX, s.cursorY = x, y
	s.mu.Unlock()
	s.controller.Move(x, y)
}

func (s *sceneImpl) HandleScroll(dy float64) {
	s.controller.Scroll(dy)
}

func (s *sceneImpl) HandleKey(key int) {
	switch key {
	case common.KeyR:
		s.Reset()
	case common.KeySpace:
		if _, err := s.PlayFirstLegal(); err != nil {
			logx.Debugf("autoplay: %v", err)
		}
	}
}

func (s *sceneImpl) ClickSquare(sq board.Square) (board.Update, error) {
	u, err := s.state.Click(sq)
	s.apply(u)
	if err != nil && !errors.Is(err, board.ErrIllegalMove) && !errors.Is(err, board.ErrGameOver) {
		logx.Warnf("click %s: %v", sq, err)
	}
	return u, err
}

func (s *sceneImpl) Reset() {
	s.apply(s.state.Reset())
	logx.Info("board reset")
}

func (s *sceneImpl) PlayFirstLegal() (board.Update, error) {
	u, err := s.state.PlayFirstLegal()
	s.apply(u)
	return u, err
}

// apply carries a game state transition into the camera, the lights and the piece geometry.
func (s *sceneImpl) apply(u board.Update) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.BoardChanged || u.SelectionChanged {
		s.world.RebuildPieces(s.board, s.state.Selected())
		if u.Focus.Valid() {
			x, z := picking.SquareCenter(u.Focus)
			s.camera.FocusOn(mgl32.Vec3{x, s.boardHeight + selectedFocusLift, z})
		} else {
			s.camera.FocusOn(s.centerFocus())
		}
	}
	if u.RefreshTurnPose {
		whiteToMove := s.board.Turn() == board.White
		s.camera.SetTurnView(whiteToMove)
		s.lighting.ApplyTurnBias(whiteToMove)
	}
	if u.Captured {
		s.camera.AddCaptureShake(CaptureShake)
	}
	if u.Moved {
		s.motionBlur = max(s.motionBlur, MoveMotionBlur)
		logx.Infof("%s | %s", board.StatusText(s.board), board.ScoreText(s.board))
	}
}

func (s *sceneImpl) Camera() camera.Camera {
	return s.camera
}

func (s *sceneImpl) Controller() camera.CameraController {
	return s.controller
}

func (s *sceneImpl) GameState() *board.GameState {
	return s.state
}

func (s *sceneImpl) World() *World {
	return s.world
}

func (s *sceneImpl) Lighting() *light.SceneLighting {
	return s.lighting
}

func (s *sceneImpl) PostProcessing() postprocess.PostProcessingPipeline {
	return s.post
}

func (s *sceneImpl) Picker() picking.Picker {
	return s.picker
}

func (s *sceneImpl) Elapsed() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed
}

func (s *sceneImpl) MotionBlur() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.motionBlur
}

func (s *sceneImpl) Visible() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

func (s *sceneImpl) StatusText() string {
	return board.StatusText(s.board)
}

func (s *sceneImpl) ScoreText() string {
	return board.ScoreText(s.board)
}

func (s *sceneImpl) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.objectGroup != nil {
		s.objectGroup.Release()
		s.objectGroup = nil
	}
	if s.frameGroup != nil {
		s.frameGroup.Release()
		s.frameGroup = nil
	}
	if s.post != nil {
		s.post.Release()
	}
	if s.sky != nil {
		s.sky.Release()
	}
	if s.shadows != nil {
		s.shadows.Release()
	}
	s.mesh.Release()
}
