// Package engine owns the frame loop: it opens the window, creates the renderer and scene,
// routes input into the scene, and drives update, render and present on the main thread.
package engine

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/neon-chess/config"
	"github.com/Carmen-Shannon/neon-chess/engine/profiler"
	"github.com/Carmen-Shannon/neon-chess/engine/renderer"
	"github.com/Carmen-Shannon/neon-chess/engine/scene"
	"github.com/Carmen-Shannon/neon-chess/engine/window"
	"github.com/Carmen-Shannon/neon-chess/logx"
)

// DefaultMaxFrameDelta caps the timestep handed to Update so a stall does not teleport the camera or rain.
const DefaultMaxFrameDelta float32 = 0.05

// presenter is the part of renderer.Renderer the frame loop drives.
type presenter interface {
	BeginFrame() error
	EndFrame() error
	Present()
	Resize(width, height int)
}

// engine implements the Engine interface.
type engine struct {
	mu *sync.Mutex

	window   window.Window
	frame    presenter
	scene    scene.Scene
	renderer renderer.Renderer

	profiler         *profiler.Profiler
	profilingEnabled bool
	profileInterval  time.Duration

	maxFrameDelta float32
	lastFrame     time.Time
	now           func() time.Time
	frames        uint64

	title      string
	lastStatus string

	// construction-only inputs collected from options
	sceneOptions    []scene.SceneBuilderOption
	windowOptions   []window.WindowBuilderOption
	forceSoftware   bool
	closeOnce       sync.Once
	windowFactory   func(...window.WindowBuilderOption) (window.Window, error)
	rendererFactory func(window.Window, ...renderer.RendererBuilderOption) (renderer.Renderer, error)
}

// Engine is the application shell around one Scene.
type Engine interface {
	// Run processes window messages and renders until the window closes, then releases every resource.
	// Must be called from the goroutine that created the Engine.
	Run()

	// Quit asks the loop to stop after the current frame.
	Quit()

	// Window returns the underlying window.
	Window() window.Window

	// Scene returns the renderer orchestrator.
	Scene() scene.Scene

	// Frames returns how many frames were rendered.
	Frames() uint64

	// Close releases the scene, renderer and window. Safe to call more than once.
	Close()
}

var _ Engine = &engine{}

// New opens the window, acquires the GPU device and builds the scene described by cfg.
// It locks the calling goroutine to its OS thread, as GLFW and the swapchain require.
//
// Parameters:
//   - cfg: the settings, typically from config.Load
//   - options: functional options
//
// Returns:
//   - Engine: the ready engine
//   - error: an error if the window, device, shaders or pipelines cannot be created
func New(cfg config.Config, options ...EngineBuilderOption) (Engine, error) {
	cfg = cfg.Normalized()
	e := newEngine(options...)
	e.title = cfg.Window.Title

	runtime.LockOSThread()

	winOpts := append([]window.WindowBuilderOption{
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
	}, e.windowOptions...)
	win, err := e.windowFactory(winOpts...)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	mode := renderer.PresentModeUncapped
	if cfg.Window.VSync {
		mode = renderer.PresentModeVSync
	}
	rend, err := e.rendererFactory(win,
		renderer.WithPresentMode(mode),
		renderer.WithForceSoftwareRenderer(e.forceSoftware),
	)
	if err != nil {
		_ = win.Close()
		return nil, fmt.Errorf("engine: %w", err)
	}

	sceneOpts := append([]scene.SceneBuilderOption{
		scene.WithSeed(cfg.Scene.Seed),
		scene.WithRainDrops(cfg.Scene.RainDrops),
		scene.WithBloomPasses(cfg.Scene.BloomPasses),
		scene.WithExposure(cfg.Scene.Exposure),
		scene.WithBloomStrength(cfg.Scene.BloomStrength),
		scene.WithInteractive(cfg.Camera.Interactive, cfg.Camera.MouseSensitivity, cfg.Camera.ZoomSpeed, cfg.Camera.InvertY),
		scene.WithWorkers(cfg.Workers),
	}, e.sceneOptions...)
	sc, err := scene.NewScene(rend, sceneOpts...)
	if err != nil {
		rend.Release()
		_ = win.Close()
		return nil, fmt.Errorf("engine: %w", err)
	}

	e.renderer = rend
	e.attach(win, rend, sc)
	logx.Infof("engine ready: %dx%d vsync=%t seed=%d", win.Width(), win.Height(), cfg.Window.VSync, cfg.Scene.Seed)
	return e, nil
}

// newEngine applies defaults and options.
func newEngine(options ...EngineBuilderOption) *engine {
	e := &engine{
		mu:              &sync.Mutex{},
		maxFrameDelta:   DefaultMaxFrameDelta,
		profileInterval: time.Second,
		now:             time.Now,
		windowFactory:   window.NewWindow,
		rendererFactory: func(win window.Window, opts ...renderer.RendererBuilderOption) (renderer.Renderer, error) {
			return renderer.NewRenderer(renderer.BackendTypeWGPU, win, opts...)
		},
	}
	for _, opt := range options {
		opt(e)
	}
	e.profiler = profiler.NewProfiler(e.profileInterval)
	return e
}

// attach stores the collaborators and routes window events into the scene.
func (e *engine) attach(win window.Window, frame presenter, sc scene.Scene) {
	e.window, e.frame, e.scene = win, frame, sc

	win.SetMouseButtonCallback(sc.HandleMouseButton)
	win.SetMouseMoveCallback(sc.HandleMouseMove)
	win.SetScrollCallback(sc.HandleScroll)
	win.SetKeyDownCallback(sc.HandleKey)
	win.SetResizeCallback(e.resize)
	win.SetUpdateCallback(e.step)

	e.refreshTitle()
}

func (e *engine) Run() {
	e.mu.Lock()
	e.lastFrame = e.now()
	e.mu.Unlock()

	e.window.ProcessMessages()
	logx.Infof("window closed after %d frames", e.Frames())
	e.Close()
}

func (e *engine) Quit() {
	e.window.RequestClose()
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Frames() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frames
}

func (e *engine) Close() {
	e.closeOnce.Do(func() {
		if e.scene != nil {
			e.scene.Release()
		}
		if e.renderer != nil {
			e.renderer.Release()
		}
		if e.window != nil {
			if err := e.window.Close(); err != nil {
				logx.Debugf("close window: %v", err)
			}
		}
		logx.Sync()
	})
}

// step is the per-iteration update callback of the window loop.
func (e *engine) step() {
	e.mu.Lock()
	now := e.now()
	dt := float32(now.Sub(e.lastFrame).Seconds())
	e.lastFrame = now
	e.mu.Unlock()

	e.tick(dt)
}

// tick advances the scene by dt, clamped to the maximum frame delta, and renders one frame.
// A frame whose swapchain image cannot be acquired is skipped; render errors are logged and the loop continues.
func (e *engine) tick(dt float32) {
	dt = max(0, min(dt, e.maxFrameDelta))
	e.scene.Update(dt)

	if err := e.frame.BeginFrame(); err != nil {
		logx.Debugf("skip frame: %v", err)
		return
	}
	if err := e.scene.Render(); err != nil {
		logx.Errorf("render: %v", err)
	}
	if err := e.frame.EndFrame(); err != nil {
		logx.Errorf("submit: %v", err)
	}
	e.frame.Present()

	e.mu.Lock()
	e.frames++
	e.mu.Unlock()

	if e.profilingEnabled {
		e.profiler.Tick()
	}
	e.refreshTitle()
}

func (e *engine) resize(width, height int) {
	width, height = max(width, 1), max(height, 1)
	e.frame.Resize(width, height)
	if err := e.scene.Resize(width, height); err != nil {
		logx.Errorf("resize %dx%d: %v", width, height, err)
	}
}

// refreshTitle shows the game status in the title bar whenever it changes.
func (e *engine) refreshTitle() {
	status := e.scene.StatusText()
	if status == e.lastStatus {
		return
	}
	e.lastStatus = status
	title := status
	if e.title != "" {
		title = e.title + " | " + status
	}
	e.window.SetTitle(title)
}
