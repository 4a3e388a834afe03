package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/neon-chess/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/neon-chess/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/neon-chess/engine/window"
)

// Device is the GPU surface every render pass is written against.
// The WebGPU Renderer implements it, and devicetest provides a recording fake.
type Device interface {
	// Size returns the framebuffer size in pixels, each dimension at least one.
	Size() (width, height int)

	// RegisterPipelines creates GPU pipelines for the given descriptions. Keys already registered are skipped.
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// Pipeline returns the registered pipeline for key, or nil.
	Pipeline(key string) pipeline.Pipeline

	// CreateTarget allocates a 2D render target, clamping both dimensions to at least one.
	CreateTarget(desc TargetDescriptor) (*Target, error)

	// CreateCubeTarget uploads six square RGBA8 faces in +X, -X, +Y, -Y, +Z, -Z order as a cubemap.
	CreateCubeTarget(label string, size int, faces [6][]byte) (*Target, error)

	// CreateBindGroup builds group for the pipeline's merged layout, allocating its buffers and samplers.
	CreateBindGroup(pipelineKey string, group int, res BindGroupResources) (bind_group_provider.BindGroupProvider, error)

	// CreateMesh uploads vertex bytes and optional 32-bit indices.
	CreateMesh(label string, vertices []byte, vertexCount int, indices []uint32) (bind_group_provider.BindGroupProvider, error)

	// WriteBuffers queues uploads into bind group buffers.
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// Viewport returns the viewport applied to the next pass.
	Viewport() Viewport

	// SetViewport replaces the viewport, applying it to the open pass if any.
	SetViewport(v Viewport)

	BeginPass(desc PassDescriptor) error
	Draw(cmd DrawCommand) error
	EndPass()
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	width, height int
	viewport      Viewport
	inPass        bool

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
}

// Renderer is the frame-level API over a GPU backend: a Device plus the frame boundaries and surface management.
//
// A frame is BeginFrame, any number of passes, EndFrame, then Present.
type Renderer interface {
	Device

	// Pipelines returns the pipeline cache.
	Pipelines() map[string]pipeline.Pipeline

	// BeginFrame acquires the next swapchain image and opens the frame's command encoder.
	BeginFrame() error

	// EndFrame submits every pass recorded since BeginFrame.
	EndFrame() error

	// Present displays the submitted frame.
	Present()

	// Resize reconfigures the surface and resets the viewport to cover it.
	Resize(width, height int)

	SetPresentMode(mode PresentMode)

	// Release frees the surface and device.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer for the given window using the specified backend type.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - win: the window providing the surface descriptor and initial framebuffer size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the configured renderer
//   - error: an error if no adapter or device could be acquired
func NewRenderer(backendType RendererBackendType, win window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
	}

	// options first so forceFallbackAdapter is known before the adapter request
	for _, opt := range options {
		opt(r)
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		b, err := newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter)
		if err != nil {
			return nil, fmt.Errorf("renderer: %w", err)
		}
		r.backend = b
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	r.Resize(win.Width(), win.Height())
	return r, nil
}

func (r *renderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *renderer) Resize(width, height int) {
	width, height = max(width, 1), max(height, 1)
	r.backend.ConfigureSurface(width, height)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.width, r.height = width, height
	r.viewport = FullViewport(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) Pipelines() map[string]pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return fmt.Errorf("register pipeline %q: %w", key, err)
		}
		r.pipelineCache[key] = p
	}
	return nil
}

func (r *renderer) resolve(key string) (pipeline.Pipeline, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pipelineCache[key]
	if !ok {
		return nil, fmt.Errorf("pipeline %q not registered", key)
	}
	return p, nil
}

func (r *renderer) CreateTarget(desc TargetDescriptor) (*Target, error) {
	return r.backend.CreateTarget(desc.Clamped())
}

func (r *renderer) CreateCubeTarget(label string, size int, faces [6][]byte) (*Target, error) {
	return r.backend.CreateCubeTarget(label, max(size, 1), faces)
}

func (r *renderer) CreateBindGroup(pipelineKey string, group int, res BindGroupResources) (bind_group_provider.BindGroupProvider, error) {
	p, err := r.resolve(pipelineKey)
	if err != nil {
		return nil, err
	}
	return r.backend.CreateBindGroup(p, group, res)
}

func (r *renderer) CreateMesh(label string, vertices []byte, vertexCount int, indices []uint32) (bind_group_provider.BindGroupProvider, error) {
	return r.backend.CreateMesh(label, vertices, vertexCount, indices)
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.backend.WriteBuffers(writes)
}

func (r *renderer) Viewport() Viewport {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.viewport
}

func (r *renderer) SetViewport(v Viewport) {
	r.mu.Lock()
	r.viewport = v
	inPass := r.inPass
	r.mu.Unlock()
	if inPass {
		r.backend.SetViewport(v)
	}
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) BeginPass(desc PassDescriptor) error {
	if err := r.backend.BeginPass(desc, r.Viewport()); err != nil {
		return err
	}
	r.mu.Lock()
	r.inPass = true
	r.mu.Unlock()
	return nil
}

func (r *renderer) Draw(cmd DrawCommand) error {
	p, err := r.resolve(cmd.Pipeline)
	if err != nil {
		return err
	}
	return r.backend.Draw(p, cmd)
}

func (r *renderer) EndPass() {
	r.backend.EndPass()
	r.mu.Lock()
	r.inPass = false
	r.mu.Unlock()
}

func (r *renderer) EndFrame() error {
	return r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pipelineCache = make(map[string]pipeline.Pipeline)
	r.backend.Release()
}
