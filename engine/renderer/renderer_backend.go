package renderer

import (
	"github.com/Carmen-Shannon/neon-chess/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/neon-chess/engine/renderer/pipeline"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately. May tear.
	PresentModeUncapped
)

// RendererBackend is the GPU API a Renderer drives. Pipelines arrive resolved; the Renderer owns the cache.
type RendererBackend interface {
	ConfigureSurface(width, height int)
	SetPresentMode(mode PresentMode)

	RegisterRenderPipeline(p pipeline.Pipeline) error
	CreateTarget(desc TargetDescriptor) (*Target, error)
	CreateCubeTarget(label string, size int, faces [6][]byte) (*Target, error)
	CreateBindGroup(p pipeline.Pipeline, group int, res BindGroupResources) (bind_group_provider.BindGroupProvider, error)
	CreateMesh(label string, vertices []byte, vertexCount int, indices []uint32) (bind_group_provider.BindGroupProvider, error)
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	BeginFrame() error
	BeginPass(desc PassDescriptor, viewport Viewport) error
	SetViewport(viewport Viewport)
	Draw(p pipeline.Pipeline, cmd DrawCommand) error
	EndPass()
	EndFrame() error
	Present()

	Release()
}
