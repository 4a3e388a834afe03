package renderer

import (
	"github.com/Carmen-Shannon/neon-chess/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
)

// Viewport is a pixel rectangle of the current attachment.
type Viewport struct {
	X, Y          float32
	Width, Height float32
}

// FullViewport covers a width x height attachment.
func FullViewport(width, height int) Viewport {
	return Viewport{Width: float32(max(width, 1)), Height: float32(max(height, 1))}
}

// PassDescriptor describes one render pass.
type PassDescriptor struct {
	Label string

	// Surface renders into the swapchain image as color attachment 0, ahead of Color.
	Surface bool
	Color   []*Target
	Depth   *Target

	ClearColor wgpu.Color
	ClearDepth float32
}

// DrawCommand is one draw within a pass.
//
// A Mesh with an index buffer draws indexed. A Mesh without one draws its vertex count.
// A nil Mesh draws VertexCount vertices with no vertex buffers bound, as fullscreen passes do.
type DrawCommand struct {
	Pipeline      string
	Mesh          bind_group_provider.BindGroupProvider
	VertexCount   uint32
	InstanceCount uint32
	FirstInstance uint32

	// BindGroups are bound in slice order to groups 0..n-1.
	BindGroups []bind_group_provider.BindGroupProvider
}

// Instances returns the instance count, treating zero as one.
func (c DrawCommand) Instances() uint32 {
	return max(c.InstanceCount, 1)
}

// BindGroupResources supplies what CreateBindGroup cannot allocate itself.
type BindGroupResources struct {
	// Textures maps texture binding indices to targets. Views stay owned by the target.
	Textures map[int]*Target

	// Samplers maps sampler binding indices to descriptions. Missing entries use LinearClampSampler.
	Samplers map[int]SamplerStagingData

	// BufferSizes overrides reflected buffer sizes, required for runtime-sized arrays.
	BufferSizes map[int]uint64
}
