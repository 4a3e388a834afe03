package light

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/neon-chess/common"
	"github.com/Carmen-Shannon/neon-chess/engine/renderer"
	"github.com/Carmen-Shannon/neon-chess/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/neon-chess/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/neon-chess/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// ShadowMapResolution is the width and height in texels of the shadow depth target.
const ShadowMapResolution = 2048

// ShadowPipelineKey is the pipeline the shadow pass draws with.
const ShadowPipelineKey = "shadow"

// The directional light is placed ShadowDistance units back from the focus along its direction and
// covers a square ShadowHalfExtent units on each side.
const (
	ShadowDistance   float32 = 28.0
	ShadowHalfExtent float32 = 20.0
	ShadowNear       float32 = 0.5
	ShadowFar        float32 = 90.0
)

// ShadowDepthBias is the constant and slope-scaled rasterizer bias of the shadow pipeline.
const (
	ShadowDepthBias      int32   = 2
	ShadowDepthBiasSlope float32 = 2.0
)

// defaultCasterCapacity sizes the caster buffer before the first draw.
const defaultCasterCapacity = 256

// NewShadowPipeline describes the depth-only pipeline the shadow pass draws casters with.
//
// Parameters:
//   - vs: the shadow vertex shader; it must declare the shadow and casters bindings
//
// Returns:
//   - pipeline.Pipeline: the pipeline description
func NewShadowPipeline(vs shader.Shader) pipeline.Pipeline {
	return pipeline.NewPipeline(ShadowPipelineKey,
		pipeline.WithVertexShader(vs),
		pipeline.WithColorTargets(),
		pipeline.WithDepthFormat(wgpu.TextureFormatDepth32Float),
		pipeline.WithDepthCompare(wgpu.CompareFunctionLessEqual),
		pipeline.WithDepthBias(ShadowDepthBias, ShadowDepthBiasSlope),
		pipeline.WithBlendEnabled(false),
	)
}

// LightSpaceMatrix returns the orthographic view-projection of a directional light aimed at focus.
// A direction shorter than 1e-6 falls back to straight down.
//
// Parameters:
//   - direction: the direction the light travels
//   - focus: the world point the shadow volume is centred on
//
// Returns:
//   - mgl32.Mat4: projection * view, with depth in [0, 1]
func LightSpaceMatrix(direction, focus mgl32.Vec3) mgl32.Mat4 {
	dir := common.Normalize(direction, downward)
	eye := focus.Sub(dir.Mul(ShadowDistance))
	view := common.LookAt(eye, focus)
	proj := common.Ortho(-ShadowHalfExtent, ShadowHalfExtent, -ShadowHalfExtent, ShadowHalfExtent, ShadowNear, ShadowFar)
	return proj.Mul4(view)
}

// shadowMapperImpl is the implementation of the ShadowMapper interface.
type shadowMapperImpl struct {
	mu *sync.Mutex

	device     renderer.Device
	resolution int
	target     *renderer.Target

	lightSpace mgl32.Mat4

	uniforms    *shader.UniformBlock
	casters     *shader.UniformBlock
	frameGroup  bind_group_provider.BindGroupProvider
	casterGroup bind_group_provider.BindGroupProvider
	capacity    int

	savedViewport renderer.Viewport
	open          bool
}

// ShadowMapper owns the shadow depth target and renders shadow casters into it from the directional light.
// Begin and End bracket the depth pass and restore the viewport that was active before Begin.
type ShadowMapper interface {
	// UpdateLightMatrix recomputes the light-space matrix for this frame.
	//
	// Parameters:
	//   - direction: the direction the light travels
	//   - focus: the world point the shadow volume is centred on
	UpdateLightMatrix(direction, focus mgl32.Vec3)

	// LightSpace returns the light-space matrix last computed by UpdateLightMatrix.
	LightSpace() mgl32.Mat4

	// Begin saves the device viewport and opens a depth-only pass on the shadow target cleared to 1.
	Begin() error

	// Draw renders every caster with one instanced draw of mesh.
	//
	// Parameters:
	//   - mesh: the position-only caster mesh
	//   - models: one model matrix per caster
	//
	// Returns:
	//   - error: an error if called outside Begin/End or the draw fails
	Draw(mesh bind_group_provider.BindGroupProvider, models []mgl32.Mat4) error

	// End closes the depth pass and restores the saved viewport.
	End()

	// Target returns the shadow depth target for sampling in the scene pass.
	Target() *renderer.Target

	// Resolution returns the width and height of the shadow target.
	Resolution() int

	// Release frees the shadow target and bind groups.
	Release()
}

var _ ShadowMapper = &shadowMapperImpl{}

// NewShadowMapper creates the shadow target and the bind groups of the shadow pipeline.
// The pipeline must already be registered with dev.
//
// Parameters:
//   - dev: the device to render with
//   - opts: functional options to configure the mapper
//
// Returns:
//   - ShadowMapper: the mapper
//   - error: an error if the target or bind groups cannot be created
func NewShadowMapper(dev renderer.Device, opts ...ShadowMapperBuilderOption) (ShadowMapper, error) {
	s := &shadowMapperImpl{
		mu:         &sync.Mutex{},
		device:     dev,
		resolution: ShadowMapResolution,
		lightSpace: mgl32.Ident4(),
		capacity:   defaultCasterCapacity,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.resolution = max(s.resolution, 1)

	p := dev.Pipeline(ShadowPipelineKey)
	if p == nil {
		return nil, fmt.Errorf("shadow: pipeline %q not registered", ShadowPipelineKey)
	}
	frame, err := p.Uniforms().Require("shadow")
	if err != nil {
		return nil, fmt.Errorf("shadow: %w", err)
	}
	casters, err := p.Uniforms().Require("casters")
	if err != nil {
		return nil, fmt.Errorf("shadow: %w", err)
	}
	s.uniforms = shader.NewUniformBlock(frame, 0)
	s.casters = shader.NewUniformBlock(casters, s.capacity)

	s.target, err = dev.CreateTarget(renderer.TargetDescriptor{
		Label:  "shadow_depth",
		Width:  s.resolution,
		Height: s.resolution,
		Format: wgpu.TextureFormatDepth32Float,
	})
	if err != nil {
		return nil, fmt.Errorf("shadow: create depth target: %w", err)
	}

	s.frameGroup, err = dev.CreateBindGroup(ShadowPipelineKey, 0, renderer.BindGroupResources{})
	if err != nil {
		s.target.Release()
		return nil, fmt.Errorf("shadow: create frame bind group: %w", err)
	}
	if err := s.createCasterGroup(); err != nil {
		s.Release()
		return nil, err
	}
	return s, nil
}

// createCasterGroup (re)allocates the caster storage buffer for the current capacity.
func (s *shadowMapperImpl) createCasterGroup() error {
	if s.casterGroup != nil {
		s.casterGroup.Release()
	}
	stride := s.casters.Binding().Size
	g, err := s.device.CreateBindGroup(ShadowPipelineKey, 1, renderer.BindGroupResources{
		BufferSizes: map[int]uint64{0: stride * uint64(s.capacity)},
	})
	if err != nil {
		s.casterGroup = nil
		return fmt.Errorf("shadow: create caster bind group: %w", err)
	}
	s.casterGroup = g
	return nil
}

func (s *shadowMapperImpl) UpdateLightMatrix(direction, focus mgl32.Vec3) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lightSpace = LightSpaceMatrix(direction, focus)
	s.uniforms.SetMat4("lightSpace", s.lightSpace)
}

func (s *shadowMapperImpl) LightSpace() mgl32.Mat4 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lightSpace
}

func (s *shadowMapperImpl) Begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.open {
		return fmt.Errorf("shadow: pass already open")
	}
	s.savedViewport = s.device.Viewport()
	s.device.SetViewport(renderer.FullViewport(s.resolution, s.resolution))
	err := s.device.BeginPass(renderer.PassDescriptor{
		Label:      "shadow",
		Depth:      s.target,
		ClearDepth: 1,
	})
	if err != nil {
		s.device.SetViewport(s.savedViewport)
		return fmt.Errorf("shadow: begin pass: %w", err)
	}
	s.open = true
	s.device.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: s.frameGroup, Binding: 0, Data: s.uniforms.Bytes()},
	})
	return nil
}

func (s *shadowMapperImpl) Draw(mesh bind_group_provider.BindGroupProvider, models []mgl32.Mat4) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return fmt.Errorf("shadow: draw outside of Begin/End")
	}
	if len(models) == 0 {
		return nil
	}
	if len(models) > s.capacity {
		s.capacity = max(len(models), s.capacity*2)
		s.casters.Resize(s.capacity)
		if err := s.createCasterGroup(); err != nil {
			return err
		}
	}
	for i, m := range models {
		s.casters.Element(i).SetMat4("model", m)
	}
	stride := s.casters.Binding().Size
	s.device.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: s.casterGroup, Binding: 0, Data: s.casters.Bytes()[:stride*uint64(len(models))]},
	})
	return s.device.Draw(renderer.DrawCommand{
		Pipeline:      ShadowPipelineKey,
		Mesh:          mesh,
		InstanceCount: uint32(len(models)),
		BindGroups:    []bind_group_provider.BindGroupProvider{s.frameGroup, s.casterGroup},
	})
}

func (s *shadowMapperImpl) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return
	}
	s.device.EndPass()
	s.device.SetViewport(s.savedViewport)
	s.open = false
}

func (s *shadowMapperImpl) Target() *renderer.Target {
	return s.target
}

func (s *shadowMapperImpl) Resolution() int {
	return s.resolution
}

func (s *shadowMapperImpl) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.casterGroup != nil {
		s.casterGroup.Release()
		s.casterGroup = nil
	}
	if s.frameGroup != nil {
		s.frameGroup.Release()
		s.frameGroup = nil
	}
	s.target.Release()
}
