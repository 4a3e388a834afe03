// Package postprocess owns the offscreen scene target, the ping-pong bloom blur and the final composite to the swapchain.
package postprocess

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/neon-chess/engine/renderer"
	"github.com/Carmen-Shannon/neon-chess/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/neon-chess/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/neon-chess/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	BlurPipelineKey      = "bloom_blur"
	CompositePipelineKey = "composite"
)

// HDRFormat is the format of every intermediate color target.
const HDRFormat = wgpu.TextureFormatRGBA16Float

// SceneColorFormats are the attachments of the scene pass: lit color at 0, bright extract at 1.
var SceneColorFormats = []wgpu.TextureFormat{HDRFormat, HDRFormat}

// SceneDepthFormat is the depth attachment of the scene pass.
const SceneDepthFormat = wgpu.TextureFormatDepth32Float

// DefaultClearColor is the background of the scene target where nothing is drawn.
var DefaultClearColor = wgpu.Color{R: 0.01, G: 0.015, B: 0.03, A: 1}

// DefaultBloomPasses is the number of alternating blur passes per frame.
const DefaultBloomPasses = 10

// CompositeParams are the per-frame inputs of the final composite.
type CompositeParams struct {
	Exposure      float32
	BloomStrength float32
	Time          float32
	CameraSpeed   float32
	FocusDepth    float32
	DofStrength   float32
	MotionBlur    float32
}

// NewBlurPipeline describes the separable gaussian pass over one HDR target.
func NewBlurPipeline(vs, fs shader.Shader) pipeline.Pipeline {
	return pipeline.NewPipeline(BlurPipelineKey,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithColorTargets(HDRFormat),
		pipeline.WithDepthFormat(wgpu.TextureFormatUndefined),
		pipeline.WithDepthTestEnabled(false),
		pipeline.WithDepthWriteEnabled(false),
		pipeline.WithBlendEnabled(false),
	)
}

// NewCompositePipeline describes the tonemapping pass into the swapchain.
func NewCompositePipeline(vs, fs shader.Shader) pipeline.Pipeline {
	return pipeline.NewPipeline(CompositePipelineKey,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithColorTargets(pipeline.SurfaceFormat),
		pipeline.WithDepthFormat(wgpu.TextureFormatUndefined),
		pipeline.WithDepthTestEnabled(false),
		pipeline.WithDepthWriteEnabled(false),
		pipeline.WithBlendEnabled(false),
	)
}

// passGroup is a bind group with its own uniform staging block.
type passGroup struct {
	provider bind_group_provider.BindGroupProvider
	params   *shader.UniformBlock
}

// postProcessingImpl is the implementation of the PostProcessingPipeline interface.
type postProcessingImpl struct {
	mu *sync.Mutex

	device        renderer.Device
	width, height int
	clearColor    wgpu.Color

	sceneColor  *renderer.Target
	sceneBright *renderer.Target
	sceneDepth  *renderer.Target
	pingpong    [2]*renderer.Target
	bloom       *renderer.Target

	blurBinding      *shader.UniformBinding
	compositeBinding *shader.UniformBinding

	// first reads the bright target horizontally, horizontal reads pingpong[1], vertical reads pingpong[0]
	blurFirst      passGroup
	blurHorizontal passGroup
	blurVertical   passGroup

	// composite[i] samples pingpong[i] as bloom
	composite [2]passGroup

	sceneOpen bool
}

// PostProcessingPipeline renders the scene offscreen into HDR targets, blurs the bright extract with
// alternating horizontal and vertical passes, and composites both onto the swapchain.
//
// Every target follows the framebuffer size and is rebuilt together on Resize.
type PostProcessingPipeline interface {
	// Resize rebuilds every target and texture bind group at width x height, each clamped to at least one.
	Resize(width, height int) error

	// Size returns the current target size.
	Size() (width, height int)

	// BeginScene opens the scene pass on the color, bright and depth targets, cleared to the clear color and depth 1.
	BeginScene() error

	// EndScene closes the scene pass.
	EndScene()

	// ApplyBloom runs passes blur passes, at least one, starting horizontal from the bright target.
	ApplyBloom(passes int) error

	// BloomTexture returns the target the last blur pass wrote.
	BloomTexture() *renderer.Target

	// Composite tonemaps scene color plus bloom into the swapchain.
	Composite(params CompositeParams) error

	SceneColor() *renderer.Target
	SceneBright() *renderer.Target
	SceneDepth() *renderer.Target

	// PingPong returns blur target i, 0 or 1.
	PingPong(i int) *renderer.Target

	// Release frees every target and bind group.
	Release()
}

var _ PostProcessingPipeline = &postProcessingImpl{}

// NewPostProcessingPipeline creates the targets at width x height. The blur and composite pipelines must
// already be registered with dev.
//
// Parameters:
//   - dev: the device to render with
//   - width, height: the framebuffer size
//   - options: variadic list of PostProcessingBuilderOption functions
//
// Returns:
//   - PostProcessingPipeline: the pipeline
//   - error: an error if a pipeline is missing or a target cannot be created
func NewPostProcessingPipeline(dev renderer.Device, width, height int, options ...PostProcessingBuilderOption) (PostProcessingPipeline, error) {
	p := &postProcessingImpl{
		mu:         &sync.Mutex{},
		device:     dev,
		clearColor: DefaultClearColor,
	}
	for _, opt := range options {
		opt(p)
	}

	blur := dev.Pipeline(BlurPipelineKey)
	if blur == nil {
		return nil, fmt.Errorf("postprocess: pipeline %q not registered", BlurPipelineKey)
	}
	comp := dev.Pipeline(CompositePipelineKey)
	if comp == nil {
		return nil, fmt.Errorf("postprocess: pipeline %q not registered", CompositePipelineKey)
	}
	var err error
	if p.blurBinding, err = blur.Uniforms().Require("blur"); err != nil {
		return nil, fmt.Errorf("postprocess: %w", err)
	}
	if p.compositeBinding, err = comp.Uniforms().Require("params"); err != nil {
		return nil, fmt.Errorf("postprocess: %w", err)
	}

	if err := p.Resize(width, height); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *postProcessingImpl) Resize(width, height int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.release()
	p.width, p.height = max(width, 1), max(height, 1)

	var err error
	target := func(label string, format wgpu.TextureFormat) *renderer.Target {
		if err != nil {
			return nil
		}
		var t *renderer.Target
		t, err = p.device.CreateTarget(renderer.TargetDescriptor{Label: label, Width: p.width, Height: p.height, Format: format})
		return t
	}
	p.sceneColor = target("scene_color", HDRFormat)
	p.sceneBright = target("scene_bright", HDRFormat)
	p.sceneDepth = target("scene_depth", SceneDepthFormat)
	p.pingpong[0] = target("bloom_pingpong_0", HDRFormat)
	p.pingpong[1] = target("bloom_pingpong_1", HDRFormat)
	if err != nil {
		p.release()
		return fmt.Errorf("postprocess: %w", err)
	}
	p.bloom = p.pingpong[0]

	texel := mgl32.Vec2{1 / float32(p.width), 1 / float32(p.height)}
	horizontal, vertical := mgl32.Vec2{1, 0}, mgl32.Vec2{0, 1}
	if p.blurFirst, err = p.newBlurGroup(p.sceneBright, horizontal, texel); err == nil {
		if p.blurHorizontal, err = p.newBlurGroup(p.pingpong[1], horizontal, texel); err == nil {
			p.blurVertical, err = p.newBlurGroup(p.pingpong[0], vertical, texel)
		}
	}
	for i := 0; err == nil && i < 2; i++ {
		p.composite[i], err = p.newCompositeGroup(p.pingpong[i])
	}
	if err != nil {
		p.release()
		return err
	}
	return nil
}

func (p *postProcessingImpl) newBlurGroup(source *renderer.Target, direction, texel mgl32.Vec2) (passGroup, error) {
	provider, err := p.device.CreateBindGroup(BlurPipelineKey, 0, renderer.BindGroupResources{
		Textures: map[int]*renderer.Target{1: source},
		Samplers: map[int]renderer.SamplerStagingData{2: renderer.LinearClampSampler},
	})
	if err != nil {
		return passGroup{}, fmt.Errorf("postprocess: blur bind group for %s: %w", source.Label(), err)
	}
	params := shader.NewUniformBlock(p.blurBinding, 0)
	params.SetVec2("direction", direction)
	params.SetVec2("texel", texel)
	p.device.WriteBuffers([]bind_group_provider.BufferWrite{{Provider: provider, Binding: p.blurBinding.Binding, Data: params.Bytes()}})
	return passGroup{provider: provider, params: params}, nil
}

func (p *postProcessingImpl) newCompositeGroup(bloom *renderer.Target) (passGroup, error) {
	provider, err := p.device.CreateBindGroup(CompositePipelineKey, 0, renderer.BindGroupResources{
		Textures: map[int]*renderer.Target{1: p.sceneColor, 2: bloom, 3: p.sceneDepth},
		Samplers: map[int]renderer.SamplerStagingData{4: renderer.LinearClampSampler},
	})
	if err != nil {
		return passGroup{}, fmt.Errorf("postprocess: composite bind group for %s: %w", bloom.Label(), err)
	}
	return passGroup{provider: provider, params: shader.NewUniformBlock(p.compositeBinding, 0)}, nil
}

func (p *postProcessingImpl) Size() (int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.width, p.height
}

func (p *postProcessingImpl) BeginScene() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sceneOpen {
		return fmt.Errorf("postprocess: scene pass already open")
	}
	p.device.SetViewport(renderer.FullViewport(p.width, p.height))
	err := p.device.BeginPass(renderer.PassDescriptor{
		Label:      "scene",
		Color:      []*renderer.Target{p.sceneColor, p.sceneBright},
		Depth:      p.sceneDepth,
		ClearColor: p.clearColor,
		ClearDepth: 1,
	})
	if err != nil {
		return fmt.Errorf("postprocess: begin scene: %w", err)
	}
	p.sceneOpen = true
	return nil
}

func (p *postProcessingImpl) EndScene() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.sceneOpen {
		return
	}
	p.device.EndPass()
	p.sceneOpen = false
}

func (p *postProcessingImpl) ApplyBloom(passes int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	passes = max(passes, 1)
	p.device.SetViewport(renderer.FullViewport(p.width, p.height))

	horizontal := true
	for i := 0; i < passes; i++ {
		dst, label, group := p.pingpong[1], "bloom_v", p.blurVertical
		if horizontal {
			dst, label, group = p.pingpong[0], "bloom_h", p.blurHorizontal
			if i == 0 {
				group = p.blurFirst
			}
		}
		if err := p.blurPass(label, dst, group); err != nil {
			return err
		}
		horizontal = !horizontal
	}
	if horizontal {
		p.bloom = p.pingpong[1]
	} else {
		p.bloom = p.pingpong[0]
	}
	return nil
}

func (p *postProcessingImpl) blurPass(label string, dst *renderer.Target, group passGroup) error {
	err := p.device.BeginPass(renderer.PassDescriptor{
		Label:      label,
		Color:      []*renderer.Target{dst},
		ClearColor: wgpu.Color{A: 1},
	})
	if err != nil {
		return fmt.Errorf("postprocess: %s: %w", label, err)
	}
	defer p.device.EndPass()
	return p.device.Draw(renderer.DrawCommand{
		Pipeline:    BlurPipelineKey,
		VertexCount: 3,
		BindGroups:  []bind_group_provider.BindGroupProvider{group.provider},
	})
}

func (p *postProcessingImpl) BloomTexture() *renderer.Target {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bloom
}

func (p *postProcessingImpl) Composite(params CompositeParams) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	group := p.composite[0]
	if p.bloom == p.pingpong[1] {
		group = p.composite[1]
	}
	u := group.params
	u.SetFloat("exposure", params.Exposure)
	u.SetFloat("bloomStrength", params.BloomStrength)
	u.SetFloat("time", params.Time)
	u.SetFloat("cameraSpeed", params.CameraSpeed)
	u.SetFloat("focusDepth", params.FocusDepth)
	u.SetFloat("dofStrength", params.DofStrength)
	u.SetFloat("motionBlur", params.MotionBlur)
	u.SetVec2("resolution", mgl32.Vec2{float32(p.width), float32(p.height)})
	p.device.WriteBuffers([]bind_group_provider.BufferWrite{{Provider: group.provider, Binding: p.compositeBinding.Binding, Data: u.Bytes()}})

	p.device.SetViewport(renderer.FullViewport(p.width, p.height))
	err := p.device.BeginPass(renderer.PassDescriptor{
		Label:      "composite",
		Surface:    true,
		ClearColor: wgpu.Color{A: 1},
	})
	if err != nil {
		return fmt.Errorf("postprocess: composite: %w", err)
	}
	defer p.device.EndPass()
	return p.device.Draw(renderer.DrawCommand{
		Pipeline:    CompositePipelineKey,
		VertexCount: 3,
		BindGroups:  []bind_group_provider.BindGroupProvider{group.provider},
	})
}

func (p *postProcessingImpl) SceneColor() *renderer.Target {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sceneColor
}

func (p *postProcessingImpl) SceneBright() *renderer.Target {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sceneBright
}

func (p *postProcessingImpl) SceneDepth() *renderer.Target {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sceneDepth
}

func (p *postProcessingImpl) PingPong(i int) *renderer.Target {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i < 0 || i > 1 {
		return nil
	}
	return p.pingpong[i]
}

func (p *postProcessingImpl) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.release()
}

// release frees targets and groups. Caller holds mu.
func (p *postProcessingImpl) release() {
	for _, g := range []*passGroup{&p.blurFirst, &p.blurHorizontal, &p.blurVertical, &p.composite[0], &p.composite[1]} {
		if g.provider != nil {
			g.provider.Release()
		}
		*g = passGroup{}
	}
	for _, t := range []**renderer.Target{&p.sceneColor, &p.sceneBright, &p.sceneDepth, &p.pingpong[0], &p.pingpong[1]} {
		(*t).Release()
		*t = nil
	}
	p.bloom = nil
}
