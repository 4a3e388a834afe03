// Package skybox draws the procedural night-sky cubemap behind the scene.
package skybox

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/Carmen-Shannon/neon-chess/common"
	"github.com/Carmen-Shannon/neon-chess/engine/postprocess"
	"github.com/Carmen-Shannon/neon-chess/engine/renderer"
	"github.com/Carmen-Shannon/neon-chess/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/neon-chess/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/neon-chess/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/fogleman/gg"
	"github.com/go-gl/mathgl/mgl32"
)

// SkyboxPipelineKey is the pipeline the skybox draws with.
const SkyboxPipelineKey = "skybox"

// DefaultFaceSize is the edge length in texels of each cubemap face.
const DefaultFaceSize = 128

// Face gradients in +X, -X, +Y, -Y, +Z, -Z order, top row to bottom row.
var (
	DefaultTops = [6]color.RGBA{
		{16, 32, 68, 255}, {20, 42, 70, 255}, {24, 34, 78, 255},
		{12, 22, 50, 255}, {28, 36, 80, 255}, {18, 26, 60, 255},
	}
	DefaultBottoms = [6]color.RGBA{
		{2, 4, 10, 255}, {4, 8, 14, 255}, {5, 7, 15, 255},
		{1, 2, 8, 255}, {5, 6, 15, 255}, {3, 4, 12, 255},
	}
)

var cubeCorners = []float32{
	-1, -1, -1,
	1, -1, -1,
	1, 1, -1,
	-1, 1, -1,
	-1, -1, 1,
	1, -1, 1,
	1, 1, 1,
	-1, 1, 1,
}

var cubeIndices = []uint32{
	0, 1, 2, 0, 2, 3,
	5, 4, 7, 5, 7, 6,
	4, 0, 3, 4, 3, 7,
	1, 5, 6, 1, 6, 2,
	3, 2, 6, 3, 6, 7,
	4, 5, 1, 4, 1, 0,
}

// NewSkyboxPipeline describes the skybox pass. It draws into the scene targets at the far plane with depth compare
// LessEqual and no depth writes, so anything drawn later in the pass lands in front of it.
func NewSkyboxPipeline(vs, fs shader.Shader) pipeline.Pipeline {
	return pipeline.NewPipeline(SkyboxPipelineKey,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithColorTargets(postprocess.SceneColorFormats...),
		pipeline.WithDepthFormat(postprocess.SceneDepthFormat),
		pipeline.WithDepthCompare(wgpu.CompareFunctionLessEqual),
		pipeline.WithDepthWriteEnabled(false),
		pipeline.WithBlendEnabled(false),
	)
}

// GradientFace rasterizes one vertical gradient face as tightly packed RGBA8 rows.
//
// Parameters:
//   - size: the face edge length in pixels
//   - top: the color of the first row
//   - bottom: the color of the last row
//
// Returns:
//   - []byte: size*size*4 bytes
func GradientFace(size int, top, bottom color.RGBA) []byte {
	size = max(size, 1)
	dc := gg.NewContext(size, size)
	grad := gg.NewLinearGradient(0, 0, 0, float64(size))
	grad.AddColorStop(0, top)
	grad.AddColorStop(1, bottom)
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, float64(size), float64(size))
	dc.Fill()

	img, ok := dc.Image().(*image.RGBA)
	if !ok {
		bounds := image.Rect(0, 0, size, size)
		img = image.NewRGBA(bounds)
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				img.Set(x, y, dc.Image().At(x, y))
			}
		}
	}
	out := make([]byte, size*size*4)
	for y := 0; y < size; y++ {
		copy(out[y*size*4:(y+1)*size*4], img.Pix[y*img.Stride:y*img.Stride+size*4])
	}
	return out
}

// StripTranslation removes the camera position from a view matrix so the sky stays infinitely far away.
func StripTranslation(view mgl32.Mat4) mgl32.Mat4 {
	view[12], view[13], view[14] = 0, 0, 0
	return view
}

// skyboxImpl is the implementation of the Skybox interface.
type skyboxImpl struct {
	mu *sync.Mutex

	device   renderer.Device
	faceSize int
	tops     [6]color.RGBA
	bottoms  [6]color.RGBA

	cubemap  *renderer.Target
	mesh     bind_group_provider.BindGroupProvider
	group    bind_group_provider.BindGroupProvider
	uniforms *shader.UniformBlock
}

// Skybox owns the gradient cubemap and draws it as the first object of the scene pass.
type Skybox interface {
	// Render draws the sky into the open scene pass.
	//
	// Parameters:
	//   - view: the camera view; its translation is ignored
	//   - projection: the camera projection
	//
	// Returns:
	//   - error: an error if the draw fails
	Render(view, projection mgl32.Mat4) error

	// Cubemap returns the cube target, also sampled for reflections by the scene pass.
	Cubemap() *renderer.Target

	FaceSize() int

	// Release frees the cubemap, mesh and bind group.
	Release()
}

var _ Skybox = &skyboxImpl{}

// NewSkybox rasterizes the faces and uploads the cubemap. The skybox pipeline must already be registered with dev.
//
// Parameters:
//   - dev: the device to render with
//   - options: variadic list of SkyboxBuilderOption functions
//
// Returns:
//   - Skybox: the skybox
//   - error: an error if the pipeline is missing or a resource cannot be created
func NewSkybox(dev renderer.Device, options ...SkyboxBuilderOption) (Skybox, error) {
	s := &skyboxImpl{
		mu:       &sync.Mutex{},
		device:   dev,
		faceSize: DefaultFaceSize,
		tops:     DefaultTops,
		bottoms:  DefaultBottoms,
	}
	for _, opt := range options {
		opt(s)
	}
	s.faceSize = max(s.faceSize, 1)

	p := dev.Pipeline(SkyboxPipelineKey)
	if p == nil {
		return nil, fmt.Errorf("skybox: pipeline %q not registered", SkyboxPipelineKey)
	}
	binding, err := p.Uniforms().Require("sky")
	if err != nil {
		return nil, fmt.Errorf("skybox: %w", err)
	}
	s.uniforms = shader.NewUniformBlock(binding, 0)

	var faces [6][]byte
	for i := range faces {
		faces[i] = GradientFace(s.faceSize, s.tops[i], s.bottoms[i])
	}
	if s.cubemap, err = dev.CreateCubeTarget("skybox_cubemap", s.faceSize, faces); err != nil {
		return nil, fmt.Errorf("skybox: %w", err)
	}
	if s.mesh, err = dev.CreateMesh("skybox_cube", common.SliceToBytes(cubeCorners), len(cubeCorners)/3, cubeIndices); err != nil {
		s.Release()
		return nil, fmt.Errorf("skybox: %w", err)
	}
	s.group, err = dev.CreateBindGroup(SkyboxPipelineKey, 0, renderer.BindGroupResources{
		Textures: map[int]*renderer.Target{1: s.cubemap},
		Samplers: map[int]renderer.SamplerStagingData{2: renderer.LinearClampSampler},
	})
	if err != nil {
		s.Release()
		return nil, fmt.Errorf("skybox: %w", err)
	}
	return s, nil
}

func (s *skyboxImpl) Render(view, projection mgl32.Mat4) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uniforms.SetMat4("view", StripTranslation(view))
	s.uniforms.SetMat4("projection", projection)
	s.device.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: s.group, Binding: s.uniforms.Binding().Binding, Data: s.uniforms.Bytes()},
	})
	return s.device.Draw(renderer.DrawCommand{
		Pipeline:   SkyboxPipelineKey,
		Mesh:       s.mesh,
		BindGroups: []bind_group_provider.BindGroupProvider{s.group},
	})
}

func (s *skyboxImpl) Cubemap() *renderer.Target {
	return s.cubemap
}

func (s *skyboxImpl) FaceSize() int {
	return s.faceSize
}

func (s *skyboxImpl) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.group != nil {
		s.group.Release()
		s.group = nil
	}
	if s.mesh != nil {
		s.mesh.Release()
		s.mesh = nil
	}
	s.cubemap.Release()
}
