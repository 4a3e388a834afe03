package scene

import (
	"fmt"
	"io/fs"

	"github.com/Carmen-Shannon/neon-chess/engine/light"
	"github.com/Carmen-Shannon/neon-chess/engine/postprocess"
	"github.com/Carmen-Shannon/neon-chess/engine/renderer"
	"github.com/Carmen-Shannon/neon-chess/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/neon-chess/engine/renderer/shader"
	"github.com/Carmen-Shannon/neon-chess/engine/skybox"
	"github.com/cogentcore/webgpu/wgpu"
)

// ScenePipelineKey is the pipeline every scene object draws with.
const ScenePipelineKey = "scene"

// ShaderSources lists every shader of the renderer.
var ShaderSources = []shader.Source{
	{Key: "scene.vert", Type: shader.ShaderTypeVertex, Path: "scene.vert.wgsl"},
	{Key: "scene.frag", Type: shader.ShaderTypeFragment, Path: "scene.frag.wgsl"},
	{Key: "shadow.vert", Type: shader.ShaderTypeVertex, Path: "shadow.vert.wgsl"},
	{Key: "skybox.vert", Type: shader.ShaderTypeVertex, Path: "skybox.vert.wgsl"},
	{Key: "skybox.frag", Type: shader.ShaderTypeFragment, Path: "skybox.frag.wgsl"},
	{Key: "fullscreen.vert", Type: shader.ShaderTypeVertex, Path: "fullscreen.vert.wgsl"},
	{Key: "blur.frag", Type: shader.ShaderTypeFragment, Path: "blur.frag.wgsl"},
	{Key: "composite.frag", Type: shader.ShaderTypeFragment, Path: "composite.frag.wgsl"},
}

// NewScenePipeline describes the lit MRT pass: color and bright targets, depth tested and written, back faces
// culled and alpha blended.
func NewScenePipeline(vs, fs shader.Shader) pipeline.Pipeline {
	return pipeline.NewPipeline(ScenePipelineKey,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithColorTargets(postprocess.SceneColorFormats...),
		pipeline.WithDepthFormat(postprocess.SceneDepthFormat),
		pipeline.WithDepthCompare(wgpu.CompareFunctionLess),
		pipeline.WithCullMode(wgpu.CullModeBack),
		pipeline.WithBlendEnabled(true),
	)
}

// RegisterPipelines loads every shader from fsys on a pool of workers and registers the scene, shadow,
// skybox, blur and composite pipelines with dev.
//
// Parameters:
//   - dev: the device to register with
//   - fsys: the shader file system
//   - workers: the number of concurrent shader loads
//
// Returns:
//   - error: the joined load errors, or the first registration failure
func RegisterPipelines(dev renderer.Device, fsys fs.FS, workers int) error {
	shaders, err := shader.LoadAll(fsys, ShaderSources, workers)
	if err != nil {
		return fmt.Errorf("scene: load shaders: %w", err)
	}
	err = dev.RegisterPipelines(
		NewScenePipeline(shaders["scene.vert"], shaders["scene.frag"]),
		light.NewShadowPipeline(shaders["shadow.vert"]),
		skybox.NewSkyboxPipeline(shaders["skybox.vert"], shaders["skybox.frag"]),
		postprocess.NewBlurPipeline(shaders["fullscreen.vert"], shaders["blur.frag"]),
		postprocess.NewCompositePipeline(shaders["fullscreen.vert"], shaders["composite.frag"]),
	)
	if err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	return nil
}
