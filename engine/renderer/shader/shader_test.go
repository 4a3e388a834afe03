package shader

import (
	"testing"
	"testing/fstest"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const meshVertexSource = `
// @neon:include types.wgsl

struct MeshInput {
    @location(0) position: vec3f,
    @location(1) normal: vec3f,
    @location(2) uv: vec2f,
}

struct MeshOutput {
    @builtin(position) clip: vec4f,
    @location(0) normal: vec3f,
}

@group(0) @binding(0) var<uniform> camera: Camera;
@group(1) @binding(0) var<storage, read> models: array<mat4x4f>;

@vertex
fn vs_main(input: MeshInput, @builtin(instance_index) instance: u32) -> MeshOutput {
    var out: MeshOutput;
    out.clip = camera.viewProj * models[instance] * vec4f(input.position, 1.0);
    out.normal = input.normal;
    return out;
}
`

const texturedFragmentSource = `
@group(0) @binding(1) var colorMap: texture_2d<f32>;
@group(0) @binding(2) var colorSampler: sampler;
@group(0) @binding(3) var depthMap: texture_depth_2d;
@group(0) @binding(4) var depthSampler: sampler_comparison;
@group(0) @binding(5) var sky: texture_cube<f32>;

@fragment
fn fs_main(@location(0) uv: vec2f) -> @location(0) vec4f {
    return textureSample(colorMap, colorSampler, uv);
}
`

func shaderFS() fstest.MapFS {
	return fstest.MapFS{
		"include/types.wgsl": {Data: []byte("struct Camera {\n    viewProj: mat4x4f,\n    eye: vec3f,\n}\n")},
		"mesh.vert.wgsl":     {Data: []byte(meshVertexSource)},
		"textured.frag.wgsl": {Data: []byte(texturedFragmentSource)},
		"broken.frag.wgsl":   {Data: []byte("fn helper() {}")},
	}
}

func TestNewShaderReflectsVertexStage(t *testing.T) {
	s, err := LoadShader(shaderFS(), "mesh", ShaderTypeVertex, "mesh.vert.wgsl")
	require.NoError(t, err)

	assert.Equal(t, "vs_main", s.EntryPoint())
	assert.Equal(t, ShaderTypeVertex, s.ShaderType())
	assert.Contains(t, s.Source(), "viewProj: mat4x4f")

	layouts := s.VertexLayouts()
	require.Len(t, layouts, 1)
	assert.Equal(t, uint64(32), layouts[0].ArrayStride)
	require.Len(t, layouts[0].Attributes, 3)
	assert.Equal(t, wgpu.VertexFormatFloat32x2, layouts[0].Attributes[2].Format)
	assert.Equal(t, uint64(24), layouts[0].Attributes[2].Offset)

	descs := s.BindGroupLayoutDescriptors()
	require.Contains(t, descs, 0)
	require.Contains(t, descs, 1)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, descs[0].Entries[0].Buffer.Type)
	assert.Equal(t, uint64(80), descs[0].Entries[0].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.BufferBindingTypeReadOnlyStorage, descs[1].Entries[0].Buffer.Type)
	assert.Equal(t, wgpu.ShaderStageVertex, descs[1].Entries[0].Visibility)

	assert.Equal(t, "camera", s.BindGroupVarName(0, 0))
	assert.Equal(t, "", s.BindGroupVarName(3, 0))

	cam, ok := s.Uniforms().Binding("camera")
	require.True(t, ok)
	eye, ok := cam.Field("eye")
	require.True(t, ok)
	assert.Equal(t, uint64(64), eye.Offset)
}

func TestNewShaderClassifiesTextures(t *testing.T) {
	s, err := LoadShader(shaderFS(), "textured", ShaderTypeFragment, "textured.frag.wgsl")
	require.NoError(t, err)
	assert.Empty(t, s.VertexLayouts())

	entries := s.BindGroupLayoutDescriptors()[0].Entries
	require.Len(t, entries, 5)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, entries[0].Texture.SampleType)
	assert.Equal(t, wgpu.TextureViewDimension2D, entries[0].Texture.ViewDimension)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, entries[1].Sampler.Type)
	assert.Equal(t, wgpu.TextureSampleTypeDepth, entries[2].Texture.SampleType)
	assert.Equal(t, wgpu.SamplerBindingTypeComparison, entries[3].Sampler.Type)
	assert.Equal(t, wgpu.TextureViewDimensionCube, entries[4].Texture.ViewDimension)
	assert.Empty(t, s.Uniforms().Bindings())
}

func TestNewShaderRequiresEntryPoint(t *testing.T) {
	_, err := LoadShader(shaderFS(), "broken", ShaderTypeFragment, "broken.frag.wgsl")
	assert.ErrorIs(t, err, ErrNoEntryPoint)

	_, err = LoadShader(shaderFS(), "missing", ShaderTypeFragment, "missing.frag.wgsl")
	assert.Error(t, err)
}

func TestLoadAll(t *testing.T) {
	sources := []Source{
		{Key: "mesh", Type: ShaderTypeVertex, Path: "mesh.vert.wgsl"},
		{Key: "textured", Type: ShaderTypeFragment, Path: "textured.frag.wgsl"},
	}
	shaders, err := LoadAll(shaderFS(), sources, 4)
	require.NoError(t, err)
	require.Len(t, shaders, 2)
	assert.Equal(t, "mesh", shaders["mesh"].Key())
	assert.Equal(t, "fs_main", shaders["textured"].EntryPoint())
}

func TestLoadAllFailsAsAWhole(t *testing.T) {
	sources := []Source{
		{Key: "mesh", Type: ShaderTypeVertex, Path: "mesh.vert.wgsl"},
		{Key: "broken", Type: ShaderTypeFragment, Path: "broken.frag.wgsl"},
	}
	shaders, err := LoadAll(shaderFS(), sources, 1)
	assert.ErrorIs(t, err, ErrNoEntryPoint)
	assert.Nil(t, shaders)

	_, err = LoadAll(shaderFS(), []Source{sources[0], sources[0]}, 2)
	assert.ErrorContains(t, err, "duplicate")
}

func TestShaderTypeString(t *testing.T) {
	assert.Equal(t, "vertex", ShaderTypeVertex.String())
	assert.Equal(t, "fragment", ShaderTypeFragment.String())
	assert.Equal(t, "ShaderType(7)", ShaderType(7).String())
}
