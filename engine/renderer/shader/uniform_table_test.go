package shader

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lightingSource = `
struct PointLight {
    position: vec3f,
    range: f32,
    color: vec3f,
    intensity: f32,
}

struct SpotLight {
    position: vec3f,
    range: f32,
    direction: vec3f,
    cutoffCos: f32,
    color: vec3f,
    intensity: f32,
}

struct Fog {
    color: vec3f,
    density: f32,
    heightFalloff: f32,
}

struct Frame {
    view: mat4x4f,
    viewPos: vec3f,
    time: f32,
    pointLights: array<PointLight, 8>,
    spotLights: array<SpotLight, 2>,
    spotLightCount: u32,
    fog: Fog,
}

struct Item {
    model: mat4x4f,
    albedo: vec3f,
    metallic: f32,
    specular: f32,
}

@group(0) @binding(0) var<uniform> frame: Frame;
@group(1) @binding(0) var<storage, read> items: array<Item>;
@group(0) @binding(1) var shadowMap: texture_depth_2d;

@fragment
fn fs_main() -> @location(0) vec4f {
    return vec4f(1.0);
}
`

func TestUniformTableResolvesNestedOffsets(t *testing.T) {
	table := buildUniformTable(lightingSource)

	frame, err := table.Require("frame")
	require.NoError(t, err)
	assert.Equal(t, 0, frame.Group)
	assert.Equal(t, 0, frame.Binding)
	assert.False(t, frame.RuntimeArray)

	cases := map[string]uint64{
		"view":                    0,
		"viewPos":                 64,
		"time":                    76,
		"pointLights[0]":          80,
		"pointLights[2].color":    80 + 2*32 + 16,
		"pointLights[7].range":    80 + 7*32 + 12,
		"spotLights[1].direction": 336 + 48 + 16,
		"spotLightCount":          432,
		"fog.color":               448,
		"fog.heightFalloff":       464,
	}
	for name, offset := range cases {
		f, ok := frame.Field(name)
		if assert.True(t, ok, name) {
			assert.Equal(t, offset, f.Offset, name)
		}
	}
	assert.Equal(t, uint64(480), frame.Size)
}

func TestUniformTableRuntimeArrayStride(t *testing.T) {
	table := buildUniformTable(lightingSource)

	items, ok := table.Binding("items")
	require.True(t, ok)
	assert.True(t, items.RuntimeArray)
	assert.Equal(t, 1, items.Group)
	assert.Equal(t, uint64(96), items.Size)

	spec, ok := items.Field("specular")
	require.True(t, ok)
	assert.Equal(t, uint64(80), spec.Offset)
}

func TestUniformTableSkipsTexturesAndUnknownNames(t *testing.T) {
	table := buildUniformTable(lightingSource)

	_, ok := table.Binding("shadowMap")
	assert.False(t, ok)
	assert.False(t, table.Has("frame", "missing"))
	assert.True(t, table.Has("frame", "fog.density"))

	_, err := table.Require("nope")
	assert.ErrorIs(t, err, ErrUnknownBinding)

	var nilTable *UniformTable
	_, ok = nilTable.Binding("frame")
	assert.False(t, ok)
	assert.Nil(t, nilTable.Bindings())
}

func TestUniformTableMergePrefersReceiver(t *testing.T) {
	a := buildUniformTable(lightingSource)
	b := buildUniformTable(`
struct Other { x: f32, }
@group(0) @binding(0) var<uniform> frame: Other;
@group(2) @binding(0) var<uniform> extra: Other;
`)
	merged := a.Merge(b)

	frame, ok := merged.Binding("frame")
	require.True(t, ok)
	assert.True(t, frame.Has("fog.color"))

	bindings := merged.Bindings()
	require.Len(t, bindings, 3)
	assert.Equal(t, "frame", bindings[0].VarName)
	assert.Equal(t, "items", bindings[1].VarName)
	assert.Equal(t, "extra", bindings[2].VarName)
}

func TestUniformBlockPresenceChecked(t *testing.T) {
	table := buildUniformTable(lightingSource)
	frame, _ := table.Binding("frame")
	block := NewUniformBlock(frame, 0)
	require.Len(t, block.Bytes(), int(frame.Size))

	assert.True(t, block.SetFloat("time", 2.5))
	assert.True(t, block.SetVec3("pointLights[3].color", mgl32.Vec3{1, 0.5, 0.25}))
	assert.True(t, block.SetUint("spotLightCount", 2))
	assert.False(t, block.SetFloat("exposure", 1))
	// a vec3 does not fit an f32 slot
	assert.False(t, block.SetVec3("time", mgl32.Vec3{}))

	v, ok := block.Float("time")
	require.True(t, ok)
	assert.Equal(t, float32(2.5), v)

	c, ok := block.Vec3("pointLights[3].color")
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{1, 0.5, 0.25}, c)

	n, ok := block.Uint("spotLightCount")
	require.True(t, ok)
	assert.Equal(t, uint32(2), n)
}

func TestUniformBlockMatrixIsColumnMajor(t *testing.T) {
	table := buildUniformTable(lightingSource)
	frame, _ := table.Binding("frame")
	block := NewUniformBlock(frame, 0)

	m := mgl32.Translate3D(1, 2, 3)
	require.True(t, block.SetMat4("view", m))

	got, ok := block.Mat4("view")
	require.True(t, ok)
	assert.Equal(t, m, got)
	// translation lives in the fourth column
	assert.Equal(t, []byte{0, 0, 0x80, 0x3f}, block.Bytes()[48:52])
}

func TestUniformBlockElements(t *testing.T) {
	table := buildUniformTable(lightingSource)
	items, _ := table.Binding("items")
	block := NewUniformBlock(items, 3)
	assert.Equal(t, 3, block.Len())
	assert.Len(t, block.Bytes(), 3*96)

	require.True(t, block.Element(2).SetFloat("metallic", 0.75))
	v, ok := block.Element(2).Float("metallic")
	require.True(t, ok)
	assert.Equal(t, float32(0.75), v)

	v, _ = block.Element(1).Float("metallic")
	assert.Zero(t, v)

	assert.False(t, block.Element(5).SetFloat("metallic", 1))

	block.Resize(5)
	assert.Equal(t, 5, block.Len())
	v, _ = block.Element(2).Float("metallic")
	assert.Equal(t, float32(0.75), v)
}

func TestUniformBlockNilBinding(t *testing.T) {
	block := NewUniformBlock(nil, 4)
	assert.False(t, block.SetFloat("anything", 1))
	assert.Empty(t, block.Bytes())
	assert.Same(t, block, block.Element(3))
}
