package skybox

import (
	"image/color"
	"testing"

	"github.com/Carmen-Shannon/neon-chess/assets"
	"github.com/Carmen-Shannon/neon-chess/engine/renderer"
	"github.com/Carmen-Shannon/neon-chess/engine/renderer/devicetest"
	"github.com/Carmen-Shannon/neon-chess/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDevice(t *testing.T) *devicetest.Device {
	t.Helper()
	fsys := assets.Shaders()
	vs, err := shader.LoadShader(fsys, "skybox_vs", shader.ShaderTypeVertex, "skybox.vert.wgsl")
	require.NoError(t, err)
	fs, err := shader.LoadShader(fsys, "skybox_fs", shader.ShaderTypeFragment, "skybox.frag.wgsl")
	require.NoError(t, err)
	dev := devicetest.New(64, 64)
	require.NoError(t, dev.RegisterPipelines(NewSkyboxPipeline(vs, fs)))
	return dev
}

func TestGradientFace(t *testing.T) {
	top := color.RGBA{16, 32, 68, 255}
	bottom := color.RGBA{2, 4, 10, 255}
	face := GradientFace(128, top, bottom)
	require.Len(t, face, 128*128*4)

	px := func(x, y int) []byte { return face[(y*128+x)*4 : (y*128+x)*4+4] }
	assert.InDelta(t, 16, int(px(0, 0)[0]), 1)
	assert.InDelta(t, 68, int(px(127, 0)[2]), 1)
	assert.InDelta(t, 2, int(px(5, 127)[0]), 1)
	assert.InDelta(t, 10, int(px(5, 127)[2]), 1)
	assert.Equal(t, byte(255), px(64, 64)[3])

	// rows are uniform and darken monotonically
	assert.Equal(t, px(0, 40), px(100, 40))
	for y := 1; y < 128; y++ {
		assert.LessOrEqual(t, px(0, y)[2], px(0, y-1)[2])
	}
}

func TestStripTranslation(t *testing.T) {
	view := mgl32.Translate3D(3, -4, 5).Mul4(mgl32.HomogRotate3DY(0.7))
	stripped := StripTranslation(view)
	assert.Equal(t, float32(0), stripped[12])
	assert.Equal(t, float32(0), stripped[13])
	assert.Equal(t, float32(0), stripped[14])
	assert.Equal(t, view.Mat3(), stripped.Mat3())
	assert.Equal(t, float32(3), view[12])
}

func TestNewSkybox(t *testing.T) {
	dev := newDevice(t)
	sky, err := NewSkybox(dev, WithFaceSize(16))
	require.NoError(t, err)
	defer sky.Release()

	assert.Equal(t, 16, sky.FaceSize())
	assert.True(t, sky.Cubemap().Cube())
	assert.Equal(t, 16, sky.Cubemap().Width())
	require.Len(t, dev.Meshes(), 1)
	assert.Equal(t, 8, dev.Meshes()[0].VertexCount())
	assert.Equal(t, 36, dev.Meshes()[0].IndexCount())
}

func TestRenderWritesViewWithoutTranslation(t *testing.T) {
	dev := newDevice(t)
	sky, err := NewSkybox(dev, WithFaceSize(4))
	require.NoError(t, err)

	assert.Error(t, sky.Render(mgl32.Ident4(), mgl32.Ident4()), "no open pass")

	require.NoError(t, dev.BeginPass(devicetestPass()))
	view := mgl32.Translate3D(1, 2, 3)
	proj := mgl32.Scale3D(2, 2, 2)
	require.NoError(t, sky.Render(view, proj))
	dev.EndPass()

	draw := dev.Passes()[0].Draws[0]
	assert.Equal(t, SkyboxPipelineKey, draw.Pipeline)
	written := dev.Written(draw.BindGroups[0], 0)
	require.Len(t, written, 128)

	block := shader.NewUniformBlock(dev.Pipeline(SkyboxPipelineKey).Uniforms().Bindings()[0], 0)
	copy(block.Bytes(), written)
	gotView, _ := block.Mat4("view")
	gotProj, _ := block.Mat4("projection")
	assert.Equal(t, mgl32.Ident4(), gotView)
	assert.Equal(t, proj, gotProj)
}

func TestMissingPipeline(t *testing.T) {
	_, err := NewSkybox(devicetest.New(1, 1))
	assert.ErrorContains(t, err, SkyboxPipelineKey)
}

func devicetestPass() renderer.PassDescriptor {
	return renderer.PassDescriptor{Label: "scene", Surface: true}
}
