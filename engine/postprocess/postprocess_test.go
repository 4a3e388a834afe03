package postprocess

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/neon-chess/assets"
	"github.com/Carmen-Shannon/neon-chess/engine/renderer"
	"github.com/Carmen-Shannon/neon-chess/engine/renderer/devicetest"
	"github.com/Carmen-Shannon/neon-chess/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDevice(t *testing.T, w, h int) *devicetest.Device {
	t.Helper()
	fsys := assets.Shaders()
	vs, err := shader.LoadShader(fsys, "fullscreen", shader.ShaderTypeVertex, "fullscreen.vert.wgsl")
	require.NoError(t, err)
	blur, err := shader.LoadShader(fsys, "blur", shader.ShaderTypeFragment, "blur.frag.wgsl")
	require.NoError(t, err)
	comp, err := shader.LoadShader(fsys, "composite", shader.ShaderTypeFragment, "composite.frag.wgsl")
	require.NoError(t, err)

	dev := devicetest.New(w, h)
	require.NoError(t, dev.RegisterPipelines(NewBlurPipeline(vs, blur), NewCompositePipeline(vs, comp)))
	return dev
}

func newPost(t *testing.T, dev *devicetest.Device, w, h int) PostProcessingPipeline {
	t.Helper()
	p, err := NewPostProcessingPipeline(dev, w, h)
	require.NoError(t, err)
	return p
}

func float32At(b []byte, offset int) float32 {
	bits := uint32(b[offset]) | uint32(b[offset+1])<<8 | uint32(b[offset+2])<<16 | uint32(b[offset+3])<<24
	return math.Float32frombits(bits)
}

func TestMissingPipelines(t *testing.T) {
	_, err := NewPostProcessingPipeline(devicetest.New(4, 4), 4, 4)
	assert.ErrorContains(t, err, BlurPipelineKey)
}

func TestTargets(t *testing.T) {
	dev := newDevice(t, 320, 200)
	p := newPost(t, dev, 320, 200)

	w, h := p.Size()
	assert.Equal(t, 320, w)
	assert.Equal(t, 200, h)
	assert.Equal(t, HDRFormat, p.SceneColor().Format())
	assert.Equal(t, HDRFormat, p.SceneBright().Format())
	assert.Equal(t, wgpu.TextureFormatDepth32Float, p.SceneDepth().Format())
	assert.Equal(t, HDRFormat, p.PingPong(1).Format())
	assert.Nil(t, p.PingPong(2))
	assert.Same(t, p.PingPong(0), p.BloomTexture())
}

func TestResizeClampsAndRebuilds(t *testing.T) {
	dev := newDevice(t, 64, 64)
	p := newPost(t, dev, 64, 64)
	oldColor := p.SceneColor()
	groups := len(dev.BindGroups())

	require.NoError(t, p.Resize(0, -3))
	w, h := p.Size()
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, h)
	assert.NotSame(t, oldColor, p.SceneColor())
	for _, target := range []*renderer.Target{p.SceneColor(), p.SceneBright(), p.SceneDepth(), p.PingPong(0), p.PingPong(1)} {
		assert.Equal(t, 1, target.Width())
		assert.Equal(t, 1, target.Height())
	}
	assert.Equal(t, 2*groups, len(dev.BindGroups()), "every bind group is rebuilt with the targets")

	// the horizontal blur group of the new size carries the new texel size
	var blurH []byte
	for _, rec := range dev.BindGroups()[groups:] {
		if rec.Pipeline == BlurPipelineKey && rec.Res.Textures[1] == p.SceneBright() {
			blurH = dev.Written(rec.Provider, 0)
		}
	}
	require.NotNil(t, blurH)
	assert.Equal(t, float32(1), float32At(blurH, 0))
	assert.Equal(t, float32(0), float32At(blurH, 4))
	assert.Equal(t, float32(1), float32At(blurH, 8))
	assert.Equal(t, float32(1), float32At(blurH, 12))
}

func TestBeginScene(t *testing.T) {
	dev := newDevice(t, 100, 50)
	p := newPost(t, dev, 100, 50)
	dev.SetViewport(renderer.Viewport{Width: 7, Height: 7})

	require.NoError(t, p.BeginScene())
	assert.Error(t, p.BeginScene())
	p.EndScene()
	assert.False(t, dev.InPass())

	pass := dev.Passes()[0]
	assert.Equal(t, "scene", pass.Desc.Label)
	assert.Equal(t, []*renderer.Target{p.SceneColor(), p.SceneBright()}, pass.Desc.Color)
	assert.Same(t, p.SceneDepth(), pass.Desc.Depth)
	assert.Equal(t, DefaultClearColor, pass.Desc.ClearColor)
	assert.Equal(t, float32(1), pass.Desc.ClearDepth)
	assert.Equal(t, renderer.FullViewport(100, 50), pass.Viewport)
}

func TestApplyBloomParity(t *testing.T) {
	for _, passes := range []int{-2, 0, 1, 2, 3, 10} {
		dev := newDevice(t, 32, 32)
		p := newPost(t, dev, 32, 32)
		require.NoError(t, p.ApplyBloom(passes))

		records := dev.Passes()
		want := max(passes, 1)
		require.Len(t, records, want)

		sourceOf := func(rec *devicetest.PassRecord) *renderer.Target {
			for _, bg := range dev.BindGroups() {
				if bg.Provider == rec.Draws[0].BindGroups[0] {
					return bg.Res.Textures[1]
				}
			}
			return nil
		}

		for i, rec := range records {
			horizontal := i%2 == 0
			require.Len(t, rec.Draws, 1)
			assert.Equal(t, uint32(3), rec.Draws[0].VertexCount)
			if horizontal {
				assert.Same(t, p.PingPong(0), rec.Desc.Color[0], "pass %d", i)
			} else {
				assert.Same(t, p.PingPong(1), rec.Desc.Color[0], "pass %d", i)
			}
			switch {
			case i == 0:
				assert.Same(t, p.SceneBright(), sourceOf(rec))
			case horizontal:
				assert.Same(t, p.PingPong(1), sourceOf(rec), "pass %d", i)
			default:
				assert.Same(t, p.PingPong(0), sourceOf(rec), "pass %d", i)
			}
		}

		last := records[len(records)-1].Desc.Color[0]
		assert.Same(t, last, p.BloomTexture(), "passes %d", passes)
	}
}

func TestCompositeUsesCurrentBloom(t *testing.T) {
	dev := newDevice(t, 40, 30)
	p := newPost(t, dev, 40, 30)
	require.NoError(t, p.ApplyBloom(10))
	dev.ResetPasses()

	params := CompositeParams{Exposure: 1.08, BloomStrength: 1.24, Time: 3, CameraSpeed: 0.5, FocusDepth: 0.3, DofStrength: 0.6, MotionBlur: 0.85}
	require.NoError(t, p.Composite(params))

	pass := dev.Passes()[0]
	assert.True(t, pass.Desc.Surface)
	assert.Equal(t, "composite", pass.Desc.Label)
	group := pass.Draws[0].BindGroups[0]

	var rec devicetest.BindGroupRecord
	for _, bg := range dev.BindGroups() {
		if bg.Provider == group {
			rec = bg
		}
	}
	assert.Same(t, p.PingPong(1), rec.Res.Textures[2])
	assert.Same(t, p.SceneColor(), rec.Res.Textures[1])
	assert.Same(t, p.SceneDepth(), rec.Res.Textures[3])

	data := dev.Written(group, 0)
	require.NotNil(t, data)
	assert.Equal(t, float32(1.08), float32At(data, 0))
	assert.Equal(t, float32(1.24), float32At(data, 4))
	assert.Equal(t, float32(0.85), float32At(data, 24))
	assert.Equal(t, float32(40), float32At(data, 32))
	assert.Equal(t, float32(30), float32At(data, 36))
}

func TestReleaseIsIdempotent(t *testing.T) {
	dev := newDevice(t, 8, 8)
	p := newPost(t, dev, 8, 8)
	p.Release()
	p.Release()
	assert.Nil(t, p.SceneColor())
}
