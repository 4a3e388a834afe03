package renderer

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestTargetDescriptorClamped(t *testing.T) {
	d := TargetDescriptor{Label: "bloom", Width: 0, Height: -5, Format: wgpu.TextureFormatRGBA16Float}.Clamped()
	assert.Equal(t, 1, d.Width)
	assert.Equal(t, 1, d.Height)
	assert.Equal(t, "bloom", d.Label)

	target := NewTarget(TargetDescriptor{Width: 0, Height: 7, Format: wgpu.TextureFormatDepth32Float}, false, nil, nil)
	assert.Equal(t, 1, target.Width())
	assert.Equal(t, 7, target.Height())
	assert.True(t, target.IsDepth())
	assert.False(t, target.Cube())
	assert.NotPanics(t, target.Release)
}

func TestFullViewportAndInstances(t *testing.T) {
	assert.Equal(t, Viewport{Width: 1, Height: 1}, FullViewport(0, -2))
	assert.Equal(t, Viewport{Width: 640, Height: 480}, FullViewport(640, 480))

	assert.Equal(t, uint32(1), DrawCommand{}.Instances())
	assert.Equal(t, uint32(12), DrawCommand{InstanceCount: 12}.Instances())
}
