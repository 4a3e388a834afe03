package renderer

import "github.com/cogentcore/webgpu/wgpu"

// TargetDescriptor describes a texture that passes render into and later passes sample from.
type TargetDescriptor struct {
	Label  string
	Width  int
	Height int
	Format wgpu.TextureFormat
}

// Clamped returns a copy with both dimensions raised to at least one pixel.
func (d TargetDescriptor) Clamped() TargetDescriptor {
	d.Width = max(d.Width, 1)
	d.Height = max(d.Height, 1)
	return d
}

// Target is a GPU texture with a single view. Its GPU handles are nil when created by a test device.
type Target struct {
	desc    TargetDescriptor
	cube    bool
	texture *wgpu.Texture
	view    *wgpu.TextureView
}

// NewTarget wraps already created GPU handles. Devices call this; passes never construct targets directly.
//
// Parameters:
//   - desc: the descriptor the texture was created from
//   - cube: whether the view is a six-layer cube view
//   - texture: the GPU texture, may be nil
//   - view: the GPU texture view, may be nil
//
// Returns:
//   - *Target: the wrapped target
func NewTarget(desc TargetDescriptor, cube bool, texture *wgpu.Texture, view *wgpu.TextureView) *Target {
	return &Target{desc: desc.Clamped(), cube: cube, texture: texture, view: view}
}

func (t *Target) Label() string {
	return t.desc.Label
}

func (t *Target) Width() int {
	return t.desc.Width
}

func (t *Target) Height() int {
	return t.desc.Height
}

func (t *Target) Format() wgpu.TextureFormat {
	return t.desc.Format
}

func (t *Target) Descriptor() TargetDescriptor {
	return t.desc
}

// Cube reports whether the target is a cubemap.
func (t *Target) Cube() bool {
	return t.cube
}

// IsDepth reports whether the target holds depth.
func (t *Target) IsDepth() bool {
	switch t.desc.Format {
	case wgpu.TextureFormatDepth32Float, wgpu.TextureFormatDepth24Plus:
		return true
	}
	return false
}

func (t *Target) Texture() *wgpu.Texture {
	return t.texture
}

func (t *Target) View() *wgpu.TextureView {
	return t.view
}

// Release frees the GPU handles. It is safe on a nil or already released target.
func (t *Target) Release() {
	if t == nil {
		return
	}
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.texture != nil {
		t.texture.Release()
		t.texture = nil
	}
}
