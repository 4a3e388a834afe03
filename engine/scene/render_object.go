package scene

import (
	"github.com/Carmen-Shannon/neon-chess/common"
	"github.com/Carmen-Shannon/neon-chess/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// RenderObject is one drawn box of the scene. Every object draws the shared cube mesh scaled into place.
//
// Base is the material the object was built with. Material is what it draws with this frame; pulsing objects
// derive it from Base each update and never modify Base.
type RenderObject struct {
	Position mgl32.Vec3
	Scale    mgl32.Vec3
	Model    mgl32.Mat4

	Base     material.Material
	Material material.Material

	CastShadow bool

	PulseSpeed    float32
	PulsePhase    float32
	PulseStrength float32
}

// NewRenderObject places a cube at position with the given size.
//
// Parameters:
//   - position: the world-space centre
//   - scale: the size along each axis
//   - mat: the base material
//   - options: variadic list of RenderObjectBuilderOption functions
//
// Returns:
//   - *RenderObject: the object, with Model computed and Material equal to mat
func NewRenderObject(position, scale mgl32.Vec3, mat material.Material, options ...RenderObjectBuilderOption) *RenderObject {
	o := &RenderObject{
		Base:     mat,
		Material: mat,
	}
	for _, opt := range options {
		opt(o)
	}
	o.SetTransform(position, scale)
	return o
}

// SetTransform moves and resizes the object, recomputing Model.
func (o *RenderObject) SetTransform(position, scale mgl32.Vec3) {
	o.Position = position
	o.Scale = scale
	o.Model = common.ModelMatrix(position, scale, 0)
}

// Pulsing reports whether the emissive of the object animates.
func (o *RenderObject) Pulsing() bool {
	return o.PulseStrength != 0
}

// Pulse recomputes Material from Base for the given scene time. Objects that do not pulse are left alone.
func (o *RenderObject) Pulse(elapsed float32) {
	if !o.Pulsing() {
		return
	}
	o.Material = o.Base.Pulsed(material.PulseFactor(elapsed, o.PulseSpeed, o.PulsePhase, o.PulseStrength))
}

// BoundingRadius is the radius of the sphere enclosing the scaled unit cube.
func (o *RenderObject) BoundingRadius() float32 {
	return o.Scale.Len() * 0.5
}
