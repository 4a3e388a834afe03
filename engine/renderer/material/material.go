package material

import (
	"github.com/Carmen-Shannon/neon-chess/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

// Material describes the surface response of an object: an albedo color, PBR-style metallic and roughness
// factors, a specular scale, and an emissive color added on top of lighting.
//
// Materials are values. The presets in this package are never modified; Pulsed and the With methods return
// derived copies.
type Material struct {
	Name      string
	Albedo    mgl32.Vec3
	Metallic  float32
	Roughness float32
	Specular  float32
	Emissive  mgl32.Vec3
}

// NewMaterial creates a Material from options. Unset fields are zero except Specular, which defaults to 1.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions
//
// Returns:
//   - Material: the constructed material value
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := Material{Specular: 1}
	for _, opt := range options {
		opt(&m)
	}
	return m
}

// Pulsed returns m with its emissive color scaled by factor. Every other field is unchanged.
//
// Parameters:
//   - factor: the emissive multiplier, typically 1 + sin(t*speed+phase)*strength
//
// Returns:
//   - Material: the derived material
func (m Material) Pulsed(factor float32) Material {
	m.Emissive = m.Emissive.Mul(factor)
	return m
}

// PulseFactor is the emissive multiplier of a pulsing object at elapsed seconds.
func PulseFactor(elapsed, speed, phase, strength float32) float32 {
	return 1 + sin(elapsed*speed+phase)*strength
}

// Upload writes the material into an object record of the scene program. Each member is presence-checked,
// so a program that omits a member simply does not receive it.
//
// Parameters:
//   - block: the staging view of one object record
//
// Returns:
//   - int: the number of members written
func (m Material) Upload(block *shader.UniformBlock) int {
	n := 0
	for _, ok := range []bool{
		block.SetVec3("albedo", m.Albedo),
		block.SetFloat("metallic", m.Metallic),
		block.SetFloat("roughness", m.Roughness),
		block.SetFloat("specular", m.Specular),
		block.SetVec3("emissive", m.Emissive),
	} {
		if ok {
			n++
		}
	}
	return n
}
