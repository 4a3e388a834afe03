package light

import (
	"github.com/Carmen-Shannon/neon-chess/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

// Fog is exponential distance fog thinned with height.
type Fog struct {
	Color         mgl32.Vec3
	Density       float32
	HeightFalloff float32
}

// DefaultFog is the haze of the city scene.
var DefaultFog = Fog{
	Color:         mgl32.Vec3{0.04, 0.06, 0.1},
	Density:       0.03,
	HeightFalloff: 0.14,
}

// Upload writes the fog into the scene uniform block, skipping members the program does not declare.
func (f Fog) Upload(block *shader.UniformBlock) {
	block.SetVec3("fog.color", f.Color)
	block.SetFloat("fog.density", f.Density)
	block.SetFloat("fog.heightFalloff", f.HeightFalloff)
}
