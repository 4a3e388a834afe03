package material

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// MaterialBuilderOption is a function that configures a Material during construction via NewMaterial.
type MaterialBuilderOption func(*Material)

// WithName sets the preset name of the material.
//
// Parameters:
//   - name: the material identifier
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *Material) {
		m.Name = name
	}
}

// WithAlbedo sets the base color of the material.
//
// Parameters:
//   - r, g, b: linear color components
//
// Returns:
//   - MaterialBuilderOption: a function that applies the albedo option to a material
func WithAlbedo(r, g, b float32) MaterialBuilderOption {
	return func(m *Material) {
		m.Albedo = mgl32.Vec3{r, g, b}
	}
}

// WithMetallic sets the metallic factor of the material.
// A value of 0.0 represents a dielectric surface, 1.0 represents a fully metallic surface.
//
// Parameters:
//   - metallic: the metallic factor (0.0 to 1.0)
//
// Returns:
//   - MaterialBuilderOption: a function that applies the metallic option to a material
func WithMetallic(metallic float32) MaterialBuilderOption {
	return func(m *Material) {
		m.Metallic = metallic
	}
}

// WithRoughness sets the roughness factor of the material.
// A value of 0.0 represents a perfectly smooth surface, 1.0 represents a fully rough surface.
//
// Parameters:
//   - roughness: the roughness factor (0.0 to 1.0)
//
// Returns:
//   - MaterialBuilderOption: a function that applies the roughness option to a material
func WithRoughness(roughness float32) MaterialBuilderOption {
	return func(m *Material) {
		m.Roughness = roughness
	}
}

// WithSpecular sets the specular scale of the material.
func WithSpecular(specular float32) MaterialBuilderOption {
	return func(m *Material) {
		m.Specular = specular
	}
}

// WithEmissive sets the emissive color of the material. Values above 1 feed the bloom pass.
//
// Parameters:
//   - r, g, b: linear emissive components
//
// Returns:
//   - MaterialBuilderOption: a function that applies the emissive option to a material
func WithEmissive(r, g, b float32) MaterialBuilderOption {
	return func(m *Material) {
		m.Emissive = mgl32.Vec3{r, g, b}
	}
}

func sin(x float32) float32 {
	return math32.Sin(x)
}
