package light

import (
	"github.com/Carmen-Shannon/neon-chess/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// LightBuilderOption is a function that configures a Light instance during construction.
type LightBuilderOption func(*lightImpl)

// WithPosition places a point or spot light in world space.
func WithPosition(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.position = mgl32.Vec3{x, y, z}
	}
}

// WithDirection is an option builder that sets the direction of the light.
// The direction is normalized before storing; a zero vector points straight down.
//
// Parameters:
//   - x: the x direction component
//   - y: the y direction component
//   - z: the z direction component
//
// Returns:
//   - LightBuilderOption: a function that applies the direction option to a lightImpl
func WithDirection(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.direction = common.Normalize(mgl32.Vec3{x, y, z}, downward)
	}
}

// WithColor sets the linear RGB color.
func WithColor(r, g, b float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = mgl32.Vec3{r, g, b}
	}
}

// WithIntensity scales the color.
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.intensity = intensity
	}
}

// WithRange sets the distance at which attenuation reaches zero.
func WithRange(lightRange float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.lightRange = lightRange
	}
}

// WithCutoffCos is an option builder that sets the spot cone cutoff as a cosine.
func WithCutoffCos(cutoff float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.cutoffCos = cutoff
	}
}

// WithCutoffAngle is an option builder that sets the spot cone half-angle in degrees.
//
// Parameters:
//   - deg: the half-angle in degrees
//
// Returns:
//   - LightBuilderOption: a function that applies the cutoff option to a lightImpl
func WithCutoffAngle(deg float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.cutoffCos = math32.Cos(mgl32.DegToRad(deg))
	}
}

// WithEnabled excludes a disabled light from uploads and counts.
func WithEnabled(enabled bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.enabled = enabled
	}
}
