package scene

// RenderObjectBuilderOption is a functional option applied to a RenderObject by NewRenderObject.
type RenderObjectBuilderOption func(*RenderObject)

// WithCastShadow sets whether the object is drawn into the shadow map.
func WithCastShadow(cast bool) RenderObjectBuilderOption {
	return func(o *RenderObject) {
		o.CastShadow = cast
	}
}

// WithPulse makes the emissive of the object breathe over time.
//
// Parameters:
//   - speed: angular speed in radians per second
//   - phase: phase offset in radians
//   - strength: peak fraction added to or removed from the emissive
//
// Returns:
//   - RenderObjectBuilderOption: a function that applies the pulse option to an object
func WithPulse(speed, phase, strength float32) RenderObjectBuilderOption {
	return func(o *RenderObject) {
		o.PulseSpeed = speed
		o.PulsePhase = phase
		o.PulseStrength = strength
	}
}
