package light

// ShadowMapperBuilderOption is a functional option applied to a shadow mapper during construction via NewShadowMapper.
type ShadowMapperBuilderOption func(*shadowMapperImpl)

// WithShadowMapResolution overrides the width and height of the shadow depth target.
//
// Parameters:
//   - resolution: texels per side, clamped to at least 1
//
// Returns:
//   - ShadowMapperBuilderOption: a function that applies the resolution option to a shadow mapper
func WithShadowMapResolution(resolution int) ShadowMapperBuilderOption {
	return func(s *shadowMapperImpl) {
		s.resolution = resolution
	}
}

// WithCasterCapacity sets how many casters the caster buffer holds before it has to grow.
func WithCasterCapacity(capacity int) ShadowMapperBuilderOption {
	return func(s *shadowMapperImpl) {
		s.capacity = max(capacity, 1)
	}
}
