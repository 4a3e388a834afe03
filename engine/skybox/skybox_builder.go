package skybox

import "image/color"

// SkyboxBuilderOption is a function that configures a skybox during construction via NewSkybox.
type SkyboxBuilderOption func(*skyboxImpl)

// WithFaceSize sets the edge length in texels of each cubemap face.
func WithFaceSize(size int) SkyboxBuilderOption {
	return func(s *skyboxImpl) {
		s.faceSize = size
	}
}

// WithGradients replaces the per-face top and bottom colors.
//
// Parameters:
//   - tops: the first-row color of each face in +X, -X, +Y, -Y, +Z, -Z order
//   - bottoms: the last-row color of each face in the same order
//
// Returns:
//   - SkyboxBuilderOption: a function that applies the gradient option to a skybox
func WithGradients(tops, bottoms [6]color.RGBA) SkyboxBuilderOption {
	return func(s *skyboxImpl) {
		s.tops = tops
		s.bottoms = bottoms
	}
}
