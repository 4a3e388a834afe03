package scene

import (
	"io/fs"

	"github.com/Carmen-Shannon/neon-chess/engine/board"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *sceneImpl)

// WithSeed sets the random seed of the city layout and rain.
func WithSeed(seed int64) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.seed = seed
	}
}

// WithRainDrops sets the number of rain streaks. Negative values mean no rain.
func WithRainDrops(n int) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.rainDrops = max(n, 0)
	}
}

// WithBloomPasses sets the number of blur passes per frame.
func WithBloomPasses(passes int) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.bloomPasses = passes
	}
}

// WithExposure sets the tonemapping exposure of the composite.
func WithExposure(exposure float32) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.exposure = exposure
	}
}

// WithBloomStrength sets how strongly bloom is added back in the composite.
func WithBloomStrength(strength float32) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.bloomStrength = strength
	}
}

// WithInteractive enables orbit and zoom of the camera with the right mouse button and scroll wheel.
//
// Parameters:
//   - enabled: whether pointer input moves the camera
//   - sensitivity: degrees of orbit per pixel of drag
//   - zoomSpeed: world units of zoom per scroll step
//   - invertY: flips the vertical drag direction
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithInteractive(enabled bool, sensitivity, zoomSpeed float32, invertY bool) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.interactive = enabled
		s.mouseSensitivity = sensitivity
		s.zoomSpeed = zoomSpeed
		s.invertY = invertY
	}
}

// WithBoard sets the rules collaborator. A notnil/chess board in the starting position is used by default.
func WithBoard(b board.Board) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.board = b
	}
}

// WithShaders replaces the embedded shader pack.
func WithShaders(fsys fs.FS) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.shaders = fsys
	}
}

// WithWorkers sets how many shaders are loaded concurrently at startup.
func WithWorkers(n int) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.workers = n
	}
}
