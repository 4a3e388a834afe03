package engine

import (
	"time"

	"github.com/Carmen-Shannon/neon-chess/engine/scene"
	"github.com/Carmen-Shannon/neon-chess/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables periodic frame statistics in the log.
//
// Parameters:
//   - enabled: if true, logs frame statistics
//   - interval: time between samples, one second when non-positive
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool, interval time.Duration) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
		e.profileInterval = interval
	}
}

// WithMaxFrameDelta sets the largest timestep passed to Scene.Update. Non-positive values keep the default.
func WithMaxFrameDelta(seconds float32) EngineBuilderOption {
	return func(e *engine) {
		if seconds > 0 {
			e.maxFrameDelta = seconds
		}
	}
}

// WithSceneOptions appends scene options after the ones derived from the config, so they take precedence.
//
// Parameters:
//   - options: scene options such as scene.WithBoard
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSceneOptions(options ...scene.SceneBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.sceneOptions = append(e.sceneOptions, options...)
	}
}

// WithWindowOptions appends window options after the title and size from the config.
func WithWindowOptions(options ...window.WindowBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.windowOptions = append(e.windowOptions, options...)
	}
}

// WithForceSoftwareRenderer requests a CPU fallback adapter.
func WithForceSoftwareRenderer(force bool) EngineBuilderOption {
	return func(e *engine) {
		e.forceSoftware = force
	}
}
