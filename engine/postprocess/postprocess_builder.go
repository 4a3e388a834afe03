package postprocess

import "github.com/cogentcore/webgpu/wgpu"

// PostProcessingBuilderOption is a function that configures the pipeline during construction via NewPostProcessingPipeline.
type PostProcessingBuilderOption func(*postProcessingImpl)

// WithClearColor sets the background the scene target is cleared to.
//
// Parameters:
//   - c: the clear color
//
// Returns:
//   - PostProcessingBuilderOption: a function that applies the clear color option
func WithClearColor(c wgpu.Color) PostProcessingBuilderOption {
	return func(p *postProcessingImpl) {
		p.clearColor = c
	}
}
