package shader

import "io/fs"

// ShaderBuilderOption is a functional option applied to a shader during construction via NewShader.
type ShaderBuilderOption func(*shader)

// WithIncludes resolves @neon:include annotations against the IncludeDir of fsys.
//
// Parameters:
//   - fsys: the file system holding the include directory
//
// Returns:
//   - ShaderBuilderOption: a function that applies the include option to a shader
func WithIncludes(fsys fs.FS) ShaderBuilderOption {
	return func(s *shader) {
		s.pp = NewPreProcessor(fsys)
	}
}
