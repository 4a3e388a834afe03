package shader

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies the pipeline stage a shader module is compiled for.
type ShaderType int

const (
	// ShaderTypeVertex is a vertex stage shader.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is a fragment stage shader.
	ShaderTypeFragment
)

// String returns the WGSL attribute name of the stage.
func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return fmt.Sprintf("ShaderType(%d)", int(t))
	}
}

// ErrNoEntryPoint is returned when a shader source lacks an entry point for its stage.
var ErrNoEntryPoint = errors.New("shader: no entry point for stage")

// shader is the implementation of the Shader interface.
type shader struct {
	key                        string
	source                     string
	shaderType                 ShaderType
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames            map[int]map[int]string
	vertexLayouts              []wgpu.VertexBufferLayout
	entryPoint                 string
	uniforms                   *UniformTable

	pp PreProcessor
}

// Shader is a parsed WGSL stage: its source, entry point, bind group layouts, vertex layouts and uniform capability table.
// All reflection happens once when the shader is created.
type Shader interface {
	// Key returns the identifier the shader was loaded under.
	Key() string

	// Source returns the pre-processed WGSL source.
	Source() string

	// BindGroupLayoutDescriptors returns the layout descriptors keyed by group index.
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName returns the WGSL variable name at group/binding, or "".
	BindGroupVarName(group, binding int) string

	// VertexLayouts returns one layout per vertex buffer slot. Empty for fragment shaders and buffer-less vertex shaders.
	VertexLayouts() []wgpu.VertexBufferLayout

	// EntryPoint returns the entry point function name.
	EntryPoint() string

	// ShaderType returns the stage.
	ShaderType() ShaderType

	// Uniforms returns the reflected buffer bindings of this stage.
	Uniforms() *UniformTable
}

var _ Shader = &shader{}

// NewShader parses WGSL source for the given stage. Include annotations are expanded before reflection.
//
// Parameters:
//   - key: the identifier for the shader
//   - shaderType: the pipeline stage
//   - source: the raw WGSL source
//   - options: builder options, e.g. WithIncludes
//
// Returns:
//   - Shader: the parsed shader
//   - error: an error when pre-processing fails or the stage has no entry point
func NewShader(key string, shaderType ShaderType, source string, options ...ShaderBuilderOption) (Shader, error) {
	s := &shader{
		key:                        key,
		shaderType:                 shaderType,
		bindGroupLayoutDescriptors: make(map[int]wgpu.BindGroupLayoutDescriptor),
		bindingVarNames:            make(map[int]map[int]string),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.pp == nil {
		s.pp = NewPreProcessor(nil)
	}
	if err := s.parse(source); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadShader reads a WGSL file from fsys and parses it. Includes resolve against the same file system.
//
// Parameters:
//   - fsys: the file system holding the shader and its include directory
//   - key: the identifier for the shader
//   - shaderType: the pipeline stage
//   - path: the file path inside fsys
//
// Returns:
//   - Shader: the parsed shader
//   - error: an error if the file cannot be read or parsed
func LoadShader(fsys fs.FS, key string, shaderType ShaderType, path string) (Shader, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("shader %s: failed to read %q: %w", key, path, err)
	}
	return NewShader(key, shaderType, string(data), WithIncludes(fsys))
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) BindGroupVarName(group, binding int) string {
	if s.bindingVarNames[group] == nil {
		return ""
	}
	return s.bindingVarNames[group][binding]
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) Uniforms() *UniformTable {
	return s.uniforms
}

// parse expands includes and runs every reflection pass over the result.
func (s *shader) parse(raw string) error {
	source, err := s.pp.Process(raw)
	if err != nil {
		return fmt.Errorf("shader %s: pre-process failed: %w", s.key, err)
	}
	s.source = source

	s.entryPoint = parseEntryPoint(source, s.shaderType)
	if s.entryPoint == "" {
		return fmt.Errorf("shader %s: %w %s", s.key, ErrNoEntryPoint, s.shaderType)
	}

	var visibility wgpu.ShaderStage
	switch s.shaderType {
	case ShaderTypeVertex:
		visibility = wgpu.ShaderStageVertex
		s.vertexLayouts = parseVertexLayouts(source)
	case ShaderTypeFragment:
		visibility = wgpu.ShaderStageFragment
	}
	s.bindGroupLayoutDescriptors, s.bindingVarNames = parseBindGroupLayouts(source, visibility)
	s.uniforms = buildUniformTable(source)
	return nil
}
