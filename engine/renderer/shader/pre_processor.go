// pre_processor.go implements the WGSL include pre-processor. Shader stages of one program share struct
// declarations (uniform blocks, light records) through include files, so the vertex and fragment stages of a
// pipeline always agree on the memory layout the UniformTable reflects.
//
// An include is a comment line of the form:
//
//	// @neon:include scene_types.wgsl
//
// The named file is read from the include directory of the shader file system and spliced in place of the line.
package shader

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
)

const annotationPrefix = "@neon:"

// IncludeDir is the directory inside a shader file system that include annotations resolve against.
const IncludeDir = "include"

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	includes fs.FS
	included []string
}

// PreProcessor expands @neon:include annotations in WGSL source.
type PreProcessor interface {
	// Process returns source with every include annotation replaced by the referenced file.
	// Includes are not recursive.
	//
	// Parameters:
	//   - source: the raw WGSL source
	//
	// Returns:
	//   - string: the expanded source
	//   - error: an error for a malformed annotation or a missing include file
	Process(source string) (string, error)

	// Included returns the include file names spliced in by the last Process call, in source order.
	Included() []string
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor reading includes from the IncludeDir of fsys.
// A nil fsys rejects every include annotation.
func NewPreProcessor(fsys fs.FS) PreProcessor {
	return &preProcessor{includes: fsys}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.included = p.included[:0]

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		name, ok, err := parseInclude(line, i+1)
		if err != nil {
			return "", err
		}
		if !ok {
			out = append(out, line)
			continue
		}
		if p.includes == nil {
			return "", fmt.Errorf("line %d: include %q requested but no include file system is configured", i+1, name)
		}
		data, err := fs.ReadFile(p.includes, path.Join(IncludeDir, name))
		if err != nil {
			return "", fmt.Errorf("line %d: failed to read include %q: %w", i+1, name, err)
		}
		out = append(out, string(data))
		p.included = append(p.included, name)
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Included() []string {
	return p.included
}

// parseInclude reports whether line is an include annotation and returns the referenced file name.
func parseInclude(line string, lineNum int) (string, bool, error) {
	_, after, ok := strings.Cut(strings.TrimSpace(line), annotationPrefix)
	if !ok {
		return "", false, nil
	}
	args := strings.Fields(after)
	if len(args) == 0 {
		return "", false, fmt.Errorf("line %d: empty %s annotation", lineNum, annotationPrefix)
	}
	if args[0] != "include" {
		return "", false, fmt.Errorf("line %d: unknown %s annotation %q", lineNum, annotationPrefix, args[0])
	}
	if len(args) != 2 {
		return "", false, fmt.Errorf("line %d: %sinclude requires exactly one file name", lineNum, annotationPrefix)
	}
	return args[1], true, nil
}
