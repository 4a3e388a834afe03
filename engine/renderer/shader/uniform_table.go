package shader

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownBinding is returned when a program is required to declare a buffer binding it does not have.
var ErrUnknownBinding = errors.New("shader: unknown binding")

// UniformField is one addressable member of a buffer binding, flattened to a dotted path such as "pointLights[2].color".
type UniformField struct {
	Name     string
	TypeName string
	Offset   uint64
	Size     uint64
}

// UniformBinding describes a uniform or storage buffer declared by a shader, with every member resolved to a byte offset.
type UniformBinding struct {
	VarName string
	Group   int
	Binding int

	// Size is the byte size of the binding. For runtime-sized arrays it is the stride of one element.
	Size uint64

	// RuntimeArray is set for array<T> storage bindings; field offsets are relative to a single element.
	RuntimeArray bool

	fields map[string]UniformField
}

// Has reports whether the binding declares the named member.
func (b *UniformBinding) Has(name string) bool {
	if b == nil {
		return false
	}
	_, ok := b.fields[name]
	return ok
}

// Field returns the layout of the named member.
func (b *UniformBinding) Field(name string) (UniformField, bool) {
	if b == nil {
		return UniformField{}, false
	}
	f, ok := b.fields[name]
	return f, ok
}

// FieldNames returns every member path in lexical order.
func (b *UniformBinding) FieldNames() []string {
	if b == nil {
		return nil
	}
	names := make([]string, 0, len(b.fields))
	for n := range b.fields {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// UniformTable is the capability table of a shader program: every buffer binding it declares and every member inside them.
// It is built once when the shader is loaded and consulted before each upload so absent uniforms are skipped instead of written.
type UniformTable struct {
	bindings map[string]*UniformBinding
}

// NewUniformTable returns an empty table.
func NewUniformTable() *UniformTable {
	return &UniformTable{bindings: make(map[string]*UniformBinding)}
}

// Binding looks up a buffer binding by its WGSL variable name.
func (t *UniformTable) Binding(varName string) (*UniformBinding, bool) {
	if t == nil {
		return nil, false
	}
	b, ok := t.bindings[varName]
	return b, ok
}

// Require looks up a binding that the caller cannot work without.
func (t *UniformTable) Require(varName string) (*UniformBinding, error) {
	b, ok := t.Binding(varName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBinding, varName)
	}
	return b, nil
}

// Has reports whether the variable exists and declares the member.
func (t *UniformTable) Has(varName, field string) bool {
	b, ok := t.Binding(varName)
	return ok && b.Has(field)
}

// Bindings returns every binding ordered by group then binding index.
func (t *UniformTable) Bindings() []*UniformBinding {
	if t == nil {
		return nil
	}
	out := make([]*UniformBinding, 0, len(t.bindings))
	for _, b := range t.bindings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Group != out[j].Group {
			return out[i].Group < out[j].Group
		}
		return out[i].Binding < out[j].Binding
	})
	return out
}

// Merge returns a table holding the union of both tables. Bindings already in t take precedence.
func (t *UniformTable) Merge(other *UniformTable) *UniformTable {
	out := NewUniformTable()
	if other != nil {
		for k, v := range other.bindings {
			out.bindings[k] = v
		}
	}
	if t != nil {
		for k, v := range t.bindings {
			out.bindings[k] = v
		}
	}
	return out
}

// buildUniformTable reflects every uniform and storage buffer declared in source.
func buildUniformTable(source string) *UniformTable {
	t := NewUniformTable()
	cleaned := stripComments(source)
	structs := parseStructBlocks(cleaned)
	sizes := computeStructSizes(structs)
	byName := make(map[string]parsedStruct, len(structs))
	for _, ps := range structs {
		byName[ps.name] = ps
	}

	for _, pb := range parseBindings(cleaned) {
		if pb.addressSpace == "" {
			continue
		}
		b := &UniformBinding{
			VarName: pb.varName,
			Group:   pb.group,
			Binding: pb.binding,
			fields:  make(map[string]UniformField),
		}

		typeName := pb.typeName
		if elem, _, runtime, ok := parseArrayType(typeName); ok && runtime {
			b.RuntimeArray = true
			typeName = elem
		}
		layout, ok := resolveTypeLayout(typeName, sizes)
		if !ok {
			continue
		}
		b.Size = layout.size
		if b.RuntimeArray {
			b.Size = roundUpAlign(layout.align, layout.size)
		}

		if _, isStruct := byName[typeName]; isStruct {
			flattenFields(b.fields, "", typeName, 0, byName, sizes)
		} else if _, _, _, isArray := parseArrayType(typeName); isArray {
			flattenFields(b.fields, pb.varName, typeName, 0, byName, sizes)
		} else {
			b.fields[pb.varName] = UniformField{Name: pb.varName, TypeName: typeName, Offset: 0, Size: layout.size}
		}
		t.bindings[pb.varName] = b
	}
	return t
}

// flattenFields records every member of typeName under prefix, recursing into nested structs and fixed-size arrays.
func flattenFields(fields map[string]UniformField, prefix, typeName string, base uint64, structs map[string]parsedStruct, sizes map[string]wgslTypeLayout) {
	if ps, ok := structs[typeName]; ok {
		offset := uint64(0)
		for _, f := range ps.fields {
			if f.isBuiltin {
				continue
			}
			layout, ok := resolveTypeLayout(f.typeName, sizes)
			if !ok {
				return
			}
			offset = roundUpAlign(layout.align, offset)
			name := f.name
			if prefix != "" {
				name = prefix + "." + f.name
			}
			fields[name] = UniformField{Name: name, TypeName: f.typeName, Offset: base + offset, Size: layout.size}
			flattenFields(fields, name, f.typeName, base+offset, structs, sizes)
			offset += layout.size
		}
		return
	}

	elem, count, runtime, ok := parseArrayType(typeName)
	if !ok || runtime {
		return
	}
	elemLayout, ok := resolveTypeLayout(elem, sizes)
	if !ok {
		return
	}
	stride := roundUpAlign(elemLayout.align, elemLayout.size)
	for i := range count {
		name := fmt.Sprintf("%s[%d]", prefix, i)
		off := base + uint64(i)*stride
		fields[name] = UniformField{Name: name, TypeName: elem, Offset: off, Size: elemLayout.size}
		flattenFields(fields, name, elem, off, structs, sizes)
	}
}
