package shader

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// UniformBlock stages the bytes of one buffer binding on the CPU.
// Every setter resolves the member through the binding's UniformTable entry and reports false, writing nothing,
// when the shader does not declare it. A block built from a nil binding accepts every call and stores nothing.
type UniformBlock struct {
	binding *UniformBinding
	data    []byte
	count   int
}

// NewUniformBlock allocates staging memory for binding. elements sizes runtime-array bindings and is ignored otherwise.
//
// Parameters:
//   - binding: the reflected binding, may be nil
//   - elements: the number of array elements to reserve for runtime-sized bindings
//
// Returns:
//   - *UniformBlock: the zeroed staging block
func NewUniformBlock(binding *UniformBinding, elements int) *UniformBlock {
	u := &UniformBlock{binding: binding, count: 1}
	if binding == nil {
		return u
	}
	if binding.RuntimeArray {
		u.count = max(elements, 1)
	}
	u.data = make([]byte, binding.Size*uint64(u.count))
	return u
}

// Binding returns the reflected binding this block was built for.
func (u *UniformBlock) Binding() *UniformBinding {
	return u.binding
}

// Bytes returns the staged data.
func (u *UniformBlock) Bytes() []byte {
	return u.data
}

// Len returns the number of elements the block holds.
func (u *UniformBlock) Len() int {
	return u.count
}

// Resize grows or shrinks a runtime-array block to the given element count, preserving existing elements.
// Views returned by Element before the call must not be used afterwards.
func (u *UniformBlock) Resize(elements int) {
	if u.binding == nil || !u.binding.RuntimeArray {
		return
	}
	elements = max(elements, 1)
	size := u.binding.Size * uint64(elements)
	if uint64(cap(u.data)) >= size {
		u.data = u.data[:size]
	} else {
		grown := make([]byte, size)
		copy(grown, u.data)
		u.data = grown
	}
	u.count = elements
}

// Element returns a view of element i of a runtime-array block. Writes through the view land in the parent.
// For a non-array block Element(0) returns the block itself. Out-of-range indices return an empty view.
func (u *UniformBlock) Element(i int) *UniformBlock {
	if u.binding == nil {
		return u
	}
	if !u.binding.RuntimeArray {
		if i == 0 {
			return u
		}
		return &UniformBlock{count: 1}
	}
	if i < 0 || i >= u.count {
		return &UniformBlock{count: 1}
	}
	stride := u.binding.Size
	start := uint64(i) * stride
	return &UniformBlock{binding: u.binding, data: u.data[start : start+stride : start+stride], count: 1}
}

// Has reports whether name is declared by the shader.
func (u *UniformBlock) Has(name string) bool {
	return u.binding.Has(name)
}

// slot returns the byte window for name when it is declared and at least size bytes wide.
func (u *UniformBlock) slot(name string, size uint64) ([]byte, bool) {
	f, ok := u.binding.Field(name)
	if !ok || f.Size < size || f.Offset+size > uint64(len(u.data)) {
		return nil, false
	}
	return u.data[f.Offset : f.Offset+size], true
}

func (u *UniformBlock) putFloats(name string, vals ...float32) bool {
	b, ok := u.slot(name, uint64(4*len(vals)))
	if !ok {
		return false
	}
	for i, v := range vals {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	return true
}

// SetFloat writes an f32 member.
func (u *UniformBlock) SetFloat(name string, v float32) bool {
	return u.putFloats(name, v)
}

// SetUint writes a u32 member.
func (u *UniformBlock) SetUint(name string, v uint32) bool {
	b, ok := u.slot(name, 4)
	if !ok {
		return false
	}
	binary.LittleEndian.PutUint32(b, v)
	return true
}

// SetInt writes an i32 member.
func (u *UniformBlock) SetInt(name string, v int32) bool {
	return u.SetUint(name, uint32(v))
}

// SetVec2 writes a vec2f member.
func (u *UniformBlock) SetVec2(name string, v mgl32.Vec2) bool {
	return u.putFloats(name, v[:]...)
}

// SetVec3 writes a vec3f member.
func (u *UniformBlock) SetVec3(name string, v mgl32.Vec3) bool {
	return u.putFloats(name, v[:]...)
}

// SetVec4 writes a vec4f member.
func (u *UniformBlock) SetVec4(name string, v mgl32.Vec4) bool {
	return u.putFloats(name, v[:]...)
}

// SetMat4 writes a column-major mat4x4f member.
func (u *UniformBlock) SetMat4(name string, m mgl32.Mat4) bool {
	return u.putFloats(name, m[:]...)
}

func (u *UniformBlock) floats(name string, n int) ([]float32, bool) {
	b, ok := u.slot(name, uint64(4*n))
	if !ok {
		return nil, false
	}
	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out, true
}

// Float reads back an f32 member.
func (u *UniformBlock) Float(name string) (float32, bool) {
	v, ok := u.floats(name, 1)
	if !ok {
		return 0, false
	}
	return v[0], true
}

// Uint reads back a u32 member.
func (u *UniformBlock) Uint(name string) (uint32, bool) {
	b, ok := u.slot(name, 4)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b), true
}

// Vec3 reads back a vec3f member.
func (u *UniformBlock) Vec3(name string) (mgl32.Vec3, bool) {
	v, ok := u.floats(name, 3)
	if !ok {
		return mgl32.Vec3{}, false
	}
	return mgl32.Vec3{v[0], v[1], v[2]}, true
}

// Mat4 reads back a mat4x4f member.
func (u *UniformBlock) Mat4(name string) (mgl32.Mat4, bool) {
	v, ok := u.floats(name, 16)
	if !ok {
		return mgl32.Mat4{}, false
	}
	var m mgl32.Mat4
	copy(m[:], v)
	return m, true
}
