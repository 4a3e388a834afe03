package common

import (
	"unsafe"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Epsilon is the length below which a vector is treated as zero.
const Epsilon = 1e-6

// WorldUp is the fixed world-space up axis used by every look-at in the engine.
var WorldUp = mgl32.Vec3{0, 1, 0}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// Perspective creates a perspective projection matrix for WebGPU clip space, where depth maps to [0, 1].
// mgl32.Perspective targets the OpenGL [-1, 1] range, which would push the near half of the scene behind the near plane.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func Perspective(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1.0 / math32.Tan(fovY/2.0)
	var out mgl32.Mat4
	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	return out
}

// Ortho creates an orthographic projection matrix for WebGPU clip space, where depth maps to [0, 1].
//
// Parameters:
//   - left, right, bottom, top: the view volume extents
//   - near, far: the depth range along the view direction
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func Ortho(left, right, bottom, top, near, far float32) mgl32.Mat4 {
	rl := right - left
	tb := top - bottom
	fn := far - near
	out := mgl32.Ident4()
	out[0] = 2 / rl
	out[5] = 2 / tb
	out[10] = -1 / fn
	out[12] = -(right + left) / rl
	out[13] = -(top + bottom) / tb
	out[14] = -near / fn
	return out
}

// LookAt builds a view matrix with the fixed world-up axis.
// When the view direction is parallel to world-up the Z axis is used instead so the matrix stays finite.
func LookAt(eye, center mgl32.Vec3) mgl32.Mat4 {
	up := WorldUp
	forward := center.Sub(eye)
	if forward.Len() < Epsilon {
		forward = mgl32.Vec3{0, 0, -1}
		center = eye.Add(forward)
	}
	if forward.Normalize().Cross(up).Len() < Epsilon {
		up = mgl32.Vec3{0, 0, 1}
	}
	return mgl32.LookAtV(eye, center, up)
}

// ModelMatrix composes translate * rotateY * scale.
//
// Parameters:
//   - pos: world translation
//   - scale: per-axis scale
//   - yawDeg: rotation about the Y axis in degrees
//
// Returns:
//   - mgl32.Mat4: the column-major model matrix
func ModelMatrix(pos, scale mgl32.Vec3, yawDeg float32) mgl32.Mat4 {
	m := mgl32.Translate3D(pos.X(), pos.Y(), pos.Z())
	if yawDeg != 0 {
		m = m.Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(yawDeg)))
	}
	return m.Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z()))
}

// Normalize returns v scaled to unit length, or fallback when v is shorter than Epsilon.
func Normalize(v, fallback mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l < Epsilon || math32.IsNaN(l) || math32.IsInf(l, 0) {
		return fallback
	}
	return v.Mul(1 / l)
}

// Unproject transforms a normalized device coordinate through an inverse view-projection matrix and performs the homogeneous divide.
// The second return value is false when w collapses to zero.
func Unproject(invViewProj mgl32.Mat4, ndc mgl32.Vec3) (mgl32.Vec3, bool) {
	p := invViewProj.Mul4x1(ndc.Vec4(1))
	if math32.Abs(p.W()) < Epsilon {
		return mgl32.Vec3{}, false
	}
	return p.Vec3().Mul(1 / p.W()), true
}

// Project transforms a world point into normalized device coordinates.
func Project(viewProj mgl32.Mat4, world mgl32.Vec3) mgl32.Vec3 {
	p := viewProj.Mul4x1(world.Vec4(1))
	return p.Vec3().Mul(1 / p.W())
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(hi, v))
}
