package scene

import (
	"fmt"

	"github.com/Carmen-Shannon/neon-chess/common"
	"github.com/Carmen-Shannon/neon-chess/engine/renderer"
	"github.com/Carmen-Shannon/neon-chess/engine/renderer/bind_group_provider"
)

// CubeVertexStride is the byte stride of a scene vertex: position, normal and uv.
const CubeVertexStride = 8 * 4

// CubeVertices is a unit cube centred on the origin, four vertices per face in +Z, -Z, +X, -X, +Y, -Y order.
var CubeVertices = []float32{
	// +Z
	-0.5, -0.5, 0.5, 0, 0, 1, 0, 0,
	0.5, -0.5, 0.5, 0, 0, 1, 1, 0,
	0.5, 0.5, 0.5, 0, 0, 1, 1, 1,
	-0.5, 0.5, 0.5, 0, 0, 1, 0, 1,
	// -Z
	0.5, -0.5, -0.5, 0, 0, -1, 0, 0,
	-0.5, -0.5, -0.5, 0, 0, -1, 1, 0,
	-0.5, 0.5, -0.5, 0, 0, -1, 1, 1,
	0.5, 0.5, -0.5, 0, 0, -1, 0, 1,
	// +X
	0.5, -0.5, 0.5, 1, 0, 0, 0, 0,
	0.5, -0.5, -0.5, 1, 0, 0, 1, 0,
	0.5, 0.5, -0.5, 1, 0, 0, 1, 1,
	0.5, 0.5, 0.5, 1, 0, 0, 0, 1,
	// -X
	-0.5, -0.5, -0.5, -1, 0, 0, 0, 0,
	-0.5, -0.5, 0.5, -1, 0, 0, 1, 0,
	-0.5, 0.5, 0.5, -1, 0, 0, 1, 1,
	-0.5, 0.5, -0.5, -1, 0, 0, 0, 1,
	// +Y
	-0.5, 0.5, 0.5, 0, 1, 0, 0, 0,
	0.5, 0.5, 0.5, 0, 1, 0, 1, 0,
	0.5, 0.5, -0.5, 0, 1, 0, 1, 1,
	-0.5, 0.5, -0.5, 0, 1, 0, 0, 1,
	// -Y
	-0.5, -0.5, -0.5, 0, -1, 0, 0, 0,
	0.5, -0.5, -0.5, 0, -1, 0, 1, 0,
	0.5, -0.5, 0.5, 0, -1, 0, 1, 1,
	-0.5, -0.5, 0.5, 0, -1, 0, 0, 1,
}

// CubeIndices triangulates each face of CubeVertices as two triangles.
var CubeIndices = cubeIndices()

func cubeIndices() []uint32 {
	out := make([]uint32, 0, 36)
	for f := uint32(0); f < 6; f++ {
		b := f * 4
		out = append(out, b, b+1, b+2, b, b+2, b+3)
	}
	return out
}

// CubePositions returns only the positions of CubeVertices, for the depth-only shadow pass.
func CubePositions() []float32 {
	n := len(CubeVertices) / 8
	out := make([]float32, 0, n*3)
	for i := 0; i < n; i++ {
		out = append(out, CubeVertices[i*8:i*8+3]...)
	}
	return out
}

// MeshBundle is one mesh uploaded twice: once with the full scene layout and once position-only for shadows.
// Both handles share the same index order.
type MeshBundle struct {
	Scene  bind_group_provider.BindGroupProvider
	Shadow bind_group_provider.BindGroupProvider
}

// NewCubeMesh uploads the unit cube in both layouts.
//
// Parameters:
//   - dev: the device to upload with
//
// Returns:
//   - *MeshBundle: the uploaded cube
//   - error: an error if either upload fails
func NewCubeMesh(dev renderer.Device) (*MeshBundle, error) {
	vertexCount := len(CubeVertices) / 8
	sceneMesh, err := dev.CreateMesh("cube", common.SliceToBytes(CubeVertices), vertexCount, CubeIndices)
	if err != nil {
		return nil, fmt.Errorf("scene: upload cube: %w", err)
	}
	shadowMesh, err := dev.CreateMesh("cube_shadow", common.SliceToBytes(CubePositions()), vertexCount, CubeIndices)
	if err != nil {
		sceneMesh.Release()
		return nil, fmt.Errorf("scene: upload shadow cube: %w", err)
	}
	return &MeshBundle{Scene: sceneMesh, Shadow: shadowMesh}, nil
}

// Release frees both handles. Safe to call more than once.
func (m *MeshBundle) Release() {
	if m == nil {
		return
	}
	if m.Scene != nil {
		m.Scene.Release()
		m.Scene = nil
	}
	if m.Shadow != nil {
		m.Shadow.Release()
		m.Shadow = nil
	}
}
