package scene

import (
	"testing"

	"github.com/Carmen-Shannon/neon-chess/engine/renderer/devicetest"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCubeGeometry(t *testing.T) {
	require.Len(t, CubeVertices, 24*8)
	require.Len(t, CubeIndices, 36)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, CubeIndices[:6])
	assert.Equal(t, []uint32{20, 21, 22, 20, 22, 23}, CubeIndices[30:])

	for i := 0; i < 24; i++ {
		v := CubeVertices[i*8 : i*8+8]
		pos := mgl32.Vec3{v[0], v[1], v[2]}
		normal := mgl32.Vec3{v[3], v[4], v[5]}
		assert.InDelta(t, 1, normal.Len(), 1e-6)
		// every face sits half a unit out along its normal
		assert.InDelta(t, 0.5, pos.Dot(normal), 1e-6, "vertex %d", i)
	}

	// each face winds counter-clockwise seen from outside
	for f := 0; f < 6; f++ {
		at := func(i uint32) mgl32.Vec3 {
			return mgl32.Vec3{CubeVertices[i*8], CubeVertices[i*8+1], CubeVertices[i*8+2]}
		}
		a, b, c := at(CubeIndices[f*6]), at(CubeIndices[f*6+1]), at(CubeIndices[f*6+2])
		n := mgl32.Vec3{CubeVertices[CubeIndices[f*6]*8+3], CubeVertices[CubeIndices[f*6]*8+4], CubeVertices[CubeIndices[f*6]*8+5]}
		assert.Greater(t, b.Sub(a).Cross(c.Sub(a)).Dot(n), float32(0), "face %d", f)
	}
}

func TestCubePositions(t *testing.T) {
	pos := CubePositions()
	require.Len(t, pos, 24*3)
	assert.Equal(t, CubeVertices[8:11], pos[3:6])
}

func TestNewCubeMesh(t *testing.T) {
	dev := devicetest.New(8, 8)
	m, err := NewCubeMesh(dev)
	require.NoError(t, err)

	meshes := dev.Meshes()
	require.Len(t, meshes, 2)
	assert.Same(t, m.Scene, meshes[0])
	assert.Same(t, m.Shadow, meshes[1])
	for _, mesh := range meshes {
		assert.Equal(t, 24, mesh.VertexCount())
		assert.Equal(t, 36, mesh.IndexCount())
	}

	m.Release()
	m.Release()
	assert.Nil(t, m.Scene)
	var none *MeshBundle
	none.Release()
}
