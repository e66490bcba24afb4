package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/sweeptrack/internal/city"
	"github.com/Faultbox/sweeptrack/pkg/math"
)

func vec(a [3]float32) math.Vec3 {
	return math.Vec3{X: float64(a[0]), Y: float64(a[1]), Z: float64(a[2])}
}

func TestBlockMeshCounts(t *testing.T) {
	blocks := []city.Block{
		{Min: math.Vec2{X: 0, Y: 0}, Max: math.Vec2{X: 4, Y: 6}, Height: 10},
		{Min: math.Vec2{X: 10, Y: 10}, Max: math.Vec2{X: 12, Y: 13}, Base: 1, Height: 30},
	}
	vertices, indices := BlockMesh(blocks)
	assert.Len(t, vertices, 40)
	assert.Len(t, indices, 60)
	for _, i := range indices {
		assert.Less(t, int(i), len(vertices))
	}
}

func TestBlockMeshEmpty(t *testing.T) {
	vertices, indices := BlockMesh(nil)
	assert.Empty(t, vertices)
	assert.Empty(t, indices)
}

func TestBlockMeshWindingFacesOutward(t *testing.T) {
	b := city.Block{Min: math.Vec2{X: -1, Y: -2}, Max: math.Vec2{X: 3, Y: 5}, Base: 0.5, Height: 20}
	vertices, indices := BlockMesh([]city.Block{b})
	require.Len(t, indices, 30)

	center := math.Vec3{X: 1, Y: 0.5 + 10, Z: 1.5}
	for tri := 0; tri < len(indices); tri += 3 {
		a := vec(vertices[indices[tri]].Position)
		bb := vec(vertices[indices[tri+1]].Position)
		c := vec(vertices[indices[tri+2]].Position)

		face := bb.Sub(a).Cross(c.Sub(a))
		normal := vec(vertices[indices[tri]].Normal)
		assert.Greater(t, face.Dot(normal), 0.0, "triangle %d winding", tri/3)
		assert.Greater(t, a.Sub(center).Dot(normal), 0.0, "triangle %d points inward", tri/3)
	}
}

func TestBlockMeshShadeByHeight(t *testing.T) {
	low := city.Block{Max: math.Vec2{X: 1, Y: 1}, Height: city.MinHeight}
	high := city.Block{Max: math.Vec2{X: 1, Y: 1}, Height: city.MaxHeight}
	vertices, _ := BlockMesh([]city.Block{low, high})

	lo, hi := lowColor.Array32(), highColor.Array32()
	assert.InDeltaSlice(t, lo[:], vertices[0].Color[:], 1e-6)
	assert.InDeltaSlice(t, hi[:], vertices[20].Color[:], 1e-6)
}
