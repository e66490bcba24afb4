package sweep

import (
	"bytes"
	gomath "math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/sweeptrack/internal/curve"
	"github.com/Faultbox/sweeptrack/pkg/math"
	"github.com/Faultbox/sweeptrack/pkg/spline"
)

// unitCircle is eight control points on the unit circle in the ground plane.
func unitCircle() *curve.Curve {
	pts := make([]curve.PathPoint, 8)
	for i := range pts {
		a := 2 * gomath.Pi * float64(i) / 8
		pts[i] = curve.PathPoint{Point: math.Vec3{X: gomath.Cos(a), Z: gomath.Sin(a)}, Scale: 1}
	}
	return curve.New(pts)
}

func sweepCircle(t *testing.T, profile Profile, opts Options) (*Mesh, []curve.PathPoint) {
	t.Helper()
	c := unitCircle()
	poly, err := c.Polyline(len(c.Points) * 10)
	require.NoError(t, err)
	mesh, err := Generate(curve.NewSampler(c), poly, profile, opts)
	require.NoError(t, err)
	return mesh, poly
}

type stubFramer struct{ calls int }

func (s *stubFramer) Frames(n int, _ curve.FrameMode) []curve.Frame {
	s.calls++
	return make([]curve.Frame, n)
}

func toVec3(p [3]float32) math.Vec3 {
	return math.Vec3{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])}
}

func TestGenerateInsufficientCurve(t *testing.T) {
	f := &stubFramer{}
	for _, n := range []int{0, 1, 2, 4} {
		poly := make([]curve.PathPoint, n)
		for i := range poly {
			poly[i].Point.X = float64(i)
		}
		mesh, err := Generate(f, poly, RectProfile(1, 1), DefaultOptions())
		assert.ErrorIs(t, err, ErrInsufficientCurve, "n=%d", n)
		assert.Nil(t, mesh)
	}
	assert.Zero(t, f.calls, "frames must not be computed for a degenerate curve")
}

func TestGenerateEmptyProfile(t *testing.T) {
	_, err := Generate(&stubFramer{}, make([]curve.PathPoint, 10), nil, DefaultOptions())
	assert.ErrorIs(t, err, ErrEmptyProfile)
}

func TestGenerateCounts(t *testing.T) {
	profile := RectProfile(0.2, 0.2)
	mesh, poly := sweepCircle(t, profile, DefaultOptions())

	retained := len(poly) - spline.Overlap
	require.Equal(t, 80, retained)
	size := len(profile)

	assert.Equal(t, (size+1)*retained, mesh.RingSamples)
	assert.Len(t, mesh.Vertices, size*(retained+1)*2)
	assert.Len(t, mesh.Indices, size*retained*6)
	assert.Equal(t, size*retained*2, mesh.TriangleCount())
	require.Len(t, mesh.Strips, size)
	for i, s := range mesh.Strips {
		assert.Equal(t, int32(i*(retained+1)*2), s.FirstVertex)
		assert.Equal(t, int32(2*(retained+1)), s.VertexCount)
		assert.Equal(t, int32(i*retained*6), s.FirstIndex)
	}
}

func TestGenerateTextureSeams(t *testing.T) {
	opts := DefaultOptions()
	profile := RectProfile(0.2, 0.2)
	mesh, _ := sweepCircle(t, profile, opts)

	first := mesh.Strips[0]
	last := mesh.Strips[len(mesh.Strips)-1]
	for k := int32(0); k < first.VertexCount; k += 2 {
		assert.Equal(t, float32(0), mesh.Vertices[first.FirstVertex+k].TexCoord[1])
	}
	for k := int32(1); k < last.VertexCount; k += 2 {
		assert.Equal(t, float32(1), mesh.Vertices[last.FirstVertex+k].TexCoord[1])
	}

	// neighbouring strips agree on the shared ring
	for i := 1; i < len(mesh.Strips); i++ {
		prevCurr := mesh.Vertices[mesh.Strips[i-1].FirstVertex+1].TexCoord[1]
		currPrev := mesh.Vertices[mesh.Strips[i].FirstVertex].TexCoord[1]
		assert.Equal(t, prevCurr, currPrev, "strip %d", i)
		assert.Equal(t, float32(profile[i].Around), currPrev)
	}

	// S runs from 0 to LengthRepeats along each strip
	assert.Equal(t, float32(0), mesh.Vertices[first.FirstVertex].TexCoord[0])
	endS := mesh.Vertices[first.FirstVertex+first.VertexCount-1].TexCoord[0]
	assert.Equal(t, float32(opts.LengthRepeats), endS)
}

func TestGenerateClosedTorus(t *testing.T) {
	mesh, poly := sweepCircle(t, RectProfile(0.2, 0.2), DefaultOptions())
	retained := len(poly) - spline.Overlap

	type edge [2][3]float32
	key := func(a, b [3]float32) edge {
		if a[0] < b[0] || (a[0] == b[0] && (a[1] < b[1] || (a[1] == b[1] && a[2] < b[2]))) {
			return edge{a, b}
		}
		return edge{b, a}
	}

	edges := make(map[edge]int)
	outward := 0
	quads := 0
	for _, s := range mesh.Strips {
		for j := 0; j < retained; j++ {
			base := s.FirstVertex + int32(2*j)
			p0 := mesh.Vertices[base]
			c0 := mesh.Vertices[base+1]
			p1 := mesh.Vertices[base+2]
			c1 := mesh.Vertices[base+3]

			edges[key(p0.Position, c0.Position)]++
			edges[key(c0.Position, c1.Position)]++
			edges[key(c1.Position, p1.Position)]++
			edges[key(p1.Position, p0.Position)]++

			centroid := toVec3(p0.Position).Add(toVec3(c0.Position)).Add(toVec3(p1.Position)).Add(toVec3(c1.Position)).Scale(0.25)
			if toVec3(p0.Normal).Dot(centroid.Sub(poly[j].Point)) > 0 {
				outward++
			}
			quads++
		}
	}

	for e, n := range edges {
		if n != 2 {
			t.Fatalf("edge %v used by %d quads, want 2", e, n)
		}
	}
	assert.Equal(t, quads, outward, "every quad normal faces away from the centerline")
}

func TestGenerateWindingMatchesNormals(t *testing.T) {
	mesh, _ := sweepCircle(t, RectProfile(0.2, 0.1), DefaultOptions())
	agree := 0
	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		a := toVec3(mesh.Vertices[mesh.Indices[i]].Position)
		b := toVec3(mesh.Vertices[mesh.Indices[i+1]].Position)
		c := toVec3(mesh.Vertices[mesh.Indices[i+2]].Position)
		face := b.Sub(a).Cross(c.Sub(a))
		if face.Dot(toVec3(mesh.Vertices[mesh.Indices[i]].Normal)) > 0 {
			agree++
		}
	}
	assert.Equal(t, mesh.TriangleCount(), agree)
}

func TestGenerateScalesCrossSection(t *testing.T) {
	opts := DefaultOptions()
	opts.CrossSectionScale = 3
	mesh, poly := sweepCircle(t, RectProfile(0.1, 0.1), opts)

	// the first ring vertex sits at offset (-0.1, -0.1) scaled by 3
	got := toVec3(mesh.Vertices[0].Position).Distance(poly[0].Point)
	assert.InDelta(t, 0.3*gomath.Sqrt2, got, 1e-5)
}

func TestGenerateVertexBasis(t *testing.T) {
	mesh, _ := sweepCircle(t, DefaultRoadProfile(), DefaultOptions())
	for i, v := range mesh.Vertices {
		n := toVec3(v.Normal)
		tg := toVec3(v.Tangent)
		b := toVec3(v.Bitangent)
		require.InDelta(t, 1, n.Length(), 1e-5, "vertex %d", i)
		require.InDelta(t, 1, tg.Length(), 1e-5, "vertex %d", i)
		require.InDelta(t, 0, n.Dot(tg), 1e-5, "vertex %d", i)
		require.InDelta(t, 0, n.Dot(b), 1e-5, "vertex %d", i)
	}
}

func TestGenerateRotationMinimizing(t *testing.T) {
	opts := DefaultOptions()
	opts.FrameMode = curve.FrameRotationMinimizing
	mesh, _ := sweepCircle(t, RectProfile(0.2, 0.2), opts)
	assert.NotEmpty(t, mesh.Indices)
	// a flat circle needs no correction, so the deck stays level
	assert.InDelta(t, 0.2, mesh.Bounds.Max[1], 1e-4)
	assert.InDelta(t, -0.2, mesh.Bounds.Min[1], 1e-4)
}

func TestDefaultRoadProfileCounterClockwise(t *testing.T) {
	p := DefaultRoadProfile()
	var area float64
	for i := range p {
		a := p[i].Offset
		b := p[(i+1)%len(p)].Offset
		area += a.X*b.Y - b.X*a.Y
	}
	assert.Greater(t, area, 0.0)

	for i := 1; i < len(p); i++ {
		assert.Greater(t, p[i].Around, p[i-1].Around)
	}
}

func TestRectProfile(t *testing.T) {
	p := RectProfile(2, 1)
	require.Len(t, p, 4)
	assert.Equal(t, 0.0, p[0].Around)
	assert.InDelta(t, 4.0/12, p[1].Around, 1e-12)
	assert.InDelta(t, 6.0/12, p[2].Around, 1e-12)
	assert.InDelta(t, 10.0/12, p[3].Around, 1e-12)

	s := p.Scaled(2)
	assert.Equal(t, math.Vec2{X: 4, Y: -2}, s[1].Offset)
	assert.Equal(t, p[1].Around, s[1].Around)
}

func TestWriteOBJ(t *testing.T) {
	mesh, _ := sweepCircle(t, RectProfile(0.2, 0.2), DefaultOptions())
	var buf bytes.Buffer
	require.NoError(t, WriteOBJ(&buf, mesh, "track"))

	var verts, faces int
	for _, line := range strings.Split(buf.String(), "\n") {
		switch {
		case strings.HasPrefix(line, "v "):
			verts++
		case strings.HasPrefix(line, "f "):
			faces++
		}
	}
	assert.Equal(t, len(mesh.Vertices), verts)
	assert.Equal(t, mesh.TriangleCount(), faces)
	assert.Contains(t, buf.String(), "o track\n")
}
