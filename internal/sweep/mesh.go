package sweep

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/sweeptrack/internal/curve"
	"github.com/Faultbox/sweeptrack/internal/logger"
	"github.com/Faultbox/sweeptrack/pkg/math"
	"github.com/Faultbox/sweeptrack/pkg/spline"
)

var (
	// ErrInsufficientCurve is returned when the centerline has too few
	// distinct samples to sweep.
	ErrInsufficientCurve = errors.New("sweep: not enough curve to sweep")
	// ErrEmptyProfile is returned for a cross-section without points.
	ErrEmptyProfile = errors.New("sweep: empty cross-section profile")
)

// Generate sweeps profile along polyline. The last spline.Overlap samples of
// polyline are the loop closure produced by spline.Resample and only serve
// to locate the seam; frames come from framer at t = j/M for the M retained
// samples.
func Generate(framer Framer, polyline []curve.PathPoint, profile Profile, opts Options) (*Mesh, error) {
	if len(profile) == 0 {
		return nil, ErrEmptyProfile
	}
	retained := len(polyline) - spline.Overlap
	if len(polyline) <= 1 || retained <= 1 {
		logger.Named("sweep").Warn("not enough curve to sweep", zap.Int("points", len(polyline)))
		return nil, fmt.Errorf("%w: %d samples", ErrInsufficientCurve, len(polyline))
	}

	frames := framer.Frames(retained, opts.FrameMode)
	if len(frames) != retained {
		return nil, fmt.Errorf("sweep: got %d frames for %d samples", len(frames), retained)
	}

	// Precompute the coordinate axes for each retained sample
	forwards := make([]math.Vec3, retained)
	ups := make([]math.Vec3, retained)
	rights := make([]math.Vec3, retained)
	for j, f := range frames {
		forwards[j] = f.Forward
		ups[j] = f.Up.Scale(opts.CrossSectionScale)
		rights[j] = f.Right.Scale(opts.CrossSectionScale)
	}

	size := len(profile)
	mesh := &Mesh{
		Vertices: make([]Vertex, 0, size*(retained+1)*2),
		Indices:  make([]uint32, 0, size*retained*6),
		Strips:   make([]Strip, 0, size),
		Bounds: Bounds{
			Min: [3]float32{1e10, 1e10, 1e10},
			Max: [3]float32{-1e10, -1e10, -1e10},
		},
	}

	stripCurr := make([]math.Vec3, retained)
	stripPrev := make([]math.Vec3, retained)

	// Go around the cross-section; the extra pass closes the ring
	for i := 0; i <= size; i++ {
		aroundIndexCurr := i % size
		aroundIndexPrev := (i - 1 + size) % size
		aroundCurr := 1.0
		if i != size {
			aroundCurr = profile[aroundIndexCurr].Around
		}
		aroundPrev := 0.0
		if i != 0 {
			aroundPrev = profile[aroundIndexPrev].Around
		}
		offset := profile[aroundIndexCurr].Offset

		for j := range stripCurr {
			pt := rights[j].Scale(offset.X).Add(ups[j].Scale(offset.Y))
			stripCurr[j] = polyline[j].Point.Add(pt)
			updateBounds(&mesh.Bounds, stripCurr[j])
		}
		mesh.RingSamples += retained

		if i > 0 {
			emitStrip(mesh, stripPrev, stripCurr, forwards, aroundPrev, aroundCurr, opts)
		}

		stripPrev, stripCurr = stripCurr, stripPrev
	}

	return mesh, nil
}

// emitStrip appends the quads between two rings, walking along the track and
// wrapping the last sample back to the first.
func emitStrip(mesh *Mesh, prev, curr, forwards []math.Vec3, aroundPrev, aroundCurr float64, opts Options) {
	n := len(curr)
	strip := Strip{
		FirstVertex: int32(len(mesh.Vertices)),
		VertexCount: int32(2 * (n + 1)),
		FirstIndex:  int32(len(mesh.Indices)),
		IndexCount:  int32(6 * n),
	}
	texTPrev := float32(aroundPrev * opts.WidthRepeats)
	texTCurr := float32(aroundCurr * opts.WidthRepeats)

	for j := 0; j <= n; j++ {
		along := j % n
		percentAlong := float64(j) / float64(n)

		bitangent := curr[along].Sub(prev[along]).Normalize()
		tangent := forwards[along].Normalize()
		normal := bitangent.Cross(tangent).Normalize()
		texS := float32(opts.LengthRepeats * percentAlong)

		v := Vertex{
			Normal:    normal.Array32(),
			Tangent:   tangent.Array32(),
			Bitangent: bitangent.Array32(),
		}
		v.Position = prev[along].Array32()
		v.TexCoord = [2]float32{texS, texTPrev}
		mesh.Vertices = append(mesh.Vertices, v)

		v.Position = curr[along].Array32()
		v.TexCoord = [2]float32{texS, texTCurr}
		mesh.Vertices = append(mesh.Vertices, v)
	}

	// Two counter-clockwise triangles per quad, same winding as the strip
	base := uint32(strip.FirstVertex)
	for j := 0; j < n; j++ {
		b := base + uint32(2*j)
		mesh.Indices = append(mesh.Indices,
			b, b+1, b+2,
			b+2, b+1, b+3,
		)
	}
	mesh.Strips = append(mesh.Strips, strip)
}

func updateBounds(b *Bounds, v math.Vec3) {
	p := v.Array32()
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}
