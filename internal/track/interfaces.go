package track

import (
	"github.com/Faultbox/sweeptrack/internal/curve"
	"github.com/Faultbox/sweeptrack/internal/rendercache"
	"github.com/Faultbox/sweeptrack/internal/sweep"
	"github.com/Faultbox/sweeptrack/pkg/math"
)

// Generator produces the control points of a new track layout. Each call to
// ControlPoints may return a different layout; the extents describe the
// layout returned last.
type Generator interface {
	ControlPoints() []curve.PathPoint
	XExtent() float64
	ZExtent() float64
}

// Field is the obstacle field surrounding the track (the city).
type Field interface {
	// Carve removes obstacles overlapping the given centerline.
	Carve(path []math.Vec3)
	Render()
}

// FieldFactory creates a field covering xWidth by zWidth at the given grid
// resolution.
type FieldFactory func(xWidth, zWidth float64, resolution int) Field

// Shader binds a GPU program and its textures.
type Shader interface {
	Set()
	ID() int
	TangentAttrib() int32
	BitangentAttrib() int32
}

// Compiler turns a swept mesh, and optionally the field, into drawable
// geometry for sh.
type Compiler func(mesh *sweep.Mesh, sh Shader, field Field, renderCity bool) (rendercache.Handle, error)

// RenderOptions are the per-frame inputs to Render.
type RenderOptions struct {
	PathSamplesPerPt  int     // polyline density per control point
	CrossSectionScale float64 // uniform profile scale
	XsectSamplesPerPt int     // reserved, passed through
	RenderCity        bool
}

// DefaultRenderOptions returns the viewer defaults.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		PathSamplesPerPt:  10,
		CrossSectionScale: 1,
		XsectSamplesPerPt: 1,
	}
}
