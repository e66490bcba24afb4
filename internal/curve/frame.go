package curve

import (
	gomath "math"

	"github.com/Faultbox/sweeptrack/pkg/math"
	"github.com/Faultbox/sweeptrack/pkg/spline"
)

// Frame is an orthonormal basis at a curve parameter.
// Right = Up x Forward, so (Right, Up, Forward) is right-handed.
type Frame struct {
	Forward math.Vec3
	Up      math.Vec3
	Right   math.Vec3
}

// FrameMode selects how Frames orients the up vector.
type FrameMode string

const (
	// FrameAzimuth derives up from world up plus authored azimuth.
	FrameAzimuth FrameMode = "azimuth"
	// FrameRotationMinimizing propagates up by double reflection and spreads
	// the loop closure error evenly over the track.
	FrameRotationMinimizing FrameMode = "rmf"
)

// OrientVectorInFrame rotates v around dir by the global azimuth, the global
// twist scaled by percent, and localAz.
func (s *Sampler) OrientVectorInFrame(dir math.Vec3, percent, localAz float64, v math.Vec3) math.Vec3 {
	rot := s.GlobalAzimuth + s.GlobalTwist*percent + localAz
	if rot == 0 {
		return v
	}
	return v.RotateAround(dir, rot)
}

// Frame returns the basis at t, including global azimuth and twist.
func (s *Sampler) Frame(t, step float64) Frame {
	t = spline.Normalize(t)
	fwd := s.forward(t, step)
	up := s.upFor(t, fwd)
	up = s.OrientVectorInFrame(fwd, t, 0, up).Normalize()
	return Frame{
		Forward: fwd,
		Up:      up,
		Right:   up.Cross(fwd),
	}
}

// TBNBasis returns the frame at t as a matrix with columns forward, up and right.
func (s *Sampler) TBNBasis(t, step float64) math.Mat3 {
	f := s.Frame(t, step)
	return math.Mat3FromColumns(f.Forward, f.Up, f.Right)
}

// HomogenizedBasis maps frame-local coordinates at t to world space with
// worldLoc as the origin.
func (s *Sampler) HomogenizedBasis(t float64, worldLoc math.Vec3, step float64) math.Mat4 {
	return math.FromBasis(s.TBNBasis(t, step), worldLoc)
}

// FirstUp is the up vector at the start of the curve.
func (s *Sampler) FirstUp() math.Vec3 {
	return s.SampleUp(0, s.Step)
}

// Frames returns n frames at t = j/n for j in [0, n).
func (s *Sampler) Frames(n int, mode FrameMode) []Frame {
	if n <= 0 {
		return nil
	}
	ts := make([]float64, n)
	for j := range ts {
		ts[j] = float64(j) / float64(n)
	}
	if mode == FrameRotationMinimizing {
		return s.RotationMinimizingFrames(ts)
	}
	frames := make([]Frame, n)
	for j, t := range ts {
		frames[j] = s.Frame(t, s.Step)
	}
	return frames
}

// AdvanceFrame carries the reference vector ri at xi (tangent ti) to xi1
// with tangent ti1 by two reflections, following Wang et al.,
// "Computation of Rotation Minimizing Frames", 2008.
func AdvanceFrame(xi, xi1, ti, ri, ti1 math.Vec3) math.Vec3 {
	v1 := xi1.Sub(xi)
	c1 := v1.Dot(v1)
	if c1 == 0 {
		return ri
	}
	riL := ri.Sub(v1.Scale((2 / c1) * v1.Dot(ri)))
	tiL := ti.Sub(v1.Scale((2 / c1) * v1.Dot(ti)))
	v2 := ti1.Sub(tiL)
	c2 := v2.Dot(v2)
	if c2 == 0 {
		return riL
	}
	return riL.Sub(v2.Scale((2 / c2) * v2.Dot(riL)))
}

// RotationMinimizingFrames propagates the frame at ts[0] along ts. On a
// closed curve the angle between the propagated and the starting up vector
// is distributed linearly so the last frame meets the first.
func (s *Sampler) RotationMinimizingFrames(ts []float64) []Frame {
	if len(ts) == 0 {
		return nil
	}
	frames := make([]Frame, len(ts))
	points := make([]math.Vec3, len(ts))
	fwds := make([]math.Vec3, len(ts))
	for i, t := range ts {
		points[i] = s.Sample(t).Point
		fwds[i] = s.forward(spline.Normalize(t), s.Step)
	}

	up := s.upFor(spline.Normalize(ts[0]), fwds[0])
	ups := make([]math.Vec3, len(ts))
	ups[0] = up
	for i := 1; i < len(ts); i++ {
		up = AdvanceFrame(points[i-1], points[i], fwds[i-1], up, fwds[i])
		ups[i] = orthonormalize(up, fwds[i])
		up = ups[i]
	}

	var closure float64
	if s.curve.Closed && len(ts) > 1 {
		last := len(ts) - 1
		back := orthonormalize(AdvanceFrame(points[last], points[0], fwds[last], ups[last], fwds[0]), fwds[0])
		closure = signedAngle(back, ups[0], fwds[0])
	}

	for i, t := range ts {
		fwd := fwds[i]
		u := ups[i]
		if closure != 0 {
			u = u.RotateAround(fwd, closure*float64(i)/float64(len(ts)))
		}
		u = s.OrientVectorInFrame(fwd, spline.Normalize(t), 0, u).Normalize()
		frames[i] = Frame{Forward: fwd, Up: u, Right: u.Cross(fwd)}
	}
	return frames
}

// orthonormalize removes the component of v along the unit vector axis.
func orthonormalize(v, axis math.Vec3) math.Vec3 {
	return v.Sub(axis.Scale(v.Dot(axis))).Normalize()
}

// signedAngle is the rotation around axis taking a onto b.
func signedAngle(a, b, axis math.Vec3) float64 {
	return gomath.Atan2(a.Cross(b).Dot(axis), a.Dot(b))
}
