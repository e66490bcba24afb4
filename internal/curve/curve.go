// Package curve samples a closed B-spline track centerline and builds the
// forward/up/right frames used to sweep geometry along it.
package curve

import (
	"github.com/Faultbox/sweeptrack/pkg/math"
	"github.com/Faultbox/sweeptrack/pkg/spline"
)

// PathPoint is a control point or sample of the track centerline.
type PathPoint struct {
	Point   math.Vec3
	Azimuth float64 // banking angle around the forward direction, radians
	Scale   float64
}

// Lerp blends every field independently.
func (p PathPoint) Lerp(other PathPoint, t float64) PathPoint {
	return PathPoint{
		Point:   p.Point.Lerp(other.Point, t),
		Azimuth: (1-t)*p.Azimuth + t*other.Azimuth,
		Scale:   (1-t)*p.Scale + t*other.Scale,
	}
}

// Dist2 is the squared distance between the two positions.
func (p PathPoint) Dist2(other PathPoint) float64 {
	return p.Point.Dist2(other.Point)
}

// Curve is an ordered set of control points with a spline topology.
type Curve struct {
	Points []PathPoint
	Closed bool
	Degree int
}

// New returns a closed cubic curve over points.
func New(points []PathPoint) *Curve {
	return &Curve{
		Points: points,
		Closed: true,
		Degree: spline.DefaultDegree,
	}
}

// Evaluate returns the curve sample at t.
func (c *Curve) Evaluate(t float64) (PathPoint, error) {
	return spline.Evaluate(c.Points, t, c.Closed, c.Degree)
}

// Polyline resamples the curve into at most totalSamples+spline.Overlap
// points; the trailing samples repeat the start of the loop.
func (c *Curve) Polyline(totalSamples int) ([]PathPoint, error) {
	return spline.Resample(c.Points, totalSamples, c.Closed, c.Degree)
}

// Bounds returns the axis-aligned box around the control points.
func (c *Curve) Bounds() (lo, hi math.Vec3) {
	if len(c.Points) == 0 {
		return lo, hi
	}
	lo, hi = c.Points[0].Point, c.Points[0].Point
	for _, p := range c.Points[1:] {
		lo.X = min(lo.X, p.Point.X)
		lo.Y = min(lo.Y, p.Point.Y)
		lo.Z = min(lo.Z, p.Point.Z)
		hi.X = max(hi.X, p.Point.X)
		hi.Y = max(hi.Y, p.Point.Y)
		hi.Z = max(hi.Z, p.Point.Z)
	}
	return lo, hi
}

// Positions strips a polyline down to its centerline points, leaving out
// the closing overlap.
func Positions(polyline []PathPoint) []math.Vec3 {
	n := len(polyline) - spline.Overlap
	if n <= 0 {
		return nil
	}
	out := make([]math.Vec3, n)
	for i := range out {
		out[i] = polyline[i].Point
	}
	return out
}
