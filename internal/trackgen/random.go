// Package trackgen produces track layouts: seeded random loops and control
// point files.
package trackgen

import (
	gomath "math"
	"math/rand"

	"github.com/Faultbox/sweeptrack/internal/curve"
	"github.com/Faultbox/sweeptrack/pkg/math"
)

// Random generates closed loops around the origin. Every call to
// ControlPoints draws a new layout from the same random stream.
type Random struct {
	Count  int     // control points per loop
	Radius float64 // mean distance from the origin
	Jitter float64 // radial variation as a fraction of Radius
	Height float64 // peak hill height
	Bank   float64 // peak banking angle, radians

	rng    *rand.Rand
	xWidth float64
	zWidth float64
}

// NewRandom creates a generator with stock proportions.
func NewRandom(seed int64) *Random {
	return &Random{
		Count:  12,
		Radius: 150,
		Jitter: 0.35,
		Height: 15,
		Bank:   0.3,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// ControlPoints returns a new loop. Points run counter-clockwise seen from
// above with evenly spaced, slightly perturbed angles, so the loop never
// crosses itself in plan view.
func (g *Random) ControlPoints() []curve.PathPoint {
	n := max(g.Count, 3)
	step := 2 * gomath.Pi / float64(n)
	stretch := 0.7 + 0.6*g.rng.Float64()
	hills := 1 + g.rng.Intn(3)
	phase := g.rng.Float64() * 2 * gomath.Pi

	points := make([]curve.PathPoint, n)
	for i := range points {
		angle := (float64(i)+0.5)*step + (g.rng.Float64()-0.5)*0.5*step
		r := g.Radius * (1 + g.Jitter*(2*g.rng.Float64()-1))
		points[i] = curve.PathPoint{
			Point: math.Vec3{
				X: r * gomath.Cos(angle) * stretch,
				Y: g.Height * (0.5 + 0.5*gomath.Sin(phase+float64(hills)*angle)),
				Z: r * gomath.Sin(angle),
			},
			Azimuth: g.Bank * (2*g.rng.Float64() - 1),
			Scale:   1,
		}
	}

	g.xWidth, g.zWidth = Extents(points)
	return points
}

// XExtent is the X size of the last layout.
func (g *Random) XExtent() float64 {
	return g.xWidth
}

// ZExtent is the Z size of the last layout.
func (g *Random) ZExtent() float64 {
	return g.zWidth
}

// Extents returns the X and Z sizes of the box around points.
func Extents(points []curve.PathPoint) (xWidth, zWidth float64) {
	lo, hi := (&curve.Curve{Points: points}).Bounds()
	return hi.X - lo.X, hi.Z - lo.Z
}
