// Package spline evaluates uniform B-splines over any point type that can be
// linearly interpolated, and resamples them into polylines.
package spline

import (
	"errors"
	"math"
)

const (
	// DefaultDegree is the cubic B-spline used for tracks.
	DefaultDegree = 3

	// Epsilon is the squared distance below which two samples are the same point.
	Epsilon = 1e-11

	// Overlap is the number of extra samples Resample appends past the end of
	// a loop so sweeps can close without a seam.
	Overlap = 3
)

// ErrNoControlPoints is returned when a spline has nothing to evaluate.
var ErrNoControlPoints = errors.New("spline: need at least one control point")

// Point is a value that supports componentwise linear interpolation and a
// squared distance. P is the implementing type itself.
type Point[P any] interface {
	Lerp(other P, t float64) P
	Dist2(other P) float64
}

// Normalize wraps t into [0, 1).
func Normalize(t float64) float64 {
	if t > 1.0 || t < 0.0 {
		t = math.Mod(t, 1.0)
	}
	if t < 0.0 {
		t += 1.0
	}
	// t == 1 maps onto the start of the loop
	if t >= 1.0 {
		t = 0
	}
	return t
}

// ClampDegree reduces degree so that a curve over n control points still has
// a valid support, and returns the effective control point count.
func ClampDegree(n int, closed bool, degree int) (int, int) {
	if degree < 0 {
		degree = 0
	}
	eff := n
	if closed {
		eff = n + degree
	}
	if degree >= eff {
		degree = eff - 1
	}
	return degree, eff
}

// Evaluate returns the point at parameter t on the B-spline defined by cps.
// Closed curves wrap their control points so the result is periodic in t.
// An empty cps yields the zero value and ErrNoControlPoints.
func Evaluate[P Point[P]](cps []P, t float64, closed bool, degree int) (P, error) {
	var zero P
	n := len(cps)
	if n == 0 {
		return zero, ErrNoControlPoints
	}

	t = Normalize(t)
	degree, eff := ClampDegree(n, closed, degree)

	// rescale t from [0,1) onto the support [degree, eff)
	minSupport := float64(degree)
	maxSupport := float64(eff)
	t = (1-t)*minSupport + t*maxSupport

	k := int(t)

	bases := make([]P, degree+1)
	for i := 0; i <= degree; i++ {
		bases[i] = cps[wrap(k-degree+i, n)]
	}

	for power := 1; power <= degree; power++ {
		for i := 0; i <= degree-power; i++ {
			knot := k - degree + power + i
			uI := float64(knot)
			uIPR1 := float64(knot + degree - power + 1)
			a := (t - uI) / (uIPR1 - uI)
			bases[i] = bases[i].Lerp(bases[i+1], a)
		}
	}

	return bases[0], nil
}

// Resample evaluates the curve at totalSamples evenly spaced parameters plus
// Overlap wraparound samples, dropping any sample that lies within Epsilon
// of the last kept one. Without control points the polyline is a single zero
// sample, returned with ErrNoControlPoints.
func Resample[P Point[P]](cps []P, totalSamples int, closed bool, degree int) ([]P, error) {
	if totalSamples <= 0 {
		return nil, nil
	}
	if len(cps) == 0 {
		var zero P
		return []P{zero}, ErrNoControlPoints
	}

	polyline := make([]P, 0, totalSamples+Overlap)
	var lastGood P
	for i := 0; i < totalSamples+Overlap; i++ {
		loc := i % totalSamples
		t := float64(loc) / float64(totalSamples)
		sp, err := Evaluate(cps, t, closed, degree)
		if err != nil {
			return nil, err
		}
		if len(polyline) > 0 && sp.Dist2(lastGood) < Epsilon {
			continue
		}
		polyline = append(polyline, sp)
		lastGood = sp
	}
	return polyline, nil
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
