package curve

import (
	"errors"

	"go.uber.org/zap"

	"github.com/Faultbox/sweeptrack/internal/logger"
	"github.com/Faultbox/sweeptrack/pkg/math"
	"github.com/Faultbox/sweeptrack/pkg/spline"
)

const (
	// DefaultStep is the parameter delta used for finite-difference tangents.
	DefaultStep = 0.0001

	// DefaultSearchDistance bounds the step multiplier when looking for a
	// non-zero tangent.
	DefaultSearchDistance = 5
)

// ErrZeroTangent reports that no usable forward direction was found; the
// returned vector is the last (near zero) difference.
var ErrZeroTangent = errors.New("curve: forward direction is degenerate")

// Sampler answers position and direction queries along a curve.
type Sampler struct {
	curve *Curve

	// Step is the finite-difference delta used by Frame and Frames.
	Step float64
	// SearchDistance is the retry budget of SampleForwardNonzero.
	SearchDistance int
	// GlobalAzimuth rotates every frame around its forward direction.
	GlobalAzimuth float64
	// GlobalTwist adds GlobalTwist*t of rotation at parameter t.
	GlobalTwist float64

	log *zap.Logger
}

// NewSampler creates a sampler with default step and search distance.
func NewSampler(c *Curve) *Sampler {
	return &Sampler{
		curve:          c,
		Step:           DefaultStep,
		SearchDistance: DefaultSearchDistance,
		log:            logger.Named("curve"),
	}
}

// Curve returns the sampled curve.
func (s *Sampler) Curve() *Curve {
	return s.curve
}

// Sample evaluates the curve at t. A curve without control points logs a
// warning and yields the zero PathPoint.
func (s *Sampler) Sample(t float64) PathPoint {
	p, err := s.curve.Evaluate(t)
	if err != nil {
		s.log.Warn("sample failed", zap.Float64("t", t), zap.Error(err))
	}
	return p
}

// SampleForward returns the forward difference sample(t+step) - sample(t).
func (s *Sampler) SampleForward(t, step float64) math.Vec3 {
	return s.Sample(t + step).Point.Sub(s.Sample(t).Point)
}

// SampleForwardNonzero widens the step (step*k for k = 1..searchDist) until
// the forward difference is longer than spline.Epsilon. When every attempt
// is degenerate the last difference is returned with ErrZeroTangent.
func (s *Sampler) SampleForwardNonzero(t, step float64, searchDist int) (math.Vec3, error) {
	var dir math.Vec3
	for k := 1; ; k++ {
		dir = s.SampleForward(t, step*float64(k))
		if dir.Length2() >= spline.Epsilon {
			return dir, nil
		}
		if k >= searchDist {
			return dir, ErrZeroTangent
		}
	}
}

// SampleUp returns the unit up vector at t: world up orthogonalized against
// the forward direction, then rolled by the local azimuth.
func (s *Sampler) SampleUp(t, step float64) math.Vec3 {
	t = spline.Normalize(t)
	dir := s.forward(t, step)
	return s.upFor(t, dir)
}

// forward is the normalized non-degenerate tangent at t.
func (s *Sampler) forward(t, step float64) math.Vec3 {
	dir, err := s.SampleForwardNonzero(t, step, s.SearchDistance)
	if err != nil {
		s.log.Debug("using degenerate tangent",
			zap.Float64("t", t),
			zap.Float64("length2", dir.Length2()),
		)
	}
	return dir.Normalize()
}

func (s *Sampler) upFor(t float64, dir math.Vec3) math.Vec3 {
	if dir == (math.Vec3{}) {
		return math.WorldUp
	}
	azimuth := s.Sample(t).Azimuth

	right := dir.Cross(math.WorldUp)
	if right.Length2() < spline.Epsilon {
		// vertical tangent: seed the frame from +X instead of world up
		right = dir.Cross(math.Vec3{X: 1})
	}
	up := right.Cross(dir)
	up = up.RotateAround(dir, azimuth)
	return up.Normalize()
}
