// Package lighting provides lighting utilities for 3D rendering.
package lighting

import (
	gomath "math"

	"github.com/Faultbox/sweeptrack/pkg/math"
)

// Sun is a directional light given by compass angles in degrees.
// Azimuth turns around +Y starting at +Z; Elevation is measured up from the
// horizon.
type Sun struct {
	Azimuth   float64
	Elevation float64
}

// DefaultSun is a mid-afternoon sun.
func DefaultSun() Sun {
	return Sun{Azimuth: 55, Elevation: 50}
}

// Direction returns the unit vector pointing towards the sun.
func (s Sun) Direction() math.Vec3 {
	az := s.Azimuth * gomath.Pi / 180
	el := s.Elevation * gomath.Pi / 180
	return math.Vec3{
		X: gomath.Cos(el) * gomath.Sin(az),
		Y: gomath.Sin(el),
		Z: gomath.Cos(el) * gomath.Cos(az),
	}
}
