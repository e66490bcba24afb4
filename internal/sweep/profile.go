package sweep

import "github.com/Faultbox/sweeptrack/pkg/math"

// DefaultRoadProfile is a road deck with shoulders and raised curbs on both
// sides. Points run counter-clockwise so normals face outwards.
func DefaultRoadProfile() Profile {
	return Profile{
		{Offset: math.Vec2{X: 0, Y: -2}, Around: 0.0},
		{Offset: math.Vec2{X: 7, Y: -2}, Around: 0.10},
		{Offset: math.Vec2{X: 7, Y: 0}, Around: 0.15},
		{Offset: math.Vec2{X: 6, Y: 0}, Around: 0.20},
		{Offset: math.Vec2{X: 6, Y: -1}, Around: 0.25},
		{Offset: math.Vec2{X: -6, Y: -1}, Around: 0.75},
		{Offset: math.Vec2{X: -6, Y: 0}, Around: 0.80},
		{Offset: math.Vec2{X: -7, Y: 0}, Around: 0.85},
		{Offset: math.Vec2{X: -7, Y: -2}, Around: 0.90},
	}
}

// RectProfile is a counter-clockwise rectangle centered on the curve, with
// texture coordinates spaced by perimeter length.
func RectProfile(halfWidth, halfHeight float64) Profile {
	corners := []math.Vec2{
		{X: -halfWidth, Y: -halfHeight},
		{X: halfWidth, Y: -halfHeight},
		{X: halfWidth, Y: halfHeight},
		{X: -halfWidth, Y: halfHeight},
	}
	perimeter := 4 * (halfWidth + halfHeight)
	p := make(Profile, len(corners))
	var run float64
	for i, c := range corners {
		p[i] = ProfilePoint{Offset: c, Around: run / perimeter}
		run += c.Distance(corners[(i+1)%len(corners)])
	}
	return p
}

// Scaled returns a copy with every offset multiplied by s.
func (p Profile) Scaled(s float64) Profile {
	out := make(Profile, len(p))
	for i, pt := range p {
		out[i] = ProfilePoint{Offset: pt.Offset.Scale(s), Around: pt.Around}
	}
	return out
}
