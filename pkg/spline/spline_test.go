package spline

import (
	gomath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/sweeptrack/pkg/math"
)

func circle(n int) []math.Vec3 {
	pts := make([]math.Vec3, n)
	for i := range pts {
		a := 2 * gomath.Pi * float64(i) / float64(n)
		pts[i] = math.Vec3{X: gomath.Cos(a), Z: gomath.Sin(a)}
	}
	return pts
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{0.25, 0.25},
		{1, 0},
		{1.5, 0.5},
		{-0.25, 0.75},
		{-2.5, 0.5},
		{7, 0},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, Normalize(c.in), 1e-12, "Normalize(%v)", c.in)
	}
}

func TestClampDegree(t *testing.T) {
	d, eff := ClampDegree(2, false, 3)
	assert.Equal(t, 1, d)
	assert.Equal(t, 2, eff)

	d, eff = ClampDegree(2, true, 3)
	assert.Equal(t, 3, d)
	assert.Equal(t, 5, eff)

	d, _ = ClampDegree(1, false, 3)
	assert.Equal(t, 0, d)
}

func TestEvaluateEmpty(t *testing.T) {
	p, err := Evaluate([]math.Vec3(nil), 0.3, true, DefaultDegree)
	assert.ErrorIs(t, err, ErrNoControlPoints)
	assert.Equal(t, math.Vec3{}, p)
}

func TestEvaluateSinglePoint(t *testing.T) {
	cp := []math.Vec3{{X: 1.5, Y: -2, Z: 4}}
	for _, closed := range []bool{true, false} {
		for _, tt := range []float64{0, 0.1, 0.5, 0.999, 1, -0.3, 12.75} {
			p, err := Evaluate(cp, tt, closed, DefaultDegree)
			require.NoError(t, err)
			assert.InDelta(t, 0, p.Dist2(cp[0]), 1e-20, "closed=%v t=%v", closed, tt)
		}
	}
}

func TestEvaluateClosedIsPeriodic(t *testing.T) {
	for degree := 1; degree <= 5; degree++ {
		for n := 1; n <= 9; n++ {
			cps := circle(n)
			start, err := Evaluate(cps, 0, true, degree)
			require.NoError(t, err)
			end, err := Evaluate(cps, 1-1e-9, true, degree)
			require.NoError(t, err)
			assert.Less(t, start.Distance(end), 1e-6, "degree=%d n=%d", degree, n)
		}
	}
}

func TestEvaluateWrapsParameter(t *testing.T) {
	cps := circle(8)
	a, _ := Evaluate(cps, 0.3, true, DefaultDegree)
	b, _ := Evaluate(cps, 1.3, true, DefaultDegree)
	c, _ := Evaluate(cps, -0.7, true, DefaultDegree)
	assert.InDelta(t, 0, a.Dist2(b), 1e-20)
	assert.InDelta(t, 0, a.Dist2(c), 1e-20)
}

func TestEvaluateLinearClosed(t *testing.T) {
	// degree 1 on a closed square passes through the control points
	cps := []math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	for i, want := range cps {
		got, err := Evaluate(cps, float64(i)/4, true, 1)
		require.NoError(t, err)
		assert.InDelta(t, 0, got.Dist2(want), 1e-20, "i=%d got=%v", i, got)
	}
	mid, _ := Evaluate(cps, 0.125, true, 1)
	assert.InDelta(t, 0.5, mid.X, 1e-12)
	assert.InDelta(t, 0, mid.Y, 1e-12)
}

func TestEvaluateCubicStaysInHull(t *testing.T) {
	cps := circle(8)
	for i := 0; i < 100; i++ {
		p, err := Evaluate(cps, float64(i)/100, true, DefaultDegree)
		require.NoError(t, err)
		r := p.Length()
		// a uniform cubic over a regular polygon lies inside the circle but
		// well outside the origin
		assert.LessOrEqual(t, r, 1.0+1e-12)
		assert.Greater(t, r, 0.85)
		assert.InDelta(t, 0, p.Y, 1e-12)
	}
}

func TestResampleZero(t *testing.T) {
	poly, err := Resample(circle(4), 0, true, DefaultDegree)
	require.NoError(t, err)
	assert.Empty(t, poly)
}

func TestResampleEmptyCurve(t *testing.T) {
	poly, err := Resample([]math.Vec3{}, 10, true, DefaultDegree)
	assert.ErrorIs(t, err, ErrNoControlPoints)
	assert.Equal(t, []math.Vec3{{}}, poly)

	poly, err = Resample([]math.Vec3{}, 0, true, DefaultDegree)
	require.NoError(t, err)
	assert.Empty(t, poly)
}

func TestResampleCountsAndSpacing(t *testing.T) {
	for _, total := range []int{1, 2, 5, 40, 80} {
		poly, err := Resample(circle(8), total, true, DefaultDegree)
		require.NoError(t, err)
		require.NotEmpty(t, poly)
		assert.LessOrEqual(t, len(poly), total+Overlap)
		for i := 1; i < len(poly); i++ {
			assert.GreaterOrEqual(t, poly[i].Dist2(poly[i-1]), Epsilon, "total=%d i=%d", total, i)
		}
	}
}

func TestResampleOverlapRepeatsStart(t *testing.T) {
	total := 40
	poly, err := Resample(circle(8), total, true, DefaultDegree)
	require.NoError(t, err)
	require.Len(t, poly, total+Overlap)
	for i := 0; i < Overlap; i++ {
		assert.InDelta(t, 0, poly[total+i].Dist2(poly[i]), 1e-20)
	}
}

func TestResampleSuppressesDuplicates(t *testing.T) {
	// every control point is the same, so only the first sample survives
	cps := []math.Vec2{{X: 2, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 2}}
	poly, err := Resample(cps, 12, true, DefaultDegree)
	require.NoError(t, err)
	assert.Len(t, poly, 1)
}

func TestResampleStationaryRun(t *testing.T) {
	cps := []math.Vec2{{X: 0}, {X: 1}, {X: 1}, {X: 1}, {X: 1}, {X: 1}, {X: 0, Y: 1}}
	poly, err := Resample(cps, 70, true, DefaultDegree)
	require.NoError(t, err)
	assert.Less(t, len(poly), 70+Overlap)
	for i := 1; i < len(poly); i++ {
		assert.GreaterOrEqual(t, poly[i].Dist2(poly[i-1]), Epsilon)
	}
}
