package trackgen

import (
	gomath "math"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/sweeptrack/internal/curve"
	"github.com/Faultbox/sweeptrack/internal/track"
	"github.com/Faultbox/sweeptrack/pkg/math"
)

var (
	_ track.Generator = (*Random)(nil)
	_ track.Generator = (*File)(nil)
)

func TestRandomLoop(t *testing.T) {
	g := NewRandom(1)
	points := g.ControlPoints()
	require.Len(t, points, g.Count)

	angles := make([]float64, len(points))
	for i, p := range points {
		r := gomath.Hypot(p.Point.X, p.Point.Z)
		assert.Greater(t, r, 0.0)
		assert.GreaterOrEqual(t, p.Point.Y, 0.0)
		assert.LessOrEqual(t, p.Point.Y, g.Height)
		assert.LessOrEqual(t, gomath.Abs(p.Azimuth), g.Bank)
		assert.Equal(t, 1.0, p.Scale)

		a := gomath.Atan2(p.Point.Z, p.Point.X)
		if a < 0 {
			a += 2 * gomath.Pi
		}
		angles[i] = a
	}
	// counter-clockwise ordering in plan view
	assert.True(t, sort.Float64sAreSorted(angles))

	x, z := Extents(points)
	assert.Equal(t, x, g.XExtent())
	assert.Equal(t, z, g.ZExtent())
	assert.Greater(t, x, 0.0)
	assert.Greater(t, z, 0.0)
}

func TestRandomSeeded(t *testing.T) {
	a := NewRandom(9).ControlPoints()
	b := NewRandom(9).ControlPoints()
	assert.Equal(t, a, b)

	g := NewRandom(9)
	g.ControlPoints()
	assert.NotEqual(t, a, g.ControlPoints(), "each call draws a new layout")
}

func TestRandomMinimumCount(t *testing.T) {
	g := NewRandom(1)
	g.Count = 1
	assert.Len(t, g.ControlPoints(), 3)
}

func TestExtents(t *testing.T) {
	x, z := Extents([]curve.PathPoint{
		{Point: math.Vec3{X: -2, Z: 1}},
		{Point: math.Vec3{X: 3, Y: 9, Z: 4}},
	})
	assert.Equal(t, 5.0, x)
	assert.Equal(t, 3.0, z)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loop.yaml")
	content := `points:
  - {x: 0, y: 0, z: 0}
  - {x: 10, y: 2, z: 0, azimuth: 0.5}
  - {x: 10, y: 0, z: 10, scale: 2}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	f, err := LoadFile(path)
	require.NoError(t, err)

	points := f.ControlPoints()
	require.Len(t, points, 3)
	assert.Equal(t, math.Vec3{X: 10, Y: 2}, points[1].Point)
	assert.Equal(t, 0.5, points[1].Azimuth)
	assert.Equal(t, 1.0, points[0].Scale)
	assert.Equal(t, 2.0, points[2].Scale)
	assert.Equal(t, 10.0, f.XExtent())
	assert.Equal(t, 10.0, f.ZExtent())
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("points: []\n"), 0644))
	_, err = LoadFile(empty)
	assert.ErrorIs(t, err, ErrNoPoints)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("points: {x: [\n"), 0644))
	_, err = LoadFile(bad)
	assert.Error(t, err)
}

func TestSaveFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "random.yaml")
	points := NewRandom(5).ControlPoints()
	require.NoError(t, SaveFile(path, points))

	f, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, points, f.ControlPoints())
}

func TestOpen(t *testing.T) {
	gen, err := Open("", 9)
	require.NoError(t, err)
	assert.IsType(t, &Random{}, gen)

	path := filepath.Join(t.TempDir(), "layout.yaml")
	require.NoError(t, SaveFile(path, NewRandom(9).ControlPoints()))
	gen, err = Open(path, 0)
	require.NoError(t, err)
	assert.IsType(t, &File{}, gen)

	_, err = Open(filepath.Join(t.TempDir(), "missing.yaml"), 0)
	assert.Error(t, err)
}

func TestFileReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.yaml")
	require.NoError(t, SaveFile(path, NewRandom(1).ControlPoints()))
	f, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, f.Path)

	next := NewRandom(2).ControlPoints()
	require.NoError(t, SaveFile(path, next))
	require.NoError(t, f.Reload())
	assert.Equal(t, next, f.ControlPoints())

	require.NoError(t, os.WriteFile(path, []byte("points: []\n"), 0644))
	assert.ErrorIs(t, f.Reload(), ErrNoPoints)
	assert.Equal(t, next, f.ControlPoints())

	assert.Error(t, NewFile(next).Reload())
}

func TestWatchReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layout.yaml")
	require.NoError(t, SaveFile(path, NewRandom(1).ControlPoints()))

	w, err := Watch(path)
	require.NoError(t, err)
	defer w.Close()

	// Unrelated files in the same directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0644))
	select {
	case <-w.Changes():
		t.Fatal("change reported for another file")
	case <-time.After(100 * time.Millisecond):
	}

	require.NoError(t, SaveFile(path, NewRandom(2).ControlPoints()))
	select {
	case <-w.Changes():
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}
