package trackgen

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/sweeptrack/internal/curve"
	"github.com/Faultbox/sweeptrack/pkg/math"
)

// ErrNoPoints is returned for a control point file without points.
var ErrNoPoints = errors.New("trackgen: no control points")

// filePoint is one control point as stored on disk.
type filePoint struct {
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Z       float64 `yaml:"z"`
	Azimuth float64 `yaml:"azimuth,omitempty"`
	Scale   float64 `yaml:"scale,omitempty"`
}

type fileLayout struct {
	Points []filePoint `yaml:"points"`
}

// File is a fixed layout read from disk. It returns the same points on
// every call until Reload.
type File struct {
	Path string

	points []curve.PathPoint
	xWidth float64
	zWidth float64
}

// NewFile wraps points as a fixed layout.
func NewFile(points []curve.PathPoint) *File {
	x, z := Extents(points)
	return &File{points: points, xWidth: x, zWidth: z}
}

// LoadFile reads a YAML control point file. A missing scale defaults to 1.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read control points: %w", err)
	}

	var layout fileLayout
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return nil, fmt.Errorf("parse control points %s: %w", path, err)
	}
	if len(layout.Points) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoPoints)
	}

	points := make([]curve.PathPoint, len(layout.Points))
	for i, p := range layout.Points {
		scale := p.Scale
		if scale == 0 {
			scale = 1
		}
		points[i] = curve.PathPoint{
			Point:   math.Vec3{X: p.X, Y: p.Y, Z: p.Z},
			Azimuth: p.Azimuth,
			Scale:   scale,
		}
	}
	f := NewFile(points)
	f.Path = path
	return f, nil
}

// Reload re-reads Path. On error the current points are kept.
func (f *File) Reload() error {
	if f.Path == "" {
		return fmt.Errorf("reload: %w", ErrNoPoints)
	}
	next, err := LoadFile(f.Path)
	if err != nil {
		return err
	}
	f.points, f.xWidth, f.zWidth = next.points, next.xWidth, next.zWidth
	return nil
}

// SaveFile writes points in the format read by LoadFile.
func SaveFile(path string, points []curve.PathPoint) error {
	layout := fileLayout{Points: make([]filePoint, len(points))}
	for i, p := range points {
		layout.Points[i] = filePoint{
			X:       p.Point.X,
			Y:       p.Point.Y,
			Z:       p.Point.Z,
			Azimuth: p.Azimuth,
			Scale:   p.Scale,
		}
	}

	data, err := yaml.Marshal(&layout)
	if err != nil {
		return fmt.Errorf("marshal control points: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write control points: %w", err)
	}
	return nil
}

// ControlPoints returns the stored points.
func (f *File) ControlPoints() []curve.PathPoint {
	return f.points
}

// XExtent is the X size of the layout.
func (f *File) XExtent() float64 {
	return f.xWidth
}

// ZExtent is the Z size of the layout.
func (f *File) ZExtent() float64 {
	return f.zWidth
}
