// Package sweep builds track geometry by sweeping a cross-section profile
// along a sampled centerline.
package sweep

import (
	"github.com/Faultbox/sweeptrack/internal/curve"
	"github.com/Faultbox/sweeptrack/pkg/math"
)

// Vertex represents a swept mesh vertex with all attributes.
type Vertex struct {
	Position  [3]float32
	Normal    [3]float32
	Tangent   [3]float32 // along the track
	Bitangent [3]float32 // across the cross-section
	TexCoord  [2]float32
}

// Strip is one ring-to-ring transition of the sweep. Its vertices alternate
// previous-ring, current-ring along the track, so the range can also be
// drawn as a triangle strip.
type Strip struct {
	FirstVertex int32
	VertexCount int32
	FirstIndex  int32
	IndexCount  int32
}

// Mesh holds the complete swept mesh ready for GPU upload.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Strips   []Strip
	Bounds   Bounds

	// RingSamples counts the ring positions computed during the sweep,
	// (len(profile)+1) per retained centerline sample.
	RingSamples int
}

// Bounds holds the axis-aligned bounding box of the mesh.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// TriangleCount returns the number of indexed triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// ProfilePoint is one corner of the cross-section: an offset along the
// frame's right and up axes, and its texture coordinate around the track.
type ProfilePoint struct {
	Offset math.Vec2
	Around float64 // [0, 1)
}

// Profile is a closed ring of cross-section points.
type Profile []ProfilePoint

// Options configure a sweep.
type Options struct {
	LengthRepeats     float64         // texture repeats along the whole loop
	WidthRepeats      float64         // texture repeats around the cross-section
	CrossSectionScale float64         // uniform scale applied to profile offsets
	FrameMode         curve.FrameMode // how frames are oriented along the track
}

// DefaultOptions returns the stock road texturing.
func DefaultOptions() Options {
	return Options{
		LengthRepeats:     50,
		WidthRepeats:      1,
		CrossSectionScale: 1,
		FrameMode:         curve.FrameAzimuth,
	}
}

// Framer supplies n frames at t = j/n.
type Framer interface {
	Frames(n int, mode curve.FrameMode) []curve.Frame
}
