// Package scene uploads swept track meshes and city blocks to the GPU and
// draws them for the viewer.
package scene

import (
	"errors"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/sweeptrack/internal/rendercache"
	"github.com/Faultbox/sweeptrack/internal/sweep"
	"github.com/Faultbox/sweeptrack/internal/track"
)

// ErrEmptyMesh is returned when there is nothing to upload.
var ErrEmptyMesh = errors.New("scene: empty mesh")

// TrackGeometry is a swept mesh resident on the GPU. Drawing binds its
// shader first, then draws one index range per strip, then the field when
// the geometry was compiled with the city.
type TrackGeometry struct {
	shader track.Shader
	field  track.Field

	vao uint32
	vbo uint32
	ebo uint32

	strips []sweep.Strip
}

// UploadTrack copies mesh into new GPU buffers. Tangent and bitangent go to
// the attribute slots reported by sh; a negative slot is skipped.
func UploadTrack(mesh *sweep.Mesh, sh track.Shader) (*TrackGeometry, error) {
	if mesh == nil || len(mesh.Vertices) == 0 || len(mesh.Indices) == 0 {
		return nil, ErrEmptyMesh
	}

	g := &TrackGeometry{
		shader: sh,
		strips: mesh.Strips,
	}

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	// VBO
	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	vertexSize := int(unsafe.Sizeof(sweep.Vertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*vertexSize, unsafe.Pointer(&mesh.Vertices[0]), gl.STATIC_DRAW)

	var v sweep.Vertex
	// Position (location 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(vertexSize), unsafe.Offsetof(v.Position))
	gl.EnableVertexAttribArray(0)

	// Normal (location 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, int32(vertexSize), unsafe.Offsetof(v.Normal))
	gl.EnableVertexAttribArray(1)

	// TexCoord (location 2)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, int32(vertexSize), unsafe.Offsetof(v.TexCoord))
	gl.EnableVertexAttribArray(2)

	if loc := sh.TangentAttrib(); loc >= 0 {
		gl.VertexAttribPointerWithOffset(uint32(loc), 3, gl.FLOAT, false, int32(vertexSize), unsafe.Offsetof(v.Tangent))
		gl.EnableVertexAttribArray(uint32(loc))
	}
	if loc := sh.BitangentAttrib(); loc >= 0 {
		gl.VertexAttribPointerWithOffset(uint32(loc), 3, gl.FLOAT, false, int32(vertexSize), unsafe.Offsetof(v.Bitangent))
		gl.EnableVertexAttribArray(uint32(loc))
	}

	// EBO
	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, unsafe.Pointer(&mesh.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	return g, nil
}

// Draw renders the track and, if attached, the field.
func (g *TrackGeometry) Draw() {
	if g.vao == 0 {
		return
	}
	g.shader.Set()

	gl.BindVertexArray(g.vao)
	for _, s := range g.strips {
		gl.DrawElementsWithOffset(gl.TRIANGLES, s.IndexCount, gl.UNSIGNED_INT, uintptr(s.FirstIndex*4))
	}
	gl.BindVertexArray(0)

	if g.field != nil {
		g.field.Render()
	}
}

// Release frees the GPU buffers.
func (g *TrackGeometry) Release() {
	if g.vao != 0 {
		gl.DeleteVertexArrays(1, &g.vao)
		g.vao = 0
	}
	if g.vbo != 0 {
		gl.DeleteBuffers(1, &g.vbo)
		g.vbo = 0
	}
	if g.ebo != 0 {
		gl.DeleteBuffers(1, &g.ebo)
		g.ebo = 0
	}
}

// NewCompiler returns the track.Compiler used by the viewer. When the city
// is rendered its block geometry is rebuilt from the freshly carved field.
func NewCompiler(cityRenderer *CityRenderer) track.Compiler {
	return func(mesh *sweep.Mesh, sh track.Shader, field track.Field, renderCity bool) (rendercache.Handle, error) {
		g, err := UploadTrack(mesh, sh)
		if err != nil {
			return nil, err
		}
		if renderCity {
			if cityRenderer != nil {
				cityRenderer.Invalidate()
			}
			g.field = field
		}
		return g, nil
	}
}
