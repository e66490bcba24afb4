package scene

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/sweeptrack/internal/city"
	"github.com/Faultbox/sweeptrack/internal/engine/scene/shaders"
	"github.com/Faultbox/sweeptrack/internal/engine/shader"
	"github.com/Faultbox/sweeptrack/pkg/math"
)

// CityVertex is one corner of a block face.
type CityVertex struct {
	Position [3]float32
	Normal   [3]float32
	Color    [3]float32
}

var (
	lowColor  = math.Vec3{X: 0.45, Y: 0.47, Z: 0.52}
	highColor = math.Vec3{X: 0.75, Y: 0.78, Z: 0.85}
)

// BlockMesh builds the walls and roof of every block as indexed
// triangles, counter-clockwise seen from outside. Taller blocks are lighter.
func BlockMesh(blocks []city.Block) ([]CityVertex, []uint32) {
	vertices := make([]CityVertex, 0, len(blocks)*20)
	indices := make([]uint32, 0, len(blocks)*30)

	for _, b := range blocks {
		x0, x1 := float32(b.Min.X), float32(b.Max.X)
		z0, z1 := float32(b.Min.Y), float32(b.Max.Y)
		y0, y1 := float32(b.Base), float32(b.Base+b.Height)

		shade := (b.Height - city.MinHeight) / (city.MaxHeight - city.MinHeight)
		col := lowColor.Lerp(highColor, min(max(shade, 0), 1)).Array32()

		faces := []struct {
			normal  [3]float32
			corners [4][3]float32
		}{
			{[3]float32{0, 1, 0}, [4][3]float32{{x0, y1, z0}, {x0, y1, z1}, {x1, y1, z1}, {x1, y1, z0}}},
			{[3]float32{1, 0, 0}, [4][3]float32{{x1, y0, z0}, {x1, y1, z0}, {x1, y1, z1}, {x1, y0, z1}}},
			{[3]float32{-1, 0, 0}, [4][3]float32{{x0, y0, z1}, {x0, y1, z1}, {x0, y1, z0}, {x0, y0, z0}}},
			{[3]float32{0, 0, 1}, [4][3]float32{{x1, y0, z1}, {x1, y1, z1}, {x0, y1, z1}, {x0, y0, z1}}},
			{[3]float32{0, 0, -1}, [4][3]float32{{x0, y0, z0}, {x0, y1, z0}, {x1, y1, z0}, {x1, y0, z0}}},
		}

		for _, f := range faces {
			base := uint32(len(vertices))
			for _, c := range f.corners {
				vertices = append(vertices, CityVertex{Position: c, Normal: f.normal, Color: col})
			}
			indices = append(indices, base, base+1, base+2, base, base+2, base+3)
		}
	}
	return vertices, indices
}

// CityRenderer draws city blocks. It implements city.Drawer and keeps the
// uploaded block geometry until Invalidate.
type CityRenderer struct {
	program     uint32
	locViewProj int32
	locLightDir int32

	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
	dirty      bool

	viewProj math.Mat4
	lightDir [3]float32
}

// NewCityRenderer compiles the block shader.
func NewCityRenderer() (*CityRenderer, error) {
	program, err := shader.CompileProgram(shaders.CityVertexShader, shaders.CityFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("city shader: %w", err)
	}
	return &CityRenderer{
		program:     program,
		locViewProj: shader.MustGetUniform(program, "uViewProj"),
		locLightDir: shader.GetUniform(program, "uLightDir"),
		dirty:       true,
		viewProj:    math.Identity(),
		lightDir:    [3]float32{0.3, 1, 0.2},
	}, nil
}

// SetViewProj sets the camera matrix for subsequent draws.
func (cr *CityRenderer) SetViewProj(m math.Mat4) {
	cr.viewProj = m
}

// SetLightDir sets the directional light for subsequent draws.
func (cr *CityRenderer) SetLightDir(dir math.Vec3) {
	cr.lightDir = dir.Normalize().Array32()
}

// Invalidate makes the next DrawBlocks rebuild the geometry.
func (cr *CityRenderer) Invalidate() {
	cr.dirty = true
}

// DrawBlocks draws blocks, uploading them first if invalidated.
func (cr *CityRenderer) DrawBlocks(blocks []city.Block) {
	if cr.dirty {
		cr.upload(blocks)
		cr.dirty = false
	}
	if cr.vao == 0 || cr.indexCount == 0 {
		return
	}

	gl.UseProgram(cr.program)
	gl.UniformMatrix4fv(cr.locViewProj, 1, false, cr.viewProj.Ptr())
	gl.Uniform3f(cr.locLightDir, cr.lightDir[0], cr.lightDir[1], cr.lightDir[2])

	gl.BindVertexArray(cr.vao)
	gl.DrawElements(gl.TRIANGLES, cr.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

func (cr *CityRenderer) upload(blocks []city.Block) {
	cr.clear()

	vertices, indices := BlockMesh(blocks)
	if len(indices) == 0 {
		return
	}

	gl.GenVertexArrays(1, &cr.vao)
	gl.BindVertexArray(cr.vao)

	gl.GenBuffers(1, &cr.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, cr.vbo)
	vertexSize := int(unsafe.Sizeof(CityVertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*vertexSize, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	// Position (location 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(vertexSize), 0)
	gl.EnableVertexAttribArray(0)

	// Normal (location 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, int32(vertexSize), 3*4)
	gl.EnableVertexAttribArray(1)

	// Color (location 2)
	gl.VertexAttribPointerWithOffset(2, 3, gl.FLOAT, false, int32(vertexSize), 6*4)
	gl.EnableVertexAttribArray(2)

	gl.GenBuffers(1, &cr.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, cr.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	cr.indexCount = int32(len(indices))
}

func (cr *CityRenderer) clear() {
	if cr.vao != 0 {
		gl.DeleteVertexArrays(1, &cr.vao)
		cr.vao = 0
	}
	if cr.vbo != 0 {
		gl.DeleteBuffers(1, &cr.vbo)
		cr.vbo = 0
	}
	if cr.ebo != 0 {
		gl.DeleteBuffers(1, &cr.ebo)
		cr.ebo = 0
	}
	cr.indexCount = 0
}

// Destroy releases all resources.
func (cr *CityRenderer) Destroy() {
	cr.clear()
	if cr.program != 0 {
		gl.DeleteProgram(cr.program)
		cr.program = 0
	}
}
