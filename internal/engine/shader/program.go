package shader

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/sweeptrack/pkg/math"
)

// Vertex attribute names shared by the track shaders.
const (
	AttribPosition  = "aPosition"
	AttribNormal    = "aNormal"
	AttribTexCoord  = "aTexCoord"
	AttribTangent   = "aTangent"
	AttribBitangent = "aBitangent"
)

// Program is a linked track shader with its textures. It satisfies the
// shader interface expected by the track package.
type Program struct {
	id uint32

	locViewProj int32
	locLightDir int32
	locEyePos   int32
	locTextures [3]int32

	tangentAttrib   int32
	bitangentAttrib int32

	// Textures bound to units 0..2: color, height, normal
	textures [3]uint32

	viewProj math.Mat4
	lightDir [3]float32
	eyePos   [3]float32
}

// NewProgram compiles and links a track program.
func NewProgram(vertexSrc, fragmentSrc string) (*Program, error) {
	id, err := CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("track program: %w", err)
	}

	p := &Program{
		id:              id,
		locViewProj:     GetUniform(id, "uViewProj"),
		locLightDir:     GetUniform(id, "uLightDir"),
		locEyePos:       GetUniform(id, "uEyePos"),
		tangentAttrib:   GetAttrib(id, AttribTangent),
		bitangentAttrib: GetAttrib(id, AttribBitangent),
		viewProj:        math.Identity(),
		lightDir:        [3]float32{0.3, 1, 0.2},
	}
	p.locTextures[0] = GetUniform(id, "uTextureMap")
	p.locTextures[1] = GetUniform(id, "uHeightMap")
	p.locTextures[2] = GetUniform(id, "uNormalMap")
	return p, nil
}

// SetTextures assigns the color, height and normal maps.
func (p *Program) SetTextures(color, height, normal uint32) {
	p.textures = [3]uint32{color, height, normal}
}

// SetViewProj sets the matrix uploaded by the next Set.
func (p *Program) SetViewProj(m math.Mat4) {
	p.viewProj = m
}

// SetLightDir sets the directional light uploaded by the next Set.
func (p *Program) SetLightDir(dir math.Vec3) {
	p.lightDir = dir.Normalize().Array32()
}

// SetEyePos sets the camera position uploaded by the next Set.
func (p *Program) SetEyePos(pos math.Vec3) {
	p.eyePos = pos.Array32()
}

// Set binds the program, its uniforms and textures.
func (p *Program) Set() {
	gl.UseProgram(p.id)
	gl.UniformMatrix4fv(p.locViewProj, 1, false, p.viewProj.Ptr())
	gl.Uniform3f(p.locLightDir, p.lightDir[0], p.lightDir[1], p.lightDir[2])
	gl.Uniform3f(p.locEyePos, p.eyePos[0], p.eyePos[1], p.eyePos[2])

	// Bind the maps in reverse so unit 0 stays active
	for unit := len(p.textures) - 1; unit >= 0; unit-- {
		gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
		gl.BindTexture(gl.TEXTURE_2D, p.textures[unit])
		gl.Uniform1i(p.locTextures[unit], int32(unit))
	}
}

// ID returns the GL program name.
func (p *Program) ID() int {
	return int(p.id)
}

// TangentAttrib returns the tangent attribute location, -1 if unused.
func (p *Program) TangentAttrib() int32 {
	return p.tangentAttrib
}

// BitangentAttrib returns the bitangent attribute location, -1 if unused.
func (p *Program) BitangentAttrib() int32 {
	return p.bitangentAttrib
}

// Destroy deletes the program. Textures are owned by the caller.
func (p *Program) Destroy() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}
