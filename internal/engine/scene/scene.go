package scene

import (
	"fmt"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/sweeptrack/internal/city"
	"github.com/Faultbox/sweeptrack/internal/engine/camera"
	"github.com/Faultbox/sweeptrack/internal/engine/lighting"
	"github.com/Faultbox/sweeptrack/internal/engine/scene/shaders"
	"github.com/Faultbox/sweeptrack/internal/engine/shader"
	"github.com/Faultbox/sweeptrack/internal/engine/texture"
	"github.com/Faultbox/sweeptrack/internal/logger"
	"github.com/Faultbox/sweeptrack/internal/track"
	"github.com/Faultbox/sweeptrack/pkg/math"
)

// Clip planes of the viewer projection.
const (
	NearPlane = 0.5
	FarPlane  = 10000.0
)

// Config holds scene configuration.
type Config struct {
	FOV         float32 // degrees
	TextureSize int
	Seed        int64
	NormalDepth float64
	Sun         lighting.Sun
}

// DefaultConfig returns the viewer defaults.
func DefaultConfig() Config {
	return Config{
		FOV:         60,
		TextureSize: 256,
		Seed:        1,
		NormalDepth: 2,
		Sun:         lighting.DefaultSun(),
	}
}

// Scene bundles the GPU state needed to draw a track: the track program
// and its textures, the city renderer and the orbit camera.
type Scene struct {
	config Config

	Program *shader.Program
	City    *CityRenderer
	Camera  *camera.OrbitCamera

	LightDir math.Vec3

	textures [3]uint32
	aspect   float32
	log      *zap.Logger
}

// New compiles the shaders and uploads the procedural textures.
// Requires a current GL context.
func New(cfg Config) (*Scene, error) {
	program, err := shader.NewProgram(shaders.TrackVertexShader, shaders.TrackFragmentShader)
	if err != nil {
		return nil, err
	}

	cityRenderer, err := NewCityRenderer()
	if err != nil {
		program.Destroy()
		return nil, fmt.Errorf("scene: %w", err)
	}

	s := &Scene{
		config:   cfg,
		Program:  program,
		City:     cityRenderer,
		Camera:   camera.NewOrbitCamera(),
		LightDir: cfg.Sun.Direction(),
		aspect:   1,
		log:      logger.Named("scene"),
	}

	height := texture.Height(cfg.TextureSize, cfg.Seed)
	s.textures[0] = texture.Upload(texture.Road(cfg.TextureSize, cfg.Seed))
	s.textures[1] = texture.UploadGray(height)
	s.textures[2] = texture.Upload(texture.NormalMap(height, cfg.NormalDepth))
	program.SetTextures(s.textures[0], s.textures[1], s.textures[2])

	s.log.Info("scene ready",
		zap.Int("textureSize", cfg.TextureSize),
		zap.Int("program", program.ID()),
	)
	return s, nil
}

// Compiler returns the track.Compiler that uploads meshes for this scene.
func (s *Scene) Compiler() track.Compiler {
	return NewCompiler(s.City)
}

// FieldFactory returns a factory for cities drawn by this scene.
func (s *Scene) FieldFactory(seed int64) track.FieldFactory {
	return city.Factory(seed, s.City)
}

// Resize updates the projection aspect ratio.
func (s *Scene) Resize(width, height int) {
	if height <= 0 {
		return
	}
	s.aspect = float32(width) / float32(height)
}

// ViewProj returns projection times view for the current camera.
func (s *Scene) ViewProj() math.Mat4 {
	fov := s.config.FOV * math32.Pi / 180
	proj := math.Perspective(fov, s.aspect, NearPlane, FarPlane)
	return proj.Mul(s.Camera.ViewMatrix())
}

// Frame pushes the camera and light to both programs. Call once per frame
// before Track.Render.
func (s *Scene) Frame() {
	vp := s.ViewProj()
	s.Program.SetViewProj(vp)
	s.Program.SetLightDir(s.LightDir)
	s.Program.SetEyePos(s.Camera.Position())
	s.City.SetViewProj(vp)
	s.City.SetLightDir(s.LightDir)
}

// FitTrack points the camera at the box spanned by lo and hi.
func (s *Scene) FitTrack(lo, hi math.Vec3) {
	s.Camera.FitToBounds(
		float32(lo.X), float32(lo.Y), float32(lo.Z),
		float32(hi.X), float32(hi.Y), float32(hi.Z),
	)
}

// Destroy frees programs and textures.
func (s *Scene) Destroy() {
	texture.Delete(s.textures[:]...)
	s.textures = [3]uint32{}
	s.City.Destroy()
	s.Program.Destroy()
}
