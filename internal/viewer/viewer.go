// Package viewer implements the interactive track viewer main loop.
package viewer

import (
	"errors"
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/sweeptrack/internal/config"
	"github.com/Faultbox/sweeptrack/internal/engine/debug"
	"github.com/Faultbox/sweeptrack/internal/engine/input"
	"github.com/Faultbox/sweeptrack/internal/engine/lighting"
	"github.com/Faultbox/sweeptrack/internal/engine/renderer"
	"github.com/Faultbox/sweeptrack/internal/engine/scene"
	"github.com/Faultbox/sweeptrack/internal/engine/window"
	"github.com/Faultbox/sweeptrack/internal/logger"
	"github.com/Faultbox/sweeptrack/internal/track"
	"github.com/Faultbox/sweeptrack/internal/trackgen"
)

// Title is the window title.
const Title = "SweepTrack"

// Viewer is the main viewer instance.
type Viewer struct {
	cfg     *config.Config
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	scene    *scene.Scene
	shots    *debug.Screenshots

	track    *track.Track
	layout   *trackgen.File
	watcher  *trackgen.Watcher
	options  track.RenderOptions
	dragging bool

	log *zap.Logger
}

// New opens the window, builds the scene and generates the first layout.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		cfg:     cfg,
		options: cfg.RenderOptions(),
		log:     logger.Named("viewer"),
	}
	v.log.Info("initializing viewer",
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
		zap.Int64("seed", cfg.Track.Seed),
	)

	gen, err := trackgen.Open(cfg.Track.ControlPoints, cfg.Track.Seed)
	if err != nil {
		return nil, fmt.Errorf("open layout: %w", err)
	}

	// Create window (this also creates OpenGL context)
	v.window, err = window.New(window.Config{
		Title:      Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	width, height := v.window.DrawableSize()
	v.renderer, err = renderer.New(renderer.Config{
		Width:      width,
		Height:     height,
		ClearColor: [3]float32{0.55, 0.7, 0.85},
	})
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	sceneCfg := scene.DefaultConfig()
	sceneCfg.FOV = cfg.Render.FOV
	sceneCfg.Seed = cfg.Track.Seed
	sceneCfg.Sun = lighting.Sun{Azimuth: cfg.Render.SunAzimuth, Elevation: cfg.Render.SunElevation}
	v.scene, err = scene.New(sceneCfg)
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to create scene: %w", err)
	}
	v.scene.Resize(width, height)

	v.track = track.New(gen, v.scene.FieldFactory(cfg.Track.Seed), v.scene.Compiler(), cfg.TrackSettings())
	if err := v.track.Generate(); err != nil {
		v.Close()
		return nil, err
	}
	v.fitCamera()

	if f, ok := gen.(*trackgen.File); ok {
		v.layout = f
		if v.watcher, err = trackgen.Watch(f.Path); err != nil {
			v.log.Warn("control point file will not be reloaded", zap.Error(err))
		}
	}

	v.input = input.New()
	v.shots = debug.NewScreenshots(cfg.Render.ScreenshotDir, "sweeptrack")

	v.log.Info("viewer initialized successfully")
	return v, nil
}

// Run starts the main loop.
func (v *Viewer) Run() error {
	v.running = true

	// Timing
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting main loop")

	for v.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		// 1. Process input
		if v.input.Update() {
			v.running = false
			break
		}
		for _, event := range v.input.Events() {
			v.handleEvent(event)
		}
		v.handleMovement()
		v.reloadLayout()

		// 2. Render
		if err := v.render(); err != nil {
			return fmt.Errorf("render error: %w", err)
		}

		// 3. Present (swap buffers)
		v.window.SwapBuffers()

		// FPS counter
		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.log.Debug("fps", zap.Int("count", frameCount), zap.Float64("dt_ms", dt*1000))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) handleEvent(event input.Event) {
	switch event.Type {
	case input.EventWindowResize:
		width, height := v.window.DrawableSize()
		v.renderer.Resize(width, height)
		v.scene.Resize(width, height)

	case input.EventKeyDown:
		switch event.Key {
		case sdl.SCANCODE_ESCAPE:
			v.running = false
		case sdl.SCANCODE_R:
			v.regenerate()
		case sdl.SCANCODE_C:
			v.options.RenderCity = !v.options.RenderCity
			v.log.Info("city rendering toggled", zap.Bool("city", v.options.RenderCity))
		case sdl.SCANCODE_F:
			v.renderer.ToggleWireframe()
		case sdl.SCANCODE_HOME:
			v.fitCamera()
		case sdl.SCANCODE_F12:
			v.screenshot()
		}

	case input.EventMouseDown:
		if event.Button == sdl.BUTTON_LEFT {
			v.dragging = true
		}
	case input.EventMouseUp:
		if event.Button == sdl.BUTTON_LEFT {
			v.dragging = false
		}
	case input.EventMouseMove:
		if v.dragging {
			v.scene.Camera.HandleDrag(float32(event.DeltaX), float32(event.DeltaY))
		}
	case input.EventMouseWheel:
		v.scene.Camera.HandleZoom(event.Wheel)
	}
}

func (v *Viewer) handleMovement() {
	var forward, right, up float32
	if v.input.IsKeyDown(sdl.SCANCODE_W) {
		forward++
	}
	if v.input.IsKeyDown(sdl.SCANCODE_S) {
		forward--
	}
	if v.input.IsKeyDown(sdl.SCANCODE_D) {
		right++
	}
	if v.input.IsKeyDown(sdl.SCANCODE_A) {
		right--
	}
	if v.input.IsKeyDown(sdl.SCANCODE_E) {
		up++
	}
	if v.input.IsKeyDown(sdl.SCANCODE_Q) {
		up--
	}
	if forward != 0 || right != 0 || up != 0 {
		v.scene.Camera.HandleMovement(forward, right, up)
	}
}

// regenerate swaps in a new layout and field. The old field is dropped here;
// the city renderer rebuilds from the new one on the next compile.
func (v *Viewer) regenerate() {
	old, err := v.track.Regenerate()
	if err != nil {
		v.log.Error("regenerate failed, keeping current track", zap.Error(err))
		return
	}
	if old != nil {
		// The field holds no GPU state of its own; dropping the reference is enough
		v.log.Debug("dropping previous field")
	}
	v.scene.City.Invalidate()
	v.fitCamera()
}

// screenshot saves the last presented frame.
func (v *Viewer) screenshot() {
	pixels, width, height := v.renderer.ReadPixels()
	path, err := v.shots.Capture(pixels, width, height)
	if err != nil {
		v.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}

// reloadLayout regenerates the track after its control point file changes.
func (v *Viewer) reloadLayout() {
	if v.watcher == nil {
		return
	}
	select {
	case <-v.watcher.Changes():
	default:
		return
	}
	if err := v.layout.Reload(); err != nil {
		v.log.Warn("control point reload failed", zap.String("path", v.layout.Path), zap.Error(err))
		return
	}
	v.log.Info("control points reloaded", zap.String("path", v.layout.Path))
	v.regenerate()
}

func (v *Viewer) fitCamera() {
	lo, hi := v.track.Curve().Bounds()
	v.scene.FitTrack(lo, hi)
}

// render draws the current frame.
func (v *Viewer) render() error {
	v.renderer.Begin()
	v.scene.Frame()

	// A failed build is logged by the track and retried next frame
	if err := v.track.Render(v.scene.Program, v.options); errors.Is(err, track.ErrNotGenerated) {
		return err
	}

	v.renderer.End()
	return nil
}

// Close cleans up viewer resources.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.watcher != nil {
		v.watcher.Close()
	}
	if v.track != nil {
		v.track.Cache().Invalidate()
	}
	if v.scene != nil {
		v.scene.Destroy()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
