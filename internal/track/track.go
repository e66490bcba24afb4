// Package track owns a generated track: its centerline curve, the obstacle
// field around it and the compiled geometry cache.
package track

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/sweeptrack/internal/curve"
	"github.com/Faultbox/sweeptrack/internal/logger"
	"github.com/Faultbox/sweeptrack/internal/rendercache"
	"github.com/Faultbox/sweeptrack/internal/sweep"
	"github.com/Faultbox/sweeptrack/pkg/spline"
)

const (
	// FieldMargin is added to each track extent when sizing the field.
	FieldMargin = 20.0
	// FieldResolution is the grid resolution of a new field.
	FieldResolution = 64
	// CarveDensity multiplies the sweep sample count for the carving centerline.
	CarveDensity = 10
)

// ErrNotGenerated is returned by operations that need a generated track.
var ErrNotGenerated = errors.New("track: not generated")

// Settings hold the sweep parameters that stay fixed across frames.
type Settings struct {
	Profile       sweep.Profile
	Sweep         sweep.Options
	Degree        int
	GlobalAzimuth float64
	GlobalTwist   float64
	Margin        float64
	Resolution    int
}

// DefaultSettings returns the road profile with stock texturing and a
// cubic centerline.
func DefaultSettings() Settings {
	return Settings{
		Profile:    sweep.DefaultRoadProfile(),
		Sweep:      sweep.DefaultOptions(),
		Degree:     spline.DefaultDegree,
		Margin:     FieldMargin,
		Resolution: FieldResolution,
	}
}

// Track is a swept track and its surroundings. Not safe for concurrent use;
// Regenerate and Render are expected to run on the render thread.
type Track struct {
	Settings Settings

	gen      Generator
	newField FieldFactory
	compile  Compiler

	curve   *curve.Curve
	sampler *curve.Sampler
	field   Field

	cache         *rendercache.Cache
	renderingCity bool

	log *zap.Logger
}

// New creates an uninitialized track. Call Generate before rendering.
func New(gen Generator, newField FieldFactory, compile Compiler, settings Settings) *Track {
	return &Track{
		Settings: settings,
		gen:      gen,
		newField: newField,
		compile:  compile,
		cache:    rendercache.New(),
		log:      logger.Named("track"),
	}
}

// Generate pulls control points from the generator and creates a field
// sized to the layout plus the margin. City rendering starts disabled.
func (t *Track) Generate() error {
	points := t.gen.ControlPoints()
	if len(points) == 0 {
		t.log.Warn("generator returned no control points")
		return fmt.Errorf("generate track: %w", spline.ErrNoControlPoints)
	}

	c := curve.New(points)
	if t.Settings.Degree > 0 {
		c.Degree = t.Settings.Degree
	}
	sampler := curve.NewSampler(c)
	sampler.GlobalAzimuth = t.Settings.GlobalAzimuth
	sampler.GlobalTwist = t.Settings.GlobalTwist

	xWidth := t.gen.XExtent() + t.Settings.Margin
	zWidth := t.gen.ZExtent() + t.Settings.Margin

	t.curve = c
	t.sampler = sampler
	t.field = t.newField(xWidth, zWidth, t.Settings.Resolution)
	t.renderingCity = false

	t.log.Info("track generated",
		zap.Int("control_points", len(points)),
		zap.Float64("field_x", xWidth),
		zap.Float64("field_z", zWidth),
	)
	return nil
}

// Regenerate replaces the layout and field, then drops all compiled
// geometry. The previous field is returned for the caller to dispose of; it
// is nil if the track had not been generated. On error the track is left
// unchanged.
func (t *Track) Regenerate() (Field, error) {
	old := t.field
	if err := t.Generate(); err != nil {
		return nil, err
	}
	t.cache.Invalidate()
	return old, nil
}

// Ready reports whether Generate has succeeded.
func (t *Track) Ready() bool {
	return t.curve != nil
}

// Curve returns the current centerline, nil before Generate.
func (t *Track) Curve() *curve.Curve {
	return t.curve
}

// Sampler returns the current centerline sampler, nil before Generate.
func (t *Track) Sampler() *curve.Sampler {
	return t.sampler
}

// Field returns the live obstacle field.
func (t *Track) Field() Field {
	return t.field
}

// Cache returns the compiled geometry cache.
func (t *Track) Cache() *rendercache.Cache {
	return t.cache
}

// BuildMesh samples the centerline with opts and sweeps the profile along
// it. It touches no GPU or cache state.
func (t *Track) BuildMesh(opts RenderOptions) (*sweep.Mesh, error) {
	if !t.Ready() {
		return nil, ErrNotGenerated
	}

	total := len(t.curve.Points) * opts.PathSamplesPerPt
	polyline, err := t.curve.Polyline(total)
	if err != nil {
		return nil, fmt.Errorf("sample centerline: %w", err)
	}

	sweepOpts := t.Settings.Sweep
	sweepOpts.CrossSectionScale = opts.CrossSectionScale

	mesh, err := sweep.Generate(t.sampler, polyline, t.Settings.Profile, sweepOpts)
	if err != nil {
		return nil, err
	}
	return mesh, nil
}

// Carve removes the field obstacles along a centerline sampled density
// times finer than the sweep.
func (t *Track) Carve(opts RenderOptions, density int) error {
	if !t.Ready() {
		return ErrNotGenerated
	}
	total := len(t.curve.Points) * opts.PathSamplesPerPt * density
	polyline, err := t.curve.Polyline(total)
	if err != nil {
		return fmt.Errorf("sample carve path: %w", err)
	}
	t.field.Carve(curve.Positions(polyline))
	return nil
}

// Render draws the track for sh, compiling it on first use. Toggling
// RenderCity drops all compiled geometry. A failed build is logged, leaves
// the cache untouched and draws nothing.
func (t *Track) Render(sh Shader, opts RenderOptions) error {
	if !t.Ready() {
		return ErrNotGenerated
	}

	if t.renderingCity != opts.RenderCity {
		t.renderingCity = opts.RenderCity
		t.cache.Invalidate()
	}

	h, err := t.cache.Get(sh.ID(), func() (rendercache.Handle, error) {
		return t.build(sh, opts)
	})
	if err != nil {
		t.log.Warn("skipping track frame", zap.Int("shader", sh.ID()), zap.Error(err))
		return err
	}
	h.Draw()
	return nil
}

func (t *Track) build(sh Shader, opts RenderOptions) (rendercache.Handle, error) {
	sh.Set()

	mesh, err := t.BuildMesh(opts)
	if err != nil {
		return nil, err
	}

	// Carve before compiling so the compiled city already has the road cut out
	if err := t.Carve(opts, CarveDensity); err != nil {
		return nil, err
	}

	h, err := t.compile(mesh, sh, t.field, t.renderingCity)
	if err != nil {
		return nil, fmt.Errorf("compile track: %w", err)
	}

	t.log.Debug("track compiled",
		zap.Int("shader", sh.ID()),
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("triangles", mesh.TriangleCount()),
		zap.Bool("city", t.renderingCity),
	)
	return h, nil
}
