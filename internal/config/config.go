// Package config handles track and viewer configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/sweeptrack/internal/curve"
	"github.com/Faultbox/sweeptrack/internal/sweep"
	"github.com/Faultbox/sweeptrack/internal/track"
	"github.com/Faultbox/sweeptrack/pkg/spline"
)

// Config holds all settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Sweep   SweepConfig   `yaml:"sweep"`
	Track   TrackConfig   `yaml:"track"`
	Render  RenderConfig  `yaml:"render"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings for the viewer.
type WindowConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// SweepConfig holds centerline sampling and cross-section settings.
type SweepConfig struct {
	PathSamplesPerPt  int     `yaml:"path_samples_per_pt"`
	CrossSectionScale float64 `yaml:"cross_section_scale"`
	XsectSamplesPerPt int     `yaml:"xsect_samples_per_pt"`
	LengthRepeats     float64 `yaml:"length_repeats"`
	WidthRepeats      float64 `yaml:"width_repeats"`
	GlobalTwist       float64 `yaml:"global_twist"`   // radians over the whole loop
	GlobalAzimuth     float64 `yaml:"global_azimuth"` // radians
	FrameMode         string  `yaml:"frame_mode"`     // "azimuth" or "rmf"
	Degree            int     `yaml:"degree"`
}

// TrackConfig holds layout generation settings.
type TrackConfig struct {
	Seed            int64   `yaml:"seed"`
	ControlPoints   string  `yaml:"control_points"` // YAML file; empty for a random layout
	Margin          float64 `yaml:"margin"`
	FieldResolution int     `yaml:"field_resolution"`
}

// RenderConfig holds viewer rendering settings.
type RenderConfig struct {
	RenderCity    bool    `yaml:"render_city"`
	FOV           float32 `yaml:"fov"`           // degrees
	SunAzimuth    float64 `yaml:"sun_azimuth"`   // degrees
	SunElevation  float64 `yaml:"sun_elevation"` // degrees
	ScreenshotDir string  `yaml:"screenshot_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Sweep: SweepConfig{
			PathSamplesPerPt:  10,
			CrossSectionScale: 1,
			XsectSamplesPerPt: 1,
			LengthRepeats:     50,
			WidthRepeats:      1,
			FrameMode:         string(curve.FrameAzimuth),
			Degree:            spline.DefaultDegree,
		},
		Track: TrackConfig{
			Seed:            1,
			Margin:          track.FieldMargin,
			FieldResolution: track.FieldResolution,
		},
		Render: RenderConfig{
			RenderCity:    false,
			FOV:           60,
			SunAzimuth:    55,
			SunElevation:  50,
			ScreenshotDir: "screenshots",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports settings that cannot produce a track.
func (c *Config) Validate() error {
	if c.Sweep.PathSamplesPerPt < 1 {
		return fmt.Errorf("sweep.path_samples_per_pt must be positive, got %d", c.Sweep.PathSamplesPerPt)
	}
	if c.Sweep.Degree < 1 {
		return fmt.Errorf("sweep.degree must be positive, got %d", c.Sweep.Degree)
	}
	switch curve.FrameMode(c.Sweep.FrameMode) {
	case curve.FrameAzimuth, curve.FrameRotationMinimizing:
	default:
		return fmt.Errorf("sweep.frame_mode: unknown mode %q", c.Sweep.FrameMode)
	}
	if c.Track.FieldResolution < 1 {
		return fmt.Errorf("track.field_resolution must be positive, got %d", c.Track.FieldResolution)
	}
	return nil
}

// TrackSettings converts the sweep and track sections for track.New.
func (c *Config) TrackSettings() track.Settings {
	s := track.DefaultSettings()
	s.Sweep = sweep.Options{
		LengthRepeats:     c.Sweep.LengthRepeats,
		WidthRepeats:      c.Sweep.WidthRepeats,
		CrossSectionScale: c.Sweep.CrossSectionScale,
		FrameMode:         curve.FrameMode(c.Sweep.FrameMode),
	}
	s.Degree = c.Sweep.Degree
	s.GlobalAzimuth = c.Sweep.GlobalAzimuth
	s.GlobalTwist = c.Sweep.GlobalTwist
	s.Margin = c.Track.Margin
	s.Resolution = c.Track.FieldResolution
	return s
}

// RenderOptions converts the sweep and render sections for Track.Render.
func (c *Config) RenderOptions() track.RenderOptions {
	return track.RenderOptions{
		PathSamplesPerPt:  c.Sweep.PathSamplesPerPt,
		CrossSectionScale: c.Sweep.CrossSectionScale,
		XsectSamplesPerPt: c.Sweep.XsectSamplesPerPt,
		RenderCity:        c.Render.RenderCity,
	}
}
