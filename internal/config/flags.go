package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagSeed       = flag.Int64("seed", 0, "Random layout seed")
	flagPoints     = flag.String("points", "", "Control point file (YAML)")
	flagSamples    = flag.Int("samples", 0, "Centerline samples per control point")
	flagFrameMode  = flag.String("frames", "", "Frame mode: azimuth or rmf")
	flagCity       = flag.Bool("city", false, "Render the city")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWindowed {
		cfg.Window.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	if *flagSeed != 0 {
		cfg.Track.Seed = *flagSeed
	}
	if *flagPoints != "" {
		cfg.Track.ControlPoints = *flagPoints
	}
	if *flagSamples > 0 {
		cfg.Sweep.PathSamplesPerPt = *flagSamples
	}
	if *flagFrameMode != "" {
		cfg.Sweep.FrameMode = *flagFrameMode
	}
	if *flagCity {
		cfg.Render.RenderCity = true
	}
}
