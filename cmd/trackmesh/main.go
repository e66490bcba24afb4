// Package main generates a track without a display and writes the swept
// mesh as Wavefront OBJ.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/sweeptrack/internal/city"
	"github.com/Faultbox/sweeptrack/internal/config"
	"github.com/Faultbox/sweeptrack/internal/logger"
	"github.com/Faultbox/sweeptrack/internal/sweep"
	"github.com/Faultbox/sweeptrack/internal/track"
	"github.com/Faultbox/sweeptrack/internal/trackgen"
)

var (
	flagOut        = flag.String("out", "track.obj", "OBJ output path")
	flagSavePoints = flag.String("save-points", "", "Write the control points to this YAML file")
	flagSaveConfig = flag.String("save-config", "", "Write the resolved settings to this YAML file")
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Error("trackmesh failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	gen, err := trackgen.Open(cfg.Track.ControlPoints, cfg.Track.Seed)
	if err != nil {
		return fmt.Errorf("open layout: %w", err)
	}

	t := track.New(gen, city.Factory(cfg.Track.Seed, nil), nil, cfg.TrackSettings())
	if err := t.Generate(); err != nil {
		return err
	}

	opts := cfg.RenderOptions()
	mesh, err := t.BuildMesh(opts)
	if err != nil {
		return fmt.Errorf("build mesh: %w", err)
	}

	if opts.RenderCity {
		if err := t.Carve(opts, track.CarveDensity); err != nil {
			return fmt.Errorf("carve city: %w", err)
		}
		if c, ok := t.Field().(*city.City); ok {
			logger.Info("city carved", zap.Int("blocks", c.Len()))
		}
	}

	f, err := os.Create(*flagOut)
	if err != nil {
		return err
	}
	if err := sweep.WriteOBJ(f, mesh, "track"); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", *flagOut, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	if *flagSavePoints != "" {
		if err := trackgen.SaveFile(*flagSavePoints, t.Curve().Points); err != nil {
			return fmt.Errorf("save control points: %w", err)
		}
	}

	if *flagSaveConfig != "" {
		saved := *cfg
		if *flagSavePoints != "" {
			// Reproduce this exact layout rather than re-rolling the seed
			saved.Track.ControlPoints = *flagSavePoints
		}
		if err := saved.SaveTo(*flagSaveConfig); err != nil {
			return err
		}
	}

	logger.Info("mesh written",
		zap.String("path", *flagOut),
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("triangles", mesh.TriangleCount()),
		zap.Float32("min_y", mesh.Bounds.Min[1]),
		zap.Float32("max_y", mesh.Bounds.Max[1]),
	)
	return nil
}
