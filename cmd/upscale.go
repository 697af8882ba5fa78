package cmd

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/rm-hull/anime4k/internal"
	"github.com/rm-hull/anime4k/internal/config"
	"github.com/rm-hull/anime4k/internal/kernel"
	"github.com/rm-hull/anime4k/internal/png"
	"github.com/rm-hull/anime4k/internal/png/stage"
	"github.com/rm-hull/anime4k/internal/raster"
	"github.com/sirupsen/logrus"
)

type UpscaleOptions struct {
	Input   string
	Output  string
	Compare string
	DumpDir string
	Config  config.Config
}

// Upscale resamples Input by the configured scale, sharpens it and writes a
// PNG to Output. Compare, when set, receives an APNG flipping between the
// plain resample and the sharpened result.
func Upscale(ctx context.Context, opts UpscaleOptions, logger logrus.FieldLogger) error {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return err
	}

	img, err := load(ctx, opts.Input, logger)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"input":  opts.Input,
		"format": img.Format,
		"size":   fmt.Sprintf("%dx%d", img.Bounds.Dx(), img.Bounds.Dy()),
	}).Info("Loaded")

	err = img.Pipeline(ctx,
		&stage.GaussianBlurStage{Sigma: cfg.DenoiseSigma},
		&stage.ResampleStage{Scale: cfg.Scale, Filter: cfg.Filter},
	)
	if err != nil {
		return fmt.Errorf("failed to resample: %w", err)
	}
	baseline := img.Img

	kernelOpts := cfg.KernelOptions()
	if opts.DumpDir != "" {
		if err := os.MkdirAll(opts.DumpDir, 0755); err != nil {
			return fmt.Errorf("failed to create dump directory: %w", err)
		}
		kernelOpts.Observer = dumpStage(opts.DumpDir, logger)
	}

	start := time.Now()
	sharpen := &stage.SharpenStage{Kernels: kernel.New(cfg.Workers), Options: kernelOpts}
	if err := img.Pipeline(ctx, sharpen); err != nil {
		return fmt.Errorf("failed to sharpen: %w", err)
	}
	logger.WithFields(logrus.Fields{
		"passes":            kernelOpts.Passes,
		"push_strength":     kernelOpts.PushStrength,
		"gradient_strength": kernelOpts.GradientStrength,
		"elapsed":           time.Since(start).String(),
	}).Info("Sharpened")

	if err := imgio.Save(opts.Output, img.Img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("failed to write %s: %w", opts.Output, err)
	}
	logger.WithField("output", opts.Output).Info("Saved")

	if opts.Compare != "" {
		data, err := png.Animate([]image.Image{baseline, img.Img}, 1.0)
		if err != nil {
			return fmt.Errorf("failed to build comparison: %w", err)
		}
		if err := os.WriteFile(opts.Compare, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", opts.Compare, err)
		}
		logger.WithField("compare", opts.Compare).Info("Saved comparison")
	}
	return nil
}

func load(ctx context.Context, source string, logger logrus.FieldLogger) (*png.PngImage, error) {
	if internal.IsRemote(source) {
		body, err := internal.NewImageFetcher(logger).Fetch(ctx, source)
		if err != nil {
			return nil, err
		}
		defer func() {
			_ = body.Close()
		}()
		img, err := png.NewPngFromReader(body)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", source, err)
		}
		return img, nil
	}

	img, err := imgio.Open(source)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", source, err)
	}
	p := png.NewPng(img)
	p.Format = strings.ToLower(strings.TrimPrefix(filepath.Ext(source), "."))
	return p, nil
}

// dumpStage saves every intermediate buffer as <pass>-<stage>.png. The alpha
// channel holds luminance or gradient data rather than opacity in most of
// them, which is the point of looking.
func dumpStage(dir string, logger logrus.FieldLogger) kernel.Observer {
	return func(pass int, name string, img *raster.Image) {
		path := filepath.Join(dir, fmt.Sprintf("%d-%s.png", pass, name))
		if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
			logger.WithError(err).WithField("path", path).Warn("Failed to dump stage")
		}
	}
}
