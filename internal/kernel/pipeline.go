package kernel

import (
	"context"
	"errors"
	"fmt"

	"github.com/rm-hull/anime4k/internal/raster"
)

var ErrParameterOutOfRange = errors.New("parameter out of range")

const DefaultPasses = 2

// Stage names reported to an Observer.
const (
	StageLuminance    = "luminance"
	StagePushColor    = "push"
	StageGradient     = "gradient"
	StagePushGradient = "push-gradient"
)

// Observer is called after every stage with the 1-based pass number. The
// image must be treated as read-only.
type Observer func(pass int, stage string, img *raster.Image)

type Options struct {
	Passes           int
	PushStrength     int
	GradientStrength int
	Observer         Observer
}

// DefaultStrengths derives push strengths from the overall upscale factor:
// scale/6 for the colour push and scale/2 for the gradient push, each mapped
// onto [0,255].
func DefaultStrengths(scale float64) (push, gradient int) {
	return clampStrength(int(scale * 0xFF / 6)), clampStrength(int(scale * 0xFF / 2))
}

// DefaultOptions returns the options used for an image upscaled by scale.
func DefaultOptions(scale float64) Options {
	push, gradient := DefaultStrengths(scale)
	return Options{
		Passes:           DefaultPasses,
		PushStrength:     push,
		GradientStrength: gradient,
	}
}

func (o Options) Validate() error {
	if o.Passes < 1 {
		return fmt.Errorf("%w: passes must be at least 1, got %d", ErrParameterOutOfRange, o.Passes)
	}
	if o.PushStrength < 0 || o.PushStrength > 0xFF {
		return fmt.Errorf("%w: push strength must be in [0,255], got %d", ErrParameterOutOfRange, o.PushStrength)
	}
	if o.GradientStrength < 0 || o.GradientStrength > 0xFF {
		return fmt.Errorf("%w: gradient strength must be in [0,255], got %d", ErrParameterOutOfRange, o.GradientStrength)
	}
	return nil
}

func RunPipeline(ctx context.Context, img *raster.Image, opts Options) (*raster.Image, error) {
	return defaultKernels.RunPipeline(ctx, img, opts)
}

// RunPipeline sharpens an already upscaled image. Input is validated before
// any work starts. Cancellation is only honoured between stages; a stage that
// has started always runs to completion.
func (k *Kernels) RunPipeline(ctx context.Context, img *raster.Image, opts Options) (*raster.Image, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	stages := []struct {
		name string
		run  func(*raster.Image) *raster.Image
	}{
		{StageLuminance, k.ExtractLuminance},
		{StagePushColor, func(in *raster.Image) *raster.Image { return k.PushColor(in, opts.PushStrength) }},
		{StageGradient, k.ExtractGradient},
		{StagePushGradient, func(in *raster.Image) *raster.Image { return k.PushGradient(in, opts.GradientStrength) }},
	}

	cur := img
	for pass := 1; pass <= opts.Passes; pass++ {
		for _, stage := range stages {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("pipeline interrupted before %s (pass %d): %w", stage.name, pass, err)
			}
			cur = stage.run(cur)
			if opts.Observer != nil {
				opts.Observer(pass, stage.name, cur)
			}
		}
	}
	return cur, nil
}
