package stage

import (
	"context"
	"fmt"

	"github.com/rm-hull/anime4k/internal/kernel"
	"github.com/rm-hull/anime4k/internal/png"
	"github.com/rm-hull/anime4k/internal/raster"
)

type SharpenStage struct {
	Kernels *kernel.Kernels
	Options kernel.Options
}

// Process runs the luminance/push/gradient/push passes over the RGB of the
// image. The kernels use alpha as scratch space, so the incoming alpha, already
// resampled with the colour, is put back on the result.
func (s *SharpenStage) Process(ctx context.Context, p *png.PngImage) error {
	img, err := raster.FromImage(p.Img)
	if err != nil {
		return fmt.Errorf("failed to convert image: %w", err)
	}

	k := s.Kernels
	if k == nil {
		k = kernel.New(0)
	}

	out, err := k.RunPipeline(ctx, img, s.Options)
	if err != nil {
		return err
	}
	if !img.Opaque() {
		if err := out.CopyAlpha(img); err != nil {
			return fmt.Errorf("failed to restore alpha: %w", err)
		}
	}
	p.Replace(out.ToNRGBA())
	return nil
}
