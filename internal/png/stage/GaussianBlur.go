package stage

import (
	"context"

	"github.com/anthonynsimon/bild/blur"
	"github.com/rm-hull/anime4k/internal/png"
)

type GaussianBlurStage struct {
	Sigma float64
}

// Process applies a Gaussian blur to the image using the specified Sigma value.
// Run before resampling it takes the edge off compression noise, which the
// push passes would otherwise sharpen. A Sigma of zero leaves the image alone.
func (s *GaussianBlurStage) Process(_ context.Context, p *png.PngImage) error {
	if s.Sigma <= 0 {
		return nil
	}
	p.Replace(blur.Gaussian(p.Img, s.Sigma))
	return nil
}
