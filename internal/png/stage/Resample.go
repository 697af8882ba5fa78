package stage

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/anthonynsimon/bild/transform"
	"github.com/rm-hull/anime4k/internal/png"
	"golang.org/x/image/draw"
)

// Filters understood by ResampleStage.
const (
	FilterCatmullRom = "catmullrom"
	FilterBicubic    = "bicubic"
	FilterBilinear   = "bilinear"
	FilterNearest    = "nearest"
	FilterLanczos    = "lanczos"
	FilterMitchell   = "mitchell"
)

// Filters lists the accepted filter names, default first.
var Filters = []string{FilterCatmullRom, FilterBicubic, FilterBilinear, FilterNearest, FilterLanczos, FilterMitchell}

type ResampleStage struct {
	Scale  float64
	Filter string
}

// Process upscales the image by Scale, truncating the target size to whole
// pixels. This is the baseline the sharpening passes work from, bicubic
// (Catmull-Rom) unless another filter is named.
func (s *ResampleStage) Process(_ context.Context, p *png.PngImage) error {
	if s.Scale <= 0 {
		return fmt.Errorf("scale must be positive, got %v", s.Scale)
	}

	width := int(float64(p.Bounds.Dx()) * s.Scale)
	height := int(float64(p.Bounds.Dy()) * s.Scale)
	if width <= 0 || height <= 0 {
		return fmt.Errorf("scale %v reduces %dx%d image to nothing", s.Scale, p.Bounds.Dx(), p.Bounds.Dy())
	}

	switch strings.ToLower(s.Filter) {
	case "", FilterCatmullRom, FilterBicubic:
		p.Replace(scaleWith(draw.CatmullRom, p, width, height))
	case FilterBilinear:
		p.Replace(scaleWith(draw.BiLinear, p, width, height))
	case FilterNearest:
		p.Replace(scaleWith(draw.NearestNeighbor, p, width, height))
	case FilterLanczos:
		p.Replace(transform.Resize(p.Img, width, height, transform.Lanczos))
	case FilterMitchell:
		p.Replace(transform.Resize(p.Img, width, height, transform.MitchellNetravali))
	default:
		return fmt.Errorf("unknown resample filter %q", s.Filter)
	}
	return nil
}

func scaleWith(scaler draw.Scaler, p *png.PngImage, width, height int) image.Image {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	scaler.Scale(dst, dst.Bounds(), p.Img, p.Bounds, draw.Src, nil)
	return dst
}
