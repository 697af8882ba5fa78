// Package kernel implements the per-pixel stages of the edge-directed
// sharpening pipeline. Every stage reads a frozen input image and writes a
// freshly allocated output, fanning rows out across a parallel.Pool.
package kernel

import (
	"github.com/rm-hull/anime4k/internal/parallel"
	"github.com/rm-hull/anime4k/internal/raster"
)

// Kernels runs the pipeline stages on its own worker pool.
type Kernels struct {
	pool *parallel.Pool
}

// New returns Kernels backed by a pool of the given size (0 means GOMAXPROCS).
func New(workers int) *Kernels {
	return &Kernels{pool: parallel.NewPool(workers)}
}

var defaultKernels = New(0)

func ExtractLuminance(img *raster.Image) *raster.Image {
	return defaultKernels.ExtractLuminance(img)
}

func PushColor(img *raster.Image, strength int) *raster.Image {
	return defaultKernels.PushColor(img, strength)
}

func ExtractGradient(img *raster.Image) *raster.Image {
	return defaultKernels.ExtractGradient(img)
}

func PushGradient(img *raster.Image, strength int) *raster.Image {
	return defaultKernels.PushGradient(img, strength)
}

// each applies fn to every pixel of src, writing the result at the same
// position in a new image.
func (k *Kernels) each(src *raster.Image, fn func(x, y int) raster.Pixel) *raster.Image {
	dst := raster.NewLike(src)
	k.pool.Rows(src.Height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < src.Width; x++ {
				dst.SetPixel(x, y, fn(x, y))
			}
		}
	})
	return dst
}
