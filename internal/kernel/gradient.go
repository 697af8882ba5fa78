package kernel

import (
	"math"

	"github.com/rm-hull/anime4k/internal/raster"
)

// ExtractGradient replaces the luminance in alpha with an inverted Sobel
// edge magnitude: 0 marks a strong edge and 255 a flat region. RGB is
// copied. The outermost rows and columns have no full 3x3 support and pass
// through unchanged, keeping their luminance.
func (k *Kernels) ExtractGradient(img *raster.Image) *raster.Image {
	lum := img.Luminance()
	w, h := img.Width, img.Height

	return k.each(img, func(x, y int) raster.Pixel {
		p := img.PixelAt(x, y)
		if x == 0 || y == 0 || x == w-1 || y == h-1 {
			return p
		}

		at := func(dx, dy int) int { return int(lum.At(x+dx, y+dy)) }
		gx := -at(-1, -1) + at(1, -1) -
			2*at(-1, 0) + 2*at(1, 0) -
			at(-1, 1) + at(1, 1)
		gy := -at(-1, -1) - 2*at(0, -1) - at(1, -1) +
			at(-1, 1) + 2*at(0, 1) + at(1, 1)

		mag := gx*gx + gy*gy
		if mag > 0xFF*0xFF {
			p.A = 0
		} else {
			p.A = uint8(0xFF - int(math.Sqrt(float64(mag))))
		}
		return p
	})
}
