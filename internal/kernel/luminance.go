package kernel

import "github.com/rm-hull/anime4k/internal/raster"

// ExtractLuminance caches each pixel's brightness, (max+min)/2 of its RGB
// channels rounded half to even, in the alpha byte. RGB is copied unchanged
// and the incoming alpha is ignored.
func (k *Kernels) ExtractLuminance(img *raster.Image) *raster.Image {
	return k.each(img, func(x, y int) raster.Pixel {
		p := img.PixelAt(x, y)
		p.A = brightness(p.R, p.G, p.B)
		return p
	})
}

func brightness(r, g, b uint8) uint8 {
	hi := max(r, g, b)
	lo := min(r, g, b)
	sum := int(hi) + int(lo)
	v := sum / 2
	if sum%2 == 1 && v%2 == 1 {
		v++
	}
	return uint8(v)
}
