package kernel

import "github.com/rm-hull/anime4k/internal/raster"

// PushColor nudges each pixel towards a brighter neighbouring triad when one
// of the eight directional tests sees a clean light/dark split in the
// luminance channel. Among the accepted directions the blend with the highest
// luminance wins; when none beats the centre the pixel is copied as is.
// Strength is clamped to [0,255].
func (k *Kernels) PushColor(img *raster.Image, strength int) *raster.Image {
	s := clampStrength(strength)
	return k.each(img, func(x, y int) raster.Pixel {
		w := windowOf(img.Neighborhood(x, y))
		lightest := w[mc]
		eachAccepted(&w, func(light [3]cell) {
			if cand := blend(&w, light, s); cand.A > lightest.A {
				lightest = cand
			}
		})
		return lightest
	})
}

// PushGradient runs the same directional tests over the gradient channel.
// Each accepted direction replaces the result outright, so the last one in
// evaluation order wins. The gradient is not needed after this stage and the
// output is always opaque.
func (k *Kernels) PushGradient(img *raster.Image, strength int) *raster.Image {
	s := clampStrength(strength)
	return k.each(img, func(x, y int) raster.Pixel {
		w := windowOf(img.Neighborhood(x, y))
		out := w[mc]
		eachAccepted(&w, func(light [3]cell) {
			out = blend(&w, light, s)
		})
		out.A = 0xFF
		return out
	})
}
