package raster

// LuminanceChannel reads the alpha byte of an image whose alpha currently
// caches perceptual brightness (after luminance extraction).
type LuminanceChannel struct {
	img *Image
}

// GradientChannel reads the alpha byte of an image whose alpha currently
// holds an inverted edge magnitude: 0 is a strong edge, 255 is flat.
type GradientChannel struct {
	img *Image
}

func (img *Image) Luminance() LuminanceChannel { return LuminanceChannel{img: img} }

func (img *Image) Gradient() GradientChannel { return GradientChannel{img: img} }

func (c LuminanceChannel) At(x, y int) uint8 {
	return c.img.Pix[y*c.img.Stride+x*4+3]
}


func (c GradientChannel) At(x, y int) uint8 {
	return c.img.Pix[y*c.img.Stride+x*4+3]
}
