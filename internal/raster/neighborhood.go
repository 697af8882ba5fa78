package raster

// Neighborhood is the 3x3 window around a centre pixel:
//
//	TL TC TR
//	ML MC MR
//	BL BC BR
type Neighborhood struct {
	TL, TC, TR Pixel
	ML, MC, MR Pixel
	BL, BC, BR Pixel
}

// Neighborhood gathers the window centred on (x, y) through Sample, so at a
// border the missing neighbours repeat the edge pixel.
func (img *Image) Neighborhood(x, y int) Neighborhood {
	return Neighborhood{
		TL: img.Sample(x-1, y-1),
		TC: img.Sample(x, y-1),
		TR: img.Sample(x+1, y-1),
		ML: img.Sample(x-1, y),
		MC: img.PixelAt(x, y),
		MR: img.Sample(x+1, y),
		BL: img.Sample(x-1, y+1),
		BC: img.Sample(x, y+1),
		BR: img.Sample(x+1, y+1),
	}
}
