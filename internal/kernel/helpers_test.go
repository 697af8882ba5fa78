package kernel

import (
	"math/rand/v2"
	"testing"

	"github.com/rm-hull/anime4k/internal/raster"
	"github.com/stretchr/testify/require"
)

func newImage(t *testing.T, w, h int, fn func(x, y int) raster.Pixel) *raster.Image {
	t.Helper()
	img, err := raster.New(w, h)
	require.NoError(t, err)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetPixel(x, y, fn(x, y))
		}
	}
	return img
}

func noiseImage(t *testing.T, w, h int, seed uint64) *raster.Image {
	t.Helper()
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return newImage(t, w, h, func(int, int) raster.Pixel {
		return raster.Pixel{
			R: uint8(r.IntN(256)),
			G: uint8(r.IntN(256)),
			B: uint8(r.IntN(256)),
			A: uint8(r.IntN(256)),
		}
	})
}

func fromRows(t *testing.T, rows [][]raster.Pixel) *raster.Image {
	t.Helper()
	return newImage(t, len(rows[0]), len(rows), func(x, y int) raster.Pixel {
		return rows[y][x]
	})
}

func assertRGBEqual(t *testing.T, want, got *raster.Image) {
	t.Helper()
	require.Equal(t, want.Width, got.Width)
	require.Equal(t, want.Height, got.Height)
	for y := 0; y < want.Height; y++ {
		for x := 0; x < want.Width; x++ {
			w, g := want.PixelAt(x, y), got.PixelAt(x, y)
			require.Equal(t, [3]uint8{w.R, w.G, w.B}, [3]uint8{g.R, g.G, g.B}, "pixel (%d,%d)", x, y)
		}
	}
}
