package kernel

import "github.com/rm-hull/anime4k/internal/raster"

// cell indexes a pixel of the 3x3 window, row by row.
type cell int

const (
	tl cell = iota
	tc
	tr
	ml
	mc
	mr
	bl
	bc
	br
)

type window [9]raster.Pixel

func windowOf(n raster.Neighborhood) window {
	return window{n.TL, n.TC, n.TR, n.ML, n.MC, n.MR, n.BL, n.BC, n.BR}
}

// direction is one directional test: the light triad must be strictly
// brighter than every pixel of the dark set, and also brighter than the
// centre when aboveCentre is set.
type direction struct {
	light       [3]cell
	dark        [3]cell
	aboveCentre bool
}

func (d direction) accepts(w *window) bool {
	minLight := min(w[d.light[0]].A, w[d.light[1]].A, w[d.light[2]].A)
	maxDark := max(w[d.dark[0]].A, w[d.dark[1]].A, w[d.dark[2]].A)
	if d.aboveCentre && minLight <= w[mc].A {
		return false
	}
	return minLight > maxDark
}

// axes lists the opposing direction pairs in evaluation order. The second
// direction of a pair is only tried when the first is rejected. The order
// decides which candidate survives in both push kernels, so keep it.
var axes = [4][2]direction{
	{
		{light: [3]cell{tl, tc, tr}, dark: [3]cell{br, bc, bl}, aboveCentre: true},
		{light: [3]cell{br, bc, bl}, dark: [3]cell{tl, tc, tr}, aboveCentre: true},
	},
	{
		{light: [3]cell{mr, tc, tr}, dark: [3]cell{mc, ml, bc}},
		{light: [3]cell{bl, ml, bc}, dark: [3]cell{mc, mr, tc}},
	},
	{
		{light: [3]cell{mr, br, tr}, dark: [3]cell{ml, tl, bl}, aboveCentre: true},
		{light: [3]cell{ml, tl, bl}, dark: [3]cell{mr, br, tr}, aboveCentre: true},
	},
	{
		{light: [3]cell{mr, br, bc}, dark: [3]cell{mc, ml, tc}},
		{light: [3]cell{tc, ml, tl}, dark: [3]cell{mc, mr, bc}},
	},
}

// eachAccepted calls fn with the light triad of every accepted direction, in
// evaluation order.
func eachAccepted(w *window, fn func(light [3]cell)) {
	for _, pair := range axes {
		switch {
		case pair[0].accepts(w):
			fn(pair[0].light)
		case pair[1].accepts(w):
			fn(pair[1].light)
		}
	}
}

// blend mixes the centre towards the mean of the light triad. Each channel is
// (centre*(255-s) + mean*s) / 255 in integer arithmetic.
func blend(w *window, light [3]cell, strength int) raster.Pixel {
	a, b, c := w[light[0]], w[light[1]], w[light[2]]
	centre := w[mc]
	inv := 0xFF - strength
	mix := func(cv, av, bv, ccv uint8) uint8 {
		mean := (int(av) + int(bv) + int(ccv)) / 3
		return uint8((int(cv)*inv + mean*strength) / 0xFF)
	}
	return raster.Pixel{
		R: mix(centre.R, a.R, b.R, c.R),
		G: mix(centre.G, a.G, b.G, c.G),
		B: mix(centre.B, a.B, b.B, c.B),
		A: mix(centre.A, a.A, b.A, c.A),
	}
}

func clampStrength(strength int) int {
	return max(0, min(strength, 0xFF))
}
