package png

import (
	"bytes"
	"fmt"
	"image"

	"github.com/kettek/apng"
	"golang.org/x/image/draw"
)

// Animate builds a looping APNG that flips between the given frames, each
// shown for frameDelay seconds. Frames are drawn onto a canvas the size of
// the largest frame so that images of differing sizes can be compared.
func Animate(frames []image.Image, frameDelay float64) ([]byte, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames to animate")
	}

	var canvas image.Rectangle
	for _, f := range frames {
		canvas = canvas.Union(image.Rect(0, 0, f.Bounds().Dx(), f.Bounds().Dy()))
	}

	a := apng.APNG{
		Frames:    make([]apng.Frame, len(frames)),
		LoopCount: 0,
	}

	for i, f := range frames {
		img := f
		if f.Bounds() != canvas {
			dst := image.NewNRGBA(canvas)
			draw.NearestNeighbor.Scale(dst, canvas, f, f.Bounds(), draw.Src, nil)
			img = dst
		}
		a.Frames[i] = apng.Frame{
			Image:            img,
			DelayNumerator:   uint16(frameDelay * 1000),
			DelayDenominator: 1000,
		}
	}

	var buf bytes.Buffer
	if err := apng.Encode(&buf, a); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
