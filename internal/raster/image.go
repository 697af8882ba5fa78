package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

var (
	ErrInvalidDimensions      = errors.New("invalid dimensions")
	ErrUnsupportedPixelFormat = errors.New("unsupported pixel format")
)

// Image is a row-major buffer of non-premultiplied 8-bit RGBA pixels.
// The alpha byte is used as scratch space by the sharpening kernels, see
// LuminanceChannel and GradientChannel.
type Image struct {
	Pix    []uint8
	Stride int
	Width  int
	Height int
}

// Pixel holds the four channels of a single pixel.
type Pixel struct {
	R, G, B, A uint8
}

func New(width, height int) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	return &Image{
		Pix:    make([]uint8, width*height*4),
		Stride: width * 4,
		Width:  width,
		Height: height,
	}, nil
}

// NewLike allocates a zeroed image with the same dimensions as img.
func NewLike(img *Image) *Image {
	return &Image{
		Pix:    make([]uint8, img.Width*img.Height*4),
		Stride: img.Width * 4,
		Width:  img.Width,
		Height: img.Height,
	}
}

// Validate checks that the buffer can hold Height rows of Width RGBA pixels.
func (img *Image) Validate() error {
	if img == nil {
		return fmt.Errorf("%w: nil image", ErrUnsupportedPixelFormat)
	}
	if img.Width <= 0 || img.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, img.Width, img.Height)
	}
	if img.Stride < img.Width*4 {
		return fmt.Errorf("%w: stride %d too small for width %d", ErrUnsupportedPixelFormat, img.Stride, img.Width)
	}
	if need := img.Stride*(img.Height-1) + img.Width*4; len(img.Pix) < need {
		return fmt.Errorf("%w: buffer holds %d bytes, need %d", ErrUnsupportedPixelFormat, len(img.Pix), need)
	}
	return nil
}

// FromImage copies src into a new Image. NRGBA sources anchored at the
// origin are copied row by row; anything else is converted through draw.
func FromImage(src image.Image) (*Image, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil source image", ErrUnsupportedPixelFormat)
	}
	b := src.Bounds()
	img, err := New(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}

	if n, ok := src.(*image.NRGBA); ok {
		for y := 0; y < img.Height; y++ {
			srcOff := n.PixOffset(b.Min.X, b.Min.Y+y)
			copy(img.Row(y), n.Pix[srcOff:srcOff+img.Width*4])
		}
		return img, nil
	}

	dst := img.asNRGBA()
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return img, nil
}

// ToNRGBA returns a copy of the image as an *image.NRGBA.
func (img *Image) ToNRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		copy(out.Pix[y*out.Stride:], img.Row(y))
	}
	return out
}

// asNRGBA shares the pixel buffer with an *image.NRGBA.
func (img *Image) asNRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    img.Pix,
		Stride: img.Stride,
		Rect:   image.Rect(0, 0, img.Width, img.Height),
	}
}

// Row returns the bytes of row y, Width*4 long.
func (img *Image) Row(y int) []uint8 {
	off := y * img.Stride
	return img.Pix[off : off+img.Width*4]
}

func (img *Image) PixelAt(x, y int) Pixel {
	i := y*img.Stride + x*4
	p := img.Pix[i : i+4 : i+4]
	return Pixel{R: p[0], G: p[1], B: p[2], A: p[3]}
}

func (img *Image) SetPixel(x, y int, c Pixel) {
	i := y*img.Stride + x*4
	p := img.Pix[i : i+4 : i+4]
	p[0] = c.R
	p[1] = c.G
	p[2] = c.B
	p[3] = c.A
}

// Sample reads the pixel at (x, y) with both coordinates clamped to the
// image, so offsets past an edge repeat the edge pixel.
func (img *Image) Sample(x, y int) Pixel {
	return img.PixelAt(clamp(x, 0, img.Width-1), clamp(y, 0, img.Height-1))
}

// Clone returns a deep copy with a packed stride.
func (img *Image) Clone() *Image {
	out := NewLike(img)
	for y := 0; y < img.Height; y++ {
		copy(out.Row(y), img.Row(y))
	}
	return out
}

// Opaque reports whether every pixel has A=255.
func (img *Image) Opaque() bool {
	for y := 0; y < img.Height; y++ {
		row := img.Row(y)
		for i := 3; i < len(row); i += 4 {
			if row[i] != 0xFF {
				return false
			}
		}
	}
	return true
}

// CopyAlpha overwrites the alpha byte of every pixel with the one at the same
// position in src, leaving RGB alone.
func (img *Image) CopyAlpha(src *Image) error {
	if src.Width != img.Width || src.Height != img.Height {
		return fmt.Errorf("%w: alpha source is %dx%d, image is %dx%d",
			ErrInvalidDimensions, src.Width, src.Height, img.Width, img.Height)
	}
	for y := 0; y < img.Height; y++ {
		dst, from := img.Row(y), src.Row(y)
		for i := 3; i < len(dst); i += 4 {
			dst[i] = from[i]
		}
	}
	return nil
}

// The methods below let an Image be handed to image/png and friends directly.

func (img *Image) ColorModel() color.Model { return color.NRGBAModel }

func (img *Image) Bounds() image.Rectangle { return image.Rect(0, 0, img.Width, img.Height) }

func (img *Image) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= img.Width || y >= img.Height {
		return color.NRGBA{}
	}
	p := img.PixelAt(x, y)
	return color.NRGBA{R: p.R, G: p.G, B: p.B, A: p.A}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
