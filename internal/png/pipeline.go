package png

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

type PngImage struct {
	Img    image.Image
	Bounds image.Rectangle
	Format string
}

type PipelineStage interface {
	Process(ctx context.Context, img *PngImage) error
}

// NewPngFromReader decodes any registered format (PNG, JPEG, GIF, BMP or
// WebP). Output is always written as PNG.
func NewPngFromReader(r io.Reader) (*PngImage, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return &PngImage{
		Img:    img,
		Bounds: img.Bounds(),
		Format: format,
	}, nil
}

func NewPng(img image.Image) *PngImage {
	return &PngImage{
		Img:    img,
		Bounds: img.Bounds(),
		Format: "png",
	}
}

func (p *PngImage) Write(w io.Writer) error {
	return png.Encode(w, p.Img)
}

// Replace swaps in the output of a stage, keeping Bounds in step.
func (p *PngImage) Replace(img image.Image) {
	p.Img = img
	p.Bounds = img.Bounds()
}

func (p *PngImage) Pipeline(ctx context.Context, stages ...PipelineStage) error {
	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := stage.Process(ctx, p); err != nil {
			return fmt.Errorf("%T: %w", stage, err)
		}
	}
	return nil
}
