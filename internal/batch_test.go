package internal

import (
	"context"
	"image"
	"image/color"
	stdpng "image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/rm-hull/anime4k/internal/kernel"
	"github.com/rm-hull/anime4k/internal/png"
	"github.com/rm-hull/anime4k/internal/png/stage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePng(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(40 * x), G: uint8(40 * y), B: 128, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, stdpng.Encode(f, img))
	require.NoError(t, f.Close())
}

func testPipeline() []png.PipelineStage {
	return []png.PipelineStage{
		&stage.ResampleStage{Scale: 2},
		&stage.SharpenStage{Kernels: kernel.New(2), Options: kernel.DefaultOptions(2)},
	}
}

func TestBatchProcessor(t *testing.T) {
	inDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")

	writePng(t, filepath.Join(inDir, "a.png"), 4, 3)
	writePng(t, filepath.Join(inDir, "b.PNG"), 2, 2)
	require.NoError(t, os.WriteFile(filepath.Join(inDir, "notes.txt"), []byte("skip me"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(inDir, "broken.png"), []byte("not a png"), 0644))

	p, err := NewBatchProcessor(context.Background(), inDir, outDir, 2, testPipeline(), quietLogger())
	require.NoError(t, err)
	assert.Len(t, p.files, 3)

	errs := p.Run()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "broken.png")
	assert.Contains(t, errs[0].Error(), "failed to decode image")

	f, err := os.Open(filepath.Join(outDir, "a.png"))
	require.NoError(t, err)
	defer f.Close()
	img, err := stdpng.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 6), img.Bounds())

	assert.FileExists(t, filepath.Join(outDir, "b.png"))
	assert.NoFileExists(t, filepath.Join(outDir, "broken.png"))

	leftovers, err := filepath.Glob(filepath.Join(outDir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestBatchProcessorSkipsExisting(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()

	writePng(t, filepath.Join(inDir, "a.png"), 3, 3)
	existing := filepath.Join(outDir, "a.png")
	require.NoError(t, os.WriteFile(existing, []byte("already here"), 0644))

	p, err := NewBatchProcessor(context.Background(), inDir, outDir, 1, testPipeline(), quietLogger())
	require.NoError(t, err)
	assert.Empty(t, p.Run())

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "already here", string(data))
}

func TestBatchProcessorLimit(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		writePng(t, filepath.Join(inDir, name), 2, 2)
	}

	p, err := NewBatchProcessor(context.Background(), inDir, outDir, 2, testPipeline(), quietLogger())
	require.NoError(t, err)
	p.SetLimit(2)
	assert.Empty(t, p.Run())

	assert.FileExists(t, filepath.Join(outDir, "a.png"))
	assert.FileExists(t, filepath.Join(outDir, "b.png"))
	assert.NoFileExists(t, filepath.Join(outDir, "c.png"))

	// A rerun picks up where the limited one stopped.
	p, err = NewBatchProcessor(context.Background(), inDir, outDir, 2, testPipeline(), quietLogger())
	require.NoError(t, err)
	p.SetLimit(0)
	assert.Equal(t, -1, p.maxJobs)
	assert.Empty(t, p.Run())
	assert.FileExists(t, filepath.Join(outDir, "c.png"))
}

func TestBatchProcessorErrors(t *testing.T) {
	t.Run("pool size", func(t *testing.T) {
		_, err := NewBatchProcessor(context.Background(), t.TempDir(), t.TempDir(), 0, nil, quietLogger())
		assert.Error(t, err)
	})

	t.Run("empty directory", func(t *testing.T) {
		_, err := NewBatchProcessor(context.Background(), t.TempDir(), t.TempDir(), 1, nil, quietLogger())
		assert.ErrorIs(t, err, ErrNoImages)
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := NewBatchProcessor(context.Background(), filepath.Join(t.TempDir(), "nope"), t.TempDir(), 1, nil, quietLogger())
		assert.ErrorContains(t, err, "failed to list images")
	})

	t.Run("cancelled context", func(t *testing.T) {
		inDir := t.TempDir()
		writePng(t, filepath.Join(inDir, "a.png"), 2, 2)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		p, err := NewBatchProcessor(ctx, inDir, t.TempDir(), 1, testPipeline(), quietLogger())
		require.NoError(t, err)
		errs := p.Run()
		require.Len(t, errs, 1)
		assert.ErrorIs(t, errs[0], context.Canceled)
	})
}
