package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/rm-hull/anime4k/internal/png"
	"github.com/sirupsen/logrus"
)

var ErrNoImages = errors.New("no images to process")

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp"}

// Processor upscales every image in a directory on a fixed pool of workers,
// writing PNGs to an output directory. Images that already have an output
// are skipped, so a processor can be rerun over a growing input directory.
type Processor struct {
	ctx       context.Context
	startTime time.Time
	endTime   time.Time
	inDir     string
	outDir    string
	poolSize  int
	maxJobs   int
	jobs      chan string
	results   chan error
	files     []string
	pipeline  []png.PipelineStage
	logger    logrus.FieldLogger
}

func NewBatchProcessor(ctx context.Context, inDir, outDir string, poolSize int, pipeline []png.PipelineStage, logger logrus.FieldLogger) (*Processor, error) {
	if poolSize < 1 {
		return nil, errors.New("pool size must be at least 1")
	}
	startTime := time.Now()

	files, err := listImages(inDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list images in %s: %w", inDir, err)
	}

	logger.WithField("dir", inDir).Infof("Directory contains %d images", len(files))
	if len(files) == 0 {
		return nil, ErrNoImages
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return &Processor{
		ctx:       ctx,
		startTime: startTime,
		inDir:     inDir,
		outDir:    outDir,
		poolSize:  poolSize,
		maxJobs:   -1,
		jobs:      make(chan string),
		results:   make(chan error),
		files:     files,
		pipeline:  pipeline,
		logger:    logger,
	}, nil
}

// SetLimit caps the number of images dispatched per run, in directory order.
// Zero or a negative value lifts the cap.
func (p *Processor) SetLimit(n int) {
	if n <= 0 {
		n = -1
	}
	p.maxJobs = n
}

// Run processes every image and returns the errors of the failed ones.
func (p *Processor) Run() []error {
	p.StartWorkers()
	p.DispatchJobs()
	return p.Wait()
}

// DispatchJobs sends files to the jobs channel for processing by workers.
// When maxJobs is greater than zero, it limits the number of jobs dispatched,
// hence set to -1 to dispatch all jobs.
func (p *Processor) DispatchJobs() {
	go func() {
		for n, file := range p.files {
			if p.maxJobs > 0 && n >= p.maxJobs {
				break
			}
			p.jobs <- file
		}
		close(p.jobs)
	}()
}

func (p *Processor) StartWorkers() {
	p.logger.Infof("Starting processing with pool size: %d", p.poolSize)

	for i := range p.poolSize {
		go p.worker(i)
	}
}

func (p *Processor) worker(i int) {
	p.logger.Debugf("Worker %d started", i)
	for file := range p.jobs {
		err := p.processFile(file)
		if err != nil {
			err = fmt.Errorf("%s: %w", filepath.Base(file), err)
		}
		p.results <- err
	}
	p.logger.Debugf("Worker %d finished", i)
}

func (p *Processor) outputPath(file string) string {
	base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	return filepath.Join(p.outDir, base+".png")
}

func (p *Processor) processFile(file string) error {
	if err := p.ctx.Err(); err != nil {
		return err
	}

	filename := p.outputPath(file)

	// if the file already exists, skip processing
	if _, err := os.Stat(filename); err == nil {
		p.logger.WithField("file", filename).Debug("Already processed, skipping")
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	inFile, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer func() {
		_ = inFile.Close()
	}()

	img, err := png.NewPngFromReader(inFile)
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	start := time.Now()
	if err := img.Pipeline(p.ctx, p.pipeline...); err != nil {
		return fmt.Errorf("failed to process image pipeline: %w", err)
	}

	tmpFile, err := os.CreateTemp(p.outDir, "upscale-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	cleanupTemp := true
	defer func() {
		_ = tmpFile.Close()
		if cleanupTemp {
			_ = os.Remove(tmpFile.Name())
		}
	}()

	if err := img.Write(tmpFile); err != nil {
		return fmt.Errorf("failed to write processed image to temporary file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file before rename: %w", err)
	}

	if err := os.Rename(tmpFile.Name(), filename); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	cleanupTemp = false // Successfully renamed, don't delete
	p.logger.WithFields(logrus.Fields{
		"file":    filename,
		"size":    fmt.Sprintf("%dx%d", img.Bounds.Dx(), img.Bounds.Dy()),
		"elapsed": time.Since(start).String(),
	}).Info("Processed")
	return nil
}

func (p *Processor) Wait() []error {
	waitFor := p.maxJobs
	if waitFor < 0 || waitFor > len(p.files) {
		waitFor = len(p.files)
	}
	p.logger.Infof("Waiting for %d images to be processed", waitFor)

	errors := make([]error, 0, 10)
	for range waitFor {
		err := <-p.results
		if err != nil {
			errors = append(errors, err)
		}
	}
	p.endTime = time.Now()
	elapsed := p.endTime.Sub(p.startTime)
	p.logger.Infof("All images processed in %s (errors=%d)", elapsed, len(errors))
	return errors
}

func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if slices.Contains(imageExtensions, strings.ToLower(filepath.Ext(entry.Name()))) {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}
