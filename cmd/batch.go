package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/rm-hull/anime4k/internal"
	"github.com/rm-hull/anime4k/internal/config"
	"github.com/rm-hull/anime4k/internal/kernel"
	"github.com/rm-hull/anime4k/internal/png"
	"github.com/rm-hull/anime4k/internal/png/stage"
	"github.com/sirupsen/logrus"
)

type BatchOptions struct {
	InDir    string
	OutDir   string
	PoolSize int
	Limit    int
	Schedule string
	Config   config.Config
}

// Batch upscales every image in InDir that has no output in OutDir yet. With
// a Schedule it keeps running, rescanning InDir on every activation until
// interrupted.
func Batch(ctx context.Context, opts BatchOptions, logger logrus.FieldLogger) error {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Images are already spread over PoolSize workers, so give each image's
	// row pool a share of the cores rather than all of them.
	workers := cfg.Workers
	if workers <= 0 && opts.PoolSize > 1 {
		workers = max(1, runtime.GOMAXPROCS(0)/opts.PoolSize)
	}

	pipeline := []png.PipelineStage{
		&stage.GaussianBlurStage{Sigma: cfg.DenoiseSigma},
		&stage.ResampleStage{Scale: cfg.Scale, Filter: cfg.Filter},
		&stage.SharpenStage{Kernels: kernel.New(workers), Options: cfg.KernelOptions()},
	}

	run := func() error {
		p, err := internal.NewBatchProcessor(ctx, opts.InDir, opts.OutDir, opts.PoolSize, pipeline, logger)
		if err != nil {
			return err
		}
		p.SetLimit(opts.Limit)
		if errs := p.Run(); len(errs) > 0 {
			return fmt.Errorf("%d images failed: %w", len(errs), errors.Join(errs...))
		}
		return nil
	}

	if opts.Schedule == "" {
		return run()
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched, err := internal.NewScheduler(opts.Schedule, run, logger)
	if err != nil {
		return err
	}

	<-ctx.Done()
	logger.Info("Shutting down scheduler")
	if err := sched.Shutdown(); err != nil {
		return fmt.Errorf("failed to shutdown scheduler: %w", err)
	}
	return nil
}
