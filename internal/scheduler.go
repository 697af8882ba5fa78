package internal

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

// NewScheduler runs task once immediately, then again on every activation of
// schedule. Overlapping runs are skipped rather than queued.
func NewScheduler(schedule string, task func() error, logger logrus.FieldLogger) (gocron.Scheduler, error) {
	next, err := NextRun(schedule, time.Now())
	if err != nil {
		return nil, err
	}

	if err := runLogged(task, logger); err != nil {
		return nil, fmt.Errorf("initial run of job failed: %w", err)
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.CronJob(schedule, false),
		gocron.NewTask(func() { _ = runLogged(task, logger) }),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"schedule": schedule,
		"next_run": next.Format(time.RFC3339),
	}).Info("Scheduler started")
	scheduler.Start()
	return scheduler, nil
}

func runLogged(task func() error, logger logrus.FieldLogger) error {
	err := task()
	switch {
	case errors.Is(err, ErrNoImages):
		logger.Debug("Nothing to process")
		return nil
	case err != nil:
		logger.WithError(err).Error("Scheduled run failed")
	}
	return err
}
