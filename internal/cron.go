package internal

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// NextRun parses a standard five-field cron expression (descriptors such as
// @hourly are accepted too) and returns the first activation after from.
func NextRun(schedule string, from time.Time) (time.Time, error) {
	sched, err := cron.ParseStandard(schedule)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}
	return sched.Next(from), nil
}
