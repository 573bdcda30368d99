package cron

import (
	"context"
	"fmt"

	"github.com/sunnatcollection/backoffice/internal/marketing"
)

// triggerRunner is the slice of the marketing service this job drives.
type triggerRunner interface {
	RunAllTriggers(ctx context.Context) ([]marketing.TriggerResult, error)
}

type triggerJob struct {
	runner triggerRunner
}

// NewTriggerJob builds the job that evaluates every active automated
// trigger.
func NewTriggerJob(runner triggerRunner) (Job, error) {
	if runner == nil {
		return nil, fmt.Errorf("trigger runner required")
	}
	return &triggerJob{runner: runner}, nil
}

func (j *triggerJob) Name() string { return "automated_triggers" }

func (j *triggerJob) Run(ctx context.Context) error {
	_, err := j.runner.RunAllTriggers(ctx)
	return err
}
