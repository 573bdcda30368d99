package cron

import (
	"context"
	"fmt"

	"github.com/sunnatcollection/backoffice/internal/sync"
)

// queueProcessor is the slice of the sync service this job drives.
type queueProcessor interface {
	ProcessQueue(ctx context.Context) (sync.Result, error)
}

type syncJob struct {
	processor queueProcessor
}

// NewSyncJob builds the job that drains the sync queue into the cloud store.
func NewSyncJob(processor queueProcessor) (Job, error) {
	if processor == nil {
		return nil, fmt.Errorf("queue processor required")
	}
	return &syncJob{processor: processor}, nil
}

func (j *syncJob) Name() string { return "sync_queue" }

func (j *syncJob) Run(ctx context.Context) error {
	_, err := j.processor.ProcessQueue(ctx)
	return err
}
