package cron

import (
	"context"
	"fmt"

	"github.com/sunnatcollection/backoffice/internal/backup"
)

// backupTaker is the slice of the maintenance service this job drives.
// Create prunes old backups itself, so the job is a single call.
type backupTaker interface {
	Create(ctx context.Context) (backup.Info, error)
}

type backupJob struct {
	taker backupTaker
}

// NewBackupJob builds the nightly database backup job.
func NewBackupJob(taker backupTaker) (Job, error) {
	if taker == nil {
		return nil, fmt.Errorf("backup service required")
	}
	return &backupJob{taker: taker}, nil
}

func (j *backupJob) Name() string { return "database_backup" }

func (j *backupJob) Run(ctx context.Context) error {
	_, err := j.taker.Create(ctx)
	return err
}
