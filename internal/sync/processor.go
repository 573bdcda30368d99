package sync

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/sunnatcollection/backoffice/pkg/config"
	"github.com/sunnatcollection/backoffice/pkg/db/models"
	"github.com/sunnatcollection/backoffice/pkg/enums"
	pkgerrors "github.com/sunnatcollection/backoffice/pkg/errors"
	"github.com/sunnatcollection/backoffice/pkg/logger"
)

// Result summarizes one ProcessQueue run.
type Result struct {
	Synced  int    `json:"synced"`
	Failed  int    `json:"failed"`
	Skipped bool   `json:"skipped"`
	Reason  string `json:"reason,omitempty"`
}

// Status is the read-only view exposed to the administrative surface.
type Status struct {
	Pending           int64 `json:"pending"`
	Synced            int64 `json:"synced"`
	Failed            int64 `json:"failed"`
	InternetAvailable bool  `json:"internet_available"`
	SyncEnabled       bool  `json:"sync_enabled"`
}

// ServiceParams configure the sync queue processor.
type ServiceParams struct {
	Config     config.CloudSyncConfig
	Logger     *logger.Logger
	Repository Repository
	Prober     Prober
	Remote     RemoteApplier
}

// Service drains the local sync queue into the cloud store.
type Service struct {
	cfg    config.CloudSyncConfig
	logg   *logger.Logger
	repo   Repository
	prober Prober
	remote RemoteApplier
	now    func() time.Time
}

// NewService wires the processor's dependencies. Remote may be nil when the
// cloud store is unconfigured; ProcessQueue reports that as an error, not a
// skip, since an enabled-but-unconfigured deployment is a setup mistake.
func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	if params.Repository == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "sync repository required")
	}
	if params.Prober == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "connectivity prober required")
	}
	return &Service{
		cfg:    params.Config,
		logg:   params.Logger,
		repo:   params.Repository,
		prober: params.Prober,
		remote: params.Remote,
		now:    time.Now,
	}, nil
}

// Enqueue records a mutation for later propagation, inside the caller's
// transaction when one is given.
func (s *Service) Enqueue(tx *gorm.DB, tableName string, op enums.SyncOperation, recordID int64, payload []byte) error {
	if !op.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid sync operation")
	}
	if tableName == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "table name required")
	}
	entry := models.OutboxEntry{
		TargetTable: tableName,
		Operation: op,
		RecordID:  recordID,
		Payload:   payload,
		Status:    enums.SyncStatusPending,
	}
	return s.repo.Enqueue(tx, &entry)
}

// ProcessQueue drains every pending entry in creation order. Per-entry
// failures are recorded and skipped over; the run itself only errors on
// catastrophic conditions such as a missing cloud store.
func (s *Service) ProcessQueue(ctx context.Context) (Result, error) {
	if !s.cfg.Enabled {
		s.logg.Debug(ctx, "cloud sync is disabled, skipping run")
		return Result{Skipped: true, Reason: "sync disabled"}, nil
	}
	if !s.prober.Online(ctx) {
		s.logg.Info(ctx, "no internet connection, skipping sync")
		return Result{Skipped: true, Reason: "offline"}, nil
	}
	if s.remote == nil {
		return Result{}, pkgerrors.New(pkgerrors.CodeDependency, "cloud database not configured")
	}

	pending, err := s.repo.FetchPending(ctx)
	if err != nil {
		return Result{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch pending entries")
	}
	if len(pending) == 0 {
		s.logg.Debug(ctx, "no pending entries to sync")
		return Result{}, nil
	}

	runCtx := s.logg.WithField(ctx, "pending", len(pending))
	s.logg.Info(runCtx, "processing sync queue")

	var result Result
	for _, entry := range pending {
		entryCtx := s.logg.WithFields(ctx, map[string]any{
			"entry_id":  entry.ID,
			"table":     entry.TargetTable,
			"operation": entry.Operation,
			"record_id": entry.RecordID,
		})

		if applyErr := s.remote.Apply(ctx, entry); applyErr != nil {
			result.Failed++
			s.logg.Error(entryCtx, "sync entry failed", applyErr)
			if markErr := s.repo.MarkFailed(ctx, entry.ID, applyErr.Error()); markErr != nil {
				return result, pkgerrors.Wrap(pkgerrors.CodeDependency, markErr, "mark entry failed")
			}
			continue
		}

		if markErr := s.repo.MarkSynced(ctx, entry.ID, s.now().UTC()); markErr != nil {
			return result, pkgerrors.Wrap(pkgerrors.CodeDependency, markErr, "mark entry synced")
		}
		result.Synced++
	}

	doneCtx := s.logg.WithFields(ctx, map[string]any{
		"synced": result.Synced,
		"failed": result.Failed,
	})
	s.logg.Info(doneCtx, "sync queue run complete")
	return result, nil
}

// Requeue flips a failed entry back to pending for the next run.
func (s *Service) Requeue(ctx context.Context, id uint) error {
	found, err := s.repo.Requeue(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "requeue entry")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "no failed entry with that id")
	}
	return nil
}

// Status reports queue counts plus current connectivity. Pure read.
func (s *Service) Status(ctx context.Context) (Status, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return Status{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count queue entries")
	}
	return Status{
		Pending:           counts[enums.SyncStatusPending],
		Synced:            counts[enums.SyncStatusSynced],
		Failed:            counts[enums.SyncStatusFailed],
		InternetAvailable: s.prober.Online(ctx),
		SyncEnabled:       s.cfg.Enabled,
	}, nil
}
