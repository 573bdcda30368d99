package sync

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/sunnatcollection/backoffice/pkg/db/models"
	"github.com/sunnatcollection/backoffice/pkg/enums"
)

// Repository exposes persistence helpers for the sync queue.
type Repository interface {
	Enqueue(tx *gorm.DB, entry *models.OutboxEntry) error
	FetchPending(ctx context.Context) ([]models.OutboxEntry, error)
	MarkSynced(ctx context.Context, id uint, at time.Time) error
	MarkFailed(ctx context.Context, id uint, message string) error
	Requeue(ctx context.Context, id uint) (bool, error)
	CountByStatus(ctx context.Context) (map[enums.SyncStatus]int64, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a sync queue repository bound to the local store.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

// Enqueue appends an entry inside the caller's transaction so the queue row
// commits atomically with the business mutation it describes.
func (r *repositoryImpl) Enqueue(tx *gorm.DB, entry *models.OutboxEntry) error {
	if tx == nil {
		tx = r.db
	}
	if entry.Status == "" {
		entry.Status = enums.SyncStatusPending
	}
	return tx.Create(entry).Error
}

// FetchPending returns pending entries oldest first. FIFO order preserves
// update/delete causality for entries touching the same record.
func (r *repositoryImpl) FetchPending(ctx context.Context) ([]models.OutboxEntry, error) {
	var rows []models.OutboxEntry
	err := r.db.WithContext(ctx).
		Where("status = ?", enums.SyncStatusPending).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repositoryImpl) MarkSynced(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.OutboxEntry{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        enums.SyncStatusSynced,
			"synced_at":     at,
			"error_message": nil,
		}).Error
}

func (r *repositoryImpl) MarkFailed(ctx context.Context, id uint, message string) error {
	return r.db.WithContext(ctx).Model(&models.OutboxEntry{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        enums.SyncStatusFailed,
			"error_message": message,
		}).Error
}

// Requeue flips a failed entry back to pending. This is the manual recovery
// path; the processor itself never retries terminal entries.
func (r *repositoryImpl) Requeue(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.OutboxEntry{}).
		Where("id = ? AND status = ?", id, enums.SyncStatusFailed).
		Updates(map[string]any{
			"status":        enums.SyncStatusPending,
			"error_message": nil,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) CountByStatus(ctx context.Context) (map[enums.SyncStatus]int64, error) {
	type statusCount struct {
		Status enums.SyncStatus
		Count  int64
	}
	var rows []statusCount
	err := r.db.WithContext(ctx).Model(&models.OutboxEntry{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := map[enums.SyncStatus]int64{
		enums.SyncStatusPending: 0,
		enums.SyncStatusSynced:  0,
		enums.SyncStatusFailed:  0,
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
