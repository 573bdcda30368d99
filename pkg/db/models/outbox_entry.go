package models

import (
	"encoding/json"
	"time"

	"github.com/sunnatcollection/backoffice/pkg/enums"
)

// OutboxEntry is one queued mutation awaiting propagation to the cloud store.
// Rows are written by business mutation handlers at commit time and closed
// exclusively by the sync queue processor.
type OutboxEntry struct {
	ID           uint                `gorm:"column:id;primaryKey;autoIncrement"`
	TargetTable  string              `gorm:"column:table_name;size:64;not null"`
	Operation    enums.SyncOperation `gorm:"column:operation;size:32;not null"`
	RecordID     int64               `gorm:"column:record_id;not null"`
	Payload      json.RawMessage     `gorm:"column:payload;type:text"`
	Status       enums.SyncStatus    `gorm:"column:status;size:32;not null;default:pending"`
	ErrorMessage *string             `gorm:"column:error_message;type:text"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime;index"`
	SyncedAt     *time.Time          `gorm:"column:synced_at"`
}

func (OutboxEntry) TableName() string { return "sync_queue" }
