package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/sunnatcollection/backoffice/pkg/enums"
)

// DeliveryLog records the outcome of one dispatch call. Exactly one row is
// written per logical send even when several providers were tried internally;
// Provider names the mechanism that ultimately produced the result.
type DeliveryLog struct {
	ID                uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID        *uint                `gorm:"column:customer_id;index"`
	Channel           enums.Channel        `gorm:"column:channel;size:32;not null"`
	Address           string               `gorm:"column:address;size:128;not null"`
	Message           string               `gorm:"column:message;type:text;not null"`
	Status            enums.DeliveryStatus `gorm:"column:status;size:32;not null;default:pending"`
	Provider          enums.ProviderKey    `gorm:"column:provider;size:64"`
	ProviderMessageID *string              `gorm:"column:provider_message_id;size:128"`
	Link              *string              `gorm:"column:link;type:text"`
	ErrorMessage      *string              `gorm:"column:error_message;type:text"`
	Context           string               `gorm:"column:context;size:256"`
	CreatedAt         time.Time            `gorm:"column:created_at;autoCreateTime;index"`
	SentAt            *time.Time           `gorm:"column:sent_at"`
	DeliveredAt       *time.Time           `gorm:"column:delivered_at"`
}

func (DeliveryLog) TableName() string { return "delivery_logs" }
