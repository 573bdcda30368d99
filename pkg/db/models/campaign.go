package models

import (
	"encoding/json"
	"time"

	"github.com/sunnatcollection/backoffice/pkg/enums"
)

// Campaign is a one-shot marketing send over SMS and/or WhatsApp.
type Campaign struct {
	ID              uint                   `gorm:"column:id;primaryKey;autoIncrement"`
	Name            string                 `gorm:"column:name;size:128;not null"`
	Channel         enums.CampaignChannel  `gorm:"column:channel;size:32;not null;default:sms"`
	Audience        enums.CampaignAudience `gorm:"column:audience;size:32;not null;default:all"`
	Criteria        json.RawMessage        `gorm:"column:criteria;type:text"`
	Template        string                 `gorm:"column:template;type:text;not null"`
	Status          enums.CampaignStatus   `gorm:"column:status;size:32;not null;default:draft"`
	TotalRecipients int                    `gorm:"column:total_recipients;not null;default:0"`
	SentCount       int                    `gorm:"column:sent_count;not null;default:0"`
	FailedCount     int                    `gorm:"column:failed_count;not null;default:0"`
	CreatedAt       time.Time              `gorm:"column:created_at;autoCreateTime"`
	CompletedAt     *time.Time             `gorm:"column:completed_at"`
}

func (Campaign) TableName() string { return "campaigns" }
