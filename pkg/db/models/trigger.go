package models

import (
	"time"

	"github.com/sunnatcollection/backoffice/pkg/enums"
)

// Trigger is an automated send rule evaluated by the scheduled trigger job.
type Trigger struct {
	ID              uint                  `gorm:"column:id;primaryKey;autoIncrement"`
	Name            string                `gorm:"column:name;size:128;not null"`
	Type            enums.TriggerType     `gorm:"column:type;size:64;not null"`
	Days            int                   `gorm:"column:days"`
	Channel         enums.CampaignChannel `gorm:"column:channel;size:32;not null;default:sms"`
	Template        string                `gorm:"column:template;type:text;not null"`
	Active          bool                  `gorm:"column:active;not null;default:true"`
	TimesTriggered  int                   `gorm:"column:times_triggered;not null;default:0"`
	LastTriggeredAt *time.Time            `gorm:"column:last_triggered_at"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
}

func (Trigger) TableName() string { return "automated_triggers" }

// TriggerLog records one trigger firing for one customer. The (trigger,
// customer, day) tuple is the de-duplication key: a trigger fires at most
// once per customer per UTC calendar day.
type TriggerLog struct {
	ID           uint                  `gorm:"column:id;primaryKey;autoIncrement"`
	TriggerID    uint                  `gorm:"column:trigger_id;not null;index"`
	CustomerID   uint                  `gorm:"column:customer_id;not null;index"`
	TriggeredAt  time.Time             `gorm:"column:triggered_at;not null;index"`
	MessageSent  bool                  `gorm:"column:message_sent;not null;default:false"`
	ChannelUsed  enums.CampaignChannel `gorm:"column:channel_used;size:32"`
	ErrorMessage *string               `gorm:"column:error_message;type:text"`
}

func (TriggerLog) TableName() string { return "trigger_logs" }
