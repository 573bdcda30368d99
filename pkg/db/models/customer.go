package models

import "time"

// Loyalty tier thresholds, in points.
const (
	tierSilverPoints   = 500
	tierGoldPoints     = 1000
	tierPlatinumPoints = 2500
)

// Customer carries the minimal fields audience selection and message
// personalization read. The full customer record lives in the business layer.
type Customer struct {
	ID            uint       `gorm:"column:id;primaryKey;autoIncrement"`
	Name          string     `gorm:"column:name;size:128;not null"`
	Phone         string     `gorm:"column:phone;size:32"`
	Email         string     `gorm:"column:email;size:128"`
	LoyaltyPoints int        `gorm:"column:loyalty_points;not null;default:0"`
	Birthday      *time.Time `gorm:"column:birthday"`
	SMSOptIn      bool       `gorm:"column:sms_optin;not null;default:false"`
	WhatsAppOptIn bool       `gorm:"column:whatsapp_optin;not null;default:false"`
	Active        bool       `gorm:"column:active;not null;default:true"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (Customer) TableName() string { return "customers" }

// LoyaltyTier derives the tier name from accumulated points.
func (c Customer) LoyaltyTier() string {
	switch {
	case c.LoyaltyPoints >= tierPlatinumPoints:
		return "Platinum"
	case c.LoyaltyPoints >= tierGoldPoints:
		return "Gold"
	case c.LoyaltyPoints >= tierSilverPoints:
		return "Silver"
	default:
		return "Bronze"
	}
}
