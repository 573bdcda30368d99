package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is the slice of the sales table the marketing layer queries: who
// bought, when, and the totals receipt rendering formats.
type Sale struct {
	ID            uint            `gorm:"column:id;primaryKey;autoIncrement"`
	SaleNumber    string          `gorm:"column:sale_number;size:64;not null"`
	CustomerID    *uint           `gorm:"column:customer_id;index"`
	Subtotal      decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2)"`
	Discount      decimal.Decimal `gorm:"column:discount;type:numeric(12,2)"`
	Total         decimal.Decimal `gorm:"column:total;type:numeric(12,2);not null"`
	PaymentMethod string          `gorm:"column:payment_method;size:32"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime;index"`
}

func (Sale) TableName() string { return "sales" }
