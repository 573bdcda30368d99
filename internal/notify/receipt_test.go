package notify

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/sunnatcollection/backoffice/pkg/db/models"
)

func TestRenderReceipt(t *testing.T) {
	sale := models.Sale{
		SaleNumber:    "S-2026-00042",
		Subtotal:      decimal.NewFromInt(4500),
		Discount:      decimal.NewFromInt(500),
		Total:         decimal.NewFromInt(4000),
		PaymentMethod: "cash",
		CreatedAt:     time.Date(2026, 3, 7, 18, 30, 0, 0, time.UTC),
	}

	text := RenderReceipt("Sunnat Collection", sale, "Ayesha")
	assert.Contains(t, text, "*Sunnat Collection*")
	assert.Contains(t, text, "Dear Ayesha,")
	assert.Contains(t, text, "Receipt: S-2026-00042")
	assert.Contains(t, text, "Subtotal: Rs. 4500.00")
	assert.Contains(t, text, "Discount: Rs. 500.00")
	assert.Contains(t, text, "*Total: Rs. 4000.00*")
	assert.Contains(t, text, "Paid via: cash")
}

func TestRenderReceiptOmitsZeroDiscountAndAnonymousCustomer(t *testing.T) {
	sale := models.Sale{
		SaleNumber: "S-2026-00043",
		Subtotal:   decimal.NewFromInt(1200),
		Total:      decimal.NewFromInt(1200),
	}

	text := RenderReceipt("Sunnat Collection", sale, "")
	assert.NotContains(t, text, "Discount")
	assert.NotContains(t, text, "Dear")
}
