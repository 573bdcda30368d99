package notify

import (
	"fmt"
	"strings"

	"github.com/sunnatcollection/backoffice/pkg/db/models"
)

// RenderReceipt formats a sale summary into the WhatsApp message body sent
// after checkout. The dispatcher receives the rendered text; it knows
// nothing about sales.
func RenderReceipt(storeName string, sale models.Sale, customerName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n", storeName)
	if customerName != "" {
		fmt.Fprintf(&b, "Dear %s,\n", customerName)
	}
	fmt.Fprintf(&b, "Thank you for your purchase!\n\n")
	fmt.Fprintf(&b, "Receipt: %s\n", sale.SaleNumber)
	fmt.Fprintf(&b, "Date: %s\n", sale.CreatedAt.Format("02 Jan 2006 15:04"))
	fmt.Fprintf(&b, "Subtotal: Rs. %s\n", sale.Subtotal.StringFixed(2))
	if sale.Discount.IsPositive() {
		fmt.Fprintf(&b, "Discount: Rs. %s\n", sale.Discount.StringFixed(2))
	}
	fmt.Fprintf(&b, "*Total: Rs. %s*\n", sale.Total.StringFixed(2))
	if sale.PaymentMethod != "" {
		fmt.Fprintf(&b, "Paid via: %s\n", sale.PaymentMethod)
	}
	return b.String()
}
