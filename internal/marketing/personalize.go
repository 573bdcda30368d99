package marketing

import (
	"strconv"
	"strings"

	"github.com/sunnatcollection/backoffice/pkg/db/models"
)

// Personalize substitutes the supported template placeholders with the
// recipient's details. Unknown placeholders pass through untouched so a
// template typo is visible in the delivered message rather than silently
// swallowed.
func Personalize(template string, customer models.Customer) string {
	replacer := strings.NewReplacer(
		"{name}", customer.Name,
		"{phone}", customer.Phone,
		"{points}", strconv.Itoa(customer.LoyaltyPoints),
		"{tier}", customer.LoyaltyTier(),
	)
	return replacer.Replace(template)
}
