package notify

import "strings"

// NormalizePhone converts a locally formatted phone number into the bare
// international form WhatsApp endpoints expect. A trunk-prefixed local
// number ("03001234567") becomes country code plus the rest ("923001234567"),
// an explicit international number keeps its digits with the plus stripped,
// and anything else passes through untouched.
func NormalizePhone(raw, countryCode string) string {
	phone := strings.NewReplacer(" ", "", "-", "").Replace(raw)
	switch {
	case strings.HasPrefix(phone, "0"):
		return countryCode + phone[1:]
	case strings.HasPrefix(phone, "+"):
		return phone[1:]
	default:
		return phone
	}
}
