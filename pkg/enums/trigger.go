package enums

import "fmt"

// TriggerType is the condition an automated trigger evaluates.
type TriggerType string

const (
	TriggerNoPurchaseDays   TriggerType = "no_purchase_days"
	TriggerBirthdayReminder TriggerType = "birthday_reminder"
	TriggerLoyaltyMilestone TriggerType = "loyalty_milestone"
)

var validTriggerTypes = []TriggerType{
	TriggerNoPurchaseDays,
	TriggerBirthdayReminder,
	TriggerLoyaltyMilestone,
}

// IsValid reports whether the value matches a known trigger type.
func (t TriggerType) IsValid() bool {
	for _, candidate := range validTriggerTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTriggerType converts raw input into TriggerType.
func ParseTriggerType(value string) (TriggerType, error) {
	for _, candidate := range validTriggerTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid trigger type %q", value)
}
