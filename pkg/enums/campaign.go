package enums

import "fmt"

// CampaignChannel selects which channels a campaign or trigger sends on.
type CampaignChannel string

const (
	CampaignChannelSMS      CampaignChannel = "sms"
	CampaignChannelWhatsApp CampaignChannel = "whatsapp"
	CampaignChannelBoth     CampaignChannel = "both"
)

var validCampaignChannels = []CampaignChannel{
	CampaignChannelSMS,
	CampaignChannelWhatsApp,
	CampaignChannelBoth,
}

// IsValid reports whether the value matches a known campaign channel.
func (c CampaignChannel) IsValid() bool {
	for _, candidate := range validCampaignChannels {
		if candidate == c {
			return true
		}
	}
	return false
}

// IncludesSMS reports whether the campaign channel sends SMS.
func (c CampaignChannel) IncludesSMS() bool {
	return c == CampaignChannelSMS || c == CampaignChannelBoth
}

// IncludesWhatsApp reports whether the campaign channel sends WhatsApp.
func (c CampaignChannel) IncludesWhatsApp() bool {
	return c == CampaignChannelWhatsApp || c == CampaignChannelBoth
}

// ParseCampaignChannel converts raw input into CampaignChannel.
func ParseCampaignChannel(value string) (CampaignChannel, error) {
	for _, candidate := range validCampaignChannels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid campaign channel %q", value)
}

// CampaignStatus tracks a campaign through its lifecycle.
type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusRunning   CampaignStatus = "running"
	CampaignStatusCompleted CampaignStatus = "completed"
	CampaignStatusCancelled CampaignStatus = "cancelled"
)

var validCampaignStatuses = []CampaignStatus{
	CampaignStatusDraft,
	CampaignStatusRunning,
	CampaignStatusCompleted,
	CampaignStatusCancelled,
}

// IsValid reports whether the value matches a known status.
func (s CampaignStatus) IsValid() bool {
	for _, candidate := range validCampaignStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CampaignAudience selects which customers a campaign targets.
type CampaignAudience string

const (
	AudienceAll           CampaignAudience = "all"
	AudienceLoyaltyTier   CampaignAudience = "loyalty_tier"
	AudienceInactive      CampaignAudience = "inactive"
	AudienceBirthdayMonth CampaignAudience = "birthday_month"
)

var validCampaignAudiences = []CampaignAudience{
	AudienceAll,
	AudienceLoyaltyTier,
	AudienceInactive,
	AudienceBirthdayMonth,
}

// IsValid reports whether the value matches a known audience.
func (a CampaignAudience) IsValid() bool {
	for _, candidate := range validCampaignAudiences {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseCampaignAudience converts raw input into CampaignAudience.
func ParseCampaignAudience(value string) (CampaignAudience, error) {
	for _, candidate := range validCampaignAudiences {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid campaign audience %q", value)
}
