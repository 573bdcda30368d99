package enums

import "fmt"

// Channel is the outbound delivery channel for a notification.
type Channel string

const (
	ChannelSMS      Channel = "sms"
	ChannelWhatsApp Channel = "whatsapp"
	ChannelEmail    Channel = "email"
)

var validChannels = []Channel{
	ChannelSMS,
	ChannelWhatsApp,
	ChannelEmail,
}

// IsValid reports whether the value matches a known channel.
func (c Channel) IsValid() bool {
	for _, candidate := range validChannels {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseChannel converts raw input into Channel.
func ParseChannel(value string) (Channel, error) {
	for _, candidate := range validChannels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid channel %q", value)
}

// DeliveryStatus is the terminal outcome recorded on a delivery log row.
type DeliveryStatus string

const (
	DeliveryStatusPending   DeliveryStatus = "pending"
	DeliveryStatusSent      DeliveryStatus = "sent"
	DeliveryStatusDelivered DeliveryStatus = "delivered"
	DeliveryStatusFailed    DeliveryStatus = "failed"
)

var validDeliveryStatuses = []DeliveryStatus{
	DeliveryStatusPending,
	DeliveryStatusSent,
	DeliveryStatusDelivered,
	DeliveryStatusFailed,
}

// IsValid reports whether the value matches a known status.
func (s DeliveryStatus) IsValid() bool {
	for _, candidate := range validDeliveryStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ProviderKey identifies which mechanism in the fallback chain ultimately
// handled a dispatch.
type ProviderKey string

const (
	ProviderWhatsAppCloud ProviderKey = "whatsapp_cloud_api"
	ProviderLegacyGateway ProviderKey = "legacy_gateway"
	ProviderWALink        ProviderKey = "wa_link"
	ProviderSMSGateway    ProviderKey = "sms_gateway"
)
