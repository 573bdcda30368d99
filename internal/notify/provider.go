package notify

import (
	"context"

	"github.com/sunnatcollection/backoffice/pkg/enums"
)

// Outcome is what a provider reports after a successful attempt.
type Outcome struct {
	Provider  enums.ProviderKey
	MessageID string
	// Link is set only by the wa.me generator: the message was not pushed
	// anywhere, the operator opens the link to send it manually.
	Link string
}

// Provider is one mechanism in a delivery chain. Attempt either hands the
// message to an upstream gateway or produces a manual-send artifact; errors
// are reported to the dispatcher, which decides whether to fall through to
// the next provider.
type Provider interface {
	Key() enums.ProviderKey
	Attempt(ctx context.Context, address, message string) (Outcome, error)
}
