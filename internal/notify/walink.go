package notify

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sunnatcollection/backoffice/pkg/enums"
)

// WALinkProvider is the terminal WhatsApp fallback. It never talks to a
// network: it renders a wa.me deep link the operator can open to send the
// message by hand, so a WhatsApp dispatch always resolves to something.
type WALinkProvider struct{}

func NewWALinkProvider() *WALinkProvider { return &WALinkProvider{} }

func (p *WALinkProvider) Key() enums.ProviderKey { return enums.ProviderWALink }

func (p *WALinkProvider) Attempt(ctx context.Context, address, message string) (Outcome, error) {
	link := fmt.Sprintf("https://wa.me/%s?text=%s", address, url.QueryEscape(message))
	return Outcome{Provider: p.Key(), Link: link}, nil
}
