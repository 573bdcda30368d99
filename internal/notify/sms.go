package notify

import (
	"context"
	"net/http"
	"net/url"

	"github.com/sunnatcollection/backoffice/pkg/config"
	"github.com/sunnatcollection/backoffice/pkg/enums"
)

// SMSProvider sends plain SMS through the messaging gateway. SMS has no
// manual fallback: when the gateway rejects the send, the dispatch fails.
type SMSProvider struct {
	cfg    config.MessagingConfig
	client *http.Client
}

func NewSMSProvider(cfg config.MessagingConfig) *SMSProvider {
	return &SMSProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.SendTimeout},
	}
}

func (p *SMSProvider) Key() enums.ProviderKey { return enums.ProviderSMSGateway }

func (p *SMSProvider) Attempt(ctx context.Context, address, message string) (Outcome, error) {
	form := url.Values{}
	form.Set("From", p.cfg.SMSFrom)
	form.Set("To", address)
	form.Set("Body", message)
	return sendGatewayMessage(ctx, p.client, p.cfg, form, p.Key())
}
