package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sunnatcollection/backoffice/pkg/config"
	"github.com/sunnatcollection/backoffice/pkg/enums"
	pkgerrors "github.com/sunnatcollection/backoffice/pkg/errors"
)

// LegacyGatewayProvider sends WhatsApp messages through the Twilio-compatible
// messaging gateway. It is the second link in the WhatsApp chain, used when
// the graph API is unconfigured or rejects the send.
type LegacyGatewayProvider struct {
	cfg    config.MessagingConfig
	client *http.Client
}

func NewLegacyGatewayProvider(cfg config.MessagingConfig) *LegacyGatewayProvider {
	return &LegacyGatewayProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.SendTimeout},
	}
}

func (p *LegacyGatewayProvider) Key() enums.ProviderKey { return enums.ProviderLegacyGateway }

func (p *LegacyGatewayProvider) Attempt(ctx context.Context, address, message string) (Outcome, error) {
	form := url.Values{}
	form.Set("From", "whatsapp:"+p.cfg.WhatsAppFrom)
	form.Set("To", "whatsapp:+"+address)
	form.Set("Body", message)
	return sendGatewayMessage(ctx, p.client, p.cfg, form, p.Key())
}

type gatewayResponse struct {
	SID     string `json:"sid"`
	Message string `json:"message"`
}

// sendGatewayMessage posts one message to the gateway's Messages endpoint.
// Shared between the WhatsApp fallback and the SMS provider, which differ
// only in the From/To addressing scheme.
func sendGatewayMessage(ctx context.Context, client *http.Client, cfg config.MessagingConfig, form url.Values, key enums.ProviderKey) (Outcome, error) {
	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", cfg.APIBaseURL, cfg.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Outcome{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build gateway request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(cfg.AccountSID, cfg.AuthToken)

	resp, err := client.Do(req)
	if err != nil {
		return Outcome{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "gateway request failed")
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	var parsed gatewayResponse
	_ = json.Unmarshal(body, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := fmt.Sprintf("gateway returned status %d", resp.StatusCode)
		if parsed.Message != "" {
			msg = fmt.Sprintf("%s: %s", msg, parsed.Message)
		}
		return Outcome{}, pkgerrors.New(pkgerrors.CodeDependency, msg)
	}

	return Outcome{Provider: key, MessageID: parsed.SID}, nil
}
