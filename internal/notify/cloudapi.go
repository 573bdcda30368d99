package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sunnatcollection/backoffice/pkg/config"
	"github.com/sunnatcollection/backoffice/pkg/enums"
	pkgerrors "github.com/sunnatcollection/backoffice/pkg/errors"
)

// CloudAPIProvider pushes WhatsApp text messages through the Meta graph API.
type CloudAPIProvider struct {
	cfg    config.WhatsAppConfig
	client *http.Client
}

// NewCloudAPIProvider builds the graph API provider. Callers are expected to
// check cfg.Configured() before putting it into a chain.
func NewCloudAPIProvider(cfg config.WhatsAppConfig) *CloudAPIProvider {
	return &CloudAPIProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.SendTimeout},
	}
}

func (p *CloudAPIProvider) Key() enums.ProviderKey { return enums.ProviderWhatsAppCloud }

type cloudAPIRequest struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             cloudAPIBody `json:"text"`
}

type cloudAPIBody struct {
	Body string `json:"body"`
}

type cloudAPIResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

func (p *CloudAPIProvider) Attempt(ctx context.Context, address, message string) (Outcome, error) {
	payload, err := json.Marshal(cloudAPIRequest{
		MessagingProduct: "whatsapp",
		To:               address,
		Type:             "text",
		Text:             cloudAPIBody{Body: message},
	})
	if err != nil {
		return Outcome{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cloud api request")
	}

	url := fmt.Sprintf("%s/%s/messages", p.cfg.APIBaseURL, p.cfg.PhoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return Outcome{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build cloud api request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.cfg.AccessToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return Outcome{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cloud api request failed")
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	var parsed cloudAPIResponse
	_ = json.Unmarshal(body, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := fmt.Sprintf("cloud api returned status %d", resp.StatusCode)
		if parsed.Error != nil && parsed.Error.Message != "" {
			msg = fmt.Sprintf("%s: %s", msg, parsed.Error.Message)
		}
		return Outcome{}, pkgerrors.New(pkgerrors.CodeDependency, msg)
	}
	if len(parsed.Messages) == 0 {
		return Outcome{}, pkgerrors.New(pkgerrors.CodeDependency, "cloud api response missing message id")
	}

	return Outcome{Provider: p.Key(), MessageID: parsed.Messages[0].ID}, nil
}
