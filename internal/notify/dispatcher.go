package notify

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/sunnatcollection/backoffice/pkg/config"
	"github.com/sunnatcollection/backoffice/pkg/db/models"
	"github.com/sunnatcollection/backoffice/pkg/enums"
	pkgerrors "github.com/sunnatcollection/backoffice/pkg/errors"
	"github.com/sunnatcollection/backoffice/pkg/logger"
)

// Request describes one outbound message.
type Request struct {
	CustomerID *uint
	Channel    enums.Channel
	Address    string
	Message    string
	// Context tags what triggered the send ("receipt", "campaign:12", ...).
	Context string
}

// snapshot freezes the messaging configuration for the duration of one
// dispatch, so a concurrent config reload cannot produce a chain that mixes
// old and new credentials.
type snapshot struct {
	whatsapp  config.WhatsAppConfig
	messaging config.MessagingConfig
}

// Dispatcher routes a message through the channel's provider chain and
// records exactly one delivery log row per call.
type Dispatcher struct {
	cfgSource func() snapshot
	repo      Repository
	logg      *logger.Logger
	now       func() time.Time

	// buildChain is swapped out by tests.
	buildChain func(channel enums.Channel, snap snapshot) []Provider
}

// NewDispatcher wires the dispatcher against live configuration.
func NewDispatcher(whatsapp config.WhatsAppConfig, messaging config.MessagingConfig, repo Repository, logg *logger.Logger) (*Dispatcher, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "delivery log repository required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &Dispatcher{
		cfgSource: func() snapshot {
			return snapshot{whatsapp: whatsapp, messaging: messaging}
		},
		repo:       repo,
		logg:       logg,
		now:        time.Now,
		buildChain: defaultChain,
	}, nil
}

// defaultChain assembles the provider chain for a channel. WhatsApp degrades
// through cloud API, legacy gateway and finally the wa.me link generator;
// SMS has exactly one gateway and no manual fallback.
func defaultChain(channel enums.Channel, snap snapshot) []Provider {
	switch channel {
	case enums.ChannelWhatsApp:
		var chain []Provider
		if snap.whatsapp.Configured() {
			chain = append(chain, NewCloudAPIProvider(snap.whatsapp))
		}
		if snap.messaging.Configured() {
			chain = append(chain, NewLegacyGatewayProvider(snap.messaging))
		}
		return append(chain, NewWALinkProvider())
	case enums.ChannelSMS:
		if snap.messaging.Configured() {
			return []Provider{NewSMSProvider(snap.messaging)}
		}
		return nil
	default:
		return nil
	}
}

// Dispatch sends one message. An empty address is rejected before anything
// is persisted; every other path writes exactly one delivery log row,
// created pending and updated in place to the terminal outcome.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (models.DeliveryLog, error) {
	if strings.TrimSpace(req.Address) == "" {
		return models.DeliveryLog{}, pkgerrors.New(pkgerrors.CodeValidation, "recipient address required")
	}
	if !req.Channel.IsValid() {
		return models.DeliveryLog{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid channel").
			WithDetails(map[string]any{"channel": req.Channel})
	}

	snap := d.cfgSource()
	address := req.Address
	if req.Channel == enums.ChannelWhatsApp {
		address = NormalizePhone(address, snap.whatsapp.CountryCode)
	}

	entry := models.DeliveryLog{
		ID:         uuid.New(),
		CustomerID: req.CustomerID,
		Channel:    req.Channel,
		Address:    address,
		Message:    req.Message,
		Status:     enums.DeliveryStatusPending,
		Context:    req.Context,
	}
	if err := d.repo.Create(ctx, &entry); err != nil {
		return models.DeliveryLog{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create delivery log")
	}

	ctx = d.logg.WithFields(ctx, map[string]any{
		"delivery_id": entry.ID.String(),
		"channel":     req.Channel,
	})

	chain := d.buildChain(req.Channel, snap)
	var attemptErrs error
	for _, provider := range chain {
		outcome, err := provider.Attempt(ctx, address, req.Message)
		if err != nil {
			attemptErrs = multierr.Append(attemptErrs, err)
			d.logg.Warn(d.logg.WithField(ctx, "provider", provider.Key()), "provider attempt failed, falling through")
			continue
		}
		return d.close(ctx, entry, outcome)
	}

	if attemptErrs == nil {
		attemptErrs = pkgerrors.New(pkgerrors.CodeDependency, "no provider configured for channel")
	}
	return d.fail(ctx, entry, attemptErrs)
}

func (d *Dispatcher) close(ctx context.Context, entry models.DeliveryLog, outcome Outcome) (models.DeliveryLog, error) {
	sentAt := d.now().UTC()
	entry.Status = enums.DeliveryStatusSent
	entry.Provider = outcome.Provider
	entry.SentAt = &sentAt
	if outcome.MessageID != "" {
		entry.ProviderMessageID = &outcome.MessageID
	}
	if outcome.Link != "" {
		entry.Link = &outcome.Link
	}
	if err := d.repo.Update(ctx, &entry); err != nil {
		return entry, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record delivery outcome")
	}
	d.logg.Info(d.logg.WithField(ctx, "provider", entry.Provider), "message dispatched")
	return entry, nil
}

func (d *Dispatcher) fail(ctx context.Context, entry models.DeliveryLog, cause error) (models.DeliveryLog, error) {
	msg := cause.Error()
	entry.Status = enums.DeliveryStatusFailed
	entry.ErrorMessage = &msg
	if err := d.repo.Update(ctx, &entry); err != nil {
		return entry, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record delivery failure")
	}
	d.logg.Error(ctx, "all providers failed", cause)
	return entry, pkgerrors.Wrap(pkgerrors.CodeDependency, cause, "message could not be delivered")
}
