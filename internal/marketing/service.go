package marketing

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/sunnatcollection/backoffice/internal/notify"
	"github.com/sunnatcollection/backoffice/pkg/db/models"
	"github.com/sunnatcollection/backoffice/pkg/enums"
	pkgerrors "github.com/sunnatcollection/backoffice/pkg/errors"
	"github.com/sunnatcollection/backoffice/pkg/logger"
)

// Dispatcher is the slice of the notification dispatcher this package uses.
type Dispatcher interface {
	Dispatch(ctx context.Context, req notify.Request) (models.DeliveryLog, error)
}

// CampaignResult summarizes one campaign send.
type CampaignResult struct {
	CampaignID uint `json:"campaign_id"`
	Recipients int  `json:"recipients"`
	Sent       int  `json:"sent"`
	Failed     int  `json:"failed"`
}

// TriggerResult summarizes one trigger evaluation.
type TriggerResult struct {
	TriggerID  uint `json:"trigger_id"`
	Candidates int  `json:"candidates"`
	Fired      int  `json:"fired"`
	Skipped    int  `json:"skipped"`
	Failed     int  `json:"failed"`
}

// Service evaluates campaigns and automated triggers, handing each outbound
// message to the notification dispatcher.
type Service struct {
	repo       Repository
	dispatcher Dispatcher
	logg       *logger.Logger
	now        func() time.Time
}

// NewService wires the marketing evaluators.
func NewService(repo Repository, dispatcher Dispatcher, logg *logger.Logger) (*Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "marketing repository required")
	}
	if dispatcher == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "dispatcher required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &Service{
		repo:       repo,
		dispatcher: dispatcher,
		logg:       logg,
		now:        time.Now,
	}, nil
}

// SendCampaign resolves the campaign's audience and sends the personalized
// template to every opted-in recipient. A campaign can be sent once: a
// completed or cancelled campaign is rejected.
func (s *Service) SendCampaign(ctx context.Context, id uint) (CampaignResult, error) {
	campaign, err := s.repo.GetCampaign(ctx, id)
	if err != nil {
		return CampaignResult{}, err
	}
	if campaign.Status == enums.CampaignStatusCompleted || campaign.Status == enums.CampaignStatusCancelled {
		return CampaignResult{}, pkgerrors.New(pkgerrors.CodeStateConflict, "campaign already finished").
			WithDetails(map[string]any{"status": campaign.Status})
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"campaign_id": campaign.ID,
		"audience":    campaign.Audience,
	})

	audience, err := s.repo.ResolveAudience(ctx, campaign.Audience, campaign.Criteria, s.now().UTC())
	if err != nil {
		return CampaignResult{}, err
	}

	campaign.Status = enums.CampaignStatusRunning
	campaign.TotalRecipients = len(audience)
	if err := s.repo.UpdateCampaign(ctx, &campaign); err != nil {
		return CampaignResult{}, err
	}

	result := CampaignResult{CampaignID: campaign.ID, Recipients: len(audience)}
	for _, customer := range audience {
		customer := customer
		message := Personalize(campaign.Template, customer)
		tag := fmt.Sprintf("campaign:%d", campaign.ID)

		if campaign.Channel.IncludesSMS() && customer.SMSOptIn {
			s.send(ctx, &result.Sent, &result.Failed, notify.Request{
				CustomerID: &customer.ID,
				Channel:    enums.ChannelSMS,
				Address:    customer.Phone,
				Message:    message,
				Context:    tag,
			})
		}
		if campaign.Channel.IncludesWhatsApp() && customer.WhatsAppOptIn {
			s.send(ctx, &result.Sent, &result.Failed, notify.Request{
				CustomerID: &customer.ID,
				Channel:    enums.ChannelWhatsApp,
				Address:    customer.Phone,
				Message:    message,
				Context:    tag,
			})
		}
	}

	completedAt := s.now().UTC()
	campaign.Status = enums.CampaignStatusCompleted
	campaign.SentCount = result.Sent
	campaign.FailedCount = result.Failed
	campaign.CompletedAt = &completedAt
	if err := s.repo.UpdateCampaign(ctx, &campaign); err != nil {
		return result, err
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"sent":   result.Sent,
		"failed": result.Failed,
	}), "campaign completed")
	return result, nil
}

func (s *Service) send(ctx context.Context, sent, failed *int, req notify.Request) {
	if _, err := s.dispatcher.Dispatch(ctx, req); err != nil {
		*failed++
		return
	}
	*sent++
}

// RunTrigger evaluates one trigger. Each (trigger, customer) pair fires at
// most once per UTC calendar day; repeated runs on the same day skip
// customers already handled.
func (s *Service) RunTrigger(ctx context.Context, id uint) (TriggerResult, error) {
	trigger, err := s.repo.GetTrigger(ctx, id)
	if err != nil {
		return TriggerResult{}, err
	}
	if !trigger.Active {
		return TriggerResult{}, pkgerrors.New(pkgerrors.CodeStateConflict, "trigger is inactive")
	}
	return s.runTrigger(ctx, trigger)
}

func (s *Service) runTrigger(ctx context.Context, trigger models.Trigger) (TriggerResult, error) {
	now := s.now().UTC()
	ctx = s.logg.WithFields(ctx, map[string]any{
		"trigger_id":   trigger.ID,
		"trigger_type": trigger.Type,
	})

	candidates, err := s.repo.TriggerCandidates(ctx, trigger, now)
	if err != nil {
		return TriggerResult{}, err
	}

	result := TriggerResult{TriggerID: trigger.ID, Candidates: len(candidates)}
	for _, customer := range candidates {
		customer := customer
		fired, err := s.repo.TriggerFiredOn(ctx, trigger.ID, customer.ID, now)
		if err != nil {
			return result, err
		}
		if fired {
			result.Skipped++
			continue
		}

		sent, channelUsed, dispatchErr := s.fireTrigger(ctx, trigger, customer)
		entry := models.TriggerLog{
			TriggerID:   trigger.ID,
			CustomerID:  customer.ID,
			TriggeredAt: now,
			MessageSent: sent,
			ChannelUsed: channelUsed,
		}
		if dispatchErr != nil {
			msg := dispatchErr.Error()
			entry.ErrorMessage = &msg
		}
		if err := s.repo.CreateTriggerLog(ctx, &entry); err != nil {
			return result, err
		}
		if sent {
			result.Fired++
		} else {
			result.Failed++
		}
	}

	if result.Fired > 0 {
		trigger.TimesTriggered += result.Fired
		trigger.LastTriggeredAt = &now
		if err := s.repo.UpdateTrigger(ctx, &trigger); err != nil {
			return result, err
		}
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"candidates": result.Candidates,
		"fired":      result.Fired,
		"skipped":    result.Skipped,
	}), "trigger evaluated")
	return result, nil
}

// fireTrigger sends the trigger's template over its configured channels.
// The firing counts as sent when at least one channel delivered.
func (s *Service) fireTrigger(ctx context.Context, trigger models.Trigger, customer models.Customer) (bool, enums.CampaignChannel, error) {
	message := Personalize(trigger.Template, customer)
	tag := fmt.Sprintf("trigger:%d", trigger.ID)

	var errs error
	sent := false
	var channelUsed enums.CampaignChannel

	if trigger.Channel.IncludesSMS() && customer.SMSOptIn {
		_, err := s.dispatcher.Dispatch(ctx, notify.Request{
			CustomerID: &customer.ID,
			Channel:    enums.ChannelSMS,
			Address:    customer.Phone,
			Message:    message,
			Context:    tag,
		})
		if err != nil {
			errs = multierr.Append(errs, err)
		} else {
			sent = true
			channelUsed = enums.CampaignChannelSMS
		}
	}
	if trigger.Channel.IncludesWhatsApp() && customer.WhatsAppOptIn {
		_, err := s.dispatcher.Dispatch(ctx, notify.Request{
			CustomerID: &customer.ID,
			Channel:    enums.ChannelWhatsApp,
			Address:    customer.Phone,
			Message:    message,
			Context:    tag,
		})
		if err != nil {
			errs = multierr.Append(errs, err)
		} else {
			sent = true
			if channelUsed == enums.CampaignChannelSMS {
				channelUsed = enums.CampaignChannelBoth
			} else {
				channelUsed = enums.CampaignChannelWhatsApp
			}
		}
	}

	if !sent && errs == nil {
		errs = pkgerrors.New(pkgerrors.CodeValidation, "customer not opted in on any trigger channel")
	}
	return sent, channelUsed, errs
}

// RunAllTriggers evaluates every active trigger. One trigger's failure does
// not stop the rest; errors are aggregated for the caller.
func (s *Service) RunAllTriggers(ctx context.Context) ([]TriggerResult, error) {
	triggers, err := s.repo.ListActiveTriggers(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]TriggerResult, 0, len(triggers))
	var errs error
	for _, trigger := range triggers {
		result, err := s.runTrigger(ctx, trigger)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("trigger %d: %w", trigger.ID, err))
			continue
		}
		results = append(results, result)
	}
	return results, errs
}
