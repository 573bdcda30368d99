package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sunnatcollection/backoffice/api/responses"
	"github.com/sunnatcollection/backoffice/api/validators"
	"github.com/sunnatcollection/backoffice/internal/marketing"
	"github.com/sunnatcollection/backoffice/pkg/logger"
)

// MarketingService is the slice of the campaign/trigger evaluators the
// admin surface exposes.
type MarketingService interface {
	SendCampaign(ctx context.Context, id uint) (marketing.CampaignResult, error)
	RunTrigger(ctx context.Context, id uint) (marketing.TriggerResult, error)
}

func CampaignSend(svc MarketingService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseQueryUint(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.SendCampaign(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func TriggerRun(svc MarketingService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseQueryUint(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.RunTrigger(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
