package controllers

import (
	"context"
	"net/http"

	"github.com/sunnatcollection/backoffice/api/responses"
	"github.com/sunnatcollection/backoffice/api/validators"
	"github.com/sunnatcollection/backoffice/internal/notify"
	"github.com/sunnatcollection/backoffice/pkg/db/models"
	"github.com/sunnatcollection/backoffice/pkg/enums"
	pkgerrors "github.com/sunnatcollection/backoffice/pkg/errors"
	"github.com/sunnatcollection/backoffice/pkg/logger"
	"github.com/sunnatcollection/backoffice/pkg/pagination"
)

// NotifyDispatcher is the slice of the notification dispatcher the admin
// surface exposes.
type NotifyDispatcher interface {
	Dispatch(ctx context.Context, req notify.Request) (models.DeliveryLog, error)
}

// DeliveryLogLister pages through recorded delivery logs.
type DeliveryLogLister interface {
	List(ctx context.Context, filter notify.ListFilter) (notify.Page, error)
}

type dispatchRequest struct {
	CustomerID *uint  `json:"customer_id"`
	Channel    string `json:"channel" validate:"required,oneof=sms whatsapp"`
	Address    string `json:"address" validate:"required,max=128"`
	Message    string `json:"message" validate:"required"`
	Context    string `json:"context" validate:"max=256"`
}

func NotificationDispatch(dispatcher NotifyDispatcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body dispatchRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		channel, err := enums.ParseChannel(body.Channel)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		log, err := dispatcher.Dispatch(r.Context(), notify.Request{
			CustomerID: body.CustomerID,
			Channel:    channel,
			Address:    body.Address,
			Message:    body.Message,
			Context:    body.Context,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, log)
	}
}

func NotificationLogs(lister DeliveryLogLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := notify.ListFilter{
			Cursor: r.URL.Query().Get("cursor"),
			Limit:  limit,
		}
		if raw := r.URL.Query().Get("channel"); raw != "" {
			channel, err := enums.ParseChannel(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			filter.Channel = channel
		}
		if raw := r.URL.Query().Get("status"); raw != "" {
			status := enums.DeliveryStatus(raw)
			if !status.IsValid() {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "invalid delivery status").
						WithDetails(map[string]any{"status": raw}))
				return
			}
			filter.Status = status
		}

		page, err := lister.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"logs":        page.Logs,
			"next_cursor": page.NextCursor,
		})
	}
}
