package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sunnatcollection/backoffice/api/responses"
	"github.com/sunnatcollection/backoffice/api/validators"
	"github.com/sunnatcollection/backoffice/internal/sync"
	"github.com/sunnatcollection/backoffice/pkg/logger"
)

// SyncService is the slice of the sync queue processor the admin surface
// exposes.
type SyncService interface {
	Status(ctx context.Context) (sync.Status, error)
	ProcessQueue(ctx context.Context) (sync.Result, error)
	Requeue(ctx context.Context, id uint) error
}

func SyncStatus(svc SyncService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := svc.Status(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, status)
	}
}

func SyncRun(svc SyncService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.ProcessQueue(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func SyncRequeue(svc SyncService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseQueryUint(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Requeue(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"id": id, "status": "pending"})
	}
}
