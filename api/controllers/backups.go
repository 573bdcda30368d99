package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sunnatcollection/backoffice/api/responses"
	"github.com/sunnatcollection/backoffice/internal/backup"
	"github.com/sunnatcollection/backoffice/pkg/logger"
)

// BackupService is the slice of the maintenance service the admin surface
// exposes.
type BackupService interface {
	Create(ctx context.Context) (backup.Info, error)
	List(ctx context.Context) ([]backup.Info, error)
	Restore(ctx context.Context, name backup.Name) error
	Delete(ctx context.Context, name backup.Name) error
}

func BackupList(svc BackupService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		backups, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, backups)
	}
}

func BackupCreate(svc BackupService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, err := svc.Create(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, info)
	}
}

func BackupRestore(svc BackupService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, err := backup.ParseName(chi.URLParam(r, "name"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Restore(r.Context(), name); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"restored": name.String()})
	}
}

func BackupDelete(svc BackupService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, err := backup.ParseName(chi.URLParam(r, "name"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), name); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"deleted": name.String()})
	}
}
