package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sunnatcollection/backoffice/api/controllers"
	"github.com/sunnatcollection/backoffice/api/middleware"
	"github.com/sunnatcollection/backoffice/pkg/config"
	"github.com/sunnatcollection/backoffice/pkg/logger"
)

// RouterParams carry everything the admin surface serves.
type RouterParams struct {
	Config     *config.Config
	Logger     *logger.Logger
	LocalDB    controllers.Pinger
	Redis      controllers.Pinger
	Sync       controllers.SyncService
	Backup     controllers.BackupService
	Dispatcher controllers.NotifyDispatcher
	Logs       controllers.DeliveryLogLister
	Marketing  controllers.MarketingService
}

// NewRouter assembles the admin HTTP surface.
func NewRouter(p RouterParams) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID(p.Logger))
	r.Use(middleware.Logging(p.Logger))
	r.Use(middleware.Recoverer(p.Logger))

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(p.Config))
		r.Get("/ready", controllers.HealthReady(p.Config, p.Logger, p.LocalDB, p.Redis))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/sync", func(r chi.Router) {
			r.Get("/status", controllers.SyncStatus(p.Sync, p.Logger))
			r.Post("/run", controllers.SyncRun(p.Sync, p.Logger))
			r.Post("/entries/{id}/requeue", controllers.SyncRequeue(p.Sync, p.Logger))
		})

		r.Route("/backups", func(r chi.Router) {
			r.Get("/", controllers.BackupList(p.Backup, p.Logger))
			r.Post("/", controllers.BackupCreate(p.Backup, p.Logger))
			r.Post("/{name}/restore", controllers.BackupRestore(p.Backup, p.Logger))
			r.Delete("/{name}", controllers.BackupDelete(p.Backup, p.Logger))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Post("/dispatch", controllers.NotificationDispatch(p.Dispatcher, p.Logger))
			r.Get("/logs", controllers.NotificationLogs(p.Logs, p.Logger))
		})

		r.Post("/campaigns/{id}/send", controllers.CampaignSend(p.Marketing, p.Logger))
		r.Post("/triggers/{id}/run", controllers.TriggerRun(p.Marketing, p.Logger))
	})

	return r
}
