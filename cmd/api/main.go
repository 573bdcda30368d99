package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/sunnatcollection/backoffice/api/routes"
	"github.com/sunnatcollection/backoffice/internal/backup"
	"github.com/sunnatcollection/backoffice/internal/marketing"
	"github.com/sunnatcollection/backoffice/internal/notify"
	"github.com/sunnatcollection/backoffice/internal/sync"
	"github.com/sunnatcollection/backoffice/pkg/config"
	"github.com/sunnatcollection/backoffice/pkg/db"
	"github.com/sunnatcollection/backoffice/pkg/logger"
	"github.com/sunnatcollection/backoffice/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	localDB, err := db.NewLocal(context.Background(), cfg.LocalDB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to open local database", err)
		os.Exit(1)
	}
	defer func() {
		if err := localDB.Close(); err != nil {
			logg.Error(context.Background(), "error closing local database", err)
		}
	}()

	if cfg.LocalDB.AutoMigrate {
		if err := localDB.AutoMigrate(context.Background()); err != nil {
			logg.Error(context.Background(), "failed to migrate local database", err)
			os.Exit(1)
		}
	}

	var remote sync.RemoteApplier
	if cfg.CloudSync.Enabled && cfg.CloudSync.DatabaseURL != "" {
		cloudDB, err := db.NewRemote(context.Background(), cfg.CloudSync.DatabaseURL, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to open cloud database", err)
			os.Exit(1)
		}
		defer func() {
			if err := cloudDB.Close(); err != nil {
				logg.Error(context.Background(), "error closing cloud database", err)
			}
		}()
		remote = sync.NewGormRemote(cloudDB.DB())
	}

	syncService, err := sync.NewService(sync.ServiceParams{
		Config:     cfg.CloudSync,
		Logger:     logg,
		Repository: sync.NewRepository(localDB.DB()),
		Prober:     sync.NewHTTPProber(cfg.CloudSync.ProbeURL, cfg.CloudSync.ProbeTimeout),
		Remote:     remote,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create sync service", err)
		os.Exit(1)
	}

	backupService, err := backup.NewService(cfg.Backup, cfg.LocalDB.Path, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create backup service", err)
		os.Exit(1)
	}

	deliveryLogs := notify.NewRepository(localDB.DB())
	dispatcher, err := notify.NewDispatcher(cfg.WhatsApp, cfg.Messaging, deliveryLogs, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create notification dispatcher", err)
		os.Exit(1)
	}

	marketingService, err := marketing.NewService(marketing.NewRepository(localDB.DB()), dispatcher, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create marketing service", err)
		os.Exit(1)
	}

	params := routes.RouterParams{
		Config:     cfg,
		Logger:     logg,
		LocalDB:    localDB,
		Sync:       syncService,
		Backup:     backupService,
		Dispatcher: dispatcher,
		Logs:       deliveryLogs,
		Marketing:  marketingService,
	}
	if cfg.Redis.URL != "" {
		redisClient, err := redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		params.Redis = redisClient
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(params),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
