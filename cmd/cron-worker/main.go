package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sunnatcollection/backoffice/internal/backup"
	"github.com/sunnatcollection/backoffice/internal/cron"
	"github.com/sunnatcollection/backoffice/internal/marketing"
	"github.com/sunnatcollection/backoffice/internal/notify"
	"github.com/sunnatcollection/backoffice/internal/sync"
	"github.com/sunnatcollection/backoffice/pkg/config"
	"github.com/sunnatcollection/backoffice/pkg/db"
	"github.com/sunnatcollection/backoffice/pkg/logger"
	"github.com/sunnatcollection/backoffice/pkg/metrics"
	"github.com/sunnatcollection/backoffice/pkg/redis"
)

const lockKeyFormat = "sunnat:cron-worker:lock:%s"

// Triggers fire once a day, shortly after opening.
const triggerHour, triggerMinute = 9, 0

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
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

	dispatcher, err := notify.NewDispatcher(cfg.WhatsApp, cfg.Messaging, notify.NewRepository(localDB.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create notification dispatcher", err)
		os.Exit(1)
	}

	marketingService, err := marketing.NewService(marketing.NewRepository(localDB.DB()), dispatcher, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create marketing service", err)
		os.Exit(1)
	}

	var lock cron.Lock = cron.NewMutexLock()
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
		redisLock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), 0)
		if err != nil {
			logg.Error(context.Background(), "failed to create scheduler lock", err)
			os.Exit(1)
		}
		lock = redisLock
	}

	registry := cron.NewRegistry()

	if cfg.CloudSync.Enabled {
		syncJob, err := cron.NewSyncJob(syncService)
		if err != nil {
			logg.Error(context.Background(), "failed to create sync job", err)
			os.Exit(1)
		}
		registry.Register(syncJob, cron.Every(cfg.CloudSync.Interval()))
	}

	if cfg.Backup.Enabled {
		backupJob, err := cron.NewBackupJob(backupService)
		if err != nil {
			logg.Error(context.Background(), "failed to create backup job", err)
			os.Exit(1)
		}
		hour, minute, err := cfg.Backup.ScheduleTime()
		if err != nil {
			logg.Error(context.Background(), "invalid backup schedule", err)
			os.Exit(1)
		}
		registry.Register(backupJob, cron.DailyAt(hour, minute))
	}

	triggerJob, err := cron.NewTriggerJob(marketingService)
	if err != nil {
		logg.Error(context.Background(), "failed to create trigger job", err)
		os.Exit(1)
	}
	registry.Register(triggerJob, cron.DailyAt(triggerHour, triggerMinute))

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metrics.NewJobMetrics(prometheus.DefaultRegisterer),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create scheduler", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Start(ctx); err != nil {
		logg.Error(ctx, "failed to start scheduler", err)
		os.Exit(1)
	}

	<-ctx.Done()
	service.Stop()
	logg.Info(ctx, "cron worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
