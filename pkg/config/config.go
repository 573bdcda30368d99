package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "sunnat"

	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App       AppConfig
	Service   ServiceConfig
	LocalDB   LocalDBConfig
	CloudSync CloudSyncConfig
	Backup    BackupConfig
	Redis     RedisConfig
	WhatsApp  WhatsAppConfig
	Messaging MessagingConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if _, _, err := cfg.Backup.ScheduleTime(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SUNNAT_APP_ENV" default:"development"`
	Port         string `envconfig:"SUNNAT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SUNNAT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SUNNAT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"SUNNAT_SERVICE_KIND" default:"api"`
}

// LocalDBConfig points at the single-file store every kiosk runs on.
type LocalDBConfig struct {
	Path            string        `envconfig:"SUNNAT_DB_PATH" default:"data/pos.db"`
	AutoMigrate     bool          `envconfig:"SUNNAT_DB_AUTO_MIGRATE" default:"false"`
	MaxOpenConns    int           `envconfig:"SUNNAT_DB_MAX_OPEN_CONNS" default:"1"`
	ConnMaxLifetime time.Duration `envconfig:"SUNNAT_DB_CONN_MAX_LIFETIME" default:"1h"`
}

type CloudSyncConfig struct {
	Enabled         bool          `envconfig:"SUNNAT_CLOUD_SYNC_ENABLED" default:"false"`
	DatabaseURL     string        `envconfig:"SUNNAT_CLOUD_DATABASE_URL"`
	IntervalMinutes int           `envconfig:"SUNNAT_SYNC_INTERVAL_MINUTES" default:"30"`
	ProbeURL        string        `envconfig:"SUNNAT_SYNC_PROBE_URL" default:"https://www.google.com"`
	ProbeTimeout    time.Duration `envconfig:"SUNNAT_SYNC_PROBE_TIMEOUT" default:"5s"`
}

func (c CloudSyncConfig) Interval() time.Duration {
	if c.IntervalMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.IntervalMinutes) * time.Minute
}

type BackupConfig struct {
	Enabled       bool   `envconfig:"SUNNAT_BACKUP_ENABLED" default:"false"`
	Dir           string `envconfig:"SUNNAT_BACKUP_DIR" default:"backups"`
	RetentionDays int    `envconfig:"SUNNAT_BACKUP_RETENTION_DAYS" default:"30"`
	TimeOfDay     string `envconfig:"SUNNAT_BACKUP_TIME" default:"23:00"`
}

// ScheduleTime parses the configured HH:MM wall-clock backup time.
func (b BackupConfig) ScheduleTime() (hour, minute int, err error) {
	parts := strings.SplitN(b.TimeOfDay, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid backup time %q, want HH:MM", b.TimeOfDay)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid backup hour %q", parts[0])
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid backup minute %q", parts[1])
	}
	return hour, minute, nil
}

// RedisConfig is optional; when URL is empty the cron worker falls back to an
// in-process lock (single kiosk deployment).
type RedisConfig struct {
	URL          string        `envconfig:"SUNNAT_REDIS_URL"`
	Password     string        `envconfig:"SUNNAT_REDIS_PASSWORD"`
	DB           int           `envconfig:"SUNNAT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SUNNAT_REDIS_POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"SUNNAT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SUNNAT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SUNNAT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// WhatsAppConfig carries the Cloud API credentials plus the trunk-prefix
// mapping used when normalizing local phone numbers.
type WhatsAppConfig struct {
	PhoneNumberID string        `envconfig:"SUNNAT_WHATSAPP_PHONE_NUMBER_ID"`
	AccessToken   string        `envconfig:"SUNNAT_WHATSAPP_ACCESS_TOKEN"`
	APIBaseURL    string        `envconfig:"SUNNAT_WHATSAPP_API_BASE_URL" default:"https://graph.facebook.com/v18.0"`
	CountryCode   string        `envconfig:"SUNNAT_WHATSAPP_COUNTRY_CODE" default:"92"`
	SendTimeout   time.Duration `envconfig:"SUNNAT_WHATSAPP_SEND_TIMEOUT" default:"30s"`
}

func (w WhatsAppConfig) Configured() bool {
	return w.PhoneNumberID != "" && w.AccessToken != ""
}

// MessagingConfig holds the legacy gateway credentials used for SMS and as
// the second WhatsApp fallback.
type MessagingConfig struct {
	AccountSID   string        `envconfig:"SUNNAT_MSG_ACCOUNT_SID"`
	AuthToken    string        `envconfig:"SUNNAT_MSG_AUTH_TOKEN"`
	WhatsAppFrom string        `envconfig:"SUNNAT_MSG_WHATSAPP_FROM" default:"+14155238886"`
	SMSFrom      string        `envconfig:"SUNNAT_MSG_SMS_FROM"`
	APIBaseURL   string        `envconfig:"SUNNAT_MSG_API_BASE_URL" default:"https://api.twilio.com/2010-04-01"`
	SendTimeout  time.Duration `envconfig:"SUNNAT_MSG_SEND_TIMEOUT" default:"30s"`
}

func (m MessagingConfig) Configured() bool {
	return m.AccountSID != "" && m.AuthToken != ""
}
