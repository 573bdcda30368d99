package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "development", cfg.App.Env)
	require.True(t, cfg.App.IsDev())
	require.Equal(t, 30, cfg.Backup.RetentionDays)
	require.Equal(t, "23:00", cfg.Backup.TimeOfDay)
	require.False(t, cfg.CloudSync.Enabled)
	require.False(t, cfg.WhatsApp.Configured())
}

func TestScheduleTimeParsing(t *testing.T) {
	b := BackupConfig{TimeOfDay: "04:30"}
	hour, minute, err := b.ScheduleTime()
	require.NoError(t, err)
	require.Equal(t, 4, hour)
	require.Equal(t, 30, minute)

	for _, bad := range []string{"", "25:00", "12:60", "noon", "9"} {
		b := BackupConfig{TimeOfDay: bad}
		_, _, err := b.ScheduleTime()
		require.Error(t, err, "time %q should be rejected", bad)
	}
}

func TestSyncIntervalFallback(t *testing.T) {
	c := CloudSyncConfig{IntervalMinutes: 0}
	require.Equal(t, "30m0s", c.Interval().String())

	c.IntervalMinutes = 5
	require.Equal(t, "5m0s", c.Interval().String())
}

func TestLoadRespectsOverrides(t *testing.T) {
	t.Setenv("SUNNAT_APP_ENV", "production")
	t.Setenv("SUNNAT_BACKUP_TIME", "01:15")
	t.Setenv("SUNNAT_CLOUD_SYNC_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.App.IsProd())
	require.True(t, cfg.CloudSync.Enabled)

	hour, minute, err := cfg.Backup.ScheduleTime()
	require.NoError(t, err)
	require.Equal(t, 1, hour)
	require.Equal(t, 15, minute)
}
