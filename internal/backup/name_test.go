package backup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNameFormatsTimestamp(t *testing.T) {
	at := time.Date(2026, 3, 7, 23, 0, 5, 0, time.UTC)
	assert.Equal(t, "backup_20260307_230005.db", NewName(at).String())
	assert.Equal(t, "pre_restore_20260307_230005.db", NewPreRestoreName(at).String())
}

func TestParseNameAcceptsGeneratedNames(t *testing.T) {
	name, err := ParseName(NewName(time.Now()).String())
	require.NoError(t, err)
	assert.False(t, name.IsPreRestore())

	snapshot, err := ParseName(NewPreRestoreName(time.Now()).String())
	require.NoError(t, err)
	assert.True(t, snapshot.IsPreRestore())
}

func TestParseNameRejectsHostileInput(t *testing.T) {
	cases := []string{
		"",
		"backup.db",
		"backup_20260307.db",
		"backup_20260307_230005.sqlite",
		"backup_20260307_230005.db.tmp",
		"../backup_20260307_230005.db",
		"backup_../../etc/passwd",
		"backup_20260307_230005.db/..",
		"pre_restore_.db",
		"BACKUP_20260307_230005.db",
	}
	for _, raw := range cases {
		_, err := ParseName(raw)
		assert.Error(t, err, "expected %q to be rejected", raw)
	}
}
