package backup

import (
	"regexp"
	"strings"
	"time"

	pkgerrors "github.com/sunnatcollection/backoffice/pkg/errors"
)

const (
	backupPrefix     = "backup_"
	preRestorePrefix = "pre_restore_"
	suffix           = ".db"
	stampLayout      = "20060102_150405"
)

// namePattern matches both regular backups and pre-restore snapshots. The
// timestamp digits are fixed-width, so anything with separators, traversal
// sequences or stray characters fails outright.
var namePattern = regexp.MustCompile(`^(backup|pre_restore)_\d{8}_\d{6}\.db$`)

// Name is a validated backup filename. Values only come out of NewName or
// ParseName, so a Name can be joined onto the backup directory without any
// further sanitization.
type Name struct {
	value string
}

// NewName builds the filename for a backup taken at the given instant.
func NewName(at time.Time) Name {
	return Name{value: backupPrefix + at.Format(stampLayout) + suffix}
}

// NewPreRestoreName builds the filename for the safety snapshot taken before
// a restore overwrites the live store.
func NewPreRestoreName(at time.Time) Name {
	return Name{value: preRestorePrefix + at.Format(stampLayout) + suffix}
}

// ParseName validates raw user input. It never touches the filesystem.
func ParseName(raw string) (Name, error) {
	if !namePattern.MatchString(raw) {
		return Name{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid backup name").
			WithDetails(map[string]any{"name": raw})
	}
	return Name{value: raw}, nil
}

func (n Name) String() string { return n.value }

// IsPreRestore reports whether this is a pre-restore safety snapshot. Those
// are exempt from retention pruning.
func (n Name) IsPreRestore() bool {
	return strings.HasPrefix(n.value, preRestorePrefix)
}
