package backup

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/sunnatcollection/backoffice/pkg/config"
	pkgerrors "github.com/sunnatcollection/backoffice/pkg/errors"
	"github.com/sunnatcollection/backoffice/pkg/logger"
)

// Info describes one backup file on disk.
type Info struct {
	Filename  string    `json:"filename"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// Service copies the live sqlite store into a backup directory and prunes
// old copies. All operations are serialized on one mutex: backup, restore
// and prune touch the same files and the simple lock beats reasoning about
// concurrent copies of a multi-gigabyte database.
type Service struct {
	cfg    config.BackupConfig
	dbPath string
	logg   *logger.Logger
	now    func() time.Time

	mu sync.Mutex
}

// NewService wires the maintenance service for the given live store path.
func NewService(cfg config.BackupConfig, dbPath string, logg *logger.Logger) (*Service, error) {
	if dbPath == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "database path required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &Service{
		cfg:    cfg,
		dbPath: dbPath,
		logg:   logg,
		now:    time.Now,
	}, nil
}

// Create copies the live store into the backup directory and then prunes
// backups past the retention window. It returns the new backup's info.
func (s *Service) Create(ctx context.Context) (Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		return Info{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create backup directory")
	}

	name := NewName(s.now())
	dest := filepath.Join(s.cfg.Dir, name.String())
	size, err := copyFile(s.dbPath, dest)
	if err != nil {
		s.logg.Error(ctx, "backup copy failed", err)
		return Info{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "copy database to backup")
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"backup": name.String(),
		"bytes":  size,
	})
	s.logg.Info(ctx, "backup created")

	if _, err := s.cleanupOldLocked(ctx); err != nil {
		// Pruning failure does not invalidate the backup that was just taken.
		s.logg.Error(ctx, "backup retention pruning failed", err)
	}

	info, err := os.Stat(dest)
	if err != nil {
		return Info{Filename: name.String(), Size: size, CreatedAt: s.now()}, nil
	}
	return Info{Filename: name.String(), Size: info.Size(), CreatedAt: info.ModTime()}, nil
}

// CleanupOld deletes recognized backup files strictly older than the
// retention window. Pre-restore snapshots and foreign files are left alone.
// It returns how many files were removed.
func (s *Service) CleanupOld(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cleanupOldLocked(ctx)
}

func (s *Service) cleanupOldLocked(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(s.cfg.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read backup directory")
	}

	cutoff := s.now().AddDate(0, 0, -s.cfg.RetentionDays)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name, err := ParseName(entry.Name())
		if err != nil || name.IsPreRestore() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		// Exclusive boundary: a file exactly at the cutoff survives.
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.cfg.Dir, name.String())); err != nil {
			s.logg.Error(s.logg.WithField(ctx, "backup", name.String()), "failed to prune backup", err)
			continue
		}
		removed++
	}
	if removed > 0 {
		s.logg.Info(s.logg.WithField(ctx, "removed", removed), "pruned old backups")
	}
	return removed, nil
}

// Restore overwrites the live store with the named backup. The current live
// store is snapshotted under a pre_restore_ name first so a bad restore can
// itself be recovered from.
func (s *Service) Restore(ctx context.Context, name Name) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	source := filepath.Join(s.cfg.Dir, name.String())
	if _, err := os.Stat(source); err != nil {
		if os.IsNotExist(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "backup not found").
				WithDetails(map[string]any{"name": name.String()})
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "stat backup file")
	}

	snapshot := filepath.Join(s.cfg.Dir, NewPreRestoreName(s.now()).String())
	if _, err := copyFile(s.dbPath, snapshot); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "snapshot live database")
	}

	if _, err := copyFile(source, s.dbPath); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "restore backup over live database")
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"backup":   name.String(),
		"snapshot": filepath.Base(snapshot),
	})
	s.logg.Warn(ctx, "database restored from backup")
	return nil
}

// List returns recognized backups, newest first.
func (s *Service) List(ctx context.Context) ([]Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.cfg.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Info{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read backup directory")
	}

	backups := make([]Info, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, err := ParseName(entry.Name()); err != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Filename:  entry.Name(),
			Size:      info.Size(),
			CreatedAt: info.ModTime(),
		})
	}
	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// Delete removes one named backup.
func (s *Service) Delete(ctx context.Context, name Name) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.cfg.Dir, name.String())
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "backup not found").
				WithDetails(map[string]any{"name": name.String()})
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete backup file")
	}
	s.logg.Info(s.logg.WithField(ctx, "backup", name.String()), "backup deleted")
	return nil
}

func copyFile(src, dest string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return 0, err
	}

	written, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		os.Remove(dest)
		return 0, err
	}
	if err := out.Close(); err != nil {
		os.Remove(dest)
		return 0, err
	}
	return written, nil
}
