package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sunnatcollection/backoffice/pkg/db/models"
	"github.com/sunnatcollection/backoffice/pkg/enums"
)

// RemoteApplier applies a single queued mutation to the cloud store.
type RemoteApplier interface {
	Apply(ctx context.Context, entry models.OutboxEntry) error
}

// GormRemote applies mutations through a GORM connection to the cloud
// Postgres store. Inserts and updates are both upserts keyed on id, so
// replaying an already-applied entry is harmless.
type GormRemote struct {
	db *gorm.DB
}

// NewGormRemote wraps the cloud store connection.
func NewGormRemote(db *gorm.DB) *GormRemote {
	return &GormRemote{db: db}
}

func (g *GormRemote) Apply(ctx context.Context, entry models.OutboxEntry) error {
	if entry.TargetTable == "" {
		return fmt.Errorf("entry %d has no table name", entry.ID)
	}

	switch entry.Operation {
	case enums.SyncOpInsert, enums.SyncOpUpdate:
		return g.upsert(ctx, entry)
	case enums.SyncOpDelete:
		return g.db.WithContext(ctx).
			Table(entry.TargetTable).
			Where("id = ?", entry.RecordID).
			Delete(nil).Error
	default:
		return fmt.Errorf("unknown operation %q", entry.Operation)
	}
}

func (g *GormRemote) upsert(ctx context.Context, entry models.OutboxEntry) error {
	row, err := decodePayload(entry)
	if err != nil {
		return err
	}
	row["id"] = entry.RecordID

	columns := make([]string, 0, len(row))
	for key := range row {
		if key == "id" {
			continue
		}
		columns = append(columns, key)
	}
	sort.Strings(columns)

	query := g.db.WithContext(ctx).Table(entry.TargetTable)
	if len(columns) == 0 {
		query = query.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		})
	} else {
		query = query.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(columns),
		})
	}
	return query.Create(row).Error
}

func decodePayload(entry models.OutboxEntry) (map[string]any, error) {
	if len(entry.Payload) == 0 {
		return map[string]any{}, nil
	}
	var row map[string]any
	if err := json.Unmarshal(entry.Payload, &row); err != nil {
		return nil, fmt.Errorf("decode payload for entry %d: %w", entry.ID, err)
	}
	return row, nil
}
