package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sunnatcollection/backoffice/pkg/config"
	"github.com/sunnatcollection/backoffice/pkg/db/models"
	"github.com/sunnatcollection/backoffice/pkg/enums"
	"github.com/sunnatcollection/backoffice/pkg/logger"
)

type fakeRepo struct {
	entries  []models.OutboxEntry
	synced   []uint
	syncedAt []time.Time
	failed   map[uint]string
	fetchErr error
}

func newFakeRepo(entries ...models.OutboxEntry) *fakeRepo {
	return &fakeRepo{entries: entries, failed: map[uint]string{}}
}

func (f *fakeRepo) Enqueue(tx *gorm.DB, entry *models.OutboxEntry) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeRepo) FetchPending(ctx context.Context) ([]models.OutboxEntry, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	var pending []models.OutboxEntry
	for _, e := range f.entries {
		if e.Status == enums.SyncStatusPending {
			pending = append(pending, e)
		}
	}
	return pending, nil
}

func (f *fakeRepo) MarkSynced(ctx context.Context, id uint, at time.Time) error {
	f.synced = append(f.synced, id)
	f.syncedAt = append(f.syncedAt, at)
	return nil
}

func (f *fakeRepo) MarkFailed(ctx context.Context, id uint, message string) error {
	f.failed[id] = message
	return nil
}

func (f *fakeRepo) Requeue(ctx context.Context, id uint) (bool, error) {
	return false, nil
}

func (f *fakeRepo) CountByStatus(ctx context.Context) (map[enums.SyncStatus]int64, error) {
	counts := map[enums.SyncStatus]int64{}
	for _, e := range f.entries {
		counts[e.Status]++
	}
	return counts, nil
}

type fakeProber struct{ online bool }

func (f fakeProber) Online(ctx context.Context) bool { return f.online }

type fakeRemote struct {
	applied []uint
	failOn  map[uint]error
}

func (f *fakeRemote) Apply(ctx context.Context, entry models.OutboxEntry) error {
	if err, ok := f.failOn[entry.ID]; ok {
		return err
	}
	f.applied = append(f.applied, entry.ID)
	return nil
}

func pendingEntry(id uint, createdAt time.Time) models.OutboxEntry {
	return models.OutboxEntry{
		ID:        id,
		TargetTable: "products",
		Operation: enums.SyncOpUpdate,
		RecordID:  int64(id),
		Status:    enums.SyncStatusPending,
		CreatedAt: createdAt,
	}
}

func newTestService(t *testing.T, cfg config.CloudSyncConfig, repo Repository, prober Prober, remote RemoteApplier) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Config:     cfg,
		Logger:     logger.New(logger.Options{ServiceName: "test"}),
		Repository: repo,
		Prober:     prober,
		Remote:     remote,
	})
	require.NoError(t, err)
	return svc
}

func TestProcessQueueDisabledIsNoOp(t *testing.T) {
	repo := newFakeRepo(pendingEntry(1, time.Now()))
	svc := newTestService(t, config.CloudSyncConfig{Enabled: false}, repo, fakeProber{online: true}, &fakeRemote{})

	result, err := svc.ProcessQueue(context.Background())
	require.NoError(t, err)
	require.True(t, result.Skipped)
	require.Zero(t, result.Synced)
	require.Empty(t, repo.synced)
}

func TestProcessQueueOfflineLeavesEntriesPending(t *testing.T) {
	repo := newFakeRepo(pendingEntry(1, time.Now()), pendingEntry(2, time.Now()))
	svc := newTestService(t, config.CloudSyncConfig{Enabled: true}, repo, fakeProber{online: false}, &fakeRemote{})

	result, err := svc.ProcessQueue(context.Background())
	require.NoError(t, err)
	require.True(t, result.Skipped)
	require.Equal(t, "offline", result.Reason)
	require.Zero(t, result.Synced)
	require.Zero(t, result.Failed)
	require.Empty(t, repo.synced)
	require.Empty(t, repo.failed)
}

func TestProcessQueueUnconfiguredRemoteAborts(t *testing.T) {
	repo := newFakeRepo(pendingEntry(1, time.Now()))
	svc := newTestService(t, config.CloudSyncConfig{Enabled: true}, repo, fakeProber{online: true}, nil)

	_, err := svc.ProcessQueue(context.Background())
	require.Error(t, err)
	require.Empty(t, repo.synced)
}

func TestProcessQueueSyncsInCreationOrder(t *testing.T) {
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	repo := newFakeRepo(
		pendingEntry(1, base),
		pendingEntry(2, base.Add(time.Second)),
		pendingEntry(3, base.Add(2*time.Second)),
	)
	remote := &fakeRemote{}
	svc := newTestService(t, config.CloudSyncConfig{Enabled: true}, repo, fakeProber{online: true}, remote)

	result, err := svc.ProcessQueue(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, result.Synced)
	require.Zero(t, result.Failed)
	require.Equal(t, []uint{1, 2, 3}, remote.applied)
	require.Equal(t, []uint{1, 2, 3}, repo.synced)
	for i := 1; i < len(repo.syncedAt); i++ {
		require.False(t, repo.syncedAt[i].Before(repo.syncedAt[i-1]),
			"synced_at timestamps must be non-decreasing in enqueue order")
	}
}

func TestProcessQueuePartialFailureIsolation(t *testing.T) {
	base := time.Now()
	repo := newFakeRepo(
		pendingEntry(1, base),
		pendingEntry(2, base.Add(time.Second)),
		pendingEntry(3, base.Add(2*time.Second)),
	)
	remote := &fakeRemote{failOn: map[uint]error{2: errors.New("constraint violation")}}
	svc := newTestService(t, config.CloudSyncConfig{Enabled: true}, repo, fakeProber{online: true}, remote)

	result, err := svc.ProcessQueue(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, result.Synced)
	require.Equal(t, 1, result.Failed)
	require.Equal(t, []uint{1, 3}, repo.synced)
	require.NotEmpty(t, repo.failed[2])
}

func TestStatusReportsCountsAndFlags(t *testing.T) {
	entries := []models.OutboxEntry{
		pendingEntry(1, time.Now()),
		{ID: 2, Status: enums.SyncStatusSynced},
		{ID: 3, Status: enums.SyncStatusFailed},
		{ID: 4, Status: enums.SyncStatusFailed},
	}
	repo := newFakeRepo(entries...)
	svc := newTestService(t, config.CloudSyncConfig{Enabled: true}, repo, fakeProber{online: true}, &fakeRemote{})

	status, err := svc.Status(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), status.Pending)
	require.Equal(t, int64(1), status.Synced)
	require.Equal(t, int64(2), status.Failed)
	require.True(t, status.InternetAvailable)
	require.True(t, status.SyncEnabled)
}

func TestEnqueueRejectsInvalidInput(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, config.CloudSyncConfig{}, repo, fakeProber{}, nil)

	require.Error(t, svc.Enqueue(nil, "", enums.SyncOpInsert, 1, nil))
	require.Error(t, svc.Enqueue(nil, "products", "upsert", 1, nil))
	require.NoError(t, svc.Enqueue(nil, "products", enums.SyncOpInsert, 1, []byte(`{"name":"x"}`)))
	require.Len(t, repo.entries, 1)
	require.Equal(t, enums.SyncStatusPending, repo.entries[0].Status)
}
