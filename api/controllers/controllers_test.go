package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/sunnatcollection/backoffice/internal/backup"
	"github.com/sunnatcollection/backoffice/internal/marketing"
	"github.com/sunnatcollection/backoffice/internal/notify"
	"github.com/sunnatcollection/backoffice/internal/sync"
	"github.com/sunnatcollection/backoffice/pkg/db/models"
	"github.com/sunnatcollection/backoffice/pkg/enums"
	pkgerrors "github.com/sunnatcollection/backoffice/pkg/errors"
	"github.com/sunnatcollection/backoffice/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "api-test"})
}

type testSyncService struct {
	statusFn  func(ctx context.Context) (sync.Status, error)
	runFn     func(ctx context.Context) (sync.Result, error)
	requeueFn func(ctx context.Context, id uint) error
}

func (s *testSyncService) Status(ctx context.Context) (sync.Status, error) {
	if s.statusFn != nil {
		return s.statusFn(ctx)
	}
	return sync.Status{}, nil
}

func (s *testSyncService) ProcessQueue(ctx context.Context) (sync.Result, error) {
	if s.runFn != nil {
		return s.runFn(ctx)
	}
	return sync.Result{}, nil
}

func (s *testSyncService) Requeue(ctx context.Context, id uint) error {
	if s.requeueFn != nil {
		return s.requeueFn(ctx, id)
	}
	return nil
}

func TestSyncStatusReturnsPayload(t *testing.T) {
	svc := &testSyncService{
		statusFn: func(ctx context.Context) (sync.Status, error) {
			return sync.Status{Pending: 3, Failed: 1, SyncEnabled: true}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sync/status", nil)
	rec := httptest.NewRecorder()
	SyncStatus(svc, testLogger())(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Data sync.Status `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Data.Pending != 3 || !body.Data.SyncEnabled {
		t.Fatalf("unexpected payload: %+v", body.Data)
	}
}

func TestSyncRequeueParsesID(t *testing.T) {
	var got uint
	svc := &testSyncService{
		requeueFn: func(ctx context.Context, id uint) error {
			got = id
			return nil
		},
	}

	router := chi.NewRouter()
	router.Post("/sync/entries/{id}/requeue", SyncRequeue(svc, testLogger()))

	req := httptest.NewRequest(http.MethodPost, "/sync/entries/42/requeue", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got != 42 {
		t.Fatalf("expected id 42, got %d", got)
	}

	req = httptest.NewRequest(http.MethodPost, "/sync/entries/banana/requeue", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", rec.Code)
	}
}

type testBackupService struct {
	createFn  func(ctx context.Context) (backup.Info, error)
	listFn    func(ctx context.Context) ([]backup.Info, error)
	restoreFn func(ctx context.Context, name backup.Name) error
	deleteFn  func(ctx context.Context, name backup.Name) error
}

func (s *testBackupService) Create(ctx context.Context) (backup.Info, error) {
	if s.createFn != nil {
		return s.createFn(ctx)
	}
	return backup.Info{}, nil
}

func (s *testBackupService) List(ctx context.Context) ([]backup.Info, error) {
	if s.listFn != nil {
		return s.listFn(ctx)
	}
	return nil, nil
}

func (s *testBackupService) Restore(ctx context.Context, name backup.Name) error {
	if s.restoreFn != nil {
		return s.restoreFn(ctx, name)
	}
	return nil
}

func (s *testBackupService) Delete(ctx context.Context, name backup.Name) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, name)
	}
	return nil
}

func TestBackupRestoreRejectsHostileName(t *testing.T) {
	called := false
	svc := &testBackupService{
		restoreFn: func(ctx context.Context, name backup.Name) error {
			called = true
			return nil
		},
	}

	router := chi.NewRouter()
	router.Post("/backups/{name}/restore", BackupRestore(svc, testLogger()))

	for _, raw := range []string{"notabackup.db", "backup_2026_bad.db", "backup_20260101_000000.db.sh"} {
		called = false
		req := httptest.NewRequest(http.MethodPost, "/backups/"+raw+"/restore", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 for invalid name, got %d", raw, rec.Code)
		}
		if called {
			t.Fatalf("%s: service must not be reached with an invalid name", raw)
		}
	}
}

func TestBackupRestoreNotFoundMapsTo404(t *testing.T) {
	svc := &testBackupService{
		restoreFn: func(ctx context.Context, name backup.Name) error {
			return pkgerrors.New(pkgerrors.CodeNotFound, "backup not found")
		},
	}

	router := chi.NewRouter()
	router.Post("/backups/{name}/restore", BackupRestore(svc, testLogger()))

	req := httptest.NewRequest(http.MethodPost, "/backups/backup_20260101_000000.db/restore", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

type testDispatcher struct {
	dispatchFn func(ctx context.Context, req notify.Request) (models.DeliveryLog, error)
}

func (d *testDispatcher) Dispatch(ctx context.Context, req notify.Request) (models.DeliveryLog, error) {
	if d.dispatchFn != nil {
		return d.dispatchFn(ctx, req)
	}
	return models.DeliveryLog{}, nil
}

func TestNotificationDispatchValidatesBody(t *testing.T) {
	called := false
	dispatcher := &testDispatcher{
		dispatchFn: func(ctx context.Context, req notify.Request) (models.DeliveryLog, error) {
			called = true
			return models.DeliveryLog{}, nil
		},
	}

	handler := NotificationDispatch(dispatcher, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/notifications/dispatch",
		strings.NewReader(`{"channel":"carrier-pigeon","address":"x","message":"y"}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown channel, got %d", rec.Code)
	}
	if called {
		t.Fatal("dispatcher must not be reached for an invalid body")
	}
}

func TestNotificationDispatchSuccess(t *testing.T) {
	var got notify.Request
	dispatcher := &testDispatcher{
		dispatchFn: func(ctx context.Context, req notify.Request) (models.DeliveryLog, error) {
			got = req
			return models.DeliveryLog{Status: enums.DeliveryStatusSent}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/notifications/dispatch",
		strings.NewReader(`{"channel":"whatsapp","address":"03001234567","message":"hi","context":"manual"}`))
	rec := httptest.NewRecorder()
	NotificationDispatch(dispatcher, testLogger())(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if got.Channel != enums.ChannelWhatsApp || got.Address != "03001234567" {
		t.Fatalf("unexpected request forwarded: %+v", got)
	}
}

type testMarketingService struct {
	sendFn func(ctx context.Context, id uint) (marketing.CampaignResult, error)
	runFn  func(ctx context.Context, id uint) (marketing.TriggerResult, error)
}

func (s *testMarketingService) SendCampaign(ctx context.Context, id uint) (marketing.CampaignResult, error) {
	if s.sendFn != nil {
		return s.sendFn(ctx, id)
	}
	return marketing.CampaignResult{}, nil
}

func (s *testMarketingService) RunTrigger(ctx context.Context, id uint) (marketing.TriggerResult, error) {
	if s.runFn != nil {
		return s.runFn(ctx, id)
	}
	return marketing.TriggerResult{}, nil
}

func TestCampaignSendStateConflictMapsTo422(t *testing.T) {
	svc := &testMarketingService{
		sendFn: func(ctx context.Context, id uint) (marketing.CampaignResult, error) {
			return marketing.CampaignResult{}, pkgerrors.New(pkgerrors.CodeStateConflict, "campaign already finished")
		},
	}

	router := chi.NewRouter()
	router.Post("/campaigns/{id}/send", CampaignSend(svc, testLogger()))

	req := httptest.NewRequest(http.MethodPost, "/campaigns/7/send", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}
