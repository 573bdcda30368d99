package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sunnatcollection/backoffice/pkg/logger"
)

type fakeLock struct {
	acquired bool
	denied   bool
}

func (f *fakeLock) Acquire(context.Context) (bool, error) {
	if f.denied || f.acquired {
		return false, nil
	}
	f.acquired = true
	return true, nil
}

func (f *fakeLock) Release(context.Context) error { f.acquired = false; return nil }

type testJob struct {
	name string
	err  error
	runs int
}

func (t *testJob) Name() string { return t.name }

func (t *testJob) Run(context.Context) error {
	t.runs++
	return t.err
}

func newServiceForTest(t *testing.T, registry *Registry, lock Lock) *Service {
	t.Helper()
	service, err := NewService(ServiceParams{
		Logger:   logger.New(logger.Options{ServiceName: "cron-test"}),
		Registry: registry,
		Lock:     lock,
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	return service
}

func TestRunCycleRunsAllDueJobsEvenOnFailure(t *testing.T) {
	success := &testJob{name: "success"}
	failure := &testJob{name: "fail", err: errors.New("boom")}
	registry := NewRegistry()
	registry.Register(success, Every(time.Minute))
	registry.Register(failure, Every(time.Minute))

	service := newServiceForTest(t, registry, &fakeLock{})
	service.runCycle(context.Background())

	if success.runs != 1 {
		t.Fatalf("expected success job to run once, ran %d", success.runs)
	}
	if failure.runs != 1 {
		t.Fatalf("expected failing job to still run once, ran %d", failure.runs)
	}
}

func TestRunCycleSkipsWhenLockDenied(t *testing.T) {
	job := &testJob{name: "job"}
	registry := NewRegistry()
	registry.Register(job, Every(time.Minute))

	service := newServiceForTest(t, registry, &fakeLock{denied: true})
	service.runCycle(context.Background())

	if job.runs != 0 {
		t.Fatalf("expected no runs when lock is denied, got %d", job.runs)
	}
}

func TestRunCycleRespectsSchedules(t *testing.T) {
	frequent := &testJob{name: "frequent"}
	nightly := &testJob{name: "nightly"}
	registry := NewRegistry()
	registry.Register(frequent, Every(5*time.Minute))
	registry.Register(nightly, DailyAt(23, 0))

	service := newServiceForTest(t, registry, &fakeLock{})
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	service.runCycle(context.Background())
	if frequent.runs != 1 || nightly.runs != 0 {
		t.Fatalf("midday cycle: frequent=%d nightly=%d", frequent.runs, nightly.runs)
	}

	// Two minutes later neither is due.
	now = now.Add(2 * time.Minute)
	service.runCycle(context.Background())
	if frequent.runs != 1 {
		t.Fatalf("interval job ran before its interval elapsed")
	}

	// Past the nightly wall-clock time both fire.
	now = time.Date(2026, 3, 10, 23, 0, 30, 0, time.UTC)
	service.runCycle(context.Background())
	if frequent.runs != 2 || nightly.runs != 1 {
		t.Fatalf("evening cycle: frequent=%d nightly=%d", frequent.runs, nightly.runs)
	}

	// The nightly job must not fire twice on the same day.
	now = now.Add(time.Minute)
	service.runCycle(context.Background())
	if nightly.runs != 1 {
		t.Fatalf("nightly job ran twice on the same day")
	}
}

func TestStartTwiceReturnsErrAlreadyRunning(t *testing.T) {
	service := newServiceForTest(t, NewRegistry(), &fakeLock{})

	if err := service.Start(context.Background()); err != nil {
		t.Fatalf("first start: %v", err)
	}
	defer service.Stop()

	if err := service.Start(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
}

func TestStopAllowsRestart(t *testing.T) {
	service := newServiceForTest(t, NewRegistry(), &fakeLock{})

	if err := service.Start(context.Background()); err != nil {
		t.Fatalf("first start: %v", err)
	}
	service.Stop()
	service.Stop() // idempotent

	if err := service.Start(context.Background()); err != nil {
		t.Fatalf("restart after stop: %v", err)
	}
	service.Stop()
}

type fakeRedisStore struct {
	values map[string]string
}

func newFakeRedisStore() *fakeRedisStore {
	return &fakeRedisStore{values: map[string]string{}}
}

func (f *fakeRedisStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, ok := f.values[key]; ok {
		return false, nil
	}
	f.values[key] = value.(string)
	return true, nil
}

func (f *fakeRedisStore) Get(ctx context.Context, key string) (string, error) {
	return f.values[key], nil
}

func (f *fakeRedisStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func TestRedisLockAcquireRelease(t *testing.T) {
	store := newFakeRedisStore()
	first, err := NewRedisLock(store, "cron:lock", time.Minute)
	if err != nil {
		t.Fatalf("construct lock: %v", err)
	}
	second, err := NewRedisLock(store, "cron:lock", time.Minute)
	if err != nil {
		t.Fatalf("construct lock: %v", err)
	}

	ctx := context.Background()
	ok, err := first.Acquire(ctx)
	if err != nil || !ok {
		t.Fatalf("first acquire: ok=%v err=%v", ok, err)
	}
	ok, err = second.Acquire(ctx)
	if err != nil || ok {
		t.Fatalf("second acquire should be denied: ok=%v err=%v", ok, err)
	}
	if err := first.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	ok, err = second.Acquire(ctx)
	if err != nil || !ok {
		t.Fatalf("acquire after release: ok=%v err=%v", ok, err)
	}
}

func TestMutexLock(t *testing.T) {
	lock := NewMutexLock()
	ctx := context.Background()

	ok, err := lock.Acquire(ctx)
	if err != nil || !ok {
		t.Fatalf("first acquire: ok=%v err=%v", ok, err)
	}
	ok, err = lock.Acquire(ctx)
	if err != nil || ok {
		t.Fatalf("held lock should deny acquire: ok=%v err=%v", ok, err)
	}
	if err := lock.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	ok, err = lock.Acquire(ctx)
	if err != nil || !ok {
		t.Fatalf("acquire after release: ok=%v err=%v", ok, err)
	}
}
