package cron

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sunnatcollection/backoffice/pkg/logger"
	"github.com/sunnatcollection/backoffice/pkg/metrics"
)

const defaultTick = 30 * time.Second

// ErrAlreadyRunning is returned by Start when the scheduler owns a live
// run loop. Callers decide whether that is fatal; the scheduler state is
// untouched.
var ErrAlreadyRunning = errors.New("scheduler already running")

// ServiceParams configure the scheduler.
type ServiceParams struct {
	Logger   *logger.Logger
	Registry *Registry
	Lock     Lock
	Metrics  *metrics.JobMetrics
	Tick     time.Duration
}

// Service evaluates registered jobs on a short tick, running whichever are
// due. Jobs run sequentially inside a cycle, so a job can never overlap
// itself.
type Service struct {
	logg     *logger.Logger
	registry *Registry
	lock     Lock
	metrics  *metrics.JobMetrics
	tick     time.Duration
	now      func() time.Time

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewService builds the scheduler.
func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Lock == nil {
		return nil, fmt.Errorf("lock required")
	}
	registry := params.Registry
	if registry == nil {
		registry = NewRegistry()
	}
	tick := params.Tick
	if tick <= 0 {
		tick = defaultTick
	}
	return &Service{
		logg:     params.Logger,
		registry: registry,
		lock:     params.Lock,
		metrics:  params.Metrics,
		tick:     tick,
		now:      time.Now,
	}, nil
}

// Start launches the run loop. A second Start while the loop lives returns
// ErrAlreadyRunning.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrAlreadyRunning
	}
	if ctx == nil {
		ctx = context.Background()
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.running = true
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.loop(runCtx, s.done)
	s.logg.Info(ctx, "scheduler started")
	return nil
}

// Stop cancels the run loop and waits for the in-flight cycle to finish.
// Stopping a stopped scheduler is a no-op.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	cancel()
	<-done

	s.mu.Lock()
	s.running = false
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()
}

func (s *Service) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	s.runCycle(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "scheduler context canceled")
			return
		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

// runCycle runs every due job under the cycle lock. A failed lock acquire
// means another instance owns this cycle; that is a skip, not an error.
func (s *Service) runCycle(ctx context.Context) {
	now := s.now()
	due := s.registry.due(now)
	if len(due) == 0 {
		return
	}

	locked, err := s.lock.Acquire(ctx)
	if err != nil {
		s.logg.Error(ctx, "scheduler lock acquire failed", err)
		return
	}
	if !locked {
		s.logg.Debug(ctx, "another scheduler instance owns the cycle, skipping")
		return
	}
	defer func() {
		if relErr := s.lock.Release(ctx); relErr != nil {
			s.logg.Error(ctx, "failed to release scheduler lock", relErr)
		}
	}()

	for _, e := range due {
		e.lastRun = now
		s.runJob(ctx, e.job)
	}
}

// runJob executes one job. Job errors are logged and counted; they never
// stop the schedule.
func (s *Service) runJob(ctx context.Context, job Job) {
	jobCtx := s.logg.WithJob(ctx, job.Name())
	s.logg.Info(jobCtx, "job start")

	start := time.Now()
	err := job.Run(jobCtx)
	duration := time.Since(start)
	s.observeDuration(job.Name(), duration)

	jobCtx = s.logg.WithField(jobCtx, "duration_ms", duration.Milliseconds())
	if err != nil {
		s.logg.Error(jobCtx, "job failed", err)
		s.recordFailure(job.Name())
		return
	}
	s.logg.Info(jobCtx, "job completed")
	s.recordSuccess(job.Name())
}

func (s *Service) observeDuration(job string, duration time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveDuration(job, duration)
}

func (s *Service) recordSuccess(job string) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncSuccess(job)
}

func (s *Service) recordFailure(job string) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncFailure(job)
}
