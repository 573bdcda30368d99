package cron

import (
	"context"
	"time"
)

// Job represents a scheduled task that runs inside the cron worker.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Schedule is a job's cadence: either a fixed interval or a daily
// wall-clock time.
type Schedule struct {
	interval time.Duration
	daily    bool
	hour     int
	minute   int
}

// Every runs the job each time the interval has elapsed since its last run.
func Every(interval time.Duration) Schedule {
	return Schedule{interval: interval}
}

// DailyAt runs the job once per day at the given wall-clock time.
func DailyAt(hour, minute int) Schedule {
	return Schedule{daily: true, hour: hour, minute: minute}
}

// due reports whether the job should run now, given when it last ran.
// A zero lastRun means the job has never run.
func (s Schedule) due(now, lastRun time.Time) bool {
	if s.daily {
		todayAt := time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.minute, 0, 0, now.Location())
		if now.Before(todayAt) {
			return false
		}
		return lastRun.Before(todayAt)
	}
	if lastRun.IsZero() {
		return true
	}
	return !now.Before(lastRun.Add(s.interval))
}

type entry struct {
	job      Job
	schedule Schedule
	lastRun  time.Time
}

// Registry tracks registered jobs and their cadences.
type Registry struct {
	entries []*entry
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a job with its schedule. Nil jobs are ignored.
func (r *Registry) Register(job Job, schedule Schedule) {
	if job == nil {
		return
	}
	r.entries = append(r.entries, &entry{job: job, schedule: schedule})
}

// due returns the entries whose schedule has come around, in registration
// order.
func (r *Registry) due(now time.Time) []*entry {
	var ready []*entry
	for _, e := range r.entries {
		if e.schedule.due(now, e.lastRun) {
			ready = append(ready, e)
		}
	}
	return ready
}

// Jobs returns the registered jobs in registration order.
func (r *Registry) Jobs() []Job {
	jobs := make([]Job, 0, len(r.entries))
	for _, e := range r.entries {
		jobs = append(jobs, e.job)
	}
	return jobs
}
