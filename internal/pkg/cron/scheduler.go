// Package cron runs background jobs on fixed intervals for the lifetime of
// the server.
package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Job is a named task run every Interval. A single run may not take longer
// than Interval.
type Job struct {
	Name     string
	Interval time.Duration
	Fn       func(ctx context.Context) error
}

// Scheduler runs registered jobs from Start until Stop or until the parent
// context ends. Each job runs once immediately on Start.
type Scheduler struct {
	ctx    context.Context
	cancel context.CancelFunc
	group  errgroup.Group

	mu      sync.Mutex
	jobs    []Job
	started bool
}

func NewScheduler(parent context.Context) *Scheduler {
	ctx, cancel := context.WithCancel(parent)
	return &Scheduler{ctx: ctx, cancel: cancel}
}

// AddJob registers fn. Non-positive intervals are ignored, as are jobs
// added after Start.
func (s *Scheduler) AddJob(name string, interval time.Duration, fn func(ctx context.Context) error) {
	if interval <= 0 {
		slog.Warn("cron job skipped: interval must be positive", "job", name, "interval", interval)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		slog.Warn("cron job skipped: scheduler already started", "job", name)
		return
	}
	s.jobs = append(s.jobs, Job{Name: name, Interval: interval, Fn: fn})
	slog.Info("cron job registered", "job", name, "interval", interval)
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	for _, job := range s.jobs {
		s.group.Go(func() error {
			s.loop(job)
			return nil
		})
	}
	slog.Info("cron scheduler started", "jobs", len(s.jobs))
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	_ = s.group.Wait()
	slog.Info("cron scheduler stopped")
}

func (s *Scheduler) loop(job Job) {
	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	s.execute(job)
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.execute(job)
		}
	}
}

func (s *Scheduler) execute(job Job) {
	ctx, cancel := context.WithTimeout(s.ctx, job.Interval)
	defer cancel()

	start := time.Now()
	if err := job.Fn(ctx); err != nil {
		slog.Error("cron job failed", "job", job.Name, "error", err, "duration", time.Since(start))
		return
	}
	slog.Debug("cron job completed", "job", job.Name, "duration", time.Since(start))
}
