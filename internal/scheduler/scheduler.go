// Package scheduler runs the periodic job-expiry sweep on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// Deactivator closes listings past their closing date; *jobs.Service
// implements it.
type Deactivator interface {
	DeactivateExpired(ctx context.Context) (int64, error)
}

// Scheduler wraps robfig/cron and manages the expiry sweep.
type Scheduler struct {
	cron    *cron.Cron
	jobs    Deactivator
	spec    string // cron spec, e.g. "@every 1h"
	startup sync.WaitGroup
}

// New creates a Scheduler that sweeps on spec.
func New(jobs Deactivator, spec string) *Scheduler {
	logger := cron.PrintfLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelInfo))
	return &Scheduler{
		cron: cron.New(cron.WithLogger(logger), cron.WithChain(cron.SkipIfStillRunning(logger))),
		jobs: jobs,
		spec: spec,
	}
}

// Start registers the sweep and starts the scheduler. One sweep also runs
// immediately so stale listings close without waiting for the first tick.
// It goes through the same job chain, so a tick that lands while it runs
// is skipped.
func (s *Scheduler) Start(ctx context.Context) error {
	id, err := s.cron.AddFunc(s.spec, func() { s.RunOnce(ctx) })
	if err != nil {
		return fmt.Errorf("cron.AddFunc %q: %w", s.spec, err)
	}
	sweep := s.cron.Entry(id).WrappedJob
	s.cron.Start()
	slog.Info("expiry scheduler started", "spec", s.spec)

	s.startup.Add(1)
	go func() {
		defer s.startup.Done()
		sweep.Run()
	}()
	return nil
}

// Stop stops the scheduler and waits for every running sweep, including
// the startup one.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.startup.Wait()
	slog.Info("expiry scheduler stopped")
}

// RunOnce performs one sweep and logs the outcome.
func (s *Scheduler) RunOnce(ctx context.Context) {
	n, err := s.jobs.DeactivateExpired(ctx)
	if err != nil {
		slog.Error("expiry sweep failed", "err", err)
		return
	}
	if n > 0 {
		slog.Info("expired jobs deactivated", "count", n)
		return
	}
	slog.Debug("expiry sweep found nothing to close")
}
