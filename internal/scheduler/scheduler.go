// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance of compiled language files.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// Rebuilder compiles every language file.
type Rebuilder interface {
	RebuildAll(ctx context.Context) (int, error)
}

// Scheduler rebuilds the compiled language files on a cron schedule.
type Scheduler struct {
	cron      *cron.Cron
	rebuilder Rebuilder
	timeout   time.Duration
	logger    *slog.Logger

	runs atomic.Int64
}

// New creates a scheduler running the rebuild at schedule, a standard five
// field cron expression.
func New(schedule string, rebuilder Rebuilder, logger *slog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:      cron.New(),
		rebuilder: rebuilder,
		timeout:   5 * time.Minute,
		logger:    logger,
	}

	// Overlapping runs are skipped.
	job := cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(cron.FuncJob(s.rebuild))
	if _, err := s.cron.AddJob(schedule, job); err != nil {
		return nil, fmt.Errorf("invalid rebuild schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start begins running the scheduled jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()), "next", s.Next())
}

// Stop gracefully stops the scheduler, waiting for a running rebuild.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// Next returns when the rebuild runs next; zero before Start.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// Runs returns how many rebuilds have completed.
func (s *Scheduler) Runs() int64 {
	return s.runs.Load()
}

func (s *Scheduler) rebuild() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	written, err := s.rebuilder.RebuildAll(ctx)
	s.runs.Add(1)
	if err != nil {
		s.logger.Error("scheduled language file rebuild failed", "error", err, "files", written)
		return
	}
	s.logger.Info("language files rebuilt", "files", written, "duration", time.Since(start).Round(time.Millisecond))
}
