// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance jobs: retention pruning
// for contact submissions and event log entries, and GeoIP database
// refresh.
package scheduler

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/yapicms/internal/geoip"
	"github.com/olegiv/yapicms/internal/store"
)

// Options configures the maintenance jobs.
type Options struct {
	// SubmissionRetentionDays is how long archived contact submissions
	// are kept before being purged.
	SubmissionRetentionDays int

	// EventRetentionDays is how long event log entries are kept.
	EventRetentionDays int

	// GeoIP, when set, is reloaded daily to pick up database updates.
	GeoIP *geoip.Lookup
}

// Scheduler handles scheduled maintenance tasks.
type Scheduler struct {
	db     *sql.DB
	cron   *cron.Cron
	logger *slog.Logger
	opts   Options
}

// New creates a new scheduler instance.
func New(db *sql.DB, logger *slog.Logger, opts Options) *Scheduler {
	return &Scheduler{
		db:     db,
		cron:   cron.New(),
		logger: logger,
		opts:   opts,
	}
}

// Start registers the maintenance jobs and begins the cron loop.
// Submissions are purged nightly at 03:00 server time, events hourly;
// the first pass also runs immediately so restarts don't postpone
// overdue cleanup.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 3 * * *", s.purgeSubmissions); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 * * * *", s.pruneEvents); err != nil {
		return err
	}

	if s.opts.GeoIP != nil {
		if _, err := s.cron.AddFunc("30 3 * * *", func() {
			if err := s.opts.GeoIP.Reload(); err != nil {
				s.logger.Warn("geoip database reload failed", "error", err)
			}
		}); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))

	go s.runRetention()
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// runRetention runs both cleanup passes. Used at startup.
func (s *Scheduler) runRetention() {
	s.purgeSubmissions()
	s.pruneEvents()
}

// purgeSubmissions removes archived contact submissions past the
// retention window.
func (s *Scheduler) purgeSubmissions() {
	days := s.opts.SubmissionRetentionDays
	if days <= 0 {
		return
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	n, err := store.New(s.db).DeleteArchivedSubmissionsBefore(context.Background(), cutoff)
	if err != nil {
		s.logger.Error("failed to purge archived submissions", "error", err)
	} else if n > 0 {
		s.logger.Info("purged archived submissions", "count", n, "cutoff", cutoff)
	}
}

// pruneEvents removes event log rows past the retention window.
func (s *Scheduler) pruneEvents() {
	days := s.opts.EventRetentionDays
	if days <= 0 {
		return
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	n, err := store.New(s.db).DeleteEventsBefore(context.Background(), cutoff)
	if err != nil {
		s.logger.Error("failed to prune event log", "error", err)
	} else if n > 0 {
		s.logger.Info("pruned event log", "count", n, "cutoff", cutoff)
	}
}
