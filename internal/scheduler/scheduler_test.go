// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/olegiv/yapicms/internal/store"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := store.NewDBWithConfig(":memory:", store.DBConfig{
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	if err != nil {
		t.Fatalf("NewDBWithConfig: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func backdate(t *testing.T, db *sql.DB, table string, id int64, age time.Duration) {
	t.Helper()
	_, err := db.Exec("UPDATE "+table+" SET created_at = ? WHERE id = ?",
		time.Now().UTC().Add(-age), id)
	if err != nil {
		t.Fatal(err)
	}
}

func TestRetentionPurgesOldArchivedSubmissions(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := store.New(db)

	oldArchived, err := q.CreateSubmission(ctx, store.CreateSubmissionParams{
		Name: "Eski", Email: "eski@example.com", Message: "m",
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := q.ArchiveSubmission(ctx, oldArchived.ID); err != nil {
		t.Fatal(err)
	}
	backdate(t, db, "contact_submissions", oldArchived.ID, 100*24*time.Hour)

	// Old but not archived: must survive.
	oldActive, err := q.CreateSubmission(ctx, store.CreateSubmissionParams{
		Name: "Aktif", Email: "aktif@example.com", Message: "m",
	})
	if err != nil {
		t.Fatal(err)
	}
	backdate(t, db, "contact_submissions", oldActive.ID, 100*24*time.Hour)

	// Recently archived: must survive.
	recent, err := q.CreateSubmission(ctx, store.CreateSubmissionParams{
		Name: "Yeni", Email: "yeni@example.com", Message: "m",
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := q.ArchiveSubmission(ctx, recent.ID); err != nil {
		t.Fatal(err)
	}

	s := New(db, testLogger(), Options{SubmissionRetentionDays: 90, EventRetentionDays: 30})
	s.runRetention()

	if _, err := q.GetSubmission(ctx, oldArchived.ID); err != sql.ErrNoRows {
		t.Errorf("old archived submission should be purged, got %v", err)
	}
	if _, err := q.GetSubmission(ctx, oldActive.ID); err != nil {
		t.Errorf("active submission should survive: %v", err)
	}
	if _, err := q.GetSubmission(ctx, recent.ID); err != nil {
		t.Errorf("recent archived submission should survive: %v", err)
	}
}

func TestRetentionPrunesOldEvents(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := store.New(db)

	old, err := q.CreateEvent(ctx, store.CreateEventParams{
		Level: "info", Category: "system", Message: "old",
		CreatedAt: time.Now().UTC().Add(-40 * 24 * time.Hour),
	})
	if err != nil {
		t.Fatal(err)
	}
	recent, err := q.CreateEvent(ctx, store.CreateEventParams{
		Level: "info", Category: "system", Message: "recent",
	})
	if err != nil {
		t.Fatal(err)
	}

	s := New(db, testLogger(), Options{SubmissionRetentionDays: 90, EventRetentionDays: 30})
	s.runRetention()

	events, err := q.ListEvents(ctx, store.ListEventsParams{Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 surviving event, got %d", len(events))
	}
	if events[0].ID != recent.ID {
		t.Errorf("surviving event = %d, want %d (old %d should be pruned)",
			events[0].ID, recent.ID, old.ID)
	}
}

func TestRetentionDisabledWhenZero(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := store.New(db)

	sub, err := q.CreateSubmission(ctx, store.CreateSubmissionParams{
		Name: "Eski", Email: "eski@example.com", Message: "m",
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := q.ArchiveSubmission(ctx, sub.ID); err != nil {
		t.Fatal(err)
	}
	backdate(t, db, "contact_submissions", sub.ID, 365*24*time.Hour)

	s := New(db, testLogger(), Options{})
	s.runRetention()

	if _, err := q.GetSubmission(ctx, sub.ID); err != nil {
		t.Errorf("retention disabled, submission should survive: %v", err)
	}
}

func TestStartStop(t *testing.T) {
	db := testDB(t)

	s := New(db, testLogger(), Options{SubmissionRetentionDays: 90, EventRetentionDays: 30})
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	// Give the immediate retention pass a moment before closing the DB.
	time.Sleep(50 * time.Millisecond)
	s.Stop()
}
