// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"testing"
)

// newTestDB opens an in-memory database with the full schema applied.
// A single connection keeps every query on the same memory database.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := NewDBWithConfig(":memory:", DBConfig{
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return db
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(newTestDB(t))
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	if err := Migrate(db); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
}

func TestSeed(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := Seed(ctx, db, "admin@example.com", "ilk-parola-42"); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	q := New(db)
	user, err := q.GetUserByEmail(ctx, "admin@example.com")
	if err != nil {
		t.Fatalf("seeded admin missing: %v", err)
	}
	if !user.IsAdmin() || !user.Active {
		t.Errorf("seeded admin should be active admin, got role=%s active=%v", user.Role, user.Active)
	}

	if _, err := q.GetSetting(ctx, "site_name"); err != nil {
		t.Errorf("seeded site_name missing: %v", err)
	}
	if _, err := q.GetPageBySlug(ctx, "home"); err != nil {
		t.Errorf("seeded home page missing: %v", err)
	}

	// Second run must not fail or duplicate.
	if err := Seed(ctx, db, "admin@example.com", "ilk-parola-42"); err != nil {
		t.Fatalf("second Seed() error = %v", err)
	}
	n, err := q.CountUsers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("user count after reseed = %d, want 1", n)
	}
}
