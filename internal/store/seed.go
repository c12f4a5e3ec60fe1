// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/olegiv/yapicms/internal/auth"
	"github.com/olegiv/yapicms/internal/model"
)

// DefaultAdminName is used for the seeded admin account.
const DefaultAdminName = "Administrator"

// defaultSettings are created on first run when missing.
var defaultSettings = map[string]string{
	"site_name":        "Yapı CMS",
	"site_tagline":     "",
	"logo":             "",
	"social_media":     "{}",
	"default_language": string(model.DefaultLanguage),
}

// defaultPages are the fixed site pages created on first run, in display
// order.
var defaultPages = []string{"home", "about", "projects", "references", "services", "contact"}

// Seed creates the initial admin user, default settings and fixed pages.
// It is idempotent: existing rows are left alone.
func Seed(ctx context.Context, db *sql.DB, adminEmail, adminPassword string) error {
	queries := New(db)

	_, err := queries.GetUserByEmail(ctx, adminEmail)
	switch {
	case err == nil:
		// Admin exists, nothing to do for users.
	case errors.Is(err, sql.ErrNoRows):
		passwordHash, err := auth.HashPassword(adminPassword)
		if err != nil {
			return fmt.Errorf("hashing password: %w", err)
		}
		user, err := queries.CreateUser(ctx, CreateUserParams{
			Email:        adminEmail,
			PasswordHash: passwordHash,
			Name:         DefaultAdminName,
			Role:         model.RoleAdmin,
			Active:       true,
		})
		if err != nil {
			return fmt.Errorf("creating admin user: %w", err)
		}
		slog.Info("created default admin user", "id", user.ID, "email", user.Email)
	default:
		return fmt.Errorf("checking for admin user: %w", err)
	}

	for key, value := range defaultSettings {
		if _, err := queries.GetSetting(ctx, key); err == nil {
			continue
		} else if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("checking setting %s: %w", key, err)
		}
		if _, err := queries.UpsertSetting(ctx, key, value); err != nil {
			return fmt.Errorf("seeding setting %s: %w", key, err)
		}
	}

	for i, slug := range defaultPages {
		if _, err := queries.GetPageBySlug(ctx, slug); err == nil {
			continue
		} else if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("checking page %s: %w", slug, err)
		}
		if _, err := queries.CreatePage(ctx, CreatePageParams{
			Slug:     slug,
			Template: "default",
			Position: int64(i),
			Active:   true,
		}); err != nil {
			return fmt.Errorf("seeding page %s: %w", slug, err)
		}
	}

	return nil
}
