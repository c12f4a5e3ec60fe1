// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"strings"
	"time"

	"github.com/olegiv/yapicms/internal/model"
)

// GetSetting returns the setting for key.
func (q *Queries) GetSetting(ctx context.Context, key string) (model.Setting, error) {
	var s model.Setting
	err := q.db.QueryRowContext(ctx,
		"SELECT id, key, value, updated_at FROM site_settings WHERE key = ?", key).
		Scan(&s.ID, &s.Key, &s.Value, &s.UpdatedAt)
	return s, err
}

// ListSettings returns all settings ordered by key.
func (q *Queries) ListSettings(ctx context.Context) ([]model.Setting, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT id, key, value, updated_at FROM site_settings ORDER BY key ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []model.Setting
	for rows.Next() {
		var s model.Setting
		if err := rows.Scan(&s.ID, &s.Key, &s.Value, &s.UpdatedAt); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// ListSettingsByKeys returns the settings whose keys are in keys, as a map.
// Missing keys are simply absent from the result.
func (q *Queries) ListSettingsByKeys(ctx context.Context, keys []string) (map[string]string, error) {
	if len(keys) == 0 {
		return map[string]string{}, nil
	}

	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	query := "SELECT key, value FROM site_settings WHERE key IN (" +
		strings.Repeat("?, ", len(keys)-1) + "?)"

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]string, len(keys))
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		result[k] = v
	}
	return result, rows.Err()
}

// UpsertSetting creates or overwrites one setting.
func (q *Queries) UpsertSetting(ctx context.Context, key, value string) (model.Setting, error) {
	var s model.Setting
	err := q.db.QueryRowContext(ctx, `
		INSERT INTO site_settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
		RETURNING id, key, value, updated_at`,
		key, value, time.Now().UTC()).
		Scan(&s.ID, &s.Key, &s.Value, &s.UpdatedAt)
	return s, err
}
