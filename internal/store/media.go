// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/olegiv/yapicms/internal/model"
)

const mediaColumns = "id, filename, original_name, mime_type, size, path, thumbnail_path, alt, type, created_at"

func scanMedia(row interface{ Scan(...any) error }) (model.Media, error) {
	var m model.Media
	err := row.Scan(&m.ID, &m.Filename, &m.OriginalName, &m.MimeType, &m.Size,
		&m.Path, &m.ThumbnailPath, &m.Alt, &m.Type, &m.CreatedAt)
	return m, err
}

// CreateMediaParams holds fields for a stored upload.
type CreateMediaParams struct {
	Filename      string
	OriginalName  string
	MimeType      string
	Size          int64
	Path          string
	ThumbnailPath string
	Alt           string
	Type          string
}

// CreateMedia inserts a media row and returns it.
func (q *Queries) CreateMedia(ctx context.Context, p CreateMediaParams) (model.Media, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO media (filename, original_name, mime_type, size, path, thumbnail_path, alt, type, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+mediaColumns,
		p.Filename, p.OriginalName, p.MimeType, p.Size, p.Path, p.ThumbnailPath, p.Alt, p.Type,
		time.Now().UTC())
	return scanMedia(row)
}

// GetMediaByID returns one media row.
func (q *Queries) GetMediaByID(ctx context.Context, id int64) (model.Media, error) {
	row := q.db.QueryRowContext(ctx, "SELECT "+mediaColumns+" FROM media WHERE id = ?", id)
	return scanMedia(row)
}

// ListMediaParams filters the media listing.
type ListMediaParams struct {
	Type   string // image, video or empty for all
	Limit  int64
	Offset int64
}

// ListMedia returns media rows, newest first.
func (q *Queries) ListMedia(ctx context.Context, p ListMediaParams) ([]model.Media, error) {
	query := "SELECT " + mediaColumns + " FROM media"
	args := []any{}
	if p.Type != "" {
		query += " WHERE type = ?"
		args = append(args, p.Type)
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, p.Limit, p.Offset)

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.Media
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// CountMedia returns the number of media rows, optionally by type.
func (q *Queries) CountMedia(ctx context.Context, mediaType string) (int64, error) {
	var n int64
	var err error
	if mediaType == "" {
		err = q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM media").Scan(&n)
	} else {
		err = q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM media WHERE type = ?", mediaType).Scan(&n)
	}
	return n, err
}

// UpdateMediaAlt sets the alt text of a media row and returns it.
func (q *Queries) UpdateMediaAlt(ctx context.Context, id int64, alt string) (model.Media, error) {
	row := q.db.QueryRowContext(ctx,
		"UPDATE media SET alt = ? WHERE id = ? RETURNING "+mediaColumns, alt, id)
	return scanMedia(row)
}

// DeleteMedia removes a media row.
func (q *Queries) DeleteMedia(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM media WHERE id = ?", id)
	return err
}
