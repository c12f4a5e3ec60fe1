// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/olegiv/yapicms/internal/model"
)

const serviceColumns = "id, slug, icon, position, active, created_at, updated_at"

func scanService(row interface{ Scan(...any) error }) (model.Service, error) {
	var s model.Service
	err := row.Scan(&s.ID, &s.Slug, &s.Icon, &s.Position, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// CreateServiceParams holds fields for a new service.
type CreateServiceParams struct {
	Slug     string
	Icon     string
	Position int64
	Active   bool
}

// CreateService inserts a service row.
func (q *Queries) CreateService(ctx context.Context, p CreateServiceParams) (model.Service, error) {
	if p.Icon == "" {
		p.Icon = model.DefaultServiceIcon
	}
	now := time.Now().UTC()
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO services (slug, icon, position, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING `+serviceColumns,
		p.Slug, p.Icon, p.Position, p.Active, now, now)
	return scanService(row)
}

// GetServiceByID returns one service.
func (q *Queries) GetServiceByID(ctx context.Context, id int64) (model.Service, error) {
	row := q.db.QueryRowContext(ctx, "SELECT "+serviceColumns+" FROM services WHERE id = ?", id)
	return scanService(row)
}

// GetServiceBySlug returns one service by slug.
func (q *Queries) GetServiceBySlug(ctx context.Context, slug string) (model.Service, error) {
	row := q.db.QueryRowContext(ctx, "SELECT "+serviceColumns+" FROM services WHERE slug = ?", slug)
	return scanService(row)
}

// ListServices returns services ordered by position. When activeOnly is set,
// inactive rows are excluded.
func (q *Queries) ListServices(ctx context.Context, activeOnly bool) ([]model.Service, error) {
	query := "SELECT " + serviceColumns + " FROM services"
	if activeOnly {
		query += " WHERE active = 1"
	}
	query += " ORDER BY position ASC, id ASC"

	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []model.Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

// UpdateServiceParams holds optional scalar fields for a service update.
type UpdateServiceParams struct {
	ID       int64
	Icon     *string
	Position *int64
	Active   *bool
}

// UpdateService applies the provided scalar fields.
func (q *Queries) UpdateService(ctx context.Context, p UpdateServiceParams) error {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}
	if p.Icon != nil {
		sets = append(sets, "icon = ?")
		args = append(args, *p.Icon)
	}
	if p.Position != nil {
		sets = append(sets, "position = ?")
		args = append(args, *p.Position)
	}
	if p.Active != nil {
		sets = append(sets, "active = ?")
		args = append(args, *p.Active)
	}
	args = append(args, p.ID)
	_, err := q.db.ExecContext(ctx,
		"UPDATE services SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	return err
}

// DeleteService removes a service; content and feature rows cascade.
func (q *Queries) DeleteService(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM services WHERE id = ?", id)
	return err
}

// UpsertServiceContentParams holds optional localized service text.
type UpsertServiceContentParams struct {
	ServiceID   int64
	Language    model.Language
	Title       *string
	Description *string
}

// UpsertServiceContent writes localized service text, keeping unspecified
// fields.
func (q *Queries) UpsertServiceContent(ctx context.Context, p UpsertServiceContentParams) error {
	var fields []contentField
	fields = setField(fields, "title", p.Title)
	fields = setField(fields, "description", p.Description)
	return q.upsertLocalized(ctx, "service_contents", "service_id", p.ServiceID, p.Language, fields)
}

// GetServiceContent returns the service text for one language.
func (q *Queries) GetServiceContent(ctx context.Context, serviceID int64, lang model.Language) (model.ServiceContent, error) {
	var sc model.ServiceContent
	err := q.db.QueryRowContext(ctx, `
		SELECT id, service_id, language, title, description
		FROM service_contents WHERE service_id = ? AND language = ?`,
		serviceID, string(lang)).
		Scan(&sc.ID, &sc.ServiceID, &sc.Language, &sc.Title, &sc.Description)
	return sc, err
}

// ReplaceServiceFeatures swaps the feature list of a service for one
// language. Position follows list order.
func (q *Queries) ReplaceServiceFeatures(ctx context.Context, serviceID int64, lang model.Language, texts []string) error {
	if _, err := q.db.ExecContext(ctx,
		"DELETE FROM service_features WHERE service_id = ? AND language = ?",
		serviceID, string(lang)); err != nil {
		return err
	}
	for i, text := range texts {
		if _, err := q.db.ExecContext(ctx, `
			INSERT INTO service_features (service_id, language, text, position)
			VALUES (?, ?, ?, ?)`,
			serviceID, string(lang), text, i); err != nil {
			return err
		}
	}
	return nil
}

// ListServiceFeatures returns the features of a service for one language,
// ordered by position.
func (q *Queries) ListServiceFeatures(ctx context.Context, serviceID int64, lang model.Language) ([]model.ServiceFeature, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, service_id, language, text, position FROM service_features
		WHERE service_id = ? AND language = ? ORDER BY position ASC, id ASC`,
		serviceID, string(lang))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var features []model.ServiceFeature
	for rows.Next() {
		var f model.ServiceFeature
		if err := rows.Scan(&f.ID, &f.ServiceID, &f.Language, &f.Text, &f.Position); err != nil {
			return nil, err
		}
		features = append(features, f)
	}
	return features, rows.Err()
}

// ServiceContentUpdate carries localized service text and an optional
// feature list for one language.
type ServiceContentUpdate struct {
	Language model.Language
	Content  *UpsertServiceContentParams
	Features *[]string // nil leaves the list untouched
}

// CreateServiceFull creates a service with content and features in one
// transaction.
func (s *Store) CreateServiceFull(ctx context.Context, scalars CreateServiceParams, updates []ServiceContentUpdate) (model.Service, error) {
	var svc model.Service
	err := s.execTx(ctx, func(q *Queries) error {
		var err error
		svc, err = q.CreateService(ctx, scalars)
		if err != nil {
			return err
		}
		return applyServiceContent(ctx, q, svc.ID, updates)
	})
	return svc, err
}

// UpdateServiceFull applies scalar changes, content upserts and feature
// replacement in one transaction, then returns the service row.
func (s *Store) UpdateServiceFull(ctx context.Context, scalars UpdateServiceParams, updates []ServiceContentUpdate) (model.Service, error) {
	var svc model.Service
	err := s.execTx(ctx, func(q *Queries) error {
		if _, err := q.GetServiceByID(ctx, scalars.ID); err != nil {
			return err
		}
		if err := q.UpdateService(ctx, scalars); err != nil {
			return err
		}
		if err := applyServiceContent(ctx, q, scalars.ID, updates); err != nil {
			return err
		}
		var err error
		svc, err = q.GetServiceByID(ctx, scalars.ID)
		return err
	})
	return svc, err
}

func applyServiceContent(ctx context.Context, q *Queries, serviceID int64, updates []ServiceContentUpdate) error {
	for _, u := range updates {
		if u.Content != nil {
			u.Content.ServiceID = serviceID
			u.Content.Language = u.Language
			if err := q.UpsertServiceContent(ctx, *u.Content); err != nil {
				return err
			}
		}
		if u.Features != nil {
			if err := q.ReplaceServiceFeatures(ctx, serviceID, u.Language, *u.Features); err != nil {
				return err
			}
		}
	}
	return nil
}

// GetServiceView assembles a service with content and features for one
// language.
func (q *Queries) GetServiceView(ctx context.Context, svc model.Service, lang model.Language) (model.ServiceView, error) {
	view := model.ServiceView{Service: svc}

	content, err := q.GetServiceContent(ctx, svc.ID, lang)
	switch {
	case err == nil:
		view.Content = &content
	case !errors.Is(err, sql.ErrNoRows):
		return view, err
	}

	if view.Features, err = q.ListServiceFeatures(ctx, svc.ID, lang); err != nil {
		return view, err
	}
	return view, nil
}
