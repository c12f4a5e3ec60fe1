// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/olegiv/yapicms/internal/model"
)

const referenceColumns = "id, slug, logo, website, position, active, created_at, updated_at"

func scanReference(row interface{ Scan(...any) error }) (model.Reference, error) {
	var r model.Reference
	err := row.Scan(&r.ID, &r.Slug, &r.Logo, &r.Website, &r.Position, &r.Active,
		&r.CreatedAt, &r.UpdatedAt)
	return r, err
}

// CreateReferenceParams holds fields for a new client reference.
type CreateReferenceParams struct {
	Slug     string
	Logo     string
	Website  string
	Position int64
	Active   bool
}

// CreateReference inserts a reference row.
func (q *Queries) CreateReference(ctx context.Context, p CreateReferenceParams) (model.Reference, error) {
	now := time.Now().UTC()
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO client_references (slug, logo, website, position, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING `+referenceColumns,
		p.Slug, p.Logo, p.Website, p.Position, p.Active, now, now)
	return scanReference(row)
}

// GetReferenceByID returns one reference.
func (q *Queries) GetReferenceByID(ctx context.Context, id int64) (model.Reference, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+referenceColumns+" FROM client_references WHERE id = ?", id)
	return scanReference(row)
}

// ListReferences returns references ordered by position. When activeOnly is
// set, inactive rows are excluded.
func (q *Queries) ListReferences(ctx context.Context, activeOnly bool) ([]model.Reference, error) {
	query := "SELECT " + referenceColumns + " FROM client_references"
	if activeOnly {
		query += " WHERE active = 1"
	}
	query += " ORDER BY position ASC, id ASC"

	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []model.Reference
	for rows.Next() {
		r, err := scanReference(rows)
		if err != nil {
			return nil, err
		}
		refs = append(refs, r)
	}
	return refs, rows.Err()
}

// UpdateReferenceParams holds optional scalar fields for a reference update.
type UpdateReferenceParams struct {
	ID       int64
	Logo     *string
	Website  *string
	Position *int64
	Active   *bool
}

// UpdateReference applies the provided scalar fields.
func (q *Queries) UpdateReference(ctx context.Context, p UpdateReferenceParams) error {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}
	if p.Logo != nil {
		sets = append(sets, "logo = ?")
		args = append(args, *p.Logo)
	}
	if p.Website != nil {
		sets = append(sets, "website = ?")
		args = append(args, *p.Website)
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
		"UPDATE client_references SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	return err
}

// DeleteReference removes a reference; content rows cascade.
func (q *Queries) DeleteReference(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM client_references WHERE id = ?", id)
	return err
}

// UpsertReferenceContentParams holds optional localized reference text.
type UpsertReferenceContentParams struct {
	ReferenceID int64
	Language    model.Language
	Name        *string
	Description *string
}

// UpsertReferenceContent writes localized reference text, keeping
// unspecified fields.
func (q *Queries) UpsertReferenceContent(ctx context.Context, p UpsertReferenceContentParams) error {
	var fields []contentField
	fields = setField(fields, "name", p.Name)
	fields = setField(fields, "description", p.Description)
	return q.upsertLocalized(ctx, "reference_contents", "reference_id", p.ReferenceID, p.Language, fields)
}

// GetReferenceContent returns the reference text for one language.
func (q *Queries) GetReferenceContent(ctx context.Context, referenceID int64, lang model.Language) (model.ReferenceContent, error) {
	var rc model.ReferenceContent
	err := q.db.QueryRowContext(ctx, `
		SELECT id, reference_id, language, name, description
		FROM reference_contents WHERE reference_id = ? AND language = ?`,
		referenceID, string(lang)).
		Scan(&rc.ID, &rc.ReferenceID, &rc.Language, &rc.Name, &rc.Description)
	return rc, err
}

// ReferenceContentUpdate carries localized reference text for one language.
type ReferenceContentUpdate struct {
	Language model.Language
	Content  *UpsertReferenceContentParams
}

// CreateReferenceFull creates a reference with localized content in one
// transaction.
func (s *Store) CreateReferenceFull(ctx context.Context, scalars CreateReferenceParams, updates []ReferenceContentUpdate) (model.Reference, error) {
	var ref model.Reference
	err := s.execTx(ctx, func(q *Queries) error {
		var err error
		ref, err = q.CreateReference(ctx, scalars)
		if err != nil {
			return err
		}
		for _, u := range updates {
			if u.Content == nil {
				continue
			}
			u.Content.ReferenceID = ref.ID
			u.Content.Language = u.Language
			if err := q.UpsertReferenceContent(ctx, *u.Content); err != nil {
				return err
			}
		}
		return nil
	})
	return ref, err
}

// UpdateReferenceFull applies scalar changes and content upserts in one
// transaction, then returns the reference row.
func (s *Store) UpdateReferenceFull(ctx context.Context, scalars UpdateReferenceParams, updates []ReferenceContentUpdate) (model.Reference, error) {
	var ref model.Reference
	err := s.execTx(ctx, func(q *Queries) error {
		if _, err := q.GetReferenceByID(ctx, scalars.ID); err != nil {
			return err
		}
		if err := q.UpdateReference(ctx, scalars); err != nil {
			return err
		}
		for _, u := range updates {
			if u.Content == nil {
				continue
			}
			u.Content.ReferenceID = scalars.ID
			u.Content.Language = u.Language
			if err := q.UpsertReferenceContent(ctx, *u.Content); err != nil {
				return err
			}
		}
		var err error
		ref, err = q.GetReferenceByID(ctx, scalars.ID)
		return err
	})
	return ref, err
}

// ReorderReferences applies new positions inside a single transaction.
func (s *Store) ReorderReferences(ctx context.Context, updates []PositionUpdate) error {
	return s.execTx(ctx, func(q *Queries) error {
		for _, u := range updates {
			res, err := q.db.ExecContext(ctx,
				"UPDATE client_references SET position = ?, updated_at = ? WHERE id = ?",
				u.Position, time.Now().UTC(), u.ID)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("reference %d: %w", u.ID, ErrForeignRow)
			}
		}
		return nil
	})
}

// GetReferenceView assembles a reference with its content for one language.
func (q *Queries) GetReferenceView(ctx context.Context, ref model.Reference, lang model.Language) (model.ReferenceView, error) {
	view := model.ReferenceView{Reference: ref}
	content, err := q.GetReferenceContent(ctx, ref.ID, lang)
	switch {
	case err == nil:
		view.Content = &content
	case !errors.Is(err, sql.ErrNoRows):
		return view, err
	}
	return view, nil
}
